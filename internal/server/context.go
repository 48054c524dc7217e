package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teemow/workspace-mcp/internal/docs"
	"github.com/teemow/workspace-mcp/internal/drive"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/oauthstate"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx          context.Context
	cancel       context.CancelFunc
	docsClients  map[string]*docs.Client  // Maps account name to Docs client
	driveClients map[string]*drive.Client // Maps account name to Drive client
	states       *oauthstate.Store
	flow         *AuthFlow
	metrics      *instrumentation.Metrics
	auditLogger  *instrumentation.AuditLogger
	logger       *slog.Logger
	mu           sync.RWMutex
	shutdown     bool
}

// NewServerContext creates a new server context.
// The state store backs all OAuth authorization flows started by this server.
func NewServerContext(ctx context.Context, states *oauthstate.Store, metrics *instrumentation.Metrics, logger *slog.Logger) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}

	// Initialize client maps
	docsClients := make(map[string]*docs.Client)
	driveClients := make(map[string]*drive.Client)

	// Try to create default Docs client, but don't fail if token is missing
	// Clients will be lazily initialized when first needed
	if docs.HasTokenForAccount("default") {
		docsClient, err := docs.NewClient(shutdownCtx)
		if err != nil {
			// Log but don't fail - will be re-attempted on first use
			logger.Warn("failed to create Docs client for default account", "error", err)
		} else {
			docsClients["default"] = docsClient
		}
	}

	sc := &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		docsClients:  docsClients,
		driveClients: driveClients,
		states:       states,
		metrics:      metrics,
		auditLogger:  instrumentation.NewAuditLogger(logger),
		logger:       logger,
		shutdown:     false,
	}
	sc.flow = NewAuthFlow(states, metrics, logger)

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// StateStore returns the persistent OAuth state store.
func (sc *ServerContext) StateStore() *oauthstate.Store {
	return sc.states
}

// AuthFlow returns the OAuth authorization flow for this server.
func (sc *ServerContext) AuthFlow() *AuthFlow {
	return sc.flow
}

// Metrics returns the metrics recorder for this server.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger for tool invocations.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

// SetAuditLogger replaces the audit logger, e.g. after loading configuration.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.auditLogger = al
}

// Logger returns the logger for this server.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// DocsClientForAccount returns the Docs client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) DocsClientForAccount(account string) *docs.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Check if client already exists
	if client, ok := sc.docsClients[account]; ok {
		return client
	}

	// Try to create client if token exists
	if !docs.HasTokenForAccount(account) {
		return nil
	}

	client, err := docs.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Docs client", "account", account, "error", err)
		return nil
	}

	sc.docsClients[account] = client
	return client
}

// DocsClient returns the Docs client for the default account
func (sc *ServerContext) DocsClient() *docs.Client {
	return sc.DocsClientForAccount("default")
}

// SetDocsClientForAccount sets the Docs client for a specific account
func (sc *ServerContext) SetDocsClientForAccount(account string, client *docs.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.docsClients[account] = client
}

// SetDocsClient sets the Docs client for the default account
func (sc *ServerContext) SetDocsClient(client *docs.Client) {
	sc.SetDocsClientForAccount("default", client)
}

// DriveClientForAccount returns the Drive client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) DriveClientForAccount(account string) *drive.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Check if client already exists
	if client, ok := sc.driveClients[account]; ok {
		return client
	}

	// Try to create client if token exists
	if !drive.HasTokenForAccount(account) {
		return nil
	}

	client, err := drive.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Drive client", "account", account, "error", err)
		return nil
	}

	sc.driveClients[account] = client
	return client
}

// DriveClient returns the Drive client for the default account
func (sc *ServerContext) DriveClient() *drive.Client {
	return sc.DriveClientForAccount("default")
}

// SetDriveClientForAccount sets the Drive client for a specific account
func (sc *ServerContext) SetDriveClientForAccount(account string, client *drive.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.driveClients[account] = client
}

// SetDriveClient sets the Drive client for the default account
func (sc *ServerContext) SetDriveClient(client *drive.Client) {
	sc.SetDriveClientForAccount("default", client)
}

// InvalidateClientsForAccount drops cached clients for an account so they
// are rebuilt from the current token on next use. Call after a token changes.
func (sc *ServerContext) InvalidateClientsForAccount(account string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	delete(sc.docsClients, account)
	delete(sc.driveClients, account)
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
