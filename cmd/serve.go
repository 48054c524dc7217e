package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/logging"
	"github.com/teemow/workspace-mcp/internal/oauthstate"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/docs_tools"
	"github.com/teemow/workspace-mcp/internal/tools/drive_tools"
	"github.com/teemow/workspace-mcp/internal/tools/google_tools"
)

// serveOptions holds the resolved configuration for the serve command.
type serveOptions struct {
	Transport        string
	Debug            bool
	HTTPAddr         string
	Yolo             bool
	DisableStreaming bool
	CallbackAddr     string
	StateFile        string
	MetricsEnabled   bool
	MetricsAddr      string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Google Docs
and Drive tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe operations.
  Use --yolo to enable write operations (document edits, comments, etc.)

OAuth Configuration:
  GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars configure the OAuth app.
  Pending authorization state is persisted on disk, so a consent URL issued
  before the MCP host restarts the server still completes afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("metrics-enabled") && os.Getenv("METRICS_ENABLED") == "false" {
				opts.MetricsEnabled = false
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := os.Getenv("METRICS_ADDR"); addr != "" {
					opts.MetricsAddr = addr
				}
			}
			return runServe(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.Transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.HTTPAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.Yolo, "yolo", false, "Enable write operations (document edits, comments, etc.). Default is read-only mode.")
	cmd.Flags().BoolVar(&opts.DisableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().StringVar(&opts.CallbackAddr, "callback-addr", server.DefaultCallbackAddr, "Loopback address for the OAuth callback listener")
	cmd.Flags().StringVar(&opts.StateFile, "state-file", "", "Path to the OAuth state file (default: <credentials dir>/"+oauthstate.StateFileName+")")
	cmd.Flags().BoolVar(&opts.MetricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(opts serveOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(opts.Debug)
	slog.SetDefault(logger)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	// Open the persistent OAuth state store. States issued before a restart
	// survive in this file and still validate afterwards.
	statePath, err := resolveStateFile(opts.StateFile)
	if err != nil {
		return err
	}
	states := oauthstate.New(statePath, logger)

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	serverContext, err := server.NewServerContext(shutdownCtx, states, metrics, logger)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	if provider.Enabled() {
		serverContext.SetAuditLogger(
			instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}

	// Start the OAuth callback listener. Consent URLs issued by the
	// google_start_auth tool redirect here, so the flow completes without
	// the client pasting the authorization code.
	flow := serverContext.AuthFlow()
	callbackURL := fmt.Sprintf("http://%s%s", opts.CallbackAddr, server.CallbackPath)
	flow.SetRedirectURL(callbackURL)

	cbMux := http.NewServeMux()
	cbMux.Handle(server.CallbackPath, flow.CallbackHandler(callbackURL, nil))
	cbServer := &http.Server{
		Addr:              opts.CallbackAddr,
		Handler:           cbMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := cbServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("OAuth callback listener failed", logging.Err(err))
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = cbServer.Shutdown(ctx)
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if opts.Transport != "stdio" && opts.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.MetricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("workspace-mcp", version,
		mcpserver.WithToolCapabilities(true),
	)

	// readOnly is the inverse of yolo
	readOnly := !opts.Yolo

	// Log the mode for visibility (only for non-stdio transports)
	if opts.Transport != "stdio" {
		if readOnly {
			logger.Info("starting server in read-only mode (use --yolo to enable write operations)")
		} else {
			logger.Info("starting server with write operations enabled (--yolo flag is set)")
		}
	}

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	switch opts.Transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, opts, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.Transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, opts serveOptions, logger *slog.Logger) error {
	streamableOpts := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath("/mcp"),
	}
	if opts.DisableStreaming {
		streamableOpts = append(streamableOpts, mcpserver.WithDisableStreaming(true))
	}
	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv, streamableOpts...)

	healthChecker := server.NewHealthChecker(sc)
	healthChecker.SetReady(true)

	mux := http.NewServeMux()
	mux.Handle("/mcp", streamable)
	healthChecker.RegisterHealthEndpoints(mux)

	httpServer := &http.Server{
		Addr:              opts.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	logger.Info("streamable HTTP server listening",
		"addr", opts.HTTPAddr,
		"mcp_endpoint", "/mcp",
	)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	return nil
}

// registerAllTools registers all MCP tools
// Extracted to avoid duplication in serve.go
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Google Auth",
			register: func() error {
				return google_tools.RegisterGoogleTools(mcpSrv, ctx)
			},
		},
		{
			name: "Docs",
			register: func() error {
				return docs_tools.RegisterDocsTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Drive",
			register: func() error {
				return drive_tools.RegisterDriveTools(mcpSrv, ctx, readOnly)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

// newLogger builds the process logger. Log output goes to stderr because
// stdout carries the MCP protocol in stdio mode.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// resolveStateFile returns the path to the OAuth state file, defaulting to
// a file next to the stored tokens.
func resolveStateFile(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	dir, err := google.CredentialsDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve credentials directory: %w", err)
	}
	return filepath.Join(dir, oauthstate.StateFileName), nil
}
