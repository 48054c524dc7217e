package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/logging"
	"github.com/teemow/workspace-mcp/internal/oauthstate"
)

const (
	// StateTTL is how long an issued consent URL remains valid.
	StateTTL = 10 * time.Minute

	// CallbackPath is the OAuth redirect path served by CallbackHandler.
	CallbackPath = "/oauth2callback"

	// DefaultCallbackAddr is the default loopback address for the
	// authorization callback listener.
	DefaultCallbackAddr = "127.0.0.1:8085"

	stateByteLen = 32
)

// AuthFlow drives the OAuth authorization-code flow. Each consent URL
// carries a single-use state token persisted in the oauthstate.Store, so
// callbacks validate against state that survives server restarts.
//
// The state-to-account association is kept in memory only. After a restart
// a surviving state still validates, but the token is saved for the
// default account because the original target is no longer known.
type AuthFlow struct {
	states  *oauthstate.Store
	metrics *instrumentation.Metrics
	logger  *slog.Logger

	mu          sync.Mutex
	accounts    map[string]pendingAccount // state token -> target account
	redirectURL string
}

// pendingAccount records which account a state token targets and when the
// flow started, so abandoned entries can be pruned once the state itself
// has expired.
type pendingAccount struct {
	account  string
	issuedAt time.Time
}

// NewAuthFlow creates a new AuthFlow backed by the given state store.
func NewAuthFlow(states *oauthstate.Store, metrics *instrumentation.Metrics, logger *slog.Logger) *AuthFlow {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return &AuthFlow{
		states:      states,
		metrics:     metrics,
		logger:      logger,
		accounts:    make(map[string]pendingAccount),
		redirectURL: "http://" + DefaultCallbackAddr + CallbackPath,
	}
}

// RedirectURL returns the redirect URL used for tool-initiated flows.
func (f *AuthFlow) RedirectURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.redirectURL
}

// SetRedirectURL changes the redirect URL used for tool-initiated flows.
// Call before starting flows when the callback listener binds a non-default
// address.
func (f *AuthFlow) SetRedirectURL(u string) {
	f.mu.Lock()
	f.redirectURL = u
	f.mu.Unlock()
}

// Start issues a new single-use state token and returns the Google consent
// URL for the given account. If sessionID is non-empty the state is bound
// to that MCP session and a callback presenting a different session is
// rejected.
func (f *AuthFlow) Start(redirectURL, account, sessionID string) (string, error) {
	if account == "" {
		account = google.DefaultAccount
	}

	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	if err := f.states.Issue(state, sessionID, StateTTL); err != nil {
		return "", fmt.Errorf("failed to persist authorization state: %w", err)
	}

	now := time.Now()
	f.mu.Lock()
	// The store's sweep never reaches this map, so flows that never get a
	// callback would otherwise accumulate an entry per issuance.
	for s, pending := range f.accounts {
		if now.Sub(pending.issuedAt) > StateTTL {
			delete(f.accounts, s)
		}
	}
	f.accounts[state] = pendingAccount{account: account, issuedAt: now}
	f.mu.Unlock()

	f.metrics.RecordStateIssued(context.Background())
	f.logger.Info("OAuth authorization started",
		logging.Account(account),
		logging.Session(sessionID),
	)

	return google.GetAuthURL(redirectURL, state), nil
}

// Complete validates a callback and exchanges the authorization code for a
// token. The state is consumed regardless of outcome: a second callback
// with the same state always fails. Returns the account the token was
// saved for.
func (f *AuthFlow) Complete(ctx context.Context, redirectURL, state, code, sessionID string) (string, error) {
	_, err := f.states.ValidateAndConsume(state, sessionID)
	if err != nil {
		f.forgetAccount(state)

		var persistErr *oauthstate.PersistenceError
		switch {
		case errors.As(err, &persistErr):
			f.metrics.RecordStateValidation(ctx, instrumentation.StateResultStoreError)
			f.logger.Error("OAuth state store write failed during callback", logging.Err(err))
		case errors.Is(err, oauthstate.ErrSessionMismatch):
			// The store already emitted the security log for the mismatch.
			f.metrics.RecordStateValidation(ctx, instrumentation.StateResultMismatch)
		default:
			f.metrics.RecordStateValidation(ctx, instrumentation.StateResultInvalid)
			f.logger.Warn("OAuth callback carried an unknown or expired state",
				logging.Session(sessionID),
			)
		}
		return "", err
	}

	f.metrics.RecordStateValidation(ctx, instrumentation.StateResultConsumed)

	account := f.takeAccount(state)
	if err := google.SaveTokenForAccount(ctx, account, redirectURL, code); err != nil {
		return "", fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	f.logger.Info("OAuth authorization completed",
		logging.Account(account),
		logging.Session(sessionID),
	)

	return account, nil
}

// takeAccount returns and removes the account recorded for a state token.
// Falls back to the default account for states issued before a restart.
func (f *AuthFlow) takeAccount(state string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	pending, ok := f.accounts[state]
	delete(f.accounts, state)
	if !ok || pending.account == "" {
		return google.DefaultAccount
	}
	return pending.account
}

func (f *AuthFlow) forgetAccount(state string) {
	f.mu.Lock()
	delete(f.accounts, state)
	f.mu.Unlock()
}

// CallbackHandler returns the HTTP handler for the OAuth redirect endpoint.
// If done is non-nil, the outcome of the first callback is sent on it.
func (f *AuthFlow) CallbackHandler(redirectURL string, done chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := func(err error) {
			if done != nil {
				select {
				case done <- err:
				default:
				}
			}
		}

		query := r.URL.Query()

		if errParam := query.Get("error"); errParam != "" {
			http.Error(w, "Authorization failed: "+errParam, http.StatusBadRequest)
			report(fmt.Errorf("authorization denied: %s", errParam))
			return
		}

		state := query.Get("state")
		code := query.Get("code")
		if state == "" || code == "" {
			http.Error(w, "Missing state or code parameter", http.StatusBadRequest)
			report(errors.New("callback missing state or code parameter"))
			return
		}

		// The loopback redirect carries no MCP session. An empty session
		// places no constraint on the binding, so session-bound states
		// still complete here.
		account, err := f.Complete(r.Context(), redirectURL, state, code, "")
		if err != nil {
			http.Error(w, "Authorization failed. You may close this window and retry.", http.StatusBadRequest)
			report(err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<html><body><h2>Authorization successful</h2>"+
			"<p>Account %q is now authenticated. You can close this window.</p></body></html>", account)
		report(nil)
	})
}

// Authorize runs the complete authorization flow for an account using a
// loopback redirect. The announce callback receives the consent URL that
// the user must open in a browser. Blocks until the callback arrives or
// ctx is done.
func (f *AuthFlow) Authorize(ctx context.Context, account, listenAddr string, announce func(authURL string)) error {
	if listenAddr == "" {
		listenAddr = DefaultCallbackAddr
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", listenAddr, err)
	}

	redirectURL := fmt.Sprintf("http://%s%s", ln.Addr().String(), CallbackPath)

	authURL, err := f.Start(redirectURL, account, "")
	if err != nil {
		_ = ln.Close()
		return err
	}

	done := make(chan error, 1)
	mux := http.NewServeMux()
	mux.Handle(CallbackPath, f.CallbackHandler(redirectURL, done))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if announce != nil {
		announce(authURL)
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// generateState returns a cryptographically random URL-safe state token.
func generateState() (string, error) {
	buf := make([]byte, stateByteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
