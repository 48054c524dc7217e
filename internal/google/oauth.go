package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultAccount is the account name used when the caller does not specify
// one.
const DefaultAccount = "default"

// GetOAuthConfig returns the OAuth2 configuration for all Google services.
// Client credentials come from the GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET
// environment variables; redirectURL is the loopback callback endpoint of
// the local authorization flow.
func GetOAuthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       DefaultOAuthScopes,
	}
}

// GetAuthURL returns the Google consent URL for the given state token.
// Offline access is requested so a refresh token is issued.
func GetAuthURL(redirectURL, state string) string {
	conf := GetOAuthConfig(redirectURL)
	return conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// HasTokenForAccount checks if a stored OAuth token exists for the
// specified account.
func HasTokenForAccount(account string) bool {
	path, err := tokenFilePath(account)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// HasToken checks if a stored OAuth token exists for the default account.
func HasToken() bool {
	return HasTokenForAccount(DefaultAccount)
}

// SaveTokenForAccount exchanges an authorization code for tokens and saves
// them for a specific account.
func SaveTokenForAccount(ctx context.Context, account, redirectURL, authCode string) error {
	conf := GetOAuthConfig(redirectURL)

	token, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	return StoreTokenForAccount(account, token)
}

// StoreTokenForAccount writes an already-acquired token to the account's
// token file.
func StoreTokenForAccount(account string, token *oauth2.Token) error {
	path, err := tokenFilePath(account)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// GetTokenForAccount reads the stored token for an account.
func GetTokenForAccount(account string) (*oauth2.Token, error) {
	path, err := tokenFilePath(account)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s", account)
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("invalid token file for account %s: %w", account, err)
	}

	return token, nil
}

// GetTokenSourceForAccount returns an auto-refreshing token source for the
// stored token of an account.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	token, err := GetTokenForAccount(account)
	if err != nil {
		return nil, err
	}

	conf := GetOAuthConfig("")
	return conf.TokenSource(ctx, token), nil
}

// GetHTTPClientForAccount returns an HTTP client configured with OAuth2
// authentication for an account. The client is configured to use HTTP/1.1
// to avoid HTTP/2 protocol errors with the Google APIs.
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	return client, nil
}

// GetAuthenticationErrorMessage builds the guidance shown when a tool is
// invoked for an account that has not completed the authorization flow.
func GetAuthenticationErrorMessage(account string) string {
	return fmt.Sprintf(`No Google authorization found for account %q.

Run the authorization flow first:

  workspace-mcp auth --account %s

or call the google_start_auth tool and follow the consent URL.`, account, account)
}
