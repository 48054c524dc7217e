// Package google provides shared Google OAuth2 authentication for the
// Workspace API clients (Docs, Drive).
//
// Tokens are stored per account as JSON files inside the credentials
// directory, which is resolved from the GOOGLE_MCP_CREDENTIALS_DIR
// environment variable with home-relative and working-directory fallbacks.
// The same directory holds the persisted OAuth state table used by the
// authorization flow.
package google
