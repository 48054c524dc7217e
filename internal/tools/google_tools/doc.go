// Package google_tools provides MCP tools for Google OAuth authentication.
//
// This package registers tools that allow AI assistants to:
//   - Start the OAuth authorization flow for a Google account
//   - Complete authentication with a manually pasted authorization code
//   - Check which accounts are currently authenticated
//
// Authorization flows started here issue single-use state tokens backed by
// the persistent OAuth state store, so pending flows survive server
// restarts and replayed callbacks are rejected.
package google_tools
