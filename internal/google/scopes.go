package google

// DefaultOAuthScopes are the Google OAuth scopes required for full MCP
// functionality. These scopes are used consistently across the application
// for OAuth configurations.
//
// The scopes provide access to:
//   - Google Docs: full access (content reads and batchUpdate writes)
//   - Google Drive: full access (search, metadata, permissions, comments)
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Docs scope
	"https://www.googleapis.com/auth/documents",

	// Google Drive scope
	"https://www.googleapis.com/auth/drive",
}
