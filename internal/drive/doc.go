// Package drive provides functionality for interacting with the Google
// Drive API.
//
// The client covers the Drive surface the MCP tools need: file search by
// name, metadata retrieval with the full permission list, and helpers for
// judging whether a file is shared with "anyone with the link" (required
// before its URL can be embedded into a Google Doc).
package drive
