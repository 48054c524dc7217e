// Package docs_tools provides MCP tools for interacting with Google Docs.
//
// This package registers tools that allow AI assistants to:
//   - Search for documents and list documents in Drive folders
//   - Retrieve document content, including tab-structured documents
//   - Create documents and edit text with index-based or find/replace operations
//   - Apply character formatting and insert tables, page breaks, and images
//   - Work with comment threads (list, add, reply, resolve)
//
// Write tools are skipped when the server runs in read-only mode.
package docs_tools
