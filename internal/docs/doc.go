// Package docs provides functionality for interacting with the Google Docs
// API.
//
// This package includes a client for authenticating with the Docs and Drive
// APIs using OAuth2, retrieving document content (including multi-tab
// documents introduced in October 2024), building batchUpdate requests for
// document edits, and searching Docs via the Drive API.
//
// The package handles:
//   - Document retrieval via the Docs API (tab-aware)
//   - Document search and folder listing via the Drive API
//   - Request builders for text insertion, deletion, formatting,
//     find/replace, tables, page breaks, bulleted lists and inline images
//   - Heterogeneous batch edits assembled into a single atomic batchUpdate
package docs
