// Package drive_tools provides MCP tools for inspecting Google Drive file
// permissions and public link sharing, used when embedding Drive-hosted
// images into documents.
package drive_tools
