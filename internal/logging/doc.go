// Package logging provides structured logging utilities for workspace-mcp.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email anonymization, token masking)
//   - Consistent attribute naming across the codebase
//   - A distinguishable marker for security-relevant rejections so they
//     can be alerted on separately from routine failures
package logging
