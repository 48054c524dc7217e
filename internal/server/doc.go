// Package server provides the MCP server context, the OAuth authorization
// flow, and operational HTTP endpoints for the workspace-mcp application.
//
// # Key Components
//
// ServerContext manages Google API clients with lazy initialization and
// caching. It supports multiple accounts and holds the persistent OAuth
// state store shared by all authorization flows.
//
// AuthFlow drives the OAuth authorization-code flow. Every consent URL
// carries a single-use state token backed by the oauthstate.Store, so
// callbacks are validated against persistent state that survives server
// restarts. States may be bound to an MCP session, in which case the
// callback must present the same session or the state is rejected and
// discarded.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolating
// operational metrics from application traffic.
//
// HealthChecker provides liveness and readiness endpoints for Kubernetes
// probes.
package server
