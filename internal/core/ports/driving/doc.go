// Package driving holds the use-case interfaces the CLI, web UI, TUI and MCP
// server call. internal/core/services implements them over the driven ports
// of whichever backend is open.
package driving
