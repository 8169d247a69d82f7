// Package cli implements the command-line interface for cc-courses.
//
// The cli package provides the Cobra command tree: serve (HTTP API, webhook
// and search page), search, check (snapshot diff with notifier fan-out),
// export (Markdown/PDF), tui, mcp and config. Every command loads settings
// through internal/config before it runs and logs through internal/logger.
package cli
