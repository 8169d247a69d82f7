// Package tui is an interactive terminal browser for the course table.
//
// It fetches the table once at start-up, then runs every keystroke through
// the same filter, sort and page pipeline as the web page. Query edits are
// debounced so the table only re-renders once typing pauses.
package tui
