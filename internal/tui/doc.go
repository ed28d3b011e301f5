// Package tui provides the interactive terminal views for splice.
//
// The history browser steps a timeline backwards and forwards through its
// undo log with bubbletea, rendering each state with lipgloss.
package tui
