// Package runtime provides the execution context for splice commands.
//
// It encapsulates the shared dependencies commands need, such as the
// timeline, its undo history, the logger and the loaded configuration.
package runtime
