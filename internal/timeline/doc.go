// Package timeline is the single entry point for every change to the
// structure of a multitrack edit.
//
// It owns:
//   - The ordered sequence of tracks
//   - The registry of clips and compositions
//   - The group forest that binds items into rigid selections
//
// Each public request validates its arguments, places items through the track
// collaborator, consults the snap index for interactive suggestions, and builds
// a reversible transaction. A request that fails partway reverts whatever it
// had already done before returning. Requests made with logUndo push their
// transaction onto the undo log under a human-readable label.
package timeline
