// Package errors provides sentinel errors and custom error types for the splice timeline core.
// Use errors.Is() and errors.As() to check for specific error types.
//
// Recoverable failures (placement conflicts, unknown ids at the request boundary)
// are returned as errors after the failed request has been rolled back.
// Internal-consistency violations are programming errors and panic with an
// *InvariantError via Invariant.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrItemNotFound indicates that no clip or composition has the given id
	ErrItemNotFound = errors.New("item not found")

	// ErrTrackNotFound indicates that no track has the given id
	ErrTrackNotFound = errors.New("track not found")

	// ErrPlacementConflict indicates that the target interval on a track is occupied or invalid
	ErrPlacementConflict = errors.New("placement conflict")

	// ErrTrackOutOfRange indicates that a track position lies outside the track sequence
	ErrTrackOutOfRange = errors.New("track position out of range")

	// ErrResizeRejected indicates that a resize would overlap a neighbour or exceed the source
	ErrResizeRejected = errors.New("resize rejected")

	// ErrNotGrouped indicates that an ungroup request targeted an item that has no group
	ErrNotGrouped = errors.New("item is not grouped")

	// ErrInvalidGroupMember indicates that a group request named an unplaced item or an unknown id
	ErrInvalidGroupMember = errors.New("invalid group member")

	// ErrNothingToUndo indicates that the undo log has no entry before its cursor
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates that the undo log has no entry after its cursor
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrReplayFailed indicates that a logged transaction did not replay cleanly
	ErrReplayFailed = errors.New("transaction replay failed")
)

// ItemNotFoundError represents an error when an item id is unknown
type ItemNotFoundError struct {
	ID int
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %d does not exist", e.ID)
}

// Is returns true if the target error is ErrItemNotFound
func (e *ItemNotFoundError) Is(target error) bool {
	return target == ErrItemNotFound
}

// NewItemNotFoundError creates a new ItemNotFoundError
func NewItemNotFoundError(id int) *ItemNotFoundError {
	return &ItemNotFoundError{ID: id}
}

// TrackNotFoundError represents an error when a track id is unknown
type TrackNotFoundError struct {
	ID int
}

func (e *TrackNotFoundError) Error() string {
	return fmt.Sprintf("track %d does not exist", e.ID)
}

// Is returns true if the target error is ErrTrackNotFound
func (e *TrackNotFoundError) Is(target error) bool {
	return target == ErrTrackNotFound
}

// NewTrackNotFoundError creates a new TrackNotFoundError
func NewTrackNotFoundError(id int) *TrackNotFoundError {
	return &TrackNotFoundError{ID: id}
}

// PlacementError represents a rejected placement of an item on a track
type PlacementError struct {
	ItemID   int
	TrackID  int
	Position int
	Reason   string
}

func (e *PlacementError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot place item %d on track %d at %d: %s", e.ItemID, e.TrackID, e.Position, e.Reason)
	}
	return fmt.Sprintf("cannot place item %d on track %d at %d", e.ItemID, e.TrackID, e.Position)
}

// Is returns true if the target error is ErrPlacementConflict
func (e *PlacementError) Is(target error) bool {
	return target == ErrPlacementConflict
}

// NewPlacementError creates a new PlacementError
func NewPlacementError(itemID, trackID, position int, reason string) *PlacementError {
	return &PlacementError{
		ItemID:   itemID,
		TrackID:  trackID,
		Position: position,
		Reason:   reason,
	}
}

// ResizeError represents a rejected resize of an item
type ResizeError struct {
	ItemID int
	Size   int
	Reason string
}

func (e *ResizeError) Error() string {
	return fmt.Sprintf("cannot resize item %d to %d: %s", e.ItemID, e.Size, e.Reason)
}

// Is returns true if the target error is ErrResizeRejected
func (e *ResizeError) Is(target error) bool {
	return target == ErrResizeRejected
}

// NewResizeError creates a new ResizeError
func NewResizeError(itemID, size int, reason string) *ResizeError {
	return &ResizeError{ItemID: itemID, Size: size, Reason: reason}
}

// InvariantError is the panic value raised when the timeline structure is found
// in a state that can only result from a programming error.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return "timeline invariant violated: " + e.Message
}

// Invariant panics with an *InvariantError built from format and args.
func Invariant(format string, args ...any) {
	panic(&InvariantError{Message: fmt.Sprintf(format, args...)})
}

// Check panics with an *InvariantError when cond is false.
func Check(cond bool, format string, args ...any) {
	if !cond {
		Invariant(format, args...)
	}
}
