package timeline

import (
	"time"

	"splice.dev/splice/internal/item"
	"splice.dev/splice/internal/undo"
)

// TrackModel places items on one track. Every successful request applies its
// change immediately and appends the reverse to tx; a failed request leaves
// the track and tx untouched.
type TrackModel interface {
	ID() int
	Has(itemID int) bool
	RequestInsertion(it *item.Item, position int, tx *undo.Transaction) error
	RequestDeletion(it *item.Item, tx *undo.Transaction) error
	RequestResize(it *item.Item, size int, right bool, tx *undo.Transaction) error

	// BlankSizeNear returns the blank directly after (or before) the item,
	// track.Unbounded when nothing follows it.
	BlankSizeNear(it *item.Item, after bool) int

	ClipsCount() int
	CompositionsCount() int
	Items() []int
	Duration() int
}

// SnapIndex answers nearest-point queries for interactive snapping. Tracks
// register item boundaries in it through AddPoint and RemovePoint.
type SnapIndex interface {
	AddPoint(p int)
	RemovePoint(p int)
	Ignore(pts []int)
	UnIgnore()
	ClosestPoint(pos int) (int, bool)
	NextPoint(pos int) (int, bool)
	PreviousPoint(pos int) (int, bool)
}

// UndoLog records labeled top-level transactions and replays them on demand
type UndoLog interface {
	Push(label string, tx *undo.Transaction)
	Undo() (string, error)
	Redo() (string, error)
}

// MetricsRecorder observes request outcomes
type MetricsRecorder interface {
	Observe(op string, success bool, duration time.Duration)
	Rollback(op string)
}

// TrackFactory builds the track collaborator for a new track id
type TrackFactory func(id int, snaps SnapIndex) TrackModel

type noopMetrics struct{}

func (noopMetrics) Observe(string, bool, time.Duration) {}
func (noopMetrics) Rollback(string)                     {}
