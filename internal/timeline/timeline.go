package timeline

import (
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"splice.dev/splice/internal/errors"
	"splice.dev/splice/internal/groups"
	"splice.dev/splice/internal/ids"
	"splice.dev/splice/internal/item"
	"splice.dev/splice/internal/snap"
	"splice.dev/splice/internal/track"
	"splice.dev/splice/internal/undo"
)

// DefaultSnapTolerance is the largest distance at which a position snaps
const DefaultSnapTolerance = 10

// Undo labels
const (
	labelMoveItem          = "Move clip"
	labelMoveComposition   = "Move composition"
	labelMoveGroup         = "Move group"
	labelInsertClip        = "Insert Clip"
	labelInsertComposition = "Insert Composition"
	labelDeleteClip        = "Delete Clip"
	labelDeleteComposition = "Delete Composition"
	labelRemoveGroup       = "Remove group"
	labelResize            = "Resize clip"
	labelGroup             = "Group clips"
	labelUngroup           = "Ungroup clips"
	labelInsertTrack       = "Insert Track"
	labelDeleteTrack       = "Delete Track"
	labelReset             = "Reset timeline"
)

// Metric operation names
const (
	opMove        = "move"
	opGroupMove   = "group_move"
	opInsert      = "insert"
	opDelete      = "delete"
	opGroupDelete = "group_delete"
	opResize      = "resize"
	opGroup       = "group"
	opUngroup     = "ungroup"
	opTrackInsert = "track_insert"
	opTrackDelete = "track_delete"
	opReset       = "reset"
	opUndo        = "undo"
	opRedo        = "redo"
)

// Timeline owns the tracks, the item registry and the group forest.
// Thread-safe: All methods are safe for concurrent use. Mutations hold the
// write lock for their whole duration, cascades included; queries share the
// read lock.
type Timeline struct {
	tracks   []TrackModel       // in track order
	trackIdx map[int]TrackModel // track id -> track
	items    map[int]*item.Item // clip and composition registry
	groups   *groups.Forest
	snaps    SnapIndex

	ids           *ids.Allocator
	factory       item.Factory
	newTrack      TrackFactory
	log           UndoLog
	logger        *slog.Logger
	metrics       MetricsRecorder
	snapTolerance int
	trial         bool // set while a trial operation runs

	mu sync.RWMutex
}

// Option configures a Timeline
type Option func(*Timeline)

// WithLogger sets the logger; output is discarded by default
func WithLogger(logger *slog.Logger) Option {
	return func(t *Timeline) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithUndoStack sets the undo log
func WithUndoStack(log UndoLog) Option {
	return func(t *Timeline) {
		if log != nil {
			t.log = log
		}
	}
}

// WithSnapTolerance sets the snap window
func WithSnapTolerance(tolerance int) Option {
	return func(t *Timeline) {
		if tolerance >= 0 {
			t.snapTolerance = tolerance
		}
	}
}

// WithAllocator sets the id allocator shared by tracks, items and groups
func WithAllocator(alloc *ids.Allocator) Option {
	return func(t *Timeline) {
		if alloc != nil {
			t.ids = alloc
		}
	}
}

// WithFactory sets the item factory
func WithFactory(f item.Factory) Option {
	return func(t *Timeline) {
		if f != nil {
			t.factory = f
		}
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m MetricsRecorder) Option {
	return func(t *Timeline) {
		if m != nil {
			t.metrics = m
		}
	}
}

// WithTrackFactory sets the constructor used for new tracks
func WithTrackFactory(f TrackFactory) Option {
	return func(t *Timeline) {
		if f != nil {
			t.newTrack = f
		}
	}
}

// WithSnapIndex sets the snap index tracks register item boundaries in
func WithSnapIndex(s SnapIndex) Option {
	return func(t *Timeline) {
		if s != nil {
			t.snaps = s
		}
	}
}

// New creates an empty timeline
func New(opts ...Option) *Timeline {
	t := &Timeline{
		trackIdx:      make(map[int]TrackModel),
		items:         make(map[int]*item.Item),
		snaps:         snap.New(),
		ids:           ids.NewAllocator(0),
		factory:       item.DefaultFactory{},
		newTrack:      defaultTrack,
		log:           undo.NewStack(undo.DefaultMaxDepth),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:       noopMetrics{},
		snapTolerance: DefaultSnapTolerance,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.groups = groups.New(t.ids)
	return t
}

func defaultTrack(id int, snaps SnapIndex) TrackModel {
	return track.New(id, snaps)
}

// observe records the outcome of a public request. Use as
// defer t.observe(op, time.Now(), &err).
func (t *Timeline) observe(op string, start time.Time, err *error) {
	t.metrics.Observe(op, *err == nil, time.Since(start))
}

// rollback reverts a partially applied local transaction
func (t *Timeline) rollback(op string, local *undo.Transaction, cause error) {
	if local.Empty() {
		return
	}
	errors.Check(local.Undo(), "rollback of %s failed after: %v", op, cause)
	if t.trial {
		return
	}
	t.metrics.Rollback(op)
	t.logger.Debug("rolled back", "op", op, "steps", local.Len(), "cause", cause)
}

// tryTx runs fn against a scratch transaction and reverses whatever it
// applied. Rollbacks inside fn are not recorded.
func (t *Timeline) tryTx(what string, id int, fn func(tx *undo.Transaction) error) error {
	t.trial = true
	defer func() { t.trial = false }()

	trial := undo.New()
	err := fn(trial)
	errors.Check(trial.Undo(), "could not reverse trial %s of item %d", what, id)
	return err
}

// commit pushes tx onto the undo log when requested
func (t *Timeline) commit(label string, tx *undo.Transaction, logUndo bool) {
	if !logUndo || tx.Empty() {
		return
	}
	t.log.Push(label, tx)
}

func (t *Timeline) item(id int) (*item.Item, error) {
	it, ok := t.items[id]
	if !ok {
		return nil, errors.NewItemNotFoundError(id)
	}
	return it, nil
}

func (t *Timeline) mustItem(id int) *item.Item {
	it, ok := t.items[id]
	errors.Check(ok, "item %d is not registered", id)
	return it
}

func (t *Timeline) track(id int) (TrackModel, error) {
	tr, ok := t.trackIdx[id]
	if !ok {
		return nil, errors.NewTrackNotFoundError(id)
	}
	return tr, nil
}

func (t *Timeline) mustTrack(id int) TrackModel {
	tr, ok := t.trackIdx[id]
	errors.Check(ok, "track %d is not registered", id)
	return tr
}

// trackPosition returns the index of a track in the sequence, -1 if unknown
func (t *Timeline) trackPosition(id int) int {
	return slices.IndexFunc(t.tracks, func(tr TrackModel) bool { return tr.ID() == id })
}

// registerItemAction adds it to the item registry and the group forest
func (t *Timeline) registerItemAction(it *item.Item) undo.Action {
	return undo.NewAction("register item", func() bool {
		_, exists := t.items[it.ID]
		errors.Check(!exists, "item %d is already registered", it.ID)
		t.items[it.ID] = it
		t.groups.CreateGroupItem(it.ID)
		return true
	})
}

// deregisterItemAction removes an unplaced, ungrouped item from the registry
func (t *Timeline) deregisterItemAction(id int) undo.Action {
	return undo.NewAction("deregister item", func() bool {
		it := t.mustItem(id)
		errors.Check(!it.Placed(), "cannot deregister item %d: still on track %d", id, it.TrackID)
		errors.Check(!t.groups.IsInGroup(id), "cannot deregister item %d: still grouped", id)
		t.groups.RemoveItem(id)
		delete(t.items, id)
		return true
	})
}

// registerTrackAction inserts tr at position in the track sequence
func (t *Timeline) registerTrackAction(tr TrackModel, position int) undo.Action {
	return undo.NewAction("register track", func() bool {
		_, exists := t.trackIdx[tr.ID()]
		errors.Check(!exists, "track %d is already registered", tr.ID())
		errors.Check(position >= 0 && position <= len(t.tracks), "track position %d out of range", position)
		t.tracks = slices.Insert(t.tracks, position, tr)
		t.trackIdx[tr.ID()] = tr
		return true
	})
}

// deregisterTrackAction removes an empty track from the sequence
func (t *Timeline) deregisterTrackAction(id int) undo.Action {
	return undo.NewAction("deregister track", func() bool {
		tr := t.mustTrack(id)
		errors.Check(tr.ClipsCount()+tr.CompositionsCount() == 0, "cannot deregister track %d: not empty", id)
		pos := t.trackPosition(id)
		t.tracks = slices.Delete(t.tracks, pos, pos+1)
		delete(t.trackIdx, id)
		return true
	})
}
