// Package scenario provides a fluent API for building timeline test setups
// and asserting on the result.
package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"

	"splice.dev/splice/internal/item"
	"splice.dev/splice/internal/timeline"
	"splice.dev/splice/internal/undo"
)

// Scenario provides a fluent API for timeline test setup and assertions.
// Items, groups and tracks are referred to by name.
type Scenario struct {
	T        *testing.T
	Timeline *timeline.Timeline
	History  *undo.Stack
	names    map[string]int
}

// NewScenario creates a scenario over an empty timeline with an unbounded undo log
func NewScenario(t *testing.T, opts ...timeline.Option) *Scenario {
	t.Helper()
	history := undo.NewStack(0)
	opts = append([]timeline.Option{timeline.WithUndoStack(history)}, opts...)
	return &Scenario{
		T:        t,
		Timeline: timeline.New(opts...),
		History:  history,
		names:    make(map[string]int),
	}
}

// ID returns the id bound to name, failing the test when it is unknown
func (s *Scenario) ID(name string) int {
	s.T.Helper()
	id, ok := s.names[name]
	require.True(s.T, ok, "unknown name %q", name)
	return id
}

func (s *Scenario) bind(name string, id int) {
	s.T.Helper()
	_, exists := s.names[name]
	require.False(s.T, exists, "name %q is already bound", name)
	s.names[name] = id
}

// WithTracks appends one track per name, bottom first, without logging
func (s *Scenario) WithTracks(names ...string) *Scenario {
	s.T.Helper()
	for _, name := range names {
		id, err := s.Timeline.RequestTrackInsertion(-1, false)
		require.NoError(s.T, err)
		s.bind(name, id)
	}
	return s
}

// InsertClip inserts a clip of length frames on track at position
func (s *Scenario) InsertClip(name, track string, at, length int) *Scenario {
	s.T.Helper()
	id, err := s.Timeline.RequestClipInsertion(item.Source{Label: name, Frames: length}, s.ID(track), at, true)
	require.NoError(s.T, err)
	s.bind(name, id)
	return s
}

// InsertComposition inserts a composition on track at position
func (s *Scenario) InsertComposition(name, track string, at, length int) *Scenario {
	s.T.Helper()
	id, err := s.Timeline.RequestCompositionInsertion(name, s.ID(track), at, length, true)
	require.NoError(s.T, err)
	s.bind(name, id)
	return s
}

// Group groups the named items and binds the resulting group to name
func (s *Scenario) Group(name string, members ...string) *Scenario {
	s.T.Helper()
	ids := make([]int, 0, len(members))
	for _, m := range members {
		ids = append(ids, s.ID(m))
	}
	gid, err := s.Timeline.RequestItemsGroup(ids, true)
	require.NoError(s.T, err)
	s.bind(name, gid)
	return s
}

// Ungroup dissolves the root group containing the named item
func (s *Scenario) Ungroup(name string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Timeline.RequestItemUngroup(s.ID(name), true))
	return s
}

// Move moves the named item to track at position
func (s *Scenario) Move(name, track string, at int) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Timeline.RequestItemMove(s.ID(name), s.ID(track), at, true))
	return s
}

// MoveFails asserts that moving the named item fails with target
func (s *Scenario) MoveFails(name, track string, at int, target error) *Scenario {
	s.T.Helper()
	err := s.Timeline.RequestItemMove(s.ID(name), s.ID(track), at, true)
	require.ErrorIs(s.T, err, target)
	return s
}

// Resize sets the playtime of the named item, growing from the right edge
// when right is set
func (s *Scenario) Resize(name string, size int, right bool) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Timeline.RequestItemResize(s.ID(name), size, right, false, true))
	return s
}

// Delete deletes the named item, together with its group when it has one
func (s *Scenario) Delete(name string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Timeline.RequestItemDeletion(s.ID(name), true))
	return s
}

// Undo undoes the last logged operation and asserts its label
func (s *Scenario) Undo(label string) *Scenario {
	s.T.Helper()
	actual, err := s.Timeline.Undo()
	require.NoError(s.T, err)
	require.Equal(s.T, label, actual)
	return s
}

// Redo redoes the last undone operation and asserts its label
func (s *Scenario) Redo(label string) *Scenario {
	s.T.Helper()
	actual, err := s.Timeline.Redo()
	require.NoError(s.T, err)
	require.Equal(s.T, label, actual)
	return s
}

// Snapshot returns the current timeline state
func (s *Scenario) Snapshot() timeline.State {
	return s.Timeline.Snapshot()
}

// ExpectPlacement asserts the track and position of the named item
func (s *Scenario) ExpectPlacement(name, track string, at int) *Scenario {
	s.T.Helper()
	id := s.ID(name)
	require.Equal(s.T, s.ID(track), s.Timeline.ItemTrackID(id), "Track of %s does not match", name)
	require.Equal(s.T, at, s.Timeline.ItemPosition(id), "Position of %s does not match", name)
	return s
}

// ExpectPlaytime asserts the playtime of the named item
func (s *Scenario) ExpectPlaytime(name string, playtime int) *Scenario {
	s.T.Helper()
	require.Equal(s.T, playtime, s.Timeline.ItemPlaytime(s.ID(name)), "Playtime of %s does not match", name)
	return s
}

// ExpectRoot asserts that the named item's top-level group is root. An item
// that is its own root passes its own name.
func (s *Scenario) ExpectRoot(name, root string) *Scenario {
	s.T.Helper()
	require.Equal(s.T, s.ID(root), s.Timeline.RootID(s.ID(name)), "Root of %s does not match", name)
	return s
}

// ExpectState asserts that the timeline matches a snapshot taken earlier
func (s *Scenario) ExpectState(expected timeline.State) *Scenario {
	s.T.Helper()
	require.Equal(s.T, expected, s.Timeline.Snapshot())
	return s
}

// ExpectHistory asserts the labels in the undo log, oldest first
func (s *Scenario) ExpectHistory(labels ...string) *Scenario {
	s.T.Helper()
	require.Equal(s.T, labels, s.History.Labels())
	return s
}
