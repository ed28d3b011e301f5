package timeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"splice.dev/splice/internal/errors"
	"splice.dev/splice/internal/ids"
	"splice.dev/splice/internal/item"
	"splice.dev/splice/internal/timeline"
)

func TestRequestClipInsertion(t *testing.T) {
	t.Run("places the clip for its full source length", func(t *testing.T) {
		tl, stack, tracks := newTimeline(t, 1)
		id, err := tl.RequestClipInsertion(item.Source{Label: "intro", Frames: 75}, tracks[0], 25, true)
		require.NoError(t, err)
		require.True(t, tl.IsClip(id))
		require.Equal(t, 25, tl.ItemPosition(id))
		require.Equal(t, 75, tl.ItemPlaytime(id))
		require.Equal(t, 100, tl.Duration())
		require.Equal(t, []string{"Insert Clip"}, stack.Labels())

		_, err = tl.Undo()
		require.NoError(t, err)
		require.False(t, tl.IsClip(id))
		require.Equal(t, 0, tl.ClipsCount())
	})

	t.Run("a failed placement burns the id and leaves nothing behind", func(t *testing.T) {
		alloc := ids.NewAllocator(0)
		tl, stack, tracks := newTimeline(t, 1, timeline.WithAllocator(alloc))
		insertClip(t, tl, tracks[0], 0, 50)
		before := tl.Snapshot()
		next := alloc.Peek()

		_, err := tl.RequestClipInsertion(item.Source{Label: "late", Frames: 20}, tracks[0], 40, true)
		require.ErrorIs(t, err, errors.ErrPlacementConflict)
		require.Equal(t, before, tl.Snapshot())
		require.Equal(t, next+1, alloc.Peek())
		require.False(t, tl.IsClip(next))
		require.Equal(t, 0, stack.Len())
	})

	t.Run("an invalid source is rejected", func(t *testing.T) {
		tl, _, tracks := newTimeline(t, 1)
		_, err := tl.RequestClipInsertion(item.Source{Label: "empty"}, tracks[0], 0, true)
		require.ErrorIs(t, err, item.ErrInvalidSource)
		require.Equal(t, 0, tl.ClipsCount())
	})

	t.Run("an unknown track is rejected", func(t *testing.T) {
		tl, _, _ := newTimeline(t, 1)
		_, err := tl.RequestClipInsertion(item.Source{Label: "a", Frames: 10}, 999, 0, true)
		require.ErrorIs(t, err, errors.ErrTrackNotFound)
	})
}

func TestRequestCompositionInsertion(t *testing.T) {
	t.Run("compositions share a track with clips", func(t *testing.T) {
		tl, stack, tracks := newTimeline(t, 2)
		insertClip(t, tl, tracks[1], 0, 50)
		id, err := tl.RequestCompositionInsertion("dissolve", tracks[1], 10, 20, true)
		require.NoError(t, err)

		require.True(t, tl.IsComposition(id))
		require.Equal(t, 1, tl.TrackClipsCount(tracks[1]))
		require.Equal(t, 1, tl.TrackCompositionsCount(tracks[1]))
		require.Equal(t, 1, tl.CompositionsCount())
		require.Equal(t, []string{"Insert Composition"}, stack.Labels())

		state := tl.Snapshot()
		require.Equal(t, tracks[0], state.Items[len(state.Items)-1].ATrack)
	})

	t.Run("compositions do not overlap each other", func(t *testing.T) {
		tl, _, tracks := newTimeline(t, 1)
		insertComposition(t, tl, tracks[0], 0, 30)
		_, err := tl.RequestCompositionInsertion("wipe", tracks[0], 20, 30, true)
		require.ErrorIs(t, err, errors.ErrPlacementConflict)
		require.Equal(t, 1, tl.CompositionsCount())
	})

	t.Run("moving a composition on its own track repositions it", func(t *testing.T) {
		tl, stack, tracks := newTimeline(t, 1)
		insertClip(t, tl, tracks[0], 0, 100)
		c := insertComposition(t, tl, tracks[0], 0, 30)

		require.NoError(t, tl.RequestItemMove(c, tracks[0], 40, true))
		require.Equal(t, 40, tl.ItemPosition(c))
		require.Equal(t, 1, tl.TrackClipsCount(tracks[0]))
		require.Equal(t, []string{"Move composition"}, stack.Labels())
	})
}

func TestRequestItemDeletion(t *testing.T) {
	t.Run("deletes a free clip", func(t *testing.T) {
		tl, stack, tracks := newTimeline(t, 1)
		a := insertClip(t, tl, tracks[0], 0, 50)
		before := tl.Snapshot()

		require.NoError(t, tl.RequestItemDeletion(a, true))
		require.False(t, tl.IsClip(a))
		require.Equal(t, 0, tl.TrackClipsCount(tracks[0]))
		require.Equal(t, []string{"Delete Clip"}, stack.Labels())

		_, err := tl.Undo()
		require.NoError(t, err)
		require.Equal(t, before, tl.Snapshot())
	})

	t.Run("deleting a grouped clip deletes the whole tree", func(t *testing.T) {
		tl, stack, tracks := newTimeline(t, 2)
		a := insertClip(t, tl, tracks[0], 0, 10)
		b := insertClip(t, tl, tracks[0], 20, 10)
		c := insertClip(t, tl, tracks[1], 0, 10)
		inner, err := tl.RequestItemsGroup([]int{a, b}, false)
		require.NoError(t, err)
		outer, err := tl.RequestItemsGroup([]int{inner, c}, false)
		require.NoError(t, err)
		before := tl.Snapshot()

		require.NoError(t, tl.RequestItemDeletion(a, true))
		require.Equal(t, 0, tl.ClipsCount())
		require.False(t, tl.IsGroup(inner))
		require.False(t, tl.IsGroup(outer))
		require.Empty(t, tl.Groups())
		require.Equal(t, []string{"Remove group"}, stack.Labels())

		_, err = tl.Undo()
		require.NoError(t, err)
		require.Equal(t, before, tl.Snapshot())
		require.Equal(t, outer, tl.RootID(a))
	})

	t.Run("group deletion by group id", func(t *testing.T) {
		tl, _, tracks := newTimeline(t, 1)
		a := insertClip(t, tl, tracks[0], 0, 10)
		b := insertClip(t, tl, tracks[0], 20, 10)
		gid, err := tl.RequestItemsGroup([]int{a, b}, false)
		require.NoError(t, err)

		require.NoError(t, tl.RequestGroupDeletion(gid, true))
		require.Equal(t, 0, tl.ClipsCount())
		require.Empty(t, tl.Groups())
	})

	t.Run("group deletion of a free clip fails", func(t *testing.T) {
		tl, _, tracks := newTimeline(t, 1)
		a := insertClip(t, tl, tracks[0], 0, 10)
		require.ErrorIs(t, tl.RequestGroupDeletion(a, true), errors.ErrNotGrouped)
		require.ErrorIs(t, tl.RequestGroupDeletion(999, true), errors.ErrItemNotFound)
		require.True(t, tl.IsClip(a))
	})

	t.Run("unknown item", func(t *testing.T) {
		tl, _, _ := newTimeline(t, 1)
		require.ErrorIs(t, tl.RequestItemDeletion(999, true), errors.ErrItemNotFound)
	})
}

func TestRequestItemResize(t *testing.T) {
	t.Run("trims and restores a clip", func(t *testing.T) {
		tl, stack, tracks := newTimeline(t, 1)
		a := insertClip(t, tl, tracks[0], 0, 50)

		require.NoError(t, tl.RequestItemTrim(a, 10, true, true))
		require.Equal(t, 40, tl.ItemPlaytime(a))
		require.Equal(t, 0, tl.ItemPosition(a))

		require.NoError(t, tl.RequestItemResize(a, 50, true, false, true))
		require.Equal(t, 50, tl.ItemPlaytime(a))
		require.Equal(t, []string{"Resize clip", "Resize clip"}, stack.Labels())
	})

	t.Run("a clip cannot outgrow its source", func(t *testing.T) {
		tl, _, tracks := newTimeline(t, 1)
		a := insertClip(t, tl, tracks[0], 0, 50)
		require.ErrorIs(t, tl.RequestItemResize(a, 70, true, false, true), errors.ErrResizeRejected)
		require.ErrorIs(t, tl.RequestItemResize(a, 0, true, false, true), errors.ErrResizeRejected)
		require.Equal(t, 50, tl.ItemPlaytime(a))
	})

	t.Run("resizing from the left keeps the end", func(t *testing.T) {
		tl, _, tracks := newTimeline(t, 1)
		c := insertComposition(t, tl, tracks[0], 100, 30)

		require.NoError(t, tl.RequestItemResize(c, 40, false, false, true))
		require.Equal(t, 90, tl.ItemPosition(c))
		require.Equal(t, 40, tl.ItemPlaytime(c))

		_, err := tl.Undo()
		require.NoError(t, err)
		require.Equal(t, 100, tl.ItemPosition(c))
		require.Equal(t, 30, tl.ItemPlaytime(c))
	})

	t.Run("overlapping a neighbour is rejected", func(t *testing.T) {
		tl, stack, tracks := newTimeline(t, 1)
		c := insertComposition(t, tl, tracks[0], 0, 30)
		insertComposition(t, tl, tracks[0], 50, 30)
		before := tl.Snapshot()

		require.ErrorIs(t, tl.RequestItemResize(c, 60, true, false, true), errors.ErrResizeRejected)
		require.Equal(t, before, tl.Snapshot())
		require.Equal(t, 0, stack.Len())
	})

	t.Run("snapping pulls the right edge onto a neighbour", func(t *testing.T) {
		tl, _, tracks := newTimeline(t, 1)
		c := insertComposition(t, tl, tracks[0], 0, 30)
		insertComposition(t, tl, tracks[0], 50, 30)

		require.NoError(t, tl.RequestItemResize(c, 45, true, true, true))
		require.Equal(t, 50, tl.ItemPlaytime(c))
	})

	t.Run("a snapped resize is logged once and undoes", func(t *testing.T) {
		tl, stack, tracks := newTimeline(t, 1)
		c := insertComposition(t, tl, tracks[0], 0, 30)
		insertComposition(t, tl, tracks[0], 50, 30)
		before := tl.Snapshot()

		require.NoError(t, tl.RequestItemResize(c, 45, true, true, true))
		require.Equal(t, 50, tl.ItemPlaytime(c))
		require.Equal(t, []string{"Resize clip"}, stack.Labels())

		label, err := tl.Undo()
		require.NoError(t, err)
		require.Equal(t, "Resize clip", label)
		require.Equal(t, before, tl.Snapshot())

		_, err = tl.Redo()
		require.NoError(t, err)
		require.Equal(t, 50, tl.ItemPlaytime(c))
	})

	t.Run("a snapped left resize undoes position and playtime", func(t *testing.T) {
		tl, stack, tracks := newTimeline(t, 1)
		insertComposition(t, tl, tracks[0], 50, 35)
		c := insertComposition(t, tl, tracks[0], 100, 30)

		require.NoError(t, tl.RequestItemResize(c, 40, false, true, true))
		require.Equal(t, 85, tl.ItemPosition(c))
		require.Equal(t, 1, stack.Len())

		_, err := tl.Undo()
		require.NoError(t, err)
		require.Equal(t, 100, tl.ItemPosition(c))
		require.Equal(t, 30, tl.ItemPlaytime(c))
		next, ok := tl.RequestNextSnapPos(100)
		require.True(t, ok)
		require.Equal(t, 130, next)
	})

	t.Run("snapping pulls the left edge onto a neighbour", func(t *testing.T) {
		tl, _, tracks := newTimeline(t, 1)
		insertComposition(t, tl, tracks[0], 50, 35)
		c := insertComposition(t, tl, tracks[0], 100, 30)

		require.NoError(t, tl.RequestItemResize(c, 40, false, true, true))
		require.Equal(t, 85, tl.ItemPosition(c))
		require.Equal(t, 45, tl.ItemPlaytime(c))
	})

	t.Run("without snapping the size is exact", func(t *testing.T) {
		tl, _, tracks := newTimeline(t, 1)
		c := insertComposition(t, tl, tracks[0], 0, 30)
		insertComposition(t, tl, tracks[0], 50, 30)

		require.NoError(t, tl.RequestItemResize(c, 45, true, false, true))
		require.Equal(t, 45, tl.ItemPlaytime(c))
	})
}

func TestTracks(t *testing.T) {
	t.Run("inserts at a position and appends with -1", func(t *testing.T) {
		tl, stack, tracks := newTimeline(t, 2)
		first, err := tl.RequestTrackInsertion(0, true)
		require.NoError(t, err)
		last, err := tl.RequestTrackInsertion(-1, true)
		require.NoError(t, err)

		require.Equal(t, []int{first, tracks[0], tracks[1], last}, tl.TrackIDs())
		require.Equal(t, 0, tl.TrackPosition(first))
		id, err := tl.TrackIDAt(3)
		require.NoError(t, err)
		require.Equal(t, last, id)
		require.Equal(t, []string{"Insert Track", "Insert Track"}, stack.Labels())

		_, err = tl.RequestTrackInsertion(9, true)
		require.ErrorIs(t, err, errors.ErrTrackOutOfRange)
		_, err = tl.TrackIDAt(9)
		require.ErrorIs(t, err, errors.ErrTrackOutOfRange)
	})

	t.Run("deleting a track takes its grouped clips with it", func(t *testing.T) {
		tl, stack, tracks := newTimeline(t, 2)
		a := insertClip(t, tl, tracks[0], 0, 50)
		b := insertClip(t, tl, tracks[0], 60, 20)
		gid, err := tl.RequestItemsGroup([]int{a, b}, false)
		require.NoError(t, err)
		before := tl.Snapshot()

		require.NoError(t, tl.RequestTrackDeletion(tracks[0], true))
		require.False(t, tl.IsTrack(tracks[0]))
		require.False(t, tl.IsClip(a))
		require.False(t, tl.IsClip(b))
		require.False(t, tl.IsGroup(gid))
		require.Equal(t, 1, tl.TracksCount())
		require.Equal(t, []string{"Delete Track"}, stack.Labels())

		_, err = tl.Undo()
		require.NoError(t, err)
		require.Equal(t, before, tl.Snapshot())

		_, err = tl.Redo()
		require.NoError(t, err)
		require.Equal(t, 1, tl.TracksCount())
	})

	t.Run("deleting a track releases group members on other tracks", func(t *testing.T) {
		tl, _, tracks := newTimeline(t, 2)
		a := insertClip(t, tl, tracks[0], 0, 50)
		b := insertClip(t, tl, tracks[1], 0, 50)
		_, err := tl.RequestItemsGroup([]int{a, b}, false)
		require.NoError(t, err)

		require.NoError(t, tl.RequestTrackDeletion(tracks[0], true))
		require.True(t, tl.IsClip(b))
		require.Equal(t, b, tl.RootID(b))
		require.Empty(t, tl.Groups())
	})

	t.Run("reset removes everything in one step", func(t *testing.T) {
		tl, stack, tracks := newTimeline(t, 3)
		a := insertClip(t, tl, tracks[0], 0, 50)
		b := insertClip(t, tl, tracks[2], 0, 50)
		insertComposition(t, tl, tracks[1], 0, 20)
		_, err := tl.RequestItemsGroup([]int{a, b}, false)
		require.NoError(t, err)
		before := tl.Snapshot()

		require.NoError(t, tl.RequestReset())
		require.Equal(t, 0, tl.TracksCount())
		require.Equal(t, 0, tl.ClipsCount())
		require.Equal(t, 0, tl.CompositionsCount())
		require.Equal(t, []string{"Reset timeline"}, stack.Labels())

		_, err = tl.Undo()
		require.NoError(t, err)
		require.Equal(t, before, tl.Snapshot())
	})
}
