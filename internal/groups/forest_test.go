package groups_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"splice.dev/splice/internal/errors"
	"splice.dev/splice/internal/groups"
	"splice.dev/splice/internal/ids"
	"splice.dev/splice/internal/undo"
)

// newForest registers n leaves with ids 0..n-1 and returns the forest
func newForest(t *testing.T, n int) *groups.Forest {
	t.Helper()
	f := groups.New(ids.NewAllocator(n))
	for i := 0; i < n; i++ {
		f.CreateGroupItem(i)
	}
	return f
}

func TestCreateGroupItem(t *testing.T) {
	t.Run("registers a parentless leaf", func(t *testing.T) {
		f := newForest(t, 1)
		require.True(t, f.Has(0))
		require.True(t, f.IsLeaf(0))
		require.False(t, f.IsInGroup(0))
		require.Equal(t, groups.NoParent, f.Parent(0))
		require.Equal(t, 0, f.RootID(0))
	})

	t.Run("panics when the id is already registered", func(t *testing.T) {
		f := newForest(t, 1)
		require.PanicsWithError(t, "timeline invariant violated: id 0 is already registered in the group forest", func() {
			f.CreateGroupItem(0)
		})
	})
}

func TestGroupItems(t *testing.T) {
	t.Run("single id is returned without creating a group", func(t *testing.T) {
		f := newForest(t, 1)
		tx := undo.New()
		gid, ok := f.GroupItems([]int{0}, tx)
		require.True(t, ok)
		require.Equal(t, 0, gid)
		require.True(t, tx.Empty())
		require.Empty(t, f.Groups())
		require.Equal(t, 1, f.Len())
	})

	t.Run("duplicate ids collapse to one", func(t *testing.T) {
		f := newForest(t, 1)
		gid, ok := f.GroupItems([]int{0, 0}, undo.New())
		require.True(t, ok)
		require.Equal(t, 0, gid)
	})

	t.Run("groups several leaves under a fresh id", func(t *testing.T) {
		f := newForest(t, 3)
		tx := undo.New()
		gid, ok := f.GroupItems([]int{0, 2}, tx)
		require.True(t, ok)
		require.Equal(t, 3, gid)

		require.True(t, f.IsGroup(gid))
		require.Equal(t, []int{0, 2}, f.DirectChildren(gid))
		require.Equal(t, gid, f.RootID(0))
		require.Equal(t, gid, f.RootID(2))
		require.True(t, f.IsInGroup(0))
		require.False(t, f.IsInGroup(1))
		require.Equal(t, []int{gid}, f.RootGroups())
		require.NoError(t, f.Validate())
	})

	t.Run("grouping a member regroups its whole root", func(t *testing.T) {
		f := newForest(t, 3)
		inner, ok := f.GroupItems([]int{0, 1}, undo.New())
		require.True(t, ok)

		outer, ok := f.GroupItems([]int{0, 2}, undo.New())
		require.True(t, ok)
		require.Equal(t, []int{2, inner}, f.DirectChildren(outer))
		require.Equal(t, outer, f.Parent(inner))
		require.Equal(t, []int{outer, 2, inner, 0, 1}, f.Subtree(outer))
		require.Equal(t, []int{2, 0, 1}, f.Leaves(outer))
		require.Equal(t, []int{outer}, f.RootGroups())
		require.Equal(t, []int{inner, outer}, f.Groups())
		require.NoError(t, f.Validate())
	})

	t.Run("reverse destructs the new group", func(t *testing.T) {
		f := newForest(t, 2)
		tx := undo.New()
		gid, ok := f.GroupItems([]int{0, 1}, tx)
		require.True(t, ok)

		require.True(t, tx.Undo())
		require.False(t, f.Has(gid))
		require.False(t, f.IsInGroup(0))
		require.False(t, f.IsInGroup(1))
		require.Empty(t, f.Groups())

		require.True(t, tx.Redo())
		require.Equal(t, gid, f.RootID(0))
		require.NoError(t, f.Validate())
	})

	t.Run("panics on unknown ids", func(t *testing.T) {
		f := newForest(t, 1)
		require.Panics(t, func() {
			f.GroupItems([]int{0, 42}, undo.New())
		})
	})
}

func TestUngroupItem(t *testing.T) {
	t.Run("fails when the item is not grouped", func(t *testing.T) {
		f := newForest(t, 1)
		tx := undo.New()
		require.False(t, f.UngroupItem(0, tx))
		require.True(t, tx.Empty())
	})

	t.Run("group then ungroup restores every member as its own root", func(t *testing.T) {
		f := newForest(t, 3)
		gid, ok := f.GroupItems([]int{0, 1, 2}, undo.New())
		require.True(t, ok)

		tx := undo.New()
		require.True(t, f.UngroupItem(1, tx))
		for _, id := range []int{0, 1, 2} {
			require.Equal(t, id, f.RootID(id))
		}
		require.False(t, f.Has(gid))
		require.Empty(t, f.Groups())

		require.True(t, tx.Undo())
		require.Equal(t, gid, f.RootID(2))
		require.Equal(t, []int{0, 1, 2}, f.DirectChildren(gid))
		require.NoError(t, f.Validate())
	})

	t.Run("ungrouping a nested member only dissolves the root", func(t *testing.T) {
		f := newForest(t, 3)
		inner, _ := f.GroupItems([]int{0, 1}, undo.New())
		outer, _ := f.GroupItems([]int{inner, 2}, undo.New())

		require.True(t, f.UngroupItem(0, undo.New()))
		require.False(t, f.Has(outer))
		require.Equal(t, inner, f.RootID(0))
		require.Equal(t, 2, f.RootID(2))
		require.Equal(t, []int{inner}, f.RootGroups())
		require.NoError(t, f.Validate())
	})
}

func TestDestructGroupItem(t *testing.T) {
	t.Run("cascades to an emptied parent", func(t *testing.T) {
		f := newForest(t, 3)
		inner, _ := f.GroupItems([]int{0, 1}, undo.New())
		outer, _ := f.GroupItems([]int{inner, 2}, undo.New())
		// leave inner as the only member of outer
		f.RemoveFromGroup(2)
		require.Equal(t, []int{inner}, f.DirectChildren(outer))

		tx := undo.New()
		require.True(t, f.DestructGroupItem(inner, true, tx))
		require.False(t, f.Has(inner))
		require.False(t, f.Has(outer))
		require.Empty(t, f.Groups())
		require.Equal(t, 0, f.RootID(0))

		require.True(t, tx.Undo())
		require.Equal(t, outer, f.Parent(inner))
		require.Equal(t, outer, f.RootID(0))
		require.Equal(t, []int{inner}, f.DirectChildren(outer))
		require.Equal(t, []int{inner, outer}, f.Groups())
		require.NoError(t, f.Validate())
	})

	t.Run("keeps a parent that still has members", func(t *testing.T) {
		f := newForest(t, 3)
		inner, _ := f.GroupItems([]int{0, 1}, undo.New())
		outer, _ := f.GroupItems([]int{inner, 2}, undo.New())

		tx := undo.New()
		require.True(t, f.DestructGroupItem(inner, true, tx))
		require.Equal(t, []int{2}, f.DirectChildren(outer))
		require.Equal(t, 0, f.RootID(0))

		require.True(t, tx.Undo())
		require.Equal(t, []int{2, inner}, f.DirectChildren(outer))
		require.Equal(t, []int{0, 1}, f.DirectChildren(inner))
		require.NoError(t, f.Validate())
	})
}

func TestRemoveItem(t *testing.T) {
	t.Run("removes a free leaf", func(t *testing.T) {
		f := newForest(t, 1)
		f.RemoveItem(0)
		require.False(t, f.Has(0))
	})

	t.Run("panics for a grouped leaf", func(t *testing.T) {
		f := newForest(t, 2)
		f.GroupItems([]int{0, 1}, undo.New())
		require.Panics(t, func() { f.RemoveItem(0) })
	})
}

func TestRootIDPanicsOnUnknownID(t *testing.T) {
	f := newForest(t, 0)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*errors.InvariantError)
		require.True(t, ok)
	}()
	f.RootID(7)
}

func TestLeavesOfLeaf(t *testing.T) {
	f := newForest(t, 1)
	require.Equal(t, []int{0}, f.Leaves(0))
	require.Equal(t, []int{0}, f.Subtree(0))
}
