// Package track provides the gap-aware placement of items on a single track.
//
// A track keeps two layers, one for clips and one for compositions. Items of
// the same layer may not overlap; each item occupies [Position, End()).
package track

import (
	"math"

	"github.com/emirpasic/gods/maps/treemap"

	"splice.dev/splice/internal/errors"
	"splice.dev/splice/internal/item"
	"splice.dev/splice/internal/undo"
)

// Unbounded is the blank size after the last item of a layer
const Unbounded = math.MaxInt

// Snapper receives the boundaries of items as they are placed and removed
type Snapper interface {
	AddPoint(p int)
	RemovePoint(p int)
}

// Track is one track of the timeline. It is not safe for concurrent use; the
// timeline serialises access to it.
type Track struct {
	id      int
	layers  map[item.Kind]*treemap.Map // position -> *item.Item
	members map[int]*item.Item
	snaps   Snapper
}

// New creates an empty track. snaps may be nil.
func New(id int, snaps Snapper) *Track {
	return &Track{
		id: id,
		layers: map[item.Kind]*treemap.Map{
			item.KindClip:        treemap.NewWithIntComparator(),
			item.KindComposition: treemap.NewWithIntComparator(),
		},
		members: make(map[int]*item.Item),
		snaps:   snaps,
	}
}

// ID returns the track id
func (t *Track) ID() int {
	return t.id
}

// Has reports whether the item is placed on this track
func (t *Track) Has(id int) bool {
	_, ok := t.members[id]
	return ok
}

// RequestInsertion places it at position and records the reverse in tx
func (t *Track) RequestInsertion(it *item.Item, position int, tx *undo.Transaction) error {
	errors.Check(!t.Has(it.ID), "item %d is already on track %d", it.ID, t.id)
	if position < 0 {
		return errors.NewPlacementError(it.ID, t.id, position, "negative position")
	}
	if !t.isFree(it.Kind, position, position+it.Playtime) {
		return errors.NewPlacementError(it.ID, t.id, position, "space occupied")
	}

	operation := t.insertAction(it, position)
	operation.Run()
	tx.Append(operation, t.deleteAction(it))
	return nil
}

// RequestDeletion removes it from the track and records the reverse in tx
func (t *Track) RequestDeletion(it *item.Item, tx *undo.Transaction) error {
	errors.Check(t.Has(it.ID), "item %d is not on track %d", it.ID, t.id)
	position := it.Position
	operation := t.deleteAction(it)
	operation.Run()
	tx.Append(operation, t.insertAction(it, position))
	return nil
}

// RequestResize changes the playtime of it. When right is set the end moves and
// the start stays; otherwise the start moves and the end stays.
func (t *Track) RequestResize(it *item.Item, size int, right bool, tx *undo.Transaction) error {
	errors.Check(t.Has(it.ID), "item %d is not on track %d", it.ID, t.id)
	newPos := it.Position
	if !right {
		newPos = it.End() - size
	}
	if newPos < 0 {
		return errors.NewResizeError(it.ID, size, "start before the timeline origin")
	}
	if !t.isFreeExcept(it, newPos, newPos+size) {
		return errors.NewResizeError(it.ID, size, "overlaps a neighbour")
	}

	oldPos, oldSize := it.Position, it.Playtime
	operation := t.resizeAction(it, newPos, size)
	operation.Run()
	tx.Append(operation, t.resizeAction(it, oldPos, oldSize))
	return nil
}

// BlankSizeNear returns the size of the blank directly after (or before) it.
// The blank before the first item extends to the timeline origin; the blank
// after the last item is Unbounded.
func (t *Track) BlankSizeNear(it *item.Item, after bool) int {
	errors.Check(t.Has(it.ID), "item %d is not on track %d", it.ID, t.id)
	layer := t.layers[it.Kind]
	if after {
		k, v := layer.Ceiling(it.Position + 1)
		if k == nil {
			return Unbounded
		}
		return v.(*item.Item).Position - it.End()
	}
	k, v := layer.Floor(it.Position - 1)
	if k == nil {
		return it.Position
	}
	return it.Position - v.(*item.Item).End()
}

// ClipsCount returns the number of clips on the track
func (t *Track) ClipsCount() int {
	return t.layers[item.KindClip].Size()
}

// CompositionsCount returns the number of compositions on the track
func (t *Track) CompositionsCount() int {
	return t.layers[item.KindComposition].Size()
}

// Items returns the ids of every item on the track: clips by position, then
// compositions by position.
func (t *Track) Items() []int {
	out := make([]int, 0, len(t.members))
	for _, kind := range []item.Kind{item.KindClip, item.KindComposition} {
		for _, v := range t.layers[kind].Values() {
			out = append(out, v.(*item.Item).ID)
		}
	}
	return out
}

// Duration returns the end of the last item on the track
func (t *Track) Duration() int {
	end := 0
	for _, layer := range t.layers {
		if _, v := layer.Max(); v != nil {
			end = max(end, v.(*item.Item).End())
		}
	}
	return end
}

func (t *Track) insertAction(it *item.Item, position int) undo.Action {
	return undo.NewAction("track insert", func() bool {
		it.Position = position
		it.TrackID = t.id
		t.layers[it.Kind].Put(position, it)
		t.members[it.ID] = it
		t.addSnaps(it)
		return true
	})
}

func (t *Track) deleteAction(it *item.Item) undo.Action {
	return undo.NewAction("track delete", func() bool {
		t.removeSnaps(it)
		t.layers[it.Kind].Remove(it.Position)
		delete(t.members, it.ID)
		it.TrackID = item.NoTrack
		return true
	})
}

func (t *Track) resizeAction(it *item.Item, position, playtime int) undo.Action {
	return undo.NewAction("track resize", func() bool {
		t.removeSnaps(it)
		t.layers[it.Kind].Remove(it.Position)
		it.Position = position
		it.Playtime = playtime
		t.layers[it.Kind].Put(position, it)
		t.addSnaps(it)
		return true
	})
}

func (t *Track) addSnaps(it *item.Item) {
	if t.snaps == nil {
		return
	}
	t.snaps.AddPoint(it.Position)
	t.snaps.AddPoint(it.End())
}

func (t *Track) removeSnaps(it *item.Item) {
	if t.snaps == nil {
		return
	}
	t.snaps.RemovePoint(it.Position)
	t.snaps.RemovePoint(it.End())
}

// isFree reports whether [start, end) overlaps nothing in the kind's layer
func (t *Track) isFree(kind item.Kind, start, end int) bool {
	return t.isFreeExcept(&item.Item{ID: -1, Kind: kind}, start, end)
}

// isFreeExcept is isFree ignoring self. Items of a layer never overlap, so
// only the last item starting at or before start and the first item starting
// at or after it can intersect the interval.
func (t *Track) isFreeExcept(self *item.Item, start, end int) bool {
	layer := t.layers[self.Kind]
	if prev := t.neighbour(layer, start, self, false); prev != nil && prev.End() > start {
		return false
	}
	if next := t.neighbour(layer, start, self, true); next != nil && next.Position < end {
		return false
	}
	return true
}

// neighbour returns the floor (or ceiling) item of key, stepping over self
func (t *Track) neighbour(layer *treemap.Map, key int, self *item.Item, ceiling bool) *item.Item {
	lookup := layer.Floor
	step := -1
	if ceiling {
		lookup = layer.Ceiling
		step = 1
	}
	k, v := lookup(key)
	if k == nil {
		return nil
	}
	if found := v.(*item.Item); found.ID != self.ID {
		return found
	}
	k, v = lookup(self.Position + step)
	if k == nil {
		return nil
	}
	return v.(*item.Item)
}
