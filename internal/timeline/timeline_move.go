package timeline

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"splice.dev/splice/internal/errors"
	"splice.dev/splice/internal/item"
	"splice.dev/splice/internal/track"
	"splice.dev/splice/internal/undo"
)

// RequestItemMove moves a clip or composition to position on trackID. Moving a
// grouped item moves its whole group by the same track and position offsets.
// A move to the current track and position is a no-op.
func (t *Timeline) RequestItemMove(id, trackID, position int, logUndo bool) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opMove, time.Now(), &err)

	it, err := t.item(id)
	if err != nil {
		return err
	}
	if _, err := t.track(trackID); err != nil {
		return err
	}

	label := labelMoveItem
	switch {
	case t.groups.IsInGroup(id):
		label = labelMoveGroup
	case it.IsComposition():
		label = labelMoveComposition
	}

	tx := undo.New()
	if err := t.moveTx(it, trackID, position, tx); err != nil {
		return fmt.Errorf("failed to move %s %d: %w", it.Kind, id, err)
	}
	t.commit(label, tx, logUndo)
	return nil
}

// RequestGroupMove shifts every item of groupID by deltaTrack tracks and
// deltaPos positions. Either every item lands or nothing changes.
func (t *Timeline) RequestGroupMove(anchorID, groupID, deltaTrack, deltaPos int, logUndo bool) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opGroupMove, time.Now(), &err)

	if !t.groups.IsGroup(groupID) {
		return fmt.Errorf("group %d: %w", groupID, errors.ErrNotGrouped)
	}
	if deltaTrack == 0 && deltaPos == 0 {
		return nil
	}

	tx := undo.New()
	if err := t.groupMoveTx(anchorID, groupID, deltaTrack, deltaPos, tx); err != nil {
		return fmt.Errorf("failed to move group %d: %w", groupID, err)
	}
	t.commit(labelMoveGroup, tx, logUndo)
	return nil
}

// SuggestItemMove returns the position an interactive drag of id to position
// on trackID should show. The position snaps to the nearest boundary of
// another item when one lies within the snap tolerance. If the item could not
// be placed there on its own track, the nearest free position in the direction
// of the drag is suggested instead. The timeline is left unchanged.
func (t *Timeline) SuggestItemMove(id, trackID, position int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	it, ok := t.items[id]
	if !ok {
		return position
	}
	if _, ok := t.trackIdx[trackID]; !ok {
		return position
	}
	currentPos, currentTrack := it.Position, it.TrackID
	if currentPos == position && currentTrack == trackID {
		return position
	}

	var ignored []int
	for _, leaf := range t.groups.Leaves(t.groups.RootID(id)) {
		if member := t.mustItem(leaf); member.Placed() {
			ignored = append(ignored, member.Position, member.End())
		}
	}
	if snapped, ok := t.bestSnapPos(position, it.Playtime, ignored); ok {
		t.logger.Debug("suggestion snapped", "item", id, "from", position, "to", snapped)
		position = snapped
	}

	err := t.tryTx("move", id, func(tx *undo.Transaction) error {
		return t.moveTx(it, trackID, position, tx)
	})
	if err == nil {
		return position
	}

	if it.Placed() && currentTrack == trackID {
		after := position > currentPos
		blank := t.mustTrack(currentTrack).BlankSizeNear(it, after)
		switch {
		case !after:
			return currentPos - blank
		case blank != track.Unbounded:
			return currentPos + blank
		}
	}
	return position
}

// moveTx dispatches a move to the group of it, or places it directly
func (t *Timeline) moveTx(it *item.Item, trackID, position int, tx *undo.Transaction) error {
	if it.TrackID == trackID && it.Position == position {
		return nil
	}
	if t.groups.IsInGroup(it.ID) {
		errors.Check(it.Placed(), "grouped item %d is not on a track", it.ID)
		deltaTrack := t.trackPosition(trackID) - t.trackPosition(it.TrackID)
		return t.groupMoveTx(it.ID, t.groups.RootID(it.ID), deltaTrack, position-it.Position, tx)
	}
	return t.placeItemTx(it, trackID, position, tx)
}

// placeItemTx takes it off its current track, if any, and inserts it at
// position on trackID. On failure the removal is reverted.
func (t *Timeline) placeItemTx(it *item.Item, trackID, position int, tx *undo.Transaction) error {
	target := t.mustTrack(trackID)
	local := undo.New()
	if it.Placed() {
		if err := t.mustTrack(it.TrackID).RequestDeletion(it, local); err != nil {
			return err
		}
	}
	if err := target.RequestInsertion(it, position, local); err != nil {
		t.rollback(opMove, local, err)
		return err
	}
	tx.Merge(local)
	return nil
}

type leafMove struct {
	it       *item.Item
	trackPos int
}

// groupMoveTx moves every leaf of groupID. Leaves are ordered so that no leaf
// lands on a spot another leaf of the group has yet to vacate: the leaves
// furthest along the direction of travel go first.
func (t *Timeline) groupMoveTx(anchorID, groupID, deltaTrack, deltaPos int, tx *undo.Transaction) error {
	leaves := t.groups.Leaves(groupID)
	moves := make([]leafMove, 0, len(leaves))
	for _, id := range leaves {
		it := t.mustItem(id)
		errors.Check(it.Placed(), "grouped item %d is not on a track", id)
		moves = append(moves, leafMove{it: it, trackPos: t.trackPosition(it.TrackID)})
	}
	slices.SortStableFunc(moves, func(a, b leafMove) int {
		if a.trackPos != b.trackPos {
			if deltaTrack > 0 {
				return cmp.Compare(b.trackPos, a.trackPos)
			}
			return cmp.Compare(a.trackPos, b.trackPos)
		}
		if deltaPos > 0 {
			return cmp.Compare(b.it.Position, a.it.Position)
		}
		return cmp.Compare(a.it.Position, b.it.Position)
	})

	local := undo.New()
	for _, m := range moves {
		target := m.trackPos + deltaTrack
		if target < 0 || target >= len(t.tracks) {
			err := fmt.Errorf("item %d to track position %d: %w", m.it.ID, target, errors.ErrTrackOutOfRange)
			t.rollback(opGroupMove, local, err)
			return err
		}
		if err := t.placeItemTx(m.it, t.tracks[target].ID(), m.it.Position+deltaPos, local); err != nil {
			t.rollback(opGroupMove, local, err)
			return err
		}
	}

	t.logger.Debug("group moved", "anchor", anchorID, "group", groupID, "items", len(moves),
		"deltaTrack", deltaTrack, "deltaPos", deltaPos)
	tx.Merge(local)
	return nil
}
