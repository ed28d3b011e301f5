package timeline

import (
	"fmt"
	"time"

	"splice.dev/splice/internal/errors"
	"splice.dev/splice/internal/item"
	"splice.dev/splice/internal/undo"
)

// RequestClipInsertion builds a clip from p and places it at position on
// trackID, returning the new clip id. A failed insertion leaves no trace
// except the consumed id.
func (t *Timeline) RequestClipInsertion(p item.Producer, trackID, position int, logUndo bool) (id int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opInsert, time.Now(), &err)

	if _, err := t.track(trackID); err != nil {
		return item.NoTrack, err
	}
	tx := undo.New()
	id, err = t.insertItemTx(func(id int) (*item.Item, error) {
		return t.factory.NewClip(id, p)
	}, trackID, position, tx)
	if err != nil {
		return item.NoTrack, fmt.Errorf("failed to insert clip: %w", err)
	}
	t.commit(labelInsertClip, tx, logUndo)
	return id, nil
}

// RequestCompositionInsertion builds a composition of the given transition and
// length and places it at position on trackID. The composition blends onto the
// track directly below trackID, when there is one.
func (t *Timeline) RequestCompositionInsertion(transition string, trackID, position, length int, logUndo bool) (id int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opInsert, time.Now(), &err)

	if _, err := t.track(trackID); err != nil {
		return item.NoTrack, err
	}
	aTrack := item.NoTrack
	if pos := t.trackPosition(trackID); pos > 0 {
		aTrack = t.tracks[pos-1].ID()
	}

	tx := undo.New()
	id, err = t.insertItemTx(func(id int) (*item.Item, error) {
		it, err := t.factory.NewComposition(id, transition, length)
		if err != nil {
			return nil, err
		}
		it.ATrack = aTrack
		return it, nil
	}, trackID, position, tx)
	if err != nil {
		return item.NoTrack, fmt.Errorf("failed to insert composition: %w", err)
	}
	t.commit(labelInsertComposition, tx, logUndo)
	return id, nil
}

// insertItemTx allocates an id, builds the item, registers it and places it
func (t *Timeline) insertItemTx(build func(id int) (*item.Item, error), trackID, position int, tx *undo.Transaction) (int, error) {
	id := t.ids.NextID()
	it, err := build(id)
	if err != nil {
		return item.NoTrack, err
	}
	errors.Check(it.ID == id && !it.Placed(), "factory returned item %d for id %d", it.ID, id)

	local := undo.New()
	operation := t.registerItemAction(it)
	operation.Run()
	local.Append(operation, t.deregisterItemAction(id))

	if err := t.placeItemTx(it, trackID, position, local); err != nil {
		t.rollback(opInsert, local, err)
		return item.NoTrack, err
	}
	tx.Merge(local)
	return id, nil
}

// RequestItemDeletion removes a clip or composition from the timeline.
// Deleting a grouped item deletes its whole group.
func (t *Timeline) RequestItemDeletion(id int, logUndo bool) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grouped := t.groups.Has(id) && t.groups.IsInGroup(id)
	op := opDelete
	if grouped {
		op = opGroupDelete
	}
	defer t.observe(op, time.Now(), &err)

	it, err := t.item(id)
	if err != nil {
		return err
	}
	tx := undo.New()
	if grouped {
		if err := t.groupDeletionTx(id, tx); err != nil {
			return fmt.Errorf("failed to delete group of %d: %w", id, err)
		}
		t.commit(labelRemoveGroup, tx, logUndo)
		return nil
	}

	if err := t.deleteItemTx(id, tx); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", it.Kind, id, err)
	}
	label := labelDeleteClip
	if it.IsComposition() {
		label = labelDeleteComposition
	}
	t.commit(label, tx, logUndo)
	return nil
}

// RequestGroupDeletion deletes every item of the top-level group containing
// id, together with the groups themselves
func (t *Timeline) RequestGroupDeletion(id int, logUndo bool) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opGroupDelete, time.Now(), &err)

	if !t.groups.Has(id) {
		return errors.NewItemNotFoundError(id)
	}
	if !t.groups.IsGroup(t.groups.RootID(id)) {
		return fmt.Errorf("item %d: %w", id, errors.ErrNotGrouped)
	}
	tx := undo.New()
	if err := t.groupDeletionTx(id, tx); err != nil {
		return fmt.Errorf("failed to delete group of %d: %w", id, err)
	}
	t.commit(labelRemoveGroup, tx, logUndo)
	return nil
}

// deleteItemTx takes an ungrouped item off its track and out of the registry
func (t *Timeline) deleteItemTx(id int, tx *undo.Transaction) error {
	it := t.mustItem(id)
	local := undo.New()
	if it.Placed() {
		if err := t.mustTrack(it.TrackID).RequestDeletion(it, local); err != nil {
			return err
		}
	}
	operation := t.deregisterItemAction(id)
	operation.Run()
	local.Append(operation, t.registerItemAction(it))
	tx.Merge(local)
	return nil
}

// groupDeletionTx walks the tree above id from its root, dissolving each group
// before its members are reached, then deletes every item it found
func (t *Timeline) groupDeletionTx(id int, tx *undo.Transaction) error {
	local := undo.New()
	var leaves []int
	queue := []int{t.groups.RootID(id)}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		errors.Check(t.groups.IsGroup(current), "%d is neither an item nor a group", current)

		oneChild := -1
		for _, child := range t.groups.DirectChildren(current) {
			if _, ok := t.items[child]; ok {
				leaves = append(leaves, child)
			} else {
				queue = append(queue, child)
			}
			oneChild = child
		}
		if oneChild != -1 && !t.groups.UngroupItem(oneChild, local) {
			err := fmt.Errorf("group %d: %w", current, errors.ErrNotGrouped)
			t.rollback(opGroupDelete, local, err)
			return err
		}
	}

	for _, leaf := range leaves {
		if err := t.deleteItemTx(leaf, local); err != nil {
			t.rollback(opGroupDelete, local, err)
			return err
		}
	}
	tx.Merge(local)
	return nil
}

// RequestItemResize changes the playtime of an item to size. With right set
// the end moves; otherwise the start moves and the end stays. With snapping,
// the moving boundary snaps to a nearby item boundary when the snapped size is
// itself acceptable.
func (t *Timeline) RequestItemResize(id, size int, right, snapping, logUndo bool) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opResize, time.Now(), &err)

	it, err := t.item(id)
	if err != nil {
		return err
	}
	if snapping && it.Placed() {
		if snapped, ok := t.snappedSize(it, size, right); ok && snapped != size {
			err := t.tryTx("resize", id, func(tx *undo.Transaction) error {
				return t.resizeTx(it, snapped, right, tx)
			})
			if err == nil {
				t.logger.Debug("resize snapped", "item", id, "from", size, "to", snapped)
				size = snapped
			}
		}
	}

	tx := undo.New()
	if err := t.resizeTx(it, size, right, tx); err != nil {
		return fmt.Errorf("failed to resize %s %d: %w", it.Kind, id, err)
	}
	t.commit(labelResize, tx, logUndo)
	return nil
}

// RequestItemTrim shortens an item by delta from its right or left edge.
// A negative delta extends it.
func (t *Timeline) RequestItemTrim(id, delta int, right, logUndo bool) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opResize, time.Now(), &err)

	it, err := t.item(id)
	if err != nil {
		return err
	}
	tx := undo.New()
	if err := t.resizeTx(it, it.Playtime-delta, right, tx); err != nil {
		return fmt.Errorf("failed to trim %s %d: %w", it.Kind, id, err)
	}
	t.commit(labelResize, tx, logUndo)
	return nil
}

// snappedSize returns the size that puts the moving boundary of it on the
// closest snap point, when that point is within the tolerance
func (t *Timeline) snappedSize(it *item.Item, size int, right bool) (int, bool) {
	in, end := it.Position, it.End()
	t.snaps.Ignore([]int{in, end})
	defer t.snaps.UnIgnore()

	target := end - size
	if right {
		target = in + size
	}
	point, ok := t.snaps.ClosestPoint(target)
	if !ok || abs(point-target) > t.snapTolerance {
		return 0, false
	}
	snapped := end - point
	if right {
		snapped = point - in
	}
	return snapped, snapped > 0
}

// resizeTx validates size against the source and asks the track to resize
func (t *Timeline) resizeTx(it *item.Item, size int, right bool, tx *undo.Transaction) error {
	if size <= 0 {
		return errors.NewResizeError(it.ID, size, "size must be positive")
	}
	if it.MaxPlaytime > 0 && size > it.MaxPlaytime {
		return errors.NewResizeError(it.ID, size, fmt.Sprintf("longer than its source (%d)", it.MaxPlaytime))
	}
	if size == it.Playtime {
		return nil
	}
	if it.Placed() {
		return t.mustTrack(it.TrackID).RequestResize(it, size, right, tx)
	}

	oldSize := it.Playtime
	operation := undo.NewAction("resize unplaced", func() bool { it.Playtime = size; return true })
	operation.Run()
	tx.Append(operation, undo.NewAction("resize unplaced", func() bool { it.Playtime = oldSize; return true }))
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
