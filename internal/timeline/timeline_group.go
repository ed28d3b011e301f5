package timeline

import (
	"fmt"
	"time"

	"splice.dev/splice/internal/errors"
	"splice.dev/splice/internal/groups"
	"splice.dev/splice/internal/undo"
)

// RequestItemsGroup binds the top-level groups of ids into one new group and
// returns its id. Every id must name a placed item or an existing group.
// Grouping a single id returns it unchanged.
func (t *Timeline) RequestItemsGroup(ids []int, logUndo bool) (gid int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opGroup, time.Now(), &err)

	if len(ids) == 0 {
		return groups.NoParent, fmt.Errorf("empty selection: %w", errors.ErrInvalidGroupMember)
	}
	for _, id := range ids {
		if it, ok := t.items[id]; ok {
			if !it.Placed() {
				return groups.NoParent, fmt.Errorf("item %d is not on a track: %w", id, errors.ErrInvalidGroupMember)
			}
			continue
		}
		if !t.groups.IsGroup(id) {
			return groups.NoParent, fmt.Errorf("%d is neither an item nor a group: %w", id, errors.ErrInvalidGroupMember)
		}
	}

	tx := undo.New()
	gid, ok := t.groups.GroupItems(ids, tx)
	if !ok {
		return groups.NoParent, fmt.Errorf("failed to group %v: %w", ids, errors.ErrInvalidGroupMember)
	}
	t.commit(labelGroup, tx, logUndo)
	return gid, nil
}

// RequestItemUngroup dissolves the top-level group containing id
func (t *Timeline) RequestItemUngroup(id int, logUndo bool) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opUngroup, time.Now(), &err)

	if !t.groups.Has(id) {
		return errors.NewItemNotFoundError(id)
	}
	tx := undo.New()
	if !t.groups.UngroupItem(id, tx) {
		return fmt.Errorf("item %d: %w", id, errors.ErrNotGrouped)
	}
	t.commit(labelUngroup, tx, logUndo)
	return nil
}
