package timeline

import (
	"fmt"
	"time"

	"splice.dev/splice/internal/errors"
	"splice.dev/splice/internal/item"
	"splice.dev/splice/internal/undo"
)

// RequestTrackInsertion creates an empty track at position in the track order
// and returns its id. A position of -1 appends the track.
func (t *Timeline) RequestTrackInsertion(position int, logUndo bool) (id int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opTrackInsert, time.Now(), &err)

	tx := undo.New()
	id, err = t.insertTrackTx(position, tx)
	if err != nil {
		return item.NoTrack, err
	}
	t.commit(labelInsertTrack, tx, logUndo)
	return id, nil
}

// RequestTrackDeletion deletes every item on a track, releasing them from their
// groups first, and then removes the track
func (t *Timeline) RequestTrackDeletion(trackID int, logUndo bool) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opTrackDelete, time.Now(), &err)

	if _, err := t.track(trackID); err != nil {
		return err
	}
	tx := undo.New()
	if err := t.deleteTrackTx(trackID, tx); err != nil {
		return fmt.Errorf("failed to delete track %d: %w", trackID, err)
	}
	t.commit(labelDeleteTrack, tx, logUndo)
	return nil
}

// RequestReset deletes every track as one undoable step
func (t *Timeline) RequestReset() (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opReset, time.Now(), &err)

	tx := undo.New()
	for _, tr := range append([]TrackModel(nil), t.tracks...) {
		if err := t.deleteTrackTx(tr.ID(), tx); err != nil {
			t.rollback(opReset, tx, err)
			return fmt.Errorf("failed to reset timeline: %w", err)
		}
	}
	t.commit(labelReset, tx, true)
	return nil
}

func (t *Timeline) insertTrackTx(position int, tx *undo.Transaction) (int, error) {
	if position == -1 {
		position = len(t.tracks)
	}
	if position < 0 || position > len(t.tracks) {
		return item.NoTrack, fmt.Errorf("insert track at %d of %d: %w", position, len(t.tracks), errors.ErrTrackOutOfRange)
	}
	id := t.ids.NextID()
	tr := t.newTrack(id, t.snaps)
	operation := t.registerTrackAction(tr, position)
	operation.Run()
	tx.Append(operation, t.deregisterTrackAction(id))
	return id, nil
}

func (t *Timeline) deleteTrackTx(trackID int, tx *undo.Transaction) error {
	tr := t.mustTrack(trackID)
	local := undo.New()
	for _, id := range tr.Items() {
		for t.groups.IsInGroup(id) {
			if !t.groups.UngroupItem(id, local) {
				err := fmt.Errorf("item %d: %w", id, errors.ErrNotGrouped)
				t.rollback(opTrackDelete, local, err)
				return err
			}
		}
		if err := t.deleteItemTx(id, local); err != nil {
			t.rollback(opTrackDelete, local, err)
			return err
		}
	}

	position := t.trackPosition(trackID)
	operation := t.deregisterTrackAction(trackID)
	operation.Run()
	local.Append(operation, t.registerTrackAction(tr, position))
	tx.Merge(local)
	return nil
}
