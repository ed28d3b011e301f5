package timeline

import (
	"fmt"
	"time"
)

// Undo reverses the most recent logged request and returns its label
func (t *Timeline) Undo() (label string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opUndo, time.Now(), &err)

	label, err = t.log.Undo()
	if err != nil {
		return label, fmt.Errorf("failed to undo: %w", err)
	}
	t.logger.Debug("undone", "label", label)
	return label, nil
}

// Redo re-applies the most recently undone request and returns its label
func (t *Timeline) Redo() (label string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.observe(opRedo, time.Now(), &err)

	label, err = t.log.Redo()
	if err != nil {
		return label, fmt.Errorf("failed to redo: %w", err)
	}
	t.logger.Debug("redone", "label", label)
	return label, nil
}
