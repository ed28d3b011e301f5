package script

import (
	"fmt"
	"io"
	"log/slog"

	"splice.dev/splice/internal/item"
	"splice.dev/splice/internal/timeline"
)

// Runner replays scripts against a timeline
type Runner struct {
	tl     *timeline.Timeline
	names  map[string]int
	logger *slog.Logger
}

// NewRunner creates a runner for tl. logger may be nil.
func NewRunner(tl *timeline.Timeline, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{tl: tl, names: make(map[string]int), logger: logger}
}

// Run creates the script's tracks and applies its steps in order, stopping at
// the first step that does not behave as the script expects
func (r *Runner) Run(s *Script) error {
	for _, name := range s.Tracks {
		if err := r.bindNew(name); err != nil {
			return err
		}
		id, err := r.tl.RequestTrackInsertion(-1, false)
		if err != nil {
			return fmt.Errorf("track %q: %w", name, err)
		}
		r.names[name] = id
	}

	for i, step := range s.Steps {
		err := r.apply(step)
		switch {
		case step.Fail && err == nil:
			return fmt.Errorf("step %d (%s): expected the timeline to reject it", i+1, step.Op)
		case step.Fail:
			r.logger.Debug("step rejected as expected", "step", i+1, "op", step.Op, "error", err)
		case err != nil:
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}
	return nil
}

// ID returns the id bound to name
func (r *Runner) ID(name string) (int, bool) {
	id, ok := r.names[name]
	return id, ok
}

// Names returns the script name of every bound id
func (r *Runner) Names() map[int]string {
	out := make(map[int]string, len(r.names))
	for name, id := range r.names {
		out[id] = name
	}
	return out
}

func (r *Runner) apply(step Step) error {
	switch step.Op {
	case OpAddTrack:
		index := -1
		if step.Index != nil {
			index = *step.Index
		}
		return r.create(step.Name, func() (int, error) {
			return r.tl.RequestTrackInsertion(index, true)
		})

	case OpInsertClip:
		trackID, err := r.lookup(step.Track)
		if err != nil {
			return err
		}
		source := item.Source{Label: step.Name, Frames: step.Length}
		return r.create(step.Name, func() (int, error) {
			return r.tl.RequestClipInsertion(source, trackID, step.At, true)
		})

	case OpInsertComposition:
		trackID, err := r.lookup(step.Track)
		if err != nil {
			return err
		}
		return r.create(step.Name, func() (int, error) {
			return r.tl.RequestCompositionInsertion(step.Transition, trackID, step.At, step.Length, true)
		})

	case OpMove:
		id, trackID, err := r.itemAndTrack(step)
		if err != nil {
			return err
		}
		return r.tl.RequestItemMove(id, trackID, step.At, true)

	case OpSuggest:
		id, trackID, err := r.itemAndTrack(step)
		if err != nil {
			return err
		}
		got := r.tl.SuggestItemMove(id, trackID, step.At)
		r.logger.Debug("suggested", "item", step.Item, "requested", step.At, "suggested", got)
		if step.Expect != nil && *step.Expect != got {
			return fmt.Errorf("suggested %d for %q, expected %d", got, step.Item, *step.Expect)
		}
		return nil

	case OpResize:
		id, err := r.lookup(step.Item)
		if err != nil {
			return err
		}
		return r.tl.RequestItemResize(id, step.Size, step.Right, step.Snap, true)

	case OpGroup:
		ids := make([]int, 0, len(step.Items))
		for _, name := range step.Items {
			id, err := r.lookup(name)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return r.create(step.Name, func() (int, error) {
			return r.tl.RequestItemsGroup(ids, true)
		})

	case OpUngroup:
		id, err := r.lookup(step.Item)
		if err != nil {
			return err
		}
		return r.tl.RequestItemUngroup(id, true)

	case OpDelete:
		id, err := r.lookup(step.Item)
		if err != nil {
			return err
		}
		return r.tl.RequestItemDeletion(id, true)

	case OpDeleteTrack:
		id, err := r.lookup(step.Track)
		if err != nil {
			return err
		}
		return r.tl.RequestTrackDeletion(id, true)

	case OpUndo:
		label, err := r.tl.Undo()
		r.logger.Debug("undo", "label", label)
		return err

	case OpRedo:
		label, err := r.tl.Redo()
		r.logger.Debug("redo", "label", label)
		return err
	}
	return fmt.Errorf("unknown op %q", step.Op)
}

// create runs a request that yields a new id and binds name to it
func (r *Runner) create(name string, request func() (int, error)) error {
	if err := r.bindNew(name); err != nil {
		return err
	}
	id, err := request()
	if err != nil {
		return err
	}
	if name != "" {
		r.names[name] = id
	}
	return nil
}

func (r *Runner) bindNew(name string) error {
	if _, taken := r.names[name]; taken {
		return fmt.Errorf("name %q is already bound", name)
	}
	return nil
}

func (r *Runner) lookup(name string) (int, error) {
	id, ok := r.names[name]
	if !ok {
		return 0, fmt.Errorf("unknown name %q", name)
	}
	return id, nil
}

func (r *Runner) itemAndTrack(step Step) (int, int, error) {
	id, err := r.lookup(step.Item)
	if err != nil {
		return 0, 0, err
	}
	trackID, err := r.lookup(step.Track)
	if err != nil {
		return 0, 0, err
	}
	return id, trackID, nil
}
