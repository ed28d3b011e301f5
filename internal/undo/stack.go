package undo

import (
	"fmt"
	"sync"

	"splice.dev/splice/internal/errors"
)

// DefaultMaxDepth is the default number of entries the log keeps
const DefaultMaxDepth = 100

// Entry is a labeled transaction in the undo log
type Entry struct {
	Label string
	Tx    *Transaction
}

// Stack is the undo/redo log. Entries before the cursor have been applied and
// can be undone; entries at or after it have been undone and can be redone.
// Thread-safe: All methods are safe for concurrent use
type Stack struct {
	entries  []Entry
	cursor   int
	maxDepth int
	mu       sync.Mutex
}

// NewStack creates a log holding at most maxDepth entries (0 = unbounded)
func NewStack(maxDepth int) *Stack {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Stack{maxDepth: maxDepth}
}

// Push records an already-applied transaction. Any undone entries are discarded.
func (s *Stack) Push(label string, tx *Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries[:s.cursor], Entry{Label: label, Tx: tx})
	s.cursor = len(s.entries)

	if s.maxDepth > 0 && len(s.entries) > s.maxDepth {
		drop := len(s.entries) - s.maxDepth
		s.entries = slicesDropFront(s.entries, drop)
		s.cursor -= drop
	}
}

// Undo reverses the most recent applied entry and returns its label
func (s *Stack) Undo() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor == 0 {
		return "", errors.ErrNothingToUndo
	}
	entry := s.entries[s.cursor-1]
	if !entry.Tx.Undo() {
		return entry.Label, fmt.Errorf("undo %q: %w", entry.Label, errors.ErrReplayFailed)
	}
	s.cursor--
	return entry.Label, nil
}

// Redo re-applies the most recently undone entry and returns its label
func (s *Stack) Redo() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor == len(s.entries) {
		return "", errors.ErrNothingToRedo
	}
	entry := s.entries[s.cursor]
	if !entry.Tx.Redo() {
		return entry.Label, fmt.Errorf("redo %q: %w", entry.Label, errors.ErrReplayFailed)
	}
	s.cursor++
	return entry.Label, nil
}

// CanUndo reports whether an applied entry exists
func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor > 0
}

// CanRedo reports whether an undone entry exists
func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor < len(s.entries)
}

// Len returns the number of entries, applied or undone
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Index returns the cursor position (the number of applied entries)
func (s *Stack) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Entries returns a copy of every entry, oldest first
func (s *Stack) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Labels returns the labels of every entry, oldest first
func (s *Stack) Labels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	labels := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		labels = append(labels, e.Label)
	}
	return labels
}

// Clear drops every entry
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.cursor = 0
}

func slicesDropFront(entries []Entry, n int) []Entry {
	out := make([]Entry, len(entries)-n)
	copy(out, entries[n:])
	return out
}
