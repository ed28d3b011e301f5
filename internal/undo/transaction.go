// Package undo provides reversible transactions and the labeled undo/redo log
// that top-level timeline requests are recorded in.
package undo

import "slices"

// Action is a single invocable step of a transaction. It reports whether the
// step was applied.
type Action struct {
	Label string
	run   func() bool
}

// NewAction wraps fn as an Action.
func NewAction(label string, fn func() bool) Action {
	return Action{Label: label, run: fn}
}

// Run invokes the action. The zero Action is a successful no-op.
func (a Action) Run() bool {
	if a.run == nil {
		return true
	}
	return a.run()
}

// Transaction is an (operation, reverse) pair built from ordered actions.
// Redo runs the operation steps in the order they were appended; Undo runs the
// reverse steps in the opposite order.
type Transaction struct {
	redo []Action
	undo []Action
}

// New creates an empty transaction. Both directions of an empty transaction succeed.
func New() *Transaction {
	return &Transaction{}
}

// Append records a step: op runs after every operation already recorded, and
// reverse runs before every reverse already recorded.
func (t *Transaction) Append(op, reverse Action) {
	t.redo = append(t.redo, op)
	t.undo = append([]Action{reverse}, t.undo...)
}

// Merge appends a whole sub-transaction as a single step.
func (t *Transaction) Merge(other *Transaction) {
	if other == nil || other.Empty() {
		return
	}
	t.redo = append(t.redo, other.redo...)
	t.undo = append(slices.Clone(other.undo), t.undo...)
}

// Redo runs every operation step. All steps run even if one fails; the result
// reports whether all of them succeeded.
func (t *Transaction) Redo() bool {
	ok := true
	for _, a := range t.redo {
		if !a.Run() {
			ok = false
		}
	}
	return ok
}

// Undo runs every reverse step.
func (t *Transaction) Undo() bool {
	ok := true
	for _, a := range t.undo {
		if !a.Run() {
			ok = false
		}
	}
	return ok
}

// Empty reports whether no step has been recorded.
func (t *Transaction) Empty() bool {
	return len(t.redo) == 0
}

// Len returns the number of recorded steps.
func (t *Transaction) Len() int {
	return len(t.redo)
}

// Labels returns the operation labels in redo order.
func (t *Transaction) Labels() []string {
	labels := make([]string, 0, len(t.redo))
	for _, a := range t.redo {
		labels = append(labels, a.Label)
	}
	return labels
}
