// Package groups maintains the forest that records how timeline items are
// grouped into rigid multi-selections.
//
// Every registered id is a node. Leaves are clips and compositions; inner nodes
// are groups. Mutations that change the shape of the forest are applied
// immediately and their inverse is appended to the caller's transaction, so the
// timeline can replay or reverse them exactly.
package groups

import (
	"fmt"
	"maps"
	"slices"

	"splice.dev/splice/internal/errors"
	"splice.dev/splice/internal/undo"
)

// NoParent is the parent of a root node
const NoParent = -1

// IDSource allocates ids for new group nodes
type IDSource interface {
	NextID() int
}

type node struct {
	parent   int
	children map[int]struct{}
}

// Forest is the group forest. It is not safe for concurrent use; the timeline
// serialises access to it.
type Forest struct {
	alloc  IDSource
	nodes  map[int]*node
	groups map[int]struct{} // ids created as group nodes
}

// New creates an empty forest drawing group ids from alloc
func New(alloc IDSource) *Forest {
	return &Forest{
		alloc:  alloc,
		nodes:  make(map[int]*node),
		groups: make(map[int]struct{}),
	}
}

// CreateGroupItem registers a parentless, childless node
func (f *Forest) CreateGroupItem(id int) {
	_, exists := f.nodes[id]
	errors.Check(!exists, "id %d is already registered in the group forest", id)
	f.nodes[id] = &node{parent: NoParent, children: make(map[int]struct{})}
}

// RemoveItem drops a leaf node. The node must be parentless and childless.
func (f *Forest) RemoveItem(id int) {
	n := f.mustNode(id)
	errors.Check(n.parent == NoParent, "cannot remove %d: still a member of group %d", id, n.parent)
	errors.Check(len(n.children) == 0, "cannot remove %d: it still has members", id)
	_, isGroup := f.groups[id]
	errors.Check(!isGroup, "cannot remove %d as a leaf: it is a group", id)
	delete(f.nodes, id)
}

// GroupItems groups the roots of ids under a new group node and returns its id.
// A single id is returned unchanged and no group node is created.
func (f *Forest) GroupItems(ids []int, tx *undo.Transaction) (int, bool) {
	errors.Check(len(ids) > 0, "cannot group an empty selection")
	members := dedupe(ids)
	if len(members) == 1 {
		return members[0], true
	}
	for _, id := range members {
		f.mustNode(id)
	}

	gid := f.alloc.NextID()
	operation := f.groupItemsAction(gid, members, NoParent)
	if !operation.Run() {
		return NoParent, false
	}
	tx.Append(operation, f.destructGroupItemAction(gid))
	return gid, true
}

// UngroupItem dissolves the root group containing id
func (f *Forest) UngroupItem(id int, tx *undo.Transaction) bool {
	gid := f.RootID(id)
	if _, ok := f.groups[gid]; !ok {
		return false
	}
	return f.DestructGroupItem(gid, true, tx)
}

// DestructGroupItem removes group id, releasing its children as roots. When
// deleteOrphan is set and the former parent of id is left empty, the parent is
// destructed as well, recursively.
func (f *Forest) DestructGroupItem(id int, deleteOrphan bool, tx *undo.Transaction) bool {
	n := f.mustNode(id)
	parent := n.parent
	oldChildren := sortedKeys(n.children)

	operation := f.destructGroupItemAction(id)
	if !operation.Run() {
		return false
	}
	tx.Append(operation, f.groupItemsAction(id, oldChildren, parent))

	if deleteOrphan && parent != NoParent && len(f.nodes[parent].children) == 0 {
		return f.DestructGroupItem(parent, true, tx)
	}
	return true
}

// groupItemsAction creates group gid over the roots of ids and, when parent is
// set, attaches it back under parent.
func (f *Forest) groupItemsAction(gid int, ids []int, parent int) undo.Action {
	ids = slices.Clone(ids)
	return undo.NewAction(fmt.Sprintf("group %d", gid), func() bool {
		f.CreateGroupItem(gid)
		_, exists := f.groups[gid]
		errors.Check(!exists, "group %d is already registered", gid)
		f.groups[gid] = struct{}{}

		roots := make(map[int]struct{}, len(ids))
		for _, id := range ids {
			roots[f.RootID(id)] = struct{}{}
		}
		for _, root := range sortedKeys(roots) {
			f.setGroup(root, gid)
		}
		if parent != NoParent {
			if _, ok := f.nodes[parent]; ok {
				f.setGroup(gid, parent)
			}
		}
		return true
	})
}

func (f *Forest) destructGroupItemAction(id int) undo.Action {
	return undo.NewAction(fmt.Sprintf("ungroup %d", id), func() bool {
		delete(f.groups, id)
		f.removeFromGroup(id)
		n := f.mustNode(id)
		for child := range n.children {
			f.mustNode(child).parent = NoParent
		}
		delete(f.nodes, id)
		return true
	})
}

// RootID follows parent links to the top of id's tree
func (f *Forest) RootID(id int) int {
	seen := make(map[int]struct{})
	for {
		n := f.mustNode(id)
		_, loop := seen[id]
		errors.Check(!loop, "cycle detected in group forest at %d", id)
		seen[id] = struct{}{}
		if n.parent == NoParent {
			return id
		}
		id = n.parent
	}
}

// Has reports whether id is registered
func (f *Forest) Has(id int) bool {
	_, ok := f.nodes[id]
	return ok
}

// IsGroup reports whether id is a registered group node
func (f *Forest) IsGroup(id int) bool {
	_, ok := f.groups[id]
	return ok
}

// IsLeaf reports whether id has no members
func (f *Forest) IsLeaf(id int) bool {
	return len(f.mustNode(id).children) == 0
}

// IsInGroup reports whether id belongs to some group
func (f *Forest) IsInGroup(id int) bool {
	f.mustNode(id)
	return f.RootID(id) != id
}

// Parent returns the immediate group of id, or NoParent
func (f *Forest) Parent(id int) int {
	return f.mustNode(id).parent
}

// DirectChildren returns the immediate members of id
func (f *Forest) DirectChildren(id int) []int {
	return sortedKeys(f.mustNode(id).children)
}

// Subtree returns id and all of its descendants, breadth first
func (f *Forest) Subtree(id int) []int {
	var out []int
	f.walk(id, func(cur int, _ *node) {
		out = append(out, cur)
	})
	return out
}

// Leaves returns the descendants of id that have no members, breadth first.
// The leaves of a leaf are the leaf itself.
func (f *Forest) Leaves(id int) []int {
	var out []int
	f.walk(id, func(cur int, n *node) {
		if len(n.children) == 0 {
			out = append(out, cur)
		}
	})
	return out
}

// Groups returns every registered group id in ascending order
func (f *Forest) Groups() []int {
	return sortedKeys(f.groups)
}

// RootGroups returns the registered groups that have no parent
func (f *Forest) RootGroups() []int {
	var out []int
	for _, gid := range sortedKeys(f.groups) {
		if f.nodes[gid].parent == NoParent {
			out = append(out, gid)
		}
	}
	return out
}

// Len returns the number of registered nodes
func (f *Forest) Len() int {
	return len(f.nodes)
}

// setGroup attaches id under groupID, detaching it from any previous group first
func (f *Forest) setGroup(id, groupID int) {
	f.mustNode(id)
	g := f.mustNode(groupID)
	errors.Check(id != groupID, "cannot make %d a member of itself", id)
	f.removeFromGroup(id)
	f.nodes[id].parent = groupID
	g.children[id] = struct{}{}
}

// removeFromGroup detaches id from its parent, if any
func (f *Forest) removeFromGroup(id int) {
	n := f.mustNode(id)
	if n.parent != NoParent {
		delete(f.mustNode(n.parent).children, id)
	}
	n.parent = NoParent
}

// walk visits id and its descendants breadth first, children in ascending id
// order. Reaching a node twice means the forest is corrupt.
func (f *Forest) walk(id int, visit func(id int, n *node)) {
	seen := make(map[int]struct{})
	queue := []int{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		_, loop := seen[cur]
		errors.Check(!loop, "cycle detected in group forest at %d", cur)
		seen[cur] = struct{}{}

		n := f.mustNode(cur)
		visit(cur, n)
		queue = append(queue, sortedKeys(n.children)...)
	}
}

func (f *Forest) mustNode(id int) *node {
	n, ok := f.nodes[id]
	errors.Check(ok, "id %d is not registered in the group forest", id)
	return n
}

// Validate checks the structural invariants of the forest: parent and child
// links agree, every walk terminates, and no group is empty.
func (f *Forest) Validate() error {
	for id, n := range f.nodes {
		if n.parent != NoParent {
			p, ok := f.nodes[n.parent]
			if !ok {
				return fmt.Errorf("node %d has unknown parent %d", id, n.parent)
			}
			if _, ok := p.children[id]; !ok {
				return fmt.Errorf("node %d is not listed as a child of %d", id, n.parent)
			}
		}
		for child := range n.children {
			c, ok := f.nodes[child]
			if !ok {
				return fmt.Errorf("node %d has unknown child %d", id, child)
			}
			if c.parent != id {
				return fmt.Errorf("child %d of %d points at parent %d", child, id, c.parent)
			}
		}
		steps := 0
		for cur := id; f.nodes[cur].parent != NoParent; cur = f.nodes[cur].parent {
			steps++
			if steps > len(f.nodes) {
				return fmt.Errorf("cycle through node %d", id)
			}
		}
	}
	for gid := range f.groups {
		n, ok := f.nodes[gid]
		if !ok {
			return fmt.Errorf("group %d is registered but has no node", gid)
		}
		if len(n.children) == 0 {
			return fmt.Errorf("group %d is empty", gid)
		}
	}
	return nil
}

func dedupe(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func sortedKeys[V any](m map[int]V) []int {
	return slices.Sorted(maps.Keys(m))
}
