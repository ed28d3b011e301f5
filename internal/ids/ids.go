// Package ids allocates identifiers shared by every timeline entity.
package ids

import "sync/atomic"

// Allocator hands out monotonically increasing identifiers. Tracks, clips,
// compositions and groups all draw from the same allocator so that no two
// entities of any kind share an id. Ids are never returned to the pool.
type Allocator struct {
	next atomic.Int64
}

// NewAllocator creates an allocator whose first id is start.
func NewAllocator(start int) *Allocator {
	a := &Allocator{}
	a.next.Store(int64(start))
	return a
}

// NextID returns a fresh id.
func (a *Allocator) NextID() int {
	return int(a.next.Add(1) - 1)
}

// Peek returns the id the next call to NextID will return.
func (a *Allocator) Peek() int {
	return int(a.next.Load())
}
