// Package snap keeps the sorted set of points that interactive edits snap to.
package snap

import (
	"github.com/emirpasic/gods/maps/treemap"
)

// Index is a reference-counted sorted set of snap points. A point registered
// twice (two items sharing a boundary) stays in the index until both are removed.
// It is not safe for concurrent use; the timeline serialises access to it.
type Index struct {
	points  *treemap.Map // point -> reference count
	ignored []int
}

// New creates an empty snap index
func New() *Index {
	return &Index{points: treemap.NewWithIntComparator()}
}

// AddPoint registers one reference to p
func (s *Index) AddPoint(p int) {
	s.points.Put(p, s.count(p)+1)
}

// RemovePoint drops one reference to p. Removing an unknown point is a no-op.
func (s *Index) RemovePoint(p int) {
	switch n := s.count(p); {
	case n > 1:
		s.points.Put(p, n-1)
	case n == 1:
		s.points.Remove(p)
	}
}

// Ignore hides one reference of each point until UnIgnore is called
func (s *Index) Ignore(pts []int) {
	for _, p := range pts {
		if s.count(p) == 0 {
			continue
		}
		s.RemovePoint(p)
		s.ignored = append(s.ignored, p)
	}
}

// UnIgnore restores every point hidden by Ignore
func (s *Index) UnIgnore() {
	for _, p := range s.ignored {
		s.AddPoint(p)
	}
	s.ignored = nil
}

// ClosestPoint returns the point nearest to pos. Ties go to the earlier point.
func (s *Index) ClosestPoint(pos int) (int, bool) {
	prev, hasPrev := s.floor(pos)
	next, hasNext := s.ceiling(pos)
	switch {
	case hasPrev && hasNext:
		if next-pos < pos-prev {
			return next, true
		}
		return prev, true
	case hasPrev:
		return prev, true
	case hasNext:
		return next, true
	default:
		return 0, false
	}
}

// NextPoint returns the first point strictly after pos
func (s *Index) NextPoint(pos int) (int, bool) {
	return s.ceiling(pos + 1)
}

// PreviousPoint returns the last point strictly before pos
func (s *Index) PreviousPoint(pos int) (int, bool) {
	return s.floor(pos - 1)
}

// Points returns every distinct point in ascending order
func (s *Index) Points() []int {
	keys := s.points.Keys()
	out := make([]int, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.(int))
	}
	return out
}

// Len returns the number of distinct points
func (s *Index) Len() int {
	return s.points.Size()
}

func (s *Index) count(p int) int {
	if v, ok := s.points.Get(p); ok {
		return v.(int)
	}
	return 0
}

func (s *Index) floor(pos int) (int, bool) {
	k, _ := s.points.Floor(pos)
	if k == nil {
		return 0, false
	}
	return k.(int), true
}

func (s *Index) ceiling(pos int) (int, bool) {
	k, _ := s.points.Ceiling(pos)
	if k == nil {
		return 0, false
	}
	return k.(int), true
}
