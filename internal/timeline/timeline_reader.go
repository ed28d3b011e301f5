package timeline

import (
	"maps"
	"slices"

	"splice.dev/splice/internal/errors"
	"splice.dev/splice/internal/item"
)

// TracksCount returns the number of tracks
func (t *Timeline) TracksCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.tracks)
}

// ClipsCount returns the number of registered clips
func (t *Timeline) ClipsCount() int {
	return t.countKind(item.KindClip)
}

// CompositionsCount returns the number of registered compositions
func (t *Timeline) CompositionsCount() int {
	return t.countKind(item.KindComposition)
}

func (t *Timeline) countKind(kind item.Kind) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, it := range t.items {
		if it.Kind == kind {
			n++
		}
	}
	return n
}

// ItemTrackID returns the track an item is placed on, item.NoTrack if none.
// It panics if id is not an item.
func (t *Timeline) ItemTrackID(id int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mustItem(id).TrackID
}

// ItemPosition returns the start of an item. It panics if id is not an item.
func (t *Timeline) ItemPosition(id int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mustItem(id).Position
}

// ItemPlaytime returns the length of an item. It panics if id is not an item.
func (t *Timeline) ItemPlaytime(id int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mustItem(id).Playtime
}

// TrackPosition returns the index of a track in the track order, -1 if unknown
func (t *Timeline) TrackPosition(trackID int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.trackPosition(trackID)
}

// TrackIDAt returns the id of the track at position in the track order
func (t *Timeline) TrackIDAt(position int) (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if position < 0 || position >= len(t.tracks) {
		return item.NoTrack, errors.ErrTrackOutOfRange
	}
	return t.tracks[position].ID(), nil
}

// TrackIDs returns every track id in track order
func (t *Timeline) TrackIDs() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]int, 0, len(t.tracks))
	for _, tr := range t.tracks {
		out = append(out, tr.ID())
	}
	return out
}

// TrackClipsCount returns the number of clips on a track
func (t *Timeline) TrackClipsCount(trackID int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mustTrack(trackID).ClipsCount()
}

// TrackCompositionsCount returns the number of compositions on a track
func (t *Timeline) TrackCompositionsCount(trackID int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mustTrack(trackID).CompositionsCount()
}

// TrackItems returns the items on a track, clips first, each layer by position
func (t *Timeline) TrackItems(trackID int) []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mustTrack(trackID).Items()
}

// IsClip reports whether id is a registered clip
func (t *Timeline) IsClip(id int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	it, ok := t.items[id]
	return ok && it.IsClip()
}

// IsComposition reports whether id is a registered composition
func (t *Timeline) IsComposition(id int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	it, ok := t.items[id]
	return ok && it.IsComposition()
}

// IsTrack reports whether id is a registered track
func (t *Timeline) IsTrack(id int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.trackIdx[id]
	return ok
}

// IsGroup reports whether id is a registered group
func (t *Timeline) IsGroup(id int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.groups.IsGroup(id)
}

// GroupElements returns the direct members of a group
func (t *Timeline) GroupElements(groupID int) []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.groups.DirectChildren(groupID)
}

// RootID returns the top-level group containing id, or id itself when it is
// not grouped
func (t *Timeline) RootID(id int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.groups.RootID(id)
}

// Groups returns every group id in ascending order
func (t *Timeline) Groups() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.groups.Groups()
}

// Duration returns the end of the last item on any track
func (t *Timeline) Duration() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d := 0
	for _, tr := range t.tracks {
		d = max(d, tr.Duration())
	}
	return d
}

// ItemState is the observable state of one clip or composition
type ItemState struct {
	ID       int
	Kind     item.Kind
	Name     string
	TrackID  int
	Position int
	Playtime int
	ATrack   int
}

// TrackState lists the items on one track
type TrackState struct {
	ID    int
	Items []int
}

// State is a value copy of everything observable about a timeline. Two
// timelines with equal States are indistinguishable through the public API.
type State struct {
	Tracks []TrackState
	Items  []ItemState   // by id
	Groups map[int][]int // group id -> direct members
}

// Snapshot copies the observable state of the timeline
func (t *Timeline) Snapshot() State {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := State{
		Tracks: make([]TrackState, 0, len(t.tracks)),
		Items:  make([]ItemState, 0, len(t.items)),
		Groups: make(map[int][]int),
	}
	for _, tr := range t.tracks {
		s.Tracks = append(s.Tracks, TrackState{ID: tr.ID(), Items: tr.Items()})
	}
	for _, id := range slices.Sorted(maps.Keys(t.items)) {
		it := t.items[id]
		s.Items = append(s.Items, ItemState{
			ID:       it.ID,
			Kind:     it.Kind,
			Name:     it.Name,
			TrackID:  it.TrackID,
			Position: it.Position,
			Playtime: it.Playtime,
			ATrack:   it.ATrack,
		})
	}
	for _, gid := range t.groups.Groups() {
		s.Groups[gid] = t.groups.DirectChildren(gid)
	}
	return s
}
