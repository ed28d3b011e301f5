// Package item defines the placeable timeline entities (clips and compositions)
// and the factory that builds them from a source.
package item

import (
	"errors"
	"fmt"
)

// NoTrack is the track id of an item that is not placed on any track
const NoTrack = -1

// Kind distinguishes clips from compositions
type Kind int

const (
	// KindClip is a media clip occupying one track
	KindClip Kind = iota
	// KindComposition overlays two tracks
	KindComposition
)

func (k Kind) String() string {
	switch k {
	case KindClip:
		return "clip"
	case KindComposition:
		return "composition"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Item is a clip or composition. Position and Playtime are in timeline units;
// the item occupies [Position, Position+Playtime) on its track.
type Item struct {
	ID       int
	Kind     Kind
	Name     string
	Position int
	Playtime int
	TrackID  int

	// MaxPlaytime bounds resizes by the length of the source (0 = unbounded)
	MaxPlaytime int

	// ATrack is the lower track a composition blends onto. Informational only.
	ATrack int
}

// End returns the first position after the item
func (it *Item) End() int {
	return it.Position + it.Playtime
}

// Placed reports whether the item is on a track
func (it *Item) Placed() bool {
	return it.TrackID != NoTrack
}

// IsClip reports whether the item is a clip
func (it *Item) IsClip() bool {
	return it.Kind == KindClip
}

// IsComposition reports whether the item is a composition
func (it *Item) IsComposition() bool {
	return it.Kind == KindComposition
}

// Producer is the source handle a clip is built from
type Producer interface {
	Name() string
	Length() int
}

// Source is a fixed-length Producer
type Source struct {
	Label  string
	Frames int
}

// Name returns the source label
func (s Source) Name() string { return s.Label }

// Length returns the source length
func (s Source) Length() int { return s.Frames }

// ErrInvalidSource is returned when a producer cannot back an item
var ErrInvalidSource = errors.New("invalid item source")

// Factory builds new unplaced items with a given id
type Factory interface {
	NewClip(id int, p Producer) (*Item, error)
	NewComposition(id int, transition string, length int) (*Item, error)
}

// DefaultFactory builds clips whose playtime is the full source length
type DefaultFactory struct{}

// NewClip builds a clip spanning the whole producer
func (DefaultFactory) NewClip(id int, p Producer) (*Item, error) {
	if p == nil {
		return nil, fmt.Errorf("clip %d: %w: nil producer", id, ErrInvalidSource)
	}
	if p.Length() <= 0 {
		return nil, fmt.Errorf("clip %d: %w: length %d", id, ErrInvalidSource, p.Length())
	}
	return &Item{
		ID:          id,
		Kind:        KindClip,
		Name:        p.Name(),
		Playtime:    p.Length(),
		TrackID:     NoTrack,
		MaxPlaytime: p.Length(),
		ATrack:      NoTrack,
	}, nil
}

// NewComposition builds a composition of the given transition. Compositions
// have no source and may be resized freely.
func (DefaultFactory) NewComposition(id int, transition string, length int) (*Item, error) {
	if transition == "" {
		return nil, fmt.Errorf("composition %d: %w: empty transition", id, ErrInvalidSource)
	}
	if length <= 0 {
		return nil, fmt.Errorf("composition %d: %w: length %d", id, ErrInvalidSource, length)
	}
	return &Item{
		ID:       id,
		Kind:     KindComposition,
		Name:     transition,
		Playtime: length,
		TrackID:  NoTrack,
		ATrack:   NoTrack,
	}, nil
}
