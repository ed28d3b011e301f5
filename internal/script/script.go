// Package script reads and replays edit sessions written as YAML.
//
// A script names its tracks up front and then lists steps. Items, groups and
// tracks are referred to by the names the script gives them; the runner maps
// them to timeline ids as it goes.
//
//	tracks: [V1, V2]
//	steps:
//	  - op: insert-clip
//	    name: intro
//	    track: V1
//	    at: 0
//	    length: 50
//	  - op: move
//	    item: intro
//	    track: V2
//	    at: 10
package script

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step operations
const (
	OpAddTrack          = "add-track"
	OpInsertClip        = "insert-clip"
	OpInsertComposition = "insert-composition"
	OpMove              = "move"
	OpSuggest           = "suggest"
	OpResize            = "resize"
	OpGroup             = "group"
	OpUngroup           = "ungroup"
	OpDelete            = "delete"
	OpDeleteTrack       = "delete-track"
	OpUndo              = "undo"
	OpRedo              = "redo"
)

var knownOps = map[string]bool{
	OpAddTrack: true, OpInsertClip: true, OpInsertComposition: true, OpMove: true,
	OpSuggest: true, OpResize: true, OpGroup: true, OpUngroup: true, OpDelete: true,
	OpDeleteTrack: true, OpUndo: true, OpRedo: true,
}

// Script is a parsed edit session
type Script struct {
	Tracks []string `yaml:"tracks"`
	Steps  []Step   `yaml:"steps"`
}

// Step is one request in a script. Which fields apply depends on Op.
type Step struct {
	Op string `yaml:"op"`

	// Name labels the item, group or track the step creates
	Name string `yaml:"name,omitempty"`
	// Item is the item or group the step acts on
	Item string `yaml:"item,omitempty"`
	// Items lists the members of a group step
	Items []string `yaml:"items,omitempty"`
	Track string   `yaml:"track,omitempty"`

	At         int    `yaml:"at,omitempty"`
	Length     int    `yaml:"length,omitempty"`
	Size       int    `yaml:"size,omitempty"`
	Right      bool   `yaml:"right,omitempty"`
	Snap       bool   `yaml:"snap,omitempty"`
	Transition string `yaml:"transition,omitempty"`

	// Index places an added track; it is appended when unset
	Index *int `yaml:"index,omitempty"`
	// Expect is the position a suggest step must return
	Expect *int `yaml:"expect,omitempty"`
	// Fail marks a step the timeline is expected to reject
	Fail bool `yaml:"fail,omitempty"`
}

// Parse decodes a script, rejecting unknown fields and operations
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, step := range s.Steps {
		if !knownOps[step.Op] {
			return nil, fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
	}
	return &s, nil
}

// Load reads and parses the script at path
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}
