// Package output renders timeline state and undo history for the terminal.
package output

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"splice.dev/splice/internal/item"
	"splice.dev/splice/internal/timeline"
	"splice.dev/splice/internal/undo"
)

// Renderer formats timeline state. Ids with a known name are shown by name.
type Renderer struct {
	names   map[int]string
	palette palette
}

// NewRenderer creates a renderer for w, coloring output when w is a terminal
// and colors are not disabled by the environment
func NewRenderer(w io.Writer, names map[int]string) *Renderer {
	return &Renderer{names: names, palette: palette{enabled: ColorEnabled(w)}}
}

// RenderState lists every track with its items, then the group forest
func (r *Renderer) RenderState(state timeline.State) string {
	items := make(map[int]timeline.ItemState, len(state.Items))
	for _, it := range state.Items {
		items[it.ID] = it
	}

	var b strings.Builder
	b.WriteString(r.palette.bold("Tracks") + "\n")
	if len(state.Tracks) == 0 {
		b.WriteString(r.palette.dim("  (none)") + "\n")
	}
	for i, tr := range state.Tracks {
		line := "  " + r.palette.track(r.name(tr.ID), i)
		for _, id := range tr.Items {
			line += " " + r.formatItem(items[id])
		}
		b.WriteString(line + "\n")
	}

	roots := rootGroups(state.Groups)
	if len(roots) == 0 {
		return b.String()
	}
	b.WriteString(r.palette.bold("Groups") + "\n")
	for _, gid := range roots {
		r.writeGroup(&b, state.Groups, gid, 0)
	}
	return b.String()
}

// RenderHistory lists the undo log oldest first, marking the entries that are
// applied with ◉ and the undone ones with ◯
func (r *Renderer) RenderHistory(entries []undo.Entry, applied int) string {
	if len(entries) == 0 {
		return r.palette.dim("(empty history)") + "\n"
	}
	var b strings.Builder
	for i, e := range entries {
		symbol := "◯"
		label := r.palette.dim(e.Label)
		if i < applied {
			symbol = "◉"
			label = e.Label
		}
		fmt.Fprintf(&b, "%s %3d %s\n", symbol, i+1, label)
	}
	return b.String()
}

func (r *Renderer) formatItem(it timeline.ItemState) string {
	text := fmt.Sprintf("%s[%d,%d)", r.name(it.ID), it.Position, it.Position+it.Playtime)
	if it.Kind == item.KindComposition {
		return r.palette.magenta(text)
	}
	return r.palette.cyan(text)
}

// writeGroup writes gid and its members as a tree, one indent per level
func (r *Renderer) writeGroup(b *strings.Builder, forest map[int][]int, gid, indent int) {
	prefix := strings.Repeat("│  ", indent)
	b.WriteString(prefix + "◯ " + r.name(gid) + "\n")
	for _, child := range forest[gid] {
		if _, isGroup := forest[child]; isGroup {
			r.writeGroup(b, forest, child, indent+1)
			continue
		}
		b.WriteString(prefix + "│  " + r.name(child) + "\n")
	}
}

func (r *Renderer) name(id int) string {
	if name, ok := r.names[id]; ok {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

// rootGroups returns the groups that are no other group's member, ascending
func rootGroups(forest map[int][]int) []int {
	member := make(map[int]bool)
	for _, children := range forest {
		for _, c := range children {
			member[c] = true
		}
	}
	var roots []int
	for gid := range forest {
		if !member[gid] {
			roots = append(roots, gid)
		}
	}
	slices.Sort(roots)
	return roots
}
