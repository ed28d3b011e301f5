package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// trackColors is the palette tracks cycle through
var trackColors = [][]int{
	{76, 203, 241},  // Light blue
	{77, 202, 125},  // Green
	{110, 173, 38},  // Dark green
	{245, 200, 0},   // Yellow
	{248, 144, 72},  // Orange
	{244, 98, 81},   // Red
	{235, 130, 188}, // Pink
	{159, 131, 228}, // Purple
	{80, 132, 243},  // Blue
}

// IsTerminal reports whether w is a terminal that can show colors
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorEnabled reports whether output to w should be colored. NO_COLOR and
// CLICOLOR=0 turn colors off even on a terminal.
func ColorEnabled(w io.Writer) bool {
	return IsTerminal(w) && !termenv.EnvNoColor()
}

// palette applies colors only when enabled
type palette struct {
	enabled bool
}

func (p palette) track(text string, index int) string {
	if !p.enabled || len(trackColors) == 0 {
		return text
	}
	color := trackColors[index%len(trackColors)]
	hexColor := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", color[0], color[1], color[2]))
	return lipgloss.NewStyle().Foreground(hexColor).Render(text)
}

func (p palette) render(text, color string) string {
	if !p.enabled {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

func (p palette) bold(text string) string {
	if !p.enabled {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Render(text)
}

func (p palette) dim(text string) string     { return p.render(text, "8") }
func (p palette) cyan(text string) string    { return p.render(text, "6") }
func (p palette) magenta(text string) string { return p.render(text, "5") }
