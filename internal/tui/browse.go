package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"splice.dev/splice/internal/output"
	"splice.dev/splice/internal/timeline"
	"splice.dev/splice/internal/undo"
)

// ErrInteractiveDisabled is returned when interactive views are disabled via SPLICE_TEST_NO_INTERACTIVE
var ErrInteractiveDisabled = fmt.Errorf("interactive views are disabled (SPLICE_TEST_NO_INTERACTIVE is set)")

// checkInteractiveAllowed returns an error if interactive mode is disabled for testing
func checkInteractiveAllowed() error {
	if os.Getenv("SPLICE_TEST_NO_INTERACTIVE") != "" {
		return ErrInteractiveDisabled
	}
	return nil
}

// Replayer is the part of the timeline the browser drives
type Replayer interface {
	Undo() (string, error)
	Redo() (string, error)
	Snapshot() timeline.State
}

type browseKeyMap struct {
	Undo key.Binding
	Redo key.Binding
	Quit key.Binding
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Undo, k.Redo, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Undo, k.Redo}, {k.Quit}}
}

var defaultBrowseKeys = browseKeyMap{
	Undo: key.NewBinding(
		key.WithKeys("left", "u"),
		key.WithHelp("←/u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("right", "r"),
		key.WithHelp("→/r", "redo"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q", "esc"),
		key.WithHelp("q/esc", "quit"),
	),
}

type browseStyles struct {
	title  lipgloss.Style
	status lipgloss.Style
	err    lipgloss.Style
}

func newBrowseStyles() browseStyles {
	return browseStyles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// BrowseModel is the bubbletea model for stepping through the undo log
type BrowseModel struct {
	timeline Replayer
	history  *undo.Stack
	renderer *output.Renderer
	status   string
	err      error
	keys     browseKeyMap
	help     help.Model
	styles   browseStyles
}

// NewBrowseModel creates a browser over tl and its undo log. names labels
// ids in the rendered state.
func NewBrowseModel(tl Replayer, history *undo.Stack, names map[int]string) BrowseModel {
	return BrowseModel{
		timeline: tl,
		history:  history,
		renderer: output.NewRenderer(io.Discard, names),
		keys:     defaultBrowseKeys,
		help:     help.New(),
		styles:   newBrowseStyles(),
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Undo):
		label, err := m.timeline.Undo()
		m.report("Undid", label, err)

	case key.Matches(keyMsg, m.keys.Redo):
		label, err := m.timeline.Redo()
		m.report("Redid", label, err)
	}

	return m, nil
}

func (m *BrowseModel) report(verb, label string, err error) {
	m.err = err
	m.status = ""
	if err == nil {
		m.status = fmt.Sprintf("%s %q", verb, label)
	}
}

// Status returns the outcome of the last key press
func (m BrowseModel) Status() (string, error) {
	return m.status, m.err
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Timeline History"))
	b.WriteString("\n")
	b.WriteString(m.renderer.RenderState(m.timeline.Snapshot()))
	b.WriteString("\n")
	b.WriteString(m.renderer.RenderHistory(m.history.Entries(), m.history.Index()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.err.Render(m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(m.styles.status.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return b.String()
}

// RunBrowseTUI runs the history browser until the user quits
func RunBrowseTUI(tl Replayer, history *undo.Stack, names map[int]string) error {
	if err := checkInteractiveAllowed(); err != nil {
		return err
	}
	p := tea.NewProgram(NewBrowseModel(tl, history, names), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	_, err := p.Run()
	return err
}
