package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// Choice is one selectable entry, usually a demo or library feature.
type Choice struct {
	Label       string
	Description string
	Value       string
}

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1)
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	unselectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	descriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginLeft(4)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// Model is a bubbletea list for choosing one entry from a short list.
type Model struct {
	title     string
	choices   []Choice
	cursor    int
	selected  int
	width     int
	keys      keyMap
	cancelled bool
}

// NewModel creates a picker over the given choices.
func NewModel(title string, choices []Choice) Model {
	return Model{
		title:    title,
		choices:  choices,
		selected: -1,
		width:    72,
		keys:     defaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			m.selected = m.cursor
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit):
			m.cancelled = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, c := range m.choices {
		cursor := "  "
		style := unselectedStyle
		symbol := "○"
		if i == m.cursor {
			cursor = ""
			style = selectedStyle
			symbol = "●"
		}
		b.WriteString(cursor)
		b.WriteString(style.Render(symbol + " " + c.Label))
		b.WriteString("\n")

		if c.Description != "" {
			wrapped := wordwrap.String(c.Description, m.width-8)
			b.WriteString(descriptionStyle.Render(wrapped))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render("\n↑/↓ navigate • enter select • q quit"))
	return b.String()
}

// Choice returns the picked entry, or nil when the picker was cancelled.
func (m Model) Choice() *Choice {
	if m.selected >= 0 && m.selected < len(m.choices) {
		return &m.choices[m.selected]
	}
	return nil
}

// Cancelled reports whether the user backed out without picking.
func (m Model) Cancelled() bool {
	return m.cancelled
}

// Pick runs an interactive picker and returns the chosen entry. It returns
// nil with a nil error when the user cancels. A single choice is returned
// directly without entering the TUI.
func Pick(title string, choices []Choice) (*Choice, error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("nothing to pick from")
	}
	if len(choices) == 1 {
		return &choices[0], nil
	}

	final, err := tea.NewProgram(NewModel(title, choices)).Run()
	if err != nil {
		return nil, fmt.Errorf("picker failed: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("picker returned unexpected model")
	}
	if m.Cancelled() {
		return nil, nil
	}
	return m.Choice(), nil
}
