package picker

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// taskDoneMsg carries the result of the background task.
type taskDoneMsg struct {
	result string
	err    error
}

// SpinnerModel shows a spinner while a background task runs.
type SpinnerModel struct {
	spinner spinner.Model
	message string
	task    func() (string, error)
	done    bool
	result  string
	err     error
}

// NewSpinner creates a spinner model that runs task when started.
func NewSpinner(message string, task func() (string, error)) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return SpinnerModel{spinner: s, message: message, task: task}
}

// Init implements tea.Model.
func (m SpinnerModel) Init() tea.Cmd {
	run := func() tea.Msg {
		result, err := m.task()
		return taskDoneMsg{result: result, err: err}
	}
	return tea.Batch(m.spinner.Tick, run)
}

// Update implements tea.Model.
func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = errCancelled
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m SpinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return errorStyle.Render("✗ "+m.err.Error()) + "\n"
		}
		return successStyle.Render("✓ "+m.result) + "\n"
	}
	return m.spinner.View() + " " + messageStyle.Render(m.message)
}

// errCancelled marks a ctrl+c during a spinner task.
var errCancelled = cancelError{}

type cancelError struct{}

func (cancelError) Error() string { return "cancelled" }

// IsCancelled reports whether err came from a user interrupt.
func IsCancelled(err error) bool {
	_, ok := err.(cancelError)
	return ok
}

// Spin runs task behind an animated spinner and returns its result. The
// task keeps running in its own goroutine; ctrl+c abandons the wait.
func Spin(message string, task func() (string, error)) (string, error) {
	final, err := tea.NewProgram(NewSpinner(message, task)).Run()
	if err != nil {
		// Terminal unavailable, fall back to running inline.
		return task()
	}
	m, ok := final.(SpinnerModel)
	if !ok {
		return task()
	}
	return m.result, m.err
}
