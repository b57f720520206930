package picker

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testChoices() []Choice {
	return []Choice{
		{Label: "array-creation", Description: "Create numpy arrays", Value: "a"},
		{Label: "broadcasting", Description: "Broadcast over shapes", Value: "b"},
		{Label: "indexing", Value: "c"},
	}
}

func TestModelNavigationAndSelect(t *testing.T) {
	var m tea.Model = NewModel("Pick a feature", testChoices())

	m, _ = m.Update(keyMsg("down"))
	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("up"))
	m, _ = m.Update(keyMsg("enter"))

	pm := m.(Model)
	if pm.Cancelled() {
		t.Fatal("unexpected cancel")
	}
	choice := pm.Choice()
	if choice == nil || choice.Value != "b" {
		t.Errorf("Choice = %+v, want broadcasting", choice)
	}
}

func TestModelCursorBounds(t *testing.T) {
	var m tea.Model = NewModel("Pick", testChoices())

	m, _ = m.Update(keyMsg("up"))
	for i := 0; i < 10; i++ {
		m, _ = m.Update(keyMsg("down"))
	}
	m, _ = m.Update(keyMsg("enter"))

	choice := m.(Model).Choice()
	if choice == nil || choice.Value != "c" {
		t.Errorf("Choice = %+v, want last entry", choice)
	}
}

func TestModelCancel(t *testing.T) {
	var m tea.Model = NewModel("Pick", testChoices())

	m, _ = m.Update(keyMsg("esc"))

	pm := m.(Model)
	if !pm.Cancelled() {
		t.Error("expected cancelled")
	}
	if pm.Choice() != nil {
		t.Error("cancelled picker should have no choice")
	}
}

func TestModelView(t *testing.T) {
	m := NewModel("Pick a feature", testChoices())
	view := m.View()

	for _, want := range []string{"Pick a feature", "array-creation", "broadcasting", "enter select"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPickSingleChoiceSkipsTUI(t *testing.T) {
	choices := []Choice{{Label: "only", Value: "v"}}

	choice, err := Pick("Pick", choices)
	if err != nil {
		t.Fatal(err)
	}
	if choice == nil || choice.Value != "v" {
		t.Errorf("Pick = %+v, want the single choice", choice)
	}
}

func TestPickEmpty(t *testing.T) {
	if _, err := Pick("Pick", nil); err == nil {
		t.Error("expected error for empty choice list")
	}
}

func TestSpinnerModelTaskDone(t *testing.T) {
	var m tea.Model = NewSpinner("working", func() (string, error) {
		return "done", nil
	})

	m, _ = m.Update(taskDoneMsg{result: "generated python-arrays"})
	sm := m.(SpinnerModel)
	if !sm.done || sm.result != "generated python-arrays" {
		t.Errorf("spinner state = %+v", sm)
	}
	if !strings.Contains(sm.View(), "generated python-arrays") {
		t.Error("view missing result")
	}
}

func TestSpinnerModelTaskError(t *testing.T) {
	var m tea.Model = NewSpinner("working", nil)

	m, _ = m.Update(taskDoneMsg{err: errors.New("boom")})
	sm := m.(SpinnerModel)
	if sm.err == nil || !strings.Contains(sm.View(), "boom") {
		t.Errorf("view = %q", sm.View())
	}
}

func TestIsCancelled(t *testing.T) {
	if !IsCancelled(errCancelled) {
		t.Error("IsCancelled(errCancelled) = false")
	}
	if IsCancelled(errors.New("other")) {
		t.Error("IsCancelled(other) = true")
	}
}
