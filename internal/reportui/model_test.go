package reportui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/sortbench/internal/model"
)

func testSheets() []Sheet {
	return []Sheet{
		{Title: "RecursiveData.txt", Summaries: []model.Summary{
			{Size: 10, MeanCount: 22.5, CVCount: 0.1, MeanTime: 900, CVTime: 0.3},
		}},
		{Title: "IterativeData.txt", Summaries: nil},
	}
}

func TestViewRendersTableAfterResize(t *testing.T) {
	m := NewModel(testSheets())
	if got := m.View(); got != "" {
		t.Fatalf("expected empty view before size is known, got %q", got)
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	view := m.View()
	for _, want := range []string{"RecursiveData.txt", "Coef Count", "10.00%", "22.5"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestTabSwitchingWraps(t *testing.T) {
	m := NewModel(testSheets())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.ActiveTab() != 1 {
		t.Fatalf("expected tab 1, got %d", m.ActiveTab())
	}
	if !strings.Contains(m.View(), "No records in this report.") {
		t.Fatalf("expected empty-report notice")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.ActiveTab() != 0 {
		t.Fatalf("expected wrap to tab 0, got %d", m.ActiveTab())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.ActiveTab() != 1 {
		t.Fatalf("expected wrap to tab 1, got %d", m.ActiveTab())
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(testSheets())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestEmptyModel(t *testing.T) {
	m := NewModel(nil)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "No reports loaded.") {
		t.Fatalf("expected no-reports notice")
	}
}
