// Package reportui provides the Bubble Tea benchmark report viewer.
package reportui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/stats"
)

const fallbackWidth = 80

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// Sheet is one titled set of summary records.
type Sheet struct {
	Title     string
	Summaries []model.Summary
}

// Model implements the Bubble Tea report viewer.
type Model struct {
	sheets    []Sheet
	tables    []table.Model
	activeTab int

	width  int
	height int
}

// NewModel constructs a viewer over the given sheets.
func NewModel(sheets []Sheet) *Model {
	m := &Model{sheets: sheets}
	m.tables = make([]table.Model, len(sheets))
	for i, sh := range sheets {
		m.tables[i] = buildTable(sh.Summaries)
	}
	if len(m.tables) > 0 {
		m.tables[0].Focus()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, nil
		case "right", "l", "tab":
			m.moveTab(1)
			return m, nil
		}
		if len(m.tables) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.tables[m.activeTab], cmd = m.tables[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	parts := []string{m.renderTabs()}
	if len(m.tables) == 0 {
		parts = append(parts, emptyStyle.Render("No reports loaded."))
	} else if len(m.sheets[m.activeTab].Summaries) == 0 {
		parts = append(parts, emptyStyle.Render("No records in this report."))
	} else {
		parts = append(parts, m.tables[m.activeTab].View())
	}
	parts = append(parts, footerStyle.Render("←/→ switch report • ↑/↓ scroll • q quit"))
	return strings.Join(parts, "\n")
}

// ActiveTab returns the index of the displayed sheet.
func (m *Model) ActiveTab() int {
	return m.activeTab
}

func (m *Model) moveTab(delta int) {
	if len(m.tables) == 0 {
		return
	}
	m.tables[m.activeTab].Blur()
	m.activeTab = (m.activeTab + delta + len(m.tables)) % len(m.tables)
	m.tables[m.activeTab].Focus()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(m.sheets))
	for i, sh := range m.sheets {
		style := inactiveTabStyle
		if i == m.activeTab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(sh.Title))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) updateLayout() {
	width := m.width
	if width <= 0 {
		width = terminalWidth()
	}
	tabsHeight := lipgloss.Height(m.renderTabs())
	bodyHeight := maxInt(2, m.height-tabsHeight-1)
	for i := range m.tables {
		m.tables[i].SetWidth(width)
		m.tables[i].SetHeight(bodyHeight)
	}
}

func buildTable(summaries []model.Summary) table.Model {
	rows := make([]table.Row, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, table.Row(stats.SummaryRow(s)))
	}
	t := table.New(
		table.WithColumns(columnsFor(rows)),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, len(rows)+1)),
	)
	t.SetStyles(tableStyles())
	return t
}

func columnsFor(rows []table.Row) []table.Column {
	cols := make([]table.Column, len(stats.TableHeaders))
	for i, title := range stats.TableHeaders {
		width := runewidth.StringWidth(title)
		for _, row := range rows {
			if w := runewidth.StringWidth(row[i]); w > width {
				width = w
			}
		}
		cols[i] = table.Column{Title: title, Width: width + 1}
	}
	return cols
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Run starts the viewer on the alternate screen.
func Run(sheets []Sheet) error {
	program := tea.NewProgram(NewModel(sheets), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run report TUI: %w", err)
	}
	return nil
}
