// Package pathui provides the Bubble Tea reading-path browser.
package pathui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benjaminwangfan/reading-path-builer/internal/analysis"
	"github.com/benjaminwangfan/reading-path-builer/internal/pathgen"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1)
	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	focusedPanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("#C89A3A"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

const maxWordSample = 30

// Model is the interactive browser over a generated reading path.
type Model struct {
	result   pathgen.Result
	analyses map[string]analysis.BookAnalysis

	levels      table.Model
	detail      viewport.Model
	focusDetail bool
	width       int
	height      int
	ready       bool
}

// NewModel builds the browser for a generated path.
func NewModel(result pathgen.Result, analyses map[string]analysis.BookAnalysis) Model {
	columns := []table.Column{
		{Title: "Level", Width: 10},
		{Title: "Books", Width: 6},
		{Title: "Coverage", Width: 9},
		{Title: "Difficulty", Width: 10},
	}
	rows := make([]table.Row, 0, len(result.LevelOrder))
	for _, level := range result.LevelOrder {
		levelResult := result.Levels[level]
		difficulty := "-"
		for _, entry := range result.Summary.DifficultyProgression {
			if entry.Level == level {
				difficulty = fmt.Sprintf("%.2f", entry.AvgDifficulty)
				break
			}
		}
		rows = append(rows, table.Row{
			level,
			fmt.Sprintf("%d", len(levelResult.SelectedBooks)),
			fmt.Sprintf("%.1f%%", levelResult.Coverage*100),
			difficulty,
		})
	}
	levelTable := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)+1),
	)

	m := Model{
		result:   result,
		analyses: analyses,
		levels:   levelTable,
		detail:   viewport.New(0, 0),
	}
	m.refreshDetail()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.focusDetail {
				m.focusDetail = false
				return m, nil
			}
			return m, tea.Quit
		case "tab":
			m.focusDetail = !m.focusDetail
			return m, nil
		}
		if m.focusDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.levels, cmd = m.levels.Update(msg)
		m.refreshDetail()
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	title := titleStyle.Render(fmt.Sprintf("Reading path — %d books", m.result.Summary.TotalBooks))

	levelsPanel := panelStyle
	detailPanel := focusedPanelStyle
	if !m.focusDetail {
		levelsPanel = focusedPanelStyle
		detailPanel = panelStyle
	}

	help := helpStyle.Render("tab: switch pane · up/down: move · esc/q: quit")
	return strings.Join([]string{
		title,
		levelsPanel.Render(m.levels.View()),
		detailPanel.Render(m.detail.View()),
		help,
	}, "\n")
}

func (m *Model) resize() {
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	m.detail.Width = width
	detailHeight := m.height - m.levels.Height() - 8
	if detailHeight < 5 {
		detailHeight = 5
	}
	m.detail.Height = detailHeight
	m.refreshDetail()
}

func (m *Model) refreshDetail() {
	row := m.levels.SelectedRow()
	if len(row) == 0 {
		m.detail.SetContent("no levels")
		return
	}
	level := row[0]
	levelResult := m.result.Levels[level]

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d/%d target words covered (%.1f%%)\n",
		level, levelResult.CoveredWords, levelResult.TargetWords, levelResult.Coverage*100)

	if len(levelResult.SelectedBooks) == 0 {
		b.WriteString("\nno books selected for this level\n")
	}
	for i, bookID := range levelResult.SelectedBooks {
		book := m.analyses[bookID]
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, bookID)
		fmt.Fprintf(&b, "   %s words: %d, unknown: %d, difficulty: %.2f (%s)\n",
			level, book.LevelDistributions[level].Count, book.UnknownCount,
			book.DifficultyScore, book.DifficultyCategory())
	}

	words := levelResult.NewWordsCovered.Sorted()
	if len(words) > 0 {
		sample := words
		truncated := false
		if len(sample) > maxWordSample {
			sample = sample[:maxWordSample]
			truncated = true
		}
		b.WriteString("\n" + dimStyle.Render("new words: "+strings.Join(sample, ", ")))
		if truncated {
			b.WriteString(dimStyle.Render(fmt.Sprintf(" … (%d more)", len(words)-maxWordSample)))
		}
		b.WriteString("\n")
	}
	m.detail.SetContent(b.String())
}

// Run opens the browser in the alternate screen until the user quits.
func Run(result pathgen.Result, analyses map[string]analysis.BookAnalysis) error {
	program := tea.NewProgram(NewModel(result, analyses), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run path browser: %w", err)
	}
	return nil
}
