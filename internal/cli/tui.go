package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/chartsmith/pkg/chart"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ChartListModel - Interactive chart selection
// =============================================================================

// ChartListModel is the bubbletea model for interactive chart selection.
// Space marks charts, enter confirms the marked charts or, with none marked,
// the chart under the cursor.
type ChartListModel struct {
	Charts   []chart.Spec
	Cursor   int
	Marked   map[int]bool
	Selected []string
	Height   int
	Offset   int
}

// NewChartListModel creates a new chart list model.
func NewChartListModel(charts []chart.Spec) ChartListModel {
	return ChartListModel{
		Charts: charts,
		Marked: make(map[int]bool),
		Height: 15,
	}
}

func (m ChartListModel) Init() tea.Cmd {
	return nil
}

func (m ChartListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Charts)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "space":
			if len(m.Charts) > 0 {
				m.Marked[m.Cursor] = !m.Marked[m.Cursor]
			}
		case "a":
			all := len(m.markedIndices()) < len(m.Charts)
			for i := range m.Charts {
				m.Marked[i] = all
			}
		case "enter":
			if len(m.Charts) == 0 {
				return m, tea.Quit
			}
			idx := m.markedIndices()
			if len(idx) == 0 {
				idx = []int{m.Cursor}
			}
			m.Selected = make([]string, len(idx))
			for i, j := range idx {
				m.Selected[i] = m.Charts[j].Name
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 7
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

// markedIndices returns the marked rows in list order.
func (m ChartListModel) markedIndices() []int {
	var idx []int
	for i := range m.Charts {
		if m.Marked[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m ChartListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Charts"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space mark  a all  ⏎ render  q quit"))
	b.WriteString("\n\n")

	if len(m.Charts) == 0 {
		b.WriteString(listDimStyle.Render("  no charts configured"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Charts))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Charts[i].WithDefaults()

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "○"
		if m.Marked[i] {
			mark = "●"
		}
		title := s.Title
		if title == "" {
			title = "—"
		}
		rows = append(rows, []string{cursor + mark, s.Name, string(s.Kind), s.Source, title})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Chart", "Kind", "Source", "Title").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.Marked[idx]:
				return listNormalStyle.Foreground(colorGreen)
			case col >= 3:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d marked", m.Cursor+1, len(m.Charts), len(m.markedIndices()))))

	return b.String()
}
