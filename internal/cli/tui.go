package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/boxlogic/stowplan/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// solidListModel is the bubbletea model for browsing a scene's solids:
// a scrollable list on the left, the selected solid's details on the
// right.
type solidListModel struct {
	scene  scene.Scene
	cursor int
	height int
	offset int
}

func newSolidListModel(sc scene.Scene) solidListModel {
	return solidListModel{scene: sc, height: 15}
}

func (m solidListModel) Init() tea.Cmd {
	return nil
}

func (m solidListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.scene.Solids)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "g", "home":
			m.cursor = 0
			m.offset = 0
		case "G", "end":
			m.cursor = len(m.scene.Solids) - 1
			if m.cursor >= m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m solidListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Placements"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.scene.Solids) {
		end = len(m.scene.Solids)
	}

	var list strings.Builder
	for i := m.offset; i < end; i++ {
		s := m.scene.Solids[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("■")
		line := fmt.Sprintf("%s%s %s", cursor, swatch, s.Name)
		if i == m.cursor {
			list.WriteString(listSelectedStyle.Render(line))
		} else {
			list.WriteString(listNormalStyle.Render(line))
		}
		list.WriteString("\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(28).Render(list.String()),
		m.detailView()))

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.scene.Solids))))
	if m.scene.Diagnostics.UsedFallback {
		b.WriteString("  ")
		b.WriteString(StyleWarning.Render("clamped positions"))
	}
	if m.scene.Diagnostics.Dropped > 0 {
		b.WriteString("  ")
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%d dropped", m.scene.Diagnostics.Dropped)))
	}

	return b.String()
}

func (m solidListModel) detailView() string {
	s := m.scene.Solids[m.cursor]

	rows := []struct{ key, value string }{
		{"name", s.Name},
		{"center", fmt.Sprintf("%.2f, %.2f, %.2f", s.Center.X, s.Center.Y, s.Center.Z)},
		{"size", fmt.Sprintf("%.2f × %.2f × %.2f", s.Size.Length, s.Size.Width, s.Size.Height)},
		{"color", s.Color},
		{"scale", fmt.Sprintf("%.3f", m.scene.Scale)},
	}
	if m.scene.Diagnostics.Interpretation != "" {
		rows = append(rows, struct{ key, value string }{"reading", m.scene.Diagnostics.Interpretation})
	}

	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(8)
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(keyStyle.Render(row.key))
		b.WriteString(" ")
		b.WriteString(StyleValue.Render(row.value))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Padding(0, 1).
		Render(b.String())
}
