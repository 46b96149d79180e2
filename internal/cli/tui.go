package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/storyreel/reelgraph/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CanvasListModel - Interactive canvas selection
// =============================================================================

// CanvasListModel is the bubbletea model for interactive canvas selection.
type CanvasListModel struct {
	Canvases []store.Info
	Cursor   int
	Selected *store.Info
}

// NewCanvasListModel creates a new canvas list model.
func NewCanvasListModel(canvases []store.Info) CanvasListModel {
	return CanvasListModel{Canvases: canvases}
}

func (m CanvasListModel) Init() tea.Cmd {
	return nil
}

func (m CanvasListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Canvases)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Canvases[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m CanvasListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Canvas"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, info := range m.Canvases {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		name := info.Name
		if name == "" {
			name = "(unnamed)"
		}

		line := fmt.Sprintf("%s%-28s %s", cursor, info.ID,
			listDimStyle.Render(fmt.Sprintf("%s · %d nodes", name, info.NodeCount)))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Canvases))))

	return b.String()
}
