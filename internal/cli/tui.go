package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/mermaid/pkg/diagram"
)

// kindSummaries describe each kind in the picker.
var kindSummaries = map[diagram.Kind]string{
	diagram.KindFlowchart:   "Nodes and links, grouped in subgraphs",
	diagram.KindSequence:    "Messages between participants over time",
	diagram.KindState:       "States and the transitions between them",
	diagram.KindER:          "Entities, attributes and relationships",
	diagram.KindPie:         "Proportions of a whole",
	diagram.KindMindmap:     "A tree of ideas around a root",
	diagram.KindJourney:     "Tasks scored by satisfaction, in sections",
	diagram.KindRequirement: "Requirements, elements and their relations",
}

// =============================================================================
// KindListModel - Interactive diagram kind selection
// =============================================================================

// KindListModel is the bubbletea model for picking a diagram kind.
type KindListModel struct {
	Kinds    []diagram.Kind
	Cursor   int
	Selected diagram.Kind
}

// NewKindListModel creates a picker over kinds.
func NewKindListModel(kinds []diagram.Kind) KindListModel {
	return KindListModel{Kinds: kinds}
}

func (m KindListModel) Init() tea.Cmd {
	return nil
}

func (m KindListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Kinds)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.Kinds) - 1
		case "enter":
			m.Selected = m.Kinds[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m KindListModel) View() string {
	var b strings.Builder

	b.WriteString(styleAccent.Bold(true).Render("New Diagram"))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Kinds))
	for i, k := range m.Kinds {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, k.String(), kindSummaries[k]}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("", "Kind", "Shows").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.Cursor {
				if col == 2 {
					return lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
				}
				return lipgloss.NewStyle().Foreground(colorOK).Bold(true)
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorMuted)
			}
			return lipgloss.NewStyle().Foreground(colorValue)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(styleMuted.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Kinds))))

	return b.String()
}
