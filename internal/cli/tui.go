package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// stageFilters is the tab order of the stage filter. The empty stage shows
// everything.
var stageFilters = []diagram.Stage{
	"",
	diagram.StagePlacement,
	diagram.StageRouting,
	diagram.StageInstrumentation,
	diagram.StageAnnotation,
}

// =============================================================================
// DiagnosticsModel - Interactive diagnostics browser
// =============================================================================

// DiagnosticsModel is the bubbletea model for browsing the diagnostics of a
// laid-out diagram. Selecting a row shows where its subject sits on the
// canvas.
type DiagnosticsModel struct {
	Diagram *diagram.Diagram
	Cursor  int
	Height  int
	Offset  int

	filter  int
	visible []diagram.Diagnostic
}

// NewDiagnosticsModel creates a browser over d's diagnostics.
func NewDiagnosticsModel(d *diagram.Diagram) DiagnosticsModel {
	m := DiagnosticsModel{Diagram: d, Height: 15}
	m.applyFilter()
	return m
}

// Stage returns the active stage filter, empty for all stages.
func (m DiagnosticsModel) Stage() diagram.Stage {
	return stageFilters[m.filter]
}

// Visible returns the diagnostics passing the current filter.
func (m DiagnosticsModel) Visible() []diagram.Diagnostic {
	return m.visible
}

func (m *DiagnosticsModel) applyFilter() {
	stage := stageFilters[m.filter]
	var visible []diagram.Diagnostic
	for _, d := range m.Diagram.Diagnostics {
		if stage == "" || d.Stage == stage {
			visible = append(visible, d)
		}
	}
	m.visible = visible
	m.Cursor, m.Offset = 0, 0
}

func (m DiagnosticsModel) Init() tea.Cmd {
	return nil
}

func (m DiagnosticsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			m.filter = (m.filter + 1) % len(stageFilters)
			m.applyFilter()
		case "shift+tab":
			m.filter = (m.filter + len(stageFilters) - 1) % len(stageFilters)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m DiagnosticsModel) View() string {
	var b strings.Builder

	title := "Diagnostics"
	if m.Diagram.Metadata.DrawingNumber != "" {
		title += " · " + m.Diagram.Metadata.DrawingNumber
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab stage  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.filterBar())
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString("\n")
		b.WriteString(StyleSuccess.Render("  No diagnostics"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.visible) {
		end = len(m.visible)
	}
	b.WriteString(diagnosticsTable(m.visible[m.Offset:end], m.Cursor-m.Offset).Render())
	b.WriteString("\n\n")
	b.WriteString(m.detail(m.visible[m.Cursor]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))

	return b.String()
}

func (m DiagnosticsModel) filterBar() string {
	parts := make([]string, len(stageFilters))
	for i, s := range stageFilters {
		name := string(s)
		if name == "" {
			name = "all"
		}
		if i == m.filter {
			parts[i] = StyleHighlight.Render("[" + name + "]")
		} else {
			parts[i] = listDimStyle.Render(" " + name + " ")
		}
	}
	return "  " + strings.Join(parts, " ")
}

// detail describes the subject of diag: an equipment node, a route or an
// instrument.
func (m DiagnosticsModel) detail(diag diagram.Diagnostic) string {
	if diag.Subject == "" {
		return ""
	}
	d := m.Diagram
	if n, ok := d.Node(diag.Subject); ok {
		return fmt.Sprintf("  %s %s at (%.0f, %.0f), %.0f×%.0f",
			StyleValue.Render(n.Tag), listDimStyle.Render(string(n.Category)),
			n.Position.X, n.Position.Y, n.Size.Width, n.Size.Height)
	}
	for _, r := range d.Routes {
		if r.ID == diag.Subject {
			return fmt.Sprintf("  %s %s → %s, %d waypoints via %s",
				StyleValue.Render(r.ID), r.From, r.To, len(r.Waypoints), listDimStyle.Render(r.Strategy))
		}
	}
	for _, in := range d.Instruments {
		if in.Tag == diag.Subject {
			return fmt.Sprintf("  %s at (%.0f, %.0f)", StyleValue.Render(in.Tag), in.Position.X, in.Position.Y)
		}
	}
	return "  " + listDimStyle.Render(diag.Subject+" is not on the diagram")
}
