// Package cli implements the Cobra command hierarchy for the chjson CLI
// tool. This file implements the interactive row viewer behind
// `chjson decode --tui`.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chprotocol/chjson/internal/codec"
)

var (
	viewerListStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)

	viewerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true)

	viewerDocStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	viewerHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// viewerModel is the Elm-architecture model behind `chjson decode --tui`:
// a row list of decoded rows on the left, the folded document for the
// selected row rendered in a scrollable viewport on the right.
type viewerModel struct {
	rows     []codec.Row
	cursor   int
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

func newViewerModel(rows []codec.Row) viewerModel {
	return viewerModel{rows: rows}
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.refreshViewport()
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				m.refreshViewport()
			}
		case "pgup":
			m.viewport.LineUp(m.viewport.Height)
		case "pgdown":
			m.viewport.LineDown(m.viewport.Height)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		docWidth := m.width * 2 / 3
		if !m.ready {
			m.viewport = viewport.New(docWidth, m.height-4)
			m.ready = true
			m.refreshViewport()
		} else {
			m.viewport.Width = docWidth
			m.viewport.Height = m.height - 4
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *viewerModel) refreshViewport() {
	if !m.ready || len(m.rows) == 0 {
		return
	}
	data, err := json.MarshalIndent(m.rows[m.cursor], "", "  ")
	if err != nil {
		m.viewport.SetContent(fmt.Sprintf("error rendering row %d: %v", m.cursor, err))
		return
	}
	m.viewport.SetContent(string(data))
	m.viewport.GotoTop()
}

func (m viewerModel) View() string {
	if !m.ready {
		return "loading...\n"
	}

	var list strings.Builder
	for i := range m.rows {
		line := fmt.Sprintf("row %d", i)
		if i == m.cursor {
			line = viewerSelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		list.WriteString(line + "\n")
	}

	listPane := viewerListStyle.Width(m.width/3 - 4).Height(m.height - 4).Render(list.String())
	docPane := viewerDocStyle.Render(m.viewport.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, listPane, docPane)
	help := viewerHelpStyle.Render("up/down: select row  pgup/pgdn: scroll  q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, help)
}

// runViewer launches the interactive decoded-row viewer as an alt-screen
// bubbletea program.
func runViewer(rows []codec.Row) error {
	if len(rows) == 0 {
		fmt.Println("no rows to display")
		return nil
	}
	p := tea.NewProgram(newViewerModel(rows), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
