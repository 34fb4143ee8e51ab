package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type helpModel struct {
	viewport viewport.Model
	width    int
	ready    bool
}

func (m *helpModel) resize(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	vpHeight := height - 1
	if vpHeight < 5 {
		vpHeight = 5
	}
	if m.ready && m.width == width && m.viewport.Height == vpHeight {
		return
	}
	m.viewport = viewport.New(width, vpHeight)
	m.viewport.SetContent(renderHelp(width))
	m.width = width
	m.ready = true
}

func (m helpModel) Update(msg tea.Msg) (helpModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m helpModel) View() string {
	if !m.ready {
		return ""
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		helpStyle.Render(" esc or ? to return"),
	)
}
