package tui

import (
	"context"
	"fmt"
	"strings"

	"appdeck/internal/app"
	"appdeck/internal/index"
	"appdeck/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultWidth = 80

type pickerModel struct {
	input    textinput.Model
	spinner  spinner.Model
	session  *session.Session
	scanner  Scanner
	launcher Launcher

	maxResults int
	showPaths  bool

	stats     *index.Stats
	launching bool
	err       error
	width     int
	height    int
}

// launchDoneMsg is sent when the coordinator returns.
type launchDoneMsg struct {
	rec app.Record
	err error
}

func newPickerModel(cfg Config) pickerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle

	ti := textinput.New()
	ti.Placeholder = "Search applications..."
	ti.Prompt = "› "
	ti.CharLimit = 256
	ti.Focus()

	return pickerModel{
		input:      ti,
		spinner:    sp,
		session:    cfg.Session,
		scanner:    cfg.Scanner,
		launcher:   cfg.launcher,
		maxResults: cfg.MaxResults,
		showPaths:  cfg.ShowPaths,
		width:      defaultWidth,
	}
}

// Init paints from the snapshot and starts the first scan.
func (m pickerModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.scanner != nil {
		gen := m.session.BeginScan()
		cmds = append(cmds, loadSnapshot(m.scanner), runScan(m.scanner, m.session, gen), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m pickerModel) rescan() tea.Cmd {
	if m.scanner == nil {
		return nil
	}
	gen := m.session.BeginScan()
	return tea.Batch(runScan(m.scanner, m.session, gen), m.spinner.Tick)
}

func (m pickerModel) launchSelected() (pickerModel, tea.Cmd) {
	rec, ok := m.session.Selected()
	if !ok || m.launching {
		return m, nil
	}
	m.launching = true
	launcher := m.launcher
	return m, func() tea.Msg {
		return launchDoneMsg{rec: rec, err: launcher.Launch(context.Background(), rec)}
	}
}

func (m pickerModel) Update(msg tea.Msg) (pickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case seedMsg:
		m.session.Seed(msg.records)
		return m, nil

	case scanDoneMsg:
		if !msg.stats.Superseded {
			stats := msg.stats
			m.stats = &stats
		}
		return m, nil

	case launchDoneMsg:
		m.launching = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.session.Scanning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.launchSelected()
		case "up", "ctrl+p", "shift+tab":
			m.session.Move(-1)
			return m, nil
		case "down", "ctrl+n", "tab":
			m.session.Move(1)
			return m, nil
		case "pgup":
			m.session.Move(-m.visibleRows())
			return m, nil
		case "pgdown":
			m.session.Move(m.visibleRows())
			return m, nil
		case "ctrl+r":
			m.err = nil
			return m, m.rescan()
		case "ctrl+u":
			m.input.Reset()
			m.session.SetQuery("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetQuery(m.input.Value())
	return m, cmd
}

// visibleRows is how many results fit between the input and the status bar.
func (m pickerModel) visibleRows() int {
	perRow := 1
	if m.showPaths {
		perRow = 2
	}
	rows := (m.height - 3) / perRow
	if rows < 1 {
		rows = 1
	}
	if m.maxResults > 0 && rows > m.maxResults {
		rows = m.maxResults
	}
	return rows
}

func (m pickerModel) View() string {
	results := m.session.Results()
	selected := m.session.SelectedIndex()

	// Keep the selection on screen.
	rows := m.visibleRows()
	start := 0
	if m.height > 0 && selected >= rows {
		start = selected - rows + 1
	}
	end := len(results)
	if m.height > 0 && end > start+rows {
		end = start + rows
	}

	var sb strings.Builder
	sb.WriteString(m.input.View() + "\n")

	if len(results) == 0 {
		switch {
		case m.session.Scanning() && len(m.session.Candidates()) == 0:
			sb.WriteString(dimStyle.Render("  Looking for applications...") + "\n")
		case strings.TrimSpace(m.input.Value()) != "":
			sb.WriteString(dimStyle.Render("  No matches") + "\n")
		default:
			sb.WriteString(dimStyle.Render("  No applications found") + "\n")
		}
	}

	inner := m.width - 4
	for i := start; i < end; i++ {
		rec := results[i]
		line := nameLine(rec.DisplayName, lastLaunched(rec), inner)
		if i == selected {
			sb.WriteString(selectedStyle.Render("▸ "+line) + "\n")
		} else {
			sb.WriteString(listItemStyle.Render("  "+line) + "\n")
		}
		if m.showPaths {
			sb.WriteString(dimStyle.Render("  "+pathLine(rec.Path, inner)) + "\n")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, strings.TrimRight(sb.String(), "\n"), m.statusBar(len(results)))
}

func (m pickerModel) statusBar(shown int) string {
	var text string
	switch {
	case m.err != nil:
		text = errorStyle.Render("launch failed: " + m.err.Error())
	case m.launching:
		text = "launching..."
	case m.session.Scanning():
		text = m.spinner.View() + " scanning"
		if n := len(m.session.Candidates()); n > 0 {
			text += fmt.Sprintf(" · %d cached", n)
		}
	case m.stats != nil:
		text = scanSummary(*m.stats)
	default:
		text = fmt.Sprintf("%d apps", len(m.session.Candidates()))
	}
	if q := strings.TrimSpace(m.input.Value()); q != "" {
		text = fmt.Sprintf("%d matches · %s", shown, text)
	}
	return statusBarStyle.Width(m.width).Render(titleStyle.Render("appdeck") + " " + text + helpStyle.Render("  ? help"))
}
