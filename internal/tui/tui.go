// Package tui is the interactive picker: a query line, the ranked list and a
// status bar, with scans running in the background.
package tui

import (
	"context"

	"appdeck/internal/app"
	"appdeck/internal/launch"
	"appdeck/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents which screen is active.
type ViewState int

const (
	ViewPicker ViewState = iota
	ViewHelp
)

// programRef is an indirect pointer to the tea.Program so background goroutines
// can reach it. It must be set after tea.NewProgram returns but before Run.
type programRef struct {
	p *tea.Program
}

// Launcher runs the launch sequence for a record. *launch.Coordinator
// implements it.
type Launcher interface {
	Launch(ctx context.Context, rec app.Record) error
}

// Config holds configuration passed from the CLI layer.
type Config struct {
	Session    *session.Session
	Scanner    Scanner
	History    launch.Recorder
	Opener     launch.Opener
	MaxResults int
	ShowPaths  bool

	// launcher overrides the coordinator built from History and Opener.
	launcher Launcher

	// program is set internally so the terminator can quit the program.
	program *programRef
}

// Model is the top-level Bubble Tea model.
type Model struct {
	state  ViewState
	config Config
	width  int
	height int

	picker pickerModel
	help   helpModel
}

// New creates a new TUI model with the given config.
func New(cfg Config) Model {
	if cfg.Session == nil {
		cfg.Session = session.New()
	}
	cfg.Session.SetLimit(cfg.MaxResults)
	if cfg.launcher == nil {
		ref := cfg.program
		cfg.launcher = launch.NewCoordinator(cfg.History, cfg.Opener, launch.TerminatorFunc(func() {
			if ref != nil && ref.p != nil {
				ref.p.Quit()
			}
		}))
	}
	return Model{
		state:  ViewPicker,
		config: cfg,
		picker: newPickerModel(cfg),
	}
}

func (m Model) Init() tea.Cmd {
	return m.picker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.resize(msg.Width, msg.Height)
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.state == ViewHelp {
				m.state = ViewPicker
				return m, nil
			}
			return m, tea.Quit
		case "f1":
			return m.toggleHelp(), nil
		case "?":
			if m.state == ViewHelp || m.picker.input.Value() == "" {
				return m.toggleHelp(), nil
			}
		}
		if m.state == ViewHelp {
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) toggleHelp() Model {
	if m.state == ViewHelp {
		m.state = ViewPicker
		return m
	}
	m.help.resize(m.width, m.height)
	m.state = ViewHelp
	return m
}

func (m Model) View() string {
	switch m.state {
	case ViewHelp:
		return m.help.View()
	default:
		return m.picker.View()
	}
}

// Run starts the TUI program and blocks until it exits.
func Run(cfg Config) error {
	ref := &programRef{}
	cfg.program = ref
	model := New(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	ref.p = p
	_, err := p.Run()
	return err
}
