// Package ui provides the terminal reader for skim.
package ui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/skim/internal/source"
	"github.com/dgnsrekt/skim/rsvp"
	"github.com/muesli/termenv"
)

const statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied!"

// copyText puts s on the clipboard, over OSC 52 and natively.
var copyText = func(s string) {
	termenv.Copy(s)
	_ = clipboard.WriteAll(s)
}

// NewProgram returns a new Tea program reading src.
func NewProgram(cfg Config, src *source.Source) *tea.Program {
	log.Debug(
		"Starting skim",
		"source", src.Name(),
		"wpm", cfg.Reader.WPM,
		"smart_pauses", cfg.Reader.SmartPauses,
	)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg, src), opts...)
}

type (
	autoPlayMsg             struct{ id int }
	statusMessageTimeoutMsg struct{ id int }
	sourceReloadedMsg       struct {
		src *source.Source
		err error
	}
)

// state is the top-level reader state.
type state int

const (
	stateReading state = iota
	stateFinished
	stateEmpty
)

func (s state) String() string {
	return map[state]string{
		stateReading:  "reading",
		stateFinished: "showing summary",
		stateEmpty:    "no text",
	}[s]
}

type model struct {
	cfg     Config
	src     *source.Source
	engine  *rsvp.Engine
	events  *eventPump
	watcher *fileWatcher

	keys     keyMap
	help     help.Model
	progress progress.Model
	fixation lipgloss.Style

	width    int
	height   int
	state    state
	showHelp bool

	// Bumped on every key press so a pending auto-play is dropped once the
	// reader takes over.
	autoPlayID int

	statusMessage   string
	statusIsError   bool
	statusMessageID int
}

func newModel(cfg Config, src *source.Source, opts ...rsvp.Option) model {
	events := newEventPump()
	engine := rsvp.New(append([]rsvp.Option{
		rsvp.WithConfig(cfg.Reader),
		rsvp.WithListenerErrorHandler(func(err error) {
			log.Error("Reader listener failed", "error", err)
		}),
	}, opts...)...)
	engine.Subscribe(events.push)

	m := model{
		cfg:    cfg,
		src:    src,
		engine: engine,
		events: events,
		keys:   newKeyMap(),
		help:   help.New(),
		progress: progress.New(
			progress.WithSolidFill(cfg.Accent),
			progress.WithoutPercentage(),
		),
		fixation: fixationStyle(cfg.Accent),
	}

	engine.LoadText(src.Text)
	m.state = stateFor(engine.State())

	if cfg.WatchFiles && src.Watchable() {
		w, err := newFileWatcher(src.Location)
		if err != nil {
			log.Error("error creating fsnotify watcher", "error", err)
		} else {
			m.watcher = w
		}
	}
	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.events.wait}
	if m.cfg.Reader.AutoPlay && m.state == stateReading {
		cmds = append(cmds, m.scheduleAutoPlay())
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.wait)
	}
	return tea.Batch(cmds...)
}

func (m model) scheduleAutoPlay() tea.Cmd {
	id := m.autoPlayID
	if m.cfg.Reader.StartDelay <= 0 {
		return func() tea.Msg { return autoPlayMsg{id} }
	}
	return tea.Tick(m.cfg.Reader.StartDelay, func(time.Time) tea.Msg {
		return autoPlayMsg{id}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(10, min(60, msg.Width-8))

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.autoPlayID++
			m.engine.TogglePlay()
		case tea.MouseButtonWheelUp:
			m.engine.AdjustWPM(m.cfg.Reader.SpeedStep)
		case tea.MouseButtonWheelDown:
			m.engine.AdjustWPM(-m.cfg.Reader.SpeedStep)
		}

	case autoPlayMsg:
		if msg.id == m.autoPlayID {
			m.engine.Play()
		}

	case engineEventsMsg:
		for _, ev := range msg {
			m.state = stateFor(ev.State)
		}
		cmds = append(cmds, m.events.wait)

	case fileChangedMsg:
		cmds = append(cmds, reloadSource(m.src.Location))
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.wait)
		}

	case sourceReloadedMsg:
		if msg.err != nil {
			log.Error("error reloading source", "error", msg.err)
			cmds = append(cmds, m.showStatusMessage("Reload failed: "+msg.err.Error(), true))
			break
		}
		m.src = msg.src
		m.engine.LoadText(msg.src.Text)
		m.state = stateFor(m.engine.State())
		cmds = append(cmds, m.showStatusMessage("Reloaded", false))

	case statusMessageTimeoutMsg:
		if msg.id == m.statusMessageID {
			m.statusMessage = ""
			m.statusIsError = false
		}

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.autoPlayID++
	step := m.cfg.Reader.JumpStep

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.showHelp && msg.String() == "esc" {
			m.showHelp = false
			return m, nil
		}
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

	case key.Matches(msg, m.keys.Play):
		m.engine.TogglePlay()

	case key.Matches(msg, m.keys.Back):
		m.engine.Navigate(-1)
	case key.Matches(msg, m.keys.Forward):
		m.engine.Navigate(1)
	case key.Matches(msg, m.keys.JumpBack):
		m.engine.Navigate(-step)
	case key.Matches(msg, m.keys.JumpForward):
		m.engine.Navigate(step)

	case key.Matches(msg, m.keys.Faster):
		m.engine.AdjustWPM(m.cfg.Reader.SpeedStep)
	case key.Matches(msg, m.keys.Slower):
		m.engine.AdjustWPM(-m.cfg.Reader.SpeedStep)

	case key.Matches(msg, m.keys.Start):
		m.engine.JumpTo(0)
	case key.Matches(msg, m.keys.End):
		m.engine.JumpTo(m.engine.Progress().TotalWords - 1)
	case key.Matches(msg, m.keys.Percent):
		tenths := int(msg.String()[0] - '0')
		m.engine.JumpToPercentage(float64(tenths * 10))

	case key.Matches(msg, m.keys.SmartPauses):
		on := !m.engine.SmartPauses()
		m.engine.SetSmartPauses(on)
		if on {
			return m, m.showStatusMessage("Smart pauses on", false)
		}
		return m, m.showStatusMessage("Smart pauses off", false)

	case key.Matches(msg, m.keys.Copy):
		if m.src.Text == "" {
			return m, m.showStatusMessage("Nothing to copy", true)
		}
		copyText(m.src.Text)
		return m, m.showStatusMessage("Copied text", false)

	case key.Matches(msg, m.keys.Reload):
		if !m.src.Watchable() {
			return m, m.showStatusMessage("Only files can be reloaded", true)
		}
		return m, reloadSource(m.src.Location)
	}

	return m, nil
}

// shutdown releases the engine and background watchers.
func (m *model) shutdown() {
	m.engine.Destroy()
	m.events.close()
	if m.watcher != nil {
		m.watcher.close()
	}
}

func (m *model) showStatusMessage(msg string, isError bool) tea.Cmd {
	m.statusMessage = msg
	m.statusIsError = isError
	m.statusMessageID++

	id := m.statusMessageID
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{id}
	})
}

func stateFor(s rsvp.State) state {
	switch {
	case len(s.Words) == 0:
		return stateEmpty
	case s.Finished:
		return stateFinished
	default:
		return stateReading
	}
}

// COMMANDS

func reloadSource(path string) tea.Cmd {
	return func() tea.Msg {
		src, err := source.ReadFile(path)
		return sourceReloadedMsg{src, err}
	}
}
