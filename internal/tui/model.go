package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/attachpanel/internal/launcher"
	"github.com/csheth/attachpanel/internal/outbox"
	"github.com/csheth/attachpanel/internal/panel"
	"github.com/csheth/attachpanel/internal/pickers"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Categories        []panel.Category
	Pickers           *pickers.Host
	Launcher          *launcher.Launcher
	Authorizer        panel.Authorizer
	Ranker            panel.Ranker
	OutboxPath        string
	HeightRatio       float64
	AnimationDuration time.Duration
	Logger            *slog.Logger
}

type model struct {
	config Config
	log    *slog.Logger
	cancel context.CancelFunc

	surface *surface
	panel   *panel.Panel
	pickers *pickers.Host
	bridge  *launchBridge
	jobs    *jobBus
	layout  pageLayout

	spinner  spinner.Model
	prompt   textinput.Model
	history  viewport.Model
	help     help.Model
	pending  []tea.Cmd
	prompted bool

	attachments  []outbox.Attachment
	lastEvent    panel.Event
	gridCursor   int
	iconified    bool
	runningJobs  int
	infoMessage  string
	errorMessage string
}

// New creates the attach panel, registers the configured categories and
// returns a tea.Model ready to be mounted into a Program. Categories that
// fail to register are reported in the status line.
func New(config Config) (tea.Model, error) {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Pickers == nil {
		config.Pickers = pickers.NewHost(pickers.Options{Logger: config.Logger})
	}
	ctx, cancel := context.WithCancel(context.Background())

	prompt := textinput.New()
	prompt.Prompt = ": "
	prompt.Placeholder = "add contact • set image key=value • remove voice"
	prompt.CharLimit = 200

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := &model{
		config:      config,
		log:         config.Logger.With("component", "tui"),
		cancel:      cancel,
		surface:     newSurface(80, 24),
		pickers:     config.Pickers,
		jobs:        newJobBus(ctx),
		layout:      newPageLayout(),
		spinner:     spin,
		prompt:      prompt,
		history:     viewport.New(80, 10),
		help:        help.New(),
		lastEvent:   panel.EventNone,
		infoMessage: "Press a to open the attach panel.",
	}
	m.layout.Update(80, 24)
	m.surface.resize(m.layout.width, m.layout.panelRows)
	m.bridge = newLaunchBridge(ctx, config.Launcher, m.jobs, config.Logger)

	p, err := panel.Create(m.surface, panel.Config{
		Host:              config.Pickers,
		Launcher:          m.bridge,
		Authorizer:        config.Authorizer,
		Ranker:            config.Ranker,
		Logger:            config.Logger,
		HeightRatio:       config.HeightRatio,
		AnimationDuration: config.AnimationDuration,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create panel: %w", err)
	}
	m.panel = p
	if err := m.install(p); err != nil {
		_ = p.Destroy()
		cancel()
		return nil, err
	}

	var failed []string
	for _, c := range config.Categories {
		if err := p.AddCategory(c, nil); err != nil {
			m.log.Warn("category not registered", "category", c, "err", err)
			failed = append(failed, c.String())
		}
	}
	if len(failed) > 0 {
		m.errorMessage = fmt.Sprintf("unavailable: %v", failed)
	}
	return m, nil
}

// install hooks the model's result and event handlers into p.
func (m *model) install(p *panel.Panel) error {
	if err := p.SetResultFunc(m.onResult); err != nil {
		return fmt.Errorf("install result callback: %w", err)
	}
	if err := p.SetEventFunc(m.onEvent); err != nil {
		return fmt.Errorf("install event callback: %w", err)
	}
	return nil
}

func (m *model) Init() tea.Cmd {
	return m.flush()
}

func (m *model) onResult(_ *panel.Panel, c panel.Category, r panel.Result) {
	a := outbox.NewAttachment(c, r)
	m.attachments = append(m.attachments, a)
	m.infoMessage = fmt.Sprintf("Attached %d item(s) from %s.", len(a.Selected), c)
	m.errorMessage = ""
	m.refreshHistory()
	if m.config.OutboxPath != "" {
		m.pending = append(m.pending, m.jobs.Start(jobKindSave, saveAttachmentJob(m.config.OutboxPath, a)))
	}
}

func (m *model) onEvent(_ *panel.Panel, e panel.Event) {
	m.lastEvent = e
	m.log.Debug("panel event", "event", e)
}

// flush collects the commands queued by the panel's collaborators.
func (m *model) flush() tea.Cmd {
	cmds := append(m.pending, m.surface.takeCmds(), m.pickers.TakeCmds(), m.bridge.takeCmds())
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.surface.resize(m.layout.width, m.layout.panelRows)
		m.history.Width = m.layout.width
		m.help.Width = m.layout.width
		m.prompt.Width = max(m.layout.width-4, 10)
		m.handle(panel.Rotated{})
		m.refreshHistory()
		return m, m.flush()
	case animFrameMsg:
		cmd := m.surface.step(msg)
		return m, tea.Batch(cmd, m.flush())
	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.runningJobs > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.pickers.Update(msg))
		return m, tea.Batch(cmds...)
	case jobSignalMsg:
		m.runningJobs++
		if m.runningJobs == 1 {
			return m, m.spinner.Tick
		}
		return m, nil
	case jobResultEnvelope:
		m.runningJobs = max(m.runningJobs-1, 0)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case launchDoneMsg:
		outcome := m.bridge.complete(msg)
		if outcome == "" {
			return m, nil
		}
		switch outcome {
		case outcomeFailed:
			m.errorMessage = fmt.Sprintf("%s: %v", msg.target, msg.err)
		case outcomeCancelled:
			m.infoMessage = fmt.Sprintf("%s closed without a selection.", msg.target)
		}
		if m.config.OutboxPath != "" {
			entry := outbox.Launch{
				RequestID: msg.id,
				Target:    msg.target,
				Outcome:   outcome,
				Duration:  time.Since(msg.started),
				StartedAt: msg.started,
			}
			if msg.err != nil {
				entry.Err = msg.err.Error()
			}
			m.pending = append(m.pending, m.jobs.Start(jobKindSave, saveLaunchJob(m.config.OutboxPath, entry)))
		}
		return m, m.flush()
	case saveResultMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("outbox: %v", msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, tea.Batch(cmd, m.flush())
	}
	cmd := m.pickers.Update(msg)
	return m, tea.Batch(cmd, m.flush())
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.prompted {
		return m.handlePromptKey(msg)
	}
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.iconified {
		if key.Matches(msg, keys.Iconify) {
			m.iconified = false
			m.infoMessage = "Resumed."
			m.handle(panel.Resumed{})
		}
		return nil
	}
	visible, _ := m.panel.Visible()
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, keys.Prompt):
		m.prompted = true
		m.prompt.SetValue("")
		return m.prompt.Focus()
	case key.Matches(msg, keys.Toggle):
		var err error
		if visible {
			err = m.panel.Hide()
		} else {
			err = m.panel.Show()
		}
		m.report(err)
		return nil
	case key.Matches(msg, keys.Rotate):
		m.surface.rotate()
		m.handle(panel.Rotated{})
		m.infoMessage = "Rotated to " + m.panel.Orientation().String() + "."
		return nil
	case key.Matches(msg, keys.Keypad):
		m.surface.keypad = !m.surface.keypad
		if m.surface.keypad {
			m.handle(panel.KeypadShown{})
			m.infoMessage = "Keypad shown."
		} else {
			m.infoMessage = "Keypad hidden."
		}
		return nil
	case key.Matches(msg, keys.Iconify):
		m.iconified = true
		m.infoMessage = "Backgrounded. Press ctrl+b to resume."
		m.handle(panel.Iconified{})
		return nil
	case key.Matches(msg, keys.Language):
		m.handle(panel.LanguageChanged{})
		return nil
	}
	if !visible {
		return nil
	}
	switch {
	case key.Matches(msg, keys.Back):
		m.handle(panel.BackPressed{})
	case key.Matches(msg, keys.FlickUp):
		m.handle(panel.Flick{DY: -flickDistance})
	case key.Matches(msg, keys.FlickDown):
		m.handle(panel.Flick{DY: flickDistance})
	case key.Matches(msg, keys.NextPage):
		m.drag(1)
	case key.Matches(msg, keys.PrevPage):
		m.drag(-1)
	default:
		if idx, err := strconv.Atoi(msg.String()); err == nil && idx >= 1 && idx <= 9 {
			m.handle(panel.TabSelected{Index: idx - 1})
			return nil
		}
		return m.forwardKey(msg)
	}
	return nil
}

// drag simulates a swipe of the page scroller by one page.
func (m *model) drag(delta int) {
	pages := len(m.panel.Pages())
	target := m.panel.CurrentPage() + delta
	if target < 0 || target >= pages {
		return
	}
	offset := target * m.panel.Width()
	m.handle(panel.DragStarted{})
	m.handle(panel.Dragged{Offset: offset - delta*m.panel.Width()/2})
	m.handle(panel.ScrollSettled{Offset: offset})
}

// forwardKey sends a key to the focused page: the grid handles navigation
// itself, embedded pickers receive the raw key.
func (m *model) forwardKey(msg tea.KeyMsg) tea.Cmd {
	if m.onGridPage() {
		items := m.panel.GridItems()
		switch {
		case key.Matches(msg, keys.GridUp):
			m.gridCursor = max(m.gridCursor-1, 0)
			m.handle(panel.GridScrolled{AtTop: m.gridCursor == 0})
		case key.Matches(msg, keys.GridDown):
			m.gridCursor = min(m.gridCursor+1, max(len(items)-1, 0))
			m.handle(panel.GridScrolled{AtTop: m.gridCursor == 0})
		case key.Matches(msg, keys.Launch):
			m.handle(panel.GridItemSelected{Index: m.gridCursor})
		}
		return nil
	}
	v, _, ok := m.panel.View()
	if !ok {
		return nil
	}
	pv, ok := v.(pickers.View)
	if !ok {
		return nil
	}
	return pv.Update(msg)
}

func (m *model) onGridPage() bool {
	pages := m.panel.Pages()
	cur := m.panel.CurrentPage()
	return cur >= 0 && cur < len(pages) && pages[cur].Grid
}

func (m *model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyEsc:
		m.prompted = false
		m.prompt.Blur()
		return nil
	case tea.KeyEnter:
		line := m.prompt.Value()
		m.prompted = false
		m.prompt.Blur()
		m.runCommand(line)
		return nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

func (m *model) runCommand(line string) {
	cmd, err := parseCommand(line)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	status, err := cmd.apply(m.panel)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.errorMessage = ""
	m.infoMessage = status
}

func (m *model) handle(in panel.Input) {
	m.report(m.panel.Handle(in))
}

func (m *model) report(err error) {
	if err == nil {
		return
	}
	m.log.Warn("panel call failed", "err", err)
	m.errorMessage = err.Error()
}

func (m *model) quit() tea.Cmd {
	if err := m.panel.Destroy(); err != nil {
		m.log.Warn("destroy failed", "err", err)
	}
	m.cancel()
	return tea.Quit
}
