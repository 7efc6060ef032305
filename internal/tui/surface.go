package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/attachpanel/internal/panel"
)

const (
	frameInterval = 16 * time.Millisecond
	keypadRows    = 8
	// portraitColumns is the width of the simulated handset column.
	portraitColumns = 44
)

type animFrameMsg struct {
	seq int
	at  time.Time
}

type heightAnim struct {
	seq      int
	from, to int
	start    time.Time
	duration time.Duration
	done     func()
}

// surface is the terminal area hosting the panel. Widths are reported in
// row units, two terminal columns each, so the height ratio applies to a
// roughly square grid of cells.
type surface struct {
	cols, rows int
	rotation   int
	keypad     bool

	height  int
	anim    *heightAnim
	seq     int
	signal  panel.Signal
	pending []tea.Cmd
	now     func() time.Time
}

func newSurface(cols, rows int) *surface {
	return &surface{cols: cols, rows: rows, now: time.Now}
}

func (s *surface) Geometry() (int, int) {
	return s.columns() / 2, s.rows
}

// columns is the terminal width the panel is drawn in.
func (s *surface) columns() int {
	if s.landscape() {
		return s.cols
	}
	return min(s.cols, portraitColumns)
}

func (s *surface) landscape() bool {
	return s.rotation == 90 || s.rotation == 270
}

func (s *surface) Rotation() int { return s.rotation }

func (s *surface) KeypadHeight() int {
	if s.keypad {
		return keypadRows
	}
	return 0
}

func (s *surface) SetHeight(h int) {
	s.height = h
}

func (s *surface) Signal(sig panel.Signal) {
	s.signal = sig
}

func (s *surface) AnimateHeight(from, to int, d time.Duration, done func()) {
	s.seq++
	s.height = from
	s.anim = &heightAnim{seq: s.seq, from: from, to: to, start: s.now(), duration: d, done: done}
	s.pending = append(s.pending, s.nextFrame())
}

func (s *surface) nextFrame() tea.Cmd {
	seq := s.seq
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return animFrameMsg{seq: seq, at: t}
	})
}

// step advances the running animation to msg.at. The completion callback
// runs on the program goroutine once the tween ends.
func (s *surface) step(msg animFrameMsg) tea.Cmd {
	a := s.anim
	if a == nil || a.seq != msg.seq {
		return nil
	}
	progress := 1.0
	if a.duration > 0 {
		progress = float64(msg.at.Sub(a.start)) / float64(a.duration)
	}
	if progress >= 1 {
		s.anim = nil
		s.height = a.to
		a.done()
		return nil
	}
	s.height = a.from + int(float64(a.to-a.from)*decelerate(progress))
	return s.nextFrame()
}

func decelerate(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

func (s *surface) resize(cols, rows int) {
	s.cols, s.rows = cols, rows
}

func (s *surface) rotate() {
	s.rotation = (s.rotation + 90) % 180
}

func (s *surface) takeCmds() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
