// Package panel implements an attach panel: a paged picker that a host
// embeds in a region of its window to collect content for an outgoing
// message. The panel owns the hidden, half and full visibility model, the
// ordered set of content categories and the message protocol spoken with
// the pickers it hosts. Rendering and content acquisition are delegated to
// the collaborators passed in Config.
//
// A Panel is not safe for concurrent use. Every method and every
// collaborator callback must run on the goroutine that drives the host's
// event loop.
package panel

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

const (
	defaultHeightRatio       = 0.45
	defaultAnimationDuration = 200 * time.Millisecond
)

// Config wires a panel to its collaborators. Host and Launcher may be nil
// when the panel never registers categories of the matching kind. A nil
// Authorizer allows every category and a nil Ranker leaves the grid in
// registration order.
type Config struct {
	Host       EmbeddedHost
	Launcher   Launcher
	Authorizer Authorizer
	Ranker     Ranker
	Logger     *slog.Logger

	// HeightRatio is the share of the container height used by the half
	// state.
	HeightRatio       float64
	AnimationDuration time.Duration
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.HeightRatio <= 0 || c.HeightRatio > 1 {
		c.HeightRatio = defaultHeightRatio
	}
	if c.AnimationDuration <= 0 {
		c.AnimationDuration = defaultAnimationDuration
	}
	return c
}

// Result is a terminal selection delivered by an embedded view or a launched
// application.
type Result struct {
	Selected []string
	Data     Data
}

// ResultFunc receives selection results.
type ResultFunc func(p *Panel, c Category, r Result)

// EventFunc receives show and hide lifecycle events.
type EventFunc func(p *Panel, e Event)

type lifecycle int

const (
	lifeActive lifecycle = iota
	lifeDestroying
	lifeDestroyed
)

type animation struct {
	show bool
}

// Panel is an attach panel instance. Create one with Create.
type Panel struct {
	surface Surface
	cfg     Config
	log     *slog.Logger

	life     lifecycle
	mutating bool

	slots   []*slot
	pages   []*page
	current int

	portrait  State
	landscape State
	rotation  int

	width      int
	halfHeight int
	fullHeight int

	anim      *animation
	lastEvent Event

	dragging  bool
	gridAtTop bool
	toolbar   bool

	onResult ResultFunc
	onEvent  EventFunc
}

func (p *Panel) checkLive() error {
	if p == nil {
		return fmt.Errorf("%w: nil panel", ErrInvalidParameter)
	}
	if p.surface == nil {
		return ErrNotInitialized
	}
	if p.life != lifeActive {
		return ErrAlreadyDestroyed
	}
	return nil
}

// Destroy releases the panel. A visible panel is hidden first and released
// once the hide animation completes.
func (p *Panel) Destroy() error {
	if err := p.checkLive(); err != nil {
		return err
	}
	p.life = lifeDestroying
	p.log.Debug("destroy requested", "state", p.liveState())
	if p.liveState() != Hidden {
		p.fire(triggerHide)
		return nil
	}
	if p.anim == nil {
		p.teardown()
	}
	return nil
}

func (p *Panel) teardown() {
	for _, s := range p.slots {
		s.release()
	}
	p.slots = nil
	p.pages = nil
	p.current = 0
	p.portrait, p.landscape = Hidden, Hidden
	p.life = lifeDestroyed
	releaseSurface(p.surface, p)
	p.log.Debug("panel destroyed")
}

// Destroyed reports whether the panel has been fully released.
func (p *Panel) Destroyed() bool {
	return p != nil && p.life == lifeDestroyed
}

// SetResultFunc installs the selection result callback.
func (p *Panel) SetResultFunc(fn ResultFunc) error {
	if err := p.checkLive(); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("%w: nil result callback", ErrInvalidParameter)
	}
	p.onResult = fn
	return nil
}

// UnsetResultFunc removes the selection result callback.
func (p *Panel) UnsetResultFunc() error {
	if err := p.checkLive(); err != nil {
		return err
	}
	p.onResult = nil
	return nil
}

// SetEventFunc installs the lifecycle event callback.
func (p *Panel) SetEventFunc(fn EventFunc) error {
	if err := p.checkLive(); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("%w: nil event callback", ErrInvalidParameter)
	}
	p.onEvent = fn
	return nil
}

// UnsetEventFunc removes the lifecycle event callback.
func (p *Panel) UnsetEventFunc() error {
	if err := p.checkLive(); err != nil {
		return err
	}
	p.onEvent = nil
	return nil
}

// Visible reports whether the panel is shown on the current axis.
func (p *Panel) Visible() (bool, error) {
	if err := p.checkLive(); err != nil {
		return false, err
	}
	return p.liveState() != Hidden, nil
}

// Show reveals the panel. Showing a visible panel is a no-op.
func (p *Panel) Show() error {
	if err := p.checkLive(); err != nil {
		return err
	}
	p.fire(triggerShow)
	return nil
}

// Hide conceals the panel. Hiding a hidden panel is a no-op.
func (p *Panel) Hide() error {
	if err := p.checkLive(); err != nil {
		return err
	}
	p.fire(triggerHide)
	return nil
}

// Handle feeds a host input event to the panel.
func (p *Panel) Handle(in Input) error {
	if err := p.checkLive(); err != nil {
		return err
	}
	switch ev := in.(type) {
	case Flick:
		p.flick(ev)
	case DragStarted:
		p.dragging = true
	case Dragged:
		p.dragging = true
	case ScrollSettled:
		p.dragging = false
		p.settle(ev.Offset)
	case TabSelected:
		p.selectTab(ev.Index)
	case GridItemSelected:
		return p.launchGridItem(ev.Index)
	case GridScrolled:
		p.gridAtTop = ev.AtTop
	case Rotated:
		p.rotate()
	case KeypadShown, Iconified, BackPressed:
		p.fire(triggerHide)
	case Resumed:
		if p.liveState() != Hidden {
			p.resumeViews()
		}
		p.refreshRanking()
	case LanguageChanged:
		if p.cfg.Host != nil {
			p.cfg.Host.LanguageChanged()
		}
	case nil:
		return fmt.Errorf("%w: nil input", ErrInvalidParameter)
	default:
		return fmt.Errorf("%w: unknown input %T", ErrInvalidParameter, in)
	}
	return nil
}

// State returns the state of the live axis.
func (p *Panel) State() State { return p.liveState() }

// Orientation returns the live axis.
func (p *Panel) Orientation() Orientation { return orientationOf(p.rotation) }

// Height returns the resting height of the live state.
func (p *Panel) Height() int { return p.heightFor(p.liveState()) }

// Width returns the transit width.
func (p *Panel) Width() int { return p.width }

// ToolbarVisible reports the last toolbar visibility requested by a view.
func (p *Panel) ToolbarVisible() bool { return p.toolbar }

// Animating reports whether a height animation is in flight.
func (p *Panel) Animating() bool { return p.anim != nil }

// GridScrollable reports whether the grid page may scroll vertically.
func (p *Panel) GridScrollable() bool { return p.liveState() == Full }

// SelectionMode returns the mode currently broadcast to embedded views.
func (p *Panel) SelectionMode() string {
	if p.liveState() == Full {
		return SelectionMultiple
	}
	return SelectionSingle
}

func (p *Panel) liveState() State {
	if p.Orientation() == Landscape {
		return p.landscape
	}
	return p.portrait
}

func (p *Panel) setLiveState(s State) {
	if p.Orientation() == Landscape {
		p.landscape = s
	} else {
		p.portrait = s
	}
}

func (p *Panel) heightFor(s State) int {
	switch s {
	case Half:
		return p.halfHeight
	case Full:
		return p.fullHeight
	default:
		return 0
	}
}

func (p *Panel) computeSize() {
	w, h := p.surface.Geometry()
	p.width = w
	p.fullHeight = h
	base := int(float64(max(w, h)) * p.cfg.HeightRatio)
	if base > h {
		base = h
	}
	p.halfHeight = max(p.surface.KeypadHeight(), base)
	if p.halfHeight > h {
		p.halfHeight = h
	}
}

func (p *Panel) emit(e Event) {
	p.lastEvent = e
	if p.onEvent != nil {
		p.onEvent(p, e)
	}
}

func (p *Panel) deliverResult(s *slot, d Data) {
	r := Result{Selected: d.Strings(KeySelected), Data: d.Clone()}
	p.log.Info("result", "component", "relay", "category", s.desc.Category, "items", len(r.Selected))
	if p.onResult != nil {
		p.onResult(p, s.desc.Category, r)
	}
	if p.life == lifeActive && p.liveState() == Full {
		p.fire(triggerHide)
	}
}
