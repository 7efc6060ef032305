// Package pickers provides the embedded views hosted by the attach panel:
// a gallery, a camera, a voice recorder and a document picker. Views are
// Bubble Tea sub-models driven by the host program and speak the panel's
// key/value protocol.
package pickers

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/attachpanel/internal/config"
	"github.com/csheth/attachpanel/internal/panel"
)

// View is an embedded picker that the host program renders and feeds
// messages to.
type View interface {
	panel.EmbeddedView
	Init() tea.Cmd
	Update(tea.Msg) tea.Cmd
	Render(width, height int) string
	Hint() string
	released() bool
}

type Options struct {
	Config config.PickerConfig
	Logger *slog.Logger
	Now    func() time.Time
}

// Host creates picker views for the panel and routes program messages to
// them.
type Host struct {
	cfg      config.PickerConfig
	log      *slog.Logger
	now      func() time.Time
	nextID   int
	views    map[int]View
	pending  []tea.Cmd
	rotation int
}

func NewHost(opts Options) *Host {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Host{
		cfg:   opts.Config,
		log:   opts.Logger.With("component", "pickers"),
		now:   opts.Now,
		views: make(map[int]View),
	}
}

// Create realizes the view for an embedded category.
func (h *Host) Create(req panel.EmbedRequest) (panel.EmbeddedView, error) {
	h.nextID++
	b := newBase(h, h.nextID, req)
	var v View
	switch req.Descriptor.Category {
	case panel.CategoryImage:
		v = newGallery(b, h.cfg.MediaDir)
	case panel.CategoryCamera:
		v = newCamera(b, h.cfg.CaptureDir)
	case panel.CategoryVoice:
		v = newRecorder(b, h.cfg.CaptureDir)
	case panel.CategoryDocument:
		v = newDocuments(b, h.cfg.DocumentDir)
	default:
		return nil, fmt.Errorf("no embedded picker for %s", req.Descriptor.Name)
	}
	h.views[b.id] = v
	if cmd := v.Init(); cmd != nil {
		h.pending = append(h.pending, cmd)
	}
	h.log.Debug("view created", "view", b.id, "category", req.Descriptor.Name)
	return v, nil
}

func (h *Host) Rotate(angle int) {
	h.rotation = angle
}

// relabeler is a view whose rendered labels come from data it reloads.
type relabeler interface {
	relabel() tea.Cmd
}

// LanguageChanged asks every live listing view to reload so its labels are
// rebuilt.
func (h *Host) LanguageChanged() {
	n := 0
	for _, v := range h.views {
		r, ok := v.(relabeler)
		if !ok || v.released() {
			continue
		}
		if cmd := r.relabel(); cmd != nil {
			h.pending = append(h.pending, cmd)
			n++
		}
	}
	h.log.Info("language changed", "reloading", n)
}

// Landscape reports whether the last rotation was sideways.
func (h *Host) Landscape() bool {
	return h.rotation == 90 || h.rotation == 270
}

// TakeCmds returns the commands queued by views created since the last call.
func (h *Host) TakeCmds() tea.Cmd {
	if len(h.pending) == 0 {
		return nil
	}
	cmds := h.pending
	h.pending = nil
	return tea.Batch(cmds...)
}

// Update forwards a non-key message to every live view.
func (h *Host) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for id, v := range h.views {
		if v.released() {
			delete(h.views, id)
			continue
		}
		if cmd := v.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Live returns the number of views that have not been destroyed.
func (h *Host) Live() int {
	n := 0
	for _, v := range h.views {
		if !v.released() {
			n++
		}
	}
	return n
}
