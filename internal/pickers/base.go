package pickers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/csheth/attachpanel/internal/panel"
)

// KeyTotalCount limits how many items a multiple selection may hold.
const KeyTotalCount = "http://tizen.org/appcontrol/data/total_count"

var errReleased = errors.New("view released")

// base holds the protocol state shared by every picker.
type base struct {
	host     *Host
	id       int
	desc     panel.Descriptor
	data     panel.Data
	mode     string
	visible  bool
	ready    bool
	paused   bool
	gone     bool
	flick    bool
	toolbar  bool
	onResult func(panel.Data)
	log      *slog.Logger
}

func newBase(h *Host, id int, req panel.EmbedRequest) *base {
	b := &base{
		host:     h,
		id:       id,
		desc:     req.Descriptor,
		data:     panel.Data{},
		mode:     panel.SelectionSingle,
		flick:    true,
		toolbar:  true,
		onResult: req.OnResult,
		log:      h.log.With("view", id, "category", req.Descriptor.Name),
	}
	b.apply(req.Data)
	return b
}

func (b *base) Send(d panel.Data) error {
	if b.gone {
		return errReleased
	}
	b.apply(d)
	return nil
}

func (b *base) apply(d panel.Data) {
	b.data = b.data.Merge(d.Clone())
	if v, ok := d.Str(panel.KeySelectionMode); ok {
		b.mode = v
	}
	if v, ok := d.Str(panel.KeyInitialize); ok && v == "enable" {
		b.ready = true
	}
	if v, ok := d.Str(panel.KeyShowContentCategory); ok {
		b.visible = v == "true"
	}
}

func (b *base) Destroy()         { b.gone = true }
func (b *base) Pause()           { b.paused = true }
func (b *base) Resume()          { b.paused = false }
func (b *base) released() bool   { return b.gone }
func (b *base) multiple() bool   { return b.mode == panel.SelectionMultiple }
func (b *base) Mode() string     { return b.mode }
func (b *base) Visible() bool    { return b.visible }
func (b *base) Data() panel.Data { return b.data.Clone() }

// limit returns the configured selection cap, or 0 when unlimited.
func (b *base) limit() int {
	s, ok := b.data.Str(KeyTotalCount)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (b *base) emit(d panel.Data) {
	if b.gone || b.onResult == nil {
		return
	}
	b.onResult(d)
}

func (b *base) setFlick(enabled bool) {
	if b.flick == enabled {
		return
	}
	b.flick = enabled
	v := "disable"
	if enabled {
		v = "enable"
	}
	b.emit(panel.Data{panel.KeyFlickDown: panel.String(v)})
}

func (b *base) setToolbar(show bool) {
	if b.toolbar == show {
		return
	}
	b.toolbar = show
	b.emit(panel.Data{panel.KeyShowToolbar: panel.String(strconv.FormatBool(show))})
}

func (b *base) requestFull() {
	b.emit(panel.Data{panel.KeyFullMode: panel.String("enable")})
}

func (b *base) deliver(items []string) {
	if len(items) == 0 {
		return
	}
	b.log.Info("selection delivered", "items", len(items))
	b.emit(panel.Data{panel.KeySelected: panel.List(items...)})
}
