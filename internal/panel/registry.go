package panel

import (
	"fmt"
)

// rankLast is the rank of an app category with no usage history.
const rankLast = 1 << 20

type slot struct {
	panel   *Panel
	desc    Descriptor
	data    Data
	view    EmbeddedView
	rank    int
	flick   bool
	removed bool
}

func (s *slot) embedded() bool { return s.desc.Kind == KindEmbedded }

func (s *slot) release() {
	s.removed = true
	if s.view != nil {
		s.view.Destroy()
		s.view = nil
	}
}

// SlotInfo is a read-only view of a registered category.
type SlotInfo struct {
	Descriptor Descriptor
	Data       Data
	Realized   bool
	Rank       int
	Flick      bool
}

func (s *slot) info() SlotInfo {
	return SlotInfo{
		Descriptor: s.desc,
		Data:       s.data.Clone(),
		Realized:   s.view != nil,
		Rank:       s.rank,
		Flick:      s.flick,
	}
}

// beginMutation guards registry mutations against reentrant calls from
// collaborator callbacks.
func (p *Panel) beginMutation() (func(), error) {
	if err := p.checkLive(); err != nil {
		return nil, err
	}
	if p.mutating {
		return nil, fmt.Errorf("%w: category mutation in progress", ErrInvalidParameter)
	}
	p.mutating = true
	return func() { p.mutating = false }, nil
}

func (p *Panel) slotFor(c Category) *slot {
	for _, s := range p.slots {
		if s.desc.Category == c {
			return s
		}
	}
	return nil
}

// Categories returns the registered categories in registration order.
func (p *Panel) Categories() []Category {
	out := make([]Category, 0, len(p.slots))
	for _, s := range p.slots {
		out = append(out, s.desc.Category)
	}
	return out
}

// Slot returns the runtime state of a registered category.
func (p *Panel) Slot(c Category) (SlotInfo, bool) {
	s := p.slotFor(c)
	if s == nil {
		return SlotInfo{}, false
	}
	return s.info(), true
}

// AddCategory registers a content category. extra seeds the configuration
// sent to its view or application.
func (p *Panel) AddCategory(c Category, extra Data) error {
	done, err := p.beginMutation()
	if err != nil {
		return err
	}
	defer done()

	desc, ok := Describe(c)
	if !ok {
		return fmt.Errorf("%w: unknown category %d", ErrInvalidParameter, int(c))
	}
	if err := p.authorize(desc); err != nil {
		return err
	}
	if p.slotFor(c) != nil {
		return fmt.Errorf("%w: category %s", ErrAlreadyExists, desc.Name)
	}
	if err := extra.validate(); err != nil {
		return err
	}

	s := &slot{
		panel: p,
		desc:  desc,
		data:  extra.Clone(),
		rank:  rankLast,
		flick: true,
	}
	if s.embedded() {
		s.rank = 0
	}
	p.slots = append(p.slots, s)
	idx := p.attachPage(s)
	if err := p.focusNewPage(idx); err != nil {
		p.detachPage(s)
		p.slots = p.slots[:len(p.slots)-1]
		s.release()
		return err
	}
	p.log.Info("category added", "component", "registry", "category", desc.Name, "kind", desc.Kind, "pages", len(p.pages))
	return nil
}

func (p *Panel) authorize(desc Descriptor) error {
	auth := p.cfg.Authorizer
	if auth == nil {
		return nil
	}
	if desc.Feature != "" {
		supported, err := auth.HasFeature(desc.Feature)
		if err != nil {
			p.log.Warn("feature lookup failed", "component", "registry", "feature", desc.Feature, "err", err)
		} else if !supported {
			return fmt.Errorf("%w: %s needs %s", ErrUnsupportedCategory, desc.Name, desc.Feature)
		}
	}
	if desc.Privilege != "" {
		if err := auth.CheckPrivilege(desc.Privilege); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrPermissionDenied, desc.Name, err)
		}
	}
	return nil
}

// RemoveCategory unregisters a content category. Removing a category that is
// not registered is a no-op.
func (p *Panel) RemoveCategory(c Category) error {
	done, err := p.beginMutation()
	if err != nil {
		return err
	}
	defer done()

	if !c.Valid() {
		return fmt.Errorf("%w: unknown category %d", ErrInvalidParameter, int(c))
	}
	s := p.slotFor(c)
	if s == nil {
		return nil
	}
	wasCurrent := p.current
	idx := p.detachPage(s)
	for i, other := range p.slots {
		if other == s {
			p.slots = append(p.slots[:i], p.slots[i+1:]...)
			break
		}
	}
	s.release()
	p.log.Info("category removed", "component", "registry", "category", s.desc.Name, "pages", len(p.pages))

	if idx >= 0 && idx == wasCurrent {
		if p.liveState() == Full && s.embedded() {
			p.fire(triggerCollapse)
		}
		if err := p.showFocusedPage(); err != nil {
			p.log.Warn("page view unavailable", "component", "registry", "err", err)
		}
	}
	return nil
}

// SetExtraData merges data into the configuration of a registered category.
// A realized embedded view receives the merged configuration immediately.
func (p *Panel) SetExtraData(c Category, data Data) error {
	done, err := p.beginMutation()
	if err != nil {
		return err
	}
	defer done()

	if len(data) == 0 {
		return fmt.Errorf("%w: empty data", ErrInvalidParameter)
	}
	if err := data.validate(); err != nil {
		return err
	}
	s := p.slotFor(c)
	if s == nil {
		return fmt.Errorf("%w: category %s is not registered", ErrInvalidParameter, c)
	}
	s.data = s.data.Merge(data.Clone())
	if !s.embedded() {
		return nil
	}
	if s.view != nil {
		return p.send(s, s.data)
	}
	if p.liveState() != Hidden || p.focusedSlot() == s {
		return p.realize(s)
	}
	return nil
}
