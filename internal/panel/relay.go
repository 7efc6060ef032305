package panel

import "fmt"

func (p *Panel) realize(s *slot) error {
	if s.view != nil {
		return nil
	}
	host := p.cfg.Host
	if host == nil {
		return fmt.Errorf("%w: no embedded host for %s", ErrNotInitialized, s.desc.Name)
	}
	data := s.data.Clone().Merge(Data{
		KeyCallerTag:     String(CallerTag),
		KeySelectionMode: String(p.SelectionMode()),
	})
	view, err := host.Create(EmbedRequest{
		Descriptor: s.desc,
		Data:       data,
		OnResult:   func(d Data) { p.relay(s, d) },
	})
	if err != nil {
		return fmt.Errorf("%w: create %s view: %v", ErrOutOfMemory, s.desc.Name, err)
	}
	if view == nil {
		return fmt.Errorf("%w: create %s view", ErrOutOfMemory, s.desc.Name)
	}
	s.view = view
	p.log.Debug("view realized", "component", "relay", "category", s.desc.Name)
	return nil
}

func (p *Panel) send(s *slot, d Data) error {
	if s.view == nil {
		return nil
	}
	msg := d.Clone().Merge(Data{KeyCallerTag: String(CallerTag)})
	if err := s.view.Send(msg); err != nil {
		return fmt.Errorf("%w: send to %s: %v", ErrOutOfMemory, s.desc.Name, err)
	}
	return nil
}

// relay dispatches a message from the embedded view of s. Reserved keys are
// matched in a fixed order and the first one present wins; a message without
// any of them is a selection result.
func (p *Panel) relay(s *slot, d Data) {
	if s.removed || p.life != lifeActive {
		p.log.Debug("message dropped", "component", "relay", "category", s.desc.Name)
		return
	}
	hidden := p.liveState() == Hidden

	switch {
	case d.Has(KeyFlickDown):
		v, _ := d.Str(KeyFlickDown)
		if v != valueEnable && v != valueDisable {
			p.log.Warn("invalid flick value", "component", "relay", "value", v)
		}
		s.flick = v != valueDisable
	case d.Has(KeyFullMode):
		v, _ := d.Str(KeyFullMode)
		if v != valueEnable {
			p.log.Warn("invalid full mode value", "component", "relay", "value", v)
			return
		}
		if p.Orientation() == Landscape {
			return
		}
		p.fire(triggerFullRequest)
	case d.Has(KeyShowPanel):
		v, _ := d.Str(KeyShowPanel)
		switch v {
		case valueTrue:
			if hidden {
				p.fire(triggerShow)
			}
		case valueFalse:
			if !hidden {
				p.fire(triggerHide)
			}
		default:
			p.log.Warn("invalid show panel value", "component", "relay", "value", v)
		}
	case d.Has(KeyShowToolbar):
		v, _ := d.Str(KeyShowToolbar)
		switch v {
		case valueTrue:
			p.toolbar = true
			p.surface.Signal(SignalToolbarShow)
		case valueFalse:
			p.toolbar = false
			p.surface.Signal(SignalToolbarHide)
		default:
			p.log.Warn("invalid toolbar value", "component", "relay", "value", v)
		}
	default:
		p.deliverResult(s, d)
	}
}
