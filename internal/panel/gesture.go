package panel

// fire applies trigger t to the live axis through the transition table.
func (p *Panel) fire(t trigger) {
	axis := p.Orientation()
	from := p.liveState()
	to, ok := nextState(axis, from, t)
	if !ok {
		p.log.Debug("transition ignored", "component", "gesture", "axis", axis, "state", from, "trigger", t)
		return
	}
	if to != Hidden && p.life != lifeActive {
		return
	}
	p.log.Debug("transition", "component", "gesture", "axis", axis, "from", from, "to", to, "trigger", t)
	switch {
	case from == Hidden:
		p.enterShown(to)
	case to == Hidden:
		p.enterHidden(from)
	case to == Full:
		p.expand()
	default:
		p.collapse()
	}
}

func (p *Panel) enterShown(to State) {
	p.computeSize()
	p.setLiveState(to)
	if err := p.showFocusedPage(); err != nil {
		p.log.Warn("page view unavailable", "component", "gesture", "err", err)
	}
	p.resumeViews()
	p.broadcast(Data{KeyInitialize: String(valueEnable)})
	p.broadcast(Data{KeySelectionMode: String(p.SelectionMode())})
	if to == Full {
		p.surface.Signal(SignalFull)
	} else {
		p.surface.Signal(SignalHalf)
	}
	p.gridAtTop = true

	if p.anim != nil && !p.anim.show {
		// A hide animation is still running: finish it logically and let its
		// completion settle the height.
		p.anim.show = true
		p.emit(HideFinish)
		p.emit(ShowStart)
	} else {
		p.emit(ShowStart)
		if p.liveState() != to {
			return
		}
		p.startAnimation(true, 0, p.heightFor(to))
	}
	p.refreshRanking()
}

func (p *Panel) enterHidden(from State) {
	for _, s := range p.slots {
		s.flick = true
	}
	p.pauseViews()
	p.setLiveState(Hidden)
	p.dragging = false

	if p.anim != nil && p.anim.show {
		p.anim.show = false
		p.emit(ShowFinish)
		p.emit(HideStart)
		return
	}
	p.emit(HideStart)
	if p.liveState() != Hidden {
		return
	}
	p.startAnimation(false, p.heightFor(from), 0)
}

func (p *Panel) expand() {
	p.setLiveState(Full)
	p.broadcast(Data{KeySelectionMode: String(SelectionMultiple)})
	if p.anim == nil {
		p.surface.SetHeight(p.fullHeight)
	}
	p.surface.Signal(SignalFull)
}

func (p *Panel) collapse() {
	p.setLiveState(Half)
	p.broadcast(Data{KeySelectionMode: String(SelectionSingle)})
	if p.anim == nil {
		p.surface.SetHeight(p.halfHeight)
	}
	p.surface.Signal(SignalHalf)
}

func (p *Panel) startAnimation(show bool, from, to int) {
	a := &animation{show: show}
	p.anim = a
	p.surface.AnimateHeight(from, to, p.cfg.AnimationDuration, func() {
		p.animationDone(a)
	})
}

func (p *Panel) animationDone(a *animation) {
	if p.anim != a || p.life == lifeDestroyed {
		return
	}
	p.anim = nil
	st := p.liveState()
	p.surface.SetHeight(p.heightFor(st))
	if st != Hidden {
		if p.lastEvent == ShowStart {
			p.emit(ShowFinish)
		}
		return
	}
	if p.lastEvent == HideStart {
		p.emit(HideFinish)
	}
	p.releaseBackgroundViews()
	if p.life == lifeDestroying {
		p.teardown()
	}
}

func (p *Panel) flick(ev Flick) {
	if p.life != lifeActive || p.dragging || p.anim != nil {
		return
	}
	if abs(ev.DY) <= abs(ev.DX) {
		return
	}
	if !p.pageAllowsFlick() {
		p.log.Debug("flick blocked by page", "component", "gesture", "page", p.current)
		return
	}
	if ev.DY < 0 {
		p.fire(triggerFlickUp)
	} else {
		p.fire(triggerFlickDown)
	}
}

func (p *Panel) pageAllowsFlick() bool {
	if p.current < 0 || p.current >= len(p.pages) {
		return true
	}
	pg := p.pages[p.current]
	if pg.grid() {
		return p.liveState() != Full || p.gridAtTop
	}
	return pg.slot.flick
}

// rotate moves the panel to the axis of the surface's current rotation. A
// hidden panel stays hidden; a shown panel is always full in landscape and
// returns to its previous portrait state when rotated back.
func (p *Panel) rotate() {
	angle := p.surface.Rotation()
	oldAxis := p.Orientation()
	p.rotation = angle
	axis := p.Orientation()
	p.computeSize()
	if p.cfg.Host != nil {
		p.cfg.Host.Rotate(angle)
	}
	if axis != oldAxis {
		if axis == Landscape {
			switch p.portrait {
			case Hidden:
				p.landscape = Hidden
			case Half:
				p.landscape = Full
				p.broadcast(Data{KeySelectionMode: String(SelectionMultiple)})
				p.surface.Signal(SignalFull)
			default:
				p.landscape = Full
			}
		} else {
			switch {
			case p.landscape == Hidden:
				p.portrait = Hidden
			case p.portrait == Half:
				p.broadcast(Data{KeySelectionMode: String(SelectionSingle)})
				p.surface.Signal(SignalHalf)
			default:
				p.portrait = Full
			}
		}
		p.log.Debug("rotated", "component", "gesture", "angle", angle, "axis", axis, "state", p.liveState())
	}
	if p.anim == nil {
		p.surface.SetHeight(p.heightFor(p.liveState()))
	}
}

func (p *Panel) broadcast(d Data) {
	for _, s := range p.slots {
		if s.view == nil {
			continue
		}
		if err := p.send(s, d); err != nil {
			p.log.Warn("broadcast failed", "component", "relay", "category", s.desc.Name, "err", err)
		}
	}
}

func (p *Panel) pauseViews() {
	for _, s := range p.slots {
		if pv, ok := s.view.(Pauser); ok {
			pv.Pause()
		}
	}
}

func (p *Panel) resumeViews() {
	for _, s := range p.slots {
		if pv, ok := s.view.(Pauser); ok {
			pv.Resume()
		}
	}
}

// releaseBackgroundViews drops every realized view except the focused one.
func (p *Panel) releaseBackgroundViews() {
	focused := p.focusedSlot()
	for _, s := range p.slots {
		if s == focused || s.view == nil {
			continue
		}
		s.view.Destroy()
		s.view = nil
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
