package panel

import (
	"fmt"
	"slices"
	"strings"
)

// GridLabel is the tab label of the shared grid page.
const GridLabel = "More"

type page struct {
	slot *slot // nil for the grid page
}

func (pg *page) grid() bool { return pg.slot == nil }

// PageInfo describes one page of the scroller and its tab.
type PageInfo struct {
	Label    string
	Category Category
	Grid     bool
	Realized bool
}

// Pages returns the pages in scroller order. Tab i selects page i.
func (p *Panel) Pages() []PageInfo {
	out := make([]PageInfo, 0, len(p.pages))
	for _, pg := range p.pages {
		if pg.grid() {
			out = append(out, PageInfo{Label: GridLabel, Grid: true})
			continue
		}
		out = append(out, PageInfo{
			Label:    pg.slot.desc.TabLabel,
			Category: pg.slot.desc.Category,
			Realized: pg.slot.view != nil,
		})
	}
	return out
}

// CurrentPage returns the index of the focused page.
func (p *Panel) CurrentPage() int { return p.current }

// BringToPage focuses page i without animation.
func (p *Panel) BringToPage(i int) error {
	if err := p.checkLive(); err != nil {
		return err
	}
	if i < 0 || i >= len(p.pages) {
		return fmt.Errorf("%w: page %d out of range", ErrInvalidParameter, i)
	}
	if i != p.current {
		p.changePage(i)
	}
	return nil
}

// View returns the realized view of the focused page, if any.
func (p *Panel) View() (EmbeddedView, Category, bool) {
	s := p.focusedSlot()
	if s == nil || s.view == nil {
		return nil, 0, false
	}
	return s.view, s.desc.Category, true
}

// GridItems returns the app categories of the grid page in display order.
func (p *Panel) GridItems() []SlotInfo {
	items := p.gridSlots()
	out := make([]SlotInfo, 0, len(items))
	for _, s := range items {
		out = append(out, s.info())
	}
	return out
}

func (p *Panel) gridSlots() []*slot {
	var items []*slot
	for _, s := range p.slots {
		if !s.embedded() {
			items = append(items, s)
		}
	}
	slices.SortStableFunc(items, func(a, b *slot) int {
		if a.rank != b.rank {
			return a.rank - b.rank
		}
		return strings.Compare(a.desc.LaunchTarget, b.desc.LaunchTarget)
	})
	return items
}

func (p *Panel) gridIndex() int {
	for i, pg := range p.pages {
		if pg.grid() {
			return i
		}
	}
	return -1
}

func (p *Panel) focusedSlot() *slot {
	if p.current < 0 || p.current >= len(p.pages) {
		return nil
	}
	return p.pages[p.current].slot
}

// attachPage gives s a page and returns the page index. App categories share
// the grid page, which is created with the first of them.
func (p *Panel) attachPage(s *slot) int {
	if !s.embedded() {
		if idx := p.gridIndex(); idx >= 0 {
			return idx
		}
		p.pages = append(p.pages, &page{})
		return len(p.pages) - 1
	}
	idx := 0
	for idx < len(p.pages) && !p.pages[idx].grid() {
		idx++
	}
	hadPages := len(p.pages) > 0
	p.pages = slices.Insert(p.pages, idx, &page{slot: s})
	if hadPages && idx <= p.current {
		p.current++
	}
	return idx
}

// detachPage releases the page of s and returns its former index, or -1 when
// the page is still in use.
func (p *Panel) detachPage(s *slot) int {
	idx := -1
	if s.embedded() {
		for i, pg := range p.pages {
			if pg.slot == s {
				idx = i
				break
			}
		}
	} else {
		for _, other := range p.slots {
			if other != s && !other.embedded() {
				return -1
			}
		}
		idx = p.gridIndex()
	}
	if idx < 0 {
		return -1
	}
	p.pages = slices.Delete(p.pages, idx, idx+1)
	switch {
	case idx < p.current:
		p.current--
	case p.current >= len(p.pages):
		p.current = max(len(p.pages)-1, 0)
	}
	return idx
}

func (p *Panel) focusNewPage(idx int) error {
	if idx != p.current {
		return nil
	}
	return p.showFocusedPage()
}

func (p *Panel) changePage(idx int) {
	old := p.focusedSlot()
	p.current = idx
	p.log.Debug("page changed", "component", "paging", "page", idx)
	if old != nil && old.view != nil {
		if err := p.send(old, Data{KeyShowContentCategory: String(valueFalse)}); err != nil {
			p.log.Warn("visibility toggle failed", "component", "paging", "category", old.desc.Name, "err", err)
		}
		// A hidden panel keeps only the focused view.
		if p.liveState() == Hidden && p.anim == nil {
			old.view.Destroy()
			old.view = nil
		}
	}
	if err := p.showFocusedPage(); err != nil {
		p.log.Warn("page view unavailable", "component", "paging", "page", idx, "err", err)
	}
}

// showFocusedPage realizes the focused embedded view and tells it that it is
// on screen. It does nothing while the panel is hidden.
func (p *Panel) showFocusedPage() error {
	s := p.focusedSlot()
	if s == nil || p.liveState() == Hidden {
		return nil
	}
	if err := p.realize(s); err != nil {
		return err
	}
	return p.send(s, Data{
		KeyShowContentCategory: String(valueTrue),
		KeySelectionMode:       String(p.SelectionMode()),
	})
}

func (p *Panel) settle(offset int) {
	if p.width <= 0 || offset < 0 || offset%p.width != 0 {
		return
	}
	idx := offset / p.width
	if idx >= len(p.pages) || idx == p.current {
		return
	}
	p.changePage(idx)
}

func (p *Panel) selectTab(i int) {
	if p.life != lifeActive || p.liveState() == Hidden {
		return
	}
	if i == p.current || i < 0 || i >= len(p.pages) {
		return
	}
	p.changePage(i)
}
