package panel

import (
	"fmt"

	"github.com/google/uuid"
)

// launchGridItem starts the application behind grid item i and records the
// launch in the usage history.
func (p *Panel) launchGridItem(i int) error {
	if p.liveState() == Hidden {
		return nil
	}
	items := p.gridSlots()
	if i < 0 || i >= len(items) {
		return fmt.Errorf("%w: grid item %d out of range", ErrInvalidParameter, i)
	}
	s := items[i]
	if p.cfg.Launcher == nil {
		return fmt.Errorf("%w: no launcher for %s", ErrNotInitialized, s.desc.Name)
	}
	req := LaunchRequest{
		ID:            uuid.NewString(),
		Category:      s.desc.Category,
		Target:        s.desc.LaunchTarget,
		Operation:     s.desc.Operation,
		MIME:          s.desc.MIME,
		SelectionMode: s.desc.SelectionMode,
		Mode:          s.desc.Mode,
		Type:          s.desc.Type,
		ItemType:      s.desc.ItemType,
		Max:           s.desc.Max,
		Extra:         s.data.Clone().Merge(Data{KeyCallerTag: String(CallerTag)}),
	}
	if err := p.cfg.Launcher.Launch(req, func(d Data) { p.launchReply(s, req.ID, d) }); err != nil {
		return fmt.Errorf("%w: launch %s: %v", ErrOutOfMemory, s.desc.LaunchTarget, err)
	}
	p.log.Info("app launched", "component", "launch", "category", s.desc.Name, "target", s.desc.LaunchTarget, "request", req.ID)
	if p.cfg.Ranker != nil {
		if err := p.cfg.Ranker.Record(CallerTag, s.desc.LaunchTarget); err != nil {
			p.log.Warn("usage record failed", "component", "ranking", "target", s.desc.LaunchTarget, "err", err)
		}
	}
	return nil
}

func (p *Panel) launchReply(s *slot, id string, d Data) {
	if s.removed || p.life != lifeActive {
		return
	}
	if d == nil {
		p.log.Info("launch cancelled", "component", "launch", "category", s.desc.Name, "request", id)
		return
	}
	p.deliverResult(s, d)
}
