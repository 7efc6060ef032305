package panel

// refreshRanking reorders the grid page from usage history. Embedded
// categories keep rank 0 and always precede app categories.
func (p *Panel) refreshRanking() {
	ranker := p.cfg.Ranker
	if ranker == nil {
		return
	}
	targets, err := ranker.Ranked(CallerTag)
	if err != nil {
		p.log.Warn("usage ranking unavailable", "component", "ranking", "err", err)
		return
	}
	byTarget := make(map[string]*slot)
	for _, s := range p.slots {
		if s.embedded() {
			s.rank = 0
			continue
		}
		s.rank = rankLast
		byTarget[s.desc.LaunchTarget] = s
	}
	rank := 1
	for _, target := range targets {
		s, ok := byTarget[target]
		if !ok {
			continue
		}
		s.rank = rank
		rank++
		delete(byTarget, target)
	}
	p.log.Debug("grid ranked", "component", "ranking", "ranked", rank-1)
}
