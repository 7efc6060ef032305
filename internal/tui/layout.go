package tui

const (
	// chromeRows covers the header, prompt, status and help lines.
	chromeRows     = 4
	minHistoryRows = 3
	minPanelRows   = 4
	minWidth       = 20
)

type pageLayout struct {
	width     int
	height    int
	panelRows int
}

func newPageLayout() pageLayout {
	return pageLayout{width: 80, height: 24, panelRows: 17}
}

func (l *pageLayout) Update(width, height int) {
	l.width = max(width, minWidth)
	l.height = height
	l.panelRows = max(height-chromeRows-minHistoryRows, minPanelRows)
}

// historyRows is the space left for the conversation above a panel of the
// given height.
func (l pageLayout) historyRows(panelHeight int) int {
	return max(l.height-chromeRows-panelHeight, 1)
}
