package pickers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/csheth/attachpanel/internal/launcher"
	"github.com/csheth/attachpanel/internal/panel"
)

type galleryLoadedMsg struct {
	view  int
	items []string
	err   error
}

type galleryChangedMsg struct {
	view int
}

// gallery lists the images under a media directory, newest first.
type gallery struct {
	*base
	dir    string
	items  []string
	cursor int
	picked map[string]bool
	pager  paginator.Model
	loaded bool
	err    error

	watching bool
	stop     chan struct{}
}

func newGallery(b *base, dir string) *gallery {
	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.PerPage = 8
	return &gallery{base: b, dir: dir, picked: make(map[string]bool), pager: pager, stop: make(chan struct{})}
}

func (g *gallery) Init() tea.Cmd {
	return g.load()
}

func (g *gallery) relabel() tea.Cmd {
	g.loaded = false
	return g.load()
}

func (g *gallery) load() tea.Cmd {
	id, dir := g.id, g.dir
	return func() tea.Msg {
		data, err := launcher.Scan(dir, panel.LaunchRequest{MIME: "image/*", SelectionMode: panel.SelectionMultiple})
		return galleryLoadedMsg{view: id, items: data.Strings(panel.KeySelected), err: err}
	}
}

func (g *gallery) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case galleryLoadedMsg:
		if msg.view != g.id {
			return nil
		}
		g.loaded = true
		g.items, g.err = msg.items, msg.err
		g.pager.SetTotalPages(len(g.items))
		g.cursor = min(g.cursor, max(len(g.items)-1, 0))
		if g.err == nil {
			return g.watch()
		}
	case galleryChangedMsg:
		if msg.view != g.id || g.gone {
			return nil
		}
		g.watching = false
		g.log.Debug("media dir changed", "dir", g.dir)
		return g.load()
	case tea.KeyMsg:
		if g.paused || g.gone {
			return nil
		}
		g.handleKey(msg.String())
	}
	return nil
}

// watch waits for the next change under the media directory. One watch is
// armed at a time; the reload it triggers arms the next.
func (g *gallery) watch() tea.Cmd {
	if g.watching || g.gone {
		return nil
	}
	g.watching = true
	id, dir, stop := g.id, g.dir, g.stop
	return func() tea.Msg {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil
		}
		defer watcher.Close()
		if err := watcher.Add(dir); err != nil {
			return nil
		}
		for {
			select {
			case <-stop:
				return nil
			case evt, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					return galleryChangedMsg{view: id}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (g *gallery) Destroy() {
	if !g.gone {
		close(g.stop)
	}
	g.base.Destroy()
}

func (g *gallery) handleKey(key string) {
	switch key {
	case "up", "k":
		g.move(-1)
	case "down", "j":
		g.move(1)
	case " ":
		g.toggle()
	case "enter":
		g.submit()
	}
}

func (g *gallery) move(delta int) {
	if len(g.items) == 0 {
		return
	}
	g.cursor = min(max(g.cursor+delta, 0), len(g.items)-1)
	g.pager.Page = g.cursor / g.pager.PerPage
	// Scrolled content owns downward drags until it is back at the top.
	g.setFlick(g.cursor == 0)
}

func (g *gallery) toggle() {
	if len(g.items) == 0 {
		return
	}
	if !g.multiple() {
		g.requestFull()
		return
	}
	item := g.items[g.cursor]
	if g.picked[item] {
		delete(g.picked, item)
	} else {
		if limit := g.limit(); limit > 0 && len(g.picked) >= limit {
			return
		}
		g.picked[item] = true
	}
	g.setToolbar(len(g.picked) == 0)
}

func (g *gallery) submit() {
	if len(g.items) == 0 {
		return
	}
	var out []string
	for _, item := range g.items {
		if g.picked[item] {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		out = []string{g.items[g.cursor]}
	}
	g.picked = make(map[string]bool)
	g.setToolbar(true)
	g.deliver(out)
}

func (g *gallery) Hint() string {
	if g.multiple() {
		return "space toggle • enter attach"
	}
	return "enter attach • space multi-select"
}

func (g *gallery) Render(width, height int) string {
	switch {
	case g.err != nil:
		return fit(errorStyle.Render(g.err.Error()), width, height)
	case !g.loaded:
		return fit(helperStyle.Render("Loading images…"), width, height)
	case len(g.items) == 0:
		return fit(helperStyle.Render("No images in "+g.dir), width, height)
	}
	per := max(height-1, 1)
	if g.host.Landscape() {
		per *= 2
	}
	if per != g.pager.PerPage {
		g.pager.PerPage = per
		g.pager.SetTotalPages(len(g.items))
		g.pager.Page = g.cursor / per
	}
	start, end := g.pager.GetSliceBounds(len(g.items))
	var rows []string
	for i := start; i < end; i++ {
		rows = append(rows, g.row(i))
	}
	if g.host.Landscape() {
		rows = twoColumns(rows, width/2)
	}
	rows = append(rows, g.footer())
	return viewportStyle.Render(fit(strings.Join(rows, "\n"), max(width-2, 1), height))
}

func (g *gallery) row(i int) string {
	item := g.items[i]
	mark := "  "
	if g.picked[item] {
		mark = pickedStyle.Render("✓ ")
	}
	label := mark + filepath.Base(item)
	if i == g.cursor {
		return cursorStyle.Render(label)
	}
	return itemStyle.Render(label)
}

func (g *gallery) footer() string {
	status := fmt.Sprintf("%d images", len(g.items))
	if n := len(g.picked); n > 0 {
		status = fmt.Sprintf("%d of %d selected", n, len(g.items))
	}
	if g.pager.TotalPages > 1 {
		status += "  " + g.pager.View()
	}
	return helperStyle.Render(status)
}

func twoColumns(rows []string, width int) []string {
	half := (len(rows) + 1) / 2
	out := make([]string, 0, half)
	for i := 0; i < half; i++ {
		left := fit(rows[i], width, 1)
		if j := i + half; j < len(rows) {
			out = append(out, left+" "+rows[j])
		} else {
			out = append(out, left)
		}
	}
	return out
}
