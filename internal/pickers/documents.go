package pickers

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/csheth/attachpanel/internal/launcher"
	"github.com/csheth/attachpanel/internal/panel"
)

const inspectWorkers = 4

type document struct {
	path    string
	pages   int
	preview string
	err     error
}

type documentsLoadedMsg struct {
	view int
	docs []document
	err  error
}

// documents lists the PDF files under a directory with their page counts.
type documents struct {
	*base
	dir    string
	docs   []document
	cursor int
	loaded bool
	err    error
}

func newDocuments(b *base, dir string) *documents {
	return &documents{base: b, dir: dir}
}

func (d *documents) Init() tea.Cmd {
	return d.load()
}

func (d *documents) relabel() tea.Cmd {
	d.loaded = false
	return d.load()
}

func (d *documents) load() tea.Cmd {
	id, dir := d.id, d.dir
	return func() tea.Msg {
		data, err := launcher.Scan(dir, panel.LaunchRequest{MIME: "application/pdf", SelectionMode: panel.SelectionMultiple})
		if err != nil {
			return documentsLoadedMsg{view: id, err: err}
		}
		paths := data.Strings(panel.KeySelected)
		docs := make([]document, len(paths))
		var g errgroup.Group
		g.SetLimit(inspectWorkers)
		for i, p := range paths {
			g.Go(func() error {
				docs[i] = inspectPDF(p)
				return nil
			})
		}
		_ = g.Wait()
		return documentsLoadedMsg{view: id, docs: docs}
	}
}

// inspectPDF reads the page count and a short text preview of the first page.
func inspectPDF(path string) (doc document) {
	doc.path = path
	defer func() {
		if r := recover(); r != nil {
			doc.err = fmt.Errorf("unreadable pdf: %v", r)
		}
	}()
	file, reader, err := pdf.Open(path)
	if err != nil {
		doc.err = fmt.Errorf("failed to open pdf: %w", err)
		return doc
	}
	defer file.Close()
	doc.pages = reader.NumPage()
	if doc.pages > 0 {
		if text, err := reader.Page(1).GetPlainText(nil); err == nil {
			doc.preview = strings.Join(strings.Fields(text), " ")
		}
	}
	return doc
}

func (d *documents) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case documentsLoadedMsg:
		if msg.view != d.id {
			return nil
		}
		d.loaded = true
		d.docs, d.err = msg.docs, msg.err
	case tea.KeyMsg:
		if d.paused || d.gone || len(d.docs) == 0 {
			return nil
		}
		switch msg.String() {
		case "up", "k":
			d.cursor = max(d.cursor-1, 0)
			d.setFlick(d.cursor == 0)
		case "down", "j":
			d.cursor = min(d.cursor+1, len(d.docs)-1)
			d.setFlick(d.cursor == 0)
		case "enter":
			doc := d.docs[d.cursor]
			if doc.err != nil {
				return nil
			}
			d.deliver([]string{doc.path})
		}
	}
	return nil
}

func (d *documents) Hint() string { return "enter attach" }

func (d *documents) Render(width, height int) string {
	switch {
	case d.err != nil:
		return fit(errorStyle.Render(d.err.Error()), width, height)
	case !d.loaded:
		return fit(helperStyle.Render("Scanning documents…"), width, height)
	case len(d.docs) == 0:
		return fit(helperStyle.Render("No PDF documents in "+d.dir), width, height)
	}
	start := 0
	if d.cursor >= height {
		start = d.cursor - height + 1
	}
	var rows []string
	for i := start; i < len(d.docs) && len(rows) < height; i++ {
		rows = append(rows, d.row(i))
	}
	return viewportStyle.Render(fit(strings.Join(rows, "\n"), max(width-2, 1), height))
}

func (d *documents) row(i int) string {
	doc := d.docs[i]
	label := filepath.Base(doc.path)
	switch {
	case doc.err != nil:
		label += "  " + errorStyle.Render("unreadable")
	default:
		label += fmt.Sprintf("  %d pages", doc.pages)
		if doc.preview != "" {
			label += "  " + helperStyle.Render(doc.preview)
		}
	}
	if i == d.cursor {
		return cursorStyle.Render(label)
	}
	return itemStyle.Render(label)
}
