package pickers

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/attachpanel/internal/config"
	"github.com/csheth/attachpanel/internal/panel"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keySpace = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
)

type harness struct {
	host    *Host
	clock   time.Time
	results []panel.Data
}

func newHarness(t *testing.T, cfg config.PickerConfig) *harness {
	t.Helper()
	h := &harness{clock: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)}
	h.host = NewHost(Options{Config: cfg, Now: func() time.Time { return h.clock }})
	return h
}

func (h *harness) create(t *testing.T, c panel.Category, data panel.Data) View {
	t.Helper()
	desc, ok := panel.Describe(c)
	if !ok {
		t.Fatalf("no descriptor for %v", c)
	}
	v, err := h.host.Create(panel.EmbedRequest{
		Descriptor: desc,
		Data:       data,
		OnResult:   func(d panel.Data) { h.results = append(h.results, d) },
	})
	if err != nil {
		t.Fatalf("create %s: %v", desc.Name, err)
	}
	return v.(View)
}

// load runs the view's Init command and feeds its message back.
func load(t *testing.T, v View) {
	t.Helper()
	cmd := v.Init()
	if cmd == nil {
		t.Fatal("expected an init command")
	}
	v.Update(cmd())
}

// run feeds msg to v and resolves one level of returned command.
func run(v View, msg tea.Msg) {
	if cmd := v.Update(msg); cmd != nil {
		if next := cmd(); next != nil {
			v.Update(next)
		}
	}
}

func touch(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	mod := time.Now().Add(-age)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return path
}

func selected(t *testing.T, d panel.Data) []string {
	t.Helper()
	if !d.Has(panel.KeySelected) {
		t.Fatalf("expected a selection, got %#v", d)
	}
	return d.Strings(panel.KeySelected)
}

func TestHostCreatesEmbeddedPickers(t *testing.T) {
	h := newHarness(t, config.PickerConfig{MediaDir: t.TempDir(), DocumentDir: t.TempDir(), CaptureDir: t.TempDir()})
	for _, c := range []panel.Category{panel.CategoryImage, panel.CategoryCamera, panel.CategoryVoice, panel.CategoryDocument} {
		h.create(t, c, nil)
	}
	if got := h.host.Live(); got != 4 {
		t.Fatalf("live views = %d, want 4", got)
	}
	if h.host.TakeCmds() == nil {
		t.Fatal("gallery and documents should queue load commands")
	}
	if h.host.TakeCmds() != nil {
		t.Fatal("queued commands should be drained")
	}

	desc, _ := panel.Describe(panel.CategoryContact)
	if _, err := h.host.Create(panel.EmbedRequest{Descriptor: desc}); err == nil {
		t.Fatal("contact has no embedded picker")
	}
}

func TestLanguageChangeReloadsListings(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", 0)
	h := newHarness(t, config.PickerConfig{MediaDir: dir, CaptureDir: t.TempDir()})
	v := h.create(t, panel.CategoryImage, nil)
	h.create(t, panel.CategoryCamera, nil)
	load(t, v)
	h.host.TakeCmds()

	touch(t, dir, "b.png", 0)
	h.host.LanguageChanged()
	g := v.(*gallery)
	if g.loaded {
		t.Fatal("gallery should be reloading")
	}
	cmd := h.host.TakeCmds()
	if cmd == nil {
		t.Fatal("expected a reload command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		msg = batch[0]()
	}
	v.Update(msg)
	if !g.loaded || len(g.items) != 2 {
		t.Fatalf("loaded = %v items = %v", g.loaded, g.items)
	}

	v.Destroy()
	h.host.LanguageChanged()
	if h.host.TakeCmds() != nil {
		t.Fatal("released view reloaded")
	}
}

func TestHostPrunesReleasedViews(t *testing.T) {
	h := newHarness(t, config.PickerConfig{CaptureDir: t.TempDir()})
	v := h.create(t, panel.CategoryCamera, nil)
	v.Destroy()
	if err := v.Send(panel.Data{panel.KeyInitialize: panel.String("enable")}); err == nil {
		t.Fatal("send after destroy should fail")
	}
	h.host.Update(keyEnter)
	if got := h.host.Live(); got != 0 {
		t.Fatalf("live views = %d, want 0", got)
	}
	if len(h.results) != 0 {
		t.Fatalf("released view emitted %v", h.results)
	}
}

func TestBaseTracksProtocolKeys(t *testing.T) {
	h := newHarness(t, config.PickerConfig{CaptureDir: t.TempDir()})
	v := h.create(t, panel.CategoryCamera, panel.Data{panel.KeySelectionMode: panel.String(panel.SelectionMultiple)})
	cam := v.(*camera)
	if !cam.multiple() {
		t.Fatal("selection mode from create data not applied")
	}
	_ = v.Send(panel.Data{
		panel.KeyInitialize:          panel.String("enable"),
		panel.KeyShowContentCategory: panel.String("true"),
		panel.KeySelectionMode:       panel.String(panel.SelectionSingle),
	})
	if !cam.ready || !cam.Visible() || cam.Mode() != panel.SelectionSingle {
		t.Fatalf("ready=%v visible=%v mode=%q", cam.ready, cam.Visible(), cam.Mode())
	}
	_ = v.Send(panel.Data{panel.KeyShowContentCategory: panel.String("false")})
	if cam.Visible() {
		t.Fatal("view should be hidden after SHOW_CONTENT_CATEGORY false")
	}
}

func TestGalleryListsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "old.png", 2*time.Hour)
	recent := touch(t, dir, "new.jpg", time.Minute)
	touch(t, dir, "notes.txt", 0)

	h := newHarness(t, config.PickerConfig{MediaDir: dir})
	v := h.create(t, panel.CategoryImage, nil)
	load(t, v)
	g := v.(*gallery)
	if len(g.items) != 2 || g.items[0] != recent {
		t.Fatalf("items = %v", g.items)
	}

	v.Update(keyEnter)
	if len(h.results) != 1 {
		t.Fatalf("expected one result, got %d", len(h.results))
	}
	if got := selected(t, h.results[0]); len(got) != 1 || got[0] != recent {
		t.Fatalf("selected = %v", got)
	}
}

func TestGalleryFlickFollowsScrollPosition(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", time.Hour)
	touch(t, dir, "b.png", time.Minute)

	h := newHarness(t, config.PickerConfig{MediaDir: dir})
	v := h.create(t, panel.CategoryImage, nil)
	load(t, v)

	v.Update(keyDown)
	v.Update(keyDown)
	v.Update(keyUp)
	if len(h.results) != 2 {
		t.Fatalf("expected two flick requests, got %v", h.results)
	}
	for i, want := range []string{"disable", "enable"} {
		if got, _ := h.results[i].Str(panel.KeyFlickDown); got != want {
			t.Fatalf("flick request %d = %q, want %q", i, got, want)
		}
	}
}

func TestGallerySingleModeSpaceRequestsFull(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", 0)

	h := newHarness(t, config.PickerConfig{MediaDir: dir})
	v := h.create(t, panel.CategoryImage, nil)
	load(t, v)
	v.Update(keySpace)
	if len(h.results) != 1 {
		t.Fatalf("expected a full mode request, got %v", h.results)
	}
	if got, _ := h.results[0].Str(panel.KeyFullMode); got != "enable" {
		t.Fatalf("FULL_MODE = %q", got)
	}
}

func TestGalleryMultipleSelectionHonoursTotalCount(t *testing.T) {
	dir := t.TempDir()
	first := touch(t, dir, "a.png", time.Minute)
	second := touch(t, dir, "b.png", time.Hour)
	touch(t, dir, "c.png", 2*time.Hour)

	h := newHarness(t, config.PickerConfig{MediaDir: dir})
	v := h.create(t, panel.CategoryImage, panel.Data{
		panel.KeySelectionMode: panel.String(panel.SelectionMultiple),
		KeyTotalCount:          panel.String("2"),
	})
	load(t, v)

	v.Update(keySpace)
	v.Update(keyDown)
	v.Update(keySpace)
	v.Update(keyDown)
	v.Update(keySpace)
	v.Update(keyEnter)

	var toolbar []string
	var picked []string
	for _, d := range h.results {
		if s, ok := d.Str(panel.KeyShowToolbar); ok {
			toolbar = append(toolbar, s)
		}
		if d.Has(panel.KeySelected) {
			picked = d.Strings(panel.KeySelected)
		}
	}
	if strings.Join(toolbar, ",") != "false,true" {
		t.Fatalf("toolbar requests = %v", toolbar)
	}
	if len(picked) != 2 || picked[0] != first || picked[1] != second {
		t.Fatalf("picked = %v", picked)
	}
}

func TestGalleryIgnoresKeysWhilePaused(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", 0)

	h := newHarness(t, config.PickerConfig{MediaDir: dir})
	v := h.create(t, panel.CategoryImage, nil)
	load(t, v)
	v.(panel.Pauser).Pause()
	v.Update(keyEnter)
	if len(h.results) != 0 {
		t.Fatalf("paused view emitted %v", h.results)
	}
	v.(panel.Pauser).Resume()
	v.Update(keyEnter)
	if len(h.results) != 1 {
		t.Fatalf("resumed view should deliver, got %v", h.results)
	}
}

func TestGalleryReloadsWhenMediaDirChanges(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", time.Hour)

	h := newHarness(t, config.PickerConfig{MediaDir: dir})
	v := h.create(t, panel.CategoryImage, nil)
	watch := v.Update(v.Init()())
	if watch == nil {
		t.Fatal("expected a watch command after loading")
	}
	changed := make(chan tea.Msg, 1)
	go func() { changed <- watch() }()

	// The watcher registers asynchronously; keep touching until it reports.
	var msg tea.Msg
	deadline := time.After(5 * time.Second)
	for i := 0; msg == nil; i++ {
		touch(t, dir, fmt.Sprintf("new%d.png", i), 0)
		select {
		case msg = <-changed:
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
	if _, ok := msg.(galleryChangedMsg); !ok {
		t.Fatalf("watch returned %T", msg)
	}
	reload := v.Update(msg)
	if reload == nil {
		t.Fatal("expected a reload command")
	}
	v.Update(reload())
	if got := len(v.(*gallery).items); got < 2 {
		t.Fatalf("items after reload = %d", got)
	}
}

func TestGalleryDestroyStopsWatch(t *testing.T) {
	h := newHarness(t, config.PickerConfig{MediaDir: t.TempDir()})
	v := h.create(t, panel.CategoryImage, nil)
	watch := v.Update(v.Init()())
	if watch == nil {
		t.Fatal("expected a watch command after loading")
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- watch() }()
	v.Destroy()
	select {
	case msg := <-done:
		if msg != nil {
			t.Fatalf("stopped watch returned %T", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch still running after destroy")
	}
}

func TestDocumentsMarksUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "broken.pdf", 0)
	touch(t, dir, "image.png", 0)

	h := newHarness(t, config.PickerConfig{DocumentDir: dir})
	v := h.create(t, panel.CategoryDocument, nil)
	load(t, v)
	d := v.(*documents)
	if len(d.docs) != 1 {
		t.Fatalf("docs = %v", d.docs)
	}
	if d.docs[0].err == nil {
		t.Fatal("broken pdf should carry an error")
	}
	v.Update(keyEnter)
	if len(h.results) != 0 {
		t.Fatalf("unreadable document delivered: %v", h.results)
	}
	if out := v.Render(60, 3); !strings.Contains(out, "unreadable") {
		t.Fatalf("render missing unreadable marker:\n%s", out)
	}
}

func TestCameraWritesFrame(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t, config.PickerConfig{CaptureDir: dir})
	v := h.create(t, panel.CategoryCamera, nil)

	run(v, keyEnter)
	if len(h.results) != 1 {
		t.Fatalf("expected one capture, got %v", h.results)
	}
	got := selected(t, h.results[0])
	want := filepath.Join(dir, "IMG_20240501_093000.png")
	if len(got) != 1 || got[0] != want {
		t.Fatalf("selected = %v, want %s", got, want)
	}
	f, err := os.Open(want)
	if err != nil {
		t.Fatalf("open capture: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode capture: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Fatalf("frame bounds = %v", b)
	}
}

func TestRecorderWritesWaveOfRecordedLength(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t, config.PickerConfig{CaptureDir: dir})
	v := h.create(t, panel.CategoryVoice, nil)

	if cmd := v.Update(keyEnter); cmd == nil {
		t.Fatal("starting a recording should tick the spinner")
	}
	if !strings.Contains(v.Render(40, 1), "Recording") {
		t.Fatal("render should show the recording state")
	}
	h.clock = h.clock.Add(2 * time.Second)
	run(v, keyEnter)

	var path string
	for _, d := range h.results {
		if d.Has(panel.KeySelected) {
			path = d.Strings(panel.KeySelected)[0]
		}
	}
	if filepath.Base(path) != "VOICE_20240501_093002.wav" {
		t.Fatalf("recording path = %q", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat recording: %v", err)
	}
	if want := int64(44 + 2*sampleRate*2); info.Size() != want {
		t.Fatalf("recording size = %d, want %d", info.Size(), want)
	}
}

func TestRecorderPauseDiscardsRecording(t *testing.T) {
	h := newHarness(t, config.PickerConfig{CaptureDir: t.TempDir()})
	v := h.create(t, panel.CategoryVoice, nil)

	v.Update(keyEnter)
	v.(panel.Pauser).Pause()
	rec := v.(*recorder)
	if rec.recording {
		t.Fatal("pause should stop the recording")
	}
	var flicks []string
	for _, d := range h.results {
		if s, ok := d.Str(panel.KeyFlickDown); ok {
			flicks = append(flicks, s)
		}
		if d.Has(panel.KeySelected) {
			t.Fatalf("discarded recording delivered: %v", d)
		}
	}
	if strings.Join(flicks, ",") != "disable,enable" {
		t.Fatalf("flick requests = %v", flicks)
	}
}

func TestFitPadsAndTruncates(t *testing.T) {
	out := fit("abcdefgh\nxy\nthird", 4, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "abc…" || lines[1] != "xy" {
		t.Fatalf("lines = %q", lines)
	}
	if got := strings.Count(fit("one", 10, 3), "\n"); got != 2 {
		t.Fatalf("padded block has %d newlines", got)
	}
}
