package panel

import (
	"errors"
	"testing"
	"time"
)

type animCall struct {
	from, to int
}

type fakeSurface struct {
	width, height int
	rotation      int
	keypad        int

	current int
	anims   []animCall
	pending []func()
	signals []Signal
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{width: 100, height: 200}
}

func (s *fakeSurface) Geometry() (int, int) { return s.width, s.height }
func (s *fakeSurface) Rotation() int        { return s.rotation }
func (s *fakeSurface) KeypadHeight() int    { return s.keypad }
func (s *fakeSurface) SetHeight(h int)      { s.current = h }
func (s *fakeSurface) Signal(sig Signal)    { s.signals = append(s.signals, sig) }

func (s *fakeSurface) AnimateHeight(from, to int, _ time.Duration, done func()) {
	s.anims = append(s.anims, animCall{from: from, to: to})
	s.current = from
	s.pending = append(s.pending, done)
}

// finish completes every animation in flight.
func (s *fakeSurface) finish() {
	pending := s.pending
	s.pending = nil
	for _, done := range pending {
		done()
	}
}

func (s *fakeSurface) rotate(angle int) {
	s.rotation = angle
	if angle == 90 || angle == 270 {
		s.width, s.height = 200, 100
	} else {
		s.width, s.height = 100, 200
	}
}

type fakeView struct {
	category  Category
	sent      []Data
	onResult  func(Data)
	destroyed bool
	paused    int
	resumed   int
	sendErr   error
}

func (v *fakeView) Send(d Data) error {
	if v.sendErr != nil {
		return v.sendErr
	}
	v.sent = append(v.sent, d)
	return nil
}

func (v *fakeView) Destroy() { v.destroyed = true }
func (v *fakeView) Pause()   { v.paused++ }
func (v *fakeView) Resume()  { v.resumed++ }

func (v *fakeView) reply(d Data) { v.onResult(d) }

// lastValue returns the most recent value sent under key.
func (v *fakeView) lastValue(key string) string {
	for i := len(v.sent) - 1; i >= 0; i-- {
		if s, ok := v.sent[i].Str(key); ok {
			return s
		}
	}
	return ""
}

type fakeHost struct {
	views     map[Category]*fakeView
	created   []EmbedRequest
	rotations []int
	language  int
	failNext  error
	onCreate  func()
}

func newFakeHost() *fakeHost {
	return &fakeHost{views: make(map[Category]*fakeView)}
}

func (h *fakeHost) Create(req EmbedRequest) (EmbeddedView, error) {
	if h.onCreate != nil {
		h.onCreate()
	}
	if h.failNext != nil {
		err := h.failNext
		h.failNext = nil
		return nil, err
	}
	h.created = append(h.created, req)
	v := &fakeView{category: req.Descriptor.Category, onResult: req.OnResult}
	h.views[req.Descriptor.Category] = v
	return v, nil
}

func (h *fakeHost) Rotate(angle int) { h.rotations = append(h.rotations, angle) }
func (h *fakeHost) LanguageChanged() { h.language++ }

type fakeLauncher struct {
	requests []LaunchRequest
	replies  []func(Data)
	err      error
}

func (l *fakeLauncher) Launch(req LaunchRequest, reply func(Data)) error {
	if l.err != nil {
		return l.err
	}
	l.requests = append(l.requests, req)
	l.replies = append(l.replies, reply)
	return nil
}

type fakeAuth struct {
	missing    map[string]bool
	featureErr error
	denied     map[string]bool
}

func (a fakeAuth) HasFeature(name string) (bool, error) {
	if a.featureErr != nil {
		return false, a.featureErr
	}
	return !a.missing[name], nil
}

func (a fakeAuth) CheckPrivilege(name string) error {
	if a.denied[name] {
		return errors.New("denied by policy")
	}
	return nil
}

type fakeRanker struct {
	ranked   []string
	err      error
	recorded []string
}

func (r *fakeRanker) Ranked(caller string) ([]string, error) {
	if caller != CallerTag {
		return nil, errors.New("unexpected caller " + caller)
	}
	return r.ranked, r.err
}

func (r *fakeRanker) Record(_, target string) error {
	r.recorded = append(r.recorded, target)
	return nil
}

type fixture struct {
	surface  *fakeSurface
	host     *fakeHost
	launcher *fakeLauncher
	ranker   *fakeRanker
	panel    *Panel
	events   []Event
	results  []recordedResult
}

type recordedResult struct {
	category Category
	result   Result
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		surface:  newFakeSurface(),
		host:     newFakeHost(),
		launcher: &fakeLauncher{},
		ranker:   &fakeRanker{},
	}
	p, err := Create(f.surface, Config{
		Host:     f.host,
		Launcher: f.launcher,
		Ranker:   f.ranker,
	})
	if err != nil {
		t.Fatalf("create panel: %v", err)
	}
	f.panel = p
	if err := p.SetEventFunc(func(_ *Panel, e Event) { f.events = append(f.events, e) }); err != nil {
		t.Fatalf("set event func: %v", err)
	}
	if err := p.SetResultFunc(func(_ *Panel, c Category, r Result) {
		f.results = append(f.results, recordedResult{category: c, result: r})
	}); err != nil {
		t.Fatalf("set result func: %v", err)
	}
	return f
}

func (f *fixture) add(t *testing.T, cats ...Category) {
	t.Helper()
	for _, c := range cats {
		if err := f.panel.AddCategory(c, nil); err != nil {
			t.Fatalf("add %s: %v", c, err)
		}
	}
}

// show shows the panel and completes the animation.
func (f *fixture) show(t *testing.T) {
	t.Helper()
	if err := f.panel.Show(); err != nil {
		t.Fatalf("show: %v", err)
	}
	f.surface.finish()
}

func (f *fixture) handle(t *testing.T, in Input) {
	t.Helper()
	if err := f.panel.Handle(in); err != nil {
		t.Fatalf("handle %T: %v", in, err)
	}
}

func (f *fixture) takeEvents() []Event {
	events := f.events
	f.events = nil
	return events
}

func equalEvents(a, b []Event) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
