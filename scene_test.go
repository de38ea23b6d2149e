package evergreen

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

// newTestScene returns a small deterministic scene.
func newTestScene() *Scene {
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.ParticleCount = 2000
	cfg.SnowCount = 100
	return NewScene(cfg)
}

type recordingSink struct {
	events []TransitionEvent
}

func (r *recordingSink) EmitEvent(ev TransitionEvent) {
	r.events = append(r.events, ev)
}

var discard = SurfaceFunc(func(*Frame) {})

func TestNewSceneInitialState(t *testing.T) {
	s := newTestScene()
	if s.Mode() != ModeScatter || s.Selected() != nil || s.Progress() != 0 {
		t.Errorf("initial = %v/%v/%v, want SCATTER/nil/0", s.Mode(), s.Selected(), s.Progress())
	}
	if s.Targets().Len() != 2000 || s.Snow().Len() != 100 {
		t.Errorf("counts = %d/%d, want 2000/100", s.Targets().Len(), s.Snow().Len())
	}
	if s.Camera().Viewport.Width != defaultViewportW {
		t.Errorf("viewport width = %v, want %d", s.Camera().Viewport.Width, defaultViewportW)
	}
}

func TestNewSceneSameSeedSameLayout(t *testing.T) {
	a, b := newTestScene(), newTestScene()
	for i := range a.Targets().Tree {
		if a.Targets().Tree[i] != b.Targets().Tree[i] {
			t.Fatalf("Tree[%d] differs for the same seed", i)
		}
	}
}

// Scenario: FIST then 1/speed seconds lands exactly on the tree.
func TestSceneFistAssemblesTree(t *testing.T) {
	s := newTestScene()
	s.InjectGesture("Closed_Fist")

	dt := 1.0 / 60
	frames := int(math.Ceil(1/s.Config().MorphSpeed/dt)) + 5
	for i := 0; i < frames; i++ {
		s.Tick(dt, discard)
	}

	if s.Mode() != ModeTree {
		t.Fatalf("Mode = %v, want TREE", s.Mode())
	}
	if s.Progress() != 1 {
		t.Fatalf("Progress = %v, want 1", s.Progress())
	}
	for i, v := range s.Morph().Positions {
		if v != s.Targets().Tree[i] {
			t.Fatalf("Positions[%d] = %v, want tree %v", i, v, s.Targets().Tree[i])
		}
	}
}

// Scenario: PINCH selects the photo nearest the viewpoint.
func TestScenePinchSelectsNearest(t *testing.T) {
	s := newTestScene()
	vp := s.Camera().Position
	for i, d := range []float64{5, 2, 8, 3} {
		p := NewPhoto(string(rune('a'+i)), nil, 1, 1.3)
		p.Position = vp.Add(r3.Vector{Z: -d})
		s.AddPhoto(p)
	}
	sink := &recordingSink{}
	s.AddEventSink(sink)

	s.InjectGesture("Pinch")
	s.Tick(1.0/60, discard)

	if s.Mode() != ModeFocus {
		t.Fatalf("Mode = %v, want FOCUS", s.Mode())
	}
	if sel := s.Selected(); sel != s.Photos()[1] {
		t.Fatalf("Selected = %v, want the photo at distance 2", sel)
	}
	if len(sink.events) != 1 || sink.events[0].PhotoName != "b" || sink.events[0].PhotoID != 2 {
		t.Errorf("events = %+v, want one focus event for b", sink.events)
	}
}

// Scenario: PINCH with no photos changes nothing.
func TestScenePinchWithoutPhotos(t *testing.T) {
	s := newTestScene()
	sink := &recordingSink{}
	s.AddEventSink(sink)

	s.InjectGesture("Pinch")
	s.Tick(1.0/60, discard)

	if s.Mode() != ModeScatter || s.Selected() != nil {
		t.Errorf("state = %v/%v, want SCATTER/nil", s.Mode(), s.Selected())
	}
	if len(sink.events) != 0 {
		t.Errorf("events = %+v, want none", sink.events)
	}
}

func TestSceneHeldGestureFiresOnce(t *testing.T) {
	s := newTestScene()
	sink := &recordingSink{}
	s.AddEventSink(sink)

	s.InjectHold("Closed_Fist", 10)
	for i := 0; i < 10; i++ {
		s.Update(1.0 / 60)
	}
	if len(sink.events) != 1 {
		t.Fatalf("events = %d, want 1 for a held fist", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Gesture != GestureFist || ev.From != ModeScatter || ev.To != ModeTree {
		t.Errorf("event = %+v", ev)
	}
}

func TestSceneDispatchFiltersRepeats(t *testing.T) {
	s := newTestScene()
	if _, ok := s.Dispatch(GestureFist); !ok {
		t.Fatal("first FIST should pass the edge filter")
	}
	tr, ok := s.Dispatch(GestureFist)
	if ok || tr.Changed || tr.To != ModeTree {
		t.Errorf("repeated FIST = %+v, %v", tr, ok)
	}
	if _, ok := s.Dispatch(GestureNone); ok {
		t.Error("NONE should never pass")
	}
}

func TestSceneRecognizerDrivesMode(t *testing.T) {
	s := newTestScene()
	rec := &fakeRecognizer{hands: [][]Category{hand("Open_Palm")}}
	s.SetRecognizer(rec, AlwaysReady())

	rec.hands = [][]Category{hand("Closed_Fist")}
	s.Update(1.0 / 60)
	if s.Mode() != ModeTree {
		t.Fatalf("Mode = %v, want TREE", s.Mode())
	}
	rec.hands = nil
	s.Update(1.0 / 60)
	if s.Mode() != ModeTree {
		t.Errorf("Mode = %v, want TREE to persist without a hand", s.Mode())
	}
	rec.hands = [][]Category{hand("Open_Palm")}
	s.Update(1.0 / 60)
	if s.Mode() != ModeScatter {
		t.Errorf("Mode = %v, want SCATTER", s.Mode())
	}
}

func TestSceneInjectionBeatsRecognizer(t *testing.T) {
	s := newTestScene()
	rec := &fakeRecognizer{hands: [][]Category{hand("Open_Palm")}}
	s.SetRecognizer(rec, AlwaysReady())
	s.InjectGesture("Closed_Fist")
	s.Update(1.0 / 60)
	if s.Mode() != ModeTree || rec.calls != 0 {
		t.Errorf("mode = %v, recognizer calls = %d; want TREE and 0", s.Mode(), rec.calls)
	}
}

func TestSceneSnowRunsInEveryMode(t *testing.T) {
	s := newTestScene()
	for _, g := range []string{"Closed_Fist", "Open_Palm"} {
		before := s.Snow().Positions[1]
		s.InjectGesture(g)
		s.Update(0.1)
		if s.Snow().Positions[1] == before {
			t.Errorf("%s: snow did not move", g)
		}
	}
}

func TestSceneOpacityInvariant(t *testing.T) {
	s := newTestScene()
	s.SpawnPhotos(make([]Asset, 6))
	script := []string{"Pinch", "", "", "Closed_Fist", "Pinch", "Open_Palm", "Pinch"}
	for _, name := range script {
		if name != "" {
			s.InjectGesture(name)
		}
		s.Update(1.0 / 60)
		for _, p := range s.Photos() {
			want := 1.0
			if s.Mode() == ModeFocus && p != s.Selected() {
				want = s.Config().DimOpacity
			}
			if p.Opacity != want {
				t.Fatalf("after %q: photo %d opacity = %v, want %v (mode %v)", name, p.ID, p.Opacity, want, s.Mode())
			}
		}
	}
}

func TestSceneDimsWithOutOfRangeDimOpacity(t *testing.T) {
	for _, dim := range []float64{1, 1.5, -0.2} {
		cfg := DefaultConfig()
		cfg.Seed = 1
		cfg.ParticleCount = 100
		cfg.SnowCount = 10
		cfg.DimOpacity = dim
		s := NewScene(cfg)
		s.SpawnPhotos(make([]Asset, 3))
		s.InjectGesture("Pinch")
		s.Update(1.0 / 60)
		if s.Mode() != ModeFocus {
			t.Fatalf("mode = %v, want FOCUS", s.Mode())
		}
		for _, p := range s.Photos() {
			if p != s.Selected() && !(p.Opacity < s.Selected().Opacity) {
				t.Errorf("DimOpacity %v: unselected opacity %v not below selected %v", dim, p.Opacity, s.Selected().Opacity)
			}
		}
	}
}

func TestSceneSpawnPhotos(t *testing.T) {
	s := newTestScene()
	s.SpawnPhotos([]Asset{{Name: "lake"}, {Name: "cabin"}, {Name: "dog"}})
	cfg := s.Config()
	for i, p := range s.Photos() {
		if p.ID != uint32(i+1) {
			t.Errorf("photo %d ID = %d", i, p.ID)
		}
		if math.Abs(p.Position.X) > cfg.PhotoSpread/2 || math.Abs(p.Position.Z) > cfg.PhotoSpread/2 {
			t.Errorf("%s spawned outside the spread: %v", p.Name, p.Position)
		}
		if math.Abs(p.Position.Y-cfg.PhotoBaseHeight) > cfg.PhotoHeightSpread/2 {
			t.Errorf("%s spawned at height %v", p.Name, p.Position.Y)
		}
		if p.Width != cfg.PhotoWidth || p.Height != cfg.PhotoHeight || p.Opacity != 1 {
			t.Errorf("%s = %+v", p.Name, p)
		}
	}
	if s.Photos()[1].Name != "cabin" {
		t.Errorf("order not kept: %s", s.Photos()[1].Name)
	}
}

func TestSceneDrawFrame(t *testing.T) {
	s := newTestScene()
	s.SpawnPhotos(make([]Asset, 2))
	var got Frame
	s.InjectGesture("Closed_Fist")
	s.Tick(0.25, SurfaceFunc(func(f *Frame) { got = *f }))

	if got.Index != 1 || got.Mode != ModeTree {
		t.Errorf("frame = index %d mode %v, want 1/TREE", got.Index, got.Mode)
	}
	if !approxEqual(got.Progress, 0.2, 1e-12) || !approxEqual(got.Elapsed, 0.25, 1e-12) {
		t.Errorf("progress/elapsed = %v/%v, want 0.2/0.25", got.Progress, got.Elapsed)
	}
	if len(got.Cloud) != 6000 || len(got.CloudColors) != 6000 || len(got.Snow) != 300 {
		t.Errorf("buffer lengths = %d/%d/%d", len(got.Cloud), len(got.CloudColors), len(got.Snow))
	}
	if len(got.Photos) != 2 || got.Camera != s.Camera() {
		t.Error("photos or camera missing from frame")
	}
	if got.CloudOffsetY != s.Config().CloudOffsetY {
		t.Errorf("CloudOffsetY = %v", got.CloudOffsetY)
	}
}

func TestSceneUpdateFunc(t *testing.T) {
	s := newTestScene()
	var calls int
	var seen float64
	s.SetUpdateFunc(func(dt float64) {
		calls++
		seen = dt
	})
	s.Update(0.02)
	if calls != 1 || seen != 0.02 {
		t.Errorf("update func calls = %d dt = %v, want 1 and 0.02", calls, seen)
	}
}

func TestSceneBadDt(t *testing.T) {
	s := newTestScene()
	s.InjectGesture("Closed_Fist")
	s.Update(math.NaN())
	s.Update(-1)
	if s.Elapsed() != 0 || s.Progress() != 0 {
		t.Errorf("elapsed/progress = %v/%v, want 0/0", s.Elapsed(), s.Progress())
	}
	if s.Mode() != ModeTree {
		t.Error("gestures should still be processed on a zero-length frame")
	}
}

func TestSceneFocusAnimatesSelected(t *testing.T) {
	s := newTestScene()
	s.SpawnPhotos(make([]Asset, 3))
	s.InjectGesture("Pinch")
	for i := 0; i < 240; i++ {
		s.Update(1.0 / 60)
	}
	sel := s.Selected()
	anchor := s.Camera().Position.Add(s.Config().FocusOffset)
	// Idle sway keeps nudging Y, so allow its amplitude.
	if d := sel.Position.Distance(anchor); d > 0.2 {
		t.Errorf("selected photo is %v from the anchor", d)
	}
	if sel.Rotation != (r3.Vector{}) {
		t.Errorf("Rotation = %v, want zero", sel.Rotation)
	}
}

func BenchmarkSceneUpdate(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Seed = 1
	s := NewScene(cfg)
	s.SpawnPhotos(make([]Asset, 12))
	s.InjectGesture("Closed_Fist")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Update(1.0 / 60)
	}
}
