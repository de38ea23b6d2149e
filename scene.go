package evergreen

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"
)

const defaultViewportW, defaultViewportH = 1280, 720

// Scene owns every piece of installation state and advances it in a fixed
// order once per tick:
//
//	gesture poll -> edge filter -> state machine -> snow -> morph -> focus -> render
//
// Scene is single-threaded. The only concurrency is inside AsyncRecognizer.
type Scene struct {
	cfg Config
	rng *rand.Rand

	targets *Targets
	morph   *MorphEngine
	snow    *Snowfall
	photos  []*Photo
	machine *StateMachine
	focus   FocusAnimator
	camera  *Camera

	adapter GestureAdapter
	edge    EdgeFilter

	sinks []EventSink
	debug bool

	frameIndex uint64
	elapsed    float64
	frame      Frame
	stats      debugStats

	// Synthetic input and automation
	injectQueue     []string
	testRunner      *TestRunner
	screenshotQueue []string

	onUpdate func(dt float64)
}

// NewScene generates the particle targets and snowfall for cfg and starts in
// ModeScatter with progress 0. Photos are added with AddPhoto or SpawnPhotos.
func NewScene(cfg Config) *Scene {
	cfg = cfg.withDefaults()
	rng := newRand(cfg.Seed)
	targets := GenerateTargets(cfg.ParticleCount, cfg, rng)
	return &Scene{
		cfg:     cfg,
		rng:     rng,
		targets: targets,
		morph:   NewMorphEngine(targets, cfg.MorphSpeed),
		snow:    NewSnowfall(cfg, rng),
		machine: NewStateMachine(),
		focus:   newFocusAnimator(cfg),
		camera:  NewCamera(cfg, Rect{Width: defaultViewportW, Height: defaultViewportH}),
	}
}

// Config returns the effective configuration.
func (s *Scene) Config() Config { return s.cfg }

// Camera returns the viewpoint.
func (s *Scene) Camera() *Camera { return s.camera }

// Targets returns the immutable particle configurations.
func (s *Scene) Targets() *Targets { return s.targets }

// Morph returns the morph engine.
func (s *Scene) Morph() *MorphEngine { return s.morph }

// Snow returns the ambient snowfall.
func (s *Scene) Snow() *Snowfall { return s.snow }

// Mode returns the current display mode.
func (s *Scene) Mode() Mode { return s.machine.Mode() }

// Selected returns the focused photo, nil outside ModeFocus.
func (s *Scene) Selected() *Photo { return s.machine.Selected() }

// Progress returns the morph progress.
func (s *Scene) Progress() float64 { return s.morph.Progress() }

// Elapsed returns simulated seconds since the scene was created.
func (s *Scene) Elapsed() float64 { return s.elapsed }

// Photos returns the focusable photos. The returned slice MUST NOT be mutated.
func (s *Scene) Photos() []*Photo { return s.photos }

// AddPhoto appends p to the focusable set and assigns its ID.
func (s *Scene) AddPhoto(p *Photo) {
	p.ID = uint32(len(s.photos) + 1)
	s.photos = append(s.photos, p)
}

// SpawnPhotos adds one photo per named entry at a random pose.
func (s *Scene) SpawnPhotos(assets []Asset) {
	for _, a := range assets {
		p := NewPhoto(a.Name, a.Image, s.cfg.PhotoWidth, s.cfg.PhotoHeight)
		scatterPhoto(p, s.cfg, s.rng)
		s.AddPhoto(p)
	}
}

// SetRecognizer wires the gesture oracle and the camera it reads from.
func (s *Scene) SetRecognizer(r Recognizer, src FrameSource) {
	s.adapter.Recognizer = r
	s.adapter.Source = src
}

// AddEventSink registers an observer for transitions.
func (s *Scene) AddEventSink(sink EventSink) {
	s.sinks = append(s.sinks, sink)
}

// SetUpdateFunc registers fn to run at the end of every Update.
func (s *Scene) SetUpdateFunc(fn func(dt float64)) {
	s.onUpdate = fn
}

// SetDebugMode enables or disables debug mode. When enabled, transitions,
// recognizer errors, and per-frame timing stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Dispatch runs g through the edge filter and, if it passes, the state
// machine. Observers are notified of changes.
func (s *Scene) Dispatch(g Gesture) (Transition, bool) {
	g, ok := s.edge.Filter(g)
	if !ok {
		return Transition{Gesture: GestureNone, From: s.Mode(), To: s.Mode(), Selected: s.Selected()}, false
	}
	tr := s.machine.Apply(g, s.photos, s.camera.Position)
	if s.debug {
		_, _ = fmt.Fprintf(os.Stderr, "[evergreen] gesture %s: %s -> %s\n", g, tr.From, tr.To)
	}
	if tr.Changed {
		ev := newTransitionEvent(tr, s.frameIndex, s.elapsed)
		for _, sink := range s.sinks {
			sink.EmitEvent(ev)
		}
	}
	return tr, true
}

// pollGesture consumes one injected category if any are queued, otherwise
// asks the recognizer.
func (s *Scene) pollGesture() Gesture {
	if len(s.injectQueue) > 0 {
		name := s.injectQueue[0]
		copy(s.injectQueue, s.injectQueue[1:])
		s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
		return MapGesture(name)
	}
	g := s.adapter.Poll(int64(s.elapsed * 1000))
	if s.debug && s.adapter.lastErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[evergreen] recognizer: %v\n", s.adapter.lastErr)
	}
	return g
}

// Update advances the simulation by dt seconds: gesture, snow, morph, focus.
func (s *Scene) Update(dt float64) {
	if !(dt > 0) {
		dt = 0
	}
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.Dispatch(s.pollGesture())

	if s.debug {
		s.stats.pollTime = time.Since(t0)
		t0 = time.Now()
	}

	s.elapsed += dt
	s.camera.update(float32(dt))
	s.snow.Update(dt)
	s.morph.Update(s.machine.Mode(), dt)
	s.focus.Update(s.photos, s.machine.Mode(), s.machine.Selected(), s.camera.Position, dt)

	if s.debug {
		s.stats.simulateTime = time.Since(t0)
	}

	if s.onUpdate != nil {
		s.onUpdate(dt)
	}
}

// Draw hands the current state to surface.
func (s *Scene) Draw(surface Surface) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.frameIndex++
	f := &s.frame
	*f = Frame{
		Index:         s.frameIndex,
		Elapsed:       s.elapsed,
		Mode:          s.machine.Mode(),
		Progress:      s.morph.Progress(),
		Selected:      s.machine.Selected(),
		Cloud:         s.morph.Positions,
		CloudColors:   s.targets.Colors,
		CloudOffsetY:  s.cfg.CloudOffsetY,
		PointSize:     s.cfg.PointSize,
		CloudOpacity:  s.cfg.CloudOpacity,
		Snow:          s.snow.Positions,
		SnowPointSize: s.cfg.SnowPointSize,
		SnowOpacity:   s.cfg.SnowOpacity,
		Photos:        s.photos,
		Camera:        s.camera,
		Screenshots:   s.screenshotQueue,
	}
	surface.Render(f)
	s.screenshotQueue = s.screenshotQueue[:0]

	if s.debug {
		s.stats.renderTime = time.Since(t0)
		s.stats.particleCount = s.targets.Len()
		s.stats.snowCount = s.snow.Len()
		s.debugLog(s.stats)
	}
}

// Tick runs one full frame: Update followed by Draw.
func (s *Scene) Tick(dt float64, surface Surface) {
	s.Update(dt)
	s.Draw(surface)
}
