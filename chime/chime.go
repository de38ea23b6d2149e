// Package chime plays a short tone whenever an evergreen scene changes mode.
// Each destination mode has its own voice so visitors can hear the tree
// assemble or a photo come forward without looking at the HUD.
package chime

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/phanxgames/evergreen"
)

// DefaultSampleRate is used when Config.SampleRate is zero.
const DefaultSampleRate = beep.SampleRate(44100)

// Config holds playback settings. Zero values are filled with defaults.
type Config struct {
	SampleRate beep.SampleRate
	// Volume is a linear gain in (0, 1].
	Volume float64
	Mute   bool
	// Duration of a single note.
	Duration time.Duration
}

// Note is one tone of a chime.
type Note struct {
	Freq float64
	Gain float64
}

// voices maps a destination mode to the notes played in sequence.
var voices = map[evergreen.Mode][]Note{
	evergreen.ModeTree:    {{Freq: 523.25, Gain: 0.6}, {Freq: 783.99, Gain: 0.5}},
	evergreen.ModeScatter: {{Freq: 659.25, Gain: 0.5}, {Freq: 392.00, Gain: 0.4}},
	evergreen.ModeFocus:   {{Freq: 880.00, Gain: 0.5}},
}

// Player is an evergreen.EventSink that mixes chimes into a single stream.
// Without Init it only feeds the mixer, which callers may stream themselves.
type Player struct {
	cfg Config

	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer returns a player for cfg.
func NewPlayer(cfg Config) *Player {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Volume <= 0 {
		cfg.Volume = 0.5
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 180 * time.Millisecond
	}
	return &Player{cfg: cfg, mixer: &beep.Mixer{}}
}

// Init opens the audio device and starts playing the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.cfg.SampleRate, p.cfg.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("chime: speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences any chime still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		speaker.Clear()
		p.initialized = false
	}
	p.mixer.Clear()
}

// Mixer returns the stream every chime is added to.
func (p *Player) Mixer() *beep.Mixer { return p.mixer }

// EmitEvent queues the chime for ev.To.
func (p *Player) EmitEvent(ev evergreen.TransitionEvent) {
	s, err := p.Chime(ev.To)
	if err != nil || s == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
		return
	}
	p.mixer.Add(s)
}

// Chime builds the streamer for mode. It returns nil for an unknown mode.
func (p *Player) Chime(mode evergreen.Mode) (beep.Streamer, error) {
	notes, ok := voices[mode]
	if !ok {
		return nil, nil
	}
	seq := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		s, err := p.note(n)
		if err != nil {
			return nil, err
		}
		seq = append(seq, s)
	}
	gain := p.cfg.Volume
	if p.cfg.Mute {
		gain = 0
	}
	return newVolume(beep.Seq(seq...), gain), nil
}

func (p *Player) note(n Note) (beep.Streamer, error) {
	sine, err := generators.SineTone(p.cfg.SampleRate, n.Freq)
	if err != nil {
		return nil, fmt.Errorf("chime: tone %.2f Hz: %w", n.Freq, err)
	}
	total := p.cfg.SampleRate.N(p.cfg.Duration)
	tone := beep.Take(total, sine)
	return newVolume(&decay{Streamer: tone, total: total}, n.Gain), nil
}

// decay fades a streamer out linearly over total samples after a short
// attack, so notes don't click.
type decay struct {
	beep.Streamer
	pos   int
	total int
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.Streamer.Stream(samples)
	attack := d.total / 20
	for i := 0; i < n; i++ {
		var vol float64
		switch {
		case d.pos >= d.total:
			vol = 0
		case d.pos < attack:
			vol = float64(d.pos) / float64(attack)
		default:
			vol = float64(d.total-d.pos) / float64(d.total-attack)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.pos++
	}
	return n, ok
}

// math.Log2(0) is -Inf, so zero gain maps to Silent.
func newVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}
