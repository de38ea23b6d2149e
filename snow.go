package evergreen

import (
	"math"
	"math/rand/v2"
)

// flake holds per-flake simulation state. Unexported; managed by Snowfall.
type flake struct {
	baseX float64 // horizontal anchor; rendered x adds the sway offset
	y, z  float64
	speed float64 // fall speed in units per second, fixed for the flake's life
}

// Snowfall is the ambient particle layer. It runs regardless of scene mode
// and never destroys flakes: a flake that drops below the floor is recycled
// above the ceiling in the same update.
type Snowfall struct {
	flakes []flake
	// Positions is the displayed xyz buffer handed to the render surface.
	Positions []float32
	elapsed   float64
	rng       *rand.Rand

	spread      float64
	floor       float64
	ceiling     float64
	ceilingSpan float64
	amplitude   float64
	frequency   float64
	phaseStep   float64
}

// NewSnowfall creates cfg.SnowCount flakes scattered through the volume.
func NewSnowfall(cfg Config, rng *rand.Rand) *Snowfall {
	s := &Snowfall{
		flakes:      make([]flake, cfg.SnowCount),
		Positions:   make([]float32, cfg.SnowCount*3),
		rng:         rng,
		spread:      cfg.SnowSpread,
		floor:       cfg.SnowFloor,
		ceiling:     cfg.SnowCeiling,
		ceilingSpan: cfg.SnowCeilingSpan,
		amplitude:   cfg.SnowSwayAmplitude,
		frequency:   cfg.SnowSwayFrequency,
		phaseStep:   cfg.SnowSwayPhaseStep,
	}
	for i := range s.flakes {
		f := &s.flakes[i]
		f.baseX = (rng.Float64() - 0.5) * s.spread
		f.y = rng.Float64() * cfg.SnowStartHeight
		f.z = (rng.Float64() - 0.5) * s.spread
		f.speed = cfg.SnowFallSpeed.Random(rng)
	}
	s.writePositions()
	return s
}

// Len returns the number of flakes.
func (s *Snowfall) Len() int {
	return len(s.flakes)
}

// Update advances every flake by dt seconds.
func (s *Snowfall) Update(dt float64) {
	if dt > 0 {
		s.elapsed += dt
	} else {
		dt = 0
	}
	for i := range s.flakes {
		f := &s.flakes[i]
		f.y -= f.speed * dt
		if f.y < s.floor {
			s.recycle(f)
		}
	}
	s.writePositions()
}

// recycle moves a flake to a fresh spot above the ceiling.
func (s *Snowfall) recycle(f *flake) {
	f.y = s.ceiling + s.rng.Float64()*s.ceilingSpan
	f.baseX = (s.rng.Float64() - 0.5) * s.spread
	f.z = (s.rng.Float64() - 0.5) * s.spread
}

// sway returns flake i's horizontal offset at the current time. The index
// term keeps neighbouring flakes out of phase.
func (s *Snowfall) sway(i int) float64 {
	return s.amplitude * math.Sin(float64(i)*s.phaseStep+s.elapsed*s.frequency)
}

func (s *Snowfall) writePositions() {
	for i := range s.flakes {
		f := &s.flakes[i]
		i3 := i * 3
		s.Positions[i3+0] = float32(f.baseX + s.sway(i))
		s.Positions[i3+1] = float32(f.y)
		s.Positions[i3+2] = float32(f.z)
	}
}
