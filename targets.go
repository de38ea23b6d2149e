package evergreen

import (
	"math"
	"math/rand/v2"
)

// Targets holds the two immutable particle configurations and the per-particle
// colors. Index i denotes the same particle in every slice. Positions and
// colors are packed xyz / rgb triples.
type Targets struct {
	Tree    []float32
	Scatter []float32
	Colors  []float32
}

// Len returns the number of particles.
func (t *Targets) Len() int {
	return len(t.Tree) / 3
}

// GenerateTargets samples count particles into a tree cone and a sphere shell
// and assigns each a color between cfg.ColorA and cfg.ColorB. rng is the only
// source of variation.
func GenerateTargets(count int, cfg Config, rng *rand.Rand) *Targets {
	t := &Targets{
		Tree:    make([]float32, count*3),
		Scatter: make([]float32, count*3),
		Colors:  make([]float32, count*3),
	}

	height := cfg.TreeHeight
	for i := 0; i < count; i++ {
		i3 := i * 3

		// Tree: linear taper, wide base, pointed top.
		h := rng.Float64() * height
		r := cfg.TreeBaseRadius * (1 - h/height)
		theta := rng.Float64() * 2 * math.Pi
		r += (rng.Float64() - 0.5) * cfg.RadiusJitter
		sin, cos := math.Sincos(theta)
		t.Tree[i3+0] = float32(r * cos)
		t.Tree[i3+1] = float32(h + (rng.Float64()-0.5)*cfg.HeightJitter)
		t.Tree[i3+2] = float32(r * sin)

		// Scatter: uniform on the shell. Sampling cos(polar) uniformly keeps
		// the poles from clustering.
		phi := 2 * math.Pi * rng.Float64()
		cosTheta := 2*rng.Float64() - 1
		sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
		R := cfg.ScatterRadius
		t.Scatter[i3+0] = float32(R * sinTheta * math.Cos(phi))
		t.Scatter[i3+1] = float32(R * sinTheta * math.Sin(phi))
		t.Scatter[i3+2] = float32(R * cosTheta)

		mix := math.Pow(rng.Float64(), cfg.ColorBias)
		c := cfg.ColorA.Lerp(cfg.ColorB, mix)
		t.Colors[i3+0] = float32(c.R)
		t.Colors[i3+1] = float32(c.G)
		t.Colors[i3+2] = float32(c.B)
	}
	return t
}
