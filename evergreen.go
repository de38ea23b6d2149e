package evergreen

import (
	"math/rand/v2"

	"github.com/golang/geo/r3"
	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGB color with components in [0, 1] plus alpha.
// Not premultiplied. Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorHex builds an opaque Color from a 0xRRGGBB value.
func ColorHex(hex uint32) Color {
	return Color{
		R: float64((hex>>16)&0xff) / 255,
		G: float64((hex>>8)&0xff) / 255,
		B: float64(hex&0xff) / 255,
		A: 1,
	}
}

// Lerp returns the color between c and other at t, component-wise.
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: lerp(c.R, other.R, t),
		G: lerp(c.G, other.G, t),
		B: lerp(c.B, other.B, t),
		A: lerp(c.A, other.A, t),
	}
}

// Range is a general-purpose min/max range.
// Used by the snowfall (fall speed) and photo spawning.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max) drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Mode is the scene state: what the installation should currently display.
type Mode uint8

const (
	ModeScatter Mode = iota // particles spread on the sphere shell (initial)
	ModeTree                // particles gathered into the cone
	ModeFocus               // one photo pulled in front of the viewpoint
)

// String returns the upper-case mode name.
func (m Mode) String() string {
	switch m {
	case ModeScatter:
		return "SCATTER"
	case ModeTree:
		return "TREE"
	case ModeFocus:
		return "FOCUS"
	default:
		return "UNKNOWN"
	}
}

// Gesture is a canonical hand-gesture symbol produced once per frame.
type Gesture uint8

const (
	GestureNone  Gesture = iota // no usable signal this frame
	GestureFist                 // closed hand
	GestureOpen                 // open palm
	GesturePinch                // thumb and index together
)

// String returns the upper-case gesture name.
func (g Gesture) String() string {
	switch g {
	case GestureFist:
		return "FIST"
	case GestureOpen:
		return "OPEN"
	case GesturePinch:
		return "PINCH"
	default:
		return "NONE"
	}
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	default:
		return ebiten.BlendSourceOver
	}
}

// newRand returns a PCG-backed source seeded from seed. A zero seed draws
// fresh entropy so every session looks different.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// lerpVec linearly interpolates between two points by t.
func lerpVec(a, b r3.Vector, t float64) r3.Vector {
	return r3.Vector{X: lerp(a.X, b.X, t), Y: lerp(a.Y, b.Y, t), Z: lerp(a.Z, b.Z, t)}
}
