package evergreen

import (
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
	"github.com/hajimehoshi/ebiten/v2"
)

// Photo is a focusable textured plane. Photos are created once at startup
// and live for the whole session; identity is the pointer.
type Photo struct {
	// Identity
	ID   uint32
	Name string

	// Pose. Rotation holds Euler angles in radians, applied X then Y then Z.
	Position r3.Vector
	Rotation r3.Vector

	// Opacity is rewritten every frame by the focus animator.
	Opacity float64
	// Phase drives the idle float motion.
	Phase float64

	// Plane size in world units.
	Width, Height float64

	// Image is the texture. Nil photos render as a flat white card.
	Image *ebiten.Image

	// Metadata
	UserData any
}

// NewPhoto creates an opaque photo at the origin with the given plane size.
func NewPhoto(name string, img *ebiten.Image, width, height float64) *Photo {
	return &Photo{
		Name:    name,
		Opacity: 1,
		Width:   width,
		Height:  height,
		Image:   img,
	}
}

// scatterPhoto places p at a random pose inside the configured volume.
func scatterPhoto(p *Photo, cfg Config, rng *rand.Rand) {
	p.Position = r3.Vector{
		X: (rng.Float64() - 0.5) * cfg.PhotoSpread,
		Y: cfg.PhotoBaseHeight + (rng.Float64()-0.5)*cfg.PhotoHeightSpread,
		Z: (rng.Float64() - 0.5) * cfg.PhotoSpread,
	}
	p.Rotation = r3.Vector{
		X: (rng.Float64() - 0.5) * cfg.PhotoTilt.X,
		Y: (rng.Float64() - 0.5) * cfg.PhotoTilt.Y,
		Z: (rng.Float64() - 0.5) * cfg.PhotoTilt.Z,
	}
	p.Phase = rng.Float64() * 2 * math.Pi
}

// corners returns the plane's four world-space corners in the order
// top-left, top-right, bottom-left, bottom-right.
func (p *Photo) corners() [4]r3.Vector {
	hw, hh := p.Width/2, p.Height/2
	local := [4]r3.Vector{
		{X: -hw, Y: hh},
		{X: hw, Y: hh},
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
	}
	var out [4]r3.Vector
	for i, v := range local {
		out[i] = rotateEuler(v, p.Rotation).Add(p.Position)
	}
	return out
}

// rotateEuler applies an XYZ-order Euler rotation (R = Rx * Ry * Rz) to v.
func rotateEuler(v, e r3.Vector) r3.Vector {
	// Rz
	sz, cz := math.Sincos(e.Z)
	v = r3.Vector{X: v.X*cz - v.Y*sz, Y: v.X*sz + v.Y*cz, Z: v.Z}
	// Ry
	sy, cy := math.Sincos(e.Y)
	v = r3.Vector{X: v.X*cy + v.Z*sy, Y: v.Y, Z: -v.X*sy + v.Z*cy}
	// Rx
	sx, cx := math.Sincos(e.X)
	return r3.Vector{X: v.X, Y: v.Y*cx - v.Z*sx, Z: v.Y*sx + v.Z*cx}
}
