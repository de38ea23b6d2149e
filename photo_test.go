package evergreen

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func vecNear(a, b r3.Vector, eps float64) bool {
	return a.Sub(b).Norm() <= eps
}

func TestNewPhoto(t *testing.T) {
	p := NewPhoto("lake", nil, 1, 1.3)
	if p.Opacity != 1 || p.Width != 1 || p.Height != 1.3 || p.Name != "lake" {
		t.Errorf("NewPhoto = %+v", p)
	}
}

func TestRotateEuler(t *testing.T) {
	tests := []struct {
		name string
		v, e r3.Vector
		want r3.Vector
	}{
		{"identity", r3.Vector{X: 1, Y: 2, Z: 3}, r3.Vector{}, r3.Vector{X: 1, Y: 2, Z: 3}},
		{"y quarter turn", r3.Vector{X: 1}, r3.Vector{Y: math.Pi / 2}, r3.Vector{Z: -1}},
		{"x quarter turn", r3.Vector{Y: 1}, r3.Vector{X: math.Pi / 2}, r3.Vector{Z: 1}},
		{"z quarter turn", r3.Vector{X: 1}, r3.Vector{Z: math.Pi / 2}, r3.Vector{Y: 1}},
	}
	for _, tt := range tests {
		if got := rotateEuler(tt.v, tt.e); !vecNear(got, tt.want, 1e-12) {
			t.Errorf("%s: rotateEuler = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRotateEulerKeepsLength(t *testing.T) {
	v := r3.Vector{X: 0.3, Y: -1.2, Z: 0.7}
	got := rotateEuler(v, r3.Vector{X: 0.4, Y: -1.1, Z: 2.3})
	if !approxEqual(got.Norm(), v.Norm(), 1e-12) {
		t.Errorf("|v| = %v, want %v", got.Norm(), v.Norm())
	}
}

func TestPhotoCorners(t *testing.T) {
	p := NewPhoto("p", nil, 1, 1.3)
	p.Position = r3.Vector{X: 2, Y: 1, Z: -1}
	c := p.corners()
	want := [4]r3.Vector{
		{X: 1.5, Y: 1.65, Z: -1},
		{X: 2.5, Y: 1.65, Z: -1},
		{X: 1.5, Y: 0.35, Z: -1},
		{X: 2.5, Y: 0.35, Z: -1},
	}
	for i := range c {
		if !vecNear(c[i], want[i], 1e-12) {
			t.Errorf("corner %d = %v, want %v", i, c[i], want[i])
		}
	}
}

func TestScatterPhotoBounds(t *testing.T) {
	cfg := DefaultConfig()
	rng := newRand(3)
	for i := 0; i < 200; i++ {
		p := NewPhoto("p", nil, 1, 1.3)
		scatterPhoto(p, cfg, rng)
		if math.Abs(p.Rotation.X) > cfg.PhotoTilt.X/2 || math.Abs(p.Rotation.Y) > cfg.PhotoTilt.Y/2 || math.Abs(p.Rotation.Z) > cfg.PhotoTilt.Z/2 {
			t.Fatalf("rotation %v exceeds tilt %v", p.Rotation, cfg.PhotoTilt)
		}
		if p.Phase < 0 || p.Phase >= 2*math.Pi {
			t.Fatalf("phase = %v", p.Phase)
		}
	}
}
