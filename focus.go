package evergreen

import (
	"math"

	"github.com/golang/geo/r3"
)

// SelectNearest returns the photo closest to viewpoint by Euclidean distance.
// Ties go to the earliest photo in the slice. Returns nil for an empty slice.
func SelectNearest(photos []*Photo, viewpoint r3.Vector) *Photo {
	var best *Photo
	bestD := math.Inf(1)
	for _, p := range photos {
		d := p.Position.Distance(viewpoint)
		if d < bestD {
			bestD = d
			best = p
		}
	}
	return best
}

// FocusAnimator drives the idle float of every photo and pulls the selected
// photo toward an anchor in front of the viewpoint while focused.
type FocusAnimator struct {
	IdlePhaseRate float64
	IdleSway      float64
	IdleSpin      r3.Vector

	// Lerp is applied once per frame, not per second, so the focus pull
	// converges faster at higher frame rates.
	Lerp       float64
	Offset     r3.Vector
	DimOpacity float64
}

// newFocusAnimator copies the focus and idle tunables out of cfg.
func newFocusAnimator(cfg Config) FocusAnimator {
	return FocusAnimator{
		IdlePhaseRate: cfg.IdlePhaseRate,
		IdleSway:      cfg.IdleSway,
		IdleSpin:      cfg.IdleSpin,
		Lerp:          cfg.FocusLerp,
		Offset:        cfg.FocusOffset,
		DimOpacity:    cfg.DimOpacity,
	}
}

// Anchor returns the world-space focus target for the given viewpoint.
func (a *FocusAnimator) Anchor(viewpoint r3.Vector) r3.Vector {
	return viewpoint.Add(a.Offset)
}

// Update advances idle motion for every photo, then applies the focus pose
// and the opacity policy for this frame.
func (a *FocusAnimator) Update(photos []*Photo, mode Mode, selected *Photo, viewpoint r3.Vector, dt float64) {
	for _, p := range photos {
		p.Phase += dt * a.IdlePhaseRate
		p.Position.Y += math.Sin(p.Phase) * a.IdleSway
		p.Rotation.Y += a.IdleSpin.Y * dt
		p.Rotation.X += a.IdleSpin.X * dt
	}

	if mode == ModeFocus && selected != nil {
		selected.Position = lerpVec(selected.Position, a.Anchor(viewpoint), a.Lerp)
		selected.Rotation = r3.Vector{}
		for _, p := range photos {
			if p == selected {
				p.Opacity = 1
			} else {
				p.Opacity = a.DimOpacity
			}
		}
		return
	}

	for _, p := range photos {
		p.Opacity = 1
	}
}
