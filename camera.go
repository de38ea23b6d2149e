package evergreen

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/tanema/gween/ease"
)

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Camera is the perspective viewpoint. It sits at Position and looks down
// the negative Z axis with +Y up.
type Camera struct {
	Position r3.Vector
	// FOV is the vertical field of view in radians.
	FOV       float64
	Near, Far float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	move *TweenGroup
}

// NewCamera creates a camera from the projection settings in cfg.
func NewCamera(cfg Config, viewport Rect) *Camera {
	return &Camera{
		Position: cfg.Viewpoint,
		FOV:      cfg.fovRadians(),
		Near:     cfg.Near,
		Far:      cfg.Far,
		Viewport: viewport,
	}
}

// MoveTo animates the camera to pos over duration seconds. A new call
// replaces any move in progress.
func (c *Camera) MoveTo(pos r3.Vector, duration float32, easeFn ease.TweenFunc) {
	c.move = TweenVector(&c.Position, pos, duration, easeFn)
}

// Moving reports whether a MoveTo animation is running.
func (c *Camera) Moving() bool {
	return c.move != nil
}

// update advances the move animation. Called from Scene.Update.
func (c *Camera) update(dt float32) {
	if c.move == nil {
		return
	}
	c.move.Update(dt)
	if c.move.Done {
		c.move = nil
	}
}

// focalLength returns the distance in pixels from the eye to an image plane
// that exactly fills the viewport height.
func (c *Camera) focalLength() float64 {
	return c.Viewport.Height / 2 / math.Tan(c.FOV/2)
}

// Project maps a world point to screen coordinates. depth is the distance
// along the view axis; ok is false when the point is outside the clip range.
func (c *Camera) Project(p r3.Vector) (sx, sy, depth float64, ok bool) {
	rel := p.Sub(c.Position)
	depth = -rel.Z
	if depth < c.Near || depth > c.Far {
		return 0, 0, depth, false
	}
	f := c.focalLength() / depth
	sx = c.Viewport.X + c.Viewport.Width/2 + rel.X*f
	sy = c.Viewport.Y + c.Viewport.Height/2 - rel.Y*f
	return sx, sy, depth, true
}

// ScreenSize returns the on-screen size in pixels of a world length seen at
// depth. Used for point-size attenuation.
func (c *Camera) ScreenSize(worldSize, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return worldSize * c.focalLength() / depth
}
