package evergreen

// Frame is the per-tick snapshot handed to a Surface. Slices alias the
// scene's own buffers and are only valid during Render.
type Frame struct {
	Index   uint64
	Elapsed float64

	Mode     Mode
	Progress float64
	Selected *Photo

	// Cloud holds packed xyz positions; CloudColors the matching rgb.
	Cloud        []float32
	CloudColors  []float32
	CloudOffsetY float64
	PointSize    float64
	CloudOpacity float64

	// Snow holds packed xyz positions.
	Snow          []float32
	SnowPointSize float64
	SnowOpacity   float64

	Photos []*Photo
	Camera *Camera

	// Screenshots lists labels queued since the previous frame. Surfaces
	// that can capture output write one image per label after rendering.
	Screenshots []string
}

// Surface draws a frame. It is invoked once per tick and must not retain
// the frame's slices.
type Surface interface {
	Render(f *Frame)
}

// SurfaceFunc adapts a plain function to Surface.
type SurfaceFunc func(f *Frame)

// Render calls fn(f).
func (fn SurfaceFunc) Render(f *Frame) {
	fn(f)
}
