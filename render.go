package evergreen

import (
	"image"
	"image/color"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
)

// ensureWhiteImage lazily creates the solid texture used for points and
// untextured photos. The 1px border keeps linear filtering from sampling
// outside the white area.
func ensureWhiteImage() *ebiten.Image {
	if whiteSubImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// minPointPixels keeps distant points from vanishing below one pixel.
const minPointPixels = 1.0

// EbitenSurface rasterizes frames onto an ebiten image: snow and cloud as
// batched screen-facing quads, photos as textured planes sorted back to
// front. Set Target before every Render.
type EbitenSurface struct {
	Target     *ebiten.Image
	ClearColor Color
	// ScreenshotDir receives PNGs for labels queued with Scene.Screenshot.
	ScreenshotDir string
	// HUD, when non-nil, is drawn over the scene after screenshots are taken.
	HUD *HUD
	// Glow, when non-nil, adds a filtered halo around the cloud.
	Glow *Glow

	batchVerts []ebiten.Vertex
	batchInds  []uint32
	photoOrder []photoDepth
}

// NewEbitenSurface returns a surface with a near-black background.
func NewEbitenSurface() *EbitenSurface {
	return &EbitenSurface{
		ClearColor:    Color{R: 0.02, G: 0.02, B: 0.04, A: 1},
		ScreenshotDir: "screenshots",
	}
}

// Render draws f onto s.Target.
func (s *EbitenSurface) Render(f *Frame) {
	target := s.Target
	if target == nil {
		return
	}
	target.Fill(s.ClearColor.toRGBA())

	s.batchVerts, s.batchInds = appendPointQuads(s.batchVerts[:0], s.batchInds[:0],
		f.Camera, f.Snow, nil, ColorWhite, 0, f.SnowPointSize, f.SnowOpacity)
	s.flushPoints(target, BlendNormal)

	s.batchVerts, s.batchInds = appendPointQuads(s.batchVerts[:0], s.batchInds[:0],
		f.Camera, f.Cloud, f.CloudColors, ColorWhite, f.CloudOffsetY, f.PointSize, f.CloudOpacity)
	if s.Glow != nil {
		s.flushPoints(s.Glow.begin(target), BlendAdd)
		s.Glow.end(target)
	} else {
		s.flushPoints(target, BlendAdd)
	}

	s.drawPhotos(target, f)

	if len(f.Screenshots) > 0 {
		saveScreenshots(target, s.ScreenshotDir, f)
	}
	if s.HUD != nil {
		s.HUD.Draw(target, f)
	}
}

// flushPoints submits accumulated point quads as a single DrawTriangles32 call.
func (s *EbitenSurface) flushPoints(target *ebiten.Image, blend BlendMode) {
	if len(s.batchVerts) == 0 {
		return
	}
	var triOp ebiten.DrawTrianglesOptions
	triOp.Blend = blend.EbitenBlend()
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	target.DrawTriangles32(s.batchVerts, s.batchInds, ensureWhiteImage(), &triOp)
	s.batchVerts = s.batchVerts[:0]
	s.batchInds = s.batchInds[:0]
}

// appendPointQuads projects packed xyz positions and appends one square quad
// per visible point. colors may be nil, in which case tint is used for all
// points. Colors are premultiplied by opacity.
func appendPointQuads(verts []ebiten.Vertex, inds []uint32, cam *Camera, pos, colors []float32,
	tint Color, offsetY, worldSize, opacity float64) ([]ebiten.Vertex, []uint32) {
	if cam == nil {
		return verts, inds
	}
	a := float32(opacity)
	n := len(pos) / 3
	for i := 0; i < n; i++ {
		i3 := i * 3
		p := r3.Vector{X: float64(pos[i3]), Y: float64(pos[i3+1]) + offsetY, Z: float64(pos[i3+2])}
		sx, sy, depth, ok := cam.Project(p)
		if !ok {
			continue
		}
		half := max(cam.ScreenSize(worldSize, depth), minPointPixels) / 2

		r, g, b := float32(tint.R), float32(tint.G), float32(tint.B)
		if colors != nil {
			r, g, b = colors[i3], colors[i3+1], colors[i3+2]
		}
		cr, cg, cb := r*a, g*a, b*a

		x0, y0 := float32(sx-half), float32(sy-half)
		x1, y1 := float32(sx+half), float32(sy+half)
		base := uint32(len(verts))
		verts = append(verts,
			ebiten.Vertex{DstX: x0, DstY: y0, SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: a},
			ebiten.Vertex{DstX: x1, DstY: y0, SrcX: 2, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: a},
			ebiten.Vertex{DstX: x0, DstY: y1, SrcX: 1, SrcY: 2, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: a},
			ebiten.Vertex{DstX: x1, DstY: y1, SrcX: 2, SrcY: 2, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: a},
		)
		// Two triangles: TL-TR-BL, TR-BR-BL
		inds = append(inds,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
	}
	return verts, inds
}

type photoDepth struct {
	photo *Photo
	depth float64
}

// sortPhotosByDepth orders photos far to near for painter's drawing.
func sortPhotosByDepth(buf []photoDepth, photos []*Photo, cam *Camera) []photoDepth {
	buf = buf[:0]
	for _, p := range photos {
		buf = append(buf, photoDepth{photo: p, depth: cam.Position.Z - p.Position.Z})
	}
	sort.SliceStable(buf, func(i, j int) bool {
		return buf[i].depth > buf[j].depth
	})
	return buf
}

// photoVertices projects the four corners of p. ok is false when any corner
// falls outside the clip range.
func photoVertices(p *Photo, cam *Camera, src image.Rectangle) ([4]ebiten.Vertex, bool) {
	var out [4]ebiten.Vertex
	corners := p.corners()
	su := [4]float32{float32(src.Min.X), float32(src.Max.X), float32(src.Min.X), float32(src.Max.X)}
	sv := [4]float32{float32(src.Min.Y), float32(src.Min.Y), float32(src.Max.Y), float32(src.Max.Y)}
	a := float32(p.Opacity)
	for i, c := range corners {
		sx, sy, _, ok := cam.Project(c)
		if !ok {
			return out, false
		}
		out[i] = ebiten.Vertex{
			DstX: float32(sx), DstY: float32(sy),
			SrcX: su[i], SrcY: sv[i],
			ColorR: a, ColorG: a, ColorB: a, ColorA: a,
		}
	}
	return out, true
}

var quadIndices = []uint16{0, 1, 2, 1, 3, 2}

func (s *EbitenSurface) drawPhotos(target *ebiten.Image, f *Frame) {
	if f.Camera == nil || len(f.Photos) == 0 {
		return
	}
	s.photoOrder = sortPhotosByDepth(s.photoOrder, f.Photos, f.Camera)
	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	triOp.Filter = ebiten.FilterLinear
	for _, pd := range s.photoOrder {
		img := pd.photo.Image
		if img == nil {
			img = ensureWhiteImage()
		}
		verts, ok := photoVertices(pd.photo, f.Camera, img.Bounds())
		if !ok {
			continue
		}
		target.DrawTriangles(verts[:], quadIndices, img, &triOp)
	}
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}
