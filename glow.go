package evergreen

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is an image-space effect applied to an offscreen layer.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
}

// All shaders use //kage:unit pixels. Ebitengine uses premultiplied alpha, so
// the shader un-premultiplies before the matrix and re-premultiplies after.
const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	// Row-major 4x5, offsets in elements 4, 9, 14, 19.
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

// Lazy shader compilation (no sync.Once, rendering is single-threaded).
var colorMatrixShader *ebiten.Shader

func ensureColorMatrixShader() *ebiten.Shader {
	if colorMatrixShader == nil {
		s, err := ebiten.NewShader([]byte(colorMatrixShaderSrc))
		if err != nil {
			panic("evergreen: failed to compile color matrix shader: " + err.Error())
		}
		colorMatrixShader = s
	}
	return colorMatrixShader
}

// ColorMatrixFilter applies a 4x5 color matrix with a Kage shader.
type ColorMatrixFilter struct {
	Matrix      [20]float64
	uniforms    map[string]any
	matrixF32   [20]float32
	matrixSlice []float32
	shaderOp    ebiten.DrawRectShaderOptions
}

// NewColorMatrixFilter creates a color matrix filter initialized to the identity.
func NewColorMatrixFilter() *ColorMatrixFilter {
	f := &ColorMatrixFilter{uniforms: make(map[string]any, 1)}
	f.matrixSlice = f.matrixF32[:]
	f.uniforms["Matrix"] = f.matrixSlice
	f.Matrix[0] = 1
	f.Matrix[6] = 1
	f.Matrix[12] = 1
	f.Matrix[18] = 1
	return f
}

// SetBrightness sets the matrix to scale RGB by gain, keeping alpha.
func (f *ColorMatrixFilter) SetBrightness(gain float64) {
	f.Matrix = [20]float64{
		gain, 0, 0, 0, 0,
		0, gain, 0, 0, 0,
		0, 0, gain, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// SetSaturation sets the matrix to adjust saturation. s=1 is normal, 0=grayscale.
func (f *ColorMatrixFilter) SetSaturation(s float64) {
	sr := (1 - s) * 0.299
	sg := (1 - s) * 0.587
	sb := (1 - s) * 0.114
	f.Matrix = [20]float64{
		sr + s, sg, sb, 0, 0,
		sr, sg + s, sb, 0, 0,
		sr, sg, sb + s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Apply renders the color matrix transformation from src into dst.
func (f *ColorMatrixFilter) Apply(src, dst *ebiten.Image) {
	for i, v := range f.Matrix {
		f.matrixF32[i] = float32(v)
	}
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), ensureColorMatrixShader(), &f.shaderOp)
}

// BlurFilter applies a Kawase-style blur with downscale/upscale passes.
// Bilinear filtering during DrawImage does the work; no shader is needed.
type BlurFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

// NewBlurFilter creates a blur filter with the given radius in pixels.
func NewBlurFilter(radius int) *BlurFilter {
	if radius < 0 {
		radius = 0
	}
	return &BlurFilter{Radius: radius}
}

// blurPasses returns the number of half-size passes for radius: log2(radius),
// minimum 1. A radius of zero means a plain copy.
func blurPasses(radius int) int {
	if radius <= 0 {
		return 0
	}
	return max(int(math.Ceil(math.Log2(float64(radius)))), 1)
}

// scaleInto draws src stretched over dst.
func (f *BlurFilter) scaleInto(src, dst *ebiten.Image) {
	op := &f.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.GeoM.Scale(
		float64(dst.Bounds().Dx())/float64(src.Bounds().Dx()),
		float64(dst.Bounds().Dy())/float64(src.Bounds().Dy()),
	)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// Apply renders a blur of src into dst.
func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	passes := blurPasses(f.Radius)
	if passes == 0 {
		f.imgOp.GeoM.Reset()
		f.imgOp.ColorScale.Reset()
		f.imgOp.Filter = ebiten.FilterNearest
		dst.DrawImage(src, &f.imgOp)
		return
	}

	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		f.temps[i] = resizeScratch(f.temps[i], w, h)
		f.scaleInto(current, f.temps[i])
		current = f.temps[i]
	}
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		f.scaleInto(current, f.temps[i])
		current = f.temps[i]
	}
	f.scaleInto(current, dst)
}

// resizeScratch returns a cleared image of size w×h, reusing img when it
// already has that size.
func resizeScratch(img *ebiten.Image, w, h int) *ebiten.Image {
	if img != nil && img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		img.Clear()
		return img
	}
	if img != nil {
		img.Deallocate()
	}
	return ebiten.NewImage(w, h)
}

// Glow draws the point cloud into its own layer, runs the layer through
// Filters and adds the result back over the sharp points. It gives the
// additive cloud a soft halo.
type Glow struct {
	Filters []Filter
	// Strength scales the filtered layer when it is added back.
	Strength float64

	gain    float64
	tone    *ColorMatrixFilter
	layer   *ebiten.Image
	scratch [2]*ebiten.Image
	op      ebiten.DrawImageOptions
}

// NewGlow returns a blur-then-brighten glow.
func NewGlow(radius int, gain, strength float64) *Glow {
	tone := NewColorMatrixFilter()
	tone.SetBrightness(gain)
	return &Glow{
		Filters:  []Filter{NewBlurFilter(radius), tone},
		Strength: strength,
		gain:     gain,
		tone:     tone,
	}
}

// SetSaturation tints the halo: 1 keeps the cloud colours, 0 makes the halo
// gray. The brightness gain still applies.
func (g *Glow) SetSaturation(s float64) {
	g.tone.SetSaturation(s)
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			g.tone.Matrix[row*5+col] *= g.gain
		}
	}
}

// begin returns a cleared layer matching target's size.
func (g *Glow) begin(target *ebiten.Image) *ebiten.Image {
	b := target.Bounds()
	g.layer = resizeScratch(g.layer, b.Dx(), b.Dy())
	return g.layer
}

// end composites the sharp layer and its filtered halo onto target.
func (g *Glow) end(target *ebiten.Image) {
	op := &g.op
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Blend = BlendAdd.EbitenBlend()
	target.DrawImage(g.layer, op)

	if len(g.Filters) == 0 || g.Strength <= 0 {
		return
	}
	w, h := g.layer.Bounds().Dx(), g.layer.Bounds().Dy()
	current := g.layer
	for i, f := range g.Filters {
		dst := resizeScratch(g.scratch[i%2], w, h)
		g.scratch[i%2] = dst
		f.Apply(current, dst)
		current = dst
	}
	op.ColorScale.ScaleAlpha(float32(g.Strength))
	target.DrawImage(current, op)
}
