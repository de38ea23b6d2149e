package evergreen

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// HUD is an on-screen overlay: a mode banner that fades out after every
// transition, and an optional FPS/TPS readout refreshed every ~0.5 seconds.
// HUD is an EventSink; register it with Scene.AddEventSink.
type HUD struct {
	ShowFPS bool
	// BannerDuration is the fade-out time in seconds.
	BannerDuration float32

	banner      string
	bannerAlpha float64
	fade        *gween.Tween

	fpsText    string
	lastUpdate float64

	img       *ebiten.Image
	bannerImg *ebiten.Image
	op        ebiten.DrawImageOptions
}

// NewHUD creates a HUD with a 1.5 second banner fade.
func NewHUD(showFPS bool) *HUD {
	return &HUD{ShowFPS: showFPS, BannerDuration: 1.5}
}

// EmitEvent shows the new mode in the banner and restarts the fade.
func (h *HUD) EmitEvent(ev TransitionEvent) {
	h.banner = bannerText(ev)
	h.bannerAlpha = 1
	h.fade = gween.New(1, 0, h.BannerDuration, ease.InQuad)
}

func bannerText(ev TransitionEvent) string {
	if ev.To == ModeFocus && ev.PhotoName != "" {
		return fmt.Sprintf("%s  %s", ev.To, ev.PhotoName)
	}
	return ev.To.String()
}

// Banner returns the current banner text and its opacity.
func (h *HUD) Banner() (string, float64) {
	return h.banner, h.bannerAlpha
}

// Update advances the banner fade and refreshes the FPS text.
func (h *HUD) Update(dt float32) {
	if h.fade != nil {
		val, done := h.fade.Update(dt)
		h.bannerAlpha = float64(val)
		if done {
			h.fade = nil
			h.bannerAlpha = 0
		}
	}
	if !h.ShowFPS {
		return
	}
	h.lastUpdate += float64(dt)
	if h.lastUpdate < 0.5 && h.fpsText != "" {
		return
	}
	h.lastUpdate = 0
	h.fpsText = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

// Draw renders the overlay in the top-left corner of screen.
func (h *HUD) Draw(screen *ebiten.Image, f *Frame) {
	if !h.ShowFPS && h.bannerAlpha <= 0 {
		return
	}
	if h.img == nil {
		// 120x48 is enough for "FPS: 60.0\nTPS: 60.0\nprogress: 1.00"
		h.img = ebiten.NewImage(120, 48)
		h.bannerImg = ebiten.NewImage(200, 16)
	}
	if h.ShowFPS {
		h.img.Clear()
		h.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(h.img, fmt.Sprintf("%s\nprogress: %.2f", h.fpsText, f.Progress))
		h.op.GeoM.Reset()
		h.op.ColorScale.Reset()
		screen.DrawImage(h.img, &h.op)
	}

	if h.bannerAlpha > 0 {
		h.bannerImg.Clear()
		ebitenutil.DebugPrint(h.bannerImg, h.banner)
		h.op.GeoM.Reset()
		h.op.GeoM.Scale(2, 2)
		h.op.GeoM.Translate(float64(screen.Bounds().Dx())/2-100, 24)
		h.op.ColorScale.Reset()
		h.op.ColorScale.ScaleAlpha(float32(h.bannerAlpha))
		screen.DrawImage(h.bannerImg, &h.op)
	}
}
