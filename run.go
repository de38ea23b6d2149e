package evergreen

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	Fullscreen    bool
	// ShowFPS starts the HUD with the FPS readout visible (toggle with H).
	ShowFPS bool
	// Debug enables Scene.SetDebugMode.
	Debug bool
	// ScreenshotDir overrides the default "screenshots" directory.
	ScreenshotDir string
	// Glow enables the cloud halo. Zero radius disables it.
	GlowRadius   int
	GlowStrength float64
	// GlowSaturation tints the halo, 1 keeps cloud colours. Zero leaves it
	// at 1.
	GlowSaturation float64
	// ConfigPath, when set, is watched and live-tunable fields are applied
	// to the scene on every save.
	ConfigPath string
}

// game adapts a Scene to ebiten.Game. Simulation runs in Update at the
// ebiten tick rate; Draw renders the latest state once per refresh.
type game struct {
	scene   *Scene
	surface *EbitenSurface
	hud     *HUD
	watch   *ConfigWatcher
}

func (g *game) Update() error {
	if controlKeys(g.scene, g.hud) {
		return ebiten.Termination
	}
	if g.watch != nil {
		select {
		case cfg, ok := <-g.watch.Updates():
			if ok {
				g.scene.ApplyConfig(cfg)
			}
		case err := <-g.watch.Errors():
			_, _ = fmt.Fprintf(os.Stderr, "[evergreen] %v\n", err)
		default:
		}
	}
	dt := 1.0 / float64(ebiten.TPS())
	g.scene.Update(dt)
	g.hud.Update(float32(dt))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.surface.Target = screen
	g.scene.Draw(g.surface)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scene.camera.Viewport = Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	return outsideWidth, outsideHeight
}

// Run opens a window and drives scene until the window closes or Escape is
// pressed. If no recognizer has been set, the keyboard stands in for the
// camera (F fist, O open palm, P pinch).
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = defaultViewportW, defaultViewportH
	}
	if cfg.Title == "" {
		cfg.Title = "evergreen"
	}
	if scene.adapter.Recognizer == nil {
		scene.SetRecognizer(NewKeyboardRecognizer(), AlwaysReady())
	}
	scene.SetDebugMode(cfg.Debug)

	hud := NewHUD(cfg.ShowFPS)
	scene.AddEventSink(hud)

	surface := NewEbitenSurface()
	surface.HUD = hud
	if cfg.ScreenshotDir != "" {
		surface.ScreenshotDir = cfg.ScreenshotDir
	}
	if cfg.GlowRadius > 0 {
		strength := cfg.GlowStrength
		if strength <= 0 {
			strength = 0.6
		}
		surface.Glow = NewGlow(cfg.GlowRadius, 1.4, strength)
		if cfg.GlowSaturation > 0 {
			surface.Glow.SetSaturation(cfg.GlowSaturation)
		}
	}

	g := &game{scene: scene, surface: surface, hud: hud}
	if cfg.ConfigPath != "" {
		w, err := NewConfigWatcher(cfg.ConfigPath)
		if err != nil {
			return err
		}
		defer w.Close()
		g.watch = w
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Fullscreen)

	// RunGame returns nil when Update returns ebiten.Termination.
	return ebiten.RunGame(g)
}
