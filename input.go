package evergreen

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyBinding maps a held key to the category name a classifier would report.
type KeyBinding struct {
	Key      ebiten.Key
	Category string
}

// DefaultKeyBindings emulates the stock gesture model: F for a fist, O for an
// open palm, P for a pinch.
var DefaultKeyBindings = []KeyBinding{
	{Key: ebiten.KeyF, Category: "Closed_Fist"},
	{Key: ebiten.KeyO, Category: "Open_Palm"},
	{Key: ebiten.KeyP, Category: "Pinch"},
}

// KeyboardRecognizer stands in for the camera classifier: a held key reads as
// a held hand pose. It polls ebiten input state, so it must run on the game
// goroutine and must not be wrapped in AsyncRecognizer.
type KeyboardRecognizer struct {
	Bindings []KeyBinding
}

// NewKeyboardRecognizer returns a recognizer using DefaultKeyBindings.
func NewKeyboardRecognizer() *KeyboardRecognizer {
	return &KeyboardRecognizer{Bindings: DefaultKeyBindings}
}

// Recognize reports the first bound key currently held as a single hand.
func (k *KeyboardRecognizer) Recognize(_ image.Image, _ int64) ([][]Category, error) {
	for _, b := range k.Bindings {
		if ebiten.IsKeyPressed(b.Key) {
			return [][]Category{{{Name: b.Category, Score: 1}}}, nil
		}
	}
	return nil, nil
}

// controlKeys handles the window-level shortcuts. It reports whether the
// user asked to quit.
func controlKeys(s *Scene, hud *HUD) (quit bool) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		s.Screenshot("manual")
	}
	if hud != nil && inpututil.IsKeyJustPressed(ebiten.KeyH) {
		hud.ShowFPS = !hud.ShowFPS
	}
	return false
}
