// Package term renders an evergreen scene into a terminal with tcell, for
// previewing an installation over SSH or on a machine without a GPU.
package term

import (
	"fmt"
	"image"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/geo/r3"
	"github.com/phanxgames/evergreen"
)

// densityRamp goes from a single faint point to a solid cell.
var densityRamp = []rune{'.', ':', '*', '#', '@'}

// cell accumulates cloud samples that land in one terminal cell.
type cell struct {
	count   int
	r, g, b float32
}

// Surface is an evergreen.Surface drawing onto a tcell screen. Cells are
// treated as twice as tall as they are wide.
type Surface struct {
	Screen tcell.Screen
	// StatusLine shows mode and progress on the last row.
	StatusLine bool

	cells []cell
	order []*evergreen.Photo
}

// NewSurface wraps screen.
func NewSurface(screen tcell.Screen) *Surface {
	return &Surface{Screen: screen, StatusLine: true}
}

// Render draws f and shows the screen.
func (s *Surface) Render(f *evergreen.Frame) {
	scr := s.Screen
	scr.Clear()
	w, h := scr.Size()
	if w <= 0 || h <= 0 || f.Camera == nil {
		scr.Show()
		return
	}
	rows := h
	if s.StatusLine {
		rows--
	}

	cam := *f.Camera
	cam.Viewport = evergreen.Rect{Width: float64(w), Height: float64(rows * 2)}

	snowStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Dim(true)
	forEachPoint(&cam, f.Snow, 0, func(x, y, _ int) {
		if x < w && y < rows {
			scr.SetContent(x, y, '\'', nil, snowStyle)
		}
	})

	if cap(s.cells) < w*rows {
		s.cells = make([]cell, w*rows)
	}
	s.cells = s.cells[:w*rows]
	clear(s.cells)
	forEachPoint(&cam, f.Cloud, f.CloudOffsetY, func(x, y, i int) {
		if x >= w || y >= rows {
			return
		}
		c := &s.cells[y*w+x]
		c.count++
		c.r += f.CloudColors[i*3]
		c.g += f.CloudColors[i*3+1]
		c.b += f.CloudColors[i*3+2]
	})
	for idx := range s.cells {
		c := &s.cells[idx]
		if c.count == 0 {
			continue
		}
		n := float32(c.count)
		fg := tcell.NewRGBColor(int32(c.r/n*255), int32(c.g/n*255), int32(c.b/n*255))
		scr.SetContent(idx%w, idx/w, densityRune(c.count), nil, tcell.StyleDefault.Foreground(fg))
	}

	s.drawPhotos(&cam, f.Photos, w, rows)

	if s.StatusLine {
		status := fmt.Sprintf(" %-7s  progress %.2f  frame %d", f.Mode, f.Progress, f.Index)
		if f.Selected != nil {
			status += "  focus " + f.Selected.Name
		}
		drawText(scr, 0, h-1, status, tcell.StyleDefault.Reverse(true))
	}
	scr.Show()
}

// forEachPoint projects packed xyz positions and calls fn with the cell
// coordinates and particle index of every visible point.
func forEachPoint(cam *evergreen.Camera, pos []float32, offsetY float64, fn func(x, y, i int)) {
	for i := 0; i < len(pos)/3; i++ {
		p := r3.Vector{X: float64(pos[i*3]), Y: float64(pos[i*3+1]) + offsetY, Z: float64(pos[i*3+2])}
		sx, sy, _, ok := cam.Project(p)
		if !ok || sx < 0 || sy < 0 {
			continue
		}
		fn(int(sx), int(sy)/2, i)
	}
}

func densityRune(count int) rune {
	idx := 0
	for n := count; n > 1 && idx < len(densityRamp)-1; n /= 3 {
		idx++
	}
	return densityRamp[idx]
}

// drawPhotos fills each photo's projected footprint, far to near, shaded by
// its opacity.
func (s *Surface) drawPhotos(cam *evergreen.Camera, photos []*evergreen.Photo, w, rows int) {
	s.order = append(s.order[:0], photos...)
	sort.SliceStable(s.order, func(i, j int) bool {
		return s.order[i].Position.Z < s.order[j].Position.Z
	})
	for _, p := range s.order {
		sx, sy, depth, ok := cam.Project(p.Position)
		if !ok {
			continue
		}
		halfW := cam.ScreenSize(p.Width, depth) / 2
		halfH := cam.ScreenSize(p.Height, depth) / 4
		shade := int32(80 + 175*p.Opacity)
		style := tcell.StyleDefault.Background(tcell.NewRGBColor(shade, shade, shade))
		for y := int(sy/2 - halfH); y <= int(sy/2+halfH); y++ {
			for x := int(sx - halfW); x <= int(sx+halfW); x++ {
				if x >= 0 && y >= 0 && x < w && y < rows {
					s.Screen.SetContent(x, y, ' ', nil, style)
				}
			}
		}
	}
}

func drawText(scr tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		scr.SetContent(x, y, r, nil, style)
		x++
	}
}

// KeyRecognizer turns key presses into classifier categories. The last
// gesture key stays latched, like a held pose, until space releases it.
type KeyRecognizer struct {
	current string
}

// HandleKey updates the latched category from a terminal key event. It
// reports whether the key was a gesture key.
func (k *KeyRecognizer) HandleKey(ev *tcell.EventKey) bool {
	if ev.Key() != tcell.KeyRune {
		return false
	}
	return k.HandleRune(ev.Rune())
}

// HandleRune latches f (fist), o (open palm) or p (pinch); space releases.
func (k *KeyRecognizer) HandleRune(r rune) bool {
	switch r {
	case 'f':
		k.current = "Closed_Fist"
	case 'o':
		k.current = "Open_Palm"
	case 'p':
		k.current = "Pinch"
	case ' ':
		k.current = ""
	default:
		return false
	}
	return true
}

// Recognize reports the latched category as a single hand.
func (k *KeyRecognizer) Recognize(_ image.Image, _ int64) ([][]evergreen.Category, error) {
	if k.current == "" {
		return nil, nil
	}
	return [][]evergreen.Category{{{Name: k.current, Score: 1}}}, nil
}

// pumpEvents forwards screen events until the screen is finalized or done is
// closed. events is closed on the way out.
func pumpEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// Run drives scene at fps frames per second on screen until Escape or
// Ctrl-C. The screen must already be initialized; Run does not call Fini.
func Run(scene *evergreen.Scene, screen tcell.Screen, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	keys := &KeyRecognizer{}
	scene.SetRecognizer(keys, evergreen.AlwaysReady())
	surface := NewSurface(screen)

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go pumpEvents(screen, events, done)

	dt := 1.0 / float64(fps)
	ticker := time.NewTicker(time.Duration(float64(time.Second) * dt))
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				keys.HandleKey(ev)
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			scene.Tick(dt, surface)
		}
	}
}
