package evergreen

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled capture of the next drawn frame. EbitenSurface
// writes one PNG per label to its ScreenshotDir, named after the frame index
// and mode so a scripted run sorts in order.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// saveScreenshots reads target back once and writes it for every label
// queued on f. Failures are logged, never returned: a full disk must not
// stop the installation.
func saveScreenshots(target *ebiten.Image, dir string, f *Frame) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[evergreen] screenshot: %v\n", err)
		return
	}
	img := captureFrame(target)
	stamp := time.Now().Format("20060102_150405")
	var errs []error
	for _, label := range f.Screenshots {
		path := filepath.Join(dir, screenshotName(stamp, f, label))
		errs = append(errs, writePNG(path, img))
	}
	if err := errors.Join(errs...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[evergreen] screenshot: %v\n", err)
	}
}

// captureFrame copies target's pixels. ebiten and image.RGBA both use
// premultiplied alpha, so no conversion is needed.
func captureFrame(target *ebiten.Image) *image.RGBA {
	img := image.NewRGBA(target.Bounds())
	target.ReadPixels(img.Pix)
	return img
}

// screenshotName builds "<stamp>_f<frame>_<mode>_<label>.png".
func screenshotName(stamp string, f *Frame, label string) string {
	return fmt.Sprintf("%s_f%06d_%s_%s.png", stamp, f.Index, strings.ToLower(f.Mode.String()), sanitizeLabel(label))
}

// writePNG encodes img to path.
func writePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// sanitizeLabel keeps ASCII letters, digits, '-' and '.', replacing anything
// else with '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.') {
			return r
		}
		return '_'
	}, label)
}
