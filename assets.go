package evergreen

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/hajimehoshi/ebiten/v2"
)

// MaxPhotoTexture bounds the longer side of a loaded photo in pixels.
// Camera originals are downscaled so a wall of photos stays within GPU
// memory.
var MaxPhotoTexture = 1024

// Asset is a resolved image ready to be placed on a Photo.
type Asset struct {
	Name  string
	Image *ebiten.Image
}

// LoadAssets decodes every path into an ebiten image, downscaling anything
// larger than MaxPhotoTexture. The asset name is the file name without its
// extension. Any failure aborts the whole load.
func LoadAssets(paths []string) ([]Asset, error) {
	assets := make([]Asset, 0, len(paths))
	for _, path := range paths {
		img, err := imgio.Open(path)
		if err != nil {
			return nil, fmt.Errorf("load asset %s: %w", path, err)
		}
		base := filepath.Base(path)
		assets = append(assets, Asset{
			Name:  strings.TrimSuffix(base, filepath.Ext(base)),
			Image: ebiten.NewImageFromImage(fitTexture(img, MaxPhotoTexture)),
		})
	}
	return assets, nil
}

// fitTexture scales img down, keeping its aspect ratio, so neither side
// exceeds limit. Smaller images are returned unchanged.
func fitTexture(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if limit <= 0 || (w <= limit && h <= limit) {
		return img
	}
	if w >= h {
		h = max(1, h*limit/w)
		w = limit
	} else {
		w = max(1, w*limit/h)
		h = limit
	}
	return transform.Resize(img, w, h, transform.Linear)
}

// placeholderPalette tints generated cards when no photos are available.
var placeholderPalette = []uint32{0x8c6f4a, 0x3d5a6c, 0x6b3d4f, 0x4f6b3d, 0x5a4f8c}

// PlaceholderAssets generates n solid-colored cards with the photo aspect
// ratio, for running without image files.
func PlaceholderAssets(n int) []Asset {
	assets := make([]Asset, n)
	for i := range assets {
		img := ebiten.NewImage(100, 130)
		img.Fill(ColorHex(placeholderPalette[i%len(placeholderPalette)]).toRGBA())
		assets[i] = Asset{Name: fmt.Sprintf("card-%d", i+1), Image: img}
	}
	return assets
}
