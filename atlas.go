package evergreen

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/hajimehoshi/ebiten/v2"
)

// AtlasRegion describes one photo's sub-rectangle within an atlas page.
type AtlasRegion struct {
	Page          int
	X, Y          int
	Width, Height int
}

// Atlas holds packed photo pages and a map of named regions. Large photo sets
// load faster and upload fewer textures as a handful of atlas pages.
type Atlas struct {
	// Pages contains the atlas page images indexed by page number.
	Pages []*ebiten.Image
	// PageFiles holds the image file named by the JSON for each page, ""
	// when the JSON names none.
	PageFiles []string
	regions   map[string]AtlasRegion
}

// Region returns the region for name and whether it exists.
func (a *Atlas) Region(name string) (AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Len returns the number of regions.
func (a *Atlas) Len() int {
	return len(a.regions)
}

// LoadAtlas parses TexturePacker JSON data and associates the given page images.
// Supports both the hash format (single "frames" object) and the array format
// ("textures" array with per-page frame lists). Rotated frames are rejected;
// photos are always packed upright.
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("parse atlas: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]AtlasRegion),
	}

	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("parse atlas textures: %w", err)
		}
		for i, tex := range textures {
			if err := atlas.addFrames(tex.Frames, i); err != nil {
				return nil, err
			}
			atlas.PageFiles = append(atlas.PageFiles, tex.Image)
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("parse atlas frames: %w", err)
		}
		if err := atlas.addFrames(frames, 0); err != nil {
			return nil, err
		}
		atlas.PageFiles = []string{probe.Meta.Image}
	default:
		return nil, fmt.Errorf("parse atlas: JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

// LoadAtlasFile reads a TexturePacker JSON file and the page images it
// names, resolved next to the JSON. A single page that names no image falls
// back to the JSON path with a .png extension. Pages are kept at full size
// because region rectangles are in page pixels.
func LoadAtlasFile(path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load atlas: %w", err)
	}
	atlas, err := LoadAtlas(data, nil)
	if err != nil {
		return nil, fmt.Errorf("load atlas %s: %w", filepath.Base(path), err)
	}
	dir := filepath.Dir(path)
	atlas.Pages = make([]*ebiten.Image, len(atlas.PageFiles))
	for i, name := range atlas.PageFiles {
		page := filepath.Join(dir, name)
		if name == "" {
			if len(atlas.PageFiles) > 1 {
				return nil, fmt.Errorf("load atlas %s: page %d names no image", filepath.Base(path), i)
			}
			page = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
		}
		img, err := imgio.Open(page)
		if err != nil {
			return nil, fmt.Errorf("load atlas page %d: %w", i, err)
		}
		atlas.Pages[i] = ebiten.NewImageFromImage(img)
	}
	return atlas, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func (a *Atlas) addFrames(frames map[string]jsonFrame, page int) error {
	for name, f := range frames {
		if f.Rotated {
			return fmt.Errorf("parse atlas: frame %q is rotated", name)
		}
		if f.Frame.W <= 0 || f.Frame.H <= 0 {
			return fmt.Errorf("parse atlas: frame %q has empty size", name)
		}
		a.regions[name] = AtlasRegion{Page: page, X: f.Frame.X, Y: f.Frame.Y, Width: f.Frame.W, Height: f.Frame.H}
	}
	return nil
}

// Names returns the region names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for name := range a.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Assets cuts every region out of its page, in name order, ready for
// Scene.SpawnPhotos. Asset names drop the file extension.
func (a *Atlas) Assets() ([]Asset, error) {
	names := a.Names()
	assets := make([]Asset, 0, len(names))
	for _, name := range names {
		r := a.regions[name]
		if r.Page < 0 || r.Page >= len(a.Pages) || a.Pages[r.Page] == nil {
			return nil, fmt.Errorf("atlas region %q: page %d not loaded", name, r.Page)
		}
		rect := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
		sub := a.Pages[r.Page].SubImage(rect).(*ebiten.Image)
		if i := strings.LastIndexByte(name, '.'); i > 0 {
			name = name[:i]
		}
		assets = append(assets, Asset{Name: name, Image: sub})
	}
	return assets, nil
}
