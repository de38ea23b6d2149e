package evergreen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadConfigFile reads path and decodes it on top of DefaultConfig. The
// format is chosen by extension: .json, .toml, .yaml or .yml.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := decodeConfig(filepath.Ext(path), data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

func decodeConfig(ext string, data []byte) (Config, error) {
	cfg := DefaultConfig()
	var err error
	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
		if err != nil && len(bytes.TrimSpace(data)) == 0 {
			// An empty document decodes to io.EOF; treat it as all defaults.
			err = nil
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigWatcher reloads a config file whenever it is written and publishes
// each valid result on Updates. Invalid edits are reported on Errors and the
// previous config stays in effect.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan Config
	errs    chan error
	done    chan struct{}
}

// NewConfigWatcher starts watching path. The parent directory is watched so
// editors that replace the file on save are still seen.
func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}
	cw := &ConfigWatcher{
		path:    abs,
		watcher: w,
		updates: make(chan Config, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go cw.loop()
	return cw, nil
}

// Updates delivers each successfully reloaded config. Only the newest
// unread config is kept.
func (cw *ConfigWatcher) Updates() <-chan Config { return cw.updates }

// Errors delivers reload and watcher failures. Only the newest unread error
// is kept.
func (cw *ConfigWatcher) Errors() <-chan error { return cw.errs }

// Close stops the watcher. Updates is closed once the loop exits.
func (cw *ConfigWatcher) Close() error {
	err := cw.watcher.Close()
	<-cw.done
	return err
}

func (cw *ConfigWatcher) loop() {
	defer close(cw.done)
	defer close(cw.updates)
	for {
		select {
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadConfigFile(cw.path)
			if err != nil {
				publish(cw.errs, err)
				continue
			}
			publish(cw.updates, cfg)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			publish(cw.errs, err)
		}
	}
}

// publish replaces any unread value in a one-slot channel with v.
func publish[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// ApplyConfig updates the tunables that can change without regenerating the
// particle layout: morph speed, focus and idle motion, opacities, point
// sizes and snow sway. Counts, shapes and the seed are fixed at NewScene.
func (s *Scene) ApplyConfig(cfg Config) {
	cfg = cfg.withDefaults()
	s.morph.speed = cfg.MorphSpeed
	s.focus = newFocusAnimator(cfg)
	s.snow.amplitude = cfg.SnowSwayAmplitude
	s.snow.frequency = cfg.SnowSwayFrequency
	s.snow.phaseStep = cfg.SnowSwayPhaseStep

	s.cfg.MorphSpeed = cfg.MorphSpeed
	s.cfg.CloudOffsetY = cfg.CloudOffsetY
	s.cfg.PointSize = cfg.PointSize
	s.cfg.CloudOpacity = cfg.CloudOpacity
	s.cfg.SnowSwayAmplitude = cfg.SnowSwayAmplitude
	s.cfg.SnowSwayFrequency = cfg.SnowSwayFrequency
	s.cfg.SnowSwayPhaseStep = cfg.SnowSwayPhaseStep
	s.cfg.SnowPointSize = cfg.SnowPointSize
	s.cfg.SnowOpacity = cfg.SnowOpacity
	s.cfg.IdlePhaseRate = cfg.IdlePhaseRate
	s.cfg.IdleSway = cfg.IdleSway
	s.cfg.IdleSpin = cfg.IdleSpin
	s.cfg.FocusLerp = cfg.FocusLerp
	s.cfg.FocusOffset = cfg.FocusOffset
	s.cfg.DimOpacity = cfg.DimOpacity
	if s.debug {
		_, _ = fmt.Fprintf(os.Stderr, "[evergreen] config reloaded\n")
	}
}
