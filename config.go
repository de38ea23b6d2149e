package evergreen

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Config holds every tunable of an installation. Start from DefaultConfig and
// override what you need; NewScene only fills fields whose zero value would
// be unusable (counts, speeds, radii, projection).
type Config struct {
	// Seed for the procedural layout. Zero draws a fresh seed per session.
	Seed uint64 `json:"seed" toml:"seed" yaml:"seed"`

	// ParticleCount is the size of the morphing point cloud.
	ParticleCount int `json:"particleCount" toml:"particleCount" yaml:"particleCount"`
	// TreeHeight and TreeBaseRadius describe the cone. Radius tapers linearly
	// from TreeBaseRadius at h=0 to zero at h=TreeHeight.
	TreeHeight     float64 `json:"treeHeight" toml:"treeHeight" yaml:"treeHeight"`
	TreeBaseRadius float64 `json:"treeBaseRadius" toml:"treeBaseRadius" yaml:"treeBaseRadius"`
	// RadiusJitter and HeightJitter are the full widths of the uniform noise
	// added to each tree sample so the cone surface is not perfectly smooth.
	RadiusJitter float64 `json:"radiusJitter" toml:"radiusJitter" yaml:"radiusJitter"`
	HeightJitter float64 `json:"heightJitter" toml:"heightJitter" yaml:"heightJitter"`
	// ScatterRadius is the radius of the sphere shell.
	ScatterRadius float64 `json:"scatterRadius" toml:"scatterRadius" yaml:"scatterRadius"`
	// ColorA and ColorB are the two base tones. ColorBias skews the blend
	// toward ColorA: mix = rand^ColorBias.
	ColorA    Color   `json:"colorA" toml:"colorA" yaml:"colorA"`
	ColorB    Color   `json:"colorB" toml:"colorB" yaml:"colorB"`
	ColorBias float64 `json:"colorBias" toml:"colorBias" yaml:"colorBias"`
	// MorphSpeed is progress per second.
	MorphSpeed float64 `json:"morphSpeed" toml:"morphSpeed" yaml:"morphSpeed"`
	// CloudOffsetY lifts the whole cloud at render time.
	CloudOffsetY float64 `json:"cloudOffsetY" toml:"cloudOffsetY" yaml:"cloudOffsetY"`
	PointSize    float64 `json:"pointSize" toml:"pointSize" yaml:"pointSize"`
	CloudOpacity float64 `json:"cloudOpacity" toml:"cloudOpacity" yaml:"cloudOpacity"`

	SnowCount int `json:"snowCount" toml:"snowCount" yaml:"snowCount"`
	// SnowSpread is the full horizontal extent of the snow volume on X and Z.
	SnowSpread      float64 `json:"snowSpread" toml:"snowSpread" yaml:"snowSpread"`
	SnowStartHeight float64 `json:"snowStartHeight" toml:"snowStartHeight" yaml:"snowStartHeight"`
	// Flakes below SnowFloor respawn in [SnowCeiling, SnowCeiling+SnowCeilingSpan).
	SnowFloor       float64 `json:"snowFloor" toml:"snowFloor" yaml:"snowFloor"`
	SnowCeiling     float64 `json:"snowCeiling" toml:"snowCeiling" yaml:"snowCeiling"`
	SnowCeilingSpan float64 `json:"snowCeilingSpan" toml:"snowCeilingSpan" yaml:"snowCeilingSpan"`
	SnowFallSpeed   Range   `json:"snowFallSpeed" toml:"snowFallSpeed" yaml:"snowFallSpeed"`
	// Horizontal sway offset = amplitude * sin(i*phaseStep + t*frequency).
	SnowSwayAmplitude float64 `json:"snowSwayAmplitude" toml:"snowSwayAmplitude" yaml:"snowSwayAmplitude"`
	SnowSwayFrequency float64 `json:"snowSwayFrequency" toml:"snowSwayFrequency" yaml:"snowSwayFrequency"`
	SnowSwayPhaseStep float64 `json:"snowSwayPhaseStep" toml:"snowSwayPhaseStep" yaml:"snowSwayPhaseStep"`
	SnowPointSize     float64 `json:"snowPointSize" toml:"snowPointSize" yaml:"snowPointSize"`
	SnowOpacity       float64 `json:"snowOpacity" toml:"snowOpacity" yaml:"snowOpacity"`

	PhotoWidth  float64 `json:"photoWidth" toml:"photoWidth" yaml:"photoWidth"`
	PhotoHeight float64 `json:"photoHeight" toml:"photoHeight" yaml:"photoHeight"`
	// Photos spawn at x,z in ±PhotoSpread/2 and y = PhotoBaseHeight ± PhotoHeightSpread/2.
	PhotoSpread       float64 `json:"photoSpread" toml:"photoSpread" yaml:"photoSpread"`
	PhotoBaseHeight   float64 `json:"photoBaseHeight" toml:"photoBaseHeight" yaml:"photoBaseHeight"`
	PhotoHeightSpread float64 `json:"photoHeightSpread" toml:"photoHeightSpread" yaml:"photoHeightSpread"`
	// PhotoTilt is the full width of the random initial Euler rotation per axis.
	PhotoTilt r3.Vector `json:"photoTilt" toml:"photoTilt" yaml:"photoTilt"`

	// Idle float: phase += dt*IdlePhaseRate; y += sin(phase)*IdleSway;
	// rotation += IdleSpin*dt.
	IdlePhaseRate float64   `json:"idlePhaseRate" toml:"idlePhaseRate" yaml:"idlePhaseRate"`
	IdleSway      float64   `json:"idleSway" toml:"idleSway" yaml:"idleSway"`
	IdleSpin      r3.Vector `json:"idleSpin" toml:"idleSpin" yaml:"idleSpin"`

	// FocusLerp is the per-frame blend factor toward the focus anchor.
	// It is intentionally not scaled by dt.
	FocusLerp float64 `json:"focusLerp" toml:"focusLerp" yaml:"focusLerp"`
	// FocusOffset is the anchor relative to the viewpoint.
	FocusOffset r3.Vector `json:"focusOffset" toml:"focusOffset" yaml:"focusOffset"`
	// DimOpacity is applied to every unselected photo while focused.
	DimOpacity float64 `json:"dimOpacity" toml:"dimOpacity" yaml:"dimOpacity"`

	Viewpoint r3.Vector `json:"viewpoint" toml:"viewpoint" yaml:"viewpoint"`
	// FOV is the vertical field of view in degrees.
	FOV  float64 `json:"fov" toml:"fov" yaml:"fov"`
	Near float64 `json:"near" toml:"near" yaml:"near"`
	Far  float64 `json:"far" toml:"far" yaml:"far"`
}

// DefaultConfig returns the reference look of the installation.
func DefaultConfig() Config {
	return Config{
		ParticleCount:  42000,
		TreeHeight:     3.6,
		TreeBaseRadius: 1.6,
		RadiusJitter:   0.04,
		HeightJitter:   0.03,
		ScatterRadius:  5.0,
		ColorA:         ColorHex(0xc8b47e),
		ColorB:         ColorHex(0xe8e6df),
		ColorBias:      1.6,
		MorphSpeed:     0.8,
		CloudOffsetY:   0.4,
		PointSize:      0.035,
		CloudOpacity:   0.95,

		SnowCount:         800,
		SnowSpread:        18,
		SnowStartHeight:   10,
		SnowFloor:         -1,
		SnowCeiling:       8,
		SnowCeilingSpan:   2,
		SnowFallSpeed:     Range{Min: 0.6, Max: 1.4},
		SnowSwayAmplitude: 0.4,
		SnowSwayFrequency: 0.8,
		SnowSwayPhaseStep: 0.013,
		SnowPointSize:     0.02,
		SnowOpacity:       0.8,

		PhotoWidth:        1.0,
		PhotoHeight:       1.3,
		PhotoSpread:       8,
		PhotoBaseHeight:   0.8,
		PhotoHeightSpread: 3,
		PhotoTilt:         r3.Vector{X: 0.6, Y: 1.2, Z: 0.2},

		IdlePhaseRate: 0.5,
		IdleSway:      0.02,
		IdleSpin:      r3.Vector{X: 0.07, Y: 0.15},

		FocusLerp:   0.15,
		FocusOffset: r3.Vector{X: 0, Y: -0.2, Z: -1.8},
		DimOpacity:  0.35,

		Viewpoint: r3.Vector{X: 0, Y: 1.4, Z: 6},
		FOV:       55,
		Near:      0.1,
		Far:       200,
	}
}

// LoadConfig parses JSON on top of DefaultConfig. Keys absent from the
// document keep their default value.
func LoadConfig(jsonData []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.ParticleCount < 0:
		return fmt.Errorf("particleCount %d is negative", c.ParticleCount)
	case c.SnowCount < 0:
		return fmt.Errorf("snowCount %d is negative", c.SnowCount)
	case c.MorphSpeed < 0:
		return fmt.Errorf("morphSpeed %v is negative", c.MorphSpeed)
	case c.FocusLerp < 0 || c.FocusLerp > 1:
		return fmt.Errorf("focusLerp %v outside [0, 1]", c.FocusLerp)
	case c.DimOpacity < 0 || c.DimOpacity >= 1:
		return fmt.Errorf("dimOpacity %v outside [0, 1)", c.DimOpacity)
	case c.SnowCeiling <= c.SnowFloor:
		return fmt.Errorf("snowCeiling %v must be above snowFloor %v", c.SnowCeiling, c.SnowFloor)
	case c.Near <= 0 || c.Far <= c.Near:
		return fmt.Errorf("invalid clip range [%v, %v]", c.Near, c.Far)
	}
	return nil
}

// withDefaults fills fields whose zero value cannot produce a working scene.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ParticleCount <= 0 {
		c.ParticleCount = d.ParticleCount
	}
	if c.TreeHeight <= 0 {
		c.TreeHeight = d.TreeHeight
	}
	if c.TreeBaseRadius <= 0 {
		c.TreeBaseRadius = d.TreeBaseRadius
	}
	if c.ScatterRadius <= 0 {
		c.ScatterRadius = d.ScatterRadius
	}
	if c.ColorBias <= 0 {
		c.ColorBias = d.ColorBias
	}
	if c.MorphSpeed <= 0 {
		c.MorphSpeed = d.MorphSpeed
	}
	if c.SnowCount <= 0 {
		c.SnowCount = d.SnowCount
	}
	if c.SnowCeiling <= c.SnowFloor {
		c.SnowFloor, c.SnowCeiling = d.SnowFloor, d.SnowCeiling
	}
	if c.SnowFallSpeed.Max <= 0 {
		c.SnowFallSpeed = d.SnowFallSpeed
	}
	if c.PhotoWidth <= 0 || c.PhotoHeight <= 0 {
		c.PhotoWidth, c.PhotoHeight = d.PhotoWidth, d.PhotoHeight
	}
	// Unselected photos must stay dimmer than the focused one.
	if c.DimOpacity < 0 || c.DimOpacity >= 1 {
		c.DimOpacity = d.DimOpacity
	}
	if c.FocusLerp <= 0 || c.FocusLerp > 1 {
		c.FocusLerp = d.FocusLerp
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		c.FOV = d.FOV
	}
	if c.Near <= 0 || c.Far <= c.Near {
		c.Near, c.Far = d.Near, d.Far
	}
	if c.Viewpoint == (r3.Vector{}) {
		c.Viewpoint = d.Viewpoint
	}
	return c
}

// fovRadians returns the vertical field of view in radians.
func (c Config) fovRadians() float64 {
	return c.FOV * math.Pi / 180
}
