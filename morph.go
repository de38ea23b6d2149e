package evergreen

// MorphEngine owns the rendered particle positions and the scalar progress
// between the scatter (0) and tree (1) configurations.
type MorphEngine struct {
	targets *Targets
	// Positions is the displayed xyz buffer handed to the render surface.
	// It is rewritten in full by Apply.
	Positions []float32
	progress  float64
	speed     float64
}

// NewMorphEngine creates an engine at progress 0 with the displayed
// positions set to the scatter configuration.
func NewMorphEngine(targets *Targets, speed float64) *MorphEngine {
	pos := make([]float32, len(targets.Scatter))
	copy(pos, targets.Scatter)
	return &MorphEngine{
		targets:   targets,
		Positions: pos,
		speed:     speed,
	}
}

// Progress returns the current blend factor in [0, 1].
func (m *MorphEngine) Progress() float64 {
	return m.progress
}

// SetProgress jumps to p, clamped to [0, 1]. Positions are not touched until
// the next Apply.
func (m *MorphEngine) SetProgress(p float64) {
	m.progress = clamp01(p)
}

// Advance moves progress toward the target implied by mode at speed units
// per second. Focus freezes the morph. Non-positive or NaN dt is ignored.
func (m *MorphEngine) Advance(mode Mode, dt float64) {
	if !(dt > 0) {
		return
	}
	switch mode {
	case ModeTree:
		m.progress = min(1, m.progress+dt*m.speed)
	case ModeScatter:
		m.progress = max(0, m.progress-dt*m.speed)
	}
}

// Apply rewrites every displayed position as the affine blend of the two
// immutable configurations at the current progress. Nothing carries over
// from previous frames.
func (m *MorphEngine) Apply() {
	p := float32(m.progress)
	q := 1 - p
	tree := m.targets.Tree
	scatter := m.targets.Scatter
	pos := m.Positions
	for i := range pos {
		pos[i] = blend32(scatter[i], tree[i], q, p)
	}
}

// Update advances progress by dt and applies it.
func (m *MorphEngine) Update(mode Mode, dt float64) {
	m.Advance(mode, dt)
	m.Apply()
}

// blend32 returns s*q + t*p with each product rounded to float32 before the
// sum, so the result does not depend on FMA contraction.
func blend32(s, t, q, p float32) float32 {
	return float32(s*q) + float32(t*p)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
