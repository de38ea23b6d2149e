package evergreen

import (
	"math"
	"testing"
)

func newTestMorph(count int) *MorphEngine {
	tg, cfg := generateTest(11, count)
	return NewMorphEngine(tg, cfg.MorphSpeed)
}

func TestMorphStartsAtScatter(t *testing.T) {
	m := newTestMorph(100)
	if m.Progress() != 0 {
		t.Errorf("Progress = %v, want 0", m.Progress())
	}
	for i, v := range m.Positions {
		if v != m.targets.Scatter[i] {
			t.Fatalf("Positions[%d] = %v, want scatter %v", i, v, m.targets.Scatter[i])
		}
	}
	m.Positions[0] += 1
	if m.Positions[0] == m.targets.Scatter[0] {
		t.Error("Positions should not alias the scatter targets")
	}
}

func TestMorphApplyIsExactBlend(t *testing.T) {
	m := newTestMorph(500)
	for _, p := range []float64{0, 0.25, 0.5, 0.8, 1} {
		m.SetProgress(p)
		m.Apply()
		pf := float32(p)
		qf := 1 - pf
		for i, v := range m.Positions {
			want := blend32(m.targets.Scatter[i], m.targets.Tree[i], qf, pf)
			if v != want {
				t.Fatalf("p=%v: Positions[%d] = %v, want %v", p, i, v, want)
			}
		}
	}
}

func TestMorphEndpointsExact(t *testing.T) {
	m := newTestMorph(500)
	m.SetProgress(1)
	m.Apply()
	for i, v := range m.Positions {
		if v != m.targets.Tree[i] {
			t.Fatalf("progress 1: Positions[%d] = %v, want tree %v", i, v, m.targets.Tree[i])
		}
	}
	m.SetProgress(0)
	m.Apply()
	for i, v := range m.Positions {
		if v != m.targets.Scatter[i] {
			t.Fatalf("progress 0: Positions[%d] = %v, want scatter %v", i, v, m.targets.Scatter[i])
		}
	}
}

func TestMorphApplyIgnoresHistory(t *testing.T) {
	m := newTestMorph(50)
	m.SetProgress(0.3)
	m.Apply()
	want := append([]float32(nil), m.Positions...)

	// Corrupt the displayed buffer; Apply must rebuild it from the targets.
	for i := range m.Positions {
		m.Positions[i] = 1e6
	}
	m.Apply()
	for i := range want {
		if m.Positions[i] != want[i] {
			t.Fatalf("Positions[%d] = %v, want %v", i, m.Positions[i], want[i])
		}
	}
}

func TestMorphAdvanceMonotonic(t *testing.T) {
	m := newTestMorph(10)
	prev := m.Progress()
	for i := 0; i < 200; i++ {
		m.Advance(ModeTree, 1.0/60)
		if m.Progress() < prev {
			t.Fatalf("TREE step %d: progress decreased %v -> %v", i, prev, m.Progress())
		}
		prev = m.Progress()
	}
	if m.Progress() != 1 {
		t.Errorf("Progress = %v, want 1 after converging", m.Progress())
	}
	for i := 0; i < 200; i++ {
		m.Advance(ModeScatter, 1.0/60)
		if m.Progress() > prev {
			t.Fatalf("SCATTER step %d: progress increased %v -> %v", i, prev, m.Progress())
		}
		prev = m.Progress()
	}
	if m.Progress() != 0 {
		t.Errorf("Progress = %v, want 0 after converging", m.Progress())
	}
}

func TestMorphAdvanceRate(t *testing.T) {
	m := newTestMorph(10)
	m.Advance(ModeTree, 0.5)
	if !approxEqual(m.Progress(), 0.4, 1e-12) {
		t.Errorf("Progress = %v, want 0.4 after 0.5s at speed 0.8", m.Progress())
	}
}

func TestMorphClampsHugeDt(t *testing.T) {
	m := newTestMorph(10)
	m.Advance(ModeTree, 1e9)
	if m.Progress() != 1 {
		t.Errorf("Progress = %v, want 1", m.Progress())
	}
	m.Advance(ModeScatter, math.Inf(1))
	if m.Progress() != 0 {
		t.Errorf("Progress = %v, want 0", m.Progress())
	}
}

func TestMorphIgnoresBadDt(t *testing.T) {
	m := newTestMorph(10)
	m.SetProgress(0.5)
	for _, dt := range []float64{0, -1, math.NaN()} {
		m.Advance(ModeTree, dt)
		if m.Progress() != 0.5 {
			t.Errorf("dt=%v: Progress = %v, want 0.5", dt, m.Progress())
		}
	}
}

func TestMorphFocusHolds(t *testing.T) {
	m := newTestMorph(10)
	m.SetProgress(0.6)
	m.Update(ModeFocus, 1)
	if m.Progress() != 0.6 {
		t.Errorf("Progress = %v, want 0.6 while focused", m.Progress())
	}
}

func TestSetProgressClamps(t *testing.T) {
	m := newTestMorph(1)
	m.SetProgress(3)
	if m.Progress() != 1 {
		t.Errorf("SetProgress(3) -> %v, want 1", m.Progress())
	}
	m.SetProgress(-2)
	if m.Progress() != 0 {
		t.Errorf("SetProgress(-2) -> %v, want 0", m.Progress())
	}
}

func BenchmarkMorphApply(b *testing.B) {
	m := newTestMorph(42000)
	m.SetProgress(0.5)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Apply()
	}
}
