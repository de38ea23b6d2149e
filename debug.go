package evergreen

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	pollTime      time.Duration
	simulateTime  time.Duration
	renderTime    time.Duration
	particleCount int
	snowCount     int
}

// debugLog prints timing stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.pollTime + stats.simulateTime + stats.renderTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[evergreen] frame %d | poll: %v | simulate: %v | render: %v | total: %v\n",
		s.frameIndex, stats.pollTime, stats.simulateTime, stats.renderTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[evergreen] mode: %s | progress: %.3f | particles: %d | snow: %d\n",
		s.machine.Mode(), s.morph.Progress(), stats.particleCount, stats.snowCount)
}
