package evergreen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// scriptStep is one entry of a JSON script. Which fields matter depends on
// Action.
type scriptStep struct {
	Action string `json:"action"`
	// gesture: classifier category to hold; expect: photo name.
	Name string `json:"name,omitempty"`
	// gesture: frames to hold; wait: frames to idle.
	Frames int `json:"frames,omitempty"`
	// screenshot: file label.
	Label string `json:"label,omitempty"`
	// expect: SCATTER, TREE or FOCUS.
	Mode string `json:"mode,omitempty"`
}

// TestRunner plays a scripted visitor against a Scene, one step per frame,
// so an installation can be exercised without a camera. Attach with
// SetTestRunner.
//
// Actions:
//
//	{"action": "gesture", "name": "Closed_Fist", "frames": 3}
//	{"action": "wait", "frames": 60}
//	{"action": "screenshot", "label": "tree"}
//	{"action": "expect", "mode": "FOCUS", "name": "card-2"}
//
// A gesture step finishes when its held frames have been consumed. Failed
// expectations do not stop the script; read them with Failures.
type TestRunner struct {
	steps    []scriptStep
	next     int
	idle     int
	done     bool
	failures []string
}

// LoadTestScript parses {"steps": [...]} and checks every step.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.check(); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func (st scriptStep) check() error {
	switch st.Action {
	case "gesture":
		if st.Name == "" {
			return fmt.Errorf("gesture needs a name")
		}
	case "expect":
		if st.Mode == "" && st.Name == "" {
			return fmt.Errorf("expect needs a mode or a name")
		}
		if st.Mode != "" {
			if _, ok := parseMode(st.Mode); !ok {
				return fmt.Errorf("unknown mode %q", st.Mode)
			}
		}
	case "wait", "screenshot":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

func parseMode(name string) (Mode, bool) {
	for _, m := range []Mode{ModeScatter, ModeTree, ModeFocus} {
		if strings.EqualFold(name, m.String()) {
			return m, true
		}
	}
	return 0, false
}

// SetTestRunner attaches runner. It steps at the start of every Update,
// before the gesture poll.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether every step has run.
func (r *TestRunner) Done() bool {
	return r.done
}

// Failures returns one message per expectation that did not hold.
func (r *TestRunner) Failures() []string {
	return r.failures
}

func (r *TestRunner) step(s *Scene) {
	switch {
	case r.done, s.PendingInjections() > 0:
		return
	case r.idle > 0:
		r.idle--
		return
	case r.next == len(r.steps):
		r.done = true
		return
	}

	st := r.steps[r.next]
	r.next++
	switch st.Action {
	case "gesture":
		s.InjectHold(st.Name, st.Frames)
	case "wait":
		// This frame is the first idle one.
		r.idle = max(st.Frames-1, 0)
	case "screenshot":
		s.Screenshot(st.Label)
	case "expect":
		r.expect(s, st)
	}
	r.done = r.next == len(r.steps) && r.idle == 0 && s.PendingInjections() == 0
}

func (r *TestRunner) expect(s *Scene, st scriptStep) {
	if st.Mode != "" {
		if want, _ := parseMode(st.Mode); s.Mode() != want {
			r.failures = append(r.failures, fmt.Sprintf("step %d: mode = %s, want %s", r.next-1, s.Mode(), want))
		}
	}
	if st.Name != "" {
		got := ""
		if p := s.Selected(); p != nil {
			got = p.Name
		}
		if got != st.Name {
			r.failures = append(r.failures, fmt.Sprintf("step %d: selected = %q, want %q", r.next-1, got, st.Name))
		}
	}
}
