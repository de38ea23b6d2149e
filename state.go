package evergreen

import "github.com/golang/geo/r3"

// Transition describes the outcome of feeding one gesture to the state
// machine.
type Transition struct {
	Gesture  Gesture
	From, To Mode
	// Selected is the focused photo after the transition, nil outside focus.
	Selected *Photo
	// Changed is true when the mode or the selection changed.
	Changed bool
}

// StateMachine holds the authoritative display mode. It only sets targets;
// the morph engine and focus animator converge toward them over time.
type StateMachine struct {
	mode     Mode
	selected *Photo
}

// NewStateMachine returns a machine in ModeScatter with nothing selected.
func NewStateMachine() *StateMachine {
	return &StateMachine{mode: ModeScatter}
}

// Mode returns the current mode.
func (m *StateMachine) Mode() Mode {
	return m.mode
}

// Selected returns the focused photo, or nil when not in ModeFocus.
func (m *StateMachine) Selected() *Photo {
	return m.selected
}

// Apply feeds one gesture. Every gesture is accepted in every mode:
//
//	FIST  -> TREE
//	OPEN  -> SCATTER, selection cleared
//	PINCH -> FOCUS on the photo nearest viewpoint; no photos, no change
//	NONE  -> no change
func (m *StateMachine) Apply(g Gesture, photos []*Photo, viewpoint r3.Vector) Transition {
	tr := Transition{Gesture: g, From: m.mode}
	prevSelected := m.selected

	switch g {
	case GestureFist:
		m.mode = ModeTree
		m.selected = nil
	case GestureOpen:
		m.mode = ModeScatter
		m.selected = nil
	case GesturePinch:
		if p := SelectNearest(photos, viewpoint); p != nil {
			m.mode = ModeFocus
			m.selected = p
		}
	}

	tr.To = m.mode
	tr.Selected = m.selected
	tr.Changed = tr.From != tr.To || prevSelected != m.selected
	return tr
}
