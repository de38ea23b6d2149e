package evergreen

// EventSink receives scene transitions. Sinks run synchronously on the frame
// tick and must not block.
type EventSink interface {
	EmitEvent(event TransitionEvent)
}

// TransitionEvent carries a state change for observers (HUD, audio, ECS).
type TransitionEvent struct {
	Gesture Gesture
	From    Mode
	To      Mode
	// PhotoID and PhotoName identify the focused photo; zero outside focus.
	PhotoID   uint32
	PhotoName string
	Frame     uint64
	Elapsed   float64
}

func newTransitionEvent(tr Transition, frame uint64, elapsed float64) TransitionEvent {
	ev := TransitionEvent{
		Gesture: tr.Gesture,
		From:    tr.From,
		To:      tr.To,
		Frame:   frame,
		Elapsed: elapsed,
	}
	if tr.Selected != nil {
		ev.PhotoID = tr.Selected.ID
		ev.PhotoName = tr.Selected.Name
	}
	return ev
}
