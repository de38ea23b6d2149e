package evergreen

import (
	"image"
	"strings"
)

// Category is one ranked classification for a detected hand.
type Category struct {
	Name  string
	Score float32
}

// FrameSource is the camera. Ready reports whether a decodable frame is
// available; acquisition lifecycle is the caller's concern.
type FrameSource interface {
	Ready() bool
	Frame() image.Image
}

// Recognizer is the gesture classification oracle. It returns one ranked
// category list per detected hand, possibly none. Only the top category of
// the first hand is used.
type Recognizer interface {
	Recognize(frame image.Image, timestampMs int64) ([][]Category, error)
}

// MapGesture converts a classifier category name to a canonical gesture by
// case-insensitive substring match. Unrecognized names map to GestureNone.
func MapGesture(name string) Gesture {
	if name == "" {
		return GestureNone
	}
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "closed"), strings.Contains(n, "fist"):
		return GestureFist
	case strings.Contains(n, "open"), strings.Contains(n, "palm"):
		return GestureOpen
	case strings.Contains(n, "pinch"):
		return GesturePinch
	}
	return GestureNone
}

// topCategory returns the first hand's top category name, or "".
func topCategory(hands [][]Category) string {
	if len(hands) == 0 || len(hands[0]) == 0 {
		return ""
	}
	return hands[0][0].Name
}

// GestureAdapter polls the recognizer once per frame and reports the
// canonical gesture. Every kind of missing signal reads as GestureNone.
type GestureAdapter struct {
	Source     FrameSource
	Recognizer Recognizer

	// lastErr is the most recent recognizer error, kept for debug logging.
	lastErr error
}

// Poll classifies the current camera frame. It never fails: an unready
// camera, a nil recognizer, a recognizer error, no hands, or an unknown
// category all yield GestureNone.
func (a *GestureAdapter) Poll(timestampMs int64) Gesture {
	a.lastErr = nil
	if a.Recognizer == nil || a.Source == nil || !a.Source.Ready() {
		return GestureNone
	}
	hands, err := a.Recognizer.Recognize(a.Source.Frame(), timestampMs)
	if err != nil {
		a.lastErr = err
		return GestureNone
	}
	return MapGesture(topCategory(hands))
}

// EdgeFilter forwards a gesture only when it differs from the last one it
// forwarded, so a held pose fires once. GestureNone is never forwarded and
// does not reset the memory.
type EdgeFilter struct {
	last Gesture
}

// Filter returns g and true when g should reach the state machine.
func (f *EdgeFilter) Filter(g Gesture) (Gesture, bool) {
	if g == GestureNone || g == f.last {
		return GestureNone, false
	}
	f.last = g
	return g, true
}

// Last returns the most recently forwarded gesture.
func (f *EdgeFilter) Last() Gesture {
	return f.last
}

// Reset forgets the last forwarded gesture.
func (f *EdgeFilter) Reset() {
	f.last = GestureNone
}

// alwaysReady is a FrameSource for recognizers that do not look at pixels
// (keyboard, scripts).
type alwaysReady struct{}

func (alwaysReady) Ready() bool        { return true }
func (alwaysReady) Frame() image.Image { return nil }

// AlwaysReady returns a FrameSource that is always ready and yields a nil
// frame. Pair it with recognizers driven by something other than a camera.
func AlwaysReady() FrameSource {
	return alwaysReady{}
}
