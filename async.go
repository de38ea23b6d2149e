package evergreen

import "image"

type asyncResult struct {
	hands [][]Category
	err   error
}

// AsyncRecognizer runs a slow Recognizer off the frame tick. At most one
// classification is in flight; Recognize never blocks and returns no hands
// until a result has landed. A completed result is delivered exactly once.
//
// Frames handed to the wrapped recognizer must not be mutated by the camera
// afterwards.
type AsyncRecognizer struct {
	inner    Recognizer
	results  chan asyncResult
	inFlight bool
}

// NewAsyncRecognizer wraps r.
func NewAsyncRecognizer(r Recognizer) *AsyncRecognizer {
	return &AsyncRecognizer{
		inner:   r,
		results: make(chan asyncResult, 1),
	}
}

// Recognize collects a finished classification if there is one and starts a
// new one for frame when the worker is idle.
func (a *AsyncRecognizer) Recognize(frame image.Image, timestampMs int64) ([][]Category, error) {
	var res asyncResult
	select {
	case res = <-a.results:
		a.inFlight = false
	default:
	}
	if !a.inFlight {
		a.inFlight = true
		go func() {
			hands, err := a.inner.Recognize(frame, timestampMs)
			a.results <- asyncResult{hands: hands, err: err}
		}()
	}
	return res.hands, res.err
}

// Busy reports whether a classification is in flight.
func (a *AsyncRecognizer) Busy() bool {
	return a.inFlight
}
