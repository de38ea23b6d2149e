package evergreen

import (
	"errors"
	"image"
	"sync/atomic"
	"testing"
	"time"
)

// gatedRecognizer blocks every classification until the test releases it and
// records whether two ever overlapped.
type gatedRecognizer struct {
	gate    chan struct{}
	name    string
	err     error
	active  atomic.Int32
	overlap atomic.Bool
}

func (r *gatedRecognizer) Recognize(_ image.Image, _ int64) ([][]Category, error) {
	if r.active.Add(1) > 1 {
		r.overlap.Store(true)
	}
	defer r.active.Add(-1)
	<-r.gate
	if r.err != nil {
		return nil, r.err
	}
	return [][]Category{hand(r.name)}, nil
}

// pollUntil calls Recognize until it returns a result or an error.
func pollUntil(t *testing.T, a *AsyncRecognizer) ([][]Category, error) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hands, err := a.Recognize(nil, 0)
		if len(hands) > 0 || err != nil {
			return hands, err
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for classification")
	return nil, nil
}

func TestAsyncRecognizerNonBlocking(t *testing.T) {
	r := &gatedRecognizer{gate: make(chan struct{}), name: "Pinch"}
	t.Cleanup(func() { close(r.gate) })
	a := NewAsyncRecognizer(r)

	for i := 0; i < 5; i++ {
		hands, err := a.Recognize(nil, int64(i))
		if hands != nil || err != nil {
			t.Fatalf("call %d: got %v, %v before any result", i, hands, err)
		}
	}
	if !a.Busy() {
		t.Error("Busy = false, want true while classifying")
	}
	if r.overlap.Load() {
		t.Error("classifications overlapped")
	}
}

func TestAsyncRecognizerDeliversOnce(t *testing.T) {
	r := &gatedRecognizer{gate: make(chan struct{}), name: "Closed_Fist"}
	t.Cleanup(func() { close(r.gate) })
	a := NewAsyncRecognizer(r)

	a.Recognize(nil, 0)
	r.gate <- struct{}{}

	hands, err := pollUntil(t, a)
	if err != nil || MapGesture(topCategory(hands)) != GestureFist {
		t.Fatalf("result = %v, %v; want a fist", hands, err)
	}
	// The next classification is blocked on the gate, so nothing new lands.
	if hands, _ := a.Recognize(nil, 1); hands != nil {
		t.Errorf("result delivered twice: %v", hands)
	}
	if r.overlap.Load() {
		t.Error("classifications overlapped")
	}
}

func TestAsyncRecognizerError(t *testing.T) {
	boom := errors.New("model crashed")
	r := &gatedRecognizer{gate: make(chan struct{}), err: boom}
	t.Cleanup(func() { close(r.gate) })
	a := NewAsyncRecognizer(r)

	a.Recognize(nil, 0)
	r.gate <- struct{}{}
	if _, err := pollUntil(t, a); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestAsyncRecognizerInAdapter(t *testing.T) {
	r := &gatedRecognizer{gate: make(chan struct{}), name: "Open_Palm"}
	t.Cleanup(func() { close(r.gate) })
	adapter := GestureAdapter{Source: AlwaysReady(), Recognizer: NewAsyncRecognizer(r)}

	if g := adapter.Poll(0); g != GestureNone {
		t.Errorf("Poll = %v, want NONE while classifying", g)
	}
	r.gate <- struct{}{}
	deadline := time.Now().Add(2 * time.Second)
	for adapter.Poll(1) != GestureOpen {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for OPEN")
		}
		time.Sleep(time.Millisecond)
	}
}
