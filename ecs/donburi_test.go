package ecs

import (
	"testing"

	"github.com/phanxgames/evergreen"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []evergreen.TransitionEvent
	TransitionEventType.Subscribe(world, func(w donburi.World, e evergreen.TransitionEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(evergreen.TransitionEvent{
		Gesture: evergreen.GestureFist,
		From:    evergreen.ModeScatter,
		To:      evergreen.ModeTree,
		Frame:   7,
	})
	sink.EmitEvent(evergreen.TransitionEvent{
		Gesture:   evergreen.GesturePinch,
		From:      evergreen.ModeTree,
		To:        evergreen.ModeFocus,
		PhotoID:   2,
		PhotoName: "card-2",
	})

	// Events are queued; process them.
	TransitionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.To != evergreen.ModeTree || e.Frame != 7 {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.To != evergreen.ModeFocus || e.PhotoID != 2 {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiSink_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink evergreen.EventSink = NewDonburiSink(world)
	_ = sink // compile-time interface check
}

func TestDonburiSink_SceneTransitions(t *testing.T) {
	world := donburi.NewWorld()

	cfg := evergreen.DefaultConfig()
	cfg.Seed = 1
	cfg.ParticleCount = 32
	cfg.SnowCount = 8
	scene := evergreen.NewScene(cfg)
	scene.AddEventSink(NewDonburiSink(world))

	var modes []evergreen.Mode
	TransitionEventType.Subscribe(world, func(w donburi.World, e evergreen.TransitionEvent) {
		modes = append(modes, e.To)
	})

	noop := evergreen.SurfaceFunc(func(*evergreen.Frame) {})
	scene.InjectHold("Closed_Fist", 3)
	scene.InjectGesture("Open_Palm")
	for i := 0; i < 4; i++ {
		scene.Tick(1.0/60, noop)
	}
	events.ProcessAllEvents(world)

	if len(modes) != 2 || modes[0] != evergreen.ModeTree || modes[1] != evergreen.ModeScatter {
		t.Errorf("modes = %v, want [TREE SCATTER]", modes)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	TransitionEventType.Subscribe(world, func(w donburi.World, e evergreen.TransitionEvent) {
		count1++
	})
	TransitionEventType.Subscribe(world, func(w donburi.World, e evergreen.TransitionEvent) {
		count2++
	})

	sink.EmitEvent(evergreen.TransitionEvent{To: evergreen.ModeTree})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
