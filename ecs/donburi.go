// Package ecs provides ECS adapters for evergreen.
package ecs

import (
	"github.com/phanxgames/evergreen"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TransitionEventType is the Donburi event type for evergreen transitions.
// Subscribe to this in your ECS systems to react to tree, scatter and focus.
var TransitionEventType = events.NewEventType[evergreen.TransitionEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Transitions are published to TransitionEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) evergreen.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event evergreen.TransitionEvent) {
	TransitionEventType.Publish(s.world, event)
}
