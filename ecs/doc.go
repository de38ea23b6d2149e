// Package ecs provides ECS adapters for evergreen's transition events.
//
// The primary adapter is [NewDonburiSink], which bridges evergreen scene
// transitions (tree, scatter, focus) into a [Donburi] world as typed events.
// Subscribe to [TransitionEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.AddEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
