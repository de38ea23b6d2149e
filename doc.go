// Package evergreen drives a gesture-controlled point-cloud installation on
// [Ebitengine].
//
// A cloud of tens of thousands of particles morphs between a cone ("tree")
// and a sphere shell ("scatter"), snow falls through the scene, and a set of
// photos floats in space. A hand-gesture classifier watching a camera steers
// it all: a fist gathers the tree, an open palm scatters it, a pinch pulls the
// nearest photo in front of the viewer.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you. Without a recognizer the keyboard stands in for the camera
// (F fist, O open palm, P pinch):
//
//	scene := evergreen.NewScene(evergreen.DefaultConfig())
//	scene.SpawnPhotos(evergreen.PlaceholderAssets(4))
//	evergreen.Run(scene, evergreen.RunConfig{Title: "evergreen", ShowFPS: true})
//
// For full control, call [Scene.Tick] with your own [Surface]:
//
//	scene.Tick(dt, evergreen.SurfaceFunc(func(f *evergreen.Frame) {
//		// upload f.Cloud, f.CloudColors, f.Snow; pose f.Photos
//	}))
//
// # Frame order
//
// Every tick runs, in order: gesture poll, edge filter, state machine,
// snowfall, morph, focus animation, render. Nothing blocks the tick; a slow
// classifier belongs behind [AsyncRecognizer].
//
// # Gestures
//
// A [Recognizer] returns ranked categories per hand. The top category of the
// first hand is mapped by [MapGesture] and passed through an [EdgeFilter] so
// a held pose fires once. Missing cameras, missing hands and unknown names
// are all "no gesture", never errors.
//
// The remote package accepts classifications from another process over a
// WebSocket, and the term package previews the scene in a terminal.
//
// # Configuration
//
// [Config] holds every tunable. [LoadConfigFile] reads JSON, TOML or YAML on
// top of [DefaultConfig]; [ConfigWatcher] reloads the file on save and
// [Scene.ApplyConfig] applies the live-tunable fields.
//
// # Observers
//
// [EventSink] implementations receive every mode change. The HUD banner, the
// chime package and the ecs package (via [Donburi]) are sinks.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package evergreen
