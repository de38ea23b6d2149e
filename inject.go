package evergreen

// InjectGesture queues a classifier category name (for example "Closed_Fist")
// to be read instead of the recognizer on the next frame. Names go through
// the same mapping and edge filter as real classifications.
func (s *Scene) InjectGesture(name string) {
	s.injectQueue = append(s.injectQueue, name)
}

// InjectHold queues name for frames consecutive frames, as if the pose were
// held in front of the camera. Minimum is one frame.
func (s *Scene) InjectHold(name string, frames int) {
	if frames < 1 {
		frames = 1
	}
	for i := 0; i < frames; i++ {
		s.InjectGesture(name)
	}
}

// PendingInjections returns the number of queued synthetic frames.
func (s *Scene) PendingInjections() int {
	return len(s.injectQueue)
}
