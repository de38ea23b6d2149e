package evergreen

import "testing"

func TestHUDBannerFades(t *testing.T) {
	h := NewHUD(false)
	h.EmitEvent(TransitionEvent{From: ModeScatter, To: ModeTree})

	text, alpha := h.Banner()
	if text != "TREE" || alpha != 1 {
		t.Fatalf("Banner = %q/%v, want TREE/1", text, alpha)
	}

	h.Update(0.75)
	_, mid := h.Banner()
	if mid <= 0 || mid >= 1 {
		t.Errorf("alpha halfway = %v, want in (0, 1)", mid)
	}

	h.Update(1)
	if _, alpha := h.Banner(); alpha != 0 {
		t.Errorf("alpha after fade = %v, want 0", alpha)
	}
	if h.fade != nil {
		t.Error("fade tween should be released when done")
	}
}

func TestHUDRestartsFade(t *testing.T) {
	h := NewHUD(false)
	h.EmitEvent(TransitionEvent{To: ModeTree})
	h.Update(1.2)
	h.EmitEvent(TransitionEvent{To: ModeScatter})
	text, alpha := h.Banner()
	if text != "SCATTER" || alpha != 1 {
		t.Errorf("Banner = %q/%v, want SCATTER/1", text, alpha)
	}
}

func TestBannerText(t *testing.T) {
	tests := []struct {
		ev   TransitionEvent
		want string
	}{
		{TransitionEvent{To: ModeTree}, "TREE"},
		{TransitionEvent{To: ModeFocus, PhotoName: "lake"}, "FOCUS  lake"},
		{TransitionEvent{To: ModeFocus}, "FOCUS"},
	}
	for _, tt := range tests {
		if got := bannerText(tt.ev); got != tt.want {
			t.Errorf("bannerText(%+v) = %q, want %q", tt.ev, got, tt.want)
		}
	}
}

func TestHUDIsEventSink(t *testing.T) {
	s := newTestScene()
	h := NewHUD(false)
	s.AddEventSink(h)
	s.InjectGesture("Closed_Fist")
	s.Update(1.0 / 60)
	if text, _ := h.Banner(); text != "TREE" {
		t.Errorf("banner = %q, want TREE", text)
	}
}
