package main

import (
	"testing"
	"time"

	"github.com/muesli/termenv"
)

func TestProfileFor(t *testing.T) {
	tests := []struct {
		term    string
		environ []string
		want    termenv.Profile
	}{
		{"xterm-256color", nil, termenv.ANSI256},
		{"xterm-256color", []string{"LANG=C", "COLORTERM=truecolor"}, termenv.TrueColor},
		{"xterm-direct", nil, termenv.TrueColor},
		{"vt100", nil, termenv.ANSI},
		{"dumb", nil, termenv.Ascii},
		{"", []string{"COLORTERM=yes"}, termenv.Ascii},
	}
	for _, tt := range tests {
		if got := profileFor(tt.term, tt.environ); got != tt.want {
			t.Errorf("profileFor(%q, %v) = %v, want %v", tt.term, tt.environ, got, tt.want)
		}
	}
}

func TestSizeTracker(t *testing.T) {
	s := newSizeTracker(80, 24)
	s.update(120, 40)

	w, h, err := s.getSize()
	if err != nil || w != 120 || h != 40 {
		t.Errorf("getSize = %d, %d, %v; want 120, 40, nil", w, h, err)
	}
}

func TestGameHandlerWait(t *testing.T) {
	var h gameHandler
	if !h.wait(time.Second) {
		t.Error("wait with no sessions should return immediately")
	}
}
