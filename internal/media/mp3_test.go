package media

import (
	"bytes"
	"testing"
)

func TestCanProbe(t *testing.T) {
	tests := map[string]bool{
		"episode.mp3":  true,
		"EPISODE.MP3":  true,
		"episode.wav":  false,
		"episode.mp3x": false,
	}
	for name, want := range tests {
		if got := CanProbe(name); got != want {
			t.Fatalf("CanProbe(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestDuration_RejectsGarbage(t *testing.T) {
	if _, err := Duration(bytes.NewReader([]byte("not an mp3 at all"))); err == nil {
		t.Fatal("expected decode error")
	}
}
