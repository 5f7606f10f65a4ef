package subtitle

import (
	"strings"
	"testing"
)

const srtSample = `1
00:00:00,000 --> 00:00:01,830
I'm happy to
have you here today.

2
00:00:01,910 --> 00:00:03,610
As I'm sure <i>you're</i> all aware.
`

const vttSample = `WEBVTT

00:12.000 --> 00:15.250 Hello there.

00:15.300 --> 00:18.000
General greeting.
`

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Format
	}{
		{"srt ranges", srtSample, FormatTimed},
		{"webvtt header", "WEBVTT\n\nsome text", FormatTimed},
		{"bare seconds range", "3.000 --> 5.500\nhi", FormatTimed},
		{"plain prose", "First paragraph.\n\nSecond paragraph.", FormatPlain},
		{"arrow without times", "look --> here", FormatPlain},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.in); got != tc.want {
				t.Fatalf("Detect = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParse_SRT(t *testing.T) {
	cues := Parse(srtSample)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "I'm happy to have you here today." {
		t.Fatalf("unexpected text: %q", cues[0].Text)
	}
	if cues[0].Start == nil || *cues[0].Start != 0 {
		t.Fatalf("unexpected start: %v", cues[0].Start)
	}
	if cues[0].End == nil || *cues[0].End != 1.83 {
		t.Fatalf("unexpected end: %v", cues[0].End)
	}
	// Markup tags never survive parsing.
	if cues[1].Text != "As I'm sure you're all aware." {
		t.Fatalf("tags not stripped: %q", cues[1].Text)
	}
	for _, c := range cues {
		if strings.Contains(c.Text, "-->") {
			t.Fatalf("range token leaked into text: %q", c.Text)
		}
	}
}

func TestParse_VTTHeaderAndInlineText(t *testing.T) {
	cues := Parse(vttSample)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	// Text trailing the range line on the same line is kept.
	if cues[0].Text != "Hello there." {
		t.Fatalf("unexpected inline text: %q", cues[0].Text)
	}
	if cues[0].Start == nil || *cues[0].Start != 12 {
		t.Fatalf("unexpected start: %v", cues[0].Start)
	}
}

func TestParse_DropsEmptyBlocks(t *testing.T) {
	in := "1\n00:00:01,000 --> 00:00:02,000\n<v Narrator></v>\n\n2\n00:00:02,000 --> 00:00:03,000\nKept.\n"
	cues := Parse(in)
	if len(cues) != 1 || cues[0].Text != "Kept." {
		t.Fatalf("unexpected cues: %+v", cues)
	}
}

func TestParse_Plain(t *testing.T) {
	in := "First  block\ncontinues here.\n\n\nSecond block.\n\n   \n"
	cues := Parse(in)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "First block continues here." {
		t.Fatalf("whitespace not collapsed: %q", cues[0].Text)
	}
	if cues[0].Start != nil || cues[0].End != nil {
		t.Fatal("plain cues must carry no timing")
	}
}
