package cleanup

import "testing"

func testConfig() *Config {
	c := &Config{
		Fillers: DefaultFillers,
		NameMap: map[string]string{
			"jonny":     "Johnny",
			"crew dark": "Crudark",
			"krudark":   "Crudark",
		},
	}
	c.Compile()
	return c
}

func TestStripFillers(t *testing.T) {
	c := testConfig()
	tests := map[string]string{
		"I was just kind of tired": "I was tired",
		"Um, okay":                 ", okay",
		"the adjustment holds":     "the adjustment holds", // no whole-word hit inside "adjustment"
		"UM JUST UH":               "",
		"kind of um just uh":       "",
	}
	for in, want := range tests {
		if got := c.StripFillers(in); got != want {
			t.Fatalf("StripFillers(%q) = %q, want %q", in, got, want)
		}
	}
}

// Multi-word phrases must go before single words, otherwise "just" inside
// no phrase but "of" from "kind of" would be stranded.
func TestStripFillers_MultiWordFirst(t *testing.T) {
	c := &Config{Fillers: []string{"um", "kind of"}}
	c.Compile()
	if got := c.StripFillers("it was kind of loud"); got != "it was loud" {
		t.Fatalf("stranded leftover: %q", got)
	}
}

func TestFixNames(t *testing.T) {
	c := testConfig()
	tests := map[string]string{
		"then JONNY spoke":       "then Johnny spoke",
		"the crew dark appeared": "the Crudark appeared",
		"krudark and jonny":      "Crudark and Johnny",
		"jonnyx is untouched":    "jonnyx is untouched",
	}
	for in, want := range tests {
		if got := c.FixNames(in); got != want {
			t.Fatalf("FixNames(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeSpeaker(t *testing.T) {
	c := testConfig()
	if got := c.NormalizeSpeaker("Jonny"); got != "Johnny" {
		t.Fatalf("NormalizeSpeaker = %q", got)
	}
	// Exact full-string matches only.
	if got := c.NormalizeSpeaker("Jonny B"); got != "Jonny B" {
		t.Fatalf("partial match renamed speaker: %q", got)
	}
	if got := c.NormalizeSpeaker("Alice"); got != "Alice" {
		t.Fatalf("unknown speaker changed: %q", got)
	}
}

func TestStripTiming(t *testing.T) {
	in := "00:00:05,000 --> 00:00:07,500\nstill here\n1:02 --> 1:05 trailing kept"
	clean, start, end := StripTiming(in)
	if clean != "still here trailing kept" {
		t.Fatalf("unexpected clean text: %q", clean)
	}
	if start == nil || *start != 5 {
		t.Fatalf("unexpected start: %v", start)
	}
	if end == nil || *end != 65 {
		t.Fatalf("unexpected end: %v", end)
	}
}

func TestStripTiming_NoRange(t *testing.T) {
	clean, start, end := StripTiming("plain  text\nsecond line")
	if clean != "plain text second line" || start != nil || end != nil {
		t.Fatalf("unexpected: %q %v %v", clean, start, end)
	}
}

func TestIsHeader(t *testing.T) {
	if !IsHeader(" WEBVTT ") || IsHeader("WEBVTT extra") || IsHeader("hello") {
		t.Fatal("header detection wrong")
	}
}

func TestEmpty(t *testing.T) {
	c := testConfig()
	// "Um, just." strips to punctuation only and must count as empty.
	if got := c.StripFillers("Um, just."); !Empty(got) {
		t.Fatalf("filler-only segment not empty after cleanup: %q", got)
	}
	if Empty("a.") {
		t.Fatal("real content flagged empty")
	}
	if !Empty("") || !Empty("  ,. !") {
		t.Fatal("punctuation-only text not flagged empty")
	}
}
