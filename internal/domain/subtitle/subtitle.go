// Package subtitle classifies raw transcript text and parses it into cues.
// Two shapes are recognized: subtitle-style text (WEBVTT/SRT cue blocks with
// "start --> end" ranges) and plain prose split on blank lines.
package subtitle

import (
	"regexp"
	"strings"

	"github.com/forthview/scribe/internal/domain/timecode"
	"github.com/forthview/scribe/internal/types"
)

// Format tags the result of sniffing raw input.
type Format int

const (
	FormatPlain Format = iota
	FormatTimed
)

func (f Format) String() string {
	if f == FormatTimed {
		return "timed"
	}
	return "plain"
}

// timeToken matches H:MM:SS(.mmm), M:SS(.mmm) or bare seconds with a
// mandatory millisecond part (the bare form is only unambiguous with one).
const timeToken = `(?:\d{1,2}:)?\d{1,2}:\d{2}(?:[.,]\d{3})?|\d+(?:[.,]\d{3})`

var (
	headerRe    = regexp.MustCompile(`(?m)^WEBVTT`)
	headerOnly  = regexp.MustCompile(`(?i)^WEBVTT$`)
	cueIndexRe  = regexp.MustCompile(`^\d+$`)
	rangeLineRe = regexp.MustCompile(`(?i)^\s*(` + timeToken + `)\s*-->\s*(` + timeToken + `)(?:\s+(.*))?$`)
	sniffRe     = regexp.MustCompile(`(?:` + timeToken + `)\s*-->\s*(?:` + timeToken + `)`)
	tagRe       = regexp.MustCompile(`<[^>]+>`)
	spaceRe     = regexp.MustCompile(`\s+`)
	blockRe     = regexp.MustCompile(`\n\s*\n`)
)

// Detect decides how raw text should be parsed. It is a pure classifier;
// Parse applies the matching parser.
func Detect(text string) Format {
	if headerRe.MatchString(text) || sniffRe.MatchString(text) {
		return FormatTimed
	}
	return FormatPlain
}

// Parse splits raw text into ordered cues according to Detect.
func Parse(text string) []types.Cue {
	if Detect(text) == FormatTimed {
		return parseTimed(text)
	}
	return splitPlain(text)
}

// splitPlain turns blank-line separated blocks into untimed cues.
func splitPlain(text string) []types.Cue {
	var cues []types.Cue
	for _, block := range splitBlocks(text) {
		t := collapse(block)
		if t == "" {
			continue
		}
		cues = append(cues, types.Cue{Text: t})
	}
	return cues
}

// parseTimed walks cue blocks: optional numeric index line, a time-range
// line (possibly with trailing inline text), then content lines. Markup
// tags are stripped and blocks with no remaining text are dropped.
func parseTimed(text string) []types.Cue {
	var cues []types.Cue
	for _, block := range splitBlocks(text) {
		var lines []string
		for _, l := range strings.Split(block, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
		if len(lines) == 0 {
			continue
		}
		// A lone WEBVTT marker is the file header, not dialogue.
		if len(lines) == 1 && headerOnly.MatchString(lines[0]) {
			continue
		}

		i := 0
		if cueIndexRe.MatchString(lines[0]) {
			i = 1
		}

		var start, end *float64
		carry := ""
		if i < len(lines) {
			if m := rangeLineRe.FindStringSubmatch(lines[i]); m != nil {
				if s, err := timecode.Parse(m[1]); err == nil {
					start = &s
				}
				if e, err := timecode.Parse(m[2]); err == nil {
					end = &e
				}
				carry = strings.TrimSpace(m[3])
				i++
			}
		}

		parts := append([]string{carry}, lines[i:]...)
		content := collapse(tagRe.ReplaceAllString(strings.Join(parts, " "), ""))
		if content == "" {
			continue
		}
		cues = append(cues, types.Cue{Text: content, Start: start, End: end})
	}
	return cues
}

func splitBlocks(text string) []string {
	text = strings.ReplaceAll(text, "\r", "")
	return blockRe.Split(text, -1)
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
