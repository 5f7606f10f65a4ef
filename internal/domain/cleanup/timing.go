package cleanup

import (
	"regexp"
	"strings"

	"github.com/forthview/scribe/internal/domain/timecode"
)

const timeToken = `(?:\d{1,2}:)?\d{1,2}:\d{2}(?:[.,]\d{3})?|\d+(?:[.,]\d{3})`

var rangeLineRe = regexp.MustCompile(`(?i)^\s*(` + timeToken + `)\s*-->\s*(` + timeToken + `)(?:\s+(.*))?$`)

// StripTiming removes time-range lines that survived import inside segment
// text. When a range is found its start/end are returned so the caller can
// backfill the segment's timing; text trailing the range on the same line is
// kept. The cleaned text is whitespace-collapsed.
func StripTiming(text string) (clean string, start, end *float64) {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		m := rangeLineRe.FindStringSubmatch(line)
		if m == nil {
			kept = append(kept, line)
			continue
		}
		if s, err := timecode.Parse(m[1]); err == nil {
			start = &s
		}
		if e, err := timecode.Parse(m[2]); err == nil {
			end = &e
		}
		if rest := strings.TrimSpace(m[3]); rest != "" {
			kept = append(kept, rest)
		}
	}
	return collapse(strings.Join(kept, " ")), start, end
}
