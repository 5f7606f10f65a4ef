// Package cleanup holds the text-normalization rules applied transcript-wide:
// leftover timing-cue removal, filler-word stripping and misspelled-name
// fixes. The rules are data (Config), not code, so the filler list and name
// map can be extended without rebuilding.
package cleanup

import (
	"regexp"
	"sort"
	"strings"
)

// Config carries the injectable rule tables. Keys of NameMap must be
// lower case; values are the canonical spellings substituted into text and
// speaker labels.
type Config struct {
	Fillers []string
	NameMap map[string]string

	fillerRes []*regexp.Regexp
	nameRes   []nameRule
}

type nameRule struct {
	re        *regexp.Regexp
	canonical string
}

// DefaultFillers mirrors the filler set the editor shipped with. Multi-word
// phrases are listed too; Compile orders them before single words so that
// removing "kind of" never strands an "of".
var DefaultFillers = []string{"kind of", "uh", "um", "just"}

// Compile builds the regex rule tables. Call once after assembling Config.
func (c *Config) Compile() {
	fillers := append([]string(nil), c.Fillers...)
	sort.SliceStable(fillers, func(i, j int) bool {
		return strings.Count(fillers[i], " ") > strings.Count(fillers[j], " ")
	})
	c.fillerRes = c.fillerRes[:0]
	for _, f := range fillers {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		c.fillerRes = append(c.fillerRes, wordRe(f))
	}

	keys := make([]string, 0, len(c.NameMap))
	for k := range c.NameMap {
		keys = append(keys, k)
	}
	// Longer keys first so "crew dark" wins over a hypothetical "crew".
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	c.nameRes = c.nameRes[:0]
	for _, k := range keys {
		c.nameRes = append(c.nameRes, nameRule{re: wordRe(k), canonical: c.NameMap[k]})
	}
}

func wordRe(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
}

var (
	headerRe = regexp.MustCompile(`(?i)^WEBVTT$`)
	spaceRe  = regexp.MustCompile(`\s+`)
	wordish  = regexp.MustCompile(`[\p{L}\p{N}]`)
)

// IsHeader reports whether the whole text is a subtitle header marker.
func IsHeader(text string) bool {
	return headerRe.MatchString(strings.TrimSpace(text))
}

// StripFillers removes standalone filler words/phrases, whole-word and
// case-insensitive, then collapses whitespace.
func (c *Config) StripFillers(text string) string {
	out := text
	for _, re := range c.fillerRes {
		out = re.ReplaceAllString(out, " ")
	}
	return collapse(out)
}

// FixNames substitutes known misspellings with canonical names across the
// text, whole-word (or whole-phrase) and case-insensitive.
func (c *Config) FixNames(text string) string {
	out := text
	for _, r := range c.nameRes {
		out = r.re.ReplaceAllString(out, r.canonical)
	}
	return out
}

// NormalizeSpeaker maps a speaker label through the name table. Only exact
// full-string matches count; partial hits would rename unrelated labels.
func (c *Config) NormalizeSpeaker(name string) string {
	if name == "" {
		return name
	}
	if good, ok := c.NameMap[strings.ToLower(strings.TrimSpace(name))]; ok {
		return good
	}
	return name
}

// Empty reports whether cleaned text carries no content worth keeping:
// nothing, or punctuation left behind by filler removal.
func Empty(text string) bool {
	return !wordish.MatchString(text)
}

// Collapse squeezes runs of whitespace to single spaces and trims the ends.
func Collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func collapse(s string) string { return Collapse(s) }
