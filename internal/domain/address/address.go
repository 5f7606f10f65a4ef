// Package address rewrites who a segment is talking to: second-person
// forms become first-person-plural ("you" → "we"/"us"/"our") or a named
// third person with adjusted verbs and possessives.
//
// The engine is an ordered list of (pattern, replacement) rules applied as
// a pipeline. Ordering is load-bearing: contraction and auxiliary-inversion
// rules must run before the generic bare-"you" rule, or the generic rule
// eats the pronoun and leaves broken grammar behind. Keep new rules above
// the generic fallback.
package address

import (
	"regexp"
	"strings"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// Gender supplies the reflexive pronoun used when rewriting "yourself" for
// a named target.
type Gender struct {
	Reflexive string
}

var (
	Male    = Gender{Reflexive: "himself"}
	Female  = Gender{Reflexive: "herself"}
	Neutral = Gender{Reflexive: "themselves"}
)

// Rewriter applies address rewrites. Genders maps lower-cased names to
// their pronoun set; names not in the map fall back to Neutral.
type Rewriter struct {
	Genders map[string]Gender
}

// straight and curly apostrophes both occur in ASR output.
const apos = `['’]`

// prepositions whose object "you" becomes "us" (or the target name).
const preps = `to|for|with|at|from|of|by|about|like|than|around|near|after|before|without|between|among|over|under|inside|outside|into|onto|upon|beside|behind|within`

const auxes = `are|were|do|did|does|can|could|will|would|should|have|has|had`

var weRules = []rule{
	{regexp.MustCompile(`(?i)\byou` + apos + `re\b`), "we're"},
	{regexp.MustCompile(`(?i)\byou` + apos + `ve\b`), "we've"},
	{regexp.MustCompile(`(?i)\byou` + apos + `ll\b`), "we'll"},
	{regexp.MustCompile(`(?i)\byou` + apos + `d\b`), "we'd"},
	{regexp.MustCompile(`(?i)\byou are\b`), "we are"},
	{regexp.MustCompile(`(?i)\byou were\b`), "we were"},
	{regexp.MustCompile(`(?i)\byou have\b`), "we have"},
	{regexp.MustCompile(`(?i)\byou had\b`), "we had"},
	{regexp.MustCompile(`(?i)\b(` + auxes + `)\s+you\b`), "${1} we"},
	{regexp.MustCompile(`(?i)\byourself\b`), "ourselves"},
	{regexp.MustCompile(`(?i)\byourselves\b`), "ourselves"},
	{regexp.MustCompile(`(?i)\byours\b`), "ours"},
	{regexp.MustCompile(`(?i)\byour\b`), "our"},
	{regexp.MustCompile(`(?i)\b(` + preps + `)\s+you\b`), "${1} us"},
	// Generic fallback: must stay last.
	{regexp.MustCompile(`(?i)\byou\b`), "we"},
}

var sentenceWeRe = regexp.MustCompile(`(^|[.!?]\s+)we\b`)

// Rewrite dispatches on target: the literal "we" (any case) picks the
// first-person-plural pipeline, anything else is treated as a name.
// Unchanged output means there was nothing to rewrite; callers detect that
// by string equality.
func (rw Rewriter) Rewrite(text, target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return text
	}
	if strings.EqualFold(target, "we") {
		return rewriteToWe(text)
	}
	return rw.rewriteToName(text, target)
}

func rewriteToWe(text string) string {
	out := applyRules(text, weRules)
	// "we" needs a capital only where it starts a sentence.
	return sentenceWeRe.ReplaceAllString(out, "${1}We")
}

// nameRules are the name-target patterns with replacement templates; NAME
// and SELF are filled in per call. Ordering matters exactly as in weRules.
var nameRules = []struct {
	re   *regexp.Regexp
	tmpl string
}{
	{regexp.MustCompile(`(?i)\byou` + apos + `re\b`), "NAME's"},
	{regexp.MustCompile(`(?i)\byou` + apos + `ve\b`), "NAME has"},
	{regexp.MustCompile(`(?i)\byou` + apos + `ll\b`), "NAME will"},
	{regexp.MustCompile(`(?i)\byou` + apos + `d\b`), "NAME would"},
	{regexp.MustCompile(`(?i)\byou are\b`), "NAME is"},
	{regexp.MustCompile(`(?i)\bare you\b`), "is NAME"},
	{regexp.MustCompile(`(?i)\byou were\b`), "NAME was"},
	{regexp.MustCompile(`(?i)\bwere you\b`), "was NAME"},
	{regexp.MustCompile(`(?i)\byou have\b`), "NAME has"},
	{regexp.MustCompile(`(?i)\bhave you\b`), "has NAME"},
	{regexp.MustCompile(`(?i)\byou had\b`), "NAME had"},
	{regexp.MustCompile(`(?i)\bhad you\b`), "had NAME"},
	{regexp.MustCompile(`(?i)\byourself\b`), "SELF"},
	{regexp.MustCompile(`(?i)\bmyself\b`), "SELF"},
	{regexp.MustCompile(`(?i)\byours\b`), "NAME's"},
	{regexp.MustCompile(`(?i)\byour\b`), "NAME's"},
	{regexp.MustCompile(`(?i)\b(` + preps + `)\s+you\b`), "${1} NAME"},
	// Generic fallback: must stay last.
	{regexp.MustCompile(`(?i)\byou\b`), "NAME"},
}

func (rw Rewriter) rewriteToName(text, name string) string {
	g, ok := rw.Genders[strings.ToLower(name)]
	if !ok {
		g = Neutral
	}
	// "$" in a replacement would be read as a capture reference.
	safe := strings.ReplaceAll(name, "$", "$$")
	out := text
	for _, r := range nameRules {
		repl := strings.ReplaceAll(r.tmpl, "NAME", safe)
		repl = strings.ReplaceAll(repl, "SELF", g.Reflexive)
		out = r.re.ReplaceAllString(out, repl)
	}
	return out
}

func applyRules(text string, rules []rule) string {
	out := text
	for _, r := range rules {
		out = r.re.ReplaceAllString(out, r.repl)
	}
	return out
}
