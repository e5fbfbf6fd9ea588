// Package label turns entity display names and metadata into multi-line,
// script-aware diagram labels. Corporate names mix CJK and Latin scripts and
// routinely exceed node width, so wrapping is heuristic rather than purely
// width-based.
package label

import (
	"regexp"
	"strings"
	"unicode"
)

// Break is the explicit line-break marker used inside composed labels.
// The Mermaid emitter passes it through escaping untouched; the vis.js
// emitter converts it to "\n".
const Break = "<br/>"

// cjkWrapThreshold is the rune count below which a pure-CJK name is left
// on a single line.
const cjkWrapThreshold = 10

// longWordThreshold is the character count beyond which a single Latin
// word is split at its midpoint.
const longWordThreshold = 12

// Meta carries the optional display metadata for one entity.
type Meta struct {
	EnglishName         string
	RegistrationCapital string
	EstablishmentDate   string
}

func (m Meta) empty() bool {
	return m.EnglishName == "" && m.RegistrationCapital == "" && m.EstablishmentDate == ""
}

// corporate suffixes that make natural CJK split points, longest first
var corporateSuffixes = []string{
	"股份有限公司",
	"有限责任公司",
	"集团有限公司",
	"有限公司",
	"合伙企业",
	"事务所",
	"集团",
}

// trailing parenthetical such as " (有限合伙)" or "(Obligor)"
var trailingParenRe = regexp.MustCompile(`\s*[(（][^()（）]*[)）]\s*$`)

// Lines renders an entity label as a list of display lines. With metadata
// present the label is composed (name, English name, capital, date); without
// it the bare name is wrapped by script-aware heuristics.
func Lines(name string, meta Meta) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if meta.empty() {
		return wrapName(name)
	}

	lines := []string{name}
	if meta.EnglishName != "" {
		english := FormatEnglishCompanyName(meta.EnglishName)
		lines = append(lines, splitHalves(english)...)
	}
	if cap, ok := CapitalLine(meta.RegistrationCapital); ok {
		lines = append(lines, cap)
	}
	if est, ok := EstablishedLine(meta.EstablishmentDate); ok {
		lines = append(lines, est)
	}
	return lines
}

// Format renders a label as a single string with explicit Break markers.
func Format(name string, meta Meta) string {
	return strings.Join(Lines(name, meta), Break)
}

// wrapName applies the script-aware wrapping heuristics to a bare name.
func wrapName(name string) []string {
	var suffix string
	if loc := trailingParenRe.FindStringIndex(name); loc != nil && loc[0] > 0 {
		suffix = strings.TrimSpace(name[loc[0]:])
		name = strings.TrimSpace(name[:loc[0]])
	}

	var lines []string
	hasCJK := ContainsCJK(name)
	hasLatin := containsLatin(name)

	switch {
	case hasCJK && hasLatin:
		cjk, latin := splitScripts(name)
		lines = append(lines, splitHalves(latin)...)
		if cjk != "" {
			lines = append(lines, cjk)
		}
	case hasCJK:
		lines = wrapCJK(name)
	default:
		lines = splitHalves(name)
	}

	if suffix != "" {
		lines = append(lines, suffix)
	}
	return lines
}

// wrapCJK splits a pure-CJK name. Short names stay on one line; longer ones
// split at a corporate suffix when it sits in the middle third, otherwise
// into three roughly-equal parts.
func wrapCJK(name string) []string {
	runes := []rune(name)
	n := len(runes)
	if n < cjkWrapThreshold {
		return []string{name}
	}

	lo, hi := n/3, 2*n/3+1
	for _, suffix := range corporateSuffixes {
		idx := strings.Index(name, suffix)
		if idx < 0 {
			continue
		}
		runeIdx := len([]rune(name[:idx]))
		if runeIdx >= lo && runeIdx <= hi {
			return []string{string(runes[:runeIdx]), string(runes[runeIdx:])}
		}
	}

	third := (n + 2) / 3
	var lines []string
	for i := 0; i < n; i += third {
		end := i + third
		if end > n {
			end = n
		}
		lines = append(lines, string(runes[i:end]))
	}
	return lines
}

// splitHalves word-wraps Latin text into two roughly-equal halves by word
// count. A lone very long word is char-split at its midpoint.
func splitHalves(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	words := strings.Fields(text)
	if len(words) >= 2 {
		mid := (len(words) + 1) / 2
		return []string{
			strings.Join(words[:mid], " "),
			strings.Join(words[mid:], " "),
		}
	}
	word := words[0]
	if len([]rune(word)) > longWordThreshold {
		runes := []rune(word)
		mid := len(runes) / 2
		return []string{string(runes[:mid]), string(runes[mid:])}
	}
	return []string{word}
}

// splitScripts partitions a mixed name into its CJK and Latin segments,
// each preserving original character order.
func splitScripts(name string) (cjk, latin string) {
	var cjkB, latinB strings.Builder
	for _, r := range name {
		if isCJK(r) {
			cjkB.WriteRune(r)
		} else {
			latinB.WriteRune(r)
		}
	}
	return strings.TrimSpace(cjkB.String()), strings.TrimSpace(latinB.String())
}

// ContainsCJK reports whether s contains at least one CJK ideograph.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if isCJK(r) {
			return true
		}
	}
	return false
}

func containsLatin(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && r < 0x2E80 {
			return true
		}
	}
	return false
}

func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // Extension A
		return true
	case r >= 0xF900 && r <= 0xFAFF: // Compatibility Ideographs
		return true
	}
	return false
}

// breakSentinel shields Break markers from the generic escaping pass.
const breakSentinel = "\x00BR\x00"

var whitespaceRe = regexp.MustCompile(`\s+`)

// EscapeMermaid makes a label safe for a quoted Mermaid node declaration.
// Intentional Break markers survive; everything else that could corrupt the
// notation (quotes, angle brackets, raw newlines) is rewritten.
func EscapeMermaid(text string) string {
	s := strings.ReplaceAll(text, Break, breakSentinel)
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, `"`, "#quot;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	s = strings.ReplaceAll(s, breakSentinel, Break)
	return strings.TrimSpace(s)
}
