package label

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Helpers that normalize extracted metadata strings (registered capital,
// establishment dates, romanized names) into the English display forms used
// on diagram nodes.

var numberRe = regexp.MustCompile(`[-+]?[0-9]*\.?[0-9]+`)

// NormalizeAmountToWan converts an amount string to the 万 (ten-thousand
// yuan) unit. "1000万元" stays 1000, "1亿元" becomes 10000, "500000元"
// becomes 50, and a bare number is assumed to already be in 万.
func NormalizeAmountToWan(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	hasYi := strings.Contains(raw, "亿")
	hasWan := strings.Contains(raw, "万")
	hasYuan := strings.Contains(raw, "元") && !hasYi && !hasWan

	m := numberRe.FindString(strings.ReplaceAll(raw, ",", ""))
	if m == "" {
		return 0, false
	}
	num, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}

	switch {
	case hasYi:
		return num * 10000, true
	case hasYuan:
		return num / 10000, true
	default:
		return num, true
	}
}

// FormatCapital renders an amount in 万 as "RMB{X}M", with X in millions
// and trailing zeros trimmed.
func FormatCapital(amountWan float64) string {
	x := amountWan / 100
	if x == float64(int64(x)) {
		return fmt.Sprintf("RMB%dM", int64(x))
	}
	s := strconv.FormatFloat(x, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return "RMB" + s + "M"
}

// CapitalLine builds the "Cap: RMB{X}M" label line from a raw capital
// string, reporting false when the amount cannot be parsed.
func CapitalLine(raw string) (string, bool) {
	wan, ok := NormalizeAmountToWan(raw)
	if !ok {
		return "", false
	}
	return "Cap: " + FormatCapital(wan), true
}

var monthNames = [...]string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var yearOnlyRe = regexp.MustCompile(`^\d{4}$`)
var flexDateRe = regexp.MustCompile(`(\d{4})(?:[-/.年 ](\d{1,2}))?`)

// EstablishedLine builds the "Established: {Month}.{Year}" label line, or
// "Established: {Year}" when only a year was supplied. Accepts YYYY,
// YYYY-MM, YYYY-MM-DD with -, / or . separators.
func EstablishedLine(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if yearOnlyRe.MatchString(s) {
		return "Established: " + s, true
	}
	m := flexDateRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	year := m[1]
	month := 1
	if m[2] != "" {
		if v, err := strconv.Atoi(m[2]); err == nil && v >= 1 && v <= 12 {
			month = v
		}
	}
	return fmt.Sprintf("Established: %s.%s", monthNames[month], year), true
}

// personal titles recognized in romanized names
var titles = []string{"mr.", "mrs.", "ms.", "dr.", "prof.", "sir.", "madam.", "miss."}

var titleSpacingRe = regexp.MustCompile(`(?i)\b(mr|mrs|ms|dr|prof|sir|madam|miss)\.(\p{L})`)

// abbreviations that keep a fixed casing, longest first
var specialAbbreviations = []struct{ from, to string }{
	{"co., ltd.", "Co., Ltd."},
	{"co., ltd", "Co., Ltd."},
	{"ltd.", "Ltd."},
	{"inc.", "Inc."},
	{"corp.", "Corp."},
	{"llc.", "LLC."},
	{"llp.", "LLP."},
	{"lp.", "LP."},
}

// FormatEnglishCompanyName normalizes an English company or person name to
// display casing: "LINO INVESTMENT HOLDING GROUP LIMITED" becomes "Lino
// Investment Holding Group Limited", "ms.shen Yingming" becomes
// "Ms. Shen Ying Ming". Run-together pinyin given names are separated.
func FormatEnglishCompanyName(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return s
	}

	// "Ms.shen" -> "Ms. shen"
	s = titleSpacingRe.ReplaceAllString(s, "$1. $2")

	if out, ok := formatPersonName(s); ok {
		return out
	}

	// company path: lowercase, restore fixed-case abbreviations, title-case
	s = strings.ToLower(s)
	for _, abbrev := range specialAbbreviations {
		s = strings.ReplaceAll(s, abbrev.from, abbrev.to)
	}
	words := strings.Fields(s)
	for i, w := range words {
		if isFixedCase(w) {
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// formatPersonName handles "[Title] Surname Givenname" shapes, separating a
// run-together pinyin given name. Returns false when the input does not look
// like a person name.
func formatPersonName(s string) (string, bool) {
	parts := strings.Fields(s)
	var title string
	if len(parts) > 1 && isTitle(parts[0]) {
		title = capitalize(strings.ToLower(parts[0]))
		parts = parts[1:]
	}

	switch len(parts) {
	case 1:
		given := parts[0]
		if title != "" && isAlpha(given) && len(given) >= 4 {
			if sep := SeparatePinyinName(given); sep != given {
				return title + " " + sep, true
			}
			return title + " " + capitalize(strings.ToLower(given)), true
		}
	case 2:
		surname, given := parts[0], parts[1]
		if isAlpha(surname) && isAlpha(given) && len(given) > 3 {
			if sep := SeparatePinyinName(given); sep != given {
				out := capitalize(strings.ToLower(surname)) + " " + sep
				if title != "" {
					out = title + " " + out
				}
				return out, true
			}
		}
		if title != "" && isAlpha(surname) && isAlpha(given) {
			return title + " " + capitalize(strings.ToLower(surname)) + " " + capitalize(strings.ToLower(given)), true
		}
	}
	return "", false
}

// run-together given names seen often enough to hardcode
var commonGivenNames = map[string]string{
	"lili":      "Li Li",
	"lishuo":    "Li Shuo",
	"bingjie":   "Bing Jie",
	"xiaoli":    "Xiao Li",
	"xiaoming":  "Xiao Ming",
	"yingming":  "Ying Ming",
	"weiming":   "Wei Ming",
	"yuankun":   "Yuan Kun",
	"xiaohong":  "Xiao Hong",
	"xiaofang":  "Xiao Fang",
	"xiaojun":   "Xiao Jun",
	"xiaoliang": "Xiao Liang",
	"xiaohui":   "Xiao Hui",
	"xiaoyan":   "Xiao Yan",
	"xiaojie":   "Xiao Jie",
	"xiaohua":   "Xiao Hua",
	"xiaojing":  "Xiao Jing",
	"xiaofeng":  "Xiao Feng",
	"xiaogang":  "Xiao Gang",
	"xiaohai":   "Xiao Hai",
}

// finals that bind to the preceding initial as one syllable
var pinyinFinals = []string{
	"iang", "iong", "uang", "ueng", "ian", "iao", "uan", "uai", "uei", "uen",
	"ing", "ang", "ong", "eng",
}

// SeparatePinyinName splits a run-together two-syllable pinyin given name:
// "yingming" becomes "Ying Ming". Returns the capitalized input unchanged
// when no plausible split is found.
func SeparatePinyinName(name string) string {
	if len(name) <= 3 {
		return capitalize(strings.ToLower(name))
	}
	lower := strings.ToLower(name)
	if sep, ok := commonGivenNames[lower]; ok {
		return sep
	}

	// split after a recognized final, scanning from the right
	for i := len(lower) - 2; i > 0; i-- {
		for _, final := range pinyinFinals {
			end := i + 1
			start := end - len(final)
			if start <= 0 {
				continue
			}
			if lower[start:end] == final {
				return capitalize(lower[:end]) + " " + capitalize(lower[end:])
			}
		}
	}

	// split before a retroflex initial
	for i := 1; i < len(lower)-1; i++ {
		two := lower[i : i+2]
		if two == "zh" || two == "ch" || two == "sh" {
			return capitalize(lower[:i]) + " " + capitalize(lower[i:])
		}
	}

	// even-length fallback
	if len(lower) > 4 && len(lower)%2 == 0 {
		mid := len(lower) / 2
		return capitalize(lower[:mid]) + " " + capitalize(lower[mid:])
	}
	return capitalize(lower)
}

func isTitle(word string) bool {
	w := strings.ToLower(word)
	for _, t := range titles {
		if w == t {
			return true
		}
	}
	return false
}

func isFixedCase(word string) bool {
	for _, abbrev := range specialAbbreviations {
		for _, part := range strings.Fields(abbrev.to) {
			if word == part {
				return true
			}
		}
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return s != ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
