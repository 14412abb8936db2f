// Package enrich implements manifest-item normalization, external enrichment
// lookups, the merge resolver, and the batch orchestrator.
package enrich

import (
	"regexp"
	"strings"
	"unicode"

	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

var (
	// htmlTagRe matches HTML-like tags left over from vendor feeds.
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	// whitespaceRe matches runs of whitespace.
	whitespaceRe = regexp.MustCompile(`\s+`)
	// specialCharRe matches everything outside the allowed character set.
	specialCharRe = regexp.MustCompile(`[^\w\s.,()/\-]`)
)

// modelPatterns are tried in priority order; the first match wins.
// e.g. WH-1000XM4, HP-2550 / T480s, X1000 / 3070Ti, 5600X
var modelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z]{2,}-?\d{3,}[0-9A-Za-z]*\b`),
	regexp.MustCompile(`\b[A-Z]\d{3,}[A-Za-z]?\b`),
	regexp.MustCompile(`\b\d{3,}[A-Za-z]{1,3}\b`),
}

// brandAliases maps lowercased brand spellings to canonical names.
var brandAliases = map[string]string{
	"hp":              "HP",
	"hewlett packard": "HP",
	"hewlett-packard": "HP",
	"dell":            "Dell",
	"lenovo":          "Lenovo",
	"microsoft":       "Microsoft",
	"ms":              "Microsoft",
	"sony":            "Sony",
	"samsung":         "Samsung",
	"lg":              "LG",
	"apple":           "Apple",
	"intel":           "Intel",
	"amd":             "AMD",
}

// conditionMap maps lowercased free-text condition phrases to the closed
// condition vocabulary.
var conditionMap = map[string]domain.Condition{
	"new":            domain.ConditionNew,
	"brand new":      domain.ConditionNew,
	"factory sealed": domain.ConditionNew,
	"like new":       domain.ConditionLikeNew,
	"refurbished":    domain.ConditionRefurbished,
	"renewed":        domain.ConditionRefurbished,
	"used":           domain.ConditionUsed,
	"open box":       domain.ConditionOpenBox,
	"damaged":        domain.ConditionDamaged,
}

// NormalizeText strips HTML-like tags, collapses whitespace, and removes
// characters outside letters/digits/underscore/space and -.,()/ punctuation.
// Total function: never fails, empty input yields "".
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}

	s = htmlTagRe.ReplaceAllString(s, "")
	s = specialCharRe.ReplaceAllString(s, "")
	// Collapse last: dropping a character can butt two spaces together.
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// NormalizeBrand maps a brand spelling to its canonical name, falling back
// to title-casing unknown brands. Empty input stays empty, keeping "no
// brand" distinct from a failed alias lookup.
func NormalizeBrand(s string) string {
	if s == "" {
		return ""
	}

	key := strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := brandAliases[key]; ok {
		return canonical
	}

	return titleCase(strings.TrimSpace(s))
}

// NormalizeCondition maps a free-text condition phrase to the closed
// vocabulary. Unmapped or empty input yields ConditionUnknown.
func NormalizeCondition(s string) domain.Condition {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return domain.ConditionUnknown
	}

	if c, ok := conditionMap[key]; ok {
		return c
	}

	return domain.ConditionUnknown
}

// ExtractModelNumber pulls a model-number token out of a title using pattern
// heuristics. Patterns are scanned in priority order; "" when none match.
// The brand parameter is unused today but kept in the signature for future
// disambiguation between brands sharing model formats.
func ExtractModelNumber(title, brand string) string {
	_ = brand

	if title == "" {
		return ""
	}

	for _, p := range modelPatterns {
		if m := p.FindString(title); m != "" {
			return m
		}
	}

	return ""
}

// titleCase upper-cases the first letter of every word and lower-cases the
// rest, treating any non-letter as a word break.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}

	return b.String()
}
