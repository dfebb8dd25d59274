package retrieval

import (
	"regexp"
	"strings"
)

// Character whitelist: latin, Cyrillic, digits and the Kazakh extended
// letters. Everything else becomes a space before scoring.
var (
	nonAlphabetRe  = regexp.MustCompile(`[^a-zа-я0-9әғқңөұүһі\s]+`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	kazakhLetterRe = regexp.MustCompile(`[ӘәҒғҚқҢңӨөҰұҮүҺһІі]`)
)

// Normalize lowercases the text, folds ё to е, strips everything outside the
// alphabet whitelist and collapses whitespace. Applied to both queries and
// corpus text so the two sides score on equal footing.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "ё", "е")
	s = nonAlphabetRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens splits normalized text into a token set.
func Tokens(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(normalized) {
		set[tok] = struct{}{}
	}
	return set
}

// IsKazakhText reports whether the text contains Kazakh-specific letters;
// used to pick the language of canned fallback replies.
func IsKazakhText(s string) bool {
	return kazakhLetterRe.MatchString(s)
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}

// truncateRunes bounds text length in runes, protecting the quadratic
// similarity pass from very long entries.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
