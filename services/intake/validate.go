package intake

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	phoneRe      = regexp.MustCompile(`^\+?\d{10,15}$`)
	phoneStripRe = regexp.MustCompile(`[^\d+]`)
)

// ValidFullName accepts at least two whitespace-separated tokens and at
// least five characters total.
func ValidFullName(s string) bool {
	s = strings.TrimSpace(s)
	return len(strings.Fields(s)) >= 2 && utf8.RuneCountInString(s) >= 5
}

// NormalizePhone strips everything but digits and the leading plus.
func NormalizePhone(s string) string {
	return phoneStripRe.ReplaceAllString(s, "")
}

// ValidPhone checks an already normalized number: optional plus, 10-15
// digits.
func ValidPhone(normalized string) bool {
	return phoneRe.MatchString(normalized)
}

// ValidTopic requires at least three characters.
func ValidTopic(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= 3
}

var (
	yesWords = map[string]struct{}{"да": {}, "yes": {}, "иә": {}}
	noWords  = map[string]struct{}{"нет": {}, "no": {}, "жоқ": {}}
)

func isYes(s string) bool {
	_, ok := yesWords[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func isNo(s string) bool {
	_, ok := noWords[strings.ToLower(strings.TrimSpace(s))]
	return ok
}
