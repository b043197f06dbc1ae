package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

const maxSlugLen = 120

// letters NFD leaves alone
var latinFolds = strings.NewReplacer("đ", "dj", "Đ", "dj", "ß", "ss", "æ", "ae", "ø", "o", "ł", "l")

// Slugify turns free text into [a-z0-9-]: diacritics stripped, runs of
// other characters collapsed into one hyphen, ends trimmed. Empty results
// fall back to "item".
func Slugify(s string) string {
	s = latinFolds.Replace(strings.ToLower(strings.TrimSpace(s)))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxSlugLen {
		s = strings.Trim(string([]rune(s)[:maxSlugLen]), "-")
	}
	if s == "" {
		s = "item"
	}
	return s
}
