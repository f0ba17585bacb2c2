package score

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// minStemLength is the shortest token that gets stemmed
const minStemLength = 4

// Tokenize lowercases text, treats every non-alphanumeric rune as a separator,
// and stems tokens of minStemLength or more runes
func Tokenize(text string, stem bool) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})

	if !stem {
		return fields
	}
	for i, tok := range fields {
		if len(tok) >= minStemLength && !isNumeric(tok) {
			fields[i] = english.Stem(tok, true)
		}
	}
	return fields
}

func isNumeric(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
