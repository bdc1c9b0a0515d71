package semantic

import (
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
)

// Words shorter than this keep their surface form; two-letter fragments
// stem to nonsense.
const minStemLength = 3

// Stem lowercases a word and reduces it to its Porter2 stem.
func Stem(word string) string {
	word = strings.ToLower(word)
	if len(word) < minStemLength {
		return word
	}
	return porter2.Stem(word)
}

// Tokens splits free text into lowercase word tokens.
func Tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// StemmedTokens splits text into tokens and stems each one.
func StemmedTokens(text string) []string {
	tokens := Tokens(text)
	for i, tok := range tokens {
		tokens[i] = Stem(tok)
	}
	return tokens
}

// Matches reports whether pattern matches text. Plain matching is a
// case-insensitive substring test. Stemmed matching requires every stemmed
// pattern word to appear among the stemmed words of the text, so "parsing"
// finds "parse".
func Matches(pattern, text string, stem bool) bool {
	if !stem {
		return strings.Contains(strings.ToLower(text), strings.ToLower(pattern))
	}
	want := StemmedTokens(pattern)
	if len(want) == 0 {
		return false
	}
	have := make(map[string]bool)
	for _, tok := range StemmedTokens(text) {
		have[tok] = true
	}
	for _, tok := range want {
		if !have[tok] {
			return false
		}
	}
	return true
}
