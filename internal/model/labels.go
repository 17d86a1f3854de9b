package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler turns a CMS field name into the label shown when the form
// carries none: "firstName", "first_name" and "first-name" all become
// "First Name". Runs of capitals stay together, so "contactURL" is
// "Contact URL".
func DefaultLabeler(name string) string {
	words := labelWords(name)
	for i, word := range words {
		words[i] = capitalize(word)
	}
	return strings.Join(words, " ")
}

func labelWords(name string) []string {
	var (
		words []string
		word  []rune
	)
	flush := func() {
		if len(word) > 0 {
			words = append(words, string(word))
			word = word[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		if r == '_' || r == '-' || r == '.' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if i > 0 && len(word) > 0 && startsWord(runes, i) {
			flush()
		}
		word = append(word, r)
	}
	flush()
	return words
}

// startsWord reports a camelCase or letter/digit boundary before runes[i].
func startsWord(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(cur), unicode.IsDigit(prev) && unicode.IsLetter(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur):
		// "URLPath": the P opens a new word when a lower case letter follows.
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	}
	return false
}

func capitalize(word string) string {
	runes := []rune(word)
	if isAcronym(runes) {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func isAcronym(runes []rune) bool {
	if len(runes) < 2 {
		return false
	}
	for _, r := range runes {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
