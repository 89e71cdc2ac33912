package utils

import (
	"unicode"
)

// Casing describes how a typed word was capitalized.
type Casing int

const (
	CasingLower Casing = iota
	CasingFirstUpper
	CasingAllUpper
)

// DetectCasing inspects the letters of typed.
func DetectCasing(typed []rune) Casing {
	letters, upper := 0, 0
	first := false
	for _, r := range typed {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
			if letters == 1 {
				first = true
			}
		}
	}
	switch {
	case letters > 1 && upper == letters:
		return CasingAllUpper
	case first:
		return CasingFirstUpper
	}
	return CasingLower
}

// ApplyCasing rewrites word to follow casing. Lowercase input leaves the word as stored.
func ApplyCasing(word string, casing Casing) string {
	switch casing {
	case CasingAllUpper:
		r := []rune(word)
		for i := range r {
			r[i] = unicode.ToUpper(r[i])
		}
		return string(r)
	case CasingFirstUpper:
		r := []rune(word)
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		return string(r)
	}
	return word
}
