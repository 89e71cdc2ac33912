package utils

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// latinLimit covers Latin-1 and Latin Extended-A/B, the ranges keyboards emit most.
const latinLimit = 0x250

var baseLowerTable [latinLimit]rune

func init() {
	for r := rune(0); r < latinLimit; r++ {
		baseLowerTable[r] = foldRune(r)
	}
}

// BaseLower returns the lowercase base letter of r with diacritics removed,
// so 'Ü' and 'u' compare equal.
func BaseLower(r rune) rune {
	if r >= 0 && r < latinLimit {
		return baseLowerTable[r]
	}
	return foldRune(r)
}

// EqualBase reports whether a and b share a lowercase base letter.
func EqualBase(a, b rune) bool {
	return a == b || BaseLower(a) == BaseLower(b)
}

// FoldWord applies BaseLower to every rune of word.
func FoldWord(word []rune) []rune {
	out := make([]rune, len(word))
	for i, r := range word {
		out[i] = BaseLower(r)
	}
	return out
}

// StripAccents removes combining marks from s, keeping case.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func foldRune(r rune) rune {
	for _, d := range norm.NFD.String(string(r)) {
		if !unicode.Is(unicode.Mn, d) {
			return unicode.ToLower(d)
		}
	}
	return unicode.ToLower(r)
}
