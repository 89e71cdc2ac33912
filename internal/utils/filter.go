package utils

import (
	"unicode"
)

// IsSeparator reports runes that may sit inside a typed word.
func IsSeparator(r rune) bool {
	return r == ' ' || r == '\'' || r == '-'
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string contains runes that are neither letters,
// digits nor separators.
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsValidInput checks if typed text is worth a suggestion search.
// Empty strings, pure numbers and text with special characters are rejected.
func IsValidInput(s string) bool {
	if len(s) == 0 {
		return false
	}
	if IsOnlyNumbers(s) {
		return false
	}
	return !ContainsSpecialChars(s)
}
