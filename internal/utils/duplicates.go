package utils

// SuggestionFilter drops suggestions that collapse onto one another once casing
// has been applied, comparing words by their folded form.
type SuggestionFilter struct {
	seenWords map[string]bool
}

// NewSuggestionFilter creates an empty filter.
func NewSuggestionFilter() *SuggestionFilter {
	return &SuggestionFilter{seenWords: make(map[string]bool)}
}

// ShouldInclude reports whether word has not been seen yet and records it.
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	key := string(FoldWord([]rune(word)))
	if f.seenWords[key] {
		return false
	}
	f.seenWords[key] = true
	return true
}
