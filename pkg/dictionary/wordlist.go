package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultFrequency is given to plain list words written without a frequency.
const DefaultFrequency = 128

var (
	// ErrEmpty reports a source without any word.
	ErrEmpty = errors.New("dictionary: no words")
	// ErrSyntax reports an unparsable word list line.
	ErrSyntax = errors.New("dictionary: syntax error")
)

// Target is a shortcut or bigram link to another word.
type Target struct {
	Word string
	Freq int
}

// Entry is one word with its links.
type Entry struct {
	Word string
	Freq int
	// ShortcutOnly words are matched but only surface through their shortcut targets.
	ShortcutOnly bool
	Shortcuts    []Target
	Bigrams      []Target
}

// WordList is a parsed source list.
type WordList struct {
	Entries                []Entry
	GermanUmlautProcessing bool
}

// ParseWordList reads either of the two text formats:
//
//	hello 200
//	world
//
// or the combined format, where indented lines attach to the preceding word:
//
//	dictionary=main:de,german_umlaut=true
//	 word=thx,f=120,not_a_word=true
//	  shortcut=thanks,f=14
//	 word=thanks,f=180
//	  bigram=you,f=9
//
// Blank lines and lines starting with '#' are skipped.
func ParseWordList(r io.Reader) (*WordList, error) {
	wl := &WordList{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var err error
		if isCombined(text) {
			err = wl.parseCombined(text)
		} else {
			err = wl.parsePlain(text)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(wl.Entries) == 0 {
		return nil, ErrEmpty
	}
	return wl, nil
}

func isCombined(text string) bool {
	key, _, ok := strings.Cut(text, "=")
	if !ok {
		return false
	}
	switch key {
	case "dictionary", "word", "shortcut", "bigram":
		return true
	}
	return false
}

func (wl *WordList) parsePlain(text string) error {
	fields := strings.Fields(text)
	e := Entry{Word: fields[0], Freq: DefaultFrequency}
	switch len(fields) {
	case 1:
	case 2:
		f, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("frequency %q: %w", fields[1], ErrSyntax)
		}
		e.Freq = f
	default:
		return fmt.Errorf("%d fields: %w", len(fields), ErrSyntax)
	}
	wl.Entries = append(wl.Entries, e)
	return nil
}

func (wl *WordList) parseCombined(text string) error {
	attrs := map[string]string{}
	var kind string
	for i, part := range strings.Split(text, ",") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return fmt.Errorf("attribute %q: %w", part, ErrSyntax)
		}
		if i == 0 {
			kind = k
		}
		attrs[k] = v
	}

	freq := 0
	if f, ok := attrs["f"]; ok {
		n, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("frequency %q: %w", f, ErrSyntax)
		}
		freq = n
	}

	switch kind {
	case "dictionary":
		wl.GermanUmlautProcessing = attrs["german_umlaut"] == "true"
	case "word":
		wl.Entries = append(wl.Entries, Entry{
			Word:         attrs["word"],
			Freq:         freq,
			ShortcutOnly: attrs["not_a_word"] == "true" || attrs["shortcut_only"] == "true",
		})
	case "shortcut", "bigram":
		if len(wl.Entries) == 0 {
			return fmt.Errorf("%s before any word: %w", kind, ErrSyntax)
		}
		last := &wl.Entries[len(wl.Entries)-1]
		t := Target{Word: attrs[kind], Freq: freq}
		if kind == "shortcut" {
			last.Shortcuts = append(last.Shortcuts, t)
		} else {
			last.Bigrams = append(last.Bigrams, t)
		}
	}
	return nil
}
