package dictionary

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/bastiangx/keyserve/pkg/format"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// DefaultMaxWordLength matches the longest word the engine searches for.
const DefaultMaxWordLength = 48

// ErrLayout reports a builder layout that did not match its own encoding.
var ErrLayout = errors.New("dictionary: layout mismatch")

// BuildOptions control the compiled trie.
type BuildOptions struct {
	GermanUmlautProcessing bool
	// Headerless omits the dictionary header; the root block then starts at offset 0.
	Headerless    bool
	MaxWordLength int
}

// Builder compiles words into the binary trie format.
type Builder struct {
	words   *patricia.Trie
	opts    BuildOptions
	count   int
	skipped int
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts BuildOptions) *Builder {
	if opts.MaxWordLength <= 0 {
		opts.MaxWordLength = DefaultMaxWordLength
	}
	return &Builder{words: patricia.NewTrie(), opts: opts}
}

// Len is the number of distinct words added so far.
func (b *Builder) Len() int {
	return b.count
}

// Skipped is the number of words dropped for exceeding MaxWordLength.
func (b *Builder) Skipped() int {
	return b.skipped
}

// Has reports whether word was added.
func (b *Builder) Has(word string) bool {
	return b.words.Match(patricia.Prefix(word))
}

// AddWord adds a plain word.
func (b *Builder) AddWord(word string, freq int) error {
	return b.Add(Entry{Word: word, Freq: freq})
}

// Add adds an entry. Adding a word twice keeps the higher frequency and the union of
// its links; a word stays shortcut-only only while every addition says so.
func (b *Builder) Add(e Entry) error {
	if e.Word == "" {
		return fmt.Errorf("empty word: %w", ErrSyntax)
	}
	if e.Freq < 0 || e.Freq > format.MaxFrequency {
		return fmt.Errorf("%q frequency %d: %w", e.Word, e.Freq, format.ErrMalformed)
	}
	for _, t := range append(append([]Target(nil), e.Shortcuts...), e.Bigrams...) {
		if t.Word == "" || t.Freq < 0 || t.Freq > format.MaxAttributeFrequency {
			return fmt.Errorf("%q link %q frequency %d: %w", e.Word, t.Word, t.Freq, format.ErrMalformed)
		}
	}
	if utf8.RuneCountInString(e.Word) > b.opts.MaxWordLength {
		log.Warnf("Skipping %q: longer than %d characters", e.Word, b.opts.MaxWordLength)
		b.skipped++
		return nil
	}

	key := patricia.Prefix(e.Word)
	if item := b.words.Get(key); item != nil {
		prev := item.(*Entry)
		prev.Freq = max(prev.Freq, e.Freq)
		prev.ShortcutOnly = prev.ShortcutOnly && e.ShortcutOnly
		prev.Shortcuts = mergeTargets(prev.Shortcuts, e.Shortcuts)
		prev.Bigrams = mergeTargets(prev.Bigrams, e.Bigrams)
		return nil
	}
	stored := e
	stored.Shortcuts = mergeTargets(nil, e.Shortcuts)
	stored.Bigrams = mergeTargets(nil, e.Bigrams)
	b.words.Insert(key, &stored)
	b.count++
	return nil
}

// AddList adds every entry of wl and adopts its header options.
func (b *Builder) AddList(wl *WordList) error {
	if wl.GermanUmlautProcessing {
		b.opts.GermanUmlautProcessing = true
	}
	for _, e := range wl.Entries {
		if err := b.Add(e); err != nil {
			return err
		}
	}
	return nil
}

func mergeTargets(dst, src []Target) []Target {
outer:
	for _, t := range src {
		for i := range dst {
			if dst[i].Word == t.Word {
				dst[i].Freq = max(dst[i].Freq, t.Freq)
				continue outer
			}
		}
		dst = append(dst, t)
	}
	return dst
}

// entries returns every stored entry sorted by word. Link targets that were never
// added become frequency zero words so every link has a group to point at.
func (b *Builder) entries() ([]*Entry, error) {
	var out []*Entry
	err := b.words.Visit(func(_ patricia.Prefix, item patricia.Item) error {
		out = append(out, item.(*Entry))
		return nil
	})
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, e := range out {
		for _, t := range append(append([]Target(nil), e.Shortcuts...), e.Bigrams...) {
			if !b.Has(t.Word) {
				missing = append(missing, t.Word)
			}
		}
	}
	for _, w := range missing {
		if b.Has(w) {
			continue
		}
		if err := b.AddWord(w, 0); err != nil {
			return nil, err
		}
		if b.Has(w) {
			log.Debugf("Added link target %q as a frequency 0 word", w)
			out = append(out, b.words.Get(patricia.Prefix(w)).(*Entry))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out, nil
}

// Build compiles the added words.
func (b *Builder) Build() ([]byte, error) {
	entries, err := b.entries()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	root := newTree(entries)
	l := newLayout(root, b.opts)
	if err := l.settle(); err != nil {
		return nil, err
	}
	buf, err := l.encode()
	if err != nil {
		return nil, err
	}
	log.Debugf("Built dictionary: %d words, %d groups, %d bytes", len(entries), l.groups, len(buf))
	return buf, nil
}
