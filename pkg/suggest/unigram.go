// Package suggest is the core: a proximity and edit tolerant walk over the binary
// trie that scores terminal matches and feeds them to the request's queue pool.
package suggest

import (
	"errors"
	"fmt"

	"github.com/bastiangx/keyserve/pkg/correction"
	"github.com/bastiangx/keyserve/pkg/flags"
	"github.com/bastiangx/keyserve/pkg/format"
	"github.com/bastiangx/keyserve/pkg/proximity"
	"github.com/bastiangx/keyserve/pkg/queue"
	"github.com/charmbracelet/log"
)

var (
	// ErrInputTooLong rejects inputs longer than MaxWordLength.
	ErrInputTooLong = errors.New("suggest: input too long")
	// ErrEmptyDictionary rejects a buffer without a root block.
	ErrEmptyDictionary = errors.New("suggest: empty dictionary")
	// ErrOptions reports unusable Options.
	ErrOptions = errors.New("suggest: invalid options")
)

// NotFound is the position returned when a lookup fails.
const NotFound = -1

// Options configure scoring, budgets and the split policy of a dictionary.
type Options struct {
	TypedLetterMultiplier int
	FullWordMultiplier    int
	// MaxWordLength bounds the input, the recursion depth and the output stride.
	MaxWordLength int
	// MaxWords is the capacity of each bucket and of the merged output.
	MaxWords             int
	MaxProximityChars    int
	MaxErrors            int
	MaxErrorsForTwoWords int
	MaxUmlautSearchDepth int

	SuggestMissingSpace   bool
	SuggestSpaceProximity bool
	MinSplitInputLength   int
	MinSplitWordLength    int

	Logger *log.Logger
}

// DefaultOptions returns the stock engine configuration.
func DefaultOptions() Options {
	return Options{
		TypedLetterMultiplier: 2,
		FullWordMultiplier:    2,
		MaxWordLength:         48,
		MaxWords:              18,
		MaxProximityChars:     proximity.MaxProximityChars,
		MaxErrors:             2,
		MaxErrorsForTwoWords:  1,
		MaxUmlautSearchDepth:  5,
		SuggestMissingSpace:   true,
		SuggestSpaceProximity: true,
		MinSplitInputLength:   3,
		MinSplitWordLength:    1,
	}
}

func (o Options) validate() error {
	switch {
	case o.MaxWordLength <= 0:
		return fmt.Errorf("max word length %d: %w", o.MaxWordLength, ErrOptions)
	case o.MaxWords <= 0:
		return fmt.Errorf("max words %d: %w", o.MaxWords, ErrOptions)
	case o.MaxProximityChars <= 0:
		return fmt.Errorf("max proximity chars %d: %w", o.MaxProximityChars, ErrOptions)
	case o.MaxErrors < 0 || o.MaxErrorsForTwoWords < 0 || o.MaxUmlautSearchDepth < 0:
		return fmt.Errorf("negative budget: %w", ErrOptions)
	case o.MinSplitWordLength <= 0:
		return fmt.Errorf("min split word length %d: %w", o.MinSplitWordLength, ErrOptions)
	}
	return nil
}

// UnigramDictionary searches one read-only trie buffer. It holds no per-request
// state, so any number of goroutines may search it at once as long as each brings
// its own Pool and Correction.
type UnigramDictionary struct {
	dict    []byte
	root    int
	header  format.Header
	opts    Options
	scoring correction.Scoring
	log     *log.Logger
}

// New wraps dict, which must stay unmodified for the lifetime of the dictionary.
func New(dict []byte, opts Options) (*UnigramDictionary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(dict) == 0 {
		return nil, ErrEmptyDictionary
	}
	h, err := format.ReadHeader(dict)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if _, _, err := format.ReadGroupCount(dict, h.Size); err != nil {
		return nil, fmt.Errorf("root block: %w", ErrEmptyDictionary)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	scoring := correction.DefaultScoring()
	scoring.TypedLetterMultiplier = opts.TypedLetterMultiplier
	scoring.FullWordMultiplier = opts.FullWordMultiplier
	return &UnigramDictionary{
		dict:    dict,
		root:    h.Size,
		header:  h,
		opts:    opts,
		scoring: scoring,
		log:     logger,
	}, nil
}

func (d *UnigramDictionary) Header() format.Header {
	return d.header
}

func (d *UnigramDictionary) Options() Options {
	return d.opts
}

// Root is the position of the root children block.
func (d *UnigramDictionary) Root() int {
	return d.root
}

// DefaultFlags returns the flags the dictionary header asks callers to pass.
func (d *UnigramDictionary) DefaultFlags() flags.Flags {
	if d.header.RequiresGermanUmlautProcessing() {
		return flags.RequiresGermanUmlautProcessing
	}
	return 0
}

// NewPool returns a queue pool sized for this dictionary.
func (d *UnigramDictionary) NewPool() *queue.Pool {
	return queue.NewPool(d.opts.MaxWords, queue.DefaultSubQueues)
}

// NewCorrection returns a correction tracker sized for this dictionary.
func (d *UnigramDictionary) NewCorrection() *correction.Correction {
	return correction.New(d.opts.MaxWordLength)
}

// IsValidWord reports whether word is stored as a surfacing word: its walk must end
// on a terminal group with a nonzero frequency that is not shortcut-only.
func (d *UnigramDictionary) IsValidWord(word []rune) bool {
	if len(word) == 0 || len(word) > d.opts.MaxWordLength {
		return false
	}
	g, ok, err := format.FindWord(d.dict, d.root, word)
	if err != nil {
		d.log.Warn("validity walk failed", "word", string(word), "err", err)
		return false
	}
	return ok && g.Frequency > 0 && !g.ShortcutOnly
}

// BigramPosition walks context from the children block at start (NotFound means the
// root) and looks for word among the bigrams of its terminal group. It returns the
// position of word's terminal group.
func (d *UnigramDictionary) BigramPosition(start int, context, word []rune) (int, bool) {
	if start < 0 {
		start = d.root
	}
	g, ok, err := format.FindWord(d.dict, start, context)
	if err != nil || !ok {
		return NotFound, false
	}
	target, ok, err := format.FindWord(d.dict, d.root, word)
	if err != nil || !ok {
		return NotFound, false
	}
	it := g.Attributes(d.dict).Bigrams()
	for a, more := it.Next(); more; a, more = it.Next() {
		if a.Target == target.Pos {
			return a.Target, true
		}
	}
	if err := it.Err(); err != nil {
		d.log.Warn("bigram list unreadable", "context", string(context), "err", err)
	}
	return NotFound, false
}

// Suggest runs the fuzzy search for in and returns the merged candidates, best first.
// A nil pi uses the proximity codes carried by in.
func (d *UnigramDictionary) Suggest(pi proximity.Info, pool *queue.Pool, corr *correction.Correction, in *proximity.Input, f flags.Flags) ([]queue.Candidate, error) {
	if err := d.collect(pi, pool, corr, in, f); err != nil {
		return nil, err
	}
	return pool.Suggestions(d.opts.MaxWords), nil
}

// GetSuggestions runs the fuzzy search and writes the results into outWords, one
// MaxWordLength stride per word, with the scores in outFreqs. It returns the number
// of words written.
func (d *UnigramDictionary) GetSuggestions(pi proximity.Info, pool *queue.Pool, corr *correction.Correction, in *proximity.Input, f flags.Flags, outWords []rune, outFreqs []int) (int, error) {
	if err := d.collect(pi, pool, corr, in, f); err != nil {
		return 0, err
	}
	if len(outFreqs) > d.opts.MaxWords {
		outFreqs = outFreqs[:d.opts.MaxWords]
	}
	return pool.Output(outWords, outFreqs, d.opts.MaxWordLength), nil
}

func (d *UnigramDictionary) collect(pi proximity.Info, pool *queue.Pool, corr *correction.Correction, in *proximity.Input, f flags.Flags) error {
	if err := f.Validate(); err != nil {
		return err
	}
	n := in.Len()
	if n > d.opts.MaxWordLength {
		return fmt.Errorf("%d positions, max %d: %w", n, d.opts.MaxWordLength, ErrInputTooLong)
	}
	pool.Clear()
	if n == 0 {
		return nil
	}
	if pi == nil {
		pi = proximity.CodesInfo{}
	}

	s := d.newSearcher(pi, corr, f)
	if f.Has(flags.RequiresGermanUmlautProcessing) {
		s.searchDigraphs(pool.Master, in, 0, 0)
	} else {
		s.searchWord(pool.Master, in)
	}
	if s.err == nil {
		s.searchSplits(pool, in)
	}
	if s.err != nil {
		return fmt.Errorf("search %q: %w", in.String(), s.err)
	}
	d.log.Debug("search done",
		"input", in.String(),
		"flags", f,
		"walks", s.walks,
		"groups", s.groups,
		"pushed", s.pushed,
		"words", pool.Master.Len(),
		"two_words", pool.TwoWords.Len())
	return nil
}
