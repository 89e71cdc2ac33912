package suggest

import (
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/bastiangx/keyserve/pkg/dictionary"
	"github.com/bastiangx/keyserve/pkg/flags"
	"github.com/bastiangx/keyserve/pkg/format"
	"github.com/bastiangx/keyserve/pkg/proximity"
	"github.com/bastiangx/keyserve/pkg/queue"
	"github.com/hbollon/go-edlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWords = map[string]int{
	"cat":    40,
	"can":    20,
	"cap":    15,
	"nap":    30,
	"nip":    10,
	"catnip": 7,
	"the":    200,
	"then":   100,
	"than":   60,
	"über":   50,
	"Paris":  25,
	"zero":   0,
}

func entries(words map[string]int) []dictionary.Entry {
	var out []dictionary.Entry
	for w, f := range words {
		out = append(out, dictionary.Entry{Word: w, Freq: f})
	}
	return out
}

func build(t *testing.T, opts dictionary.BuildOptions, es ...dictionary.Entry) []byte {
	t.Helper()
	b := dictionary.NewBuilder(opts)
	for _, e := range es {
		require.NoError(t, b.Add(e))
	}
	data, err := b.Build()
	require.NoError(t, err)
	return data
}

func newDict(t *testing.T, data []byte, tweak func(*Options)) *UnigramDictionary {
	t.Helper()
	opts := DefaultOptions()
	if tweak != nil {
		tweak(&opts)
	}
	d, err := New(data, opts)
	require.NoError(t, err)
	return d
}

func run(t *testing.T, d *UnigramDictionary, pi proximity.Info, in *proximity.Input, f flags.Flags) []queue.Candidate {
	t.Helper()
	got, err := d.Suggest(pi, d.NewPool(), d.NewCorrection(), in, f)
	require.NoError(t, err)
	return got
}

func find(cands []queue.Candidate, word string) (queue.Candidate, bool) {
	for _, c := range cands {
		if c.Word == word {
			return c, true
		}
	}
	return queue.Candidate{}, false
}

func wordSet(cands []queue.Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Word)
	}
	sort.Strings(out)
	return out
}

func TestNew(t *testing.T) {
	_, err := New(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyDictionary)

	opts := DefaultOptions()
	opts.MaxWordLength = 0
	_, err = New([]byte{0}, opts)
	assert.ErrorIs(t, err, ErrOptions)

	data := build(t, dictionary.BuildOptions{GermanUmlautProcessing: true}, entries(testWords)...)
	d := newDict(t, data, nil)
	assert.Equal(t, format.HeaderSize, d.Root())
	assert.Equal(t, flags.RequiresGermanUmlautProcessing, d.DefaultFlags())

	d = newDict(t, build(t, dictionary.BuildOptions{Headerless: true}, entries(testWords)...), nil)
	assert.Zero(t, d.Root())
	assert.Equal(t, flags.Flags(0), d.DefaultFlags())
}

func TestIsValidWord(t *testing.T) {
	data := build(t, dictionary.BuildOptions{},
		append(entries(testWords),
			dictionary.Entry{Word: "thx", Freq: 120, ShortcutOnly: true, Shortcuts: []dictionary.Target{{Word: "thanks", Freq: 14}}},
			dictionary.Entry{Word: "thanks", Freq: 180},
		)...)
	d := newDict(t, data, nil)

	tests := []struct {
		word  string
		valid bool
	}{
		{"cat", true},
		{"catnip", true},
		{"ca", false},
		{"catn", false},
		{"cats", false},
		{"zero", false},
		{"thx", false},
		{"thanks", true},
		{"paris", false},
		{"Paris", true},
		{"über", true},
		{"", false},
		{strings.Repeat("a", 49), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, d.IsValidWord([]rune(tt.word)), tt.word)
	}
}

func TestZeroCostMembership(t *testing.T) {
	d := newDict(t, build(t, dictionary.BuildOptions{}, entries(testWords)...), func(o *Options) { o.MaxWords = 64 })
	for w, f := range testWords {
		if f == 0 {
			continue
		}
		got := run(t, d, nil, proximity.FromWord(w), 0)
		c, ok := find(got, w)
		require.True(t, ok, w)
		assert.Equal(t, f*2*2, c.Score, w)
	}

	got := run(t, d, nil, proximity.FromWord("zero"), 0)
	_, ok := find(got, "zero")
	assert.False(t, ok, "frequency zero words never surface")
}

func TestSortedOutput(t *testing.T) {
	d := newDict(t, build(t, dictionary.BuildOptions{}, entries(testWords)...), nil)
	stride := d.Options().MaxWordLength
	for _, input := range []string{"cat", "cta", "thn", "catnap", "nup", "tehn"} {
		t.Run(input, func(t *testing.T) {
			outWords := make([]rune, d.Options().MaxWords*stride)
			outFreqs := make([]int, d.Options().MaxWords)
			n, err := d.GetSuggestions(proximity.CodesInfo{}, d.NewPool(), d.NewCorrection(), proximity.FromWord(input), 0, outWords, outFreqs)
			require.NoError(t, err)
			require.NotZero(t, n)
			for i := 1; i < n; i++ {
				assert.GreaterOrEqual(t, outFreqs[i-1], outFreqs[i])
			}
			for i := 0; i < n; i++ {
				slot := outWords[i*stride : (i+1)*stride]
				word := strings.TrimRight(string(slot), "\x00")
				assert.NotEmpty(t, word)
				assert.Positive(t, outFreqs[i])
			}
		})
	}
}

func TestBudgetMonotonicity(t *testing.T) {
	words := map[string]int{
		"cart": 30, "car": 50, "cat": 40, "card": 20, "care": 25, "art": 10, "chart": 12,
		"crate": 8, "trace": 6, "cars": 9, "dart": 11, "carts": 5, "scar": 4, "c": 3, "cartoon": 2,
	}
	data := build(t, dictionary.BuildOptions{}, entries(words)...)
	const input = "cart"

	indel := func(a, b string) int {
		return len([]rune(a)) + len([]rune(b)) - 2*edlib.LCS(a, b)
	}
	for _, full := range []bool{false, true} {
		var f flags.Flags
		distance := indel
		if full {
			f = flags.UseFullEditDistance
			distance = edlib.LevenshteinDistance
		}
		prev := -1
		for budget := 0; budget <= 2; budget++ {
			d := newDict(t, data, func(o *Options) {
				o.MaxErrors = budget
				o.MaxWords = 100
				o.SuggestMissingSpace = false
				o.SuggestSpaceProximity = false
			})
			var want []string
			for w := range words {
				if distance(input, w) <= budget {
					want = append(want, w)
				}
			}
			got := wordSet(run(t, d, nil, proximity.FromWord(input), f))
			assert.ElementsMatch(t, want, got, "full=%v budget=%d", full, budget)
			assert.GreaterOrEqual(t, len(got), prev, "full=%v budget=%d", full, budget)
			prev = len(got)
		}
	}
}

func TestDigraphFolding(t *testing.T) {
	data := build(t, dictionary.BuildOptions{GermanUmlautProcessing: true},
		dictionary.Entry{Word: "prüfen", Freq: 90},
		dictionary.Entry{Word: "über", Freq: 50},
		dictionary.Entry{Word: "schön", Freq: 40},
		dictionary.Entry{Word: "quelle", Freq: 30},
	)
	d := newDict(t, data, func(o *Options) { o.MaxErrors = 0 })
	umlaut := d.DefaultFlags()
	require.True(t, umlaut.Has(flags.RequiresGermanUmlautProcessing))

	for input, want := range map[string]string{
		"pruefen": "prüfen",
		"ueber":   "über",
		"schoen":  "schön",
		"quelle":  "quelle",
	} {
		got := run(t, d, nil, proximity.FromWord(input), umlaut)
		_, ok := find(got, want)
		assert.True(t, ok, "%s folds to %s", input, want)
	}

	got := run(t, d, nil, proximity.FromWord("pruefen"), 0)
	_, ok := find(got, "prüfen")
	assert.False(t, ok, "without the flag the literal spelling needs an edit")
}

func TestSplitRecovery(t *testing.T) {
	data := build(t, dictionary.BuildOptions{}, entries(testWords)...)

	d := newDict(t, data, func(o *Options) { o.SuggestSpaceProximity = false })
	got := run(t, d, nil, proximity.FromWord("catnap"), 0)
	c, ok := find(got, "cat nap")
	require.True(t, ok)
	assert.Equal(t, 40*4+30*4, c.Score)

	d = newDict(t, data, func(o *Options) {
		o.SuggestSpaceProximity = false
		o.SuggestMissingSpace = false
	})
	got = run(t, d, nil, proximity.FromWord("catnap"), 0)
	for _, c := range got {
		assert.NotContains(t, c.Word, " ")
	}
}

func TestMistypedSpace(t *testing.T) {
	data := build(t, dictionary.BuildOptions{}, entries(testWords)...)
	d := newDict(t, data, func(o *Options) { o.SuggestMissingSpace = false })
	layout := proximity.QWERTY()

	got := run(t, d, layout, layout.Tap("catbnap"), 0)
	_, ok := find(got, "cat nap")
	assert.True(t, ok, "b sits above the space bar")

	got = run(t, d, nil, proximity.FromWord("catbnap"), 0)
	_, ok = find(got, "cat nap")
	assert.False(t, ok, "plain codes carry no space candidate")

	in := proximity.FromWord("catbnap")
	in.Codes[3] = []rune{'b', ' '}
	got = run(t, d, nil, in, 0)
	c, ok := find(got, "cat nap")
	require.True(t, ok)
	assert.Equal(t, 40*4+30*2, c.Score, "the skipped tap costs the right half its full word bonus")
}

func TestProximityMatch(t *testing.T) {
	d := newDict(t, build(t, dictionary.BuildOptions{}, entries(testWords)...), func(o *Options) { o.MaxErrors = 0 })
	layout := proximity.QWERTY()

	got := run(t, d, layout, layout.Tap("xat"), 0)
	c, ok := find(got, "cat")
	require.True(t, ok)
	assert.Equal(t, 40*2*(100-11)/100, c.Score)

	got = run(t, d, nil, proximity.FromWord("xat"), 0)
	_, ok = find(got, "cat")
	assert.False(t, ok, "plain codes carry no neighbours")
}

func TestShortcuts(t *testing.T) {
	data := build(t, dictionary.BuildOptions{},
		dictionary.Entry{Word: "thx", Freq: 120, ShortcutOnly: true, Shortcuts: []dictionary.Target{{Word: "thanks", Freq: 14}}},
		dictionary.Entry{Word: "thanks", Freq: 180},
		dictionary.Entry{Word: "the", Freq: 30},
	)
	d := newDict(t, data, nil)
	got := run(t, d, nil, proximity.FromWord("thx"), 0)
	require.NotEmpty(t, got)
	assert.Equal(t, queue.Candidate{Word: "thanks", Score: 120 * 4}, got[0])
	_, ok := find(got, "thx")
	assert.False(t, ok, "shortcut only words never surface")
}

func TestRequestErrors(t *testing.T) {
	d := newDict(t, build(t, dictionary.BuildOptions{}, entries(testWords)...), nil)

	_, err := d.Suggest(nil, d.NewPool(), d.NewCorrection(), proximity.FromWord(strings.Repeat("a", 49)), 0)
	assert.ErrorIs(t, err, ErrInputTooLong)

	_, err = d.Suggest(nil, d.NewPool(), d.NewCorrection(), proximity.FromWord("cat"), 0x4)
	assert.ErrorIs(t, err, flags.ErrUnknown)

	got, err := d.Suggest(nil, d.NewPool(), d.NewCorrection(), proximity.FromWord(""), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIdempotence(t *testing.T) {
	d := newDict(t, build(t, dictionary.BuildOptions{}, entries(testWords)...), nil)
	pool, corr := d.NewPool(), d.NewCorrection()
	in := proximity.FromWord("thn")

	first, err := d.Suggest(nil, pool, corr, in, flags.UseFullEditDistance)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	for i := 0; i < 3; i++ {
		again, err := d.Suggest(nil, pool, corr, in, flags.UseFullEditDistance)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestValidityAgreement(t *testing.T) {
	data := build(t, dictionary.BuildOptions{},
		append(entries(testWords),
			dictionary.Entry{Word: "thx", Freq: 120, ShortcutOnly: true, Shortcuts: []dictionary.Target{{Word: "thanks", Freq: 14}}},
			dictionary.Entry{Word: "thanks", Freq: 180},
		)...)
	d := newDict(t, data, func(o *Options) {
		o.MaxErrors = 0
		o.SuggestMissingSpace = false
		o.SuggestSpaceProximity = false
	})
	for _, w := range []string{"cat", "can", "then", "über", "Paris", "paris", "zero", "thx", "thanks", "ca", "dog"} {
		got := run(t, d, nil, proximity.FromWord(w), 0)
		top := len(got) > 0 && got[0].Word == w
		assert.Equal(t, d.IsValidWord([]rune(w)), top, w)
	}

	// Case and accent variants with a higher frequency than the typed word.
	variants := newDict(t, build(t, dictionary.BuildOptions{},
		dictionary.Entry{Word: "us", Freq: 10},
		dictionary.Entry{Word: "US", Freq: 100},
		dictionary.Entry{Word: "uber", Freq: 5},
		dictionary.Entry{Word: "über", Freq: 50},
	), func(o *Options) {
		o.MaxErrors = 0
		o.SuggestMissingSpace = false
		o.SuggestSpaceProximity = false
	})
	for _, w := range []string{"us", "US", "uber", "über", "Us", "ubers"} {
		got := run(t, variants, nil, proximity.FromWord(w), 0)
		top := len(got) > 0 && got[0].Word == w
		assert.Equal(t, variants.IsValidWord([]rune(w)), top, w)
	}
	got := run(t, variants, nil, proximity.FromWord("us"), 0)
	assert.Equal(t, []queue.Candidate{{Word: "us", Score: 40}}, got)

	folding := newDict(t, build(t, dictionary.BuildOptions{},
		dictionary.Entry{Word: "us", Freq: 10},
		dictionary.Entry{Word: "US", Freq: 100},
	), func(o *Options) {
		o.SuggestMissingSpace = false
		o.SuggestSpaceProximity = false
	})
	_, ok := find(run(t, folding, nil, proximity.FromWord("us"), 0), "US")
	assert.True(t, ok, "variants still fold once the walk has a budget")
}

func TestBigramPosition(t *testing.T) {
	data := build(t, dictionary.BuildOptions{},
		dictionary.Entry{Word: "thanks", Freq: 180, Bigrams: []dictionary.Target{{Word: "you", Freq: 9}, {Word: "a", Freq: 3}}},
		dictionary.Entry{Word: "you", Freq: 200},
		dictionary.Entry{Word: "a", Freq: 100},
		dictionary.Entry{Word: "lot", Freq: 40},
	)
	d := newDict(t, data, nil)

	you, ok, err := format.FindWord(data, d.Root(), []rune("you"))
	require.NoError(t, err)
	require.True(t, ok)

	pos, ok := d.BigramPosition(NotFound, []rune("thanks"), []rune("you"))
	require.True(t, ok)
	assert.Equal(t, you.Pos, pos)

	_, ok = d.BigramPosition(NotFound, []rune("thanks"), []rune("a"))
	assert.True(t, ok)
	_, ok = d.BigramPosition(NotFound, []rune("thanks"), []rune("lot"))
	assert.False(t, ok)
	pos, ok = d.BigramPosition(NotFound, []rune("nope"), []rune("you"))
	assert.False(t, ok)
	assert.Equal(t, NotFound, pos)
}

func TestMostFrequentWordLike(t *testing.T) {
	data := build(t, dictionary.BuildOptions{},
		dictionary.Entry{Word: "Über", Freq: 50},
		dictionary.Entry{Word: "uber", Freq: 30},
		dictionary.Entry{Word: "üben", Freq: 20},
		dictionary.Entry{Word: "ubers", Freq: 90},
	)
	d := newDict(t, data, nil)

	word, freq := d.MostFrequentWordLikeRunes([]rune("UBER"))
	assert.Equal(t, "Über", string(word))
	assert.Equal(t, 50, freq)

	word, freq = d.MostFrequentWordLike(proximity.FromWord("xxuben"), 2, 4)
	assert.Equal(t, "üben", string(word))
	assert.Equal(t, 20, freq)

	word, freq = d.MostFrequentWordLikeRunes([]rune("ube"))
	assert.Nil(t, word)
	assert.Zero(t, freq)

	word, _ = d.MostFrequentWordLike(proximity.FromWord("uber"), 2, 4)
	assert.Nil(t, word, "out of range")
}

func TestConcurrentSuggest(t *testing.T) {
	d := newDict(t, build(t, dictionary.BuildOptions{}, entries(testWords)...), nil)
	inputs := []string{"cat", "thn", "catnap", "nup", "ubr", "then"}
	want := make(map[string][]queue.Candidate)
	for _, in := range inputs {
		want[in] = run(t, d, nil, proximity.FromWord(in), 0)
	}

	var wg sync.WaitGroup
	results := make([][]queue.Candidate, len(inputs)*8)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := inputs[i%len(inputs)]
			results[i], errs[i] = d.Suggest(nil, d.NewPool(), d.NewCorrection(), proximity.FromWord(in), 0)
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want[inputs[i%len(inputs)]], got)
	}
}

func TestSearchBounds(t *testing.T) {
	noSplits := func(o *Options) {
		o.SuggestMissingSpace = false
		o.SuggestSpaceProximity = false
	}
	umlauts := map[string]int{"äöüäöü": 10}

	tests := []struct {
		name  string
		words map[string]int
		f     flags.Flags
		tweak func(*Options)
		input string
		want  string
		found bool
	}{
		{
			name:  "sixth digraph folds with depth six",
			words: umlauts,
			f:     flags.RequiresGermanUmlautProcessing,
			tweak: func(o *Options) {
				noSplits(o)
				o.MaxErrors = 0
				o.MaxUmlautSearchDepth = 6
			},
			input: "aeoeueaeoeue",
			want:  "äöüäöü",
			found: true,
		},
		{
			name:  "sixth digraph stays literal with depth five",
			words: umlauts,
			f:     flags.RequiresGermanUmlautProcessing,
			tweak: func(o *Options) {
				noSplits(o)
				o.MaxErrors = 0
				o.MaxUmlautSearchDepth = 5
			},
			input: "aeoeueaeoeue",
			want:  "äöüäöü",
		},
		{
			name:  "split at min input length",
			words: testWords,
			tweak: func(o *Options) {
				o.SuggestSpaceProximity = false
				o.MinSplitInputLength = 6
			},
			input: "catnap",
			want:  "cat nap",
			found: true,
		},
		{
			name:  "split below min input length",
			words: testWords,
			tweak: func(o *Options) {
				o.SuggestSpaceProximity = false
				o.MinSplitInputLength = 7
			},
			input: "catnap",
			want:  "cat nap",
		},
		{
			name:  "half within two word budget",
			words: testWords,
			tweak: func(o *Options) {
				o.SuggestSpaceProximity = false
				o.MaxErrorsForTwoWords = 1
			},
			input: "catnp",
			want:  "cat nap",
			found: true,
		},
		{
			name:  "half over two word budget",
			words: testWords,
			tweak: func(o *Options) {
				o.SuggestSpaceProximity = false
				o.MaxErrorsForTwoWords = 0
			},
			input: "catnp",
			want:  "cat nap",
		},
		{
			name:  "word within depth ceiling",
			words: testWords,
			tweak: func(o *Options) {
				noSplits(o)
				o.MaxWordLength = 6
			},
			input: "catni",
			want:  "catnip",
			found: true,
		},
		{
			name:  "word beyond depth ceiling",
			words: testWords,
			tweak: func(o *Options) {
				noSplits(o)
				o.MaxWordLength = 5
			},
			input: "catni",
			want:  "catnip",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDict(t, build(t, dictionary.BuildOptions{}, entries(tt.words)...), tt.tweak)
			_, ok := find(run(t, d, nil, proximity.FromWord(tt.input), tt.f), tt.want)
			assert.Equal(t, tt.found, ok)
		})
	}
}
