/*
Package correction tracks the edit state of one search path.

A Correction is request scoped: the caller creates one per in-flight search and the
engine re-initializes it for every bounded walk it runs (the single word pass and each
half of a word split). State is a plain value, so a branch that copies its parent's
State and advances it never disturbs siblings; backtracking is just dropping the copy.
*/
package correction

// Op is one edit decision taken while aligning a trie character with the input.
type Op int

const (
	// OpMatch consumes an input position holding the trie character (case and accents folded).
	OpMatch Op = iota
	// OpProximity consumes an input position whose tap lies near the trie character.
	OpProximity
	// OpSubstitute consumes an unrelated input position. Only allowed with full edit distance.
	OpSubstitute
	// OpInsert drops an extra input position without emitting a character.
	OpInsert
	// OpOmit emits a trie character the user did not type.
	OpOmit
	// OpSkip drops the designated skip position for free.
	OpSkip
)

func (o Op) String() string {
	switch o {
	case OpMatch:
		return "match"
	case OpProximity:
		return "proximity"
	case OpSubstitute:
		return "substitute"
	case OpInsert:
		return "insert"
	case OpOmit:
		return "omit"
	case OpSkip:
		return "skip"
	}
	return "unknown"
}

// Params bound one walk.
type Params struct {
	MaxErrors           int
	UseFullEditDistance bool
	// SkipPos is an input position that may be dropped without charge, or -1.
	SkipPos  int
	MaxDepth int
}

// State is the alignment reached at one point of a path.
type State struct {
	InputIndex    int
	Proximity     int
	ProximityCost int
	Substitutions int
	Insertions    int
	Omissions     int
	Skipped       bool
}

// Errors is the amount charged against the error budget.
func (s State) Errors() int {
	return s.Substitutions + s.Insertions + s.Omissions
}

// Correction holds the parameters and output buffer of the current walk.
type Correction struct {
	scoring     Scoring
	params      Params
	inputLength int
	word        []rune
}

// New returns a Correction able to build words of up to maxDepth characters.
func New(maxDepth int) *Correction {
	return &Correction{word: make([]rune, maxDepth), params: Params{SkipPos: -1, MaxDepth: maxDepth}}
}

// Init prepares the Correction for a walk over inputLength positions.
func (c *Correction) Init(inputLength int, scoring Scoring, p Params) {
	if p.MaxDepth > len(c.word) {
		c.word = make([]rune, p.MaxDepth)
	}
	c.scoring = scoring
	c.params = p
	c.inputLength = inputLength
}

func (c *Correction) Params() Params {
	return c.params
}

func (c *Correction) InputLength() int {
	return c.inputLength
}

// Advance applies op to st. It reports false when the resulting state leaves the
// error budget or the op is not allowed in this walk.
func (c *Correction) Advance(st State, op Op, cost int) (State, bool) {
	switch op {
	case OpMatch:
		st.InputIndex++
	case OpProximity:
		st.InputIndex++
		st.Proximity++
		st.ProximityCost += cost
	case OpSubstitute:
		if !c.params.UseFullEditDistance {
			return st, false
		}
		st.InputIndex++
		st.Substitutions++
	case OpInsert:
		st.InputIndex++
		st.Insertions++
	case OpOmit:
		st.Omissions++
	case OpSkip:
		if st.Skipped || st.InputIndex != c.params.SkipPos {
			return st, false
		}
		st.InputIndex++
		st.Skipped = true
	default:
		return st, false
	}
	if st.InputIndex > c.inputLength || st.Errors() > c.params.MaxErrors {
		return st, false
	}
	return st, true
}

// CanSkip reports whether st sits on the designated skip position.
func (c *Correction) CanSkip(st State) bool {
	return !st.Skipped && st.InputIndex == c.params.SkipPos && st.InputIndex < c.inputLength
}

// Remaining is the error budget left to st.
func (c *Correction) Remaining(st State) int {
	return c.params.MaxErrors - st.Errors()
}

// SetChar records the output character at depth.
func (c *Correction) SetChar(depth int, ch rune) {
	c.word[depth] = ch
}

// Word returns a copy of the first length output characters.
func (c *Correction) Word(length int) []rune {
	out := make([]rune, length)
	copy(out, c.word[:length])
	return out
}

// IsExact reports a complete match without any proximity or edit cost.
func (c *Correction) IsExact(st State) bool {
	return st.InputIndex == c.inputLength && st.Proximity == 0 && st.Errors() == 0 && !st.Skipped
}
