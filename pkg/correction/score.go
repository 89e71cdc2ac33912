package correction

// Scoring holds the multipliers and demotion rates, in percent, of the score model.
type Scoring struct {
	TypedLetterMultiplier int
	FullWordMultiplier    int
	MissingCharDemotion   int
	ExcessiveCharDemotion int
	MistypedCharDemotion  int
	MaxProximityDemotion  int
}

// DefaultScoring returns the stock score model.
func DefaultScoring() Scoring {
	return Scoring{
		TypedLetterMultiplier: 2,
		FullWordMultiplier:    2,
		MissingCharDemotion:   80,
		ExcessiveCharDemotion: 75,
		MistypedCharDemotion:  75,
		MaxProximityDemotion:  90,
	}
}

// FinalScore turns a terminal frequency and the state that reached it into a score.
// Exact complete matches get the full word multiplier; everything else is demoted
// by its proximity cost and once per edit. A surfacing word never scores below 1.
func (c *Correction) FinalScore(freq int, st State) int {
	s := c.scoring
	score := freq * s.TypedLetterMultiplier
	if c.IsExact(st) {
		return score * s.FullWordMultiplier
	}
	score = demote(score, 100-min(st.ProximityCost, s.MaxProximityDemotion))
	for i := 0; i < st.Omissions; i++ {
		score = demote(score, s.MissingCharDemotion)
	}
	for i := 0; i < st.Insertions; i++ {
		score = demote(score, s.ExcessiveCharDemotion)
	}
	for i := 0; i < st.Substitutions; i++ {
		score = demote(score, s.MistypedCharDemotion)
	}
	return max(score, 1)
}

// TwoWordScore sums the scores of both halves of a split.
func (c *Correction) TwoWordScore(left, right int) int {
	return max(left+right, 1)
}

func demote(score, rate int) int {
	return score * rate / 100
}
