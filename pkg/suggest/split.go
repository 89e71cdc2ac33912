package suggest

import (
	"unicode/utf8"

	"github.com/bastiangx/keyserve/pkg/proximity"
	"github.com/bastiangx/keyserve/pkg/queue"
)

// searchSplits looks for two words typed without a space, or with the space bar
// missed, and pushes the best pair of every split into the two word bucket.
func (s *searcher) searchSplits(pool *queue.Pool, in *proximity.Input) {
	o := s.d.opts
	n := in.Len()
	if n < o.MinSplitInputLength || n < 2*o.MinSplitWordLength {
		return
	}
	if pool.SubQueues() < queue.DefaultSubQueues {
		s.d.log.Debug("split search needs two sub queues", "have", pool.SubQueues())
		return
	}
	if o.SuggestMissingSpace {
		for p := o.MinSplitWordLength; p <= n-o.MinSplitWordLength; p++ {
			s.trySplit(pool, in.Slice(0, p), in.Slice(p, n), NotFound)
		}
	}
	if o.SuggestSpaceProximity {
		// The tap at p was meant for the space bar: the right half skips it for free.
		for p := o.MinSplitWordLength; p+1+o.MinSplitWordLength <= n; p++ {
			if s.pi.HasSpaceProximity(in, p) {
				s.trySplit(pool, in.Slice(0, p), in.Slice(p, n), 0)
			}
		}
	}
}

func (s *searcher) trySplit(pool *queue.Pool, left, right *proximity.Input, rightSkip int) {
	l, ok := s.bestHalf(pool.Sub(0), left, NotFound)
	if !ok {
		return
	}
	r, ok := s.bestHalf(pool.Sub(1), right, rightSkip)
	if !ok {
		return
	}
	word := l.Word + " " + r.Word
	if utf8.RuneCountInString(word) > s.d.opts.MaxWordLength {
		return
	}
	if pool.TwoWords.Push(word, s.corr.TwoWordScore(l.Score, r.Score)) {
		s.pushed++
	}
}

// bestHalf runs a bounded search of one half with the per half budget.
func (s *searcher) bestHalf(q *queue.Queue, in *proximity.Input, skipPos int) (queue.Candidate, bool) {
	q.Clear()
	s.walk(q, in, s.d.opts.MaxErrorsForTwoWords, skipPos)
	if s.err != nil {
		return queue.Candidate{}, false
	}
	return q.Top()
}
