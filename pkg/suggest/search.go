package suggest

import (
	"github.com/bastiangx/keyserve/pkg/correction"
	"github.com/bastiangx/keyserve/pkg/flags"
	"github.com/bastiangx/keyserve/pkg/format"
	"github.com/bastiangx/keyserve/pkg/proximity"
	"github.com/bastiangx/keyserve/pkg/queue"
)

// searcher is the working state of one request. It is created per call and never
// shared, so the output word buffer and key cache live here instead of on the
// dictionary.
type searcher struct {
	d     *UnigramDictionary
	pi    proximity.Info
	corr  *correction.Correction
	flags flags.Flags

	in   *proximity.Input
	keys [][]proximity.Key
	q    *queue.Queue
	err  error

	walks  int
	groups int
	pushed int
}

func (d *UnigramDictionary) newSearcher(pi proximity.Info, corr *correction.Correction, f flags.Flags) *searcher {
	return &searcher{d: d, pi: pi, corr: corr, flags: f}
}

func (s *searcher) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *searcher) setInput(in *proximity.Input) {
	s.in = in
	s.keys = s.keys[:0]
	for i := 0; i < in.Len(); i++ {
		keys := s.pi.Keys(in, i)
		if len(keys) > s.d.opts.MaxProximityChars {
			keys = keys[:s.d.opts.MaxProximityChars]
		}
		s.keys = append(s.keys, keys)
	}
}

// walk runs one bounded search of in from the root into q.
func (s *searcher) walk(q *queue.Queue, in *proximity.Input, maxErrors, skipPos int) {
	if s.err != nil {
		return
	}
	s.walks++
	s.setInput(in)
	s.q = q
	s.corr.Init(in.Len(), s.d.scoring, correction.Params{
		MaxErrors:           maxErrors,
		UseFullEditDistance: s.flags.Has(flags.UseFullEditDistance),
		SkipPos:             skipPos,
		MaxDepth:            s.d.opts.MaxWordLength,
	})
	s.walkSiblings(s.d.root, 0, correction.State{})
}

// searchWord is the single word pass over one spelling of the input.
func (s *searcher) searchWord(q *queue.Queue, in *proximity.Input) {
	s.walk(q, in, s.d.opts.MaxErrors, NotFound)
}

func (s *searcher) walkSiblings(pos, depth int, st correction.State) {
	count, p, err := format.ReadGroupCount(s.d.dict, pos)
	if err != nil {
		s.fail(err)
		return
	}
	for ; count > 0 && s.err == nil; count-- {
		g, err := format.ReadGroup(s.d.dict, p)
		if err != nil {
			s.fail(err)
			return
		}
		s.groups++
		if !s.needsToSkipCurrentNode(&g, depth, st) {
			s.processCurrentNode(&g, 0, depth, st)
		}
		p = g.NextSibling
	}
}

// needsToSkipCurrentNode prunes a group before any of its characters is tried.
func (s *searcher) needsToSkipCurrentNode(g *format.Group, depth int, st correction.State) bool {
	if depth >= s.corr.Params().MaxDepth {
		return true
	}
	if s.corr.Remaining(st) > 0 || s.corr.CanSkip(st) {
		return false
	}
	// Without budget the first character has to be consumed by a match.
	if st.InputIndex >= s.in.Len() {
		return true
	}
	op, _ := s.classify(g.Chars[0], st.InputIndex)
	return op == correction.OpSubstitute
}

// processCurrentNode aligns the characters of g from index ci onward with the input.
// Every transition works on a copy of st, so returning from a branch restores the
// parent's alignment.
func (s *searcher) processCurrentNode(g *format.Group, ci, depth int, st correction.State) {
	if s.err != nil {
		return
	}
	if ci == len(g.Chars) {
		if g.Terminal {
			s.onTerminal(g, depth, st)
		}
		if g.HasChildren() {
			s.walkSiblings(g.ChildrenPos, depth, st)
		}
		return
	}
	if depth >= s.corr.Params().MaxDepth {
		return
	}
	if s.corr.CanSkip(st) {
		if next, ok := s.corr.Advance(st, correction.OpSkip, 0); ok {
			s.processCurrentNode(g, ci, depth, next)
		}
		return
	}

	c := g.Chars[ci]
	if st.InputIndex < s.in.Len() {
		op, cost := s.classify(c, st.InputIndex)
		if next, ok := s.corr.Advance(st, op, cost); ok {
			s.corr.SetChar(depth, c)
			s.processCurrentNode(g, ci+1, depth+1, next)
		}
		if next, ok := s.corr.Advance(st, correction.OpInsert, 0); ok {
			s.processCurrentNode(g, ci, depth, next)
		}
	}
	if next, ok := s.corr.Advance(st, correction.OpOmit, 0); ok {
		s.corr.SetChar(depth, c)
		s.processCurrentNode(g, ci+1, depth+1, next)
	}
}

// onTerminal scores a terminal reached with st. Input left over counts as insertions.
func (s *searcher) onTerminal(g *format.Group, depth int, st correction.State) {
	for st.InputIndex < s.in.Len() {
		op := correction.OpInsert
		if s.corr.CanSkip(st) {
			op = correction.OpSkip
		}
		next, ok := s.corr.Advance(st, op, 0)
		if !ok {
			return
		}
		st = next
	}
	if g.Frequency == 0 {
		return
	}
	score := s.corr.FinalScore(g.Frequency, st)
	attrs := g.Attributes(s.d.dict)
	if !attrs.ShortcutOnly() {
		s.push(string(s.corr.Word(depth)), score)
	}
	it := attrs.Shortcuts()
	for a, ok := it.Next(); ok; a, ok = it.Next() {
		target, err := format.WordAtAddress(s.d.dict, s.d.root, a.Target, s.d.opts.MaxWordLength)
		if err != nil {
			s.fail(err)
			return
		}
		s.push(string(target), score)
	}
	if err := it.Err(); err != nil {
		s.fail(err)
	}
}

func (s *searcher) push(word string, score int) {
	if s.q.Push(word, score) {
		s.pushed++
	}
}
