package suggest

import (
	"unicode"

	"github.com/bastiangx/keyserve/pkg/proximity"
	"github.com/bastiangx/keyserve/pkg/queue"
)

type digraph struct {
	first, second rune
	umlaut        rune
}

// germanUmlautDigraphs are the two letter spellings of ä, ö and ü.
var germanUmlautDigraphs = []digraph{
	{'a', 'e', 'ä'},
	{'o', 'e', 'ö'},
	{'u', 'e', 'ü'},
}

// digraphAt returns the umlaut spelled by positions pos and pos+1, in the case of
// the first letter.
func digraphAt(in *proximity.Input, pos int) (rune, bool) {
	if pos+1 >= in.Len() {
		return 0, false
	}
	typed := in.Primary(pos)
	first := unicode.ToLower(typed)
	second := unicode.ToLower(in.Primary(pos + 1))
	for _, d := range germanUmlautDigraphs {
		if d.first == first && d.second == second {
			if unicode.IsUpper(typed) {
				return unicode.ToUpper(d.umlaut), true
			}
			return d.umlaut, true
		}
	}
	return 0, false
}

// foldDigraph returns a copy of in where the digraph at pos is typed as umlaut.
func foldDigraph(in *proximity.Input, pos int, umlaut rune) *proximity.Input {
	out := in.Without(pos + 1)
	out.Codes[pos] = []rune{umlaut}
	return out
}

// searchDigraphs searches every folding of the digraphs of in from position start.
// At each digraph the folded spelling is tried before the literal one, and at most
// MaxUmlautSearchDepth digraphs branch; the rest stay literal.
func (s *searcher) searchDigraphs(q *queue.Queue, in *proximity.Input, start, depth int) {
	if depth < s.d.opts.MaxUmlautSearchDepth {
		for i := start; i+1 < in.Len(); i++ {
			umlaut, ok := digraphAt(in, i)
			if !ok {
				continue
			}
			s.searchDigraphs(q, foldDigraph(in, i, umlaut), i+1, depth+1)
			s.searchDigraphs(q, in, i+2, depth+1)
			return
		}
	}
	s.searchWord(q, in)
}
