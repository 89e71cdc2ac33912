package suggest

import (
	"github.com/bastiangx/keyserve/internal/utils"
	"github.com/bastiangx/keyserve/pkg/correction"
)

// classify decides how the trie character c can consume input position pos.
//
// The typed key itself is a match. An accent or case variant of any candidate key,
// or a different key within the proximity set, is a proximity match carrying that
// key's cost. Anything else is a substitution, which Advance only admits under full
// edit distance. Walks without an error budget only accept the keys themselves, so
// typing a stored word exactly always ranks that word first.
func (s *searcher) classify(c rune, pos int) (correction.Op, int) {
	fold := s.corr.Params().MaxErrors > 0
	for i, k := range s.keys[pos] {
		if k.Code == c {
			if i == 0 {
				return correction.OpMatch, 0
			}
			return correction.OpProximity, k.Cost
		}
		if fold && utils.EqualBase(k.Code, c) {
			return correction.OpProximity, k.Cost
		}
	}
	return correction.OpSubstitute, 0
}
