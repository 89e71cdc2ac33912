package suggest

import (
	"github.com/bastiangx/keyserve/internal/utils"
	"github.com/bastiangx/keyserve/pkg/format"
	"github.com/bastiangx/keyserve/pkg/proximity"
)

type likeness struct {
	d      *UnigramDictionary
	target []rune
	word   []rune
	best   []rune
	freq   int
	err    error
}

// MostFrequentWordLike returns the most frequent surfacing word spelled like the
// primary codes of in[start:start+length], comparing letters by their lowercase base.
// It returns nil and 0 when no word qualifies.
func (d *UnigramDictionary) MostFrequentWordLike(in *proximity.Input, start, length int) ([]rune, int) {
	if start < 0 || length <= 0 || length > d.opts.MaxWordLength || start+length > in.Len() {
		return nil, 0
	}
	target := make([]rune, length)
	for i := range target {
		target[i] = utils.BaseLower(in.Primary(start + i))
	}
	l := &likeness{d: d, target: target, word: make([]rune, 0, length)}
	l.walk(d.root)
	if l.err != nil {
		d.log.Warn("likeness walk failed", "input", string(target), "err", l.err)
		return nil, 0
	}
	return l.best, l.freq
}

// MostFrequentWordLikeRunes is MostFrequentWordLike over a plain word.
func (d *UnigramDictionary) MostFrequentWordLikeRunes(word []rune) ([]rune, int) {
	return d.MostFrequentWordLike(proximity.FromWord(string(word)), 0, len(word))
}

func (l *likeness) walk(pos int) {
	count, p, err := format.ReadGroupCount(l.d.dict, pos)
	if err != nil {
		l.err = err
		return
	}
	for ; count > 0 && l.err == nil; count-- {
		g, err := format.ReadGroup(l.d.dict, p)
		if err != nil {
			l.err = err
			return
		}
		p = g.NextSibling
		if !l.matches(g.Chars) {
			continue
		}
		base := len(l.word)
		l.word = append(l.word, g.Chars...)
		if len(l.word) == len(l.target) {
			if g.Terminal && !g.ShortcutOnly && g.Frequency > l.freq {
				l.freq = g.Frequency
				l.best = append(l.best[:0], l.word...)
			}
		} else if g.HasChildren() {
			l.walk(g.ChildrenPos)
		}
		l.word = l.word[:base]
	}
}

func (l *likeness) matches(chars []rune) bool {
	at := len(l.word)
	if at+len(chars) > len(l.target) {
		return false
	}
	for i, c := range chars {
		if utils.BaseLower(c) != l.target[at+i] {
			return false
		}
	}
	return true
}
