package queue

// DefaultSubQueues is the number of sub queues a word split needs, one per half.
const DefaultSubQueues = 2

// Pool holds the buckets of one request. Master collects single words, TwoWords
// collects split candidates so they never crowd single words out, and the sub queues
// are scratch space for the halves of a split. All buckets share one push sequence.
type Pool struct {
	Master   *Queue
	TwoWords *Queue
	subs     []*Queue
	seq      int
}

// NewPool returns a Pool whose buckets hold up to maxWords candidates each.
func NewPool(maxWords, subQueues int) *Pool {
	p := &Pool{}
	p.Master = newQueue(maxWords, &p.seq)
	p.TwoWords = newQueue(maxWords, &p.seq)
	p.subs = make([]*Queue, subQueues)
	for i := range p.subs {
		p.subs[i] = newQueue(maxWords, &p.seq)
	}
	return p
}

// Sub returns the i-th scratch queue.
func (p *Pool) Sub(i int) *Queue {
	return p.subs[i]
}

func (p *Pool) SubQueues() int {
	return len(p.subs)
}

// Clear empties every bucket and restarts the push sequence.
func (p *Pool) Clear() {
	p.Master.Clear()
	p.TwoWords.Clear()
	for _, q := range p.subs {
		q.Clear()
	}
	p.seq = 0
}

// Suggestions merges the master and two word buckets, best first, and keeps at most
// limit entries. A limit of zero or less keeps everything.
func (p *Pool) Suggestions(limit int) []Candidate {
	items := make([]*item, 0, p.Master.Len()+p.TwoWords.Len())
	items = append(items, p.Master.items...)
	items = append(items, p.TwoWords.items...)
	out := drain(items)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Output writes the merged suggestions into a flattened word buffer with a fixed
// stride per word and the scores into freqs. Unused runes of a slot are zeroed.
// It returns the number of words written.
func (p *Pool) Output(words []rune, freqs []int, stride int) int {
	if stride <= 0 {
		return 0
	}
	limit := min(len(freqs), len(words)/stride)
	if limit == 0 {
		return 0
	}
	cands := p.Suggestions(limit)
	for i, c := range cands {
		slot := words[i*stride : (i+1)*stride]
		n := copy(slot, []rune(c.Word))
		clear(slot[n:])
		freqs[i] = c.Score
	}
	return len(cands)
}
