/*
Package queue collects scored candidates for one suggestion request.

A Queue keeps the best candidates up to a fixed capacity. Pushing a word it already
holds only ever raises that word's score, and pushing into a full queue evicts the
weakest entry. Among equal scores the earlier push wins, both for eviction and for the
order of the sorted drain, so identical requests always produce identical output.
*/
package queue

import (
	"container/heap"
	"sort"
)

// Candidate is a word with its final score.
type Candidate struct {
	Word  string
	Score int
}

type item struct {
	Candidate
	seq   int
	index int
}

// itemHeap is a min-heap on score. Among equal scores the latest push is the minimum.
type itemHeap []*item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].seq > h[j].seq
}

func (h itemHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *itemHeap) Push(x any) {
	it := x.(*item)
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Queue is a bounded top-K collector. It is not safe for concurrent use.
type Queue struct {
	limit  int
	items  itemHeap
	byWord map[string]*item
	seq    *int
}

// New returns an empty Queue holding at most limit candidates.
func New(limit int) *Queue {
	return newQueue(limit, new(int))
}

func newQueue(limit int, seq *int) *Queue {
	return &Queue{
		limit:  limit,
		items:  make(itemHeap, 0, limit),
		byWord: make(map[string]*item, limit),
		seq:    seq,
	}
}

// Push offers a candidate and reports whether the queue changed.
func (q *Queue) Push(word string, score int) bool {
	if q.limit <= 0 {
		return false
	}
	if it, ok := q.byWord[word]; ok {
		if score <= it.Score {
			return false
		}
		it.Score = score
		heap.Fix(&q.items, it.index)
		return true
	}
	if len(q.items) >= q.limit {
		weakest := q.items[0]
		if score <= weakest.Score {
			return false
		}
		delete(q.byWord, weakest.Word)
		heap.Pop(&q.items)
	}
	*q.seq++
	it := &item{Candidate: Candidate{Word: word, Score: score}, seq: *q.seq}
	heap.Push(&q.items, it)
	q.byWord[word] = it
	return true
}

func (q *Queue) Len() int {
	return len(q.items)
}

func (q *Queue) Limit() int {
	return q.limit
}

// Score returns the score held for word.
func (q *Queue) Score(word string) (int, bool) {
	it, ok := q.byWord[word]
	if !ok {
		return 0, false
	}
	return it.Score, true
}

// Top returns the best candidate.
func (q *Queue) Top() (Candidate, bool) {
	var best *item
	for _, it := range q.items {
		if best == nil || before(it, best) {
			best = it
		}
	}
	if best == nil {
		return Candidate{}, false
	}
	return best.Candidate, true
}

// Candidates returns the held candidates, best first, without draining the queue.
func (q *Queue) Candidates() []Candidate {
	return drain(q.items)
}

func (q *Queue) Clear() {
	for i := range q.items {
		q.items[i] = nil
	}
	q.items = q.items[:0]
	clear(q.byWord)
}

func before(a, b *item) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.seq < b.seq
}

func drain(items []*item) []Candidate {
	sorted := make([]*item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return before(sorted[i], sorted[j]) })
	out := make([]Candidate, len(sorted))
	for i, it := range sorted {
		out[i] = it.Candidate
	}
	return out
}
