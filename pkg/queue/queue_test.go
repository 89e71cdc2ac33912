package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Word
	}
	return out
}

func TestQueueEviction(t *testing.T) {
	q := New(3)
	assert.True(t, q.Push("a", 10))
	assert.True(t, q.Push("b", 30))
	assert.True(t, q.Push("c", 20))
	assert.False(t, q.Push("d", 5), "weaker than everything held")
	assert.True(t, q.Push("e", 25))

	assert.Equal(t, []string{"b", "e", "c"}, words(q.Candidates()))
	_, ok := q.Score("a")
	assert.False(t, ok, "weakest entry is evicted")
}

func TestQueueDedupe(t *testing.T) {
	q := New(4)
	q.Push("word", 10)
	assert.False(t, q.Push("word", 8))
	assert.True(t, q.Push("word", 12))
	assert.Equal(t, 1, q.Len())

	score, ok := q.Score("word")
	require.True(t, ok)
	assert.Equal(t, 12, score)
}

func TestQueueTiesKeepPushOrder(t *testing.T) {
	q := New(2)
	q.Push("first", 7)
	q.Push("second", 7)
	assert.False(t, q.Push("third", 7), "an equal score does not displace earlier pushes")
	assert.Equal(t, []string{"first", "second"}, words(q.Candidates()))

	top, ok := q.Top()
	require.True(t, ok)
	assert.Equal(t, "first", top.Word)
}

func TestQueueZeroLimit(t *testing.T) {
	q := New(0)
	assert.False(t, q.Push("a", 1))
	_, ok := q.Top()
	assert.False(t, ok)
}

func TestPoolOutput(t *testing.T) {
	p := NewPool(4, DefaultSubQueues)
	p.Master.Push("cat", 20)
	p.Master.Push("can", 14)
	p.TwoWords.Push("cat nap", 16)
	p.Sub(0).Push("ignored", 100)

	const stride = 8
	out := make([]rune, 3*stride)
	for i := range out {
		out[i] = 'x'
	}
	freqs := make([]int, 3)
	n := p.Output(out, freqs, stride)

	require.Equal(t, 3, n)
	assert.Equal(t, []int{20, 16, 14}, freqs)
	assert.Equal(t, "cat\x00\x00\x00\x00\x00", string(out[:stride]))
	assert.Equal(t, "cat nap\x00", string(out[stride:2*stride]))

	small := make([]rune, stride)
	assert.Equal(t, 1, p.Output(small, make([]int, 5), stride))
	assert.Equal(t, 0, p.Output(nil, nil, stride))
}

func TestPoolClear(t *testing.T) {
	p := NewPool(2, DefaultSubQueues)
	p.Master.Push("a", 1)
	p.TwoWords.Push("a b", 1)
	p.Sub(1).Push("b", 1)
	p.Clear()

	assert.Zero(t, p.Master.Len())
	assert.Zero(t, p.TwoWords.Len())
	assert.Zero(t, p.Sub(1).Len())
	assert.Empty(t, p.Suggestions(0))
}
