package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/keyserve/pkg/dictionary"
	"github.com/bastiangx/keyserve/pkg/proximity"
	"github.com/bastiangx/keyserve/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T, buf *bytes.Buffer) *InputHandler {
	t.Helper()
	b := dictionary.NewBuilder(dictionary.BuildOptions{})
	require.NoError(t, b.AddWord("cat", 255))
	require.NoError(t, b.AddWord("you", 100))
	require.NoError(t, b.Add(dictionary.Entry{Word: "thank", Freq: 150, Bigrams: []dictionary.Target{{Word: "you", Freq: 9}}}))
	data, err := b.Build()
	require.NoError(t, err)
	d, err := suggest.New(data, suggest.DefaultOptions())
	require.NoError(t, err)
	return NewInputHandler(d, proximity.QWERTY(), d.DefaultFlags(), 5, false, buf)
}

func TestInputLoop(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(t, &buf)
	input := strings.Join([]string{
		"cst",
		"cat",
		"Cat",
		"",
		"12345",
		":valid cat",
		":valid ca",
		":like CAT",
		":bigram thank you",
		":bigram you thank",
		":nope",
	}, "\n")
	require.NoError(t, h.Start(strings.NewReader(input)))

	out := buf.String()
	assert.Contains(t, out, "suggestions for 'cst'")
	assert.Contains(t, out, "score:    1,020")
	assert.Contains(t, out, "Cat")
	assert.Contains(t, out, "'12345' (filtered out)")
	assert.Contains(t, out, "cat: valid=true")
	assert.Contains(t, out, "ca: valid=false")
	assert.Contains(t, out, "CAT -> cat (freq: 255)")
	assert.Contains(t, out, "thank you: bigram at")
	assert.Contains(t, out, "you thank: no bigram")
	assert.Contains(t, out, "Unknown command: :nope")
}
