package proximity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInput(t *testing.T) {
	long := make([]rune, MaxProximityChars+4)
	for i := range long {
		long[i] = 'a' + rune(i)
	}
	in, err := NewInput([][]rune{{'h', 'g'}, long}, []int{1, 2}, []int{3, 4})
	require.NoError(t, err)
	assert.Equal(t, 2, in.Len())
	assert.Len(t, in.Codes[1], MaxProximityChars)
	assert.Equal(t, "ha", in.String())

	_, err = NewInput([][]rune{{'h'}}, []int{1, 2}, []int{3})
	assert.ErrorIs(t, err, ErrInput)

	_, err = NewInput([][]rune{{}}, nil, nil)
	assert.ErrorIs(t, err, ErrInput)
}

func TestSliceAndWithout(t *testing.T) {
	in := QWERTY().Tap("pruefen")

	s := in.Slice(2, 5)
	assert.Equal(t, "uef", s.String())
	assert.Equal(t, in.X[2:5], s.X)

	w := in.Without(3)
	assert.Equal(t, "prufen", w.String())
	assert.Len(t, w.X, 6)
	assert.Equal(t, in.X[4], w.X[3])
	assert.Equal(t, "pruefen", in.String(), "Without must not touch the source")
}

func TestCodesInfo(t *testing.T) {
	in := FromWord("ab")
	in.Codes[1] = []rune{'b', 'v', ' '}

	keys := CodesInfo{}.Keys(in, 1)
	assert.Equal(t, []Key{{'b', 0}, {'v', DefaultProximityCost}, {' ', DefaultProximityCost}}, keys)
	assert.True(t, CodesInfo{}.HasSpaceProximity(in, 1))
	assert.False(t, CodesInfo{}.HasSpaceProximity(in, 0))
}

func TestLayoutKeys(t *testing.T) {
	l := QWERTY()
	in := l.Tap("a")
	keys := l.Keys(in, 0)
	require.NotEmpty(t, keys)
	assert.Equal(t, Key{Code: 'a'}, keys[0])

	var codes []rune
	for _, k := range keys[1:] {
		codes = append(codes, k.Code)
		assert.Greater(t, k.Cost, 0)
	}
	assert.ElementsMatch(t, []rune{'q', 'w', 's'}, codes)
	assert.Equal(t, 's', keys[1].Code, "same row neighbour is nearest")
}

func TestLayoutSpaceProximity(t *testing.T) {
	l := QWERTY()
	in := l.Tap("vqz ")
	assert.True(t, l.HasSpaceProximity(in, 0))
	assert.False(t, l.HasSpaceProximity(in, 1))
	assert.False(t, l.HasSpaceProximity(in, 2))
	assert.True(t, l.HasSpaceProximity(in, 3), "a typed space has no key center but is a space")
}
