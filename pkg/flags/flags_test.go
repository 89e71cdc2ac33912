package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The bit values are a wire contract with callers and must never move.
func TestBitValues(t *testing.T) {
	assert.Equal(t, Flags(0x1), RequiresGermanUmlautProcessing)
	assert.Equal(t, Flags(0x2), UseFullEditDistance)
	assert.Equal(t, Flags(0x3), All)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Flags(0).Validate())
	assert.NoError(t, All.Validate())
	assert.ErrorIs(t, Flags(0x4).Validate(), ErrUnknown)
}

func TestString(t *testing.T) {
	assert.Equal(t, "none", Flags(0).String())
	assert.Equal(t, "umlaut|full-edit-distance", All.String())
	assert.Equal(t, "umlaut|0x8", (RequiresGermanUmlautProcessing | 0x8).String())
}
