package registry

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGenerateID_Deterministic(t *testing.T) {
	entropy := bytes.Repeat([]byte{0xAB}, 32)

	id1, attr1 := GenerateID(entropy, 7, 42)
	id2, attr2 := GenerateID(entropy, 7, 42)

	assert.Equal(t, id1, id2, "same inputs must produce the same id")
	assert.Equal(t, attr1, attr2)
}

func TestGenerateID_InputsChangeID(t *testing.T) {
	entropy := bytes.Repeat([]byte{0x01}, 32)
	base, _ := GenerateID(entropy, 0, 0)

	tests := []struct {
		name    string
		entropy []byte
		opIndex uint32
		height  uint64
	}{
		{"different entropy", bytes.Repeat([]byte{0x02}, 32), 0, 0},
		{"different op index", entropy, 1, 0},
		{"different height", entropy, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, _ := GenerateID(tt.entropy, tt.opIndex, tt.height)
			assert.NotEqual(t, base, id)
		})
	}
}

func TestGenerateID_AttributeFollowsParity(t *testing.T) {
	// All four variants exist, but generation reaches only Red and Yellow:
	// Red when the first id byte is even, Yellow when odd.
	rapid.Check(t, func(t *rapid.T) {
		entropy := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "entropy")
		opIndex := rapid.Uint32().Draw(t, "opIndex")
		height := rapid.Uint64().Draw(t, "height")

		id, attr := GenerateID(entropy, opIndex, height)

		if id[0]%2 == 0 {
			require.Equal(t, AttributeRed, attr)
		} else {
			require.Equal(t, AttributeYellow, attr)
		}
	})
}

func TestGenerateID_Length(t *testing.T) {
	id, _ := GenerateID([]byte("unique_id entropy"), 0, 0)
	assert.Len(t, id[:], IDSize)
	assert.False(t, id.IsZero())
}

func TestParseID_RoundTrip(t *testing.T) {
	id, _ := GenerateID(bytes.Repeat([]byte{0x5C}, 32), 3, 9)

	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseID_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "abcd"},
		{"too long", "00112233445566778899aabbccddeeff00"},
		{"not hex", "zz112233445566778899aabbccddeeff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseID(tt.input)
			assert.ErrorIs(t, err, ErrInvalidID)
		})
	}
}

func TestAttribute_ParseRoundTrip(t *testing.T) {
	for _, attr := range []Attribute{AttributeRed, AttributeYellow, AttributeBlue, AttributeGreen} {
		parsed, err := ParseAttribute(attr.String())
		require.NoError(t, err)
		assert.Equal(t, attr, parsed)
	}

	_, err := ParseAttribute("purple")
	assert.Error(t, err)
}
