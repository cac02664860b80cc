package primitive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseString32(t *testing.T) {
	t.Run("clears bytes after terminator", func(t *testing.T) {
		raw := make([]byte, 32)
		copy(raw, "pistol\x00garbage")
		s, err := ParseString32(raw)
		require.NoError(t, err)
		require.Equal(t, "pistol", s.String())
		for _, b := range s[6:] {
			require.Zero(t, b)
		}
	})

	t.Run("missing terminator", func(t *testing.T) {
		raw := make([]byte, 32)
		for i := range raw {
			raw[i] = 'a'
		}
		_, err := ParseString32(raw)
		require.Error(t, err)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		raw := make([]byte, 32)
		raw[0] = 0xFF
		_, err := ParseString32(raw)
		require.Error(t, err)
	})
}

func TestNewString32(t *testing.T) {
	s, err := NewString32("0123456789012345678901234567890")
	require.NoError(t, err)
	require.Zero(t, s[31])

	_, err = NewString32("01234567890123456789012345678901")
	require.Error(t, err)

	require.True(t, MustString32("Warthog").EqualFold("warthog"))
}
