package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := New("pepper")
	hashed, err := h.Hash("Secret123")
	require.NoError(t, err)
	require.NotEqual(t, "Secret123", hashed)

	ok, err := h.Verify("Secret123", hashed)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHasher_WrongPassword(t *testing.T) {
	h := New("pepper")
	hashed, err := h.Hash("Secret123")
	require.NoError(t, err)

	ok, err := h.Verify("Secret124", hashed)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasher_PepperMatters(t *testing.T) {
	hashed, err := New("a").Hash("Secret123")
	require.NoError(t, err)

	ok, err := New("b").Verify("Secret123", hashed)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasher_DistinctSalts(t *testing.T) {
	h := New("pepper")
	h1, err := h.Hash("Secret123")
	require.NoError(t, err)
	h2, err := h.Hash("Secret123")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
