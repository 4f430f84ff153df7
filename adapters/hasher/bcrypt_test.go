package hasher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/doorkeep/doorkeep/adapters/hasher"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	h := hasher.NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotEqual(t, "secret1", digest)

	assert.True(t, h.Verify("secret1", digest))
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	h := hasher.NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.False(t, h.Verify("secret2", digest))
	assert.False(t, h.Verify("", digest))
}

func TestHashesAreSelfSalted(t *testing.T) {
	h := hasher.NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("secret1")
	require.NoError(t, err)
	second, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("secret1", first))
	assert.True(t, h.Verify("secret1", second))
}

func TestVerifyFailsClosedOnMalformedDigest(t *testing.T) {
	h := hasher.NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("secret1", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("secret1", ""))
}

func TestOutOfRangeCostFallsBackToDefault(t *testing.T) {
	h := hasher.NewBcryptHasher(99)

	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, h.Verify("secret1", digest))

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
