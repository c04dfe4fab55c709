package auth_test

import (
	"testing"
	"time"

	"todo-app/backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hasher := auth.NewHasher(4) // low cost keeps the test fast

	hashed, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hashed)

	assert.True(t, hasher.Verify(hashed, "secret1"))
	assert.False(t, hasher.Verify(hashed, "wrong"))
	assert.False(t, hasher.Verify("not-a-hash", "secret1"))
}

func TestHasherClampsInvalidCost(t *testing.T) {
	hasher := auth.NewHasher(99)
	hashed, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, hasher.Verify(hashed, "secret1"))
}

func TestAdminToken(t *testing.T) {
	token, err := auth.IssueAdminToken("test-secret", time.Hour)
	require.NoError(t, err)

	assert.NoError(t, auth.VerifyAdminToken("test-secret", token))
	assert.ErrorIs(t, auth.VerifyAdminToken("other-secret", token), auth.ErrInvalidAdminToken)
	assert.ErrorIs(t, auth.VerifyAdminToken("test-secret", "garbage"), auth.ErrInvalidAdminToken)
}

func TestAdminTokenExpiry(t *testing.T) {
	token, err := auth.IssueAdminToken("test-secret", -time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, auth.VerifyAdminToken("test-secret", token), auth.ErrInvalidAdminToken)
}
