package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexora/webkit/pkg/password"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := password.HashWithCost("correct horse battery staple", 4)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, password.Verify(hash, "correct horse battery staple"))
	assert.ErrorIs(t, password.Verify(hash, "wrong password"), password.ErrMismatch)
}

func TestHashTooLong(t *testing.T) {
	t.Parallel()

	_, err := password.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, password.ErrPasswordTooLong)
}

func TestNeedsRehash(t *testing.T) {
	t.Parallel()

	hash, err := password.HashWithCost("pw", 4)
	require.NoError(t, err)

	assert.True(t, password.NeedsRehash(hash, 10))
	assert.False(t, password.NeedsRehash(hash, 4))
}
