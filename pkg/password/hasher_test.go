package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	ok, err := h.Verify("s3cret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestArgon2Hasher(t *testing.T) {
	h := NewArgon2Hasher(WithArgon2Memory(1024), WithArgon2Iterations(1))

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=2$"))

	ok, err := h.Verify("s3cret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Verify("s3cret", "$argon2id$broken")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestArgon2Hasher_SaltIsRandom(t *testing.T) {
	h := NewArgon2Hasher(WithArgon2Memory(1024), WithArgon2Iterations(1))
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNew(t *testing.T) {
	t.Run("UnknownAlgorithm", func(t *testing.T) {
		_, err := New("md5")
		assert.Error(t, err)
	})

	t.Run("VerifiesAcrossAlgorithms", func(t *testing.T) {
		bc := NewBcryptHasher(bcrypt.MinCost)
		ag := NewArgon2Hasher(WithArgon2Memory(1024), WithArgon2Iterations(1))
		m := &multiHasher{primary: ag, bcrypt: bc, argon2: ag}

		bcryptHash, err := bc.Hash("pw")
		require.NoError(t, err)
		argonHash, err := m.Hash("pw")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(argonHash, "$argon2id$"))

		ok, err := m.Verify("pw", bcryptHash)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = m.Verify("pw", argonHash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("DefaultsToBcrypt", func(t *testing.T) {
		h, err := New("")
		require.NoError(t, err)
		assert.IsType(t, &BcryptHasher{}, h.(*multiHasher).primary)
	})
}
