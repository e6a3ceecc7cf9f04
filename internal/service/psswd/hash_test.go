package psswd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hasher := PasswordHash{}

	hash, salt, err := hasher.HashPassword("super secret")
	require.NoError(t, err)
	assert.Len(t, salt, saltLength)
	assert.NotEmpty(t, hash)

	// Одинаковые пароли дают разные дайджесты из-за случайной соли.
	hash2, salt2, err2 := hasher.HashPassword("super secret")
	require.NoError(t, err2)
	assert.NotEqual(t, salt, salt2)
	assert.NotEqual(t, hash, hash2)
}

func TestComparePassword(t *testing.T) {
	hasher := PasswordHash{}

	hash, salt, err := hasher.HashPassword("super secret")
	require.NoError(t, err)

	assert.True(t, hasher.ComparePassword("super secret", hash, salt))
	assert.False(t, hasher.ComparePassword("wrong", hash, salt))
	// Чужая соль не подходит к дайджесту.
	otherSalt := make([]byte, saltLength)
	assert.False(t, hasher.ComparePassword("super secret", hash, otherSalt))
}
