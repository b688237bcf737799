package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Cheap parameters keep the suite fast; production uses DefaultParams.
var testParams = Argon2Params{Time: 1, Memory: 1024, Threads: 1}

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(testParams)

	hash, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.NotContains(t, hash, "Str0ng!Pass")

	ok, err := h.Verify("Str0ng!Pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("Wr0ng!Pass", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_SaltsEachHash(t *testing.T) {
	h := NewHasher(testParams)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHasher_VerifyUsesEncodedParams(t *testing.T) {
	hash, err := NewHasher(testParams).Hash("Str0ng!Pass")
	require.NoError(t, err)

	// A hasher configured differently still verifies older hashes.
	ok, err := NewHasher(Argon2Params{Time: 2, Memory: 2048, Threads: 2}).Verify("Str0ng!Pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasher_VerifyLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	h := NewHasher(testParams)

	ok, err := h.Verify("hunter2", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("hunter3", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_VerifyMalformed(t *testing.T) {
	h := NewHasher(testParams)

	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$bogus$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
		"$2a$10$short",
	} {
		ok, err := h.Verify("whatever", encoded)
		assert.False(t, ok, encoded)
		assert.ErrorIs(t, err, ErrMalformedHash, encoded)
	}
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     int
	}{
		{"", 0},
		{"123", 1},
		{"password", 2},
		{"Password", 3},
		{"Password1", 4},
		{"Str0ng!Pass", 5},
		{"Pässphräse123!", 5},
		{"!@#$%^&*()", 2},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, PasswordStrength(tt.password))
		})
	}
}
