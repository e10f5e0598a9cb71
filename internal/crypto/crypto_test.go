package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := Random(KeySize)
	require.NoError(t, err)
	return key
}

func TestDeriveDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAB}, SaltSize)
	p := Params{Algorithm: PBKDF2SHA256, Iterations: MinIterations}

	k1, err := Derive([]byte("correct horse battery staple"), salt, p)
	require.NoError(t, err)
	k2, err := Derive([]byte("correct horse battery staple"), salt, p)
	require.NoError(t, err)

	assert.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2)
}

func TestDeriveDependsOnSaltAndPassword(t *testing.T) {
	p := Params{Algorithm: PBKDF2SHA256, Iterations: MinIterations}
	salt1 := bytes.Repeat([]byte{0x01}, SaltSize)
	salt2 := bytes.Repeat([]byte{0x02}, SaltSize)

	a, err := Derive([]byte("password1"), salt1, p)
	require.NoError(t, err)
	b, err := Derive([]byte("password1"), salt2, p)
	require.NoError(t, err)
	c, err := Derive([]byte("password2"), salt1, p)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDeriveArgon2id(t *testing.T) {
	salt := bytes.Repeat([]byte{0x07}, SaltSize)
	p := Params{Algorithm: Argon2id, Iterations: 1, Memory: MinArgonMemory, Threads: 1}

	k1, err := Derive([]byte("password"), salt, p)
	require.NoError(t, err)
	k2, err := Derive([]byte("password"), salt, p)
	require.NoError(t, err)
	assert.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2)

	pb, err := Derive([]byte("password"), salt, Params{Algorithm: PBKDF2SHA256, Iterations: MinIterations})
	require.NoError(t, err)
	assert.NotEqual(t, k1, pb)
}

func TestDeriveRejectsInvalidParams(t *testing.T) {
	salt := bytes.Repeat([]byte{0x01}, SaltSize)
	tests := []struct {
		name   string
		salt   []byte
		params Params
	}{
		{"short salt", salt[:15], DefaultParams()},
		{"too few iterations", salt, Params{Algorithm: PBKDF2SHA256, Iterations: MinIterations - 1}},
		{"unknown algorithm", salt, Params{Algorithm: "md5", Iterations: DefaultIters}},
		{"argon2 low memory", salt, Params{Algorithm: Argon2id, Iterations: 1, Memory: 1024, Threads: 1}},
		{"argon2 zero threads", salt, Params{Algorithm: Argon2id, Iterations: 1, Memory: MinArgonMemory}},
		{"too many iterations", salt, Params{Algorithm: PBKDF2SHA256, Iterations: MaxIterations + 1}},
		{"max uint32 iterations", salt, Params{Algorithm: PBKDF2SHA256, Iterations: 4294967295}},
		{"argon2 huge memory", salt, Params{Algorithm: Argon2id, Iterations: 1, Memory: 4294967295, Threads: 1}},
		{"argon2 huge time", salt, Params{Algorithm: Argon2id, Iterations: MaxArgonTime + 1, Memory: MinArgonMemory, Threads: 1}},
		{"argon2 too many threads", salt, Params{Algorithm: Argon2id, Iterations: 1, Memory: MinArgonMemory, Threads: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Derive([]byte("password"), tt.salt, tt.params)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestValidateAcceptsBounds(t *testing.T) {
	valid := []Params{
		DefaultParams(),
		DefaultArgon2Params(),
		{Algorithm: PBKDF2SHA256, Iterations: MaxIterations},
		{Algorithm: Argon2id, Iterations: MaxArgonTime, Memory: MaxArgonMemory, Threads: MaxArgonThreads},
	}
	for _, p := range valid {
		assert.NoError(t, p.Validate(), "%+v", p)
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	for _, alg := range []string{AESGCM, ChaCha20} {
		t.Run(alg, func(t *testing.T) {
			key := testKey(t)
			nonce, err := NewNonce()
			require.NoError(t, err)
			plaintext := []byte(`{"cards":[]}`)

			ciphertext, err := Seal(alg, key, nonce, plaintext)
			require.NoError(t, err)
			assert.Len(t, ciphertext, len(plaintext)+TagSize)

			got, err := Open(alg, key, nonce, ciphertext)
			require.NoError(t, err)
			assert.Equal(t, plaintext, got)
		})
	}
}

func TestSealEmptyPlaintext(t *testing.T) {
	key := testKey(t)
	nonce, err := NewNonce()
	require.NoError(t, err)

	ciphertext, err := Seal(AESGCM, key, nonce, nil)
	require.NoError(t, err)
	assert.Len(t, ciphertext, TagSize)

	got, err := Open(AESGCM, key, nonce, ciphertext)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenDetectsTampering(t *testing.T) {
	key := testKey(t)
	nonce, err := NewNonce()
	require.NoError(t, err)
	ciphertext, err := Seal(AESGCM, key, nonce, []byte("secret card"))
	require.NoError(t, err)

	for i := range ciphertext {
		tampered := append([]byte(nil), ciphertext...)
		tampered[i] ^= 0x01
		_, err := Open(AESGCM, key, nonce, tampered)
		if !errors.Is(err, ErrAuthFailed) {
			t.Fatalf("byte %d: expected ErrAuthFailed, got %v", i, err)
		}
	}
}

func TestOpenWrongKey(t *testing.T) {
	nonce, err := NewNonce()
	require.NoError(t, err)
	ciphertext, err := Seal(ChaCha20, testKey(t), nonce, []byte("secret"))
	require.NoError(t, err)

	_, err = Open(ChaCha20, testKey(t), nonce, ciphertext)
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestOpenMalformedInput(t *testing.T) {
	key := testKey(t)
	nonce, err := NewNonce()
	require.NoError(t, err)

	_, err = Open(AESGCM, key, nonce, make([]byte, TagSize-1))
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = Open(AESGCM, key, nonce[:8], make([]byte, TagSize))
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = Seal(AESGCM, key[:16], nonce, []byte("x"))
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = Seal("rot13", key, nonce, []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedCipher)
}

func TestRandomness(t *testing.T) {
	s1, err := NewSalt()
	require.NoError(t, err)
	s2, err := NewSalt()
	require.NoError(t, err)
	assert.Len(t, s1, SaltSize)
	assert.NotEqual(t, s1, s2)

	n, err := NewNonce()
	require.NoError(t, err)
	assert.Len(t, n, NonceSize)
}

func TestClearBytes(t *testing.T) {
	b := []byte("password")
	ClearBytes(b)
	assert.Equal(t, make([]byte, 8), b)
	assert.True(t, ConstantTimeCompare([]byte("a"), []byte("a")))
	assert.False(t, ConstantTimeCompare([]byte("a"), []byte("b")))
}
