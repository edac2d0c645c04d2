package credential

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastArgon2() *Argon2 {
	return NewArgon2(Argon2Params{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

func hashers() map[string]Hasher {
	return map[string]Hasher{
		"argon2id": fastArgon2(),
		"bcrypt":   Bcrypt{Cost: 4},
	}
}

func TestHashAndVerify(t *testing.T) {
	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			stored, err := h.Hash("correct horse battery staple")
			require.NoError(t, err)

			require.NoError(t, h.Verify("correct horse battery staple", stored))
			require.ErrorIs(t, h.Verify("wrong password", stored), ErrMismatch)
		})
	}
}

func TestHash_FreshSaltEachCall(t *testing.T) {
	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("same input")
			require.NoError(t, err)
			b, err := h.Hash("same input")
			require.NoError(t, err)

			assert.NotEqual(t, a, b)
			require.NoError(t, h.Verify("same input", a))
			require.NoError(t, h.Verify("same input", b))
		})
	}
}

func TestVerify_MalformedFailsClosed(t *testing.T) {
	h := fastArgon2()
	good, err := h.Hash("pw")
	require.NoError(t, err)
	parts := strings.Split(good, "$")

	bad := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1024,t=1,p=1$" + parts[4] + "$" + parts[5],
		"$argon2id$v=19$m=0,t=1,p=1$" + parts[4] + "$" + parts[5],
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$" + parts[5],
		"$argon2id$v=19$m=1024,t=1,p=1$" + parts[4] + "$",
	}
	for _, s := range bad {
		assert.ErrorIs(t, h.Verify("pw", s), ErrMismatch, s)
	}
	assert.ErrorIs(t, Bcrypt{Cost: 4}.Verify("pw", "not-a-bcrypt-hash"), ErrMismatch)
}

func TestArgon2_Format(t *testing.T) {
	stored, err := fastArgon2().Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "$argon2id$v=19$m=1024,t=1,p=1$"))
}

func TestNew(t *testing.T) {
	h, err := New("argon2id")
	require.NoError(t, err)
	assert.IsType(t, &Argon2{}, h)

	h, err = New("bcrypt")
	require.NoError(t, err)
	assert.IsType(t, Bcrypt{}, h)

	_, err = New("md5")
	require.Error(t, err)
}
