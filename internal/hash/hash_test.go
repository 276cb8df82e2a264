package hash

import (
	"testing"

	"github.com/matthewhartstonge/argon2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fastHashers() map[string]Hasher {
	cfg := argon2.DefaultConfig()
	cfg.TimeCost = 1
	cfg.MemoryCost = 8 * 1024
	cfg.Parallelism = 1

	return map[string]Hasher{
		"bcrypt": Bcrypt{Cost: bcrypt.MinCost},
		"argon2": Argon2{Config: cfg},
	}
}

func TestHasher_HashAndVerify(t *testing.T) {
	for name, h := range fastHashers() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			hashed, err := h.Hash("s3cret-pass")
			require.NoError(t, err)
			assert.NotEqual(t, "s3cret-pass", hashed)

			assert.True(t, h.Verify("s3cret-pass", hashed))
			assert.False(t, h.Verify("wrong-pass", hashed))
		})
	}
}

func TestHasher_Salted(t *testing.T) {
	for name, h := range fastHashers() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			first, err := h.Hash("same")
			require.NoError(t, err)
			second, err := h.Hash("same")
			require.NoError(t, err)

			assert.NotEqual(t, first, second)
		})
	}
}

func TestVerify_CrossAlgorithm(t *testing.T) {
	hashers := fastHashers()

	argonHash, err := hashers["argon2"].Hash("pw")
	require.NoError(t, err)
	bcryptHash, err := hashers["bcrypt"].Hash("pw")
	require.NoError(t, err)

	assert.True(t, hashers["bcrypt"].Verify("pw", argonHash))
	assert.True(t, hashers["argon2"].Verify("pw", bcryptHash))
}

func TestVerify_Garbage(t *testing.T) {
	h := Bcrypt{Cost: bcrypt.MinCost}
	assert.False(t, h.Verify("pw", ""))
	assert.False(t, h.Verify("pw", "not-a-hash"))
	assert.False(t, h.Verify("pw", "$argon2id$broken"))
}

func TestNew(t *testing.T) {
	h, err := New("bcrypt")
	require.NoError(t, err)
	assert.IsType(t, Bcrypt{}, h)

	h, err = New("ARGON2")
	require.NoError(t, err)
	assert.IsType(t, Argon2{}, h)

	_, err = New("md5")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}
