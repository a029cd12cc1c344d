package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFileRing(t *testing.T) *Ring {
	t.Helper()
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      serviceName,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          t.TempDir(),
		FilePasswordFunc: keyring.FixedStringPrompt("test"),
	})
	require.NoError(t, err)
	return NewRing(ring)
}

func TestRing_FileBackendRoundTrip(t *testing.T) {
	r := openFileRing(t)

	_, err := r.Get("authToken")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Set("authToken", "abc"))
	v, err := r.Get("authToken")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	require.NoError(t, r.Delete("authToken"))
	_, err = r.Get("authToken")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRing_DeleteMissingKeyOnFileBackend(t *testing.T) {
	r := openFileRing(t)

	assert.NoError(t, r.Delete("authToken"))
	assert.NoError(t, r.Delete("authToken"))
}

func TestRing_DeleteMissingKeyInMemory(t *testing.T) {
	r := NewRing(keyring.NewArrayKeyring(nil))
	assert.NoError(t, r.Delete("authToken"))
}
