package apns

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeyCacheGet(t *testing.T) {

	path := writeSigningKey(t, t.TempDir())

	cache := NewKeyCache()

	key, err := cache.Get(path)
	require.NoError(t, err)
	require.NotNil(t, key)

	// second read is a cache hit: same parsed key
	again, err := cache.Get(path)
	require.NoError(t, err)
	require.True(t, key == again)
}

func TestKeyCacheReloadOnChange(t *testing.T) {

	dir := t.TempDir()
	path := writeSigningKey(t, dir)

	cache := NewKeyCache()

	key, err := cache.Get(path)
	require.NoError(t, err)

	// rotate the key on disk and force a distinct mtime
	writeSigningKeyAt(t, path)
	require.NoError(t, os.Chtimes(path, time.Now(), time.Now().Add(time.Second)))

	rotated, err := cache.Get(path)
	require.NoError(t, err)
	require.False(t, key == rotated)
}

func TestKeyCacheGetErrNoFile(t *testing.T) {

	cache := NewKeyCache()

	_, err := cache.Get(filepath.Join(t.TempDir(), "missing.p8"))
	require.Error(t, err)
}

func TestKeyCacheGetErrInvalidKey(t *testing.T) {

	path := filepath.Join(t.TempDir(), "broken.p8")
	require.NoError(t, os.WriteFile(path, []byte("not a key"), 0o600))

	cache := NewKeyCache()

	_, err := cache.Get(path)
	require.Error(t, err)
}

func getSigningKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	return key
}

func writeSigningKey(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "auth-key.p8")
	writeSigningKeyAt(t, path)

	return path
}

func writeSigningKeyAt(t *testing.T, path string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	data := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	require.NoError(t, os.WriteFile(path, data, 0o600))
}
