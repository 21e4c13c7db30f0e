package apns

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sideshow/apns2/token"
)

// Signing keys are a few hundred bytes; anything bigger is not a .p8 file.
const maxKeyFileSize = 1 << 16

type cachedKey struct {
	key     *ecdsa.PrivateKey
	modTime time.Time
}

// KeyCache holds parsed signing keys by file path. Key material is immutable
// configuration, so a dispatch never re-reads the file unless it changed on
// disk (operator key rotation).
type KeyCache struct {
	mu   sync.Mutex
	keys map[string]*cachedKey
}

func NewKeyCache() *KeyCache {
	return &KeyCache{
		keys: make(map[string]*cachedKey),
	}
}

func (c *KeyCache) Get(path string) (*ecdsa.PrivateKey, error) {

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "signing key")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.keys[path]; ok && cached.modTime.Equal(info.ModTime()) {
		return cached.key, nil
	}

	pem, err := readFile(path, maxKeyFileSize)
	if err != nil {
		return nil, errors.Wrap(err, "signing key")
	}

	key, err := token.AuthKeyFromBytes(pem)
	if err != nil {
		return nil, errors.Wrap(err, "parse signing key")
	}

	c.keys[path] = &cachedKey{
		key:     key,
		modTime: info.ModTime(),
	}

	return key, nil
}

func readFile(path string, maxSize int64) ([]byte, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// SAST: exception 'utils.ReadFile prone to resource exhaustion'
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	} else if size > maxSize {
		return nil, fmt.Errorf("invalid file size: %d", size)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, size))
	if _, err := io.Copy(buf, f); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
