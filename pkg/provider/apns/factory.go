package apns

import (
	"crypto/ecdsa"
	"net/http"
	"sync"

	"github.com/pkg/errors"
)

var ErrNoCredentials = errors.New("apns credentials are not configured")

// Factory hands out clients per endpoint. The signing key goes through the
// process-wide cache, and a client is rebuilt only when its endpoint is seen
// for the first time or the key material changed.
type Factory struct {
	keys    *KeyCache
	keyFile string
	keyID   string
	teamID  string

	// test hook: redirect both endpoints to a fake gateway
	host       string
	httpClient *http.Client

	mu      sync.Mutex
	clients map[Endpoint]*boundClient
}

type boundClient struct {
	key    *ecdsa.PrivateKey
	client *Client
}

func NewFactory(keys *KeyCache, keyFile, keyID, teamID string) *Factory {
	return &Factory{
		keys:    keys,
		keyFile: keyFile,
		keyID:   keyID,
		teamID:  teamID,
		clients: make(map[Endpoint]*boundClient),
	}
}

// SetTransport redirects every client the factory hands out to another
// gateway. Tests point it at a local fake upstream.
func (f *Factory) SetTransport(host string, httpClient *http.Client) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.host = host
	f.httpClient = httpClient
	f.clients = make(map[Endpoint]*boundClient)
}

func (f *Factory) Client(endpoint Endpoint) (*Client, error) {

	if f.keyFile == "" || f.keyID == "" || f.teamID == "" {
		return nil, ErrNoCredentials
	}

	key, err := f.keys.Get(f.keyFile)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if bound, ok := f.clients[endpoint]; ok && bound.key == key {
		return bound.client, nil
	}

	client := New(key, f.keyID, f.teamID, endpoint)
	if f.host != "" {
		client.SetTransport(f.host, f.httpClient)
	}

	f.clients[endpoint] = &boundClient{
		key:    key,
		client: client,
	}

	return client, nil
}
