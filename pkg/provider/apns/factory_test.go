package apns

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFactoryClientPerEndpoint(t *testing.T) {

	path := writeSigningKey(t, t.TempDir())

	f := NewFactory(NewKeyCache(), path, "key-id", "team-id")

	sandbox, err := f.Client(EndpointSandbox)
	require.NoError(t, err)

	production, err := f.Client(EndpointProduction)
	require.NoError(t, err)
	require.False(t, sandbox == production)

	// same endpoint and unchanged key: same client
	again, err := f.Client(EndpointSandbox)
	require.NoError(t, err)
	require.True(t, sandbox == again)
}

func TestFactoryClientErrNoCredentials(t *testing.T) {

	for _, f := range []*Factory{
		NewFactory(NewKeyCache(), "", "key-id", "team-id"),
		NewFactory(NewKeyCache(), "key.p8", "", "team-id"),
		NewFactory(NewKeyCache(), "key.p8", "key-id", ""),
	} {
		_, err := f.Client(EndpointSandbox)
		require.Equal(t, ErrNoCredentials, err)
	}
}

func TestFactoryClientErrBadKeyFile(t *testing.T) {

	f := NewFactory(NewKeyCache(), "no-such-key.p8", "key-id", "team-id")

	_, err := f.Client(EndpointSandbox)
	require.Error(t, err)
}

func TestEndpointString(t *testing.T) {
	require.Equal(t, "sandbox", EndpointSandbox.String())
	require.Equal(t, "production", EndpointProduction.String())
}
