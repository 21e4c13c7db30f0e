package apns

import (
	"context"
	"crypto/ecdsa"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/token"
)

const (
	EndpointProduction Endpoint = 0
	EndpointSandbox    Endpoint = 1
)

// Endpoint selects the upstream push-gateway environment. Selection happens
// per request, not globally.
type Endpoint int

func (e Endpoint) String() string {
	if e == EndpointSandbox {
		return "sandbox"
	}
	return "production"
}

type Client struct {
	native *apns2.Client
}

// New builds a client bound to one endpoint, authenticating with a signed
// provider token (.p8 key material).
func New(authKey *ecdsa.PrivateKey, keyID, teamID string, endpoint Endpoint) *Client {

	native := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   keyID,
		TeamID:  teamID,
	})

	if endpoint == EndpointSandbox {
		native.Development()
	} else {
		native.Production()
	}

	return &Client{
		native: native,
	}
}

// SetTransport redirects the client to another gateway. Tests point it at a
// local fake upstream.
func (c *Client) SetTransport(host string, httpClient *http.Client) {
	c.native.Host = host
	if httpClient != nil {
		c.native.HTTPClient = httpClient
	}
}

func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {

	nativeRes, err := c.native.PushWithContext(ctx, req.native())
	if err != nil {
		return nil, errors.Wrap(err, "push request")
	}

	return NewResponse(nativeRes), nil
}
