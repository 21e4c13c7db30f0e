package apns

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientSend(t *testing.T) {

	gateway := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/3/device/token123", r.URL.Path)
		require.Equal(t, "com.example.app", r.Header.Get("apns-topic"))

		w.Header().Set("apns-id", "id-123")
		w.WriteHeader(http.StatusOK)
	}))
	gateway.EnableHTTP2 = true
	gateway.StartTLS()
	defer gateway.Close()

	client := getClient(t, gateway)

	res, err := client.Send(context.Background(), &Request{
		Token: "token123",
		Headers: RequestHeader{
			Topic: "com.example.app",
		},
		Payload: []byte(`{"aps":{"alert":{"body":"hi"}}}`),
	})
	require.NoError(t, err)
	require.True(t, res.Sent())
	require.Equal(t, "id-123", res.ID)
}

func TestClientSendRejected(t *testing.T) {

	gateway := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, err := w.Write([]byte(`{"reason":"BadDeviceToken"}`))
		require.NoError(t, err)
	}))
	gateway.EnableHTTP2 = true
	gateway.StartTLS()
	defer gateway.Close()

	client := getClient(t, gateway)

	res, err := client.Send(context.Background(), &Request{Token: "stale"})
	require.NoError(t, err)
	require.False(t, res.Sent())
	require.True(t, res.BadDeviceToken())
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestClientSendCancelled(t *testing.T) {

	gateway := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	gateway.EnableHTTP2 = true
	gateway.StartTLS()
	defer gateway.Close()

	client := getClient(t, gateway)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Send(ctx, &Request{Token: "token123"})
	require.Error(t, err)
}

func getClient(t *testing.T, gateway *httptest.Server) *Client {
	t.Helper()

	key := getSigningKey(t)

	client := New(key, "key-id", "team-id", EndpointSandbox)
	client.SetTransport(gateway.URL, gateway.Client())

	return client
}
