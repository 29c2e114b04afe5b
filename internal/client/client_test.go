package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/fivetwenty-io/cfapi/internal/client"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires an endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &capi.Config{})
		require.ErrorIs(t, err, capi.ErrAPIEndpointRequired)

		_, err = New(context.Background(), nil)
		require.ErrorIs(t, err, capi.ErrAPIEndpointRequired)
	})

	t.Run("unauthenticated without credentials", func(t *testing.T) {
		t.Parallel()

		c, err := New(context.Background(), &capi.Config{APIEndpoint: "https://api.example.com"})
		require.NoError(t, err)
		assert.Nil(t, c.TokenManager())
	})

	t.Run("static access token", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "bearer static-token", request.Header.Get("Authorization"))
			assert.Equal(t, "cfapi-test/1.0", request.Header.Get("User-Agent"))
			writeRaw(writer, http.StatusOK, `{"api_version":"2.150.0"}`)
		}))
		defer server.Close()

		c, err := New(context.Background(), &capi.Config{
			APIEndpoint: server.URL,
			AccessToken: "static-token",
			UserAgent:   "cfapi-test/1.0",
		})
		require.NoError(t, err)
		require.NotNil(t, c.TokenManager())

		_, err = c.GetInfo(context.Background())
		require.NoError(t, err)
	})

	t.Run("token requests honour skipped certificate checks", func(t *testing.T) {
		t.Parallel()

		var tokenRequests atomic.Int32

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			switch request.URL.Path {
			case "/oauth/token":
				tokenRequests.Add(1)
				assert.NoError(t, request.ParseForm())
				assert.Equal(t, "password", request.PostForm.Get("grant_type"))
				writeRaw(writer, http.StatusOK, `{"access_token":"tls-token","token_type":"bearer","expires_in":3600}`)
			default:
				assert.Equal(t, "bearer tls-token", request.Header.Get("Authorization"))
				writeRaw(writer, http.StatusOK, `{"api_version":"2.150.0"}`)
			}
		}))
		defer server.Close()

		config := &capi.Config{
			APIEndpoint: server.URL,
			Username:    "admin",
			Password:    "secret",
		}

		c, err := New(context.Background(), config)
		require.NoError(t, err)

		_, err = c.GetInfo(context.Background())
		require.Error(t, err, "the test server certificate is untrusted")
		assert.Zero(t, tokenRequests.Load())

		config.SkipTLSVerify = true

		c, err = New(context.Background(), config)
		require.NoError(t, err)

		_, err = c.GetInfo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(1), tokenRequests.Load())
	})
}

func TestClient_GetInfo(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v2/info", request.URL.Path)
		writeRaw(writer, http.StatusOK, `{"name":"vcap","api_version":"2.150.0",
			"token_endpoint":"https://uaa.example.com","logging_endpoint":"wss://loggregator.example.com:443"}`)
	})

	info, err := c.GetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.150.0", info.APIVersion)
	assert.Equal(t, "https://uaa.example.com", info.TokenEndpoint)
	assert.Equal(t, "wss://loggregator.example.com:443", info.LoggingEndpoint)
}

func TestClient_Listeners(t *testing.T) {
	t.Parallel()

	var configured atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/v2/spaces/missing" {
			writeRaw(writer, http.StatusNotFound, `{"code":40004,"description":"The app space could not be found: missing","error_code":"CF-SpaceNotFound"}`)

			return
		}

		writeRaw(writer, http.StatusOK, `{"metadata":{"guid":"space-guid"},"entity":{"name":"dev"}}`)
	}))
	defer server.Close()

	metrics := capi.NewMetricsCollector()

	c, err := New(context.Background(), &capi.Config{
		APIEndpoint: server.URL,
		Listeners: []capi.Listener{
			metrics,
			capi.ListenerFunc(func(capi.RequestEvent) { configured.Add(1) }),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Listeners().Len())

	var failed atomic.Int32

	unregister := c.Listeners().Register(capi.ListenerFunc(func(event capi.RequestEvent) {
		if event.Failed() {
			failed.Add(1)
		}
	}))

	// A panicking listener never changes the outcome of the call.
	c.Listeners().Register(capi.ListenerFunc(func(capi.RequestEvent) { panic("listener bug") }))

	ctx := context.Background()

	_, err = c.Spaces().Get(ctx, capi.GetSpaceRequest{ID: "space-guid"})
	require.NoError(t, err)

	_, err = c.Spaces().Get(ctx, capi.GetSpaceRequest{ID: "missing"})
	require.Error(t, err)
	assert.True(t, capi.IsNotFound(err))

	unregister()

	_, err = c.Spaces().Get(ctx, capi.GetSpaceRequest{ID: "missing"})
	require.Error(t, err)

	assert.Equal(t, int32(3), configured.Load())
	assert.Equal(t, int32(1), failed.Load())

	snapshot := metrics.GetMetrics("GET /v2/spaces/missing")
	require.NotNil(t, snapshot)
	assert.Equal(t, int64(2), snapshot.TotalRequests)
	assert.Equal(t, int64(2), snapshot.TotalErrors)
}
