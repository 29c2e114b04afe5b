package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fivetwenty-io/cfapi/internal/constants"
	internalhttp "github.com/fivetwenty-io/cfapi/internal/http"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
	"github.com/fivetwenty-io/cfapi/pkg/loggregator"
)

// MethodClose marks the listener event emitted when a log session ends.
const MethodClose = "CLOSE"

// LogsClient implements capi.LogsClient against the loggregator endpoint.
type LogsClient struct {
	httpClient *internalhttp.Client
	dialer     loggregator.Dialer
	logger     capi.Logger
	discover   func(context.Context) (string, error)

	mu       sync.Mutex
	endpoint string
}

// NewLogsClient creates a LogsClient. When endpoint is empty it is resolved
// once through discover, usually from /v2/info. The websocket dialer shares
// the TLS settings of httpClient.
func NewLogsClient(httpClient *internalhttp.Client, endpoint string, discover func(context.Context) (string, error)) *LogsClient {
	return &LogsClient{
		httpClient: httpClient,
		dialer:     newWebSocketDialer(httpClient.TLSConfig()),
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		discover:   discover,
	}
}

func newWebSocketDialer(tlsConfig *tls.Config) loggregator.Dialer {
	return loggregator.WebSocketDialer{Dialer: &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: constants.HandshakeTimeout,
		TLSClientConfig:  tlsConfig,
	}}
}

// WithDialer replaces the websocket dialer used by Stream.
func (c *LogsClient) WithDialer(dialer loggregator.Dialer) *LogsClient {
	c.dialer = dialer

	return c
}

// WithLogger sets the logger handed to every session.
func (c *LogsClient) WithLogger(logger capi.Logger) *LogsClient {
	c.logger = logger

	return c
}

// Endpoint returns the logging endpoint, resolving it on first use.
func (c *LogsClient) Endpoint(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.endpoint != "" {
		return c.endpoint, nil
	}

	if c.discover == nil {
		return "", capi.ErrNoLoggingEndpoint
	}

	endpoint, err := c.discover(ctx)
	if err != nil {
		return "", fmt.Errorf("discovering logging endpoint: %w", err)
	}

	if endpoint == "" {
		return "", capi.ErrNoLoggingEndpoint
	}

	c.endpoint = strings.TrimSuffix(endpoint, "/")

	return c.endpoint, nil
}

// Recent implements capi.LogsClient.Recent.
func (c *LogsClient) Recent(ctx context.Context, request capi.RecentLogsRequest) ([]*loggregator.LogMessage, error) {
	err := capi.Validate(request)
	if err != nil {
		return nil, fmt.Errorf("getting recent logs: %w", err)
	}

	endpoint, err := c.Endpoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting recent logs: %w", err)
	}

	resp, err := exchangeRaw(ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "getting recent logs",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("recent").Param("app", request.ID)
		},
		baseURL: httpScheme(endpoint),
		accept:  loggregator.MediaTypeRecent,
	})
	if err != nil {
		return nil, err
	}

	messages, err := loggregator.ParseRecent(resp.Headers.Get("Content-Type"), bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("getting recent logs: %w", &capi.ClientError{
			Op:     capi.OpDecode,
			Method: http.MethodGet,
			URI:    resp.URL,
			Err:    err,
		})
	}

	return messages, nil
}

// Stream implements capi.LogsClient.Stream. Listeners see one event when the
// session opens and one with method CLOSE when it is released.
func (c *LogsClient) Stream(ctx context.Context, request capi.StreamLogsRequest) (*loggregator.Session, error) {
	err := capi.Validate(request)
	if err != nil {
		return nil, fmt.Errorf("streaming logs: %w", err)
	}

	endpoint, err := c.Endpoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("streaming logs: %w", err)
	}

	builder := capi.NewURIBuilder().PathSegment("tail", "").Param("app", request.ID)
	streamURL := builder.Build(websocketScheme(endpoint))

	header := http.Header{}
	header.Set("User-Agent", c.httpClient.UserAgent())

	authorization, err := c.httpClient.AuthorizationHeader(ctx)
	if err != nil {
		return nil, fmt.Errorf("streaming logs: %w", &capi.ClientError{
			Op:     capi.OpDial,
			Method: http.MethodGet,
			URI:    streamURL,
			Err:    err,
		})
	}

	if authorization != "" {
		header.Set("Authorization", authorization)
	}

	// base is shared with the release hook, which may run on the session's
	// reader goroutine, and must not be written after Open.
	base := capi.RequestEvent{
		ID:        uuid.NewString(),
		Method:    http.MethodGet,
		URI:       streamURL,
		Path:      builder.Path(),
		StartedAt: time.Now(),
	}
	header.Set(constants.HeaderRequestID, base.ID)

	opts := []loggregator.Option{
		loggregator.WithReleaseHook(func(cause error) {
			closed := base
			closed.Method = MethodClose
			closed.Duration = time.Since(base.StartedAt)
			closed.Err = cause
			c.httpClient.Listeners().Notify(closed)
		}),
	}

	if c.logger != nil {
		opts = append(opts, loggregator.WithLogger(c.logger))
	}

	opts = append(opts, request.Options...)

	session, err := loggregator.Open(ctx, c.dialer, streamURL, header, opts...)

	opened := base
	opened.Duration = time.Since(base.StartedAt)

	if err != nil {
		err = dialError(streamURL, err)
		opened.Err = err

		var cfErr *capi.CloudFoundryError
		if errors.As(err, &cfErr) {
			opened.StatusCode = cfErr.StatusCode
		}

		c.httpClient.Listeners().Notify(opened)

		return nil, fmt.Errorf("streaming logs: %w", err)
	}

	opened.StatusCode = http.StatusSwitchingProtocols
	c.httpClient.Listeners().Notify(opened)

	return session, nil
}

func dialError(streamURL string, err error) error {
	var handshake *loggregator.HandshakeError
	if errors.As(err, &handshake) {
		return capi.NormalizeError(handshake.StatusCode, handshake.Body)
	}

	return &capi.ClientError{Op: capi.OpDial, Method: http.MethodGet, URI: streamURL, Err: err}
}

func httpScheme(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "wss://"):
		return "https://" + strings.TrimPrefix(endpoint, "wss://")
	case strings.HasPrefix(endpoint, "ws://"):
		return "http://" + strings.TrimPrefix(endpoint, "ws://")
	default:
		return endpoint
	}
}

func websocketScheme(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")
	case strings.HasPrefix(endpoint, "http://"):
		return "ws://" + strings.TrimPrefix(endpoint, "http://")
	default:
		return endpoint
	}
}
