// Package http is the transport under every API call: it authenticates,
// encodes bodies, sends through go-retryablehttp, normalises failures and
// notifies request listeners.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/cfapi/internal/auth"
	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// Client sends requests to one API endpoint.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	userAgent    string
	logger       capi.Logger
	debug        bool
	listeners    *capi.ListenerRegistry
}

// Request describes one exchange. At most one of Body, Multipart and RawBody
// is used, in that order.
type Request struct {
	Method string
	// Path is appended to the base URL, or to BaseURL when set.
	Path string
	// BaseURL overrides the client's base URL, e.g. for the logging endpoint.
	BaseURL string
	// RawQuery is an already encoded query. Query values are appended to it.
	RawQuery string
	Query    url.Values
	// Body is encoded as JSON.
	Body      interface{}
	Multipart *capi.MultipartBody
	RawBody   io.Reader
	// ContentType applies to RawBody.
	ContentType string
	// Accept defaults to application/json.
	Accept  string
	Headers map[string]string
}

// Response is a fully read response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	// URL is the request URL the response answers.
	URL string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger capi.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug logs every request and response at debug level.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig enables retries of connection errors, 429 and 5xx
// responses. A retryMax of zero disables them.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax

		if waitMin > 0 {
			c.httpClient.RetryWaitMin = waitMin
		}

		if waitMax > 0 {
			c.httpClient.RetryWaitMax = waitMax
		}
	}
}

// WithListeners sets the registry notified after every exchange.
func WithListeners(listeners *capi.ListenerRegistry) Option {
	return func(c *Client) {
		c.listeners = listeners
	}
}

// WithHTTPTimeout caps each attempt.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithTLSSkipVerify disables certificate verification.
func WithTLSSkipVerify(skip bool) Option {
	return func(c *Client) {
		if !skip {
			return
		}

		transport, ok := c.httpClient.HTTPClient.Transport.(*http.Transport)
		if !ok {
			return
		}

		transport = transport.Clone()
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{} //nolint:gosec // MinVersion set below
		}

		transport.TLSClientConfig.MinVersion = tls.VersionTLS12
		transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec // opt-in for development
		c.httpClient.HTTPClient.Transport = transport
	}
}

// NewClient creates a client for baseURL. tokenManager may be nil for
// unauthenticated endpoints.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 0
	httpClient.RetryWaitMin = constants.DefaultRetryWaitMin
	httpClient.RetryWaitMax = constants.DefaultRetryWaitMax
	httpClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	httpClient.Logger = nil

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   httpClient,
		tokenManager: tokenManager,
		userAgent:    constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger != nil {
		httpClient.Logger = leveledLogger{c.logger}
	}

	return c
}

// BaseURL returns the API endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the underlying standard client, e.g. for token requests.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient.HTTPClient
}

// TLSConfig returns a copy of the transport's TLS settings, or nil when the
// defaults apply.
func (c *Client) TLSConfig() *tls.Config {
	transport, ok := c.httpClient.HTTPClient.Transport.(*http.Transport)
	if !ok || transport.TLSClientConfig == nil {
		return nil
	}

	return transport.TLSClientConfig.Clone()
}

// UserAgent returns the User-Agent header sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// TokenManager returns the token manager, or nil.
func (c *Client) TokenManager() auth.TokenManager {
	return c.tokenManager
}

// Listeners returns the registry notified after every exchange, or nil.
func (c *Client) Listeners() *capi.ListenerRegistry {
	return c.listeners
}

// AuthorizationHeader returns the bearer header value, or "" without a token manager.
func (c *Client) AuthorizationHeader(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", nil
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get auth token: %w", err)
	}

	return "bearer " + token, nil
}

// Do sends req. A non-2xx response is returned together with a
// *capi.CloudFoundryError; a transport failure yields a *capi.ClientError.
// The request is sent at most once unless retries were configured.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	event := capi.RequestEvent{
		ID:        uuid.NewString(),
		Method:    req.Method,
		Path:      req.Path,
		StartedAt: time.Now(),
	}

	resp, err := c.do(ctx, req, &event)

	event.Duration = time.Since(event.StartedAt)
	event.Err = err

	if resp != nil {
		event.StatusCode = resp.StatusCode
	}

	c.listeners.Notify(event)

	return resp, err
}

func (c *Client) do(ctx context.Context, req *Request, event *capi.RequestEvent) (*Response, error) {
	fullURL := c.buildURL(req)
	event.URI = fullURL

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, &capi.ClientError{Op: capi.OpEncode, Method: req.Method, URI: fullURL, Err: err}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, &capi.ClientError{Op: capi.OpEncode, Method: req.Method, URI: fullURL, Err: err}
	}

	accept := req.Accept
	if accept == "" {
		accept = constants.MediaTypeJSON
	}

	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(constants.HeaderRequestID, event.ID)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	authorization, err := c.AuthorizationHeader(ctx)
	if err != nil {
		return nil, &capi.ClientError{Op: capi.OpSend, Method: req.Method, URI: fullURL, Err: err}
	}

	if authorization != "" {
		httpReq.Header.Set("Authorization", authorization)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	c.logDebug("HTTP Request", map[string]interface{}{
		"id":     event.ID,
		"method": req.Method,
		"url":    fullURL,
	})

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &capi.ClientError{Op: capi.OpSend, Method: req.Method, URI: fullURL, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &capi.ClientError{Op: capi.OpRead, Method: req.Method, URI: fullURL, Err: err}
	}

	c.logDebug("HTTP Response", map[string]interface{}{
		"id":          event.ID,
		"status_code": httpResp.StatusCode,
		"body_size":   len(respBody),
	})

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
		URL:        fullURL,
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return resp, capi.NormalizeError(httpResp.StatusCode, respBody)
	}

	return resp, nil
}

func (c *Client) buildURL(req *Request) string {
	base := c.baseURL
	if req.BaseURL != "" {
		base = strings.TrimSuffix(req.BaseURL, "/")
	}

	query := req.RawQuery
	if len(req.Query) > 0 {
		if query != "" {
			query += "&"
		}

		query += req.Query.Encode()
	}

	if query == "" {
		return base + req.Path
	}

	return base + req.Path + "?" + query
}

func encodeBody(req *Request) (io.Reader, string, error) {
	switch {
	case req.Body != nil:
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}

		return bytes.NewReader(encoded), constants.MediaTypeJSON, nil
	case req.Multipart != nil:
		return encodeMultipart(req.Multipart)
	case req.RawBody != nil:
		return req.RawBody, req.ContentType, nil
	default:
		return nil, "", nil
	}
}

func encodeMultipart(body *capi.MultipartBody) (io.Reader, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	for _, part := range body.Parts {
		header := textproto.MIMEHeader{}

		disposition := fmt.Sprintf(`form-data; name=%q`, part.Name)
		if part.FileName != "" {
			disposition += fmt.Sprintf(`; filename=%q`, part.FileName)
		}

		header.Set("Content-Disposition", disposition)

		if part.ContentType != "" {
			header.Set("Content-Type", part.ContentType)
		}

		w, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %s: %w", part.Name, err)
		}

		if part.Content == nil {
			continue
		}

		if _, err := io.Copy(w, part.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write part %s: %w", part.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

func (c *Client) logDebug(msg string, fields map[string]interface{}) {
	if c.logger != nil && c.debug {
		c.logger.Debug(msg, fields)
	}
}

// IsClientFault reports whether err came from this side of the exchange.
func IsClientFault(err error) bool {
	var clientErr *capi.ClientError

	return errors.As(err, &clientErr)
}
