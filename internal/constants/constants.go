package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for discovery requests.
	ShortHTTPTimeout = 10 * time.Second

	// HandshakeTimeout bounds the WebSocket handshake for log tailing.
	HandshakeTimeout = 15 * time.Second

	// CloseTimeout bounds the close frame written when a tail session ends.
	CloseTimeout = 2 * time.Second
)

// DefaultBatchConcurrency bounds the operations a batch runs at once.
const DefaultBatchConcurrency = 5

// Retry settings. Dispatch does not retry unless RetryMax is configured.
const (
	// DefaultRetryWaitMin is the minimum wait between opt-in retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between opt-in retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Buffers.
const (
	// BufferSize is the default number of log frames buffered per tail session.
	BufferSize = 100

	// MaxErrorBodySize limits how much of a failed handshake body is read.
	MaxErrorBodySize = 64 * 1024
)

// Pagination.
const (
	// MinPage is the first page number for paginated requests.
	MinPage = 1

	// MaxPerPage is the largest per_page accepted by the v3 API.
	MaxPerPage = 5000

	// StandardPageSize is the page size used by the CLI.
	StandardPageSize = 50
)

// Headers and media types.
const (
	// HeaderRequestID carries the request correlation id.
	HeaderRequestID = "X-Vcap-Request-Id"

	// MediaTypeJSON is the JSON media type.
	MediaTypeJSON = "application/json"

	// MediaTypeProtobufMultipart is returned by the recent logs endpoint.
	MediaTypeProtobufMultipart = "multipart/x-protobuf"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "cfapi-go/1.0"
)

// Authentication.
const (
	// DefaultClientID is the UAA client used by the cf CLI.
	DefaultClientID = "cf"

	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second
)

// Output formats.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)
