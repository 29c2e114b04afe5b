package capi

import (
	"context"
	"time"
)

// V2Clients groups the clients for v2 endpoints.
type V2Clients interface {
	Spaces() SpacesClient
	Organizations() OrganizationsClient
	SecurityGroups() SecurityGroupsClient
	ApplicationsV2() ApplicationsV2Client
	ServiceInstances() ServiceInstancesClient
}

// V3Clients groups the clients for v3 endpoints.
type V3Clients interface {
	Applications() ApplicationsClient
	Packages() PackagesClient
	Processes() ProcessesClient
	Droplets() DropletsClient
}

// Client is the Cloud Foundry control-plane client.
type Client interface {
	V2Clients
	V3Clients

	// Logs returns the loggregator client for recent and streamed logs.
	Logs() LogsClient
	// Listeners returns the registry notified after every exchange.
	Listeners() *ListenerRegistry
	// GetInfo fetches /v2/info.
	GetInfo(ctx context.Context) (*Info, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// # Authentication precedence
//
//  1. AccessToken: used directly as a static Bearer token.
//  2. ClientID/ClientSecret: OAuth2 client_credentials grant.
//  3. Username/Password: OAuth2 password grant with the "cf" client.
//  4. RefreshToken alone: OAuth2 refresh grant.
//  5. No credentials: requests are sent without authentication.
//
// If authentication is required and TokenURL is empty, cfclient.New reads
// the token endpoint from /v2/info.
//
// # Retries
//
// Dispatch never retries on its own. Setting RetryMax above zero installs
// go-retryablehttp's policy (connection errors, 429 and 5xx) underneath
// dispatch, so the caller still observes one result per operation.
type Config struct {
	// APIEndpoint is the base URL of the API, e.g. "https://api.example.com".
	APIEndpoint string `validate:"required,url"`
	// LoggingEndpoint is the loggregator URL, e.g. "wss://loggregator.example.com:443".
	// When empty it is read from /v2/info on first use.
	LoggingEndpoint string `validate:"omitempty,url"`

	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	RefreshToken string
	AccessToken  string
	// TokenURL is the full OAuth2 token endpoint.
	TokenURL string `validate:"omitempty,url"`

	// HTTPTimeout caps each HTTP exchange. Zero uses the 30s default.
	HTTPTimeout time.Duration `validate:"gte=0"`
	// RetryMax is the number of retries for transient failures. Zero disables retries.
	RetryMax     int           `validate:"gte=0"`
	RetryWaitMin time.Duration `validate:"gte=0"`
	RetryWaitMax time.Duration `validate:"gte=0"`

	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger receives library logs. Nil disables logging.
	Logger Logger `validate:"-"`
	// SkipTLSVerify disables certificate checks. Only honoured when
	// CFAPI_DEV_MODE is "true" or "1".
	SkipTLSVerify bool
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Listeners are registered on the client at construction.
	Listeners []Listener `validate:"-"`
}

// Info represents the /v2/info response.
type Info struct {
	Name                     string `json:"name"                                  yaml:"name"`
	Build                    string `json:"build"                                 yaml:"build"`
	Support                  string `json:"support"                               yaml:"support"`
	Version                  int    `json:"version"                               yaml:"version"`
	Description              string `json:"description"                           yaml:"description"`
	AuthorizationEndpoint    string `json:"authorization_endpoint"                yaml:"authorization_endpoint"`
	TokenEndpoint            string `json:"token_endpoint"                        yaml:"token_endpoint"`
	MinCLIVersion            string `json:"min_cli_version,omitempty"             yaml:"min_cli_version,omitempty"`
	MinRecommendedCLIVersion string `json:"min_recommended_cli_version,omitempty" yaml:"min_recommended_cli_version,omitempty"`
	APIVersion               string `json:"api_version"                           yaml:"api_version"`
	AppSSHEndpoint           string `json:"app_ssh_endpoint,omitempty"            yaml:"app_ssh_endpoint,omitempty"`
	RoutingEndpoint          string `json:"routing_endpoint,omitempty"            yaml:"routing_endpoint,omitempty"`
	LoggingEndpoint          string `json:"logging_endpoint"                      yaml:"logging_endpoint"`
	DopplerLoggingEndpoint   string `json:"doppler_logging_endpoint,omitempty"    yaml:"doppler_logging_endpoint,omitempty"`
}
