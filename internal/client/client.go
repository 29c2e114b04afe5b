package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fivetwenty-io/cfapi/internal/auth"
	internalhttp "github.com/fivetwenty-io/cfapi/internal/http"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// Client implements capi.Client.
type Client struct {
	httpClient   *internalhttp.Client
	tokenManager auth.TokenManager
	listeners    *capi.ListenerRegistry

	spaces           *SpacesClient
	organizations    *OrganizationsClient
	securityGroups   *SecurityGroupsClient
	applicationsV2   *ApplicationsV2Client
	serviceInstances *ServiceInstancesClient
	applications     *ApplicationsClient
	packages         *PackagesClient
	processes        *ProcessesClient
	droplets         *DropletsClient
	logs             *LogsClient
}

// New creates a client, choosing a token manager from the credentials in
// config. Without credentials requests are sent unauthenticated.
func New(_ context.Context, config *capi.Config) (*Client, error) {
	if config == nil || config.APIEndpoint == "" {
		return nil, capi.ErrAPIEndpointRequired
	}

	return NewWithTokenManager(config, createTokenManager(config))
}

// NewWithTokenManager creates a client that authenticates through tokenManager.
func NewWithTokenManager(config *capi.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil || config.APIEndpoint == "" {
		return nil, capi.ErrAPIEndpointRequired
	}

	listeners := capi.NewListenerRegistry()
	for _, listener := range config.Listeners {
		listeners.Register(listener)
	}

	httpClient := internalhttp.NewClient(config.APIEndpoint, tokenManager, createHTTPClientOptions(config, listeners)...)

	c := &Client{
		httpClient:       httpClient,
		tokenManager:     tokenManager,
		listeners:        listeners,
		spaces:           NewSpacesClient(httpClient),
		organizations:    NewOrganizationsClient(httpClient),
		securityGroups:   NewSecurityGroupsClient(httpClient),
		applicationsV2:   NewApplicationsV2Client(httpClient),
		serviceInstances: NewServiceInstancesClient(httpClient),
		applications:     NewApplicationsClient(httpClient),
		packages:         NewPackagesClient(httpClient),
		processes:        NewProcessesClient(httpClient),
		droplets:         NewDropletsClient(httpClient),
	}

	c.logs = NewLogsClient(httpClient, config.LoggingEndpoint, c.discoverLoggingEndpoint).WithLogger(config.Logger)

	return c, nil
}

func createTokenManager(config *capi.Config) auth.TokenManager {
	if config.AccessToken == "" && config.RefreshToken == "" && config.Username == "" &&
		(config.ClientID == "" || config.ClientSecret == "") {
		return nil
	}

	return auth.NewOAuth2TokenManager(&auth.OAuth2Config{
		TokenURL:     tokenURL(config),
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Username:     config.Username,
		Password:     config.Password,
		RefreshToken: config.RefreshToken,
		AccessToken:  config.AccessToken,
		HTTPClient:   tokenHTTPClient(config),
	})
}

// tokenHTTPClient returns nil, the oauth2 default, unless certificate checks
// are disabled.
func tokenHTTPClient(config *capi.Config) *http.Client {
	if !config.SkipTLSVerify {
		return nil
	}

	opts := []internalhttp.Option{internalhttp.WithTLSSkipVerify(true)}
	if config.HTTPTimeout > 0 {
		opts = append(opts, internalhttp.WithHTTPTimeout(config.HTTPTimeout))
	}

	return internalhttp.NewClient(tokenURL(config), nil, opts...).HTTPClient()
}

// tokenURL falls back to the API endpoint when the token endpoint was not
// discovered beforehand.
func tokenURL(config *capi.Config) string {
	if config.TokenURL != "" {
		return config.TokenURL
	}

	return strings.TrimSuffix(config.APIEndpoint, "/") + "/oauth/token"
}

func createHTTPClientOptions(config *capi.Config, listeners *capi.ListenerRegistry) []internalhttp.Option {
	httpOpts := []internalhttp.Option{
		internalhttp.WithListeners(listeners),
		internalhttp.WithDebug(config.Debug),
		internalhttp.WithUserAgent(config.UserAgent),
		internalhttp.WithTLSSkipVerify(config.SkipTLSVerify),
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(config.Logger))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, internalhttp.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		httpOpts = append(httpOpts, internalhttp.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	return httpOpts
}

func (c *Client) discoverLoggingEndpoint(ctx context.Context) (string, error) {
	info, err := c.GetInfo(ctx)
	if err != nil {
		return "", err
	}

	return info.LoggingEndpoint, nil
}

// TokenManager returns the token manager, or nil for an unauthenticated client.
func (c *Client) TokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetInfo implements capi.Client.GetInfo.
func (c *Client) GetInfo(ctx context.Context) (*capi.Info, error) {
	info, err := exchange[capi.Info](ctx, c.httpClient, noParams{}, operation{
		method: http.MethodGet,
		action: "getting info",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "info")
		},
	})
	if err != nil {
		return nil, err
	}

	if info == nil {
		return nil, fmt.Errorf("getting info: %w", capi.ErrEmptyResponseBody)
	}

	return info, nil
}

// Listeners implements capi.Client.Listeners.
func (c *Client) Listeners() *capi.ListenerRegistry {
	return c.listeners
}

// Spaces implements capi.Client.Spaces.
func (c *Client) Spaces() capi.SpacesClient {
	return c.spaces
}

// Organizations implements capi.Client.Organizations.
func (c *Client) Organizations() capi.OrganizationsClient {
	return c.organizations
}

// SecurityGroups implements capi.Client.SecurityGroups.
func (c *Client) SecurityGroups() capi.SecurityGroupsClient {
	return c.securityGroups
}

// ApplicationsV2 implements capi.Client.ApplicationsV2.
func (c *Client) ApplicationsV2() capi.ApplicationsV2Client {
	return c.applicationsV2
}

// ServiceInstances implements capi.Client.ServiceInstances.
func (c *Client) ServiceInstances() capi.ServiceInstancesClient {
	return c.serviceInstances
}

// Applications implements capi.Client.Applications.
func (c *Client) Applications() capi.ApplicationsClient {
	return c.applications
}

// Packages implements capi.Client.Packages.
func (c *Client) Packages() capi.PackagesClient {
	return c.packages
}

// Processes implements capi.Client.Processes.
func (c *Client) Processes() capi.ProcessesClient {
	return c.processes
}

// Droplets implements capi.Client.Droplets.
func (c *Client) Droplets() capi.DropletsClient {
	return c.droplets
}

// Logs implements capi.Client.Logs.
func (c *Client) Logs() capi.LogsClient {
	return c.logs
}

// LogsClient returns the concrete logs client, e.g. to swap its dialer.
func (c *Client) LogsClient() *LogsClient {
	return c.logs
}

var _ capi.Client = (*Client)(nil)
