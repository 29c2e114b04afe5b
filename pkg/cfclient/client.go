package cfclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fivetwenty-io/cfapi/internal/client"
	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// DevModeEnv enables SkipTLSVerify when set to "true" or "1".
const DevModeEnv = "CFAPI_DEV_MODE"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func configValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	return validate
}

// New creates a Cloud Foundry client. The endpoint is normalized and the
// config validated. When credentials need UAA and no TokenURL is set, the
// token endpoint is read from /v2/info; the logging endpoint is taken from
// the same response when it was not configured. config is not modified.
func New(ctx context.Context, config *capi.Config) (capi.Client, error) {
	if config == nil {
		return nil, capi.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, capi.ErrAPIEndpointRequired
	}

	cfg := *config
	cfg.APIEndpoint = NormalizeEndpoint(cfg.APIEndpoint)

	err := configValidator().Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", capi.ErrInvalidConfig, err)
	}

	if cfg.SkipTLSVerify && !DevModeEnabled() {
		return nil, fmt.Errorf("%w (set %s=true)", capi.ErrSkipTLSOnlyInDev, DevModeEnv)
	}

	if needsAuth(&cfg) && cfg.TokenURL == "" {
		info, err := discoverInfo(ctx, cfg.APIEndpoint, cfg.SkipTLSVerify)
		if err != nil {
			return nil, fmt.Errorf("discovering UAA endpoint: %w", err)
		}

		cfg.TokenURL, err = TokenURL(info)
		if err != nil {
			return nil, err
		}

		if cfg.LoggingEndpoint == "" {
			cfg.LoggingEndpoint = info.LoggingEndpoint
		}
	}

	c, err := client.New(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NormalizeEndpoint trims a trailing slash and defaults the scheme to https.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// TokenURL returns the OAuth2 token URL advertised by info, preferring the
// token endpoint over the authorization endpoint.
func TokenURL(info *capi.Info) (string, error) {
	uaaURL := info.TokenEndpoint
	if uaaURL == "" {
		uaaURL = info.AuthorizationEndpoint
	}

	if uaaURL == "" {
		return "", capi.ErrNoUAAOrLoginURL
	}

	return strings.TrimSuffix(uaaURL, "/") + "/oauth/token", nil
}

// needsAuth reports whether the credentials require the token endpoint.
func needsAuth(config *capi.Config) bool {
	return config.Username != "" || config.ClientID != "" || config.RefreshToken != ""
}

// DevModeEnabled reports whether DevModeEnv is set to "true" or "1".
func DevModeEnabled() bool {
	devMode := os.Getenv(DevModeEnv)

	return devMode == "true" || devMode == "1"
}

func createDiscoveryHTTPClient(skipTLS bool) *http.Client {
	httpClient := &http.Client{
		Timeout: constants.ShortHTTPTimeout,
	}

	if skipTLS {
		httpClient.Transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion:         tls.VersionTLS12,
				InsecureSkipVerify: true, // #nosec G402 -- only reachable in development mode
			},
		}
	}

	return httpClient
}

// discoverInfo fetches /v2/info without authentication.
func discoverInfo(ctx context.Context, apiEndpoint string, skipTLS bool) (*capi.Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiEndpoint+"/v2/info", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", constants.MediaTypeJSON)

	resp, err := createDiscoveryHTTPClient(skipTLS).Do(req)
	if err != nil {
		return nil, fmt.Errorf("getting API info: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, constants.MaxErrorBodySize))

		return nil, fmt.Errorf("%w with status %d: %s", capi.ErrRootInfoRequestFailed, resp.StatusCode, string(body))
	}

	var info capi.Info

	err = json.NewDecoder(resp.Body).Decode(&info)
	if err != nil {
		return nil, fmt.Errorf("parsing API info: %w", err)
	}

	return &info, nil
}

// NewWithEndpoint creates an unauthenticated client.
func NewWithEndpoint(ctx context.Context, endpoint string) (capi.Client, error) {
	return New(ctx, &capi.Config{
		APIEndpoint: endpoint,
	})
}

// NewWithToken creates a client that sends a fixed access token.
func NewWithToken(ctx context.Context, endpoint, token string) (capi.Client, error) {
	return New(ctx, &capi.Config{
		APIEndpoint: endpoint,
		AccessToken: token,
	})
}

// NewWithClientCredentials creates a client using the client credentials grant.
func NewWithClientCredentials(ctx context.Context, endpoint, clientID, clientSecret string) (capi.Client, error) {
	return New(ctx, &capi.Config{
		APIEndpoint:  endpoint,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

// NewWithPassword creates a client using the password grant.
func NewWithPassword(ctx context.Context, endpoint, username, password string) (capi.Client, error) {
	return New(ctx, &capi.Config{
		APIEndpoint: endpoint,
		Username:    username,
		Password:    password,
	})
}
