package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/cfapi/internal/auth"
	"github.com/fivetwenty-io/cfapi/internal/client"
	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
	"github.com/fivetwenty-io/cfapi/pkg/cfclient"
)

// newClient builds a client from the merged configuration. The returned
// cleanup func releases the event publisher and must always be called.
func newClient(cmd *cobra.Command) (capi.Client, func(), error) {
	config := loadConfig()
	if config.API == "" {
		return nil, nil, constants.ErrNoAPIEndpoint
	}

	if config.Token == "" && config.RefreshToken == "" {
		return nil, nil, constants.ErrNotAuthenticated
	}

	if config.SkipSSLValidation && !cfclient.DevModeEnabled() {
		return nil, nil, constants.ErrSSLOnlyInDev
	}

	logger := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))
	cleanup := func() {}

	capiConfig := &capi.Config{
		APIEndpoint:     cfclient.NormalizeEndpoint(config.API),
		LoggingEndpoint: config.LoggingEndpoint,
		TokenURL:        config.TokenURL,
		AccessToken:     config.Token,
		RefreshToken:    config.RefreshToken,
		SkipTLSVerify:   config.SkipSSLValidation,
		Logger:          logger,
		Debug:           viper.GetBool("verbose"),
	}

	if viper.GetBool("verbose") {
		capiConfig.Listeners = append(capiConfig.Listeners, capi.LoggingListener(logger))
	}

	if natsURL := viper.GetString("events_nats_url"); natsURL != "" {
		publisher, err := capi.ConnectNATSListener(natsURL, viper.GetString("events_subject"), logger)
		if err != nil {
			return nil, nil, err
		}

		capiConfig.Listeners = append(capiConfig.Listeners, publisher)
		cleanup = func() { _ = publisher.Close() }
	}

	c, err := buildClient(cmd.Context(), capiConfig, config, logger)
	if err != nil {
		cleanup()

		return nil, nil, err
	}

	return c, cleanup, nil
}

// buildClient wires a persisting token manager when the session can be
// refreshed, so renewed tokens survive the process.
func buildClient(ctx context.Context, capiConfig *capi.Config, config *Config, logger capi.Logger) (capi.Client, error) {
	if config.RefreshToken == "" || config.TokenURL == "" {
		return cfclient.New(ctx, capiConfig)
	}

	oauthConfig := &auth.OAuth2Config{
		TokenURL:     config.TokenURL,
		ClientID:     constants.DefaultClientID,
		RefreshToken: config.RefreshToken,
		AccessToken:  config.Token,
	}

	if config.SkipSSLValidation {
		oauthConfig.HTTPClient = insecureHTTPClient()
	}

	manager := auth.NewOAuth2TokenManager(oauthConfig)

	if config.Token != "" {
		var expiresAt time.Time
		if config.TokenExpiresAt != nil {
			expiresAt = *config.TokenExpiresAt
		}

		manager.SetToken(config.Token, expiresAt)
	}

	persisting := auth.NewPersistingTokenManager(manager, auth.TokenPersisterFunc(func(token *auth.Token) error {
		return persistToken(token)
	}))
	persisting.OnPersistError = func(err error) {
		logger.Warn("Failed to save refreshed token", map[string]interface{}{"error": err.Error()})
	}

	c, err := client.NewWithTokenManager(capiConfig, persisting)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return c, nil
}

// persistToken writes a refreshed token back to the config file.
func persistToken(token *auth.Token) error {
	config := loadConfig()
	config.Token = token.AccessToken

	if token.RefreshToken != "" {
		config.RefreshToken = token.RefreshToken
	}

	config.TokenExpiresAt = nil
	if !token.ExpiresAt.IsZero() {
		expiresAt := token.ExpiresAt
		config.TokenExpiresAt = &expiresAt
	}

	return saveConfig(config)
}
