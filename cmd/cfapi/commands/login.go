package commands

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/cfapi/internal/auth"
	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
	"github.com/fivetwenty-io/cfapi/pkg/cfclient"
)

type loginOptions struct {
	username     string
	password     string
	clientID     string
	clientSecret string
}

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var opts loginOptions

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a Cloud Foundry API",
		Long: `Authenticate against the UAA advertised by the API's /v2/info document
and save the resulting tokens.

Use --client-id and --client-secret for the client credentials grant.
Otherwise the password grant is used and missing values are prompted for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "password")
	cmd.Flags().StringVar(&opts.clientID, "client-id", "", "OAuth client ID")
	cmd.Flags().StringVar(&opts.clientSecret, "client-secret", "", "OAuth client secret")

	return cmd
}

func runLogin(cmd *cobra.Command, opts loginOptions) error {
	config := loadConfig()
	if config.API == "" {
		return constants.ErrNoAPIEndpoint
	}

	if config.SkipSSLValidation && !cfclient.DevModeEnabled() {
		return constants.ErrSSLOnlyInDev
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	endpoint := cfclient.NormalizeEndpoint(config.API)

	anonymous, err := cfclient.New(ctx, &capi.Config{
		APIEndpoint:   endpoint,
		SkipTLSVerify: config.SkipSSLValidation,
	})
	if err != nil {
		return err
	}

	info, err := anonymous.GetInfo(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", constants.ErrAPIRequestFailed, err)
	}

	tokenURL, err := cfclient.TokenURL(info)
	if err != nil {
		return fmt.Errorf("%w: %w", constants.ErrNoUAAInAPIInfo, err)
	}

	oauthConfig := &auth.OAuth2Config{
		TokenURL:     tokenURL,
		ClientID:     opts.clientID,
		ClientSecret: opts.clientSecret,
	}

	if opts.clientID == "" || opts.clientSecret == "" {
		err = promptCredentials(cmd, &opts)
		if err != nil {
			return err
		}

		oauthConfig.ClientID = constants.DefaultClientID
		oauthConfig.ClientSecret = ""
		oauthConfig.Username = opts.username
		oauthConfig.Password = opts.password
	}

	if config.SkipSSLValidation {
		oauthConfig.HTTPClient = insecureHTTPClient()
	}

	_, _ = fmt.Fprintf(out, "Authenticating with %s...\n", tokenURL)

	manager := auth.NewOAuth2TokenManager(oauthConfig)

	err = manager.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	token := manager.Token()

	if cfclient.NormalizeEndpoint(loadedAPI()) != endpoint {
		config.Organization, config.OrganizationGUID = "", ""
		config.Space, config.SpaceGUID = "", ""
	}

	config.API = endpoint
	config.TokenURL = tokenURL
	config.LoggingEndpoint = info.LoggingEndpoint
	config.Token = token.AccessToken
	config.RefreshToken = token.RefreshToken
	config.TokenExpiresAt = nil

	if !token.ExpiresAt.IsZero() {
		expiresAt := token.ExpiresAt
		config.TokenExpiresAt = &expiresAt
	}

	config.Username = opts.username
	if config.Username == "" {
		config.Username = opts.clientID
	}

	err = saveConfig(config)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "OK\n\nAPI endpoint: %s (API version: %s)\nUser:         %s\n",
		endpoint, orNotAvailable(info.APIVersion), config.Username)

	return nil
}

// loadedAPI returns the API endpoint stored in the config file, ignoring
// flags and environment.
func loadedAPI() string {
	configFile, err := configFilePath()
	if err != nil {
		return ""
	}

	stored := viper.New()
	stored.SetConfigFile(configFile)

	if stored.ReadInConfig() != nil {
		return ""
	}

	return stored.GetString("api")
}

func promptCredentials(cmd *cobra.Command, opts *loginOptions) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	if opts.username == "" {
		_, _ = fmt.Fprint(out, "Username: ")

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read username: %w", err)
		}

		opts.username = strings.TrimSpace(line)
	}

	if opts.password == "" {
		_, _ = fmt.Fprint(out, "Password: ")

		password, err := readPassword(cmd.InOrStdin(), reader)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		_, _ = fmt.Fprintln(out)
		opts.password = password
	}

	return nil
}

// readPassword disables echo when input is a terminal.
func readPassword(in io.Reader, reader *bufio.Reader) (string, error) {
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		password, err := term.ReadPassword(int(file.Fd()))
		if err != nil {
			return "", err
		}

		return string(password), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func insecureHTTPClient() *http.Client {
	return &http.Client{
		Timeout: constants.ShortHTTPTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion:         tls.VersionTLS12,
				InsecureSkipVerify: true, // #nosec G402 -- only reachable in development mode
			},
		},
	}
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config := loadConfig()
			config.Token = ""
			config.RefreshToken = ""
			config.TokenExpiresAt = nil
			config.Username = ""

			err := saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return nil
		},
	}
}
