package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/cfapi/internal/constants"
)

// Config is the persisted CLI state.
type Config struct {
	API               string     `json:"api,omitempty"               yaml:"api,omitempty"`
	TokenURL          string     `json:"token_url,omitempty"         yaml:"token_url,omitempty"`
	LoggingEndpoint   string     `json:"logging_endpoint,omitempty"  yaml:"logging_endpoint,omitempty"`
	Token             string     `json:"token,omitempty"             yaml:"token,omitempty"`
	RefreshToken      string     `json:"refresh_token,omitempty"     yaml:"refresh_token,omitempty"`
	TokenExpiresAt    *time.Time `json:"token_expires_at,omitempty"  yaml:"token_expires_at,omitempty"`
	Username          string     `json:"username,omitempty"          yaml:"username,omitempty"`
	Organization      string     `json:"organization,omitempty"      yaml:"organization,omitempty"`
	OrganizationGUID  string     `json:"organization_guid,omitempty" yaml:"organization_guid,omitempty"`
	Space             string     `json:"space,omitempty"             yaml:"space,omitempty"`
	SpaceGUID         string     `json:"space_guid,omitempty"        yaml:"space_guid,omitempty"`
	SkipSSLValidation bool       `json:"skip_ssl_validation"         yaml:"skip_ssl_validation"`
	Output            string     `json:"output,omitempty"            yaml:"output,omitempty"`
}

// redacted returns a copy safe for display.
func (c Config) redacted() Config {
	if c.Token != "" {
		c.Token = "[REDACTED]"
	}

	if c.RefreshToken != "" {
		c.RefreshToken = "[REDACTED]"
	}

	return c
}

func loadConfig() *Config {
	config := &Config{
		API:               viper.GetString("api"),
		TokenURL:          viper.GetString("token_url"),
		LoggingEndpoint:   viper.GetString("logging_endpoint"),
		Token:             viper.GetString("token"),
		RefreshToken:      viper.GetString("refresh_token"),
		Username:          viper.GetString("username"),
		Organization:      viper.GetString("organization"),
		OrganizationGUID:  viper.GetString("organization_guid"),
		Space:             viper.GetString("space"),
		SpaceGUID:         viper.GetString("space_guid"),
		SkipSSLValidation: viper.GetBool("skip_ssl_validation"),
	}

	if viper.IsSet("token_expires_at") {
		expiresAt := viper.GetTime("token_expires_at")
		if !expiresAt.IsZero() {
			config.TokenExpiresAt = &expiresAt
		}
	}

	return config
}

func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".cfapi", "config.yml"), nil
}

func saveConfig(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show CLI configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  "Display the configuration after flags, environment and config file are merged. Tokens are redacted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config := loadConfig().redacted()

			return render(cmd.OutOrStdout(), config, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("API", config.API)
				_ = table.Append("Token URL", config.TokenURL)
				_ = table.Append("Logging endpoint", config.LoggingEndpoint)
				_ = table.Append("User", config.Username)
				_ = table.Append("Token", config.Token)
				_ = table.Append("Organization", config.Organization)
				_ = table.Append("Space", config.Space)
				_ = table.Append("Skip SSL validation", fmt.Sprintf("%t", config.SkipSSLValidation))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)

			return err
		},
	})

	return cmd
}
