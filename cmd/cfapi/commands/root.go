package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/cfapi/internal/constants"
)

// EnvPrefix is the prefix of environment variables read by the CLI.
const EnvPrefix = "CFAPI"

// NewRootCommand builds the cfapi command tree.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cfapi",
		Short: "Cloud Foundry control plane CLI",
		Long: `A command-line interface for the Cloud Foundry Cloud Controller
and loggregator APIs.

Settings are read from flags, CFAPI_* environment variables and
$HOME/.cfapi/config.yml, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.cfapi/config.yml)")
	flags.StringP("api", "a", "", "API endpoint URL")
	flags.StringP("token", "t", "", "access token")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "log every request to stderr")
	flags.Bool("skip-ssl-validation", false, "skip SSL certificate validation (requires CFAPI_DEV_MODE)")
	flags.String("events-nats-url", "", "publish request events to this NATS server")
	flags.String("events-subject", "", "NATS subject for request events")

	bindFlags := map[string]string{
		"config":              "config",
		"api":                 "api",
		"token":               "token",
		"output":              "output",
		"verbose":             "verbose",
		"skip_ssl_validation": "skip-ssl-validation",
		"events_nats_url":     "events-nats-url",
		"events_subject":      "events-subject",
	}
	for key, flag := range bindFlags {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(NewLoginCommand())
	rootCmd.AddCommand(NewLogoutCommand())
	rootCmd.AddCommand(NewTargetCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewInfoCommand())
	rootCmd.AddCommand(NewOrgsCommand())
	rootCmd.AddCommand(NewSpacesCommand())
	rootCmd.AddCommand(NewAppsCommand())
	rootCmd.AddCommand(NewProcessesCommand())
	rootCmd.AddCommand(NewPackagesCommand())
	rootCmd.AddCommand(NewSecurityGroupsCommand())
	rootCmd.AddCommand(NewServicesCommand())
	rootCmd.AddCommand(NewLogsCommand())

	return rootCmd
}

func initConfig() error {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		viper.AddConfigPath(filepath.Join(home, ".cfapi"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	return nil
}
