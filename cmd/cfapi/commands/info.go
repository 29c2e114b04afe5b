package commands

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
	"github.com/fivetwenty-io/cfapi/pkg/cfclient"
)

// NewInfoCommand creates the info command. It does not require a login.
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display API information",
		Long:  "Fetch /v2/info from the configured API endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config := loadConfig()

			var (
				client  capi.Client
				cleanup = func() {}
				err     error
			)

			if config.Token == "" && config.RefreshToken == "" {
				if config.API == "" {
					return constants.ErrNoAPIEndpoint
				}

				client, err = cfclient.New(cmd.Context(), &capi.Config{
					APIEndpoint:   config.API,
					SkipTLSVerify: config.SkipSSLValidation,
					Debug:         viper.GetBool("verbose"),
				})
			} else {
				client, cleanup, err = newClient(cmd)
			}

			if err != nil {
				return err
			}
			defer cleanup()

			info, err := client.GetInfo(cmd.Context())
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), info, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("Name", orNotAvailable(info.Name))
				_ = table.Append("Description", orNotAvailable(info.Description))
				_ = table.Append("API version", orNotAvailable(info.APIVersion))
				_ = table.Append("Build", orNotAvailable(info.Build))
				_ = table.Append("Authorization endpoint", orNotAvailable(info.AuthorizationEndpoint))
				_ = table.Append("Token endpoint", orNotAvailable(info.TokenEndpoint))
				_ = table.Append("Logging endpoint", orNotAvailable(info.LoggingEndpoint))
				_ = table.Append("Doppler endpoint", orNotAvailable(info.DopplerLoggingEndpoint))
				_ = table.Append("Min CLI version", orNotAvailable(info.MinCLIVersion))
			})
		},
	}
}
