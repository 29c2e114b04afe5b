package commands

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewTargetCommand creates the target command.
func NewTargetCommand() *cobra.Command {
	var orgName, spaceName string

	cmd := &cobra.Command{
		Use:   "target",
		Short: "Show or set the targeted organization and space",
		Long: `Without flags, show the current target.

With -o, target an organization and clear the space. With -s, target a
space in the given or currently targeted organization.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config := loadConfig()

			if orgName != "" || spaceName != "" {
				err := retarget(cmd, config, orgName, spaceName)
				if err != nil {
					return err
				}
			}

			return render(cmd.OutOrStdout(), config.redacted(), func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("API endpoint", orNotAvailable(config.API))
				_ = table.Append("User", orNotAvailable(config.Username))
				_ = table.Append("Organization", orNotAvailable(config.Organization))
				_ = table.Append("Space", orNotAvailable(config.Space))
			})
		},
	}

	cmd.Flags().StringVarP(&orgName, "org", "o", "", "organization name")
	cmd.Flags().StringVarP(&spaceName, "space", "s", "", "space name")

	return cmd
}

func retarget(cmd *cobra.Command, config *Config, orgName, spaceName string) error {
	client, cleanup, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()

	if orgName != "" {
		org, err := findOrganization(ctx, client, orgName)
		if err != nil {
			return err
		}

		config.Organization = org.Entity.Name
		config.OrganizationGUID = org.Metadata.ID
		config.Space, config.SpaceGUID = "", ""
	}

	if spaceName != "" {
		err = requireOrganization(config)
		if err != nil {
			return err
		}

		space, err := findSpace(ctx, client, config.OrganizationGUID, spaceName)
		if err != nil {
			return err
		}

		config.Space = space.Entity.Name
		config.SpaceGUID = space.Metadata.ID
	}

	return saveConfig(config)
}
