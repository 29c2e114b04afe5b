package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// Space roles accepted by "spaces set-role".
const (
	RoleManager   = "manager"
	RoleDeveloper = "developer"
	RoleAuditor   = "auditor"
)

// NewSpacesCommand creates the space command group.
func NewSpacesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "spaces",
		Aliases: []string{"space"},
		Short:   "Manage spaces",
	}

	cmd.AddCommand(newSpacesListCommand())
	cmd.AddCommand(newSpacesCreateCommand())
	cmd.AddCommand(newSpacesDeleteCommand())
	cmd.AddCommand(newSpacesSummaryCommand())
	cmd.AddCommand(newSpacesSetRoleCommand())
	cmd.AddCommand(newSpacesBindSecurityGroupCommand())

	return cmd
}

func newSpacesListCommand() *cobra.Command {
	var allPages bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List spaces in the targeted organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config := loadConfig()

			err := requireOrganization(config)
			if err != nil {
				return err
			}

			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			newRequest := func(page int) capi.ListSpacesRequest {
				request := capi.ListSpacesRequest{OrganizationIDs: []string{config.OrganizationGUID}}
				request.PaginatedRequest = request.WithPage(page)

				return request
			}

			var (
				spaces     []capi.SpaceResource
				totalPages int
			)

			for page, err := range capi.Paginate(cmd.Context(), newRequest, client.Spaces().List) {
				if err != nil {
					return fmt.Errorf("failed to list spaces: %w", err)
				}

				spaces = append(spaces, page.Resources...)
				totalPages = page.TotalPages

				if !allPages {
					break
				}
			}

			out := cmd.OutOrStdout()

			err = render(out, spaces, func(table *tablewriter.Table) {
				table.Header("Name", "GUID", "Created")

				for _, space := range spaces {
					_ = table.Append(space.Entity.Name, space.Metadata.ID, valueOf(space.Metadata.CreatedAt))
				}
			})
			if err != nil {
				return err
			}

			if outputFormat() == constants.FormatTable {
				pageHint(out, allPages, totalPages)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}

func newSpacesCreateCommand() *cobra.Command {
	var allowSSH bool

	cmd := &cobra.Command{
		Use:   "create SPACE_NAME",
		Short: "Create a space in the targeted organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := requireOrganization(config)
			if err != nil {
				return err
			}

			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			request := capi.CreateSpaceRequest{
				Name:           args[0],
				OrganizationID: config.OrganizationGUID,
			}

			if cmd.Flags().Changed("allow-ssh") {
				request.AllowSSH = &allowSSH
			}

			space, err := client.Spaces().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create space: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created space %s (%s) in %s\n",
				space.Entity.Name, space.Metadata.ID, config.Organization)

			return nil
		},
	}

	cmd.Flags().BoolVar(&allowSSH, "allow-ssh", true, "allow SSH to apps in the space")

	return cmd
}

func newSpacesDeleteCommand() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "delete SPACE_NAME",
		Short: "Delete a space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, config, cleanup, space, err := spaceFromArgs(cmd, args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			err = client.Spaces().Delete(cmd.Context(), capi.DeleteSpaceRequest{
				ID:        space.Metadata.ID,
				Recursive: &recursive,
			})
			if err != nil {
				return fmt.Errorf("failed to delete space: %w", err)
			}

			if config.SpaceGUID == space.Metadata.ID {
				config.Space, config.SpaceGUID = "", ""

				err = saveConfig(config)
				if err != nil {
					return err
				}
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted space %s\n", space.Entity.Name)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "delete apps, routes and services in the space")

	return cmd
}

func newSpacesSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [SPACE_NAME...]",
		Short: "Show apps and services in spaces",
		Long:  "Show apps and services in the named spaces, fetched concurrently, or in the targeted space when no name is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			spaceGUIDs := make([]string, 0, len(args))

			for _, name := range args {
				spaceGUID, err := resolveSpaceGUID(ctx, client, config, name)
				if err != nil {
					return err
				}

				spaceGUIDs = append(spaceGUIDs, spaceGUID)
			}

			if len(spaceGUIDs) == 0 {
				if config.SpaceGUID == "" {
					return constants.ErrNoSpaceTarget
				}

				spaceGUIDs = append(spaceGUIDs, config.SpaceGUID)
			}

			summaries, err := spaceSummaries(ctx, client, spaceGUIDs)
			if err != nil {
				return err
			}

			var data any = summaries
			if len(summaries) == 1 {
				data = summaries[0]
			}

			return render(cmd.OutOrStdout(), data, func(table *tablewriter.Table) {
				table.Header("Space", "App", "State", "Instances", "Memory", "Disk", "URLs")

				for _, summary := range summaries {
					for _, app := range summary.Applications {
						_ = table.Append(summary.Name, app.Name, app.State,
							fmt.Sprintf("%d/%d", app.RunningInstances, app.Instances),
							fmt.Sprintf("%dM", app.Memory),
							fmt.Sprintf("%dM", app.DiskQuota),
							strings.Join(app.URLs, ", "))
					}

					for _, service := range summary.Services {
						_ = table.Append(summary.Name, service.Name, "service",
							strconv.Itoa(service.BoundAppCount)+" bound", "", "", service.DashboardURL)
					}
				}
			})
		},
	}
}

// spaceSummaries fetches the summaries concurrently and returns them in the
// order of spaceGUIDs.
func spaceSummaries(ctx context.Context, client capi.Client, spaceGUIDs []string) ([]*capi.GetSpaceSummaryResponse, error) {
	operations := make([]capi.BatchOperation[*capi.GetSpaceSummaryResponse], 0, len(spaceGUIDs))

	for _, spaceGUID := range spaceGUIDs {
		operations = append(operations, capi.BatchOperation[*capi.GetSpaceSummaryResponse]{
			ID: spaceGUID,
			Run: func(ctx context.Context) (*capi.GetSpaceSummaryResponse, error) {
				return client.Spaces().GetSummary(ctx, capi.GetSpaceSummaryRequest{ID: spaceGUID})
			},
		})
	}

	results := capi.NewBatchExecutor[*capi.GetSpaceSummaryResponse](constants.DefaultBatchConcurrency).Execute(ctx, operations)

	err := capi.FirstBatchError(results)
	if err != nil {
		return nil, fmt.Errorf("failed to get space summary: %w", err)
	}

	summaries := make([]*capi.GetSpaceSummaryResponse, 0, len(results))
	for _, result := range results {
		summaries = append(summaries, result.Data)
	}

	return summaries, nil
}

func newSpacesSetRoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "set-role SPACE_NAME USER_GUID ROLE",
		Short:     "Give a user a role in a space",
		Long:      "Give a user a role in a space. ROLE is one of manager, developer or auditor.",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{RoleManager, RoleDeveloper, RoleAuditor},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, cleanup, space, err := spaceFromArgs(cmd, args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			userGUID, role := args[1], strings.ToLower(args[2])

			switch role {
			case RoleManager:
				_, err = client.Spaces().AssociateManager(ctx, capi.AssociateSpaceManagerRequest{ID: space.Metadata.ID, ManagerID: userGUID})
			case RoleDeveloper:
				_, err = client.Spaces().AssociateDeveloper(ctx, capi.AssociateSpaceDeveloperRequest{ID: space.Metadata.ID, DeveloperID: userGUID})
			case RoleAuditor:
				_, err = client.Spaces().AssociateAuditor(ctx, capi.AssociateSpaceAuditorRequest{ID: space.Metadata.ID, AuditorID: userGUID})
			default:
				return fmt.Errorf("%w: %q", constants.ErrUnknownRole, args[2])
			}

			if err != nil {
				return fmt.Errorf("failed to set %s role: %w", role, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "User %s is now a %s of %s\n", userGUID, role, space.Entity.Name)

			return nil
		},
	}
}

func newSpacesBindSecurityGroupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bind-security-group SPACE_NAME SECURITY_GROUP_NAME",
		Short: "Bind a security group to a space",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, cleanup, space, err := spaceFromArgs(cmd, args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			group, err := findSecurityGroup(ctx, client, args[1])
			if err != nil {
				return err
			}

			_, err = client.Spaces().AssociateSecurityGroup(ctx, capi.AssociateSpaceSecurityGroupRequest{
				ID:              space.Metadata.ID,
				SecurityGroupID: group.Metadata.ID,
			})
			if err != nil {
				return fmt.Errorf("failed to bind security group: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Bound security group %s to space %s\n", group.Entity.Name, space.Entity.Name)

			return nil
		},
	}
}

// spaceFromArgs builds a client and resolves a space in the targeted organization.
func spaceFromArgs(cmd *cobra.Command, name string) (capi.Client, *Config, func(), *capi.SpaceResource, error) {
	config := loadConfig()

	err := requireOrganization(config)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	client, cleanup, err := newClient(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	space, err := findSpace(cmd.Context(), client, config.OrganizationGUID, name)
	if err != nil {
		cleanup()

		return nil, nil, nil, nil, err
	}

	return client, config, cleanup, space, nil
}

func resolveSpaceGUID(ctx context.Context, client capi.Client, config *Config, name string) (string, error) {
	err := requireOrganization(config)
	if err != nil {
		return "", err
	}

	space, err := findSpace(ctx, client, config.OrganizationGUID, name)
	if err != nil {
		return "", err
	}

	return space.Metadata.ID, nil
}
