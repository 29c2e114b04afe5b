package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// NewSecurityGroupsCommand creates the security group command group.
func NewSecurityGroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "security-groups",
		Aliases: []string{"security-group", "sg"},
		Short:   "Manage security groups",
	}

	cmd.AddCommand(newSecurityGroupsListCommand())
	cmd.AddCommand(newSecurityGroupsGetCommand())
	cmd.AddCommand(newSecurityGroupsCreateCommand())
	cmd.AddCommand(newSecurityGroupsDeleteCommand())

	return cmd
}

func newSecurityGroupsListCommand() *cobra.Command {
	var allPages bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List security groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			newRequest := func(page int) capi.ListSecurityGroupsRequest {
				request := capi.ListSecurityGroupsRequest{}
				request.PaginatedRequest = request.WithPage(page)

				return request
			}

			var (
				groups     []capi.SecurityGroupResource
				totalPages int
			)

			for page, err := range capi.Paginate(cmd.Context(), newRequest, client.SecurityGroups().List) {
				if err != nil {
					return fmt.Errorf("failed to list security groups: %w", err)
				}

				groups = append(groups, page.Resources...)
				totalPages = page.TotalPages

				if !allPages {
					break
				}
			}

			out := cmd.OutOrStdout()

			err = render(out, groups, func(table *tablewriter.Table) {
				table.Header("Name", "GUID", "Rules", "Running default", "Staging default")

				for _, group := range groups {
					_ = table.Append(group.Entity.Name, group.Metadata.ID, strconv.Itoa(len(group.Entity.Rules)),
						strconv.FormatBool(group.Entity.RunningDefault), strconv.FormatBool(group.Entity.StagingDefault))
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

func newSecurityGroupsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SECURITY_GROUP_NAME",
		Short: "Show the rules of a security group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			group, err := findSecurityGroup(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), group, func(table *tablewriter.Table) {
				table.Header("Protocol", "Destination", "Ports", "Description")

				for _, rule := range group.Entity.Rules {
					_ = table.Append(rule.Protocol, rule.Destination, orNotAvailable(rule.Ports), rule.Description)
				}
			})
		},
	}
}

func newSecurityGroupsCreateCommand() *cobra.Command {
	var (
		rulesFile string
		spaces    []string
	)

	cmd := &cobra.Command{
		Use:   "create SECURITY_GROUP_NAME --rules FILE",
		Short: "Create a security group from a JSON rules file",
		Long: `Create a security group. FILE holds a JSON array of rules:

  [{"protocol":"tcp","destination":"10.0.0.0/8","ports":"443"}]

Use --space to bind the group to spaces of the targeted organization.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rulesFile == "" {
				return constants.ErrRulesFileRequired
			}

			file, err := os.Open(filepath.Clean(rulesFile))
			if err != nil {
				return fmt.Errorf("failed to open rules file: %w", err)
			}
			defer func() { _ = file.Close() }()

			rules, err := capi.ParseSecurityGroupRules(file)
			if err != nil {
				return err
			}

			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			config := loadConfig()

			spaceIDs := make([]string, 0, len(spaces))
			for _, name := range spaces {
				guid, err := resolveSpaceGUID(ctx, client, config, name)
				if err != nil {
					return err
				}

				spaceIDs = append(spaceIDs, guid)
			}

			group, err := client.SecurityGroups().Create(ctx, capi.CreateSecurityGroupRequest{
				Name:     args[0],
				Rules:    rules,
				SpaceIDs: spaceIDs,
			})
			if err != nil {
				return fmt.Errorf("failed to create security group: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created security group %s (%s) with %d rules\n",
				group.Entity.Name, group.Metadata.ID, len(group.Entity.Rules))

			return nil
		},
	}

	cmd.Flags().StringVar(&rulesFile, "rules", "", "path to a JSON rules file")
	cmd.Flags().StringSliceVar(&spaces, "space", nil, "space names to bind the group to")

	return cmd
}

func newSecurityGroupsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete SECURITY_GROUP_NAME",
		Short: "Delete a security group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			group, err := findSecurityGroup(ctx, client, args[0])
			if err != nil {
				return err
			}

			err = client.SecurityGroups().Delete(ctx, capi.DeleteSecurityGroupRequest{ID: group.Metadata.ID})
			if err != nil {
				return fmt.Errorf("failed to delete security group: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted security group %s\n", group.Entity.Name)

			return nil
		},
	}
}

func findSecurityGroup(ctx context.Context, client capi.Client, name string) (*capi.SecurityGroupResource, error) {
	groups, err := client.SecurityGroups().List(ctx, capi.ListSecurityGroupsRequest{Names: []string{name}})
	if err != nil {
		return nil, fmt.Errorf("failed to find security group: %w", err)
	}

	if len(groups.Resources) == 0 {
		return nil, fmt.Errorf("%w: %s", constants.ErrSecurityGroupMissing, name)
	}

	return &groups.Resources[0], nil
}
