package commands

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// NewOrgsCommand creates the organization command group.
func NewOrgsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orgs",
		Aliases: []string{"organizations", "org"},
		Short:   "Manage organizations",
	}

	cmd.AddCommand(newOrgsListCommand())
	cmd.AddCommand(newOrgsGetCommand())
	cmd.AddCommand(newOrgsAddAuditorCommand())

	return cmd
}

func newOrgsListCommand() *cobra.Command {
	var (
		allPages bool
		perPage  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			orgs, totalPages, err := listOrganizations(cmd.Context(), client, allPages, perPage)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(orgs) == 0 && outputFormat() == constants.FormatTable {
				_, _ = fmt.Fprintln(out, "No organizations found")

				return nil
			}

			err = render(out, orgs, func(table *tablewriter.Table) {
				table.Header("Name", "GUID", "Status", "Created")

				for _, org := range orgs {
					_ = table.Append(org.Entity.Name, org.Metadata.ID, org.Entity.Status, valueOf(org.Metadata.CreatedAt))
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
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

// listOrganizations returns the first page, or every page when allPages is set.
func listOrganizations(ctx context.Context, client capi.Client, allPages bool, perPage int) ([]capi.OrganizationResource, int, error) {
	newRequest := func(page int) capi.ListOrganizationsRequest {
		request := capi.ListOrganizationsRequest{}
		request.PaginatedRequest = request.WithPage(page)
		request.ResultsPerPage = &perPage

		return request
	}

	var (
		orgs       []capi.OrganizationResource
		totalPages int
	)

	for page, err := range capi.Paginate(ctx, newRequest, client.Organizations().List) {
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
		}

		orgs = append(orgs, page.Resources...)
		totalPages = page.TotalPages

		if !allPages {
			break
		}
	}

	return orgs, totalPages, nil
}

func newOrgsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ORG_NAME",
		Short: "Show an organization and its spaces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			org, err := findOrganization(ctx, client, args[0])
			if err != nil {
				return err
			}

			spaces, err := client.Organizations().ListSpaces(ctx, capi.ListOrganizationSpacesRequest{ID: org.Metadata.ID})
			if err != nil {
				return fmt.Errorf("failed to list spaces: %w", err)
			}

			details := struct {
				Organization *capi.OrganizationResource `json:"organization" yaml:"organization"`
				Spaces       []capi.SpaceResource       `json:"spaces"       yaml:"spaces"`
			}{org, spaces.Resources}

			return render(cmd.OutOrStdout(), details, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("Name", org.Entity.Name)
				_ = table.Append("GUID", org.Metadata.ID)
				_ = table.Append("Status", org.Entity.Status)
				_ = table.Append("Billing enabled", fmt.Sprintf("%t", org.Entity.BillingEnabled))
				_ = table.Append("Quota", orNotAvailable(org.Entity.QuotaDefinitionID))

				for _, space := range spaces.Resources {
					_ = table.Append("Space", space.Entity.Name)
				}
			})
		},
	}
}

func newOrgsAddAuditorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-auditor ORG_NAME USER_GUID",
		Short: "Make a user an auditor of an organization",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			org, err := findOrganization(ctx, client, args[0])
			if err != nil {
				return err
			}

			_, err = client.Organizations().AssociateAuditor(ctx, capi.AssociateOrganizationAuditorRequest{
				AuditorID:      args[1],
				OrganizationID: org.Metadata.ID,
			})
			if err != nil {
				return fmt.Errorf("failed to add auditor: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "User %s is now an auditor of %s\n", args[1], org.Entity.Name)

			return nil
		},
	}
}
