package commands

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// NewServicesCommand creates the service instance command group.
func NewServicesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"service"},
		Short:   "Inspect service instances",
	}

	cmd.AddCommand(newServicesListCommand())

	return cmd
}

func newServicesListCommand() *cobra.Command {
	var (
		allPages     bool
		perPage      int
		userProvided bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List service instances in the targeted space, or organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config := loadConfig()

			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			newRequest := func(page int) capi.ListServiceInstancesRequest {
				request := capi.ListServiceInstancesRequest{}

				switch {
				case config.SpaceGUID != "":
					request.SpaceIDs = []string{config.SpaceGUID}
				case config.OrganizationGUID != "":
					request.OrganizationIDs = []string{config.OrganizationGUID}
				}

				if userProvided {
					request.ReturnUserProvided = &userProvided
				}

				request.PaginatedRequest = request.WithPage(page)
				request.ResultsPerPage = &perPage

				return request
			}

			var (
				instances  []capi.ServiceInstanceResource
				totalPages int
			)

			for page, err := range capi.Paginate(cmd.Context(), newRequest, client.ServiceInstances().List) {
				if err != nil {
					return fmt.Errorf("failed to list service instances: %w", err)
				}

				instances = append(instances, page.Resources...)
				totalPages = page.TotalPages

				if !allPages {
					break
				}
			}

			out := cmd.OutOrStdout()

			if len(instances) == 0 && outputFormat() == constants.FormatTable {
				_, _ = fmt.Fprintln(out, "No service instances found")

				return nil
			}

			err = render(out, instances, func(table *tablewriter.Table) {
				table.Header("Name", "GUID", "Type", "Last Operation", "Tags")

				for _, instance := range instances {
					_ = table.Append(
						instance.Entity.Name,
						instance.Metadata.ID,
						instance.Entity.Type,
						lastOperation(instance.Entity.LastOperation),
						strings.Join(instance.Entity.Tags, ", "),
					)
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
	cmd.Flags().BoolVar(&userProvided, "user-provided", false, "include user-provided service instances")

	return cmd
}

func lastOperation(op *capi.ServiceInstanceLastOperation) string {
	if op == nil {
		return ""
	}

	return op.Type + " " + op.State
}
