package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// NewAppsCommand creates the application command group.
func NewAppsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apps",
		Aliases: []string{"app", "applications"},
		Short:   "Manage applications in the targeted space",
	}

	cmd.AddCommand(newAppsListCommand())
	cmd.AddCommand(newAppsGetCommand())
	cmd.AddCommand(newAppsCreateCommand())
	cmd.AddCommand(newAppsDeleteCommand())
	cmd.AddCommand(newAppsStartCommand())
	cmd.AddCommand(newAppsStopCommand())
	cmd.AddCommand(newAppsRestartCommand())
	cmd.AddCommand(newAppsEnvCommand())
	cmd.AddCommand(newAppsDropletsCommand())
	cmd.AddCommand(newAppsUploadBitsCommand())

	return cmd
}

func newAppsListCommand() *cobra.Command {
	var (
		allPages bool
		perPage  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config := loadConfig()
			if config.SpaceGUID == "" {
				return constants.ErrNoSpaceTarget
			}

			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			newRequest := func(page int) capi.ListApplicationsRequest {
				request := capi.ListApplicationsRequest{SpaceIDs: []string{config.SpaceGUID}}
				request.PaginatedAndSortedRequest = request.WithPage(page)
				request.PerPage = &perPage
				request.OrderBy = capi.OrderByName

				return request
			}

			var (
				apps       []capi.Application
				totalPages int
			)

			for page, err := range capi.Paginate(cmd.Context(), newRequest, client.Applications().List) {
				if err != nil {
					return fmt.Errorf("failed to list applications: %w", err)
				}

				apps = append(apps, page.Resources...)
				totalPages = page.Pagination.TotalPages

				if !allPages {
					break
				}
			}

			out := cmd.OutOrStdout()

			err = render(out, apps, func(table *tablewriter.Table) {
				table.Header("Name", "GUID", "State", "Lifecycle", "Updated")

				for _, app := range apps {
					_ = table.Append(app.Name, app.GUID, app.State, app.Lifecycle.Type,
						app.UpdatedAt.Format("2006-01-02 15:04"))
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

func newAppsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get APP_NAME",
		Short: "Show an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			app, err := findApplication(cmd.Context(), client, loadConfig(), args[0])
			if err != nil {
				return err
			}

			return renderApplication(cmd, app)
		},
	}
}

func newAppsCreateCommand() *cobra.Command {
	var (
		env       []string
		buildpack []string
		stack     string
		docker    bool
	)

	cmd := &cobra.Command{
		Use:   "create APP_NAME",
		Short: "Create an application in the targeted space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.SpaceGUID == "" {
				return constants.ErrNoSpaceTarget
			}

			variables, err := parseEnvironment(env)
			if err != nil {
				return err
			}

			request := capi.CreateApplicationRequest{
				Name:                 args[0],
				SpaceID:              config.SpaceGUID,
				EnvironmentVariables: variables,
			}

			switch {
			case docker:
				request.Lifecycle = &capi.Lifecycle{Type: capi.PackageTypeDocker, Data: map[string]interface{}{}}
			case len(buildpack) > 0 || stack != "":
				data := map[string]interface{}{}
				if len(buildpack) > 0 {
					data["buildpacks"] = buildpack
				}

				if stack != "" {
					data["stack"] = stack
				}

				request.Lifecycle = &capi.Lifecycle{Type: "buildpack", Data: data}
			}

			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			app, err := client.Applications().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create application: %w", err)
			}

			return renderApplication(cmd, app)
		},
	}

	cmd.Flags().StringArrayVarP(&env, "env", "e", nil, "environment variable as KEY=VALUE (repeatable)")
	cmd.Flags().StringSliceVarP(&buildpack, "buildpack", "b", nil, "buildpack names")
	cmd.Flags().StringVar(&stack, "stack", "", "stack name")
	cmd.Flags().BoolVar(&docker, "docker", false, "use the docker lifecycle")

	return cmd
}

func newAppsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete APP_NAME",
		Short: "Delete an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			app, err := findApplication(ctx, client, loadConfig(), args[0])
			if err != nil {
				return err
			}

			err = client.Applications().Delete(ctx, capi.DeleteApplicationRequest{ID: app.GUID})
			if err != nil {
				return fmt.Errorf("failed to delete application: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted application %s\n", app.Name)

			return nil
		},
	}
}

func newAppsStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start APP_NAME",
		Short: "Start an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeApplicationState(cmd, args[0], capi.ApplicationStarted)
		},
	}
}

func newAppsStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop APP_NAME",
		Short: "Stop an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeApplicationState(cmd, args[0], capi.ApplicationStopped)
		},
	}
}

func newAppsRestartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restart APP_NAME",
		Short: "Stop and start an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := changeApplicationState(cmd, args[0], capi.ApplicationStopped)
			if err != nil {
				return err
			}

			return changeApplicationState(cmd, args[0], capi.ApplicationStarted)
		},
	}
}

func changeApplicationState(cmd *cobra.Command, name, state string) error {
	client, cleanup, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()

	app, err := findApplication(ctx, client, loadConfig(), name)
	if err != nil {
		return err
	}

	if state == capi.ApplicationStarted {
		app, err = client.Applications().Start(ctx, capi.StartApplicationRequest{ID: app.GUID})
	} else {
		app, err = client.Applications().Stop(ctx, capi.StopApplicationRequest{ID: app.GUID})
	}

	if err != nil {
		return fmt.Errorf("failed to change state of %s: %w", name, err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Application %s is %s\n", app.Name, app.State)

	return nil
}

func newAppsEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env APP_NAME",
		Short: "Show the environment of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			app, err := findApplication(ctx, client, loadConfig(), args[0])
			if err != nil {
				return err
			}

			env, err := client.Applications().GetEnvironment(ctx, capi.GetApplicationEnvironmentRequest{ID: app.GUID})
			if err != nil {
				return fmt.Errorf("failed to get environment: %w", err)
			}

			return render(cmd.OutOrStdout(), env, func(table *tablewriter.Table) {
				table.Header("Group", "Name", "Value")
				appendEnvironmentGroup(table, "user-provided", env.EnvironmentVariables)
				appendEnvironmentGroup(table, "running", env.RunningEnvJSON)
				appendEnvironmentGroup(table, "staging", env.StagingEnvJSON)
			})
		},
	}
}

func appendEnvironmentGroup(table *tablewriter.Table, group string, values map[string]interface{}) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		_ = table.Append(group, name, fmt.Sprintf("%v", values[name]))
	}
}

func newAppsDropletsCommand() *cobra.Command {
	var current bool

	cmd := &cobra.Command{
		Use:   "droplets APP_NAME",
		Short: "List the droplets of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			app, err := findApplication(ctx, client, loadConfig(), args[0])
			if err != nil {
				return err
			}

			request := capi.ListApplicationDropletsRequest{ID: app.GUID}
			if current {
				request.Current = &current
			}

			droplets, err := client.Applications().ListDroplets(ctx, request)
			if err != nil {
				return fmt.Errorf("failed to list droplets: %w", err)
			}

			return render(cmd.OutOrStdout(), droplets.Resources, func(table *tablewriter.Table) {
				table.Header("GUID", "State", "Stack", "Created")

				for _, droplet := range droplets.Resources {
					_ = table.Append(droplet.GUID, droplet.State, valueOf(droplet.Stack),
						droplet.CreatedAt.Format("2006-01-02 15:04"))
				}
			})
		},
	}

	cmd.Flags().BoolVar(&current, "current", false, "only show the current droplet")

	return cmd
}

func newAppsUploadBitsCommand() *cobra.Command {
	var async bool

	cmd := &cobra.Command{
		Use:   "upload-bits APP_NAME ZIP_FILE",
		Short: "Upload application bits through the v2 API",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			app, err := findApplication(ctx, client, loadConfig(), args[0])
			if err != nil {
				return err
			}

			file, err := os.Open(filepath.Clean(args[1]))
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[1], err)
			}
			defer func() { _ = file.Close() }()

			job, err := client.ApplicationsV2().UploadBits(ctx, capi.UploadApplicationBitsRequest{
				ID:          app.GUID,
				Application: file,
				FileName:    filepath.Base(args[1]),
				Async:       &async,
			})
			if err != nil {
				return fmt.Errorf("failed to upload bits: %w", err)
			}

			if job == nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Uploaded bits for %s\n", app.Name)

				return nil
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Upload job %s is %s\n", job.Entity.ID, job.Entity.Status)

			return nil
		},
	}

	cmd.Flags().BoolVar(&async, "async", true, "return as soon as the upload job is queued")

	return cmd
}

func renderApplication(cmd *cobra.Command, app *capi.Application) error {
	return render(cmd.OutOrStdout(), app, func(table *tablewriter.Table) {
		table.Header("Property", "Value")
		_ = table.Append("Name", app.Name)
		_ = table.Append("GUID", app.GUID)
		_ = table.Append("State", app.State)
		_ = table.Append("Lifecycle", app.Lifecycle.Type)
		_ = table.Append("Space", relationshipGUID(&app.Relationships.Space))
		_ = table.Append("Created", app.CreatedAt.Format("2006-01-02 15:04"))
	})
}

func relationshipGUID(relationship *capi.Relationship) string {
	if relationship == nil || relationship.Data == nil {
		return NotAvailable
	}

	return relationship.Data.GUID
}

// parseEnvironment turns KEY=VALUE pairs into a map.
func parseEnvironment(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	variables := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidEnvVar, pair)
		}

		variables[key] = value
	}

	return variables, nil
}
