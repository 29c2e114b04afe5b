package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

const defaultProcessType = "web"

// NewProcessesCommand creates the process command group.
func NewProcessesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "processes",
		Aliases: []string{"process", "ps"},
		Short:   "Inspect and scale application processes",
	}

	cmd.AddCommand(newProcessesListCommand())
	cmd.AddCommand(newProcessesScaleCommand())
	cmd.AddCommand(newProcessesRestartInstanceCommand())

	return cmd
}

func newProcessesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list APP_NAME",
		Short: "List the processes of an application",
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

			processes, err := client.Processes().List(ctx, capi.ListProcessesRequest{ApplicationIDs: []string{app.GUID}})
			if err != nil {
				return fmt.Errorf("failed to list processes: %w", err)
			}

			return render(cmd.OutOrStdout(), processes.Resources, func(table *tablewriter.Table) {
				table.Header("Type", "GUID", "Instances", "Memory", "Disk", "Command")

				for _, process := range processes.Resources {
					_ = table.Append(process.Type, process.GUID, strconv.Itoa(process.Instances),
						fmt.Sprintf("%dM", process.MemoryInMB),
						fmt.Sprintf("%dM", process.DiskInMB),
						valueOf(process.Command))
				}
			})
		},
	}
}

func newProcessesScaleCommand() *cobra.Command {
	var (
		processType string
		instances   int
		memory      int
		disk        int
	)

	cmd := &cobra.Command{
		Use:   "scale APP_NAME",
		Short: "Change the instances, memory or disk of a process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			process, err := findProcess(ctx, client, args[0], processType)
			if err != nil {
				return err
			}

			request := capi.ScaleProcessRequest{ID: process.GUID}

			if cmd.Flags().Changed("instances") {
				request.Instances = &instances
			}

			if cmd.Flags().Changed("memory") {
				request.MemoryInMB = &memory
			}

			if cmd.Flags().Changed("disk") {
				request.DiskInMB = &disk
			}

			scaled, err := client.Processes().Scale(ctx, request)
			if err != nil {
				return fmt.Errorf("failed to scale process: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Scaled %s process of %s: %d instances, %dM memory, %dM disk\n",
				scaled.Type, args[0], scaled.Instances, scaled.MemoryInMB, scaled.DiskInMB)

			return nil
		},
	}

	cmd.Flags().StringVar(&processType, "process", defaultProcessType, "process type")
	cmd.Flags().IntVarP(&instances, "instances", "i", 0, "number of instances")
	cmd.Flags().IntVarP(&memory, "memory", "m", 0, "memory limit in MB")
	cmd.Flags().IntVarP(&disk, "disk", "k", 0, "disk limit in MB")

	return cmd
}

func newProcessesRestartInstanceCommand() *cobra.Command {
	var processType string

	cmd := &cobra.Command{
		Use:   "restart-instance APP_NAME INDEX",
		Short: "Terminate one instance so the platform restarts it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid instance index %q: %w", args[1], err)
			}

			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			process, err := findProcess(ctx, client, args[0], processType)
			if err != nil {
				return err
			}

			err = client.Processes().DeleteInstance(ctx, capi.DeleteProcessInstanceRequest{
				ID:    process.GUID,
				Index: &index,
			})
			if err != nil {
				return fmt.Errorf("failed to restart instance: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Restarting instance %d of %s process of %s\n", index, process.Type, args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&processType, "process", defaultProcessType, "process type")

	return cmd
}

func findProcess(ctx context.Context, client capi.Client, appName, processType string) (*capi.Process, error) {
	app, err := findApplication(ctx, client, loadConfig(), appName)
	if err != nil {
		return nil, err
	}

	processes, err := client.Processes().List(ctx, capi.ListProcessesRequest{
		ApplicationIDs: []string{app.GUID},
		Types:          []string{processType},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find process: %w", err)
	}

	if len(processes.Resources) == 0 {
		return nil, fmt.Errorf("%w: %s process of %s", constants.ErrProcessNotFound, processType, appName)
	}

	return &processes.Resources[0], nil
}
