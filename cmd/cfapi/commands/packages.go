package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// NewPackagesCommand creates the package command group.
func NewPackagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "packages",
		Aliases: []string{"package", "pkg"},
		Short:   "Manage application packages",
	}

	cmd.AddCommand(newPackagesListCommand())
	cmd.AddCommand(newPackagesCreateCommand())
	cmd.AddCommand(newPackagesUploadCommand())
	cmd.AddCommand(newPackagesCopyCommand())
	cmd.AddCommand(newPackagesDeleteCommand())

	return cmd
}

func newPackagesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list APP_NAME",
		Short: "List the packages of an application",
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

			packages, err := client.Packages().List(ctx, capi.ListPackagesRequest{ApplicationIDs: []string{app.GUID}})
			if err != nil {
				return fmt.Errorf("failed to list packages: %w", err)
			}

			return render(cmd.OutOrStdout(), packages.Resources, func(table *tablewriter.Table) {
				table.Header("GUID", "Type", "State", "Created")

				for _, pkg := range packages.Resources {
					_ = table.Append(pkg.GUID, pkg.Type, pkg.State, pkg.CreatedAt.Format("2006-01-02 15:04"))
				}
			})
		},
	}
}

func newPackagesCreateCommand() *cobra.Command {
	var image, username, password string

	cmd := &cobra.Command{
		Use:   "create APP_NAME",
		Short: "Create a bits package, or a docker package with --docker-image",
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

			request := capi.CreatePackageRequest{
				ApplicationID: app.GUID,
				Type:          capi.PackageTypeBits,
			}

			if image != "" {
				request.Type = capi.PackageTypeDocker
				request.Image = image

				if username != "" {
					request.Credential = &capi.DockerCredentials{Username: username, Password: password}
				}
			}

			pkg, err := client.Packages().Create(ctx, request)
			if err != nil {
				return fmt.Errorf("failed to create package: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s package %s (%s)\n", pkg.Type, pkg.GUID, pkg.State)

			return nil
		},
	}

	cmd.Flags().StringVar(&image, "docker-image", "", "docker image reference")
	cmd.Flags().StringVar(&username, "docker-username", "", "registry username")
	cmd.Flags().StringVar(&password, "docker-password", "", "registry password")

	return cmd
}

func newPackagesUploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload PACKAGE_GUID ZIP_FILE",
		Short: "Upload a zip of application bits into a package",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			file, err := os.Open(filepath.Clean(args[1]))
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[1], err)
			}
			defer func() { _ = file.Close() }()

			pkg, err := client.Packages().Upload(cmd.Context(), capi.UploadPackageRequest{
				ID:       args[0],
				Bits:     file,
				FileName: filepath.Base(args[1]),
			})
			if err != nil {
				return fmt.Errorf("failed to upload package: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Uploaded package %s (%s)\n", pkg.GUID, pkg.State)

			return nil
		},
	}
}

func newPackagesCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy PACKAGE_GUID APP_NAME",
		Short: "Copy a package into another application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			app, err := findApplication(ctx, client, loadConfig(), args[1])
			if err != nil {
				return err
			}

			pkg, err := client.Packages().Copy(ctx, capi.CopyPackageRequest{
				SourcePackageID: args[0],
				ApplicationID:   app.GUID,
			})
			if err != nil {
				return fmt.Errorf("failed to copy package: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Copied package %s to %s as %s\n", args[0], app.Name, pkg.GUID)

			return nil
		},
	}
}

func newPackagesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PACKAGE_GUID",
		Short: "Delete a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			err = client.Packages().Delete(cmd.Context(), capi.DeletePackageRequest{ID: args[0]})
			if err != nil {
				return fmt.Errorf("failed to delete package: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted package %s\n", args[0])

			return nil
		},
	}
}
