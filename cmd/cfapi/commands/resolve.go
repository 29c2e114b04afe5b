package commands

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

func findOrganization(ctx context.Context, client capi.Client, name string) (*capi.OrganizationResource, error) {
	orgs, err := client.Organizations().List(ctx, capi.ListOrganizationsRequest{Names: []string{name}})
	if err != nil {
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if len(orgs.Resources) == 0 {
		return nil, fmt.Errorf("%w: %s", constants.ErrOrganizationNotFound, name)
	}

	return &orgs.Resources[0], nil
}

func findSpace(ctx context.Context, client capi.Client, orgGUID, name string) (*capi.SpaceResource, error) {
	spaces, err := client.Organizations().ListSpaces(ctx, capi.ListOrganizationSpacesRequest{
		ID:    orgGUID,
		Names: []string{name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find space: %w", err)
	}

	if len(spaces.Resources) == 0 {
		return nil, fmt.Errorf("%w: %s", constants.ErrSpaceNotFound, name)
	}

	return &spaces.Resources[0], nil
}

// findApplication looks an app up by name in the targeted space.
func findApplication(ctx context.Context, client capi.Client, config *Config, name string) (*capi.Application, error) {
	if config.SpaceGUID == "" {
		return nil, constants.ErrNoSpaceTarget
	}

	apps, err := client.Applications().List(ctx, capi.ListApplicationsRequest{
		Names:    []string{name},
		SpaceIDs: []string{config.SpaceGUID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}

	if len(apps.Resources) == 0 {
		return nil, fmt.Errorf("%w: %s in space %s", constants.ErrApplicationNotFound, name, config.Space)
	}

	return &apps.Resources[0], nil
}

func requireOrganization(config *Config) error {
	if config.OrganizationGUID == "" {
		return constants.ErrNoOrganizationTarget
	}

	return nil
}
