package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/cfapi/internal/http"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// SpacesClient implements capi.SpacesClient.
type SpacesClient struct {
	httpClient *internalhttp.Client
}

// NewSpacesClient creates a new SpacesClient.
func NewSpacesClient(httpClient *internalhttp.Client) *SpacesClient {
	return &SpacesClient{httpClient: httpClient}
}

// List implements capi.SpacesClient.List.
func (c *SpacesClient) List(ctx context.Context, request capi.ListSpacesRequest) (*capi.ListSpacesResponse, error) {
	return exchange[capi.ListSpacesResponse](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "listing spaces",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "spaces").Filter(request.Filters()...).Query(request.PaginatedRequest)
		},
	})
}

// Get implements capi.SpacesClient.Get.
func (c *SpacesClient) Get(ctx context.Context, request capi.GetSpaceRequest) (*capi.SpaceResource, error) {
	return exchange[capi.SpaceResource](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "getting space",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "spaces", request.ID)
		},
	})
}

// GetSummary implements capi.SpacesClient.GetSummary.
func (c *SpacesClient) GetSummary(ctx context.Context, request capi.GetSpaceSummaryRequest) (*capi.GetSpaceSummaryResponse, error) {
	return exchange[capi.GetSpaceSummaryResponse](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "getting space summary",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "spaces", request.ID, "summary")
		},
	})
}

// Create implements capi.SpacesClient.Create.
func (c *SpacesClient) Create(ctx context.Context, request capi.CreateSpaceRequest) (*capi.SpaceResource, error) {
	return exchange[capi.SpaceResource](ctx, c.httpClient, request, operation{
		method: http.MethodPost,
		action: "creating space",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "spaces")
		},
		body: request,
	})
}

// Delete implements capi.SpacesClient.Delete.
func (c *SpacesClient) Delete(ctx context.Context, request capi.DeleteSpaceRequest) error {
	return exchangeVoid(ctx, c.httpClient, request, operation{
		method: http.MethodDelete,
		action: "deleting space",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "spaces", request.ID).Query(request)
		},
	})
}

// AssociateManager implements capi.SpacesClient.AssociateManager.
func (c *SpacesClient) AssociateManager(ctx context.Context, request capi.AssociateSpaceManagerRequest) (*capi.SpaceResource, error) {
	return c.associate(ctx, request, "managers", request.ID, request.ManagerID)
}

// AssociateDeveloper implements capi.SpacesClient.AssociateDeveloper.
func (c *SpacesClient) AssociateDeveloper(ctx context.Context, request capi.AssociateSpaceDeveloperRequest) (*capi.SpaceResource, error) {
	return c.associate(ctx, request, "developers", request.ID, request.DeveloperID)
}

// AssociateAuditor implements capi.SpacesClient.AssociateAuditor.
func (c *SpacesClient) AssociateAuditor(ctx context.Context, request capi.AssociateSpaceAuditorRequest) (*capi.SpaceResource, error) {
	return c.associate(ctx, request, "auditors", request.ID, request.AuditorID)
}

// AssociateSecurityGroup implements capi.SpacesClient.AssociateSecurityGroup.
func (c *SpacesClient) AssociateSecurityGroup(ctx context.Context, request capi.AssociateSpaceSecurityGroupRequest) (*capi.SpaceResource, error) {
	return c.associate(ctx, request, "security_groups", request.ID, request.SecurityGroupID)
}

func (c *SpacesClient) associate(ctx context.Context, request capi.Validatable, relation, spaceID, otherID string) (*capi.SpaceResource, error) {
	return exchange[capi.SpaceResource](ctx, c.httpClient, request, operation{
		method: http.MethodPut,
		action: "associating space " + relation,
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "spaces", spaceID, relation, otherID)
		},
	})
}

// ListApplications implements capi.SpacesClient.ListApplications.
func (c *SpacesClient) ListApplications(ctx context.Context, request capi.ListSpaceApplicationsRequest) (*capi.ListApplicationsV2Response, error) {
	return exchange[capi.ListApplicationsV2Response](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "listing space applications",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "spaces", request.ID, "apps").Filter(request.Filters()...).Query(request.PaginatedRequest)
		},
	})
}
