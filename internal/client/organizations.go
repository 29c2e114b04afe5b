package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/cfapi/internal/http"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// OrganizationsClient implements capi.OrganizationsClient.
type OrganizationsClient struct {
	httpClient *internalhttp.Client
}

// NewOrganizationsClient creates a new OrganizationsClient.
func NewOrganizationsClient(httpClient *internalhttp.Client) *OrganizationsClient {
	return &OrganizationsClient{httpClient: httpClient}
}

// List implements capi.OrganizationsClient.List.
func (c *OrganizationsClient) List(ctx context.Context, request capi.ListOrganizationsRequest) (*capi.ListOrganizationsResponse, error) {
	return exchange[capi.ListOrganizationsResponse](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "listing organizations",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "organizations").Filter(request.Filters()...).Query(request.PaginatedRequest)
		},
	})
}

// Get implements capi.OrganizationsClient.Get.
func (c *OrganizationsClient) Get(ctx context.Context, request capi.GetOrganizationRequest) (*capi.OrganizationResource, error) {
	return exchange[capi.OrganizationResource](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "getting organization",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "organizations", request.ID)
		},
	})
}

// AssociateAuditor implements capi.OrganizationsClient.AssociateAuditor.
func (c *OrganizationsClient) AssociateAuditor(ctx context.Context, request capi.AssociateOrganizationAuditorRequest) (*capi.OrganizationResource, error) {
	return exchange[capi.OrganizationResource](ctx, c.httpClient, request, operation{
		method: http.MethodPut,
		action: "associating organization auditor",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "organizations", request.OrganizationID, "auditors", request.AuditorID)
		},
	})
}

// ListSpaces implements capi.OrganizationsClient.ListSpaces.
func (c *OrganizationsClient) ListSpaces(ctx context.Context, request capi.ListOrganizationSpacesRequest) (*capi.ListSpacesResponse, error) {
	return exchange[capi.ListSpacesResponse](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "listing organization spaces",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "organizations", request.ID, "spaces").Filter(request.Filters()...).Query(request.PaginatedRequest)
		},
	})
}
