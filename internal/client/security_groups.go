package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/cfapi/internal/http"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// SecurityGroupsClient implements capi.SecurityGroupsClient.
type SecurityGroupsClient struct {
	httpClient *internalhttp.Client
}

// NewSecurityGroupsClient creates a new SecurityGroupsClient.
func NewSecurityGroupsClient(httpClient *internalhttp.Client) *SecurityGroupsClient {
	return &SecurityGroupsClient{httpClient: httpClient}
}

// List implements capi.SecurityGroupsClient.List.
func (c *SecurityGroupsClient) List(ctx context.Context, request capi.ListSecurityGroupsRequest) (*capi.ListSecurityGroupsResponse, error) {
	return exchange[capi.ListSecurityGroupsResponse](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "listing security groups",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "security_groups").Filter(request.Filters()...).Query(request.PaginatedRequest)
		},
	})
}

// Get implements capi.SecurityGroupsClient.Get.
func (c *SecurityGroupsClient) Get(ctx context.Context, request capi.GetSecurityGroupRequest) (*capi.SecurityGroupResource, error) {
	return exchange[capi.SecurityGroupResource](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "getting security group",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "security_groups", request.ID)
		},
	})
}

// Create implements capi.SecurityGroupsClient.Create.
func (c *SecurityGroupsClient) Create(ctx context.Context, request capi.CreateSecurityGroupRequest) (*capi.SecurityGroupResource, error) {
	return exchange[capi.SecurityGroupResource](ctx, c.httpClient, request, operation{
		method: http.MethodPost,
		action: "creating security group",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "security_groups")
		},
		body: request,
	})
}

// Delete implements capi.SecurityGroupsClient.Delete.
func (c *SecurityGroupsClient) Delete(ctx context.Context, request capi.DeleteSecurityGroupRequest) error {
	return exchangeVoid(ctx, c.httpClient, request, operation{
		method: http.MethodDelete,
		action: "deleting security group",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "security_groups", request.ID)
		},
	})
}
