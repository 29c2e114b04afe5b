package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/cfapi/internal/http"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// ApplicationsClient implements capi.ApplicationsClient.
type ApplicationsClient struct {
	httpClient *internalhttp.Client
}

// NewApplicationsClient creates a new ApplicationsClient.
func NewApplicationsClient(httpClient *internalhttp.Client) *ApplicationsClient {
	return &ApplicationsClient{httpClient: httpClient}
}

// Create implements capi.ApplicationsClient.Create.
func (c *ApplicationsClient) Create(ctx context.Context, request capi.CreateApplicationRequest) (*capi.Application, error) {
	return exchange[capi.Application](ctx, c.httpClient, request, operation{
		method: http.MethodPost,
		action: "creating application",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "apps")
		},
		body: request,
	})
}

// Get implements capi.ApplicationsClient.Get.
func (c *ApplicationsClient) Get(ctx context.Context, request capi.GetApplicationRequest) (*capi.Application, error) {
	return exchange[capi.Application](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "getting application",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "apps", request.ID)
		},
	})
}

// List implements capi.ApplicationsClient.List.
func (c *ApplicationsClient) List(ctx context.Context, request capi.ListApplicationsRequest) (*capi.ListApplicationsResponse, error) {
	return exchange[capi.ListApplicationsResponse](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "listing applications",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "apps").Query(request)
		},
	})
}

// Delete implements capi.ApplicationsClient.Delete. The deletion itself is
// asynchronous; the accepted job is not tracked.
func (c *ApplicationsClient) Delete(ctx context.Context, request capi.DeleteApplicationRequest) error {
	return exchangeVoid(ctx, c.httpClient, request, operation{
		method: http.MethodDelete,
		action: "deleting application",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "apps", request.ID)
		},
	})
}

// Start implements capi.ApplicationsClient.Start.
func (c *ApplicationsClient) Start(ctx context.Context, request capi.StartApplicationRequest) (*capi.Application, error) {
	return c.action(ctx, request, request.ID, "start", "starting application")
}

// Stop implements capi.ApplicationsClient.Stop.
func (c *ApplicationsClient) Stop(ctx context.Context, request capi.StopApplicationRequest) (*capi.Application, error) {
	return c.action(ctx, request, request.ID, "stop", "stopping application")
}

func (c *ApplicationsClient) action(ctx context.Context, request capi.Validatable, id, name, action string) (*capi.Application, error) {
	return exchange[capi.Application](ctx, c.httpClient, request, operation{
		method: http.MethodPost,
		action: action,
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "apps", id, "actions", name)
		},
	})
}

// GetEnvironment implements capi.ApplicationsClient.GetEnvironment.
func (c *ApplicationsClient) GetEnvironment(ctx context.Context, request capi.GetApplicationEnvironmentRequest) (*capi.ApplicationEnvironment, error) {
	return exchange[capi.ApplicationEnvironment](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "getting application environment",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "apps", request.ID, "env")
		},
	})
}

// ListDroplets implements capi.ApplicationsClient.ListDroplets.
func (c *ApplicationsClient) ListDroplets(ctx context.Context, request capi.ListApplicationDropletsRequest) (*capi.ListDropletsResponse, error) {
	return exchange[capi.ListDropletsResponse](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "listing application droplets",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "apps", request.ID, "droplets").Query(request)
		},
	})
}
