package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/cfapi/internal/http"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// DropletsClient implements capi.DropletsClient.
type DropletsClient struct {
	httpClient *internalhttp.Client
}

// NewDropletsClient creates a new DropletsClient.
func NewDropletsClient(httpClient *internalhttp.Client) *DropletsClient {
	return &DropletsClient{httpClient: httpClient}
}

// Get implements capi.DropletsClient.Get.
func (c *DropletsClient) Get(ctx context.Context, request capi.GetDropletRequest) (*capi.Droplet, error) {
	return exchange[capi.Droplet](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "getting droplet",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "droplets", request.ID)
		},
	})
}

// List implements capi.DropletsClient.List.
func (c *DropletsClient) List(ctx context.Context, request capi.ListDropletsRequest) (*capi.ListDropletsResponse, error) {
	return exchange[capi.ListDropletsResponse](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "listing droplets",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "droplets").Query(request)
		},
	})
}

// Delete implements capi.DropletsClient.Delete.
func (c *DropletsClient) Delete(ctx context.Context, request capi.DeleteDropletRequest) error {
	return exchangeVoid(ctx, c.httpClient, request, operation{
		method: http.MethodDelete,
		action: "deleting droplet",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "droplets", request.ID)
		},
	})
}
