package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/cfapi/internal/http"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// ServiceInstancesClient implements capi.ServiceInstancesClient.
type ServiceInstancesClient struct {
	httpClient *internalhttp.Client
}

// NewServiceInstancesClient creates a new ServiceInstancesClient.
func NewServiceInstancesClient(httpClient *internalhttp.Client) *ServiceInstancesClient {
	return &ServiceInstancesClient{httpClient: httpClient}
}

// List implements capi.ServiceInstancesClient.List.
func (c *ServiceInstancesClient) List(ctx context.Context, request capi.ListServiceInstancesRequest) (*capi.ListServiceInstancesResponse, error) {
	return exchange[capi.ListServiceInstancesResponse](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "listing service instances",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "service_instances").Filter(request.Filters()...).Query(request)
		},
	})
}
