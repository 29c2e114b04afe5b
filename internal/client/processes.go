package client

import (
	"context"
	"net/http"
	"strconv"

	internalhttp "github.com/fivetwenty-io/cfapi/internal/http"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// ProcessesClient implements capi.ProcessesClient.
type ProcessesClient struct {
	httpClient *internalhttp.Client
}

// NewProcessesClient creates a new ProcessesClient.
func NewProcessesClient(httpClient *internalhttp.Client) *ProcessesClient {
	return &ProcessesClient{httpClient: httpClient}
}

// Get implements capi.ProcessesClient.Get.
func (c *ProcessesClient) Get(ctx context.Context, request capi.GetProcessRequest) (*capi.Process, error) {
	return exchange[capi.Process](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "getting process",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "processes", request.ID)
		},
	})
}

// List implements capi.ProcessesClient.List.
func (c *ProcessesClient) List(ctx context.Context, request capi.ListProcessesRequest) (*capi.ListProcessesResponse, error) {
	return exchange[capi.ListProcessesResponse](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "listing processes",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "processes").Query(request)
		},
	})
}

// Scale implements capi.ProcessesClient.Scale.
func (c *ProcessesClient) Scale(ctx context.Context, request capi.ScaleProcessRequest) (*capi.Process, error) {
	return exchange[capi.Process](ctx, c.httpClient, request, operation{
		method: http.MethodPost,
		action: "scaling process",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "processes", request.ID, "actions", "scale")
		},
		body: request,
	})
}

// Update implements capi.ProcessesClient.Update.
func (c *ProcessesClient) Update(ctx context.Context, request capi.UpdateProcessRequest) (*capi.Process, error) {
	return exchange[capi.Process](ctx, c.httpClient, request, operation{
		method: http.MethodPatch,
		action: "updating process",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "processes", request.ID)
		},
		body: request,
	})
}

// DeleteInstance implements capi.ProcessesClient.DeleteInstance.
func (c *ProcessesClient) DeleteInstance(ctx context.Context, request capi.DeleteProcessInstanceRequest) error {
	return exchangeVoid(ctx, c.httpClient, request, operation{
		method: http.MethodDelete,
		action: "deleting process instance",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "processes", request.ID, "instances", strconv.Itoa(*request.Index))
		},
	})
}
