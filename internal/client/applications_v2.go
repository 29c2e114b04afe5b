package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/cfapi/internal/http"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// ApplicationsV2Client implements capi.ApplicationsV2Client.
type ApplicationsV2Client struct {
	httpClient *internalhttp.Client
}

// NewApplicationsV2Client creates a new ApplicationsV2Client.
func NewApplicationsV2Client(httpClient *internalhttp.Client) *ApplicationsV2Client {
	return &ApplicationsV2Client{httpClient: httpClient}
}

// Get implements capi.ApplicationsV2Client.Get.
func (c *ApplicationsV2Client) Get(ctx context.Context, request capi.GetApplicationV2Request) (*capi.ApplicationV2Resource, error) {
	return exchange[capi.ApplicationV2Resource](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "getting application",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "apps", request.ID)
		},
	})
}

// UploadBits implements capi.ApplicationsV2Client.UploadBits. A synchronous
// upload returns a nil job.
func (c *ApplicationsV2Client) UploadBits(ctx context.Context, request capi.UploadApplicationBitsRequest) (*capi.JobResource, error) {
	return exchange[capi.JobResource](ctx, c.httpClient, request, operation{
		method: http.MethodPut,
		action: "uploading application bits",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v2", "apps", request.ID, "bits").Query(request)
		},
		multipart:  request.Multipart,
		allowEmpty: true,
	})
}
