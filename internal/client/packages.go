package client

import (
	"context"
	"net/http"

	internalhttp "github.com/fivetwenty-io/cfapi/internal/http"
	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

// PackagesClient implements capi.PackagesClient.
type PackagesClient struct {
	httpClient *internalhttp.Client
}

// NewPackagesClient creates a new PackagesClient.
func NewPackagesClient(httpClient *internalhttp.Client) *PackagesClient {
	return &PackagesClient{httpClient: httpClient}
}

// Create implements capi.PackagesClient.Create.
func (c *PackagesClient) Create(ctx context.Context, request capi.CreatePackageRequest) (*capi.Package, error) {
	return exchange[capi.Package](ctx, c.httpClient, request, operation{
		method: http.MethodPost,
		action: "creating package",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "packages")
		},
		body: request,
	})
}

// Get implements capi.PackagesClient.Get.
func (c *PackagesClient) Get(ctx context.Context, request capi.GetPackageRequest) (*capi.Package, error) {
	return exchange[capi.Package](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "getting package",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "packages", request.ID)
		},
	})
}

// List implements capi.PackagesClient.List.
func (c *PackagesClient) List(ctx context.Context, request capi.ListPackagesRequest) (*capi.ListPackagesResponse, error) {
	return exchange[capi.ListPackagesResponse](ctx, c.httpClient, request, operation{
		method: http.MethodGet,
		action: "listing packages",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "packages").Query(request)
		},
	})
}

// Delete implements capi.PackagesClient.Delete.
func (c *PackagesClient) Delete(ctx context.Context, request capi.DeletePackageRequest) error {
	return exchangeVoid(ctx, c.httpClient, request, operation{
		method: http.MethodDelete,
		action: "deleting package",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "packages", request.ID)
		},
	})
}

// Upload implements capi.PackagesClient.Upload.
func (c *PackagesClient) Upload(ctx context.Context, request capi.UploadPackageRequest) (*capi.Package, error) {
	return exchange[capi.Package](ctx, c.httpClient, request, operation{
		method: http.MethodPost,
		action: "uploading package",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "packages", request.ID, "upload")
		},
		multipart: func() (*capi.MultipartBody, error) {
			return request.Multipart(), nil
		},
	})
}

// Copy implements capi.PackagesClient.Copy.
func (c *PackagesClient) Copy(ctx context.Context, request capi.CopyPackageRequest) (*capi.Package, error) {
	return exchange[capi.Package](ctx, c.httpClient, request, operation{
		method: http.MethodPost,
		action: "copying package",
		uri: func(b *capi.URIBuilder) {
			b.PathSegment("v3", "packages").Query(request)
		},
		body: request,
	})
}
