package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

func TestDropletsClient(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		switch request.Method + " " + request.URL.Path {
		case "GET /v3/droplets/droplet-guid":
			writeRaw(writer, http.StatusOK, `{"guid":"droplet-guid","state":"STAGED","stack":"cflinuxfs4",
				"checksum":{"type":"sha256","value":"abc"}}`)
		case "GET /v3/droplets":
			assert.Equal(t, "app_guids=app-guid&states=STAGED,FAILED&per_page=5", request.URL.RawQuery)
			writeRaw(writer, http.StatusOK, `{"pagination":{"total_results":0,"total_pages":0},"resources":[]}`)
		case "DELETE /v3/droplets/droplet-guid":
			writer.WriteHeader(http.StatusAccepted)
		default:
			t.Errorf("unexpected request %s %s", request.Method, request.RequestURI)
		}
	})

	ctx := context.Background()

	droplet, err := c.Droplets().Get(ctx, capi.GetDropletRequest{ID: "droplet-guid"})
	require.NoError(t, err)
	require.NotNil(t, droplet.Checksum)
	assert.Equal(t, "sha256", droplet.Checksum.Type)

	list, err := c.Droplets().List(ctx, capi.ListDropletsRequest{
		PaginatedAndSortedRequest: capi.PaginatedAndSortedRequest{PerPage: capi.Ptr(5)},
		ApplicationIDs:            []string{"app-guid"},
		States:                    []string{"STAGED", "FAILED"},
	})
	require.NoError(t, err)
	assert.Empty(t, list.Resources)

	require.NoError(t, c.Droplets().Delete(ctx, capi.DeleteDropletRequest{ID: "droplet-guid"}))

	_, err = c.Droplets().List(ctx, capi.ListDropletsRequest{
		PaginatedAndSortedRequest: capi.PaginatedAndSortedRequest{PerPage: capi.Ptr(5001)},
	})
	require.Error(t, err)
	assert.True(t, capi.IsValidationError(err))
}
