package client_test

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

func listSpacesPages(ctx context.Context, spaces capi.SpacesClient) iter.Seq2[*capi.ListSpacesResponse, error] {
	return capi.Paginate(ctx,
		func(page int) capi.ListSpacesRequest {
			return capi.ListSpacesRequest{
				PaginatedRequest: capi.PaginatedRequest{}.WithPage(page),
				Names:            []string{"dev"},
			}
		},
		spaces.List,
	)
}

func TestPaginate_TwoPages(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)

		switch request.URL.Query().Get("page") {
		case "1":
			// The server advertises an unrelated page number; only the
			// presence of next_url matters.
			writeRaw(writer, http.StatusOK, `{"total_results":2,"total_pages":2,"next_url":"/v2/spaces?page=99",
				"resources":[{"metadata":{"guid":"space-1"},"entity":{"name":"dev"}}]}`)
		case "2":
			writeRaw(writer, http.StatusOK, `{"total_results":2,"total_pages":2,"next_url":null,
				"resources":[{"metadata":{"guid":"space-2"},"entity":{"name":"dev"}}]}`)
		default:
			t.Errorf("unexpected request %s", request.RequestURI)
			writer.WriteHeader(http.StatusBadRequest)
		}
	})

	var guids []string

	for page, err := range listSpacesPages(context.Background(), c.Spaces()) {
		require.NoError(t, err)

		for _, space := range page.Resources {
			guids = append(guids, space.Metadata.ID)
		}
	}

	assert.Equal(t, []string{"space-1", "space-2"}, guids)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPaginate_EmptyFirstPage(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v2/spaces?q=name%20IN%20dev&page=1", request.RequestURI)
		writeRaw(writer, http.StatusOK, `{"total_results":0,"total_pages":0,"next_url":null,"resources":[]}`)
	})

	pages, err := capi.CollectPages(listSpacesPages(context.Background(), c.Spaces()))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0].Resources)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPaginate_IsLazy(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)
		page := request.URL.Query().Get("page")
		writeRaw(writer, http.StatusOK, fmt.Sprintf(`{"total_results":9,"total_pages":9,"next_url":"/v2/spaces?page=%s0",
			"resources":[]}`, page))
	})

	seq := listSpacesPages(context.Background(), c.Spaces())
	assert.Zero(t, calls.Load(), "nothing is fetched before iteration")

	for range seq {
		break
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestPaginate_StopsOnError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)

		if request.URL.Query().Get("page") == "2" {
			writeRaw(writer, http.StatusBadGateway, "")

			return
		}

		writeRaw(writer, http.StatusOK, `{"total_results":3,"total_pages":3,"next_url":"/v2/spaces?page=2","resources":[]}`)
	})

	pages, err := capi.CollectPages(listSpacesPages(context.Background(), c.Spaces()))
	require.Error(t, err)
	assert.Len(t, pages, 1)

	var cfErr *capi.CloudFoundryError
	require.ErrorAs(t, err, &cfErr)
	assert.Equal(t, http.StatusBadGateway, cfErr.Code)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPaginate_V3(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3/apps", request.URL.Path)

		if request.URL.Query().Get("page") == "1" {
			writeRaw(writer, http.StatusOK, `{"pagination":{"total_results":2,"total_pages":2,"next":{"href":"`+
				"http://"+request.Host+`/v3/apps?page=2&per_page=1"}},"resources":[{"guid":"app-1","name":"a"}]}`)

			return
		}

		writeRaw(writer, http.StatusOK, `{"pagination":{"total_results":2,"total_pages":2,"next":null},"resources":[{"guid":"app-2","name":"b"}]}`)
	})

	seq := capi.Paginate(context.Background(),
		func(page int) capi.ListApplicationsRequest {
			return capi.ListApplicationsRequest{
				PaginatedAndSortedRequest: capi.PaginatedAndSortedRequest{PerPage: capi.Ptr(1)}.WithPage(page),
			}
		},
		c.Applications().List,
	)

	pages, err := capi.CollectPages(seq)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "app-1", pages[0].Resources[0].GUID)
	assert.Equal(t, "app-2", pages[1].Resources[0].GUID)
}
