package capi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

func listSpacesURI(request capi.ListSpacesRequest) string {
	return capi.NewURIBuilder().
		PathSegment("v2", "spaces").
		Filter(request.Filters()...).
		Query(request.PaginatedRequest).
		RequestURI()
}

func TestURIBuilder_ListSpaces(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		request  capi.ListSpacesRequest
		expected string
	}{
		{
			name:     "no parameters",
			request:  capi.ListSpacesRequest{},
			expected: "/v2/spaces",
		},
		{
			name: "name filter and negative page",
			request: capi.ListSpacesRequest{
				Names:            []string{"test-name"},
				PaginatedRequest: capi.PaginatedRequest{Page: capi.Ptr(-1)},
			},
			expected: "/v2/spaces?q=name%20IN%20test-name&page=-1",
		},
		{
			name: "several filters are joined in field order",
			request: capi.ListSpacesRequest{
				OrganizationIDs: []string{"org-1"},
				Names:           []string{"a", "b"},
			},
			expected: "/v2/spaces?q=name%20IN%20a,b;organization_guid%20IN%20org-1",
		},
		{
			name: "pagination only",
			request: capi.ListSpacesRequest{
				PaginatedRequest: capi.PaginatedRequest{
					Page:           capi.Ptr(2),
					ResultsPerPage: capi.Ptr(10),
					OrderBy:        "name",
					OrderDirection: capi.OrderAsc,
				},
			},
			expected: "/v2/spaces?page=2&results-per-page=10&order-by=name&order-direction=asc",
		},
		{
			name: "empty filter values are dropped",
			request: capi.ListSpacesRequest{
				Names: []string{""},
			},
			expected: "/v2/spaces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, listSpacesURI(tt.request))
		})
	}
}

func TestURIBuilder_Deterministic(t *testing.T) {
	t.Parallel()

	request := capi.ListSpacesRequest{
		ApplicationIDs:   []string{"app-1"},
		DeveloperIDs:     []string{"dev-1", "dev-2"},
		Names:            []string{"n"},
		OrganizationIDs:  []string{"org-1"},
		PaginatedRequest: capi.PaginatedRequest{Page: capi.Ptr(3)},
	}

	first := listSpacesURI(request)
	for range 20 {
		assert.Equal(t, first, listSpacesURI(request))
	}
}

func TestURIBuilder_Build(t *testing.T) {
	t.Parallel()

	t.Run("keeps base path prefix", func(t *testing.T) {
		t.Parallel()

		uri := capi.NewURIBuilder().PathSegment("v3", "apps", "app-guid").Build("https://api.example.com/cf/")
		assert.Equal(t, "https://api.example.com/cf/v3/apps/app-guid", uri)
	})

	t.Run("trailing slash from empty segment", func(t *testing.T) {
		t.Parallel()

		uri := capi.NewURIBuilder().PathSegment("tail", "").Param("app", "app-guid").Build("wss://doppler.example.com:443")
		assert.Equal(t, "wss://doppler.example.com:443/tail/?app=app-guid", uri)
	})

	t.Run("escapes path segments", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "/v2/spaces/a%2Fb", capi.NewURIBuilder().PathSegment("v2", "spaces", "a/b").Path())
	})
}

func TestURIBuilder_Params(t *testing.T) {
	t.Parallel()

	b := capi.NewURIBuilder().
		PathSegment("v3", "apps").
		Params(
			capi.ListParam("names", []string{"a", "b c"}),
			capi.ListParam("space_guids", nil),
			capi.IntParam("per_page", nil),
			capi.BoolParam("async", capi.Ptr(true)),
		).
		Param("order_by", "")

	assert.Equal(t, "names=a,b%20c&async=true", b.RawQuery())
	assert.Equal(t, "/v3/apps?names=a,b%20c&async=true", b.RequestURI())
}

func TestURIBuilder_V3Pagination(t *testing.T) {
	t.Parallel()

	request := capi.ListApplicationsRequest{
		Names: []string{"web"},
		PaginatedAndSortedRequest: capi.PaginatedAndSortedRequest{
			PerPage:        capi.Ptr(50),
			OrderBy:        capi.OrderByCreatedAt,
			OrderDirection: capi.OrderDesc,
		},
	}

	uri := capi.NewURIBuilder().PathSegment("v3", "apps").Query(request).RequestURI()
	assert.Equal(t, "/v3/apps?names=web&per_page=50&order_by=created_at&order_direction=desc", uri)
}

func TestFilter_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "name IN a,b", capi.In("name", "a", "", "b").String())
	assert.Equal(t, "diego:true", capi.Eq("diego", "true").String())
	assert.Equal(t, "instances>=2", capi.Filter{Field: "instances", Operator: capi.OpGreaterThanOrEqual, Values: []string{"2"}}.String())
	assert.Equal(t, "name IN x", capi.Filter{Field: "name", Values: []string{"x"}}.String())
	assert.Empty(t, capi.In("name").String())
	assert.True(t, capi.Filter{Values: []string{"x"}}.IsZero())
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	assert.True(t, capi.ValidatePagination(capi.PaginatedAndSortedRequest{}).IsValid())

	result := capi.ValidatePagination(capi.PaginatedAndSortedRequest{
		Page:           capi.Ptr(0),
		PerPage:        capi.Ptr(5001),
		OrderDirection: "sideways",
	})
	assert.Equal(t, []string{
		"page must be greater than or equal to 1",
		"per page must be between 1 and 5000",
		`order direction "sideways" is not supported`,
	}, result.Messages())
}
