package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/cfapi/pkg/capi"
)

const serviceInstancesPage = `{
  "total_results": 1,
  "total_pages": 1,
  "prev_url": null,
  "next_url": null,
  "resources": [
    {
      "metadata": {"guid": "instance-guid", "url": "/v2/service_instances/instance-guid"},
      "entity": {
        "name": "my-db",
        "credentials": {"uri": "postgres://db"},
        "service_plan_guid": "plan-guid",
        "space_guid": "space-guid",
        "dashboard_url": "https://dashboard.example.com",
        "type": "managed_service_instance",
        "last_operation": {"type": "create", "state": "succeeded", "description": ""},
        "tags": ["sql"],
        "space_url": "/v2/spaces/space-guid",
        "service_bindings_url": "/v2/service_instances/instance-guid/service_bindings"
      }
    }
  ]
}`

func TestServiceInstancesClient_List(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "/v2/service_instances?q=name%20IN%20my-db&page=-1", request.RequestURI)
		writeRaw(writer, http.StatusOK, serviceInstancesPage)
	})

	response, err := c.ServiceInstances().List(context.Background(), capi.ListServiceInstancesRequest{
		PaginatedRequest: capi.PaginatedRequest{Page: capi.Ptr(-1)},
		Names:            []string{"my-db"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, response.TotalResults)
	assert.Empty(t, response.NextPageURL())
	require.Len(t, response.Resources, 1)

	instance := response.Resources[0]
	assert.Equal(t, "instance-guid", instance.Metadata.ID)
	assert.Equal(t, "my-db", instance.Entity.Name)
	assert.Equal(t, "plan-guid", instance.Entity.ServicePlanID)
	assert.Equal(t, "space-guid", instance.Entity.SpaceID)
	assert.Equal(t, "postgres://db", instance.Entity.Credentials["uri"])
	assert.Equal(t, []string{"sql"}, instance.Entity.Tags)
	require.NotNil(t, instance.Entity.DashboardURL)
	assert.Equal(t, "https://dashboard.example.com", *instance.Entity.DashboardURL)
	require.NotNil(t, instance.Entity.LastOperation)
	assert.Equal(t, "succeeded", instance.Entity.LastOperation.State)
}

func TestServiceInstancesClient_ListFilters(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t,
			"/v2/service_instances?q=organization_guid%20IN%20org-guid;space_guid%20IN%20space-1,space-2"+
				"&return_user_provided_service_instances=true&results-per-page=10",
			request.RequestURI)
		writeRaw(writer, http.StatusOK, serviceInstancesPage)
	})

	_, err := c.ServiceInstances().List(context.Background(), capi.ListServiceInstancesRequest{
		PaginatedRequest:   capi.PaginatedRequest{ResultsPerPage: capi.Ptr(10)},
		OrganizationIDs:    []string{"org-guid"},
		SpaceIDs:           []string{"space-1", "space-2"},
		ReturnUserProvided: capi.Ptr(true),
	})
	require.NoError(t, err)
}

func TestServiceInstancesClient_ListError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		writeRaw(writer, http.StatusForbidden,
			`{"code":10003,"description":"You are not authorized to perform the requested action","error_code":"CF-NotAuthorized"}`)
	})

	_, err := c.ServiceInstances().List(context.Background(), capi.ListServiceInstancesRequest{})
	require.Error(t, err)
	assert.True(t, capi.IsForbidden(err))
}
