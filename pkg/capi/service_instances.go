package capi

import "context"

// ServiceInstanceLastOperation reports the progress of the latest broker call.
type ServiceInstanceLastOperation struct {
	Type        string  `json:"type"                 yaml:"type"`
	State       string  `json:"state"                yaml:"state"`
	Description string  `json:"description"          yaml:"description"`
	UpdatedAt   *string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	CreatedAt   *string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// ServiceInstanceEntity is the entity of a v2 service instance resource.
type ServiceInstanceEntity struct {
	Name               string                        `json:"name"                           yaml:"name"`
	Credentials        map[string]interface{}        `json:"credentials,omitempty"          yaml:"credentials,omitempty"`
	ServicePlanID      string                        `json:"service_plan_guid,omitempty"    yaml:"service_plan_guid,omitempty"`
	SpaceID            string                        `json:"space_guid"                     yaml:"space_guid"`
	GatewayData        map[string]interface{}        `json:"gateway_data,omitempty"         yaml:"gateway_data,omitempty"`
	DashboardURL       *string                       `json:"dashboard_url,omitempty"        yaml:"dashboard_url,omitempty"`
	Type               string                        `json:"type"                           yaml:"type"`
	LastOperation      *ServiceInstanceLastOperation `json:"last_operation,omitempty"       yaml:"last_operation,omitempty"`
	Tags               []string                      `json:"tags,omitempty"                 yaml:"tags,omitempty"`
	SpaceURL           string                        `json:"space_url,omitempty"            yaml:"space_url,omitempty"`
	ServicePlanURL     string                        `json:"service_plan_url,omitempty"     yaml:"service_plan_url,omitempty"`
	ServiceBindingsURL string                        `json:"service_bindings_url,omitempty" yaml:"service_bindings_url,omitempty"`
	ServiceKeysURL     string                        `json:"service_keys_url,omitempty"     yaml:"service_keys_url,omitempty"`
	RoutesURL          string                        `json:"routes_url,omitempty"           yaml:"routes_url,omitempty"`
}

// ServiceInstanceResource is a v2 service instance.
type ServiceInstanceResource = V2Resource[ServiceInstanceEntity]

// ListServiceInstancesResponse is a page of service instances.
type ListServiceInstancesResponse = PaginatedResponse[ServiceInstanceResource]

// ListServiceInstancesRequest lists service instances, optionally filtered.
type ListServiceInstancesRequest struct {
	PaginatedRequest

	GatewayNames       []string
	Names              []string
	OrganizationIDs    []string
	ServiceBindingIDs  []string
	ServiceKeyIDs      []string
	ServicePlanIDs     []string
	SpaceIDs           []string
	ReturnUserProvided *bool
}

// Validate implements Validatable.
func (r ListServiceInstancesRequest) Validate() ValidationResult {
	return ValidationResult{}
}

// Filters returns the q clauses of the request.
func (r ListServiceInstancesRequest) Filters() []Filter {
	return []Filter{
		In("gateway_name", r.GatewayNames...),
		In("name", r.Names...),
		In("organization_guid", r.OrganizationIDs...),
		In("service_binding_guid", r.ServiceBindingIDs...),
		In("service_key_guid", r.ServiceKeyIDs...),
		In("service_plan_guid", r.ServicePlanIDs...),
		In("space_guid", r.SpaceIDs...),
	}
}

// QueryParams implements QuerySource. return_user_provided_service_instances
// follows the q filter and precedes pagination.
func (r ListServiceInstancesRequest) QueryParams() []QueryParam {
	params := []QueryParam{BoolParam("return_user_provided_service_instances", r.ReturnUserProvided)}

	return append(params, r.PaginatedRequest.QueryParams()...)
}

// ServiceInstancesClient operates on /v2/service_instances.
type ServiceInstancesClient interface {
	List(ctx context.Context, request ListServiceInstancesRequest) (*ListServiceInstancesResponse, error)
}
