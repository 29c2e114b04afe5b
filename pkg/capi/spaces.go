package capi

import (
	"context"
	"strconv"
)

// SpaceEntity is the entity of a v2 space resource.
type SpaceEntity struct {
	Name                     string  `json:"name"                                  yaml:"name"`
	OrganizationID           string  `json:"organization_guid"                     yaml:"organization_guid"`
	SpaceQuotaDefinitionID   *string `json:"space_quota_definition_guid,omitempty" yaml:"space_quota_definition_guid,omitempty"`
	AllowSSH                 *bool   `json:"allow_ssh,omitempty"                   yaml:"allow_ssh,omitempty"`
	OrganizationURL          string  `json:"organization_url,omitempty"            yaml:"organization_url,omitempty"`
	DevelopersURL            string  `json:"developers_url,omitempty"              yaml:"developers_url,omitempty"`
	ManagersURL              string  `json:"managers_url,omitempty"                yaml:"managers_url,omitempty"`
	AuditorsURL              string  `json:"auditors_url,omitempty"                yaml:"auditors_url,omitempty"`
	ApplicationsURL          string  `json:"apps_url,omitempty"                    yaml:"apps_url,omitempty"`
	RoutesURL                string  `json:"routes_url,omitempty"                  yaml:"routes_url,omitempty"`
	DomainsURL               string  `json:"domains_url,omitempty"                 yaml:"domains_url,omitempty"`
	ServiceInstancesURL      string  `json:"service_instances_url,omitempty"       yaml:"service_instances_url,omitempty"`
	ApplicationEventsURL     string  `json:"app_events_url,omitempty"              yaml:"app_events_url,omitempty"`
	EventsURL                string  `json:"events_url,omitempty"                  yaml:"events_url,omitempty"`
	SecurityGroupsURL        string  `json:"security_groups_url,omitempty"         yaml:"security_groups_url,omitempty"`
	StagingSecurityGroupsURL string  `json:"staging_security_groups_url,omitempty" yaml:"staging_security_groups_url,omitempty"`
}

// SpaceResource is a v2 space.
type SpaceResource = V2Resource[SpaceEntity]

// ListSpacesResponse is a page of spaces.
type ListSpacesResponse = PaginatedResponse[SpaceResource]

// ListSpacesRequest lists spaces, optionally filtered.
type ListSpacesRequest struct {
	PaginatedRequest

	ApplicationIDs  []string
	DeveloperIDs    []string
	Names           []string
	OrganizationIDs []string
}

// Validate implements Validatable.
func (r ListSpacesRequest) Validate() ValidationResult {
	return ValidationResult{}
}

// Filters returns the q clauses of the request.
func (r ListSpacesRequest) Filters() []Filter {
	return []Filter{
		In("app_guid", r.ApplicationIDs...),
		In("developer_guid", r.DeveloperIDs...),
		In("name", r.Names...),
		In("organization_guid", r.OrganizationIDs...),
	}
}

// GetSpaceRequest fetches one space.
type GetSpaceRequest struct {
	ID string
}

// Validate implements Validatable.
func (r GetSpaceRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// GetSpaceSummaryRequest fetches the summary of one space.
type GetSpaceSummaryRequest struct {
	ID string
}

// Validate implements Validatable.
func (r GetSpaceSummaryRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// SpaceApplicationSummary is one application in a space summary.
type SpaceApplicationSummary struct {
	ID               string   `json:"guid"              yaml:"guid"`
	Name             string   `json:"name"              yaml:"name"`
	State            string   `json:"state"             yaml:"state"`
	Instances        int      `json:"instances"         yaml:"instances"`
	RunningInstances int      `json:"running_instances" yaml:"running_instances"`
	Memory           int      `json:"memory"            yaml:"memory"`
	DiskQuota        int      `json:"disk_quota"        yaml:"disk_quota"`
	URLs             []string `json:"urls"              yaml:"urls"`
	ServiceCount     int      `json:"service_count"     yaml:"service_count"`
}

// SpaceServiceSummary is one service instance in a space summary.
type SpaceServiceSummary struct {
	ID            string `json:"guid"            yaml:"guid"`
	Name          string `json:"name"            yaml:"name"`
	BoundAppCount int    `json:"bound_app_count" yaml:"bound_app_count"`
	DashboardURL  string `json:"dashboard_url"   yaml:"dashboard_url"`
}

// GetSpaceSummaryResponse is the /v2/spaces/{id}/summary document.
type GetSpaceSummaryResponse struct {
	ID           string                    `json:"guid"     yaml:"guid"`
	Name         string                    `json:"name"     yaml:"name"`
	Applications []SpaceApplicationSummary `json:"apps"     yaml:"apps"`
	Services     []SpaceServiceSummary     `json:"services" yaml:"services"`
}

// CreateSpaceRequest creates a space.
type CreateSpaceRequest struct {
	Name           string   `json:"name"`
	OrganizationID string   `json:"organization_guid"`
	AllowSSH       *bool    `json:"allow_ssh,omitempty"`
	DeveloperIDs   []string `json:"developer_guids,omitempty"`
	ManagerIDs     []string `json:"manager_guids,omitempty"`
	AuditorIDs     []string `json:"auditor_guids,omitempty"`
}

// Validate implements Validatable.
func (r CreateSpaceRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.Name, "name")
	result.RequireString(r.OrganizationID, "organization id")

	return result
}

// DeleteSpaceRequest deletes a space.
type DeleteSpaceRequest struct {
	ID        string
	Async     *bool
	Recursive *bool
}

// Validate implements Validatable.
func (r DeleteSpaceRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// QueryParams implements QuerySource.
func (r DeleteSpaceRequest) QueryParams() []QueryParam {
	return []QueryParam{
		BoolParam("async", r.Async),
		BoolParam("recursive", r.Recursive),
	}
}

// AssociateSpaceManagerRequest makes a user a manager of a space.
type AssociateSpaceManagerRequest struct {
	ID        string
	ManagerID string
}

// Validate implements Validatable.
func (r AssociateSpaceManagerRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")
	result.RequireString(r.ManagerID, "manager id")

	return result
}

// AssociateSpaceDeveloperRequest makes a user a developer of a space.
type AssociateSpaceDeveloperRequest struct {
	ID          string
	DeveloperID string
}

// Validate implements Validatable.
func (r AssociateSpaceDeveloperRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")
	result.RequireString(r.DeveloperID, "developer id")

	return result
}

// AssociateSpaceAuditorRequest makes a user an auditor of a space.
type AssociateSpaceAuditorRequest struct {
	ID        string
	AuditorID string
}

// Validate implements Validatable.
func (r AssociateSpaceAuditorRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")
	result.RequireString(r.AuditorID, "auditor id")

	return result
}

// AssociateSpaceSecurityGroupRequest binds a security group to a space.
type AssociateSpaceSecurityGroupRequest struct {
	ID              string
	SecurityGroupID string
}

// Validate implements Validatable.
func (r AssociateSpaceSecurityGroupRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")
	result.RequireString(r.SecurityGroupID, "security group id")

	return result
}

// ListSpaceApplicationsRequest lists the applications of a space.
type ListSpaceApplicationsRequest struct {
	PaginatedRequest

	ID       string
	Names    []string
	StackIDs []string
	Diego    *bool
}

// Validate implements Validatable.
func (r ListSpaceApplicationsRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// Filters returns the q clauses of the request.
func (r ListSpaceApplicationsRequest) Filters() []Filter {
	filters := []Filter{
		In("name", r.Names...),
		In("stack_guid", r.StackIDs...),
	}

	if r.Diego != nil {
		filters = append(filters, Eq("diego", strconv.FormatBool(*r.Diego)))
	}

	return filters
}

// SpacesClient operates on /v2/spaces.
type SpacesClient interface {
	List(ctx context.Context, request ListSpacesRequest) (*ListSpacesResponse, error)
	Get(ctx context.Context, request GetSpaceRequest) (*SpaceResource, error)
	GetSummary(ctx context.Context, request GetSpaceSummaryRequest) (*GetSpaceSummaryResponse, error)
	Create(ctx context.Context, request CreateSpaceRequest) (*SpaceResource, error)
	Delete(ctx context.Context, request DeleteSpaceRequest) error
	AssociateManager(ctx context.Context, request AssociateSpaceManagerRequest) (*SpaceResource, error)
	AssociateDeveloper(ctx context.Context, request AssociateSpaceDeveloperRequest) (*SpaceResource, error)
	AssociateAuditor(ctx context.Context, request AssociateSpaceAuditorRequest) (*SpaceResource, error)
	AssociateSecurityGroup(ctx context.Context, request AssociateSpaceSecurityGroupRequest) (*SpaceResource, error)
	ListApplications(ctx context.Context, request ListSpaceApplicationsRequest) (*ListApplicationsV2Response, error)
}
