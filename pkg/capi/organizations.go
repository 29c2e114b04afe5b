package capi

import "context"

// OrganizationEntity is the entity of a v2 organization resource.
type OrganizationEntity struct {
	Name                 string `json:"name"                            yaml:"name"`
	BillingEnabled       bool   `json:"billing_enabled"                 yaml:"billing_enabled"`
	QuotaDefinitionID    string `json:"quota_definition_guid,omitempty" yaml:"quota_definition_guid,omitempty"`
	Status               string `json:"status"                          yaml:"status"`
	QuotaDefinitionURL   string `json:"quota_definition_url,omitempty"  yaml:"quota_definition_url,omitempty"`
	SpacesURL            string `json:"spaces_url,omitempty"            yaml:"spaces_url,omitempty"`
	DomainsURL           string `json:"domains_url,omitempty"           yaml:"domains_url,omitempty"`
	PrivateDomainsURL    string `json:"private_domains_url,omitempty"   yaml:"private_domains_url,omitempty"`
	UsersURL             string `json:"users_url,omitempty"             yaml:"users_url,omitempty"`
	ManagersURL          string `json:"managers_url,omitempty"          yaml:"managers_url,omitempty"`
	BillingManagersURL   string `json:"billing_managers_url,omitempty"  yaml:"billing_managers_url,omitempty"`
	AuditorsURL          string `json:"auditors_url,omitempty"          yaml:"auditors_url,omitempty"`
	ApplicationEventsURL string `json:"app_events_url,omitempty"        yaml:"app_events_url,omitempty"`
}

// OrganizationResource is a v2 organization.
type OrganizationResource = V2Resource[OrganizationEntity]

// ListOrganizationsResponse is a page of organizations.
type ListOrganizationsResponse = PaginatedResponse[OrganizationResource]

// ListOrganizationsRequest lists organizations, optionally filtered.
type ListOrganizationsRequest struct {
	PaginatedRequest

	AuditorIDs        []string
	BillingManagerIDs []string
	ManagerIDs        []string
	Names             []string
	SpaceIDs          []string
	Statuses          []string
	UserIDs           []string
}

// Validate implements Validatable.
func (r ListOrganizationsRequest) Validate() ValidationResult {
	return ValidationResult{}
}

// Filters returns the q clauses of the request.
func (r ListOrganizationsRequest) Filters() []Filter {
	return []Filter{
		In("auditor_guid", r.AuditorIDs...),
		In("billing_manager_guid", r.BillingManagerIDs...),
		In("manager_guid", r.ManagerIDs...),
		In("name", r.Names...),
		In("space_guid", r.SpaceIDs...),
		In("status", r.Statuses...),
		In("user_guid", r.UserIDs...),
	}
}

// GetOrganizationRequest fetches one organization.
type GetOrganizationRequest struct {
	ID string
}

// Validate implements Validatable.
func (r GetOrganizationRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// AssociateOrganizationAuditorRequest makes a user an auditor of an organization.
type AssociateOrganizationAuditorRequest struct {
	AuditorID      string
	OrganizationID string
}

// Validate implements Validatable.
func (r AssociateOrganizationAuditorRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.AuditorID, "auditor id")
	result.RequireString(r.OrganizationID, "organization id")

	return result
}

// ListOrganizationSpacesRequest lists the spaces of an organization.
type ListOrganizationSpacesRequest struct {
	PaginatedRequest

	ID           string
	Names        []string
	DeveloperIDs []string
}

// Validate implements Validatable.
func (r ListOrganizationSpacesRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// Filters returns the q clauses of the request.
func (r ListOrganizationSpacesRequest) Filters() []Filter {
	return []Filter{
		In("name", r.Names...),
		In("developer_guid", r.DeveloperIDs...),
	}
}

// OrganizationsClient operates on /v2/organizations.
type OrganizationsClient interface {
	List(ctx context.Context, request ListOrganizationsRequest) (*ListOrganizationsResponse, error)
	Get(ctx context.Context, request GetOrganizationRequest) (*OrganizationResource, error)
	AssociateAuditor(ctx context.Context, request AssociateOrganizationAuditorRequest) (*OrganizationResource, error)
	ListSpaces(ctx context.Context, request ListOrganizationSpacesRequest) (*ListSpacesResponse, error)
}
