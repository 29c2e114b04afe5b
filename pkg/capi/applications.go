package capi

import (
	"context"
	"encoding/json"
)

// Application states.
const (
	ApplicationStarted = "STARTED"
	ApplicationStopped = "STOPPED"
)

// Application is a v3 app.
type Application struct {
	Resource

	Name          string                   `json:"name"               yaml:"name"`
	State         string                   `json:"state"              yaml:"state"`
	Lifecycle     Lifecycle                `json:"lifecycle"          yaml:"lifecycle"`
	Metadata      *Metadata                `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Relationships ApplicationRelationships `json:"relationships"      yaml:"relationships"`
}

// ApplicationRelationships holds the space an app belongs to.
type ApplicationRelationships struct {
	Space Relationship `json:"space" yaml:"space"`
}

// Lifecycle is the staging configuration of an app or droplet.
type Lifecycle struct {
	Type string                 `json:"type" yaml:"type"`
	Data map[string]interface{} `json:"data" yaml:"data"`
}

// ListApplicationsResponse is a page of v3 apps.
type ListApplicationsResponse = ListResponse[Application]

// CreateApplicationRequest creates an app in a space.
type CreateApplicationRequest struct {
	Name                 string
	SpaceID              string
	Lifecycle            *Lifecycle
	EnvironmentVariables map[string]string
	Metadata             *Metadata
}

// Validate implements Validatable.
func (r CreateApplicationRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.Name, "name")
	result.RequireString(r.SpaceID, "space id")

	return result
}

// MarshalJSON renders the body with the space as a relationship.
func (r CreateApplicationRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name                 string                   `json:"name"`
		Relationships        ApplicationRelationships `json:"relationships"`
		Lifecycle            *Lifecycle               `json:"lifecycle,omitempty"`
		EnvironmentVariables map[string]string        `json:"environment_variables,omitempty"`
		Metadata             *Metadata                `json:"metadata,omitempty"`
	}{
		Name:                 r.Name,
		Relationships:        ApplicationRelationships{Space: *NewRelationship(r.SpaceID)},
		Lifecycle:            r.Lifecycle,
		EnvironmentVariables: r.EnvironmentVariables,
		Metadata:             r.Metadata,
	})
}

// GetApplicationRequest fetches one app.
type GetApplicationRequest struct {
	ID string
}

// Validate implements Validatable.
func (r GetApplicationRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// ListApplicationsRequest lists apps.
type ListApplicationsRequest struct {
	PaginatedAndSortedRequest

	IDs             []string
	Names           []string
	OrganizationIDs []string
	SpaceIDs        []string
}

// Validate implements Validatable.
func (r ListApplicationsRequest) Validate() ValidationResult {
	return ValidatePagination(r.PaginatedAndSortedRequest)
}

// QueryParams implements QuerySource. Filters precede pagination.
func (r ListApplicationsRequest) QueryParams() []QueryParam {
	return append([]QueryParam{
		ListParam("guids", r.IDs),
		ListParam("names", r.Names),
		ListParam("organization_guids", r.OrganizationIDs),
		ListParam("space_guids", r.SpaceIDs),
	}, r.PaginatedAndSortedRequest.QueryParams()...)
}

// DeleteApplicationRequest deletes an app. The platform answers with a job.
type DeleteApplicationRequest struct {
	ID string
}

// Validate implements Validatable.
func (r DeleteApplicationRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// StartApplicationRequest starts an app.
type StartApplicationRequest struct {
	ID string
}

// Validate implements Validatable.
func (r StartApplicationRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// StopApplicationRequest stops an app.
type StopApplicationRequest struct {
	ID string
}

// Validate implements Validatable.
func (r StopApplicationRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// GetApplicationEnvironmentRequest fetches the environment of an app.
type GetApplicationEnvironmentRequest struct {
	ID string
}

// Validate implements Validatable.
func (r GetApplicationEnvironmentRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// ApplicationEnvironment is the /v3/apps/{id}/env document.
type ApplicationEnvironment struct {
	StagingEnvJSON       map[string]interface{} `json:"staging_env_json"      yaml:"staging_env_json"`
	RunningEnvJSON       map[string]interface{} `json:"running_env_json"      yaml:"running_env_json"`
	EnvironmentVariables map[string]interface{} `json:"environment_variables" yaml:"environment_variables"`
	SystemEnvJSON        map[string]interface{} `json:"system_env_json"       yaml:"system_env_json"`
	ApplicationEnvJSON   map[string]interface{} `json:"application_env_json"  yaml:"application_env_json"`
}

// ListApplicationDropletsRequest lists the droplets of an app.
type ListApplicationDropletsRequest struct {
	PaginatedAndSortedRequest

	ID      string
	States  []string
	Current *bool
}

// Validate implements Validatable.
func (r ListApplicationDropletsRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")
	result.Merge(ValidatePagination(r.PaginatedAndSortedRequest))

	return result
}

// QueryParams implements QuerySource.
func (r ListApplicationDropletsRequest) QueryParams() []QueryParam {
	return append([]QueryParam{
		ListParam("states", r.States),
		BoolParam("current", r.Current),
	}, r.PaginatedAndSortedRequest.QueryParams()...)
}

// ApplicationsClient operates on /v3/apps.
type ApplicationsClient interface {
	Create(ctx context.Context, request CreateApplicationRequest) (*Application, error)
	Get(ctx context.Context, request GetApplicationRequest) (*Application, error)
	List(ctx context.Context, request ListApplicationsRequest) (*ListApplicationsResponse, error)
	Delete(ctx context.Context, request DeleteApplicationRequest) error
	Start(ctx context.Context, request StartApplicationRequest) (*Application, error)
	Stop(ctx context.Context, request StopApplicationRequest) (*Application, error)
	GetEnvironment(ctx context.Context, request GetApplicationEnvironmentRequest) (*ApplicationEnvironment, error)
	ListDroplets(ctx context.Context, request ListApplicationDropletsRequest) (*ListDropletsResponse, error)
}
