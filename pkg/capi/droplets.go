package capi

import "context"

// Droplet is a staged, runnable artifact of an app.
type Droplet struct {
	Resource

	State             string                `json:"state"                   yaml:"state"`
	Error             *string               `json:"error"                   yaml:"error"`
	Lifecycle         Lifecycle             `json:"lifecycle"               yaml:"lifecycle"`
	ExecutionMetadata string                `json:"execution_metadata"      yaml:"execution_metadata"`
	ProcessTypes      map[string]string     `json:"process_types"           yaml:"process_types"`
	Checksum          *Hash                 `json:"checksum,omitempty"      yaml:"checksum,omitempty"`
	Stack             *string               `json:"stack,omitempty"         yaml:"stack,omitempty"`
	Image             *string               `json:"image,omitempty"         yaml:"image,omitempty"`
	Metadata          *Metadata             `json:"metadata,omitempty"      yaml:"metadata,omitempty"`
	Relationships     *DropletRelationships `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

// DropletRelationships holds the owning app.
type DropletRelationships struct {
	App *Relationship `json:"app,omitempty" yaml:"app,omitempty"`
}

// ListDropletsResponse is a page of droplets.
type ListDropletsResponse = ListResponse[Droplet]

// GetDropletRequest fetches one droplet.
type GetDropletRequest struct {
	ID string
}

// Validate implements Validatable.
func (r GetDropletRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// ListDropletsRequest lists droplets.
type ListDropletsRequest struct {
	PaginatedAndSortedRequest

	IDs            []string
	ApplicationIDs []string
	SpaceIDs       []string
	States         []string
}

// Validate implements Validatable.
func (r ListDropletsRequest) Validate() ValidationResult {
	return ValidatePagination(r.PaginatedAndSortedRequest)
}

// QueryParams implements QuerySource.
func (r ListDropletsRequest) QueryParams() []QueryParam {
	return append([]QueryParam{
		ListParam("guids", r.IDs),
		ListParam("app_guids", r.ApplicationIDs),
		ListParam("space_guids", r.SpaceIDs),
		ListParam("states", r.States),
	}, r.PaginatedAndSortedRequest.QueryParams()...)
}

// DeleteDropletRequest deletes a droplet.
type DeleteDropletRequest struct {
	ID string
}

// Validate implements Validatable.
func (r DeleteDropletRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// DropletsClient operates on /v3/droplets.
type DropletsClient interface {
	Get(ctx context.Context, request GetDropletRequest) (*Droplet, error)
	List(ctx context.Context, request ListDropletsRequest) (*ListDropletsResponse, error)
	Delete(ctx context.Context, request DeleteDropletRequest) error
}
