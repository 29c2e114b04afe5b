package capi

import (
	"context"
	"encoding/json"
)

// Process is a v3 process: one runnable type of an app, e.g. "web".
type Process struct {
	Resource

	Type          string                `json:"type"                    yaml:"type"`
	Command       *string               `json:"command"                 yaml:"command"`
	Instances     int                   `json:"instances"               yaml:"instances"`
	MemoryInMB    int                   `json:"memory_in_mb"            yaml:"memory_in_mb"`
	DiskInMB      int                   `json:"disk_in_mb"              yaml:"disk_in_mb"`
	HealthCheck   *HealthCheck          `json:"health_check"            yaml:"health_check"`
	Metadata      *Metadata             `json:"metadata,omitempty"      yaml:"metadata,omitempty"`
	Relationships *ProcessRelationships `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

// ProcessRelationships holds the owning app.
type ProcessRelationships struct {
	App *Relationship `json:"app,omitempty" yaml:"app,omitempty"`
}

// HealthCheck is the liveness check of a process.
type HealthCheck struct {
	Type string           `json:"type"           yaml:"type"`
	Data *HealthCheckData `json:"data,omitempty" yaml:"data,omitempty"`
}

// HealthCheckData configures a health check.
type HealthCheckData struct {
	Timeout           *int    `json:"timeout,omitempty"            yaml:"timeout,omitempty"`
	InvocationTimeout *int    `json:"invocation_timeout,omitempty" yaml:"invocation_timeout,omitempty"`
	Endpoint          *string `json:"endpoint,omitempty"           yaml:"endpoint,omitempty"`
}

// ListProcessesResponse is a page of processes.
type ListProcessesResponse = ListResponse[Process]

// GetProcessRequest fetches one process.
type GetProcessRequest struct {
	ID string
}

// Validate implements Validatable.
func (r GetProcessRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// ListProcessesRequest lists processes.
type ListProcessesRequest struct {
	PaginatedAndSortedRequest

	IDs            []string
	Types          []string
	ApplicationIDs []string
	SpaceIDs       []string
}

// Validate implements Validatable.
func (r ListProcessesRequest) Validate() ValidationResult {
	return ValidatePagination(r.PaginatedAndSortedRequest)
}

// QueryParams implements QuerySource.
func (r ListProcessesRequest) QueryParams() []QueryParam {
	return append([]QueryParam{
		ListParam("guids", r.IDs),
		ListParam("types", r.Types),
		ListParam("app_guids", r.ApplicationIDs),
		ListParam("space_guids", r.SpaceIDs),
	}, r.PaginatedAndSortedRequest.QueryParams()...)
}

// ScaleProcessRequest changes the instance count or sizing of a process.
// At least one of Instances, MemoryInMB and DiskInMB must be set.
type ScaleProcessRequest struct {
	ID         string `json:"-"`
	Instances  *int   `json:"instances,omitempty"`
	MemoryInMB *int   `json:"memory_in_mb,omitempty"`
	DiskInMB   *int   `json:"disk_in_mb,omitempty"`
}

// Validate implements Validatable.
func (r ScaleProcessRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	if r.Instances == nil && r.MemoryInMB == nil && r.DiskInMB == nil {
		result.Invalid("instances, memory or disk must be specified")
	}

	if r.Instances != nil && *r.Instances < 0 {
		result.Invalid("instances must not be negative")
	}

	return result
}

// UpdateProcessRequest changes the start command of a process.
type UpdateProcessRequest struct {
	ID          string
	Command     string
	HealthCheck *HealthCheck
}

// Validate implements Validatable.
func (r UpdateProcessRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")
	result.RequireString(r.Command, "command")

	return result
}

// MarshalJSON renders the PATCH body.
func (r UpdateProcessRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command     string       `json:"command"`
		HealthCheck *HealthCheck `json:"health_check,omitempty"`
	}{
		Command:     r.Command,
		HealthCheck: r.HealthCheck,
	})
}

// DeleteProcessInstanceRequest terminates one instance of a process. The
// platform restarts it.
type DeleteProcessInstanceRequest struct {
	ID    string
	Index *int
}

// Validate implements Validatable.
func (r DeleteProcessInstanceRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")
	result.RequireInt(r.Index, "index")

	return result
}

// ProcessesClient operates on /v3/processes.
type ProcessesClient interface {
	Get(ctx context.Context, request GetProcessRequest) (*Process, error)
	List(ctx context.Context, request ListProcessesRequest) (*ListProcessesResponse, error)
	Scale(ctx context.Context, request ScaleProcessRequest) (*Process, error)
	Update(ctx context.Context, request UpdateProcessRequest) (*Process, error)
	DeleteInstance(ctx context.Context, request DeleteProcessInstanceRequest) error
}
