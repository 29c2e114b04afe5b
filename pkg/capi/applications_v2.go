package capi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// ApplicationV2Entity is the entity of a v2 application resource.
type ApplicationV2Entity struct {
	Name            string                 `json:"name"                       yaml:"name"`
	SpaceID         string                 `json:"space_guid"                 yaml:"space_guid"`
	State           string                 `json:"state"                      yaml:"state"`
	Instances       int                    `json:"instances"                  yaml:"instances"`
	Memory          int                    `json:"memory"                     yaml:"memory"`
	DiskQuota       int                    `json:"disk_quota"                 yaml:"disk_quota"`
	Buildpack       *string                `json:"buildpack,omitempty"        yaml:"buildpack,omitempty"`
	StackID         string                 `json:"stack_guid,omitempty"       yaml:"stack_guid,omitempty"`
	Command         *string                `json:"command,omitempty"          yaml:"command,omitempty"`
	Diego           bool                   `json:"diego"                      yaml:"diego"`
	PackageState    string                 `json:"package_state,omitempty"    yaml:"package_state,omitempty"`
	EnvironmentJSON map[string]interface{} `json:"environment_json,omitempty" yaml:"environment_json,omitempty"`
}

// ApplicationV2Resource is a v2 application.
type ApplicationV2Resource = V2Resource[ApplicationV2Entity]

// ListApplicationsV2Response is a page of v2 applications.
type ListApplicationsV2Response = PaginatedResponse[ApplicationV2Resource]

// ApplicationResourceMatch identifies a file the platform already caches,
// so the upload can omit it.
type ApplicationResourceMatch struct {
	Path string `json:"fn"   yaml:"fn"`
	SHA1 string `json:"sha1" yaml:"sha1"`
	Size int64  `json:"size" yaml:"size"`
	Mode string `json:"mode" yaml:"mode"`
}

// UploadApplicationBitsRequest uploads a zip of application files.
type UploadApplicationBitsRequest struct {
	ID string
	// Application is the zip archive. It is read once.
	Application io.Reader
	// FileName is the name announced for the archive, "application.zip" when empty.
	FileName string
	// Resources lists cached files that are not part of the archive.
	Resources []ApplicationResourceMatch
	Async     *bool
}

// Validate implements Validatable.
func (r UploadApplicationBitsRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")
	result.RequireNotNil(r.Application != nil, "application")

	return result
}

// QueryParams implements QuerySource.
func (r UploadApplicationBitsRequest) QueryParams() []QueryParam {
	return []QueryParam{BoolParam("async", r.Async)}
}

// Multipart builds the "resources" and "application" parts.
func (r UploadApplicationBitsRequest) Multipart() (*MultipartBody, error) {
	resources := r.Resources
	if resources == nil {
		resources = []ApplicationResourceMatch{}
	}

	encoded, err := json.Marshal(resources)
	if err != nil {
		return nil, fmt.Errorf("encoding resource matches: %w", err)
	}

	fileName := r.FileName
	if fileName == "" {
		fileName = "application.zip"
	}

	body := &MultipartBody{}
	body.Field("resources", bytes.NewReader(encoded))
	body.File("application", fileName, "application/zip", r.Application)

	return body, nil
}

// JobEntity is the entity of a v2 background job.
type JobEntity struct {
	ID     string `json:"guid"   yaml:"guid"`
	Status string `json:"status" yaml:"status"`
}

// JobResource is a v2 background job. Synchronous uploads answer with an
// empty body and no job.
type JobResource = V2Resource[JobEntity]

// GetApplicationV2Request fetches one v2 application.
type GetApplicationV2Request struct {
	ID string
}

// Validate implements Validatable.
func (r GetApplicationV2Request) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// ApplicationsV2Client operates on /v2/apps.
type ApplicationsV2Client interface {
	Get(ctx context.Context, request GetApplicationV2Request) (*ApplicationV2Resource, error)
	UploadBits(ctx context.Context, request UploadApplicationBitsRequest) (*JobResource, error)
}
