package capi

import (
	"context"
	"encoding/json"
	"io"
)

// Package types.
const (
	PackageTypeBits   = "bits"
	PackageTypeDocker = "docker"
)

// Package is a v3 package: the source an app is staged from.
type Package struct {
	Resource

	Type          string               `json:"type"               yaml:"type"`
	Data          *PackageData         `json:"data"               yaml:"data"`
	State         string               `json:"state"              yaml:"state"`
	Metadata      *Metadata            `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Relationships PackageRelationships `json:"relationships"      yaml:"relationships"`
}

// PackageData carries type specific details.
type PackageData struct {
	Checksum *Hash   `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Error    *string `json:"error,omitempty"    yaml:"error,omitempty"`
	Image    *string `json:"image,omitempty"    yaml:"image,omitempty"`
	Username *string `json:"username,omitempty" yaml:"username,omitempty"`
	Password *string `json:"password,omitempty" yaml:"password,omitempty"`
}

// PackageRelationships holds the owning app.
type PackageRelationships struct {
	App Relationship `json:"app" yaml:"app"`
}

// ListPackagesResponse is a page of packages.
type ListPackagesResponse = ListResponse[Package]

// DockerCredentials are the optional registry credentials of a docker package.
type DockerCredentials struct {
	Username string
	Password string
}

// CreatePackageRequest creates a package for an app.
type CreatePackageRequest struct {
	ApplicationID string
	// Type is "bits" or "docker".
	Type string
	// Image is required for docker packages.
	Image      string
	Credential *DockerCredentials
	Metadata   *Metadata
}

// Validate implements Validatable.
func (r CreatePackageRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ApplicationID, "application id")
	result.RequireString(r.Type, "type")

	switch r.Type {
	case "", PackageTypeBits:
	case PackageTypeDocker:
		result.RequireString(r.Image, "image")
	default:
		result.Invalidf("type %q is not supported", r.Type)
	}

	return result
}

// MarshalJSON renders the body with the app as a relationship.
func (r CreatePackageRequest) MarshalJSON() ([]byte, error) {
	var data *PackageData

	if r.Type == PackageTypeDocker {
		data = &PackageData{Image: &r.Image}
		if r.Credential != nil {
			data.Username = &r.Credential.Username
			data.Password = &r.Credential.Password
		}
	}

	return json.Marshal(struct {
		Type          string               `json:"type"`
		Relationships PackageRelationships `json:"relationships"`
		Data          *PackageData         `json:"data,omitempty"`
		Metadata      *Metadata            `json:"metadata,omitempty"`
	}{
		Type:          r.Type,
		Relationships: PackageRelationships{App: *NewRelationship(r.ApplicationID)},
		Data:          data,
		Metadata:      r.Metadata,
	})
}

// GetPackageRequest fetches one package.
type GetPackageRequest struct {
	ID string
}

// Validate implements Validatable.
func (r GetPackageRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// ListPackagesRequest lists packages.
type ListPackagesRequest struct {
	PaginatedAndSortedRequest

	IDs            []string
	ApplicationIDs []string
	States         []string
	Types          []string
}

// Validate implements Validatable.
func (r ListPackagesRequest) Validate() ValidationResult {
	return ValidatePagination(r.PaginatedAndSortedRequest)
}

// QueryParams implements QuerySource.
func (r ListPackagesRequest) QueryParams() []QueryParam {
	return append([]QueryParam{
		ListParam("guids", r.IDs),
		ListParam("app_guids", r.ApplicationIDs),
		ListParam("states", r.States),
		ListParam("types", r.Types),
	}, r.PaginatedAndSortedRequest.QueryParams()...)
}

// DeletePackageRequest deletes a package.
type DeletePackageRequest struct {
	ID string
}

// Validate implements Validatable.
func (r DeletePackageRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// UploadPackageRequest uploads a zip of bits into a bits package.
type UploadPackageRequest struct {
	ID string
	// Bits is the zip archive. It is read once.
	Bits     io.Reader
	FileName string
}

// Validate implements Validatable.
func (r UploadPackageRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")
	result.RequireNotNil(r.Bits != nil, "bits")

	return result
}

// Multipart builds the single "bits" part.
func (r UploadPackageRequest) Multipart() *MultipartBody {
	fileName := r.FileName
	if fileName == "" {
		fileName = "package.zip"
	}

	body := &MultipartBody{}
	body.File("bits", fileName, "application/zip", r.Bits)

	return body
}

// CopyPackageRequest copies a package into another app.
type CopyPackageRequest struct {
	SourcePackageID string
	ApplicationID   string
}

// Validate implements Validatable.
func (r CopyPackageRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.SourcePackageID, "source package id")
	result.RequireString(r.ApplicationID, "application id")

	return result
}

// QueryParams implements QuerySource.
func (r CopyPackageRequest) QueryParams() []QueryParam {
	return []QueryParam{{Name: "source_guid", Value: r.SourcePackageID}}
}

// MarshalJSON renders the target app relationship.
func (r CopyPackageRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Relationships PackageRelationships `json:"relationships"`
	}{
		Relationships: PackageRelationships{App: *NewRelationship(r.ApplicationID)},
	})
}

// PackagesClient operates on /v3/packages.
type PackagesClient interface {
	Create(ctx context.Context, request CreatePackageRequest) (*Package, error)
	Get(ctx context.Context, request GetPackageRequest) (*Package, error)
	List(ctx context.Context, request ListPackagesRequest) (*ListPackagesResponse, error)
	Delete(ctx context.Context, request DeletePackageRequest) error
	Upload(ctx context.Context, request UploadPackageRequest) (*Package, error)
	Copy(ctx context.Context, request CopyPackageRequest) (*Package, error)
}
