package capi

import (
	"time"
)

// Resource represents the base structure for all v3 resources.
type Resource struct {
	GUID      string    `json:"guid"       yaml:"guid"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	Links     Links     `json:"links"      yaml:"links"`
}

// Links maps a relation name such as "self", "space" or "scale" to a link.
type Links map[string]Link

// Link represents a single hypermedia link.
type Link struct {
	Href   string `json:"href"             yaml:"href"`
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
}

// Metadata represents labels and annotations.
type Metadata struct {
	Labels      map[string]string `json:"labels,omitempty"      yaml:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// Relationship represents a to-one relationship.
type Relationship struct {
	Data *RelationshipData `json:"data,omitempty" yaml:"data,omitempty"`
}

// RelationshipData contains the GUID of the related resource.
type RelationshipData struct {
	GUID string `json:"guid" yaml:"guid"`
}

// NewRelationship returns a to-one relationship pointing at guid.
func NewRelationship(guid string) *Relationship {
	return &Relationship{Data: &RelationshipData{GUID: guid}}
}

// Hash is a checksum reported for packages and droplets.
type Hash struct {
	Type  string `json:"type"  yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// Pagination represents v3 pagination information.
type Pagination struct {
	TotalResults int   `json:"total_results"      yaml:"total_results"`
	TotalPages   int   `json:"total_pages"        yaml:"total_pages"`
	First        Link  `json:"first"              yaml:"first"`
	Last         Link  `json:"last"               yaml:"last"`
	Next         *Link `json:"next,omitempty"     yaml:"next,omitempty"`
	Previous     *Link `json:"previous,omitempty" yaml:"previous,omitempty"`
}

// ListResponse is the v3 paginated envelope.
type ListResponse[T any] struct {
	Pagination Pagination `json:"pagination" yaml:"pagination"`
	Resources  []T        `json:"resources"  yaml:"resources"`
}

// NextPageURL implements Envelope.
func (r *ListResponse[T]) NextPageURL() string {
	if r == nil || r.Pagination.Next == nil {
		return ""
	}

	return r.Pagination.Next.Href
}

// ResourceMetadata is the metadata block of a v2 resource.
type ResourceMetadata struct {
	ID        string  `json:"guid"                 yaml:"guid"`
	URL       string  `json:"url"                  yaml:"url"`
	CreatedAt *string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// V2Resource is a v2 resource: a metadata block and an entity.
type V2Resource[E any] struct {
	Metadata ResourceMetadata `json:"metadata" yaml:"metadata"`
	Entity   E                `json:"entity"   yaml:"entity"`
}

// PaginatedResponse is the v2 paginated envelope.
type PaginatedResponse[R any] struct {
	TotalResults int     `json:"total_results"      yaml:"total_results"`
	TotalPages   int     `json:"total_pages"        yaml:"total_pages"`
	PrevURL      *string `json:"prev_url,omitempty" yaml:"prev_url,omitempty"`
	NextURL      *string `json:"next_url,omitempty" yaml:"next_url,omitempty"`
	Resources    []R     `json:"resources"          yaml:"resources"`
}

// NextPageURL implements Envelope.
func (r *PaginatedResponse[R]) NextPageURL() string {
	if r == nil || r.NextURL == nil {
		return ""
	}

	return *r.NextURL
}

// Ptr returns a pointer to v. It is handy for optional request fields.
func Ptr[T any](v T) *T {
	return &v
}
