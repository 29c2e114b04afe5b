package capi

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/cfapi/internal/constants"
)

// FilterOperator is the comparison used by a v2 filter clause.
type FilterOperator string

// Filter operators understood by the v2 query language.
const (
	OpEquals             FilterOperator = ":"
	OpGreaterThan        FilterOperator = ">"
	OpLessThan           FilterOperator = "<"
	OpGreaterThanOrEqual FilterOperator = ">="
	OpLessThanOrEqual    FilterOperator = "<="
	OpIn                 FilterOperator = " IN "
)

// Filter is a (field, operator, values) clause of the v2 "q" parameter.
type Filter struct {
	Field    string
	Operator FilterOperator
	Values   []string
}

// In builds "field IN v1,v2". It is the form used for list-valued request fields.
func In(field string, values ...string) Filter {
	return Filter{Field: field, Operator: OpIn, Values: values}
}

// Eq builds "field:value".
func Eq(field, value string) Filter {
	return Filter{Field: field, Operator: OpEquals, Values: []string{value}}
}

// IsZero reports whether the filter has nothing to contribute.
func (f Filter) IsZero() bool {
	if f.Field == "" {
		return true
	}

	for _, v := range f.Values {
		if v != "" {
			return false
		}
	}

	return true
}

// String renders the clause, or "" when the filter is unset.
func (f Filter) String() string {
	if f.IsZero() {
		return ""
	}

	values := make([]string, 0, len(f.Values))
	for _, v := range f.Values {
		if v != "" {
			values = append(values, v)
		}
	}

	op := f.Operator
	if op == "" {
		op = OpIn
	}

	return f.Field + string(op) + strings.Join(values, ",")
}

// QueryParam is a single name/value query parameter.
type QueryParam struct {
	Name  string
	Value string
}

// ListParam joins values with commas, the v3 form of a list filter.
func ListParam(name string, values []string) QueryParam {
	return QueryParam{Name: name, Value: strings.Join(values, ",")}
}

// IntParam renders an optional int; nil yields an empty (omitted) parameter.
func IntParam(name string, value *int) QueryParam {
	if value == nil {
		return QueryParam{Name: name}
	}

	return QueryParam{Name: name, Value: strconv.Itoa(*value)}
}

// BoolParam renders an optional bool; nil yields an empty (omitted) parameter.
func BoolParam(name string, value *bool) QueryParam {
	if value == nil {
		return QueryParam{Name: name}
	}

	return QueryParam{Name: name, Value: strconv.FormatBool(*value)}
}

// QuerySource contributes query parameters to a URIBuilder.
type QuerySource interface {
	QueryParams() []QueryParam
}

// OrderDirection is the sort direction of a paginated listing.
type OrderDirection string

// Sort directions.
const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// PaginatedRequest carries the v2 pagination parameters. It is embedded by
// value in v2 list requests. The v2 API accepts any page number, so nothing
// is validated here.
type PaginatedRequest struct {
	Page           *int
	ResultsPerPage *int
	OrderBy        string
	OrderDirection OrderDirection
}

// QueryParams implements QuerySource.
func (p PaginatedRequest) QueryParams() []QueryParam {
	return []QueryParam{
		IntParam("page", p.Page),
		IntParam("results-per-page", p.ResultsPerPage),
		{Name: "order-by", Value: p.OrderBy},
		{Name: "order-direction", Value: string(p.OrderDirection)},
	}
}

// WithPage returns a copy of p requesting the given page.
func (p PaginatedRequest) WithPage(page int) PaginatedRequest {
	p.Page = &page

	return p
}

// OrderBy is a v3 sort field.
type OrderBy string

// Sort fields accepted by v3 listings.
const (
	OrderByCreatedAt OrderBy = "created_at"
	OrderByUpdatedAt OrderBy = "updated_at"
	OrderByName      OrderBy = "name"
)

// PaginatedAndSortedRequest carries the v3 pagination and sorting parameters.
type PaginatedAndSortedRequest struct {
	Page           *int
	PerPage        *int
	OrderBy        OrderBy
	OrderDirection OrderDirection
}

// QueryParams implements QuerySource.
func (p PaginatedAndSortedRequest) QueryParams() []QueryParam {
	return []QueryParam{
		IntParam("page", p.Page),
		IntParam("per_page", p.PerPage),
		{Name: "order_by", Value: string(p.OrderBy)},
		{Name: "order_direction", Value: string(p.OrderDirection)},
	}
}

// WithPage returns a copy of p requesting the given page.
func (p PaginatedAndSortedRequest) WithPage(page int) PaginatedAndSortedRequest {
	p.Page = &page

	return p
}

// ValidatePagination checks the v3 page bounds.
func ValidatePagination(p PaginatedAndSortedRequest) ValidationResult {
	var result ValidationResult

	if p.Page != nil && *p.Page < constants.MinPage {
		result.Invalid("page must be greater than or equal to 1")
	}

	if p.PerPage != nil && (*p.PerPage < 1 || *p.PerPage > constants.MaxPerPage) {
		result.Invalidf("per page must be between 1 and %d", constants.MaxPerPage)
	}

	switch p.OrderDirection {
	case "", OrderAsc, OrderDesc:
	default:
		result.Invalidf("order direction %q is not supported", p.OrderDirection)
	}

	return result
}

// URIBuilder composes a request path and query. Output is deterministic:
// the "q" filter parameter comes first, then every other parameter in the
// order it was added. Unset values never appear.
type URIBuilder struct {
	segments []string
	filters  []Filter
	params   []QueryParam
}

// NewURIBuilder returns an empty builder.
func NewURIBuilder() *URIBuilder {
	return &URIBuilder{}
}

// PathSegment appends path segments in order. An empty trailing segment
// produces a trailing slash.
func (b *URIBuilder) PathSegment(segments ...string) *URIBuilder {
	b.segments = append(b.segments, segments...)

	return b
}

// Filter adds v2 filter clauses; unset filters are dropped.
func (b *URIBuilder) Filter(filters ...Filter) *URIBuilder {
	for _, f := range filters {
		if !f.IsZero() {
			b.filters = append(b.filters, f)
		}
	}

	return b
}

// Param adds a single parameter unless value is empty.
func (b *URIBuilder) Param(name, value string) *URIBuilder {
	if value != "" {
		b.params = append(b.params, QueryParam{Name: name, Value: value})
	}

	return b
}

// Params adds parameters, skipping empty ones.
func (b *URIBuilder) Params(params ...QueryParam) *URIBuilder {
	for _, p := range params {
		b.Param(p.Name, p.Value)
	}

	return b
}

// Query adds the parameters contributed by each source.
func (b *URIBuilder) Query(sources ...QuerySource) *URIBuilder {
	for _, s := range sources {
		b.Params(s.QueryParams()...)
	}

	return b
}

// Path returns the escaped path, always starting with "/".
func (b *URIBuilder) Path() string {
	escaped := make([]string, len(b.segments))
	for i, s := range b.segments {
		escaped[i] = url.PathEscape(s)
	}

	return "/" + strings.Join(escaped, "/")
}

// RawQuery returns the encoded query without the leading "?".
func (b *URIBuilder) RawQuery() string {
	parts := make([]string, 0, len(b.params)+1)

	if len(b.filters) > 0 {
		clauses := make([]string, len(b.filters))
		for i, f := range b.filters {
			clauses[i] = f.String()
		}

		parts = append(parts, "q="+escapeQuery(strings.Join(clauses, ";")))
	}

	for _, p := range b.params {
		parts = append(parts, escapeQuery(p.Name)+"="+escapeQuery(p.Value))
	}

	return strings.Join(parts, "&")
}

// RequestURI returns the path followed by the query, if any.
func (b *URIBuilder) RequestURI() string {
	query := b.RawQuery()
	if query == "" {
		return b.Path()
	}

	return b.Path() + "?" + query
}

// Build resolves the builder against base, keeping any path prefix of base.
func (b *URIBuilder) Build(base string) string {
	return strings.TrimSuffix(base, "/") + b.RequestURI()
}

// queryUnescaper restores characters the v2 query language uses as
// separators, and renders spaces as %20 rather than "+".
var queryUnescaper = strings.NewReplacer("+", "%20", "%2C", ",", "%3A", ":", "%3B", ";")

func escapeQuery(s string) string {
	return queryUnescaper.Replace(url.QueryEscape(s))
}
