package capi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// SecurityGroupRule is one egress rule of a security group.
type SecurityGroupRule struct {
	Protocol    string `json:"protocol"              yaml:"protocol"`
	Destination string `json:"destination"           yaml:"destination"`
	Ports       string `json:"ports,omitempty"       yaml:"ports,omitempty"`
	Type        *int   `json:"type,omitempty"        yaml:"type,omitempty"`
	Code        *int   `json:"code,omitempty"        yaml:"code,omitempty"`
	Log         *bool  `json:"log,omitempty"         yaml:"log,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks the fields every rule needs.
func (r SecurityGroupRule) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.Protocol, "protocol")
	result.RequireString(r.Destination, "destination")

	return result
}

// ParseSecurityGroupRules reads a JSON array of rules, the format accepted
// by "cf create-security-group".
func ParseSecurityGroupRules(r io.Reader) ([]SecurityGroupRule, error) {
	var rules []SecurityGroupRule

	err := json.NewDecoder(r).Decode(&rules)
	if err != nil {
		return nil, fmt.Errorf("parsing security group rules: %w", err)
	}

	var result ValidationResult

	for i, rule := range rules {
		for _, msg := range rule.Validate().Messages() {
			result.Invalidf("rule %d: %s", i, msg)
		}
	}

	if !result.IsValid() {
		return nil, &RequestValidationError{Result: result}
	}

	return rules, nil
}

// SecurityGroupEntity is the entity of a v2 security group resource.
type SecurityGroupEntity struct {
	Name           string              `json:"name"                 yaml:"name"`
	Rules          []SecurityGroupRule `json:"rules"                yaml:"rules"`
	RunningDefault bool                `json:"running_default"      yaml:"running_default"`
	StagingDefault bool                `json:"staging_default"      yaml:"staging_default"`
	SpacesURL      string              `json:"spaces_url,omitempty" yaml:"spaces_url,omitempty"`
}

// SecurityGroupResource is a v2 security group.
type SecurityGroupResource = V2Resource[SecurityGroupEntity]

// ListSecurityGroupsResponse is a page of security groups.
type ListSecurityGroupsResponse = PaginatedResponse[SecurityGroupResource]

// ListSecurityGroupsRequest lists security groups.
type ListSecurityGroupsRequest struct {
	PaginatedRequest

	Names []string
}

// Validate implements Validatable.
func (r ListSecurityGroupsRequest) Validate() ValidationResult {
	return ValidationResult{}
}

// Filters returns the q clauses of the request.
func (r ListSecurityGroupsRequest) Filters() []Filter {
	return []Filter{In("name", r.Names...)}
}

// GetSecurityGroupRequest fetches one security group.
type GetSecurityGroupRequest struct {
	ID string
}

// Validate implements Validatable.
func (r GetSecurityGroupRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// CreateSecurityGroupRequest creates a security group. Rules are usually
// loaded from a JSON file; see ParseSecurityGroupRules.
type CreateSecurityGroupRequest struct {
	Name     string              `json:"name"`
	Rules    []SecurityGroupRule `json:"rules,omitempty"`
	SpaceIDs []string            `json:"space_guids,omitempty"`
}

// Validate implements Validatable.
func (r CreateSecurityGroupRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.Name, "name")

	for i, rule := range r.Rules {
		for _, msg := range rule.Validate().Messages() {
			result.Invalidf("rule %d: %s", i, msg)
		}
	}

	return result
}

// DeleteSecurityGroupRequest deletes a security group.
type DeleteSecurityGroupRequest struct {
	ID string
}

// Validate implements Validatable.
func (r DeleteSecurityGroupRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// SecurityGroupsClient operates on /v2/security_groups.
type SecurityGroupsClient interface {
	List(ctx context.Context, request ListSecurityGroupsRequest) (*ListSecurityGroupsResponse, error)
	Get(ctx context.Context, request GetSecurityGroupRequest) (*SecurityGroupResource, error)
	Create(ctx context.Context, request CreateSecurityGroupRequest) (*SecurityGroupResource, error)
	Delete(ctx context.Context, request DeleteSecurityGroupRequest) error
}
