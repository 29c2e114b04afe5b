package capi

import (
	"fmt"
	"strings"
)

// ValidationStatus is the overall outcome of validating a request.
type ValidationStatus int

const (
	// Valid means no defects were found.
	Valid ValidationStatus = iota
	// Invalid means at least one defect was found.
	Invalid
)

// String returns the lowercase name of the status.
func (s ValidationStatus) String() string {
	if s == Valid {
		return "valid"
	}

	return "invalid"
}

// ValidationResult accumulates human readable defects found in a request.
// The zero value is a valid result. The status is derived from the messages,
// so a result with messages is always invalid and vice versa.
type ValidationResult struct {
	messages []string
}

// Invalid records a defect.
func (r *ValidationResult) Invalid(message string) {
	r.messages = append(r.messages, message)
}

// Invalidf records a formatted defect.
func (r *ValidationResult) Invalidf(format string, args ...interface{}) {
	r.Invalid(fmt.Sprintf(format, args...))
}

// RequireString records "<name> must be specified" when value is empty.
func (r *ValidationResult) RequireString(value, name string) {
	if value == "" {
		r.Invalid(name + " must be specified")
	}
}

// RequireInt records "<name> must be specified" when value is nil.
func (r *ValidationResult) RequireInt(value *int, name string) {
	if value == nil {
		r.Invalid(name + " must be specified")
	}
}

// RequireNotNil records "<name> must be specified" when present is false.
func (r *ValidationResult) RequireNotNil(present bool, name string) {
	if !present {
		r.Invalid(name + " must be specified")
	}
}

// Merge appends the defects of other, keeping their order.
func (r *ValidationResult) Merge(other ValidationResult) {
	r.messages = append(r.messages, other.messages...)
}

// Status reports whether the result is valid.
func (r ValidationResult) Status() ValidationStatus {
	if len(r.messages) == 0 {
		return Valid
	}

	return Invalid
}

// IsValid is shorthand for Status() == Valid.
func (r ValidationResult) IsValid() bool {
	return r.Status() == Valid
}

// Messages returns a copy of the recorded defects in the order they were found.
func (r ValidationResult) Messages() []string {
	if len(r.messages) == 0 {
		return nil
	}

	out := make([]string, len(r.messages))
	copy(out, r.messages)

	return out
}

// String joins the messages for display.
func (r ValidationResult) String() string {
	if r.IsValid() {
		return r.Status().String()
	}

	return fmt.Sprintf("%s: %s", r.Status(), strings.Join(r.messages, ", "))
}

// Validatable is implemented by every request type.
type Validatable interface {
	Validate() ValidationResult
}

// RequestValidationError is returned when a request fails validation.
// No network call is made for such a request.
type RequestValidationError struct {
	Result ValidationResult
}

// Error implements the error interface.
func (e *RequestValidationError) Error() string {
	return "request is invalid: " + strings.Join(e.Result.messages, ", ")
}

// Messages returns the defects carried by the error.
func (e *RequestValidationError) Messages() []string {
	return e.Result.Messages()
}

// Validate runs the request's own validation and converts an invalid result
// into a *RequestValidationError.
func Validate(request Validatable) error {
	if request == nil {
		return &RequestValidationError{Result: ValidationResult{messages: []string{"request must be specified"}}}
	}

	result := request.Validate()
	if result.IsValid() {
		return nil
	}

	return &RequestValidationError{Result: result}
}
