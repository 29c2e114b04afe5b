package capi

import (
	"context"

	"github.com/fivetwenty-io/cfapi/pkg/loggregator"
)

// RecentLogsRequest fetches the buffered recent logs of an app.
type RecentLogsRequest struct {
	ID string
}

// Validate implements Validatable.
func (r RecentLogsRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// StreamLogsRequest opens a live tail of an app's logs.
type StreamLogsRequest struct {
	ID string
	// Options are applied to the session, e.g. loggregator.WithSkipMalformedFrames.
	Options []loggregator.Option
}

// Validate implements Validatable.
func (r StreamLogsRequest) Validate() ValidationResult {
	var result ValidationResult

	result.RequireString(r.ID, "id")

	return result
}

// LogsClient reads application logs from loggregator.
type LogsClient interface {
	// Recent returns the buffered logs sorted by timestamp.
	Recent(ctx context.Context, request RecentLogsRequest) ([]*loggregator.LogMessage, error)
	// Stream opens a tail session. The caller must Close it.
	Stream(ctx context.Context, request StreamLogsRequest) (*loggregator.Session, error)
}
