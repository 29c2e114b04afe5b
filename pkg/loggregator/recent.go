package loggregator

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"sort"
	"strings"

	"github.com/fivetwenty-io/cfapi/internal/constants"
)

// MediaTypeRecent is the content type of the recent logs batch.
const MediaTypeRecent = constants.MediaTypeProtobufMultipart

// Errors returned while parsing a recent logs batch.
var (
	ErrUnexpectedContentType = errors.New("unexpected content type for recent logs")
	ErrMissingBoundary       = errors.New("multipart boundary missing from content type")
)

// FrameError reports a frame that could not be decoded. Index counts frames
// from zero in the order they were received.
type FrameError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Index, e.Err)
}

// Unwrap returns the decode failure.
func (e *FrameError) Unwrap() error {
	return e.Err
}

// ParseRecent decodes a multipart/x-protobuf batch. Each part holds one
// encoded LogMessage. Messages are returned sorted by timestamp; messages
// with equal timestamps keep the order they were received in.
func ParseRecent(contentType string, body io.Reader) ([]*LogMessage, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("parsing content type %q: %w", contentType, err)
	}

	if !strings.EqualFold(mediaType, MediaTypeRecent) {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedContentType, mediaType)
	}

	boundary := params["boundary"]
	if boundary == "" {
		return nil, ErrMissingBoundary
	}

	reader := multipart.NewReader(body, boundary)

	var messages []*LogMessage

	for index := 0; ; index++ {
		part, err := reader.NextRawPart()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading recent logs: %w", err)
		}

		payload, err := io.ReadAll(part)
		_ = part.Close()

		if err != nil {
			return nil, fmt.Errorf("reading recent logs: %w", err)
		}

		msg, err := Unmarshal(payload)
		if err != nil {
			return nil, &FrameError{Index: index, Err: err}
		}

		messages = append(messages, msg)
	}

	SortByTimestamp(messages)

	return messages, nil
}

// SortByTimestamp orders messages oldest first, keeping the relative order
// of messages with equal timestamps.
func SortByTimestamp(messages []*LogMessage) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
}
