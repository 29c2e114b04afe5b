// Package loggregator decodes Cloud Foundry application logs: the protobuf
// log message, the multipart "recent" batch and the WebSocket tail.
package loggregator

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// MessageType tells which stream of the app a line was written to.
type MessageType int32

// Message types.
const (
	MessageTypeOut MessageType = 1
	MessageTypeErr MessageType = 2
)

// String returns "OUT" or "ERR".
func (t MessageType) String() string {
	switch t {
	case MessageTypeOut:
		return "OUT"
	case MessageTypeErr:
		return "ERR"
	default:
		return fmt.Sprintf("MessageType(%d)", int32(t))
	}
}

// ErrMalformedMessage is returned when a frame is not a valid log message.
var ErrMalformedMessage = errors.New("malformed log message")

// Field numbers of the loggregator v1 LogMessage.
const (
	fieldMessage     protowire.Number = 1
	fieldMessageType protowire.Number = 2
	fieldTimestamp   protowire.Number = 3
	fieldAppID       protowire.Number = 4
	fieldSourceID    protowire.Number = 6
	fieldDrainURLs   protowire.Number = 7
	fieldSourceName  protowire.Number = 8
)

// LogMessage is one line of application output. SourceID is the instance
// index of the emitting process.
type LogMessage struct {
	Message       []byte      `json:"message"               yaml:"message"`
	MessageType   MessageType `json:"message_type"          yaml:"message_type"`
	Timestamp     time.Time   `json:"timestamp"             yaml:"timestamp"`
	ApplicationID string      `json:"app_id"                yaml:"app_id"`
	SourceID      string      `json:"source_id,omitempty"   yaml:"source_id,omitempty"`
	SourceName    string      `json:"source_name,omitempty" yaml:"source_name,omitempty"`
	DrainURLs     []string    `json:"drain_urls,omitempty"  yaml:"drain_urls,omitempty"`
}

// Unmarshal decodes a protobuf encoded log message. Unknown fields are
// skipped. The message, type, timestamp and app id are required.
func Unmarshal(b []byte) (*LogMessage, error) {
	msg := &LogMessage{}

	var seen [fieldSourceName + 1]bool

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case fieldMessage, fieldAppID, fieldSourceID, fieldDrainURLs, fieldSourceName:
			if typ != protowire.BytesType {
				return nil, fmt.Errorf("%w: field %d has wire type %d", ErrMalformedMessage, num, typ)
			}

			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: field %d: %w", ErrMalformedMessage, num, protowire.ParseError(m))
			}

			b = b[m:]

			switch num {
			case fieldMessage:
				msg.Message = append([]byte(nil), v...)
			case fieldAppID:
				msg.ApplicationID = string(v)
			case fieldSourceID:
				msg.SourceID = string(v)
			case fieldDrainURLs:
				msg.DrainURLs = append(msg.DrainURLs, string(v))
			case fieldSourceName:
				msg.SourceName = string(v)
			}
		case fieldMessageType, fieldTimestamp:
			if typ != protowire.VarintType {
				return nil, fmt.Errorf("%w: field %d has wire type %d", ErrMalformedMessage, num, typ)
			}

			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: field %d: %w", ErrMalformedMessage, num, protowire.ParseError(m))
			}

			b = b[m:]

			if num == fieldMessageType {
				msg.MessageType = MessageType(int32(v))
			} else {
				msg.Timestamp = time.Unix(0, protowire.DecodeZigZag(v)).UTC()
			}
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return nil, fmt.Errorf("%w: field %d: %w", ErrMalformedMessage, num, protowire.ParseError(m))
			}

			b = b[m:]

			continue
		}

		seen[num] = true
	}

	for _, num := range []protowire.Number{fieldMessage, fieldMessageType, fieldTimestamp, fieldAppID} {
		if !seen[num] {
			return nil, fmt.Errorf("%w: missing field %d", ErrMalformedMessage, num)
		}
	}

	return msg, nil
}

// Marshal encodes m in the loggregator v1 wire format.
func Marshal(m *LogMessage) []byte {
	var b []byte

	b = protowire.AppendTag(b, fieldMessage, protowire.BytesType)
	b = protowire.AppendBytes(b, m.Message)
	b = protowire.AppendTag(b, fieldMessageType, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.MessageType))
	b = protowire.AppendTag(b, fieldTimestamp, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(m.Timestamp.UnixNano()))
	b = protowire.AppendTag(b, fieldAppID, protowire.BytesType)
	b = protowire.AppendString(b, m.ApplicationID)

	if m.SourceID != "" {
		b = protowire.AppendTag(b, fieldSourceID, protowire.BytesType)
		b = protowire.AppendString(b, m.SourceID)
	}

	for _, u := range m.DrainURLs {
		b = protowire.AppendTag(b, fieldDrainURLs, protowire.BytesType)
		b = protowire.AppendString(b, u)
	}

	if m.SourceName != "" {
		b = protowire.AppendTag(b, fieldSourceName, protowire.BytesType)
		b = protowire.AppendString(b, m.SourceName)
	}

	return b
}

// String renders the message the way "cf logs" prints a line.
func (m *LogMessage) String() string {
	return fmt.Sprintf("%s [%s/%s] %s %s",
		m.Timestamp.Format(time.RFC3339Nano), m.SourceName, m.SourceID, m.MessageType, m.Message)
}
