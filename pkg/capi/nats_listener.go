package capi

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// DefaultEventSubject is the NATS subject request events are published on.
const DefaultEventSubject = "cfapi.requests"

// NATSPublisher is the part of *nats.Conn used by NATSListener.
type NATSPublisher interface {
	Publish(subject string, data []byte) error
}

// NATSListener publishes every request event as JSON on a NATS subject so
// that several processes can observe a shared client fleet.
type NATSListener struct {
	publisher NATSPublisher
	subject   string
	logger    Logger
	conn      *nats.Conn
}

type natsEvent struct {
	RequestEvent

	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// NewNATSListener wraps an existing publisher.
func NewNATSListener(publisher NATSPublisher, subject string, logger Logger) *NATSListener {
	if subject == "" {
		subject = DefaultEventSubject
	}

	return &NATSListener{
		publisher: publisher,
		subject:   subject,
		logger:    logger,
	}
}

// ConnectNATSListener dials url and returns a listener owning the connection.
func ConnectNATSListener(url, subject string, logger Logger, opts ...nats.Option) (*NATSListener, error) {
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	listener := NewNATSListener(conn, subject, logger)
	listener.conn = conn

	return listener, nil
}

// OnRequest implements Listener. Publish failures are logged, never returned.
func (l *NATSListener) OnRequest(event RequestEvent) {
	payload := natsEvent{
		RequestEvent: event,
		DurationMS:   event.Duration.Milliseconds(),
	}

	if event.Err != nil {
		payload.Error = event.Err.Error()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		l.warn("encoding request event", err)

		return
	}

	err = l.publisher.Publish(l.subject, data)
	if err != nil {
		l.warn("publishing request event", err)
	}
}

// Close drains the connection when the listener owns one.
func (l *NATSListener) Close() error {
	if l.conn == nil {
		return nil
	}

	err := l.conn.Drain()
	if err != nil {
		return fmt.Errorf("draining NATS connection: %w", err)
	}

	return nil
}

func (l *NATSListener) warn(msg string, err error) {
	if l.logger == nil {
		return
	}

	l.logger.Warn(msg, map[string]interface{}{
		"subject": l.subject,
		"error":   err.Error(),
	})
}
