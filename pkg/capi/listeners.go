package capi

import (
	"fmt"
	"sync"
	"time"
)

// RequestEvent describes one completed exchange with the platform.
type RequestEvent struct {
	ID         string        `json:"id"`
	Method     string        `json:"method"`
	URI        string        `json:"uri"`
	Path       string        `json:"path"`
	StatusCode int           `json:"status_code"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// Failed reports whether the exchange ended with a transport error or a
// non-2xx status.
func (e RequestEvent) Failed() bool {
	return e.Err != nil || e.StatusCode < 200 || e.StatusCode >= 300
}

// Listener observes request events. Listeners run synchronously on the
// dispatching goroutine and must not block for long.
type Listener interface {
	OnRequest(event RequestEvent)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(event RequestEvent)

// OnRequest implements Listener.
func (f ListenerFunc) OnRequest(event RequestEvent) {
	f(event)
}

type listenerEntry struct {
	id       uint64
	listener Listener
}

// ListenerRegistry holds the listeners notified after every exchange. It is
// safe for concurrent Register, unregister and Notify calls.
type ListenerRegistry struct {
	mu      sync.RWMutex
	nextID  uint64
	entries []listenerEntry
	onPanic func(recovered interface{})
}

// NewListenerRegistry creates an empty registry.
func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{}
}

// Register adds a listener and returns a function that removes it. Calling
// the returned function more than once is harmless.
func (r *ListenerRegistry) Register(listener Listener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID

	entries := make([]listenerEntry, len(r.entries), len(r.entries)+1)
	copy(entries, r.entries)
	r.entries = append(entries, listenerEntry{id: id, listener: listener})

	return func() { r.unregister(id) }
}

func (r *ListenerRegistry) unregister(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]listenerEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.id != id {
			entries = append(entries, e)
		}
	}

	r.entries = entries
}

// Len returns the number of registered listeners.
func (r *ListenerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// OnPanic sets a hook invoked when a listener panics.
func (r *ListenerRegistry) OnPanic(fn func(recovered interface{})) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onPanic = fn
}

// Notify delivers event to every listener in registration order. A panicking
// listener is recovered and does not affect the others or the caller.
func (r *ListenerRegistry) Notify(event RequestEvent) {
	if r == nil {
		return
	}

	r.mu.RLock()
	entries := r.entries
	onPanic := r.onPanic
	r.mu.RUnlock()

	for _, e := range entries {
		notifyOne(e.listener, event, onPanic)
	}
}

func notifyOne(listener Listener, event RequestEvent, onPanic func(interface{})) {
	defer func() {
		if recovered := recover(); recovered != nil && onPanic != nil {
			onPanic(recovered)
		}
	}()

	listener.OnRequest(event)
}

// LoggingListener logs every exchange at debug level, and failures at error level.
func LoggingListener(logger Logger) Listener {
	return ListenerFunc(func(event RequestEvent) {
		fields := map[string]interface{}{
			"id":          event.ID,
			"method":      event.Method,
			"uri":         event.URI,
			"status_code": event.StatusCode,
			"duration":    event.Duration.String(),
		}

		if event.Failed() {
			if event.Err != nil {
				fields["error"] = event.Err.Error()
			}

			logger.Error("API Response Error", fields)

			return
		}

		logger.Debug("API Response", fields)
	})
}

// Metrics holds counters for one endpoint.
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector aggregates request events per "METHOD path".
type MetricsCollector struct {
	mu       sync.Mutex
	metrics  map[string]*Metrics
	onChange func(endpoint string, metrics Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange sets a callback for when metrics change.
func (m *MetricsCollector) SetOnChange(fn func(endpoint string, metrics Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onChange = fn
}

// GetMetrics returns a snapshot of the metrics for an endpoint, or nil.
func (m *MetricsCollector) GetMetrics(endpoint string) *Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	if metrics, ok := m.metrics[endpoint]; ok {
		snapshot := *metrics

		return &snapshot
	}

	return nil
}

// OnRequest implements Listener.
func (m *MetricsCollector) OnRequest(event RequestEvent) {
	endpoint := fmt.Sprintf("%s %s", event.Method, event.Path)

	m.mu.Lock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		metrics = &Metrics{}
		m.metrics[endpoint] = metrics
	}

	metrics.TotalRequests++
	metrics.LastRequestTime = event.StartedAt.Add(event.Duration)
	metrics.TotalLatency += event.Duration
	metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)

	if event.Failed() {
		metrics.TotalErrors++
	}

	snapshot := *metrics
	onChange := m.onChange
	m.mu.Unlock()

	if onChange != nil {
		onChange(endpoint, snapshot)
	}
}
