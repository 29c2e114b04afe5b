package loggregator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fivetwenty-io/cfapi/internal/constants"
)

// State is the lifecycle state of a tail session.
type State int32

// Session states. A session moves CLOSED -> CONNECTING -> OPEN -> CLOSED and
// never reopens.
const (
	StateClosed State = iota
	StateConnecting
	StateOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateConnecting:
		return "CONNECTING"
	case StateOpen:
		return "OPEN"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// ErrSessionClosed is returned by Next once Close has been called.
var ErrSessionClosed = errors.New("log session closed")

// HandshakeError is returned by Open when the server answered the upgrade
// request with an HTTP response instead of switching protocols.
type HandshakeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

// Error implements the error interface.
func (e *HandshakeError) Error() string {
	return fmt.Sprintf("websocket handshake failed with status %d: %v", e.StatusCode, e.Err)
}

// Unwrap returns the dialer error.
func (e *HandshakeError) Unwrap() error {
	return e.Err
}

// Conn is the subset of *websocket.Conn used by a session.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Dialer opens a WebSocket connection.
type Dialer interface {
	Dial(ctx context.Context, url string, header http.Header) (Conn, *http.Response, error)
}

// WebSocketDialer adapts a gorilla websocket.Dialer. A nil Dialer uses the
// proxy from the environment and the default handshake timeout.
type WebSocketDialer struct {
	Dialer *websocket.Dialer
}

// Dial implements Dialer.
func (d WebSocketDialer) Dial(ctx context.Context, url string, header http.Header) (Conn, *http.Response, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: constants.HandshakeTimeout,
		}
	}

	conn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, resp, err
	}

	return conn, resp, nil
}

// Logger receives session diagnostics. capi.Logger satisfies it.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

type options struct {
	skipMalformed bool
	bufferSize    int
	closeTimeout  time.Duration
	logger        Logger
	onState       func(State)
	onRelease     func(err error)
}

// Option configures a session.
type Option func(*options)

// WithSkipMalformedFrames logs and drops frames that fail to decode instead
// of ending the stream with a *FrameError.
func WithSkipMalformedFrames() Option {
	return func(o *options) {
		o.skipMalformed = true
	}
}

// WithBufferSize sets how many decoded messages may wait for the consumer.
// When the buffer is full the reader stops reading from the socket.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithCloseTimeout bounds the close handshake.
func WithCloseTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.closeTimeout = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStateHook registers a function called on every state transition.
// Hooks accumulate and run in registration order.
func WithStateHook(fn func(State)) Option {
	return func(o *options) {
		if fn == nil {
			return
		}

		prev := o.onState
		if prev == nil {
			o.onState = fn

			return
		}

		o.onState = func(state State) {
			prev(state)
			fn(state)
		}
	}
}

// WithReleaseHook registers a function called once the socket has been
// closed. err is nil when the session was closed by the caller. Hooks
// accumulate and run in registration order.
func WithReleaseHook(fn func(err error)) Option {
	return func(o *options) {
		if fn == nil {
			return
		}

		prev := o.onRelease
		if prev == nil {
			o.onRelease = fn

			return
		}

		o.onRelease = func(err error) {
			prev(err)
			fn(err)
		}
	}
}

type frame struct {
	msg *LogMessage
}

// Session is a live tail of application logs. A single goroutine should
// consume it with Next or Messages; Close may be called from anywhere.
type Session struct {
	opts   options
	conn   Conn
	state  atomic.Int32
	closed atomic.Bool
	frames chan frame
	done   chan struct{}

	closeOnce   sync.Once
	releaseOnce sync.Once

	mu        sync.Mutex
	err       error
	stopWatch func() bool
}

// Open dials url and starts reading frames. Cancelling ctx closes the session.
func Open(ctx context.Context, dialer Dialer, url string, header http.Header, opts ...Option) (*Session, error) {
	o := options{
		bufferSize:   constants.BufferSize,
		closeTimeout: constants.CloseTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if dialer == nil {
		dialer = WebSocketDialer{}
	}

	s := &Session{
		opts:   o,
		frames: make(chan frame, o.bufferSize),
		done:   make(chan struct{}),
	}

	s.setState(StateConnecting)

	conn, resp, err := dialer.Dial(ctx, url, header)
	if err != nil {
		s.setState(StateClosed)

		if resp != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, constants.MaxErrorBodySize))
			_ = resp.Body.Close()

			return nil, &HandshakeError{StatusCode: resp.StatusCode, Body: body, Err: err}
		}

		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}

	s.conn = conn
	s.setState(StateOpen)
	s.logDebug("Log session opened", map[string]interface{}{"url": url})

	s.mu.Lock()
	s.stopWatch = context.AfterFunc(ctx, func() {
		_ = s.Close()
	})
	s.mu.Unlock()

	go s.read()

	return s, nil
}

// State returns the current state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Next blocks until a message is available. It returns io.EOF when the
// server closed the stream normally, ErrSessionClosed after Close, and the
// terminal error when the transport failed or a frame was malformed.
// Messages buffered before Close are never delivered after it.
func (s *Session) Next(ctx context.Context) (*LogMessage, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrSessionClosed
	case f, ok := <-s.frames:
		if s.closed.Load() {
			return nil, ErrSessionClosed
		}

		if !ok {
			return nil, s.terminalErr()
		}

		return f.msg, nil
	}
}

// Messages ranges over the session. The sequence ends quietly on a normal
// close; any other failure is yielded once. Stopping early closes the session.
func (s *Session) Messages(ctx context.Context) iter.Seq2[*LogMessage, error] {
	return func(yield func(*LogMessage, error) bool) {
		for {
			msg, err := s.Next(ctx)
			if errors.Is(err, io.EOF) || errors.Is(err, ErrSessionClosed) {
				return
			}

			if err != nil {
				yield(nil, err)

				return
			}

			if !yield(msg, nil) {
				_ = s.Close()

				return
			}
		}
	}
}

// Close stops delivery immediately, then sends a close frame and closes the
// socket. It is safe to call more than once and from several goroutines; the
// socket is closed exactly once.
func (s *Session) Close() error {
	var err error

	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)

		err = s.release(nil, true)
	})

	return err
}

func (s *Session) read() {
	defer close(s.frames)

	for index := 0; ; index++ {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				err = io.EOF
			}

			s.fail(err, false)

			return
		}

		msg, err := Unmarshal(data)
		if err != nil {
			frameErr := &FrameError{Index: index, Err: err}

			if s.opts.skipMalformed {
				s.logWarn("Skipping malformed log frame", map[string]interface{}{"frame": index, "error": err.Error()})

				continue
			}

			s.fail(frameErr, true)

			return
		}

		select {
		case s.frames <- frame{msg: msg}:
		case <-s.done:
			return
		}
	}
}

func (s *Session) fail(err error, sendClose bool) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()

	_ = s.release(err, sendClose)
}

func (s *Session) terminalErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err == nil {
		return io.EOF
	}

	return s.err
}

// release closes the socket once. cause is nil for a caller initiated close.
// sendClose is false when the peer already ended the connection.
func (s *Session) release(cause error, sendClose bool) error {
	var err error

	s.releaseOnce.Do(func() {
		s.mu.Lock()
		stop := s.stopWatch
		s.mu.Unlock()

		if stop != nil {
			stop()
		}

		if sendClose {
			deadline := time.Now().Add(s.opts.closeTimeout)
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")

			if werr := s.conn.WriteControl(websocket.CloseMessage, msg, deadline); werr != nil {
				s.logDebug("Sending close frame failed", map[string]interface{}{"error": werr.Error()})
			}
		}

		err = s.conn.Close()
		s.setState(StateClosed)

		if cause == nil || errors.Is(cause, io.EOF) {
			s.logDebug("Log session closed", nil)
		} else {
			s.logWarn("Log session failed", map[string]interface{}{"error": cause.Error()})
		}

		if s.opts.onRelease != nil {
			if errors.Is(cause, io.EOF) {
				cause = nil
			}

			s.opts.onRelease(cause)
		}
	})

	return err
}

func (s *Session) setState(state State) {
	s.state.Store(int32(state))

	if s.opts.onState != nil {
		s.opts.onState(state)
	}
}

func (s *Session) logDebug(msg string, fields map[string]interface{}) {
	if s.opts.logger != nil {
		s.opts.logger.Debug(msg, fields)
	}
}

func (s *Session) logWarn(msg string, fields map[string]interface{}) {
	if s.opts.logger != nil {
		s.opts.logger.Warn(msg, fields)
	}
}
