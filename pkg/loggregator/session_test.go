package loggregator_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/cfapi/pkg/loggregator"
)

type fakeConn struct {
	frames chan []byte
	repeat []byte
	closed chan struct{}
	once   sync.Once

	reads  atomic.Int32
	writes atomic.Int32
	closes atomic.Int32
}

func newFakeConn(frames ...[]byte) *fakeConn {
	ch := make(chan []byte, len(frames))
	for _, f := range frames {
		ch <- f
	}

	return &fakeConn{frames: ch, closed: make(chan struct{})}
}

func (c *fakeConn) finish() {
	close(c.frames)
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	if c.repeat != nil {
		select {
		case <-c.closed:
			return 0, nil, net.ErrClosed
		default:
			c.reads.Add(1)

			return websocket.BinaryMessage, c.repeat, nil
		}
	}

	select {
	case <-c.closed:
		return 0, nil, net.ErrClosed
	case data, ok := <-c.frames:
		if !ok {
			return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
		}

		c.reads.Add(1)

		return websocket.BinaryMessage, data, nil
	}
}

func (c *fakeConn) WriteControl(int, []byte, time.Time) error {
	c.writes.Add(1)

	return nil
}

func (c *fakeConn) Close() error {
	c.closes.Add(1)
	c.once.Do(func() { close(c.closed) })

	return nil
}

type fakeDialer struct {
	conn *fakeConn
	url  string
}

func (d *fakeDialer) Dial(_ context.Context, url string, _ http.Header) (loggregator.Conn, *http.Response, error) {
	d.url = url

	return d.conn, nil, nil
}

func TestSession_DeliversFramesThenEOF(t *testing.T) {
	t.Parallel()

	conn := newFakeConn(messageAt("one", time.Unix(1, 0)), messageAt("two", time.Unix(2, 0)))
	conn.finish()

	session, err := loggregator.Open(context.Background(), &fakeDialer{conn: conn}, "wss://example.com/tail/?app=a", nil)
	require.NoError(t, err)

	ctx := context.Background()

	msg, err := session.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one", string(msg.Message))

	msg, err = session.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", string(msg.Message))

	_, err = session.Next(ctx)
	require.ErrorIs(t, err, io.EOF)

	assert.Equal(t, loggregator.StateClosed, session.State())
	assert.Equal(t, int32(1), conn.closes.Load())
	assert.Equal(t, int32(0), conn.writes.Load(), "peer already closed, no close frame is sent")
}

func TestSession_StateTransitions(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		states []loggregator.State
	)

	hook := loggregator.WithStateHook(func(s loggregator.State) {
		mu.Lock()
		defer mu.Unlock()

		states = append(states, s)
	})

	conn := newFakeConn()

	session, err := loggregator.Open(context.Background(), &fakeDialer{conn: conn}, "wss://example.com", nil, hook)
	require.NoError(t, err)
	assert.Equal(t, loggregator.StateOpen, session.State())

	require.NoError(t, session.Close())

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, []loggregator.State{
		loggregator.StateConnecting,
		loggregator.StateOpen,
		loggregator.StateClosed,
	}, states)
	assert.Equal(t, "CONNECTING", loggregator.StateConnecting.String())
}

func TestSession_CloseClosesConnectionOnce(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var released atomic.Int32

	conn := newFakeConn(messageAt("buffered", time.Unix(1, 0)))

	session, err := loggregator.Open(ctx, &fakeDialer{conn: conn}, "wss://example.com", nil,
		loggregator.WithReleaseHook(func(err error) {
			assert.NoError(t, err)
			released.Add(1)
		}))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return conn.reads.Load() == 1 }, time.Second, 5*time.Millisecond)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = session.Close()
		}()
	}

	wg.Wait()
	cancel()

	_, err = session.Next(context.Background())
	require.ErrorIs(t, err, loggregator.ErrSessionClosed, "buffered frames are not delivered after close")

	assert.Equal(t, int32(1), conn.closes.Load())
	assert.Equal(t, int32(1), conn.writes.Load())
	assert.Equal(t, int32(1), released.Load())
	assert.Equal(t, loggregator.StateClosed, session.State())
}

func TestSession_HooksAccumulate(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls []string
	)

	record := func(name string) {
		mu.Lock()
		defer mu.Unlock()

		calls = append(calls, name)
	}

	conn := newFakeConn()

	session, err := loggregator.Open(context.Background(), &fakeDialer{conn: conn}, "wss://example.com", nil,
		loggregator.WithReleaseHook(func(error) { record("release-1") }),
		loggregator.WithStateHook(func(s loggregator.State) {
			if s == loggregator.StateClosed {
				record("state-1")
			}
		}),
		loggregator.WithReleaseHook(nil),
		loggregator.WithReleaseHook(func(error) { record("release-2") }),
		loggregator.WithStateHook(func(s loggregator.State) {
			if s == loggregator.StateClosed {
				record("state-2")
			}
		}),
	)
	require.NoError(t, err)
	require.NoError(t, session.Close())

	mu.Lock()
	defer mu.Unlock()

	assert.Subset(t, calls, []string{"release-1", "release-2", "state-1", "state-2"})
	assert.Len(t, calls, 4)
	assert.Less(t, slices.Index(calls, "release-1"), slices.Index(calls, "release-2"))
	assert.Less(t, slices.Index(calls, "state-1"), slices.Index(calls, "state-2"))
}

func TestSession_ContextCancellationCloses(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	conn := newFakeConn()

	session, err := loggregator.Open(ctx, &fakeDialer{conn: conn}, "wss://example.com", nil)
	require.NoError(t, err)

	cancel()

	assert.Eventually(t, func() bool { return session.State() == loggregator.StateClosed }, time.Second, 5*time.Millisecond)

	_, err = session.Next(context.Background())
	require.ErrorIs(t, err, loggregator.ErrSessionClosed)
	assert.Equal(t, int32(1), conn.closes.Load())
}

func TestSession_MalformedFrameEndsStream(t *testing.T) {
	t.Parallel()

	conn := newFakeConn(messageAt("good", time.Unix(1, 0)), []byte{0xff, 0x01}, messageAt("never", time.Unix(2, 0)))

	session, err := loggregator.Open(context.Background(), &fakeDialer{conn: conn}, "wss://example.com", nil)
	require.NoError(t, err)

	msg, err := session.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "good", string(msg.Message))

	_, err = session.Next(context.Background())

	var frameErr *loggregator.FrameError
	require.ErrorAs(t, err, &frameErr)
	assert.Equal(t, 1, frameErr.Index)
	assert.Equal(t, int32(1), conn.closes.Load())
}

func TestSession_SkipMalformedFrames(t *testing.T) {
	t.Parallel()

	conn := newFakeConn(messageAt("good", time.Unix(1, 0)), []byte{0xff, 0x01}, messageAt("after", time.Unix(2, 0)))
	conn.finish()

	session, err := loggregator.Open(context.Background(), &fakeDialer{conn: conn}, "wss://example.com", nil,
		loggregator.WithSkipMalformedFrames())
	require.NoError(t, err)

	var lines []string

	for msg, err := range session.Messages(context.Background()) {
		require.NoError(t, err)

		lines = append(lines, string(msg.Message))
	}

	assert.Equal(t, []string{"good", "after"}, lines)
}

func TestSession_BackPressure(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	conn.repeat = messageAt("flood", time.Unix(1, 0))

	session, err := loggregator.Open(context.Background(), &fakeDialer{conn: conn}, "wss://example.com", nil,
		loggregator.WithBufferSize(1))
	require.NoError(t, err)

	defer session.Close()

	assert.Eventually(t, func() bool { return conn.reads.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), conn.reads.Load(), "reader must wait for the consumer")

	_, err = session.Next(context.Background())
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return conn.reads.Load() == 3 }, time.Second, 5*time.Millisecond)
}

func TestSession_BreakingMessagesCloses(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	conn.repeat = messageAt("flood", time.Unix(1, 0))

	session, err := loggregator.Open(context.Background(), &fakeDialer{conn: conn}, "wss://example.com", nil)
	require.NoError(t, err)

	count := 0
	for _, err := range session.Messages(context.Background()) {
		require.NoError(t, err)

		count++
		if count == 3 {
			break
		}
	}

	assert.Equal(t, loggregator.StateClosed, session.State())
	assert.Equal(t, int32(1), conn.closes.Load())
}

func TestSession_WebSocketServer(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tail/", r.URL.Path)
		assert.Equal(t, "app-guid", r.URL.Query().Get("app"))
		assert.Equal(t, "bearer token", r.Header.Get("Authorization"))

		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		_ = conn.WriteMessage(websocket.BinaryMessage, messageAt("from server", time.Unix(1, 0)))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/tail/?app=app-guid"
	header := http.Header{"Authorization": []string{"bearer token"}}

	session, err := loggregator.Open(context.Background(), loggregator.WebSocketDialer{}, url, header)
	require.NoError(t, err)

	msg, err := session.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from server", string(msg.Message))

	_, err = session.Next(context.Background())
	require.ErrorIs(t, err, io.EOF)
}

func TestOpen_HandshakeRejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":1000,"description":"Invalid Auth Token","error_code":"CF-InvalidAuthToken"}`))
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/tail/?app=app-guid"

	session, err := loggregator.Open(context.Background(), nil, url, nil)
	require.Error(t, err)
	assert.Nil(t, session)

	var handshakeErr *loggregator.HandshakeError
	require.ErrorAs(t, err, &handshakeErr)
	assert.Equal(t, http.StatusUnauthorized, handshakeErr.StatusCode)
	assert.Contains(t, string(handshakeErr.Body), "CF-InvalidAuthToken")
}
