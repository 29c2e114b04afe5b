package loggregator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/fivetwenty-io/cfapi/pkg/loggregator"
)

func sampleMessage() *loggregator.LogMessage {
	return &loggregator.LogMessage{
		Message:       []byte("Hello from app"),
		MessageType:   loggregator.MessageTypeOut,
		Timestamp:     time.Date(2015, 10, 19, 12, 30, 0, 123456789, time.UTC),
		ApplicationID: "app-guid",
		SourceID:      "0",
		SourceName:    "APP/PROC/WEB",
		DrainURLs:     []string{"syslog://one.example.com", "syslog://two.example.com"},
	}
}

func TestUnmarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	want := sampleMessage()

	got, err := loggregator.Unmarshal(loggregator.Marshal(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUnmarshal_SkipsUnknownFields(t *testing.T) {
	t.Parallel()

	b := loggregator.Marshal(sampleMessage())
	b = protowire.AppendTag(b, 5, protowire.BytesType)
	b = protowire.AppendString(b, "organization")
	b = protowire.AppendTag(b, 20, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)

	got, err := loggregator.Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, "app-guid", got.ApplicationID)
}

func TestUnmarshal_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input func() []byte
	}{
		{
			name: "missing app id",
			input: func() []byte {
				var b []byte
				b = protowire.AppendTag(b, 1, protowire.BytesType)
				b = protowire.AppendString(b, "line")
				b = protowire.AppendTag(b, 2, protowire.VarintType)
				b = protowire.AppendVarint(b, 1)
				b = protowire.AppendTag(b, 3, protowire.VarintType)
				b = protowire.AppendVarint(b, protowire.EncodeZigZag(1))

				return b
			},
		},
		{
			name: "wrong wire type",
			input: func() []byte {
				var b []byte
				b = protowire.AppendTag(b, 1, protowire.VarintType)
				b = protowire.AppendVarint(b, 7)

				return b
			},
		},
		{
			name: "truncated",
			input: func() []byte {
				b := loggregator.Marshal(sampleMessage())

				return b[:len(b)-3]
			},
		},
		{
			name: "garbage",
			input: func() []byte {
				return []byte{0xff, 0xff, 0xff}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, err := loggregator.Unmarshal(tt.input())
			require.ErrorIs(t, err, loggregator.ErrMalformedMessage)
			assert.Nil(t, msg)
		})
	}
}

func TestMessageType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "OUT", loggregator.MessageTypeOut.String())
	assert.Equal(t, "ERR", loggregator.MessageTypeErr.String())
	assert.Equal(t, "MessageType(9)", loggregator.MessageType(9).String())
}

func TestLogMessage_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"2015-10-19T12:30:00.123456789Z [APP/PROC/WEB/0] OUT Hello from app",
		sampleMessage().String())
}
