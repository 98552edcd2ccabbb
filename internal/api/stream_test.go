package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"devdash/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamDeliversDataFrames(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/telemetry", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(": ping\n\n"))
		w.Write([]byte("data: {\"cpu\": 42.5, \"freq_khz\": 600000}\n\n"))
		w.Write([]byte("data: not json at all\n\n"))
		w.Write([]byte("data: {\"temp_c\": 51.5}\n\n"))
	}))

	var got []device.FastUpdate
	err := c.Stream(context.Background(), func(u device.FastUpdate) {
		got = append(got, u)
	})
	require.Error(t, err, "stream end reports as closed")

	require.Len(t, got, 2, "comments and garbled frames are skipped")

	require.NotNil(t, got[0].CPU)
	assert.Equal(t, 42.5, *got[0].CPU)
	require.NotNil(t, got[0].FreqKHz)
	assert.Nil(t, got[0].TempC)

	require.NotNil(t, got[1].TempC)
	assert.Equal(t, 51.5, *got[1].TempC)
	assert.Nil(t, got[1].CPU)
}

func TestStreamStopsOnContextCancel(t *testing.T) {
	blocked := make(chan struct{})
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-blocked
	}))
	defer close(blocked)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- c.Stream(ctx, func(device.FastUpdate) {})
	}()

	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("stream did not stop after cancel")
	}
}

func TestStreamRejectsNon2xx(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	err := c.Stream(context.Background(), func(device.FastUpdate) {})
	require.Error(t, err)
}
