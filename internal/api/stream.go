package api

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"time"

	"devdash/internal/device"
	"devdash/internal/errors"
	"devdash/internal/logger"
)

const streamReconnectDelay = 2 * time.Second

// Stream holds one connection to the telemetry event stream and calls
// handler for every decoded message. It returns when the context is
// cancelled or the connection drops. The stream runs for the whole
// session, so no request timeout applies here.
func (c *Client) Stream(ctx context.Context, handler func(device.FastUpdate)) error {
	errFactory := errors.New()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/telemetry", nil)
	if err != nil {
		return errFactory.Wrap(ErrRequest, err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errFactory.Wrap(ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errFactory.WithData(ErrRequest, struct {
			Path   string
			Status int
		}{Path: "/api/telemetry", Status: resp.StatusCode})
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Comment lines (": ping") keep the connection alive.
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var update device.FastUpdate
		if err := json.Unmarshal([]byte(payload), &update); err != nil {
			// A garbled frame is not worth dropping the stream for.
			continue
		}

		handler(update)
	}

	if err := scanner.Err(); err != nil {
		return errFactory.Wrap(ErrStreamClosed, err)
	}

	return errFactory.New(ErrStreamClosed)
}

// RunStream keeps the telemetry stream alive for the session,
// reconnecting after a fixed delay. Stream failures are transient by
// definition; they only get debug logging.
func (c *Client) RunStream(ctx context.Context, handler func(device.FastUpdate)) {
	for {
		err := c.Stream(ctx, handler)

		select {
		case <-ctx.Done():
			return
		case <-time.After(streamReconnectDelay):
		}

		logger.Debug().Err(err).Msg("telemetry stream dropped, reconnecting")
	}
}
