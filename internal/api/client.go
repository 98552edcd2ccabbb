// Package api is the HTTP client for the diagnostic unit. The device
// exposes a small JSON API (status, telemetry stream, reachability,
// auth lock, configuration submit); every response field is optional
// and the client must tolerate anything being absent.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"devdash/internal/device"
	"devdash/internal/errors"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxLogBytes = 4 << 20

// Client talks to one device. The unlock session is cookie-based, so
// the client carries a jar for the lifetime of the dashboard.
type Client struct {
	baseURL string
	httpc   *http.Client
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	errFactory := errors.New()

	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, errFactory.New(errors.ErrMissingDevice)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInitFailed, err)
	}

	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Jar: jar},
		timeout: timeout,
	}, nil
}

// Status fetches one full status snapshot.
func (c *Client) Status(ctx context.Context) (device.StatusUpdate, error) {
	var update device.StatusUpdate
	if err := c.getJSON(ctx, "/api/sysinfo", &update); err != nil {
		return device.StatusUpdate{}, err
	}

	return update, nil
}

// Ping asks the device whether it can reach the internet.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	var body struct {
		Online bool `json:"online"`
	}
	if err := c.getJSON(ctx, "/api/ping-internet", &body); err != nil {
		return false, err
	}

	return body.Online, nil
}

// AuthState fetches the server-side lock flag for session start.
func (c *Client) AuthState(ctx context.Context) (bool, error) {
	var body struct {
		Unlocked bool `json:"unlocked"`
	}
	if err := c.getJSON(ctx, "/auth/state", &body); err != nil {
		return false, err
	}

	return body.Unlocked, nil
}

// Unlock submits the editing password. A non-2xx status or ok:false is
// a failure; the returned error carries the server's own text so the
// prompt can show it inline.
func (c *Client) Unlock(ctx context.Context, password string) error {
	errFactory := errors.New()

	payload := struct {
		Password string `json:"password"`
	}{Password: password}

	status, raw, err := c.do(ctx, http.MethodPost, "/auth/unlock", payload)
	if err != nil {
		return err
	}

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	// The device answers 401 with a JSON body; decode before checking
	// the status so the real reason survives.
	if err := json.Unmarshal(raw, &body); err != nil && status < 300 {
		return errFactory.Wrap(ErrDecode, err)
	}

	if status >= 300 || !body.OK {
		msg := body.Error
		if msg == "" {
			msg = fmt.Sprintf("unlock rejected (HTTP %d)", status)
		}
		return errFactory.WithMessage(ErrUnlockDenied, msg)
	}

	return nil
}

// Lock relocks the session. Best effort: the dashboard disables its
// fields regardless of the outcome, so callers may ignore the error.
func (c *Client) Lock(ctx context.Context) error {
	_, _, err := c.do(ctx, http.MethodPost, "/auth/lock", struct{}{})

	return err
}

// FetchLog downloads the device's plain-text operations log.
func (c *Client) FetchLog(ctx context.Context) (string, error) {
	_, raw, err := c.do(ctx, http.MethodGet, "/api/db-log", nil)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	errFactory := errors.New()

	status, raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	if status >= 300 {
		return errFactory.WithData(ErrRequest, struct {
			Path   string
			Status int
		}{Path: path, Status: status})
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errFactory.Wrap(ErrDecode, err)
	}

	return nil
}

// do performs one request and consumes the body inside the timeout
// window. The telemetry stream is the only request that bypasses this.
func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	errFactory := errors.New()

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, errFactory.Wrap(ErrRequest, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, errFactory.Wrap(ErrRequest, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, errFactory.Wrap(ErrRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxLogBytes))
	if err != nil {
		return 0, nil, errFactory.Wrap(ErrRequest, err)
	}

	return resp.StatusCode, raw, nil
}
