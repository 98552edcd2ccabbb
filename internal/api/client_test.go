package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devdash/internal/api"
	"devdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := api.NewClient(srv.URL, 2*time.Second)
	require.NoError(t, err)

	return c
}

func errCode(t *testing.T, err error) errors.ErrorCode {
	t.Helper()

	var appErr errors.Error
	require.True(t, errors.As(err, &appErr), "expected a domain error, got %v", err)

	return appErr.Code()
}

func TestStatusDecodesPartialPayload(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sysinfo", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"governor":"ondemand","freq_khz":1000000,"load":{"1m":0.5}}`))
	}))

	update, err := c.Status(context.Background())
	require.NoError(t, err)

	require.NotNil(t, update.Governor)
	assert.Equal(t, "ondemand", *update.Governor)
	require.NotNil(t, update.FreqKHz)
	assert.Equal(t, float64(1000000), *update.FreqKHz)
	require.NotNil(t, update.Load)
	require.NotNil(t, update.Load.One)
	assert.Nil(t, update.Load.Five, "absent fields stay nil")
	assert.Nil(t, update.TempC, "absent fields stay nil")
	assert.Nil(t, update.UptimeSeconds)
}

func TestPing(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ping-internet", r.URL.Path)
		w.Write([]byte(`{"online":true}`))
	}))

	online, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.True(t, online)
}

func TestAuthState(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unlocked":false}`))
	}))

	unlocked, err := c.AuthState(context.Background())
	require.NoError(t, err)
	assert.False(t, unlocked)
}

func TestUnlockSuccess(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/unlock", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"ok":true}`))
	}))

	require.NoError(t, c.Unlock(context.Background(), "beagle"))
}

func TestUnlockDeniedSurfacesServerText(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"error":"bad password"}`))
	}))

	err := c.Unlock(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, api.ErrUnlockDenied, errCode(t, err))
	assert.Contains(t, err.Error(), "bad password")
}

func TestUnlockOKFalseWithoutStatusIsStillDenied(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false}`))
	}))

	err := c.Unlock(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, api.ErrUnlockDenied, errCode(t, err))
}

func TestSubmitSuccess(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submit-data", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"message":"Configuration applied successfully."}`))
	}))

	res, err := c.Submit(context.Background(), api.ConfigValues{Hostname: "unit-7"})
	require.NoError(t, err)
	assert.Equal(t, "Configuration applied successfully.", res.Message)
	assert.False(t, res.RequiresRoot)
}

func TestSubmitRequiresRoot(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Configuration saved.","requires_root":true}`))
	}))

	res, err := c.Submit(context.Background(), api.ConfigValues{})
	require.NoError(t, err)
	assert.True(t, res.RequiresRoot)
}

func TestSubmitForbiddenWhileLocked(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"Editing is locked. Unlock to apply settings."}`))
	}))

	_, err := c.Submit(context.Background(), api.ConfigValues{})
	require.Error(t, err)
	assert.Equal(t, api.ErrLocked, errCode(t, err))
	assert.Contains(t, err.Error(), "Editing is locked")
}

func TestSubmitGenericFailure(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"Internet is not available right now; cannot enable NTP."}`))
	}))

	_, err := c.Submit(context.Background(), api.ConfigValues{})
	require.Error(t, err)
	assert.Equal(t, api.ErrSubmit, errCode(t, err))
	assert.Contains(t, err.Error(), "cannot enable NTP")
}

func TestFetchLog(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/db-log", r.URL.Path)
		w.Write([]byte("2026-01-01T00:00:00Z | READ | row fetched\n"))
	}))

	text, err := c.FetchLog(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "row fetched")
}

func TestUnlockSessionCookieIsKept(t *testing.T) {
	unlocked := false
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/unlock":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s3cr3t", Path: "/"})
			w.Write([]byte(`{"ok":true}`))
		case "/submit-data":
			cookie, err := r.Cookie("session")
			unlocked = err == nil && cookie.Value == "s3cr3t"
			w.Write([]byte(`{"message":"ok"}`))
		}
	}))

	require.NoError(t, c.Unlock(context.Background(), "beagle"))
	_, err := c.Submit(context.Background(), api.ConfigValues{})
	require.NoError(t, err)
	assert.True(t, unlocked, "submit must reuse the unlock session cookie")
}
