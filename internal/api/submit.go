package api

import (
	"context"
	"fmt"
	"net/http"

	"devdash/internal/errors"
)

// ConfigValues is the full configuration form payload. The device does
// all validation; the client just ships what the form holds.
type ConfigValues struct {
	Hostname        string `json:"hostname"`
	NetworkMode     string `json:"network_mode"`
	IP              string `json:"ip"`
	Subnet          string `json:"subnet"`
	Gateway         string `json:"gateway"`
	DNS             string `json:"dns"`
	TemperatureUnit string `json:"temperature_unit"`
	PressureUnit    int    `json:"pressure_unit"`
	Mode            int    `json:"mode"`
	TimeSource      string `json:"time_source"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	InstrumentName  string `json:"instrument_name"`
	InstrumentIP    string `json:"instrument_ip"`
}

// SubmitResult is the success side of a configuration submit. When the
// device is not running privileged, it saves the settings and flags
// that applying them needs elevated rights.
type SubmitResult struct {
	Message      string
	RequiresRoot bool
}

// Submit sends the configuration form. HTTP 403 means the session is
// locked and surfaces as ErrLocked; any other non-2xx surfaces as
// ErrSubmit carrying the server's error text.
func (c *Client) Submit(ctx context.Context, values ConfigValues) (SubmitResult, error) {
	errFactory := errors.New()

	status, raw, err := c.do(ctx, http.MethodPost, "/submit-data", values)
	if err != nil {
		return SubmitResult{}, err
	}

	var body struct {
		Message      string `json:"message"`
		Error        string `json:"error"`
		RequiresRoot bool   `json:"requires_root"`
	}
	if err := json.Unmarshal(raw, &body); err != nil && status < 300 {
		return SubmitResult{}, errFactory.Wrap(ErrDecode, err)
	}

	if status == http.StatusForbidden {
		msg := body.Error
		if msg == "" {
			msg = "editing is locked"
		}
		return SubmitResult{}, errFactory.WithMessage(ErrLocked, msg)
	}

	if status >= 300 {
		msg := body.Error
		if msg == "" {
			msg = body.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("submit failed (HTTP %d)", status)
		}
		return SubmitResult{}, errFactory.WithMessage(ErrSubmit, msg)
	}

	return SubmitResult{
		Message:      body.Message,
		RequiresRoot: body.RequiresRoot,
	}, nil
}
