package ui

import (
	"context"

	"devdash/internal/api"
	"devdash/internal/device"
	"devdash/internal/errors"
	"devdash/internal/logger"
)

const defaultSubmitMessage = "Configuration applied successfully."

// deviceAPI is the slice of the client the form controller needs.
type deviceAPI interface {
	Unlock(ctx context.Context, password string) error
	Lock(ctx context.Context) error
	Submit(ctx context.Context, values api.ConfigValues) (api.SubmitResult, error)
}

// FormController drives the lock-gated configuration form. Widgets
// register enable/disable setters; the controller recomputes them on
// every lock transition and selector change. Keeping the widgets
// behind plain setters makes the gating rules testable without a
// terminal.
type FormController struct {
	lock *device.LockState
	api  deviceAPI

	gated         []func(enabled bool)
	networkFields []func(enabled bool)
	timeFields    []func(enabled bool)
	networkMode   func() string
	timeSource    func() string
}

func NewFormController(lock *device.LockState, client deviceAPI) *FormController {
	return &FormController{
		lock:        lock,
		api:         client,
		networkMode: func() string { return "" },
		timeSource:  func() string { return "" },
	}
}

// AddGated registers a field enabled exactly while the form is
// unlocked.
func (c *FormController) AddGated(set func(enabled bool)) {
	c.gated = append(c.gated, set)
}

// AddNetworkField registers a field that additionally follows the
// network mode selector.
func (c *FormController) AddNetworkField(set func(enabled bool)) {
	c.networkFields = append(c.networkFields, set)
}

// AddTimeField registers a field that additionally follows the time
// source selector.
func (c *FormController) AddTimeField(set func(enabled bool)) {
	c.timeFields = append(c.timeFields, set)
}

// BindSelectors wires the two controlling selectors' current values.
func (c *FormController) BindSelectors(networkMode, timeSource func() string) {
	c.networkMode = networkMode
	c.timeSource = timeSource
}

// Apply pushes the current lock state onto every gated field, then
// recomputes both dependent groups. Newly enabled selectors may still
// leave their dependent fields disabled.
func (c *FormController) Apply() {
	unlocked := c.lock.Unlocked()
	for _, set := range c.gated {
		set(unlocked)
	}

	c.RecomputeNetwork()
	c.RecomputeTime()
}

// RecomputeNetwork re-evaluates the static addressing fields from the
// current lock state and network mode selector.
func (c *FormController) RecomputeNetwork() {
	enabled := device.NetworkGate.Enabled(c.lock.Unlocked(), c.networkMode())
	for _, set := range c.networkFields {
		set(enabled)
	}
}

// RecomputeTime re-evaluates the manual date/time fields from the
// current lock state and time source selector.
func (c *FormController) RecomputeTime() {
	enabled := device.TimeGate.Enabled(c.lock.Unlocked(), c.timeSource())
	for _, set := range c.timeFields {
		set(enabled)
	}
}

// Unlock submits the password. Only a confirmed acknowledgement moves
// the state machine; a rejection leaves everything locked and returns
// the server's reason for inline display.
func (c *FormController) Unlock(ctx context.Context, password string) error {
	if err := c.api.Unlock(ctx, password); err != nil {
		return err
	}

	c.lock.Set(true)
	c.Apply()

	return nil
}

// Lock relocks the form immediately and notifies the device best
// effort; a failed notification changes nothing for the user.
func (c *FormController) Lock(ctx context.Context) {
	c.lock.Set(false)
	c.Apply()

	if err := c.api.Lock(ctx); err != nil {
		logger.Debug().Err(err).Msg("lock notification failed")
	}
}

// Submit ships the form and renders the outcome as a status line.
// The bool reports success.
func (c *FormController) Submit(ctx context.Context, values api.ConfigValues) (string, bool) {
	res, err := c.api.Submit(ctx, values)
	if err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) && appErr.Code() == api.ErrLocked {
			return appErr.Error() + " Unlock first to apply settings.", false
		}

		return err.Error(), false
	}

	msg := res.Message
	if msg == "" {
		msg = defaultSubmitMessage
	}
	if res.RequiresRoot {
		msg += " (applying system changes requires elevated privileges on the device)"
	}

	return msg, true
}
