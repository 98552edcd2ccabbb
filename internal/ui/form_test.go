package ui

import (
	"context"
	"testing"
	"time"

	"devdash/internal/api"
	"devdash/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDashboard(t *testing.T) *Dashboard {
	t.Helper()

	client, err := api.NewClient("http://127.0.0.1:9", time.Second)
	require.NoError(t, err)

	return New(context.Background(), client, device.NewStore(), &device.LockState{})
}

func TestTemperatureCodeMapping(t *testing.T) {
	assert.Equal(t, "1", temperatureCode("Celsius"))
	assert.Equal(t, "0", temperatureCode("Fahrenheit"))
}

func TestCollectValuesDefaultsKeepDeviceCodes(t *testing.T) {
	d := newTestDashboard(t)

	values := d.collectValues()

	assert.Equal(t, "1", values.TemperatureUnit, "default Celsius must be stored as 1")
	assert.Equal(t, 0, values.PressureUnit, "default Psig")
	assert.Equal(t, 0, values.Mode, "default Inference")
	assert.Equal(t, device.NetworkModeDHCP, values.NetworkMode)
	assert.Equal(t, device.TimeSourceNTP, values.TimeSource)
}

func TestCollectValuesFahrenheitCode(t *testing.T) {
	d := newTestDashboard(t)

	d.widgets.tempUnit.SetCurrentOption(1)

	values := d.collectValues()
	assert.Equal(t, "0", values.TemperatureUnit, "Fahrenheit is stored as 0")
}

func TestCollectValuesPressureAndModeUseOptionIndex(t *testing.T) {
	d := newTestDashboard(t)

	d.widgets.pressUnit.SetCurrentOption(4)
	d.widgets.mode.SetCurrentOption(1)

	values := d.collectValues()
	assert.Equal(t, 4, values.PressureUnit, "Bar")
	assert.Equal(t, 1, values.Mode, "Training")
}
