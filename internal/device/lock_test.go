package device_test

import (
	"testing"

	"devdash/internal/device"
	"github.com/stretchr/testify/assert"
)

func TestGatesDisabledWhileLocked(t *testing.T) {
	for _, selector := range []string{"static", "dhcp", "manual", "ntp", ""} {
		assert.False(t, device.NetworkGate.Enabled(false, selector),
			"locked form must disable network fields for selector %q", selector)
		assert.False(t, device.TimeGate.Enabled(false, selector),
			"locked form must disable time fields for selector %q", selector)
	}
}

func TestNetworkGateFollowsSelector(t *testing.T) {
	assert.False(t, device.NetworkGate.Enabled(true, device.NetworkModeDHCP))
	assert.True(t, device.NetworkGate.Enabled(true, device.NetworkModeStatic))
}

func TestTimeGateFollowsSelector(t *testing.T) {
	assert.False(t, device.TimeGate.Enabled(true, device.TimeSourceNTP))
	assert.True(t, device.TimeGate.Enabled(true, device.TimeSourceManual))
}

func TestLockStateTransitions(t *testing.T) {
	var lock device.LockState

	assert.False(t, lock.Unlocked(), "session starts locked")

	lock.Set(true)
	assert.True(t, lock.Unlocked())

	lock.Set(false)
	assert.False(t, lock.Unlocked())
}
