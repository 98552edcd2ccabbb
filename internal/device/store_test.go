package device_test

import (
	"testing"
	"time"

	"devdash/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func TestApplyStatusMergesAllFields(t *testing.T) {
	s := device.NewStore()

	snap := s.ApplyStatus(device.StatusUpdate{
		CPU:           f64(12.5),
		Load:          &device.LoadUpdate{One: f64(0.5), Five: f64(0.4), Fifteen: f64(0.3)},
		TempC:         f64(48.2),
		FreqKHz:       f64(1000000),
		Governor:      str("ondemand"),
		FreqMinKHz:    f64(300000),
		FreqMaxKHz:    f64(1000000),
		UptimeSeconds: f64(90061),
	})

	assert.Equal(t, 12.5, snap.CPUPercent)
	assert.Equal(t, 0.5, snap.Load1)
	assert.Equal(t, 0.4, snap.Load5)
	assert.Equal(t, 0.3, snap.Load15)
	assert.Equal(t, 48.2, snap.TempC)
	assert.True(t, snap.TempValid)
	assert.Equal(t, float64(1000000), snap.FreqKHz)
	assert.Equal(t, "ondemand", snap.Governor)
	assert.Equal(t, float64(90061), snap.UptimeSeconds)
}

func TestPartialUpdateNeverClearsFields(t *testing.T) {
	s := device.NewStore()

	s.ApplyStatus(device.StatusUpdate{
		Load:          &device.LoadUpdate{One: f64(0.5), Five: f64(0.4), Fifteen: f64(0.3)},
		Governor:      str("performance"),
		FreqMinKHz:    f64(300000),
		FreqMaxKHz:    f64(1000000),
		UptimeSeconds: f64(61),
	})

	// Fast update touching only freq and temp.
	snap := s.ApplyFast(device.FastUpdate{FreqKHz: f64(600000), TempC: f64(51.0)})

	assert.Equal(t, "performance", snap.Governor, "fast update must not clear governor")
	assert.Equal(t, 0.5, snap.Load1, "fast update must not clear load")
	assert.Equal(t, float64(300000), snap.FreqMinKHz)
	assert.Equal(t, float64(61), snap.UptimeSeconds)
	assert.Equal(t, float64(600000), snap.FreqKHz)
	assert.Equal(t, 51.0, snap.TempC)

	// Status update with no fields at all is a no-op.
	snap = s.ApplyStatus(device.StatusUpdate{})
	assert.Equal(t, "performance", snap.Governor)
	assert.Equal(t, float64(600000), snap.FreqKHz)
	assert.True(t, snap.TempValid)
}

func TestInterleavedUpdatesAreOrderIndependent(t *testing.T) {
	full := device.StatusUpdate{
		Governor:      str("ondemand"),
		UptimeSeconds: f64(1000),
	}
	fast := device.FastUpdate{FreqKHz: f64(800000), TempC: f64(40)}

	a := device.NewStore()
	a.ApplyStatus(full)
	gotA := a.ApplyFast(fast)

	b := device.NewStore()
	b.ApplyFast(fast)
	gotB := b.ApplyStatus(full)

	assert.Equal(t, gotA, gotB, "disjoint field sets must commute")
}

func TestTempStaysInvalidUntilFirstReading(t *testing.T) {
	s := device.NewStore()

	snap := s.ApplyStatus(device.StatusUpdate{Governor: str("ondemand")})
	assert.False(t, snap.TempValid, "no temperature has ever been supplied")

	snap = s.ApplyFast(device.FastUpdate{TempC: f64(0)})
	assert.True(t, snap.TempValid, "0°C is a real reading")
	assert.Equal(t, 0.0, snap.TempC)
}

func TestInitialSnapshotRendersUnknown(t *testing.T) {
	snap := device.NewStore().Snapshot()

	assert.Negative(t, snap.UptimeSeconds)
	assert.Zero(t, snap.FreqKHz)
	assert.False(t, snap.TempValid)
}

func TestDeviceTimeOffset(t *testing.T) {
	s := device.NewStore()
	now := time.Now()

	// Before any server time arrives, local time passes through.
	assert.Equal(t, now, s.DeviceTime(now))

	future := now.Add(90 * time.Second).Format("2006-01-02T15:04:05.999999999")
	s.ApplyStatus(device.StatusUpdate{ServerTime: &future})

	got := s.DeviceTime(now)
	diff := got.Sub(now)
	require.InDelta(t, 90, diff.Seconds(), 2, "offset should track the server clock")
}

func TestUnparseableServerTimeIgnored(t *testing.T) {
	s := device.NewStore()
	now := time.Now()

	bad := "yesterday-ish"
	s.ApplyStatus(device.StatusUpdate{ServerTime: &bad})

	assert.Equal(t, now, s.DeviceTime(now))
}
