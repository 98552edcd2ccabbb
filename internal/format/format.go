// Package format renders raw device readings into display strings.
// The rules mirror what the device's own web front end shows, so values
// look identical whether an engineer uses the browser or the terminal.
package format

import (
	"fmt"
	"math"
)

const (
	khzPerMhz = 1000.0
	mhzPerGhz = 1000.0
)

// Frequency renders a CPU frequency given in kHz. Values at or below
// zero (and NaN) mean the device could not read the frequency.
func Frequency(khz float64) string {
	if math.IsNaN(khz) || khz <= 0 {
		return "— MHz"
	}

	mhz := khz / khzPerMhz
	if mhz >= mhzPerGhz {
		return fmt.Sprintf("%.2f GHz", mhz/mhzPerGhz)
	}

	return fmt.Sprintf("%d MHz", int(math.Round(mhz)))
}

// FrequencyBounds renders the scaling min/max pair. Each side follows
// the Frequency rule, with the unknown placeholder shortened to a bare
// dash so the joined string stays readable.
func FrequencyBounds(minKHz, maxKHz float64) string {
	return boundSide(minKHz) + " / " + boundSide(maxKHz)
}

func boundSide(khz float64) string {
	if math.IsNaN(khz) || khz <= 0 {
		return "—"
	}

	return Frequency(khz)
}

// Uptime renders seconds of uptime as `Nd HH:MM:SS`, dropping the day
// segment when it is zero. Negative or NaN input renders as a dash.
func Uptime(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		return "—"
	}

	total := int64(seconds)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, hours, minutes, secs)
	}

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// Temperature renders a CPU temperature to one decimal place. Callers
// hide the row entirely when no reading has ever arrived.
func Temperature(c float64) string {
	return fmt.Sprintf("%.1f°C", c)
}

// LoadTriple renders the 1/5/15 minute load averages.
func LoadTriple(l1, l5, l15 float64) string {
	return fmt.Sprintf("%.2f / %.2f / %.2f", l1, l5, l15)
}
