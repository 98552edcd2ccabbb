package ui

import (
	"fmt"
	"math"
	"strings"
)

// approachFactor is how far the displayed CPU value moves toward the
// target each frame. Telemetry arrives every 250 ms while frames run
// far faster, so the bar glides instead of jumping.
const approachFactor = 0.2

// gaugeSmoother animates a displayed percentage toward the latest
// telemetry target with an exponential approach.
type gaugeSmoother struct {
	displayed float64
	target    float64
}

func (g *gaugeSmoother) SetTarget(v float64) {
	g.target = clampPercent(v)
}

// Step advances one frame and returns the new displayed value.
func (g *gaugeSmoother) Step() float64 {
	g.displayed += (g.target - g.displayed) * approachFactor
	if math.Abs(g.target-g.displayed) < 0.05 {
		g.displayed = g.target
	}

	return g.displayed
}

func (g *gaugeSmoother) Displayed() float64 {
	return g.displayed
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}

	return v
}

// renderGauge builds the textual CPU bar, e.g. "[■■■■······] 42.0%".
func renderGauge(pct float64, width int) string {
	if width < 1 {
		width = 1
	}

	pct = clampPercent(pct)
	filled := int(math.Round(pct / 100 * float64(width)))

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(strings.Repeat("■", filled))
	b.WriteString(strings.Repeat("·", width-filled))
	b.WriteByte(']')
	fmt.Fprintf(&b, " %.1f%%", pct)

	return b.String()
}
