package ui

import (
	"strings"

	"devdash/internal/device"
	"devdash/internal/format"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func (d *Dashboard) buildStatusPage() {
	d.cpuView = newBoxedTextView("CPU")
	d.sysView = newBoxedTextView("System")

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.cpuView, 7, 0, false).
		AddItem(d.sysView, 4, 0, false).
		AddItem(tview.NewBox(), 0, 1, false)

	d.pages.AddPage(pageStatus, root, true, false)

	d.renderCPU(d.store.Snapshot())
	d.renderSys(d.store.Snapshot())
	d.renderGaugeLine(0)
}

// cpuLines builds the CPU panel below the gauge line. The temperature
// row only exists once a numeric reading has ever arrived.
func cpuLines(snap device.Snapshot) []string {
	lines := []string{
		"Frequency  " + format.Frequency(snap.FreqKHz),
		"Range      " + format.FrequencyBounds(snap.FreqMinKHz, snap.FreqMaxKHz),
		"Governor   " + governorText(snap.Governor),
	}
	if snap.TempValid {
		lines = append(lines, "Temp       "+format.Temperature(snap.TempC))
	}

	return lines
}

func sysLines(snap device.Snapshot) []string {
	return []string{
		"Load (1/5/15)  " + format.LoadTriple(snap.Load1, snap.Load5, snap.Load15),
		"Uptime         " + format.Uptime(snap.UptimeSeconds),
	}
}

func governorText(g string) string {
	if g == "" {
		return "—"
	}

	return g
}

// renderCPU rewrites the CPU panel except the first (gauge) line,
// which the per-frame animation owns.
func (d *Dashboard) renderCPU(snap device.Snapshot) {
	gauge := ""
	if current := d.cpuView.GetText(true); current != "" {
		gauge, _, _ = strings.Cut(current, "\n")
	}

	d.cpuView.SetText(gauge + "\n" + strings.Join(cpuLines(snap), "\n"))
}

func (d *Dashboard) renderSys(snap device.Snapshot) {
	d.sysView.SetText(strings.Join(sysLines(snap), "\n"))
}

// renderGaugeLine replaces only the first line of the CPU panel.
func (d *Dashboard) renderGaugeLine(displayed float64) {
	rest := ""
	if current := d.cpuView.GetText(true); current != "" {
		if _, after, found := strings.Cut(current, "\n"); found {
			rest = after
		}
	}

	d.cpuView.SetText(renderGauge(displayed, gaugeWidth) + "\n" + rest)
}

func (d *Dashboard) buildLogPage() {
	d.logView = tview.NewTextView().SetWrap(false).SetScrollable(true)
	d.logView.SetBorder(true).
		SetBorderColor(uiBorderColor).
		SetTitle(" Device Log ").
		SetTitleColor(uiTitleColor).
		SetTitleAlign(tview.AlignLeft)
	d.logInfo = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	d.logInfo.SetText("press r to fetch")

	d.logView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'r' {
			d.refreshLog()
			return nil
		}
		return event
	})

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.logView, 0, 1, true).
		AddItem(d.logInfo, 1, 0, false)

	d.pages.AddPage(pageLog, root, true, false)
}
