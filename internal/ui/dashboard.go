// Package ui renders the device dashboard in the terminal: a status
// page fed by the pollers and telemetry stream, a lock-gated
// configuration form, and a viewer for the device's operations log.
package ui

import (
	"context"
	"sync"
	"time"

	"devdash/internal/api"
	"devdash/internal/device"
	"devdash/internal/logger"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	pageStatus = "status"
	pageConfig = "config"
	pageLog    = "log"

	gaugeWidth = 30
)

var (
	uiBorderColor = tcell.ColorGray
	uiTitleColor  = tcell.ColorAqua
)

// Dashboard owns the tview application and all pages.
type Dashboard struct {
	app       *tview.Application
	pages     *tview.Pages
	scheduler *frameScheduler

	ctx    context.Context
	client *api.Client
	store  *device.Store
	ctrl   *FormController

	cpuView *tview.TextView
	sysView *tview.TextView
	footer  *tview.TextView

	form       *tview.Form
	widgets    *formWidgets
	statusLine *tview.TextView

	logView *tview.TextView
	logInfo *tview.TextView

	gaugeMu  sync.Mutex
	smoother gaugeSmoother

	stateMu    sync.Mutex
	online     bool
	onlineSeen bool
	lastUpdate time.Time
}

// New assembles the dashboard. The caller feeds it snapshots through
// RenderFull/RenderFast and runs the event loop with Run.
func New(ctx context.Context, client *api.Client, store *device.Store, lock *device.LockState) *Dashboard {
	d := &Dashboard{
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		ctx:    ctx,
		client: client,
		store:  store,
		ctrl:   NewFormController(lock, client),
	}
	d.scheduler = newFrameScheduler(d.app, 30)

	d.buildStatusPage()
	d.buildConfigPage()
	d.buildLogPage()

	d.footer = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.pages, 0, 1, true).
		AddItem(d.footer, 1, 0, false)
	d.app.SetRoot(root, true)
	d.pages.SwitchToPage(pageStatus)

	d.installKeybindings()
	d.scheduler.AddStep(d.stepGauge)

	return d
}

// Run starts the frame scheduler and blocks in the tview event loop.
func (d *Dashboard) Run() error {
	d.scheduler.Start()
	return d.app.Run()
}

func (d *Dashboard) Stop() {
	d.scheduler.Stop()
	d.app.Stop()
}

// ApplyLockState pushes the initial (server-provided) lock state onto
// the form once at startup.
func (d *Dashboard) ApplyLockState() {
	d.scheduler.Schedule("lockstate", d.ctrl.Apply)
}

// RenderFull projects a merged full snapshot onto every display.
func (d *Dashboard) RenderFull(snap device.Snapshot) {
	d.setGaugeTarget(snap.CPUPercent)
	d.markUpdated()
	d.scheduler.Schedule("cpu", func() { d.renderCPU(snap) })
	d.scheduler.Schedule("sys", func() { d.renderSys(snap) })
}

// RenderFast projects a fast update: only the CPU panel (gauge,
// frequency, temperature) is touched, not the full page.
func (d *Dashboard) RenderFast(snap device.Snapshot) {
	d.setGaugeTarget(snap.CPUPercent)
	d.scheduler.Schedule("cpu", func() { d.renderCPU(snap) })
}

// SetOnline updates the internet reachability indicator.
func (d *Dashboard) SetOnline(online bool) {
	d.stateMu.Lock()
	d.online = online
	d.onlineSeen = true
	d.stateMu.Unlock()
}

// Tick refreshes the footer clock line once a second.
func (d *Dashboard) Tick(now time.Time) {
	deviceNow := d.store.DeviceTime(now)

	d.stateMu.Lock()
	online, seen := d.online, d.onlineSeen
	last := d.lastUpdate
	d.stateMu.Unlock()

	reach := "[gray]internet: ?[-]"
	if seen {
		if online {
			reach = "[green]internet: online[-]"
		} else {
			reach = "[red]internet: offline[-]"
		}
	}

	updated := "no data yet"
	if !last.IsZero() {
		updated = "updated " + humanize.Time(last)
	}

	text := "[yellow]" + deviceNow.Format("2006-01-02 15:04:05") + "[-]  " +
		reach + "  " + updated + "  [gray]F1 status · F2 config · F3 log · Ctrl-C quit[-]"

	d.scheduler.Schedule("footer", func() { d.footer.SetText(text) })
}

func (d *Dashboard) markUpdated() {
	d.stateMu.Lock()
	d.lastUpdate = time.Now()
	d.stateMu.Unlock()
}

func (d *Dashboard) setGaugeTarget(v float64) {
	d.gaugeMu.Lock()
	d.smoother.SetTarget(v)
	d.gaugeMu.Unlock()
}

// stepGauge runs once per frame on the UI thread and redraws only the
// gauge line of the CPU panel.
func (d *Dashboard) stepGauge() {
	d.gaugeMu.Lock()
	before := d.smoother.Displayed()
	after := d.smoother.Step()
	d.gaugeMu.Unlock()

	if before == after {
		return
	}

	d.renderGaugeLine(after)
}

func (d *Dashboard) installKeybindings() {
	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			d.pages.SwitchToPage(pageStatus)
			return nil
		case tcell.KeyF2:
			d.pages.SwitchToPage(pageConfig)
			return nil
		case tcell.KeyF3:
			d.pages.SwitchToPage(pageLog)
			d.refreshLog()
			return nil
		}
		return event
	})
}

func (d *Dashboard) refreshLog() {
	go func() {
		text, err := d.client.FetchLog(d.ctx)
		if err != nil {
			logger.Debug().Err(err).Msg("log fetch failed")
			d.scheduler.Schedule("loginfo", func() {
				d.logInfo.SetText("[red]log fetch failed[-]")
			})
			return
		}

		info := humanize.IBytes(uint64(len(text))) + " fetched " + humanize.Time(time.Now())
		d.scheduler.Schedule("log", func() {
			d.logView.SetText(text)
			d.logView.ScrollToEnd()
			d.logInfo.SetText(info)
		})
	}()
}

func newBoxedTextView(title string) *tview.TextView {
	tv := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	tv.SetBorder(true).
		SetBorderColor(uiBorderColor).
		SetTitle(" " + title + " ").
		SetTitleColor(uiTitleColor).
		SetTitleAlign(tview.AlignLeft)

	return tv
}
