package ui

import (
	"fmt"

	"devdash/internal/api"
	"devdash/internal/device"

	"github.com/rivo/tview"
)

// Unit dropdown vocabularies, matching what the device firmware
// accepts. The submit payload carries the stored codes, not the labels:
// temperature is "1" for Celsius and "0" for Fahrenheit; pressure and
// mode codes equal the option index.
var (
	temperatureOptions = []string{"Celsius", "Fahrenheit"}
	pressureOptions    = []string{"Psig", "Pascal", "KPa", "MPa", "Bar"}
	modeOptions        = []string{"Inference", "Training"}
)

func temperatureCode(label string) string {
	if label == "Fahrenheit" {
		return "0"
	}

	return "1"
}

// Selector values are cached on selection so the controller can read
// them from any goroutine without touching widgets.
type formWidgets struct {
	hostname   *tview.InputField
	netMode    *tview.DropDown
	ip         *tview.InputField
	subnet     *tview.InputField
	gateway    *tview.InputField
	dns        *tview.InputField
	timeSource *tview.DropDown
	date       *tview.InputField
	timeOfDay  *tview.InputField
	instName   *tview.InputField
	instIP     *tview.InputField
	tempUnit   *tview.DropDown
	pressUnit  *tview.DropDown
	mode       *tview.DropDown
	password   *tview.InputField

	networkModeValue string
	timeSourceValue  string
}

func (d *Dashboard) buildConfigPage() {
	w := &formWidgets{
		networkModeValue: device.NetworkModeDHCP,
		timeSourceValue:  device.TimeSourceNTP,
	}
	d.widgets = w

	w.hostname = tview.NewInputField().SetLabel("Hostname").SetFieldWidth(24)
	w.netMode = tview.NewDropDown().SetLabel("Network mode")
	w.netMode.SetOptions([]string{device.NetworkModeDHCP, device.NetworkModeStatic}, func(text string, _ int) {
		d.stateMu.Lock()
		w.networkModeValue = text
		d.stateMu.Unlock()
		d.ctrl.RecomputeNetwork()
	})
	w.ip = tview.NewInputField().SetLabel("IP address").SetFieldWidth(16)
	w.subnet = tview.NewInputField().SetLabel("Subnet mask").SetFieldWidth(16)
	w.gateway = tview.NewInputField().SetLabel("Gateway").SetFieldWidth(16)
	w.dns = tview.NewInputField().SetLabel("DNS").SetFieldWidth(16)

	w.timeSource = tview.NewDropDown().SetLabel("Time source")
	w.timeSource.SetOptions([]string{device.TimeSourceNTP, device.TimeSourceManual}, func(text string, _ int) {
		d.stateMu.Lock()
		w.timeSourceValue = text
		d.stateMu.Unlock()
		d.ctrl.RecomputeTime()
	})
	w.date = tview.NewInputField().SetLabel("Date (YYYY-MM-DD)").SetFieldWidth(12)
	w.timeOfDay = tview.NewInputField().SetLabel("Time (HH:MM:SS)").SetFieldWidth(10)

	w.instName = tview.NewInputField().SetLabel("Instrument name").SetFieldWidth(24)
	w.instIP = tview.NewInputField().SetLabel("Instrument IP").SetFieldWidth(16)
	w.tempUnit = tview.NewDropDown().SetLabel("Temperature unit")
	w.tempUnit.SetOptions(temperatureOptions, nil)
	w.pressUnit = tview.NewDropDown().SetLabel("Pressure unit")
	w.pressUnit.SetOptions(pressureOptions, nil)
	w.mode = tview.NewDropDown().SetLabel("Operating mode")
	w.mode.SetOptions(modeOptions, nil)

	w.password = tview.NewInputField().SetLabel("Password").SetFieldWidth(20).SetMaskCharacter('*')

	d.form = tview.NewForm().
		AddFormItem(w.hostname).
		AddFormItem(w.netMode).
		AddFormItem(w.ip).
		AddFormItem(w.subnet).
		AddFormItem(w.gateway).
		AddFormItem(w.dns).
		AddFormItem(w.timeSource).
		AddFormItem(w.date).
		AddFormItem(w.timeOfDay).
		AddFormItem(w.instName).
		AddFormItem(w.instIP).
		AddFormItem(w.tempUnit).
		AddFormItem(w.pressUnit).
		AddFormItem(w.mode).
		AddFormItem(w.password)
	d.form.SetBorder(true).
		SetBorderColor(uiBorderColor).
		SetTitle(" Configuration ").
		SetTitleColor(uiTitleColor).
		SetTitleAlign(tview.AlignLeft)

	d.form.AddButton("Unlock", d.onUnlock)
	d.form.AddButton("Lock", d.onLock)
	d.form.AddButton("Apply", d.onSubmit)

	// Everything except the password prompt is unlock-gated; the
	// dependent groups get their own recompute on top.
	d.registerGated(w.hostname, w.netMode, w.timeSource, w.instName, w.instIP,
		w.tempUnit, w.pressUnit, w.mode)
	d.registerNetwork(w.ip, w.subnet, w.gateway, w.dns)
	d.registerTime(w.date, w.timeOfDay)

	d.ctrl.BindSelectors(
		func() string {
			d.stateMu.Lock()
			defer d.stateMu.Unlock()
			return w.networkModeValue
		},
		func() string {
			d.stateMu.Lock()
			defer d.stateMu.Unlock()
			return w.timeSourceValue
		},
	)

	d.statusLine = tview.NewTextView().SetDynamicColors(true).SetWrap(true)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.form, 0, 1, true).
		AddItem(d.statusLine, 2, 0, false)

	d.pages.AddPage(pageConfig, root, true, false)

	w.netMode.SetCurrentOption(0)
	w.timeSource.SetCurrentOption(0)
	w.tempUnit.SetCurrentOption(0)
	w.pressUnit.SetCurrentOption(0)
	w.mode.SetCurrentOption(0)
	w.date.SetText("2025-01-01")
	w.timeOfDay.SetText("00:00:00")

	d.ctrl.Apply()
}

// registerGated wires widgets into the controller through the frame
// scheduler, so a lock transition from any goroutine is safe.
func (d *Dashboard) registerGated(items ...tview.FormItem) {
	for i, item := range items {
		item := item
		id := fmt.Sprintf("gated-%d", i)
		d.ctrl.AddGated(func(on bool) {
			d.scheduler.Schedule(id, func() { item.SetDisabled(!on) })
		})
	}
}

func (d *Dashboard) registerNetwork(items ...tview.FormItem) {
	for i, item := range items {
		item := item
		id := fmt.Sprintf("netdep-%d", i)
		d.ctrl.AddNetworkField(func(on bool) {
			d.scheduler.Schedule(id, func() { item.SetDisabled(!on) })
		})
	}
}

func (d *Dashboard) registerTime(items ...tview.FormItem) {
	for i, item := range items {
		item := item
		id := fmt.Sprintf("timedep-%d", i)
		d.ctrl.AddTimeField(func(on bool) {
			d.scheduler.Schedule(id, func() { item.SetDisabled(!on) })
		})
	}
}

func (d *Dashboard) onUnlock() {
	password := d.widgets.password.GetText()

	go func() {
		if err := d.ctrl.Unlock(d.ctx, password); err != nil {
			d.setStatus(err.Error(), false)
			return
		}

		d.setStatus("Unlocked for editing.", true)
		d.scheduler.Schedule("password", func() { d.widgets.password.SetText("") })
	}()
}

func (d *Dashboard) onLock() {
	go func() {
		d.ctrl.Lock(d.ctx)
		d.setStatus("Locked.", true)
	}()
}

func (d *Dashboard) onSubmit() {
	values := d.collectValues()

	go func() {
		msg, ok := d.ctrl.Submit(d.ctx, values)
		d.setStatus(msg, ok)
	}()
}

// collectValues reads the form. Runs on the UI thread (button
// handler).
func (d *Dashboard) collectValues() api.ConfigValues {
	w := d.widgets

	_, netMode := w.netMode.GetCurrentOption()
	_, timeSource := w.timeSource.GetCurrentOption()
	_, tempLabel := w.tempUnit.GetCurrentOption()
	pressIdx, _ := w.pressUnit.GetCurrentOption()
	modeIdx, _ := w.mode.GetCurrentOption()

	return api.ConfigValues{
		Hostname:        w.hostname.GetText(),
		NetworkMode:     netMode,
		IP:              w.ip.GetText(),
		Subnet:          w.subnet.GetText(),
		Gateway:         w.gateway.GetText(),
		DNS:             w.dns.GetText(),
		TemperatureUnit: temperatureCode(tempLabel),
		PressureUnit:    clampIndex(pressIdx),
		Mode:            clampIndex(modeIdx),
		TimeSource:      timeSource,
		Date:            w.date.GetText(),
		Time:            w.timeOfDay.GetText(),
		InstrumentName:  w.instName.GetText(),
		InstrumentIP:    w.instIP.GetText(),
	}
}

// clampIndex maps tview's "nothing selected" (-1) to option zero.
func clampIndex(i int) int {
	if i < 0 {
		return 0
	}

	return i
}

func (d *Dashboard) setStatus(msg string, ok bool) {
	color := "[red]"
	if ok {
		color = "[green]"
	}

	d.scheduler.Schedule("statusline", func() {
		d.statusLine.SetText(color + tview.Escape(msg) + "[-]")
	})
}
