package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"appscan-traffic-recorder/core"
)

// Proxy table columns, in display order.
var proxyColumns = []string{"Port", "Encrypted", "Status", "", "Stop", "Traffic", "Remove"}

// proxyForm is the Start Proxy form.
type proxyForm struct {
	modeRadio      *widget.RadioGroup
	topLabel       *widget.Label
	topEntry       *widget.Entry
	bottomLabel    *widget.Label
	bottomEntry    *widget.Entry
	bottomRow      *fyne.Container
	encryptedCheck *widget.Check
	mode           core.PortMode
}

func newProxyForm() *proxyForm {
	f := &proxyForm{
		topLabel:       widget.NewLabel("Port Number:"),
		topEntry:       widget.NewEntry(),
		bottomLabel:    widget.NewLabel("Upper Bound:"),
		bottomEntry:    widget.NewEntry(),
		encryptedCheck: widget.NewCheck("Encrypted", nil),
	}
	f.topEntry.SetPlaceHolder("8080")
	f.bottomEntry.SetPlaceHolder("8090")
	f.bottomRow = container.NewBorder(nil, nil, f.bottomLabel, nil, f.bottomEntry)

	f.modeRadio = widget.NewRadioGroup(core.PortModeLabels, func(label string) {
		if mode, ok := core.PortModeFromLabel(label); ok {
			f.setMode(mode)
		}
	})
	f.modeRadio.Horizontal = true
	f.modeRadio.Required = true
	f.modeRadio.SetSelected(core.PortModeSpecify.String())
	return f
}

// setMode relabels the port entries for mode.
func (f *proxyForm) setMode(mode core.PortMode) {
	f.mode = mode
	if mode == core.PortModeSpecify {
		f.topLabel.SetText("Port Number:")
		f.bottomRow.Hide()
		return
	}
	f.topLabel.SetText("Lower Bound:")
	f.bottomLabel.SetText("Upper Bound:")
	f.bottomRow.Show()
}

func (f *proxyForm) container() *fyne.Container {
	return container.NewVBox(
		f.modeRadio,
		container.NewBorder(nil, nil, f.topLabel, nil, f.topEntry),
		f.bottomRow,
		f.encryptedCheck,
	)
}

// CreateHomePane creates the Start Proxy form and the proxy table.
func CreateHomePane(ac *core.AppController) fyne.CanvasObject {
	form := newProxyForm()

	startButton := widget.NewButtonWithIcon("Start Proxy", theme.MediaPlayIcon(), func() {
		if err := ac.StartProxy(form.mode, form.topEntry.Text, form.bottomEntry.Text, form.encryptedCheck.Checked); err != nil {
			ac.ShowInputError(err)
		}
	})
	startButton.Importance = widget.HighImportance
	stopAllButton := widget.NewButtonWithIcon("Stop All", theme.MediaStopIcon(), ac.StopAllProxies)
	certButton := widget.NewButtonWithIcon("Download Certificate", theme.DownloadIcon(), ac.DownloadCertificate)

	list := newProxyList(ac)
	emptyLabel := widget.NewLabel("No proxies started yet.")
	emptyLabel.Alignment = fyne.TextAlignCenter

	refreshTable := func() {
		if ac.ProxyTable.Len() == 0 {
			emptyLabel.Show()
		} else {
			emptyLabel.Hide()
		}
		list.Refresh()
	}
	ac.UIService.UpdateProxyTableFunc = refreshTable
	refreshTable()

	controls := container.NewVBox(
		form.container(),
		container.NewHBox(startButton, stopAllButton, layout.NewSpacer(), certButton),
		widget.NewSeparator(),
		newProxyHeader(),
	)

	return container.NewBorder(controls, nil, nil, nil, container.NewStack(list, container.NewCenter(emptyLabel)))
}

func newProxyHeader() *fyne.Container {
	header := container.NewGridWithColumns(len(proxyColumns))
	for _, title := range proxyColumns {
		label := widget.NewLabel(title)
		label.TextStyle.Bold = true
		header.Add(label)
	}
	return header
}

// newProxyList binds a widget.List to the controller's proxy table.
func newProxyList(ac *core.AppController) *widget.List {
	createItem := func() fyne.CanvasObject {
		activity := widget.NewActivity()
		activity.Hide()
		return container.NewGridWithColumns(len(proxyColumns),
			widget.NewLabel("65535"),
			widget.NewLabel("No"),
			widget.NewLabel("Listening"),
			container.NewCenter(activity),
			widget.NewButtonWithIcon("", theme.MediaStopIcon(), nil),
			widget.NewButtonWithIcon("", theme.DownloadIcon(), nil),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
		)
	}

	updateItem := func(id widget.ListItemID, o fyne.CanvasObject) {
		row, ok := ac.ProxyTable.At(id)
		if !ok {
			return
		}
		cells := o.(*fyne.Container).Objects
		portLabel := cells[0].(*widget.Label)
		encryptedLabel := cells[1].(*widget.Label)
		statusLabel := cells[2].(*widget.Label)
		activity := cells[3].(*fyne.Container).Objects[0].(*widget.Activity)
		stopButton := cells[4].(*widget.Button)
		trafficButton := cells[5].(*widget.Button)
		removeButton := cells[6].(*widget.Button)

		portLabel.SetText(strconv.Itoa(row.Port))
		encryptedLabel.SetText(yesNo(row.Encrypted))
		statusLabel.SetText(row.Status.String())

		if row.Busy {
			activity.Show()
			activity.Start()
		} else {
			activity.Stop()
			activity.Hide()
		}

		port := row.Port
		stopButton.OnTapped = func() { ac.StopProxy(port) }
		trafficButton.OnTapped = func() { ac.DownloadTraffic(port) }
		removeButton.OnTapped = func() {
			if err := ac.RemoveProxy(port); err != nil {
				ac.ShowRemoveError(port, err)
			}
		}

		setEnabled(stopButton, !row.Busy && row.Status == core.ProxyListening)
		setEnabled(trafficButton, !row.Busy)
		setEnabled(removeButton, !row.Busy && row.Status == core.ProxyStopped)
	}

	return widget.NewList(ac.ProxyTable.Len, createItem, updateItem)
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
