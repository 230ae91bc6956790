package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"appscan-traffic-recorder/core"
)

const serverURLPlaceholder = "https://recorder-host:8383"

// Header is the server URL row: entry, Verify button and connection status.
type Header struct {
	URLEntry     *widget.Entry
	VerifyButton *widget.Button
	StatusLabel  *widget.Label

	container *fyne.Container
}

// NewHeader creates the header and pre-fills the last known server URL.
func NewHeader(ac *core.AppController) *Header {
	h := &Header{
		URLEntry:    widget.NewEntry(),
		StatusLabel: widget.NewLabel(ac.StatusText()),
	}
	h.URLEntry.SetPlaceHolder(serverURLPlaceholder)
	h.URLEntry.SetText(ac.InitialServerURL())

	verify := func() {
		url := strings.TrimSpace(h.URLEntry.Text)
		if url == "" {
			h.StatusLabel.SetText("Enter a server URL")
			return
		}
		h.StatusLabel.SetText("Verifying...")
		ac.VerifyServer(url)
	}
	h.URLEntry.OnSubmitted = func(string) { verify() }
	h.VerifyButton = widget.NewButton("Verify", verify)

	h.container = container.NewBorder(
		nil, nil,
		widget.NewLabel("Server URL:"),
		container.NewHBox(h.VerifyButton, h.StatusLabel),
		h.URLEntry,
	)
	return h
}

// SetStatus shows the outcome of the last verification.
func (h *Header) SetStatus(verified bool) {
	if verified {
		h.StatusLabel.SetText("✅ Connected")
	} else {
		h.StatusLabel.SetText("❌ Not connected")
	}
}

// Container returns the header row.
func (h *Header) Container() *fyne.Container {
	return h.container
}
