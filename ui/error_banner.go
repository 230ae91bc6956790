package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ErrorBanner is a dismissible strip under the header for connection problems.
type ErrorBanner struct {
	container *fyne.Container
	text      *widget.Label
}

func NewErrorBanner(message string) *ErrorBanner {
	eb := &ErrorBanner{text: widget.NewLabel(message)}
	eb.text.Wrapping = fyne.TextWrapWord

	background := canvas.NewRectangle(theme.Color(theme.ColorNameError))
	background.FillColor = withAlpha(background.FillColor, 0x40)
	background.CornerRadius = 4

	dismiss := widget.NewButtonWithIcon("", theme.CancelIcon(), eb.Hide)
	dismiss.Importance = widget.LowImportance

	eb.container = container.NewStack(
		background,
		container.NewPadded(container.NewBorder(nil, nil, nil, dismiss, eb.text)),
	)
	return eb
}

// GetContainer returns the container for embedding in UI
func (eb *ErrorBanner) GetContainer() *fyne.Container {
	return eb.container
}

// SetMessage replaces the banner text.
func (eb *ErrorBanner) SetMessage(message string) {
	eb.text.SetText("❌ " + message)
}

// Message returns the banner text.
func (eb *ErrorBanner) Message() string {
	return eb.text.Text
}

func (eb *ErrorBanner) Hide() {
	eb.container.Hide()
}

func (eb *ErrorBanner) Show() {
	eb.container.Show()
}

func (eb *ErrorBanner) IsVisible() bool {
	return eb.container.Visible()
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}
