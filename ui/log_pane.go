package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"appscan-traffic-recorder/core"
	"appscan-traffic-recorder/internal/logpane"
)

// LogView renders log pane entries as coloured paragraphs.
type LogView struct {
	Text   *widget.RichText
	Scroll *container.Scroll
}

func NewLogView() *LogView {
	v := &LogView{Text: widget.NewRichText()}
	v.Text.Wrapping = fyne.TextWrapWord
	v.Scroll = container.NewVScroll(v.Text)
	return v
}

func entryColor(level logpane.Level) fyne.ThemeColorName {
	switch level {
	case logpane.LevelError:
		return theme.ColorNameError
	case logpane.LevelDebug:
		return theme.ColorNamePlaceHolder
	default:
		return theme.ColorNameForeground
	}
}

func entrySegment(e logpane.Entry) widget.RichTextSegment {
	style := widget.RichTextStyleParagraph
	style.ColorName = entryColor(e.Level)
	return &widget.TextSegment{Text: e.String(), Style: style}
}

// Append adds e at the bottom, keeping at most limit paragraphs, and scrolls to it.
func (v *LogView) Append(e logpane.Entry, limit int) {
	v.Text.Segments = append(v.Text.Segments, entrySegment(e))
	if over := len(v.Text.Segments) - limit; limit > 0 && over > 0 {
		v.Text.Segments = v.Text.Segments[over:]
	}
	v.Text.Refresh()
	v.Scroll.ScrollToBottom()
}

// Reset replaces the content with entries.
func (v *LogView) Reset(entries []logpane.Entry) {
	segments := make([]widget.RichTextSegment, 0, len(entries))
	for _, e := range entries {
		segments = append(segments, entrySegment(e))
	}
	v.Text.Segments = segments
	v.Text.Refresh()
}

// CreateLogPane creates the log scrollback with its filter checks and Clear button.
func CreateLogPane(ac *core.AppController) fyne.CanvasObject {
	view := NewLogView()
	view.Reset(ac.LogBuffer.Entries())
	ac.LogBuffer.OnAppend(func(e logpane.Entry) {
		view.Append(e, logpane.DefaultCapacity)
	})

	showErrors := widget.NewCheck("Show errors", nil)
	showErrors.SetChecked(ac.LogBuffer.ShowErrors())
	showErrors.OnChanged = ac.SetShowErrors
	showDebug := widget.NewCheck("Show debug", nil)
	showDebug.SetChecked(ac.LogBuffer.ShowDebug())
	showDebug.OnChanged = ac.SetShowDebug

	clearButton := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() {
		ac.LogBuffer.Clear()
		view.Reset(nil)
	})

	toolbar := container.NewHBox(showErrors, showDebug, layout.NewSpacer(), clearButton)
	return container.NewBorder(toolbar, nil, nil, nil, view.Scroll)
}
