package ui

import (
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"appscan-traffic-recorder/core"
	"appscan-traffic-recorder/internal/constants"
	"appscan-traffic-recorder/internal/dialogs"
	"appscan-traffic-recorder/internal/logpane"
	"appscan-traffic-recorder/internal/platform"
)

// ShowAbout shows the product description with selectable text.
func ShowAbout(ac *core.AppController, window fyne.Window) {
	text := widget.NewLabel(ac.AppInfo.AboutText())
	text.Selectable = true
	text.Wrapping = fyne.TextWrapWord
	d := dialog.NewCustom("About "+ac.AppInfo.ProductName, "Close", text, window)
	d.Resize(fyne.NewSize(420, 260))
	d.Show()
}

// OpenRepository opens the project page in the default browser.
func OpenRepository(ac *core.AppController) {
	if err := platform.OpenURL(constants.RepoURL); err != nil {
		ac.Log(logpane.LevelError, "Failed to open %s: %v", constants.RepoURL, err)
	}
}

// SaveData asks where to save data and writes it there.
func SaveData(ac *core.AppController, window fyne.Window, fileName string, data []byte) {
	dialogs.ShowSaveFile(window, fileName, func(w io.WriteCloser, path string) {
		if err := writeAndClose(w, data); err != nil {
			ac.ShowSaveError(fileName, err)
			return
		}
		ac.Log(logpane.LevelInfo, "Saved %s", path)
		dialogs.ShowAutoHideInfo(ac.UIService.Application, window, "Saved", path)
	}, func(err error) {
		ac.ShowSaveError(fileName, err)
	})
}

func writeAndClose(w io.WriteCloser, data []byte) error {
	_, err := w.Write(data)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}
