package dialogs

import (
	"fmt"
	"io"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowError shows an error dialog to the user
func ShowError(window fyne.Window, err error) {
	fyne.Do(func() {
		dialog.ShowError(err, window)
	})
}

// ShowErrorText shows an error dialog with a text message
func ShowErrorText(window fyne.Window, title, message string) {
	fyne.Do(func() {
		dialog.ShowError(fmt.Errorf("%s: %s", title, message), window)
	})
}

// ShowInfo shows an information dialog to the user
func ShowInfo(window fyne.Window, title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, window)
	})
}

// ShowAutoHideInfo shows a notification and a dialog that closes itself after 2 seconds
func ShowAutoHideInfo(app fyne.App, window fyne.Window, title, message string) {
	app.SendNotification(&fyne.Notification{Title: title, Content: message})
	fyne.Do(func() {
		d := dialog.NewCustomWithoutButtons(title, widget.NewLabel(message), window)
		d.Show()
		go func() {
			time.Sleep(2 * time.Second)
			fyne.Do(func() { d.Hide() })
		}()
	})
}

// ShowSaveFile asks for a destination file and passes the opened writer to onSave.
// onSave owns the writer and must close it. Cancelling the dialog calls nothing.
func ShowSaveFile(window fyne.Window, fileName string, onSave func(w io.WriteCloser, name string), onError func(error)) {
	fyne.Do(func() {
		d := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				if onError != nil {
					onError(err)
				}
				return
			}
			if uc == nil {
				return
			}
			onSave(uc, uc.URI().Path())
		}, window)
		d.SetFileName(fileName)
		d.Show()
	})
}
