package core

import (
	"errors"
	"fmt"
	"log"

	"appscan-traffic-recorder/internal/dialogs"
	"appscan-traffic-recorder/internal/logpane"
)

func (ac *AppController) hasWindow() bool {
	return ac.UIService != nil && ac.UIService.MainWindow != nil
}

// ShowInputError shows a rejected form value, e.g. a port outside 1-65535.
func (ac *AppController) ShowInputError(err error) {
	if ac.hasWindow() {
		dialogs.ShowErrorText(ac.UIService.MainWindow, "Invalid input", err.Error())
	}
	log.Printf("InputError: %v", err)
}

// ShowSaveError shows a failure to write a downloaded file and logs it to the pane.
func (ac *AppController) ShowSaveError(fileName string, err error) {
	ac.Log(logpane.LevelError, "Saving %s failed: %v", fileName, err)
	if ac.hasWindow() {
		dialogs.ShowError(ac.UIService.MainWindow, fmt.Errorf("Could not save %s:\n\n%w", fileName, err))
	}
}

// ShowRemoveError explains why a row could not be removed.
func (ac *AppController) ShowRemoveError(port int, err error) {
	message := err.Error()
	if errors.Is(err, ErrProxyListening) {
		message = fmt.Sprintf("The proxy on port %d is still listening. Stop it before removing it from the table.", port)
	}
	if ac.hasWindow() {
		dialogs.ShowInfo(ac.UIService.MainWindow, "Remove proxy", message)
	}
	log.Printf("RemoveError: %v", err)
}
