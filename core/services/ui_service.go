package services

import (
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"appscan-traffic-recorder/internal/constants"
)

// trayMenuDebounce delays tray menu rebuilds so rapid state changes collapse into one.
const trayMenuDebounce = 150 * time.Millisecond

// UIService manages UI-related state, callbacks, and tray menu logic.
// It encapsulates all Fyne components and UI state to reduce AppController complexity.
type UIService struct {
	// Fyne Components
	Application fyne.App
	MainWindow  fyne.Window
	AppIcon     fyne.Resource

	// Tray menu update protection
	TrayMenuUpdateMutex sync.Mutex
	TrayMenuUpdateTimer *time.Timer

	// Callbacks for UI logic, set by the ui package once widgets exist.
	UpdateProxyTableFunc   func()
	UpdateServerStatusFunc func(verified bool, detail string)
	UpdateTrayMenuFunc     func()
	SaveDataFunc           func(fileName string, data []byte)
	// QuitFunc ends the application from outside the window (tray menu).
	QuitFunc func()
}

// NewUIService wraps application, or creates the Fyne application when it is nil.
func NewUIService(application fyne.App) *UIService {
	ui := &UIService{
		AppIcon: theme.MediaRecordIcon(),
	}

	if application == nil {
		log.Println("UIService: Initializing Fyne application...")
		application = app.NewWithID(constants.AppID)
	}
	ui.Application = application
	ui.Application.SetIcon(ui.AppIcon)

	switch constants.AppTheme {
	case "dark":
		ui.Application.Settings().SetTheme(theme.DarkTheme())
	case "light":
		ui.Application.Settings().SetTheme(theme.LightTheme())
	}

	ui.UpdateProxyTableFunc = func() { log.Println("UpdateProxyTableFunc handler is not set yet.") }
	ui.UpdateServerStatusFunc = func(verified bool, detail string) {
		log.Printf("UpdateServerStatusFunc handler is not set yet. Verified: %v", verified)
	}
	ui.UpdateTrayMenuFunc = func() { log.Println("UpdateTrayMenuFunc handler is not set yet.") }
	ui.SaveDataFunc = func(fileName string, data []byte) {
		log.Printf("SaveDataFunc handler is not set yet. Dropping %s (%d bytes)", fileName, len(data))
	}

	ui.QuitFunc = ui.QuitApplication

	return ui
}

// SetupTray installs the tray icon and a debounced menu updater built from
// createMenu. It does nothing on drivers without a system tray.
func (ui *UIService) SetupTray(createMenu func() *fyne.Menu) {
	desk, ok := ui.Application.(desktop.App)
	if !ok {
		log.Println("UIService: system tray is not supported by this driver")
		return
	}

	ui.UpdateTrayMenuFunc = func() {
		ui.TrayMenuUpdateMutex.Lock()
		defer ui.TrayMenuUpdateMutex.Unlock()

		if ui.TrayMenuUpdateTimer != nil {
			ui.TrayMenuUpdateTimer.Stop()
		}
		ui.TrayMenuUpdateTimer = time.AfterFunc(trayMenuDebounce, func() {
			fyne.Do(func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("UpdateTrayMenu: Recovered from panic: %v", r)
					}
				}()
				desk.SetSystemTrayMenu(createMenu())
			})
		})
	}

	desk.SetSystemTrayIcon(ui.AppIcon)
	desk.SetSystemTrayMenu(createMenu())
}

// ShowMainWindow shows and focuses the main window.
func (ui *UIService) ShowMainWindow() {
	if ui.MainWindow == nil {
		return
	}
	ui.MainWindow.Show()
	ui.MainWindow.RequestFocus()
}

// StopTrayMenuUpdateTimer safely stops the tray menu update timer.
func (ui *UIService) StopTrayMenuUpdateTimer() {
	ui.TrayMenuUpdateMutex.Lock()
	defer ui.TrayMenuUpdateMutex.Unlock()
	if ui.TrayMenuUpdateTimer != nil {
		ui.TrayMenuUpdateTimer.Stop()
		ui.TrayMenuUpdateTimer = nil
	}
}

// QuitApplication quits the Fyne application.
func (ui *UIService) QuitApplication() {
	if ui.Application != nil {
		ui.Application.Quit()
	}
}
