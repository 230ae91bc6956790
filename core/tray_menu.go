package core

import (
	"runtime"

	"fyne.io/fyne/v2"
)

// CreateTrayMenu creates the system tray menu.
func (ac *AppController) CreateTrayMenu() *fyne.Menu {
	menuItems := []*fyne.MenuItem{}

	// macOS: separator at top to fix menu positioning
	if runtime.GOOS == "darwin" {
		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Open", ac.UIService.ShowMainWindow),
		fyne.NewMenuItem("Open Logs Folder", ac.OpenLogsFolder),
		fyne.NewMenuItemSeparator(),
	)

	stopAll := fyne.NewMenuItem("Stop All Proxies", ac.StopAllProxies)
	stopAll.Disabled = !ac.hasListeningProxy()
	menuItems = append(menuItems, stopAll, fyne.NewMenuItemSeparator())

	menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() { ac.UIService.QuitFunc() }))

	return fyne.NewMenu(ac.AppInfo.ProductName, menuItems...)
}

func (ac *AppController) hasListeningProxy() bool {
	for _, row := range ac.ProxyTable.Rows() {
		if row.Status == ProxyListening {
			return true
		}
	}
	return false
}
