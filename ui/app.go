package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"appscan-traffic-recorder/core"
	"appscan-traffic-recorder/internal/logpane"
	"appscan-traffic-recorder/internal/settings"
)

// App manages the window content: header, navigation and the two panes.
type App struct {
	window fyne.Window
	core   *core.AppController

	header  *Header
	banner  *ErrorBanner
	panes   map[string]fyne.CanvasObject
	current string

	homeButton *widget.Button
	logButton  *widget.Button
	content    fyne.CanvasObject
}

// NewApp builds the UI and registers its callbacks on the controller.
func NewApp(window fyne.Window, controller *core.AppController) *App {
	app := &App{
		window: window,
		core:   controller,
		banner: NewErrorBanner(""),
	}
	app.banner.Hide()

	app.header = NewHeader(controller)
	app.panes = map[string]fyne.CanvasObject{
		settings.PaneHome: CreateHomePane(controller),
		settings.PaneLog:  CreateLogPane(controller),
	}

	app.homeButton = widget.NewButtonWithIcon("Home", theme.HomeIcon(), func() { app.ShowPane(settings.PaneHome) })
	app.logButton = widget.NewButtonWithIcon("Log", theme.ListIcon(), func() { app.ShowPane(settings.PaneLog) })
	aboutButton := widget.NewButtonWithIcon("About", theme.InfoIcon(), func() { ShowAbout(controller, window) })
	githubButton := widget.NewButtonWithIcon("GitHub", theme.ComputerIcon(), func() { OpenRepository(controller) })
	fullScreenButton := widget.NewButtonWithIcon("", theme.ViewFullScreenIcon(), app.ToggleFullScreen)

	nav := container.NewHBox(
		app.homeButton,
		app.logButton,
		layout.NewSpacer(),
		aboutButton,
		githubButton,
		fullScreenButton,
	)

	stack := container.NewStack(app.panes[settings.PaneHome], app.panes[settings.PaneLog])
	app.content = container.NewBorder(
		container.NewVBox(app.header.Container(), app.banner.GetContainer(), nav, widget.NewSeparator()),
		nil, nil, nil,
		stack,
	)

	controller.UIService.UpdateServerStatusFunc = app.updateServerStatus
	controller.UIService.SaveDataFunc = func(fileName string, data []byte) {
		SaveData(controller, window, fileName, data)
	}

	app.ShowPane(settings.PaneHome)
	return app
}

// Content returns the root object for the window.
func (a *App) Content() fyne.CanvasObject {
	return a.content
}

// ShowPane makes name the visible pane. Unknown names show the home pane.
func (a *App) ShowPane(name string) {
	if _, ok := a.panes[name]; !ok {
		name = settings.PaneHome
	}
	for paneName, pane := range a.panes {
		if paneName == name {
			pane.Show()
		} else {
			pane.Hide()
		}
	}
	a.current = name
	if name == settings.PaneHome {
		a.homeButton.Importance = widget.HighImportance
		a.logButton.Importance = widget.MediumImportance
	} else {
		a.homeButton.Importance = widget.MediumImportance
		a.logButton.Importance = widget.HighImportance
	}
	a.homeButton.Refresh()
	a.logButton.Refresh()
}

// CurrentPane returns the name of the visible pane.
func (a *App) CurrentPane() string {
	return a.current
}

// ToggleFullScreen switches the window in and out of full screen.
func (a *App) ToggleFullScreen() {
	a.window.SetFullScreen(!a.window.FullScreen())
}

// WindowState is the restorable state of the window.
func (a *App) WindowState() settings.WindowState {
	return settings.WindowState{Pane: a.current, FullScreen: a.window.FullScreen()}
}

// Geometry is the current window size.
func (a *App) Geometry() settings.Geometry {
	size := a.window.Canvas().Size()
	return settings.Geometry{Width: size.Width, Height: size.Height}
}

// Restore applies saved geometry and state. defaultSize is used without saved geometry.
func (a *App) Restore(s *settings.Settings, defaultSize fyne.Size) {
	if g, ok := s.Geometry(); ok {
		a.window.Resize(fyne.NewSize(g.Width, g.Height))
	} else {
		a.window.Resize(defaultSize)
	}
	if ws, ok := s.WindowState(); ok {
		a.ShowPane(ws.Pane)
		a.window.SetFullScreen(ws.FullScreen)
	}
}

// Exit saves the window settings and quits.
func (a *App) Exit() {
	a.core.GracefulExit(a.Geometry(), a.WindowState())
}

func (a *App) updateServerStatus(verified bool, detail string) {
	a.header.SetStatus(verified)
	if verified || detail == "" {
		a.banner.Hide()
		return
	}
	a.banner.SetMessage(detail)
	a.banner.Show()
	a.core.Log(logpane.LevelDebug, "Server status banner: %s", detail)
}
