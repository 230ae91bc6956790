package main

import (
	"fmt"
	"log"
	"os"

	"fyne.io/fyne/v2"

	"appscan-traffic-recorder/core"
	"appscan-traffic-recorder/internal/config"
	"appscan-traffic-recorder/internal/logpane"
	"appscan-traffic-recorder/ui"
)

// defaultWindowSize is used until the first close stores a geometry.
var defaultWindowSize = fyne.NewSize(900, 600)

// main is the application's entry point. It creates the AppController, builds the window and runs the event loop.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "appscan-traffic-recorder: %v\n", err)
		os.Exit(2)
	}

	controller, err := core.NewAppController(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	controller.UIService.MainWindow = controller.UIService.Application.NewWindow(controller.AppInfo.Title())
	window := controller.UIService.MainWindow
	window.SetIcon(controller.UIService.AppIcon)

	app := ui.NewApp(window, controller)
	window.SetContent(app.Content())
	app.Restore(controller.Settings, defaultWindowSize)
	window.CenterOnScreen()

	controller.UIService.QuitFunc = app.Exit
	controller.UIService.Application.Lifecycle().SetOnStarted(func() {
		controller.UIService.SetupTray(controller.CreateTrayMenu)
		controller.CheckIfAlreadyRunning()
	})

	// Closing the window saves settings and exits; the tray does not keep the app alive.
	window.SetCloseIntercept(app.Exit)

	controller.Log(logpane.LevelInfo, "%s started", controller.AppInfo.ProductName)
	if url := controller.InitialServerURL(); url != "" && cfg.ServerURL != "" {
		controller.VerifyServer(url)
	}

	window.ShowAndRun()
}
