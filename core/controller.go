package core

import (
	"fmt"
	"log"
	"os"
	"sync"

	"fyne.io/fyne/v2"

	"appscan-traffic-recorder/api"
	"appscan-traffic-recorder/core/services"
	"appscan-traffic-recorder/internal/appinfo"
	"appscan-traffic-recorder/internal/config"
	"appscan-traffic-recorder/internal/constants"
	"appscan-traffic-recorder/internal/debuglog"
	"appscan-traffic-recorder/internal/dialogs"
	"appscan-traffic-recorder/internal/logpane"
	"appscan-traffic-recorder/internal/platform"
	"appscan-traffic-recorder/internal/process"
	"appscan-traffic-recorder/internal/settings"
)

// AppController - the main structure encapsulating all application state and logic.
type AppController struct {
	// --- Services ---
	UIService       *services.UIService
	FileService     *services.FileService
	RecorderService *services.RecorderService

	// --- Models ---
	Settings   *settings.Settings
	LogBuffer  *logpane.Buffer
	ProxyTable *ProxyTable
	AppInfo    appinfo.Info
	Config     *config.Config

	verifiedMutex sync.RWMutex
	verified      bool
	verifySeq     uint64
}

// NewAppController creates and initializes a new AppController instance.
// application may be nil, in which case the Fyne application is created here.
func NewAppController(cfg *config.Config, application fyne.App) (*AppController, error) {
	return newAppController(cfg, application, fyne.Do)
}

// newAppController is NewAppController with the UI runner used to deliver
// background results; nil delivers them on the worker goroutine.
func newAppController(cfg *config.Config, application fyne.App, runOnUI func(func())) (*AppController, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	ac := &AppController{
		Config:     cfg,
		LogBuffer:  logpane.NewBuffer(logpane.DefaultCapacity),
		ProxyTable: NewProxyTable(),
	}

	info, err := appinfo.Load()
	if err != nil {
		return nil, fmt.Errorf("NewAppController: %w", err)
	}
	ac.AppInfo = info

	fileService, err := services.NewFileService(cfg.LogDir, cfg.SettingsPath, info.ProjectName())
	if err != nil {
		return nil, fmt.Errorf("NewAppController: %w", err)
	}
	if err := fileService.OpenLogFiles(constants.MainLogFileName, constants.APILogFileName); err != nil {
		return nil, fmt.Errorf("NewAppController: %w", err)
	}
	ac.FileService = fileService
	log.Printf("Application initializing... (%s)", info.Title())

	ac.Settings, err = settings.Open(fileService.SettingsPath, info.ProjectName())
	if err != nil {
		log.Printf("NewAppController: %v; starting with default settings", err)
		ac.Settings = settings.New(fileService.SettingsPath, info.ProjectName())
	}
	ac.LogBuffer.SetShowErrors(ac.Settings.ShowErrors())
	ac.LogBuffer.SetShowDebug(ac.Settings.ShowDebug())

	// A nil *os.File must not reach the client as a non-nil io.Writer.
	var recorder *api.Recorder
	if fileService.APILogFile != nil {
		recorder = api.NewRecorder(ac.InitialServerURL(), cfg.RequestTimeout, fileService.APILogFile)
	} else {
		recorder = api.NewRecorder(ac.InitialServerURL(), cfg.RequestTimeout, nil)
	}
	ac.RecorderService = services.NewRecorderService(recorder, services.NewDispatcher(runOnUI))

	ac.UIService = services.NewUIService(application)
	ac.ProxyTable.SetOnChanged(func() { ac.UIService.UpdateProxyTableFunc() })

	return ac, nil
}

// InitialServerURL is the URL to pre-fill: the configured one, else the last verified one.
func (ac *AppController) InitialServerURL() string {
	if ac.Config != nil && ac.Config.ServerURL != "" {
		return ac.Config.ServerURL
	}
	return ac.Settings.ServerURL()
}

// IsVerified reports whether the current server answered Info with 200.
func (ac *AppController) IsVerified() bool {
	ac.verifiedMutex.RLock()
	defer ac.verifiedMutex.RUnlock()
	return ac.verified
}

// beginVerify clears the verified flag and returns the sequence number of a new check.
func (ac *AppController) beginVerify() uint64 {
	ac.verifiedMutex.Lock()
	defer ac.verifiedMutex.Unlock()
	ac.verifySeq++
	ac.verified = false
	return ac.verifySeq
}

// finishVerify records the outcome of check seq. It reports false, leaving the
// state alone, when a newer check has started since.
func (ac *AppController) finishVerify(seq uint64, ok bool) bool {
	ac.verifiedMutex.Lock()
	defer ac.verifiedMutex.Unlock()
	if seq != ac.verifySeq {
		return false
	}
	ac.verified = ok
	return true
}

// VerifyServer points the client at url and checks it. On success the URL is
// remembered as the last server. Only the latest check updates the status.
func (ac *AppController) VerifyServer(url string) {
	url = api.NormalizeURL(url)
	seq := ac.beginVerify()
	ac.Log(logpane.LevelInfo, "Verifying server %s", url)
	ac.RecorderService.VerifyServer(url, services.Handlers{
		OnLog: ac.logMessage,
		OnVerified: func(ok bool, detail string) {
			if !ac.finishVerify(seq, ok) {
				ac.Log(logpane.LevelDebug, "Ignoring result for %s, a newer check is running", url)
				return
			}
			if ok {
				ac.Settings.SetServerURL(url)
				ac.Log(logpane.LevelInfo, "Connected to %s", url)
			} else {
				ac.Log(logpane.LevelError, "Could not verify %s: %s", url, detail)
			}
			ac.UIService.UpdateServerStatusFunc(ok, detail)
			ac.UIService.UpdateTrayMenuFunc()
		},
	})
}

// StartProxy validates the form values and asks the server for a listener.
// Validation errors are logged and returned; the call itself is asynchronous.
func (ac *AppController) StartProxy(mode PortMode, top, bottom string, encrypted bool) error {
	sel, err := ParsePortSelection(mode, top, bottom)
	if err != nil {
		ac.Log(logpane.LevelError, "Start proxy: %v", err)
		return err
	}
	req := sel.Request(encrypted)
	ac.Log(logpane.LevelDebug, "Starting proxy on %s (encrypted=%v)", sel, encrypted)

	ac.RecorderService.StartProxy(req, services.Handlers{
		OnLog: ac.logMessage,
		OnResponse: func(resp *api.Response) {
			if !resp.OK() {
				ac.Log(logpane.LevelError, "Start proxy on %s failed (%d): %s", sel, resp.StatusCode, resp.Message())
				return
			}
			result := api.StartProxyResult{Port: req.Port, EncryptTraffic: encrypted}
			if err := resp.Decode(&result); err != nil {
				ac.Log(logpane.LevelDebug, "Start proxy: %v", err)
			}
			if result.Port == 0 {
				result.Port = req.Port
			}
			ac.ProxyTable.Upsert(result.Port, result.EncryptTraffic, ProxyListening)
			ac.Log(logpane.LevelInfo, "Proxy listening on port %d. %s", result.Port, result.Message)
			ac.UIService.UpdateTrayMenuFunc()
		},
	})
	return nil
}

// StopProxy stops the listener on port.
func (ac *AppController) StopProxy(port int) {
	ac.ProxyTable.SetBusy(port, true)
	ac.RecorderService.StopProxy(port, services.Handlers{
		OnLog: func(level logpane.Level, msg string) {
			ac.ProxyTable.SetBusy(port, false)
			ac.Log(level, "%s", msg)
		},
		OnResponse: func(resp *api.Response) {
			ac.ProxyTable.SetBusy(port, false)
			if !resp.OK() {
				ac.Log(logpane.LevelError, "Stop proxy on port %d failed (%d): %s", port, resp.StatusCode, resp.Message())
				return
			}
			ac.ProxyTable.SetStatus(port, ProxyStopped)
			ac.Log(logpane.LevelInfo, "Proxy on port %d stopped. %s", port, resp.Message())
			ac.UIService.UpdateTrayMenuFunc()
		},
	})
}

// StopAllProxies stops every listener on the server.
func (ac *AppController) StopAllProxies() {
	ac.Log(logpane.LevelDebug, "Stopping all proxies")
	ac.RecorderService.StopAllProxies(services.Handlers{
		OnLog: ac.logMessage,
		OnResponse: func(resp *api.Response) {
			if !resp.OK() {
				ac.Log(logpane.LevelError, "Stop all proxies failed (%d): %s", resp.StatusCode, resp.Message())
				return
			}
			ac.ProxyTable.SetAllStatus(ProxyStopped)
			ac.Log(logpane.LevelInfo, "All proxies stopped. %s", resp.Message())
			ac.UIService.UpdateTrayMenuFunc()
		},
	})
}

// RemoveProxy drops a stopped row from the table.
func (ac *AppController) RemoveProxy(port int) error {
	if err := ac.ProxyTable.Remove(port); err != nil {
		ac.Log(logpane.LevelError, "%v", err)
		return err
	}
	ac.Log(logpane.LevelDebug, "Removed port %d from the table", port)
	return nil
}

// DownloadTraffic fetches the traffic recorded on port and hands it to the save dialog.
func (ac *AppController) DownloadTraffic(port int) {
	ac.ProxyTable.SetBusy(port, true)
	ac.RecorderService.Traffic(port, services.Handlers{
		OnLog: func(level logpane.Level, msg string) {
			ac.ProxyTable.SetBusy(port, false)
			ac.Log(level, "%s", msg)
		},
		OnResponse: func(resp *api.Response) {
			ac.ProxyTable.SetBusy(port, false)
			ac.saveDownload(fmt.Sprintf("traffic for port %d", port), fmt.Sprintf(constants.TrafficFileNamePattern, port), resp)
		},
	})
}

// DownloadCertificate fetches the recorder's root certificate and hands it to the save dialog.
func (ac *AppController) DownloadCertificate() {
	ac.RecorderService.Certificate(services.Handlers{
		OnLog: ac.logMessage,
		OnResponse: func(resp *api.Response) {
			ac.saveDownload("certificate", constants.CertificateFileName, resp)
		},
	})
}

func (ac *AppController) saveDownload(what, fileName string, resp *api.Response) {
	if !resp.OK() {
		ac.Log(logpane.LevelError, "Download %s failed (%d): %s", what, resp.StatusCode, resp.Message())
		return
	}
	ac.Log(logpane.LevelInfo, "Downloaded %s (%d bytes)", what, len(resp.Body))
	ac.UIService.SaveDataFunc(fileName, resp.Body)
}

// SetShowErrors toggles error entries in the log pane and persists the choice.
func (ac *AppController) SetShowErrors(on bool) {
	ac.LogBuffer.SetShowErrors(on)
	ac.Settings.SetShowErrors(on)
	ac.syncSettings()
}

// SetShowDebug toggles debug entries in the log pane and persists the choice.
func (ac *AppController) SetShowDebug(on bool) {
	ac.LogBuffer.SetShowDebug(on)
	ac.Settings.SetShowDebug(on)
	ac.syncSettings()
}

// SaveWindowSettings records the window size and state and writes the INI file.
func (ac *AppController) SaveWindowSettings(size settings.Geometry, state settings.WindowState) {
	ac.Settings.SetGeometry(size)
	ac.Settings.SetWindowState(state)
	ac.Settings.SetShowErrors(ac.LogBuffer.ShowErrors())
	ac.Settings.SetShowDebug(ac.LogBuffer.ShowDebug())
	ac.syncSettings()
}

func (ac *AppController) syncSettings() {
	if err := ac.Settings.Sync(); err != nil {
		log.Printf("syncSettings: cannot write %s: %v", ac.Settings.Path(), err)
	}
}

// CheckIfAlreadyRunning warns when another process runs the same executable.
func (ac *AppController) CheckIfAlreadyRunning() {
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("CheckIfAlreadyRunning: cannot detect executable path: %v", err)
		return
	}
	other, found, err := process.FindOtherInstance(execPath, os.Getpid())
	if err != nil {
		log.Printf("CheckIfAlreadyRunning: error listing processes: %v", err)
		return
	}
	if found {
		debuglog.Warnf("CheckIfAlreadyRunning", "found %s (pid %d)", other.Name, other.PID)
		dialogs.ShowInfo(ac.UIService.MainWindow, "Information",
			"The application is already running. Use the existing instance or close it before starting a new one.")
	}
}

// OpenLogsFolder opens the log directory in the file manager.
func (ac *AppController) OpenLogsFolder() {
	if err := platform.OpenFolder(ac.FileService.LogDir); err != nil {
		ac.Log(logpane.LevelError, "Failed to open %s: %v", ac.FileService.LogDir, err)
	}
}

// Shutdown stops background work and closes the log files. It leaves the
// Fyne application running.
func (ac *AppController) Shutdown() {
	ac.UIService.StopTrayMenuUpdateTimer()
	ac.RecorderService.Close()
	log.Println("Shutdown: background work stopped")
	ac.FileService.CloseLogFiles()
}

// GracefulExit saves the window settings, shuts down and quits the application.
func (ac *AppController) GracefulExit(size settings.Geometry, state settings.WindowState) {
	ac.SaveWindowSettings(size, state)
	ac.Shutdown()
	ac.UIService.QuitApplication()
}

// StatusText describes the connection for the header label.
func (ac *AppController) StatusText() string {
	if ac.IsVerified() {
		return "Connected"
	}
	return "Not connected"
}
