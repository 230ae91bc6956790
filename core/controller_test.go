//go:build cgo

package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"fyne.io/fyne/v2/test"

	"appscan-traffic-recorder/internal/config"
	"appscan-traffic-recorder/internal/logpane"
	"appscan-traffic-recorder/internal/settings"
)

// mockRecorderServer is a minimal Automation API that tracks listening ports.
type mockRecorderServer struct {
	mu        sync.Mutex
	listening map[string]bool
}

func (m *mockRecorderServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reply := func(status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	switch {
	case r.URL.Path == "/automation/Info":
		reply(http.StatusOK, map[string]string{"version": "10.0"})
	case strings.HasPrefix(r.URL.Path, "/automation/StartProxy/"):
		port := strings.TrimPrefix(r.URL.Path, "/automation/StartProxy/")
		if port == "1" {
			reply(http.StatusBadRequest, map[string]string{"message": "port 1 is reserved"})
			return
		}
		if lower, _, isRange := strings.Cut(port, ","); isRange {
			port = lower
		}
		m.listening[port] = true
		reply(http.StatusOK, map[string]interface{}{
			"port":           json.Number(port),
			"encryptTraffic": r.URL.Query().Get("encrypted") == "True",
			"message":        "Proxy started",
		})
	case strings.HasPrefix(r.URL.Path, "/automation/StopProxy/"):
		delete(m.listening, strings.TrimPrefix(r.URL.Path, "/automation/StopProxy/"))
		reply(http.StatusOK, map[string]string{"message": "Proxy stopped"})
	case r.URL.Path == "/automation/StopAllProxies":
		m.listening = map[string]bool{}
		reply(http.StatusOK, map[string]string{"message": "All proxies stopped"})
	case r.URL.Path == "/automation/Certificate":
		_, _ = w.Write([]byte("-----BEGIN CERTIFICATE-----"))
	case strings.HasPrefix(r.URL.Path, "/automation/Traffic/"):
		reply(http.StatusNotFound, map[string]string{"message": "no traffic recorded"})
	default:
		http.NotFound(w, r)
	}
}

func newTestController(t *testing.T, serverURL string) *AppController {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		ServerURL:    serverURL,
		LogDir:       filepath.Join(dir, "logs"),
		SettingsPath: filepath.Join(dir, "settings.ini"),
	}
	a := test.NewApp()
	t.Cleanup(a.Quit)

	ac, err := newAppController(cfg, a, nil)
	if err != nil {
		t.Fatalf("newAppController: %v", err)
	}
	t.Cleanup(ac.Shutdown)
	return ac
}

func (ac *AppController) waitForCalls() {
	ac.RecorderService.Dispatcher.Wait()
}

func logMessages(ac *AppController, level logpane.Level) []string {
	var out []string
	for _, e := range ac.LogBuffer.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func TestControllerProxyLifecycle(t *testing.T) {
	srv := httptest.NewServer(&mockRecorderServer{listening: map[string]bool{}})
	defer srv.Close()
	ac := newTestController(t, srv.URL)

	ac.VerifyServer(srv.URL)
	ac.waitForCalls()
	if !ac.IsVerified() || ac.StatusText() != "Connected" {
		t.Fatalf("expected server to be verified, errors: %v", logMessages(ac, logpane.LevelError))
	}
	if ac.Settings.ServerURL() != srv.URL {
		t.Errorf("expected verified URL to be remembered, got %q", ac.Settings.ServerURL())
	}

	if err := ac.StartProxy(PortModeSpecify, "8080", "", true); err != nil {
		t.Fatal(err)
	}
	ac.waitForCalls()
	row, ok := ac.ProxyTable.Find(8080)
	if !ok || row.Status != ProxyListening || !row.Encrypted {
		t.Fatalf("expected encrypted listening row for 8080, got %+v (found=%v)", row, ok)
	}
	if !ac.hasListeningProxy() {
		t.Error("expected a listening proxy")
	}

	if err := ac.RemoveProxy(8080); err == nil {
		t.Error("expected RemoveProxy to refuse a listening row")
	}

	ac.StopProxy(8080)
	ac.waitForCalls()
	row, _ = ac.ProxyTable.Find(8080)
	if row.Status != ProxyStopped || row.Busy {
		t.Fatalf("expected stopped idle row, got %+v", row)
	}

	if err := ac.RemoveProxy(8080); err != nil {
		t.Fatalf("RemoveProxy: %v", err)
	}
	if ac.ProxyTable.Len() != 0 {
		t.Errorf("expected empty table, got %+v", ac.ProxyTable.Rows())
	}
}

func TestControllerStartProxyRangeUsesServerPort(t *testing.T) {
	srv := httptest.NewServer(&mockRecorderServer{listening: map[string]bool{}})
	defer srv.Close()
	ac := newTestController(t, srv.URL)

	if err := ac.StartProxy(PortModeRange, "9000", "9010", false); err != nil {
		t.Fatal(err)
	}
	ac.waitForCalls()
	rows := ac.ProxyTable.Rows()
	if len(rows) != 1 || rows[0].Port != 9000 || rows[0].Encrypted {
		t.Errorf("unexpected rows %+v", rows)
	}

	ac.StopAllProxies()
	ac.waitForCalls()
	if rows := ac.ProxyTable.Rows(); rows[0].Status != ProxyStopped {
		t.Errorf("expected all rows stopped, got %+v", rows)
	}
}

func TestControllerStartProxyFailures(t *testing.T) {
	srv := httptest.NewServer(&mockRecorderServer{listening: map[string]bool{}})
	defer srv.Close()
	ac := newTestController(t, srv.URL)

	if err := ac.StartProxy(PortModeSpecify, "70000", "", false); err == nil {
		t.Error("expected validation error")
	}

	if err := ac.StartProxy(PortModeSpecify, "1", "", false); err != nil {
		t.Fatal(err)
	}
	ac.waitForCalls()

	if ac.ProxyTable.Len() != 0 {
		t.Errorf("expected no rows after failures, got %+v", ac.ProxyTable.Rows())
	}
	errs := logMessages(ac, logpane.LevelError)
	if len(errs) != 2 {
		t.Fatalf("expected 2 error entries, got %v", errs)
	}
	if !strings.Contains(errs[1], "port 1 is reserved") {
		t.Errorf("expected server message in log, got %q", errs[1])
	}
}

func TestControllerVerifyUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ac := newTestController(t, "")
	var status []bool
	var mu sync.Mutex
	ac.UIService.UpdateServerStatusFunc = func(verified bool, detail string) {
		mu.Lock()
		status = append(status, verified)
		mu.Unlock()
	}

	ac.VerifyServer(url)
	ac.waitForCalls()

	if ac.IsVerified() {
		t.Error("expected verification to fail")
	}
	if len(status) != 1 || status[0] {
		t.Errorf("expected one negative status update, got %v", status)
	}
	if ac.Settings.ServerURL() != "" {
		t.Errorf("expected unverified URL not to be remembered, got %q", ac.Settings.ServerURL())
	}
}

func TestControllerDownloads(t *testing.T) {
	srv := httptest.NewServer(&mockRecorderServer{listening: map[string]bool{}})
	defer srv.Close()
	ac := newTestController(t, srv.URL)

	var (
		mu    sync.Mutex
		saved = map[string]string{}
	)
	ac.UIService.SaveDataFunc = func(fileName string, data []byte) {
		mu.Lock()
		saved[fileName] = string(data)
		mu.Unlock()
	}

	ac.DownloadCertificate()
	ac.waitForCalls()
	ac.ProxyTable.Upsert(8080, false, ProxyStopped)
	ac.DownloadTraffic(8080)
	ac.waitForCalls()

	if saved["AppScanTrafficRecorder.cer"] != "-----BEGIN CERTIFICATE-----" {
		t.Errorf("expected certificate to be saved, got %v", saved)
	}
	if _, ok := saved["traffic_8080.har"]; ok {
		t.Error("expected failed traffic download not to be saved")
	}
	if row, _ := ac.ProxyTable.Find(8080); row.Busy {
		t.Error("expected row to be idle after download")
	}
	errs := logMessages(ac, logpane.LevelError)
	if len(errs) != 1 || !strings.Contains(errs[0], "no traffic recorded") {
		t.Errorf("unexpected errors %v", errs)
	}
}

func TestControllerPersistsSettings(t *testing.T) {
	ac := newTestController(t, "")

	ac.SetShowDebug(false)
	ac.SaveWindowSettings(settings.Geometry{Width: 800, Height: 600}, settings.WindowState{Pane: settings.PaneLog, FullScreen: true})

	reloaded, err := settings.Open(ac.FileService.SettingsPath, ac.AppInfo.ProjectName())
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.ShowDebug() || !reloaded.ShowErrors() {
		t.Errorf("unexpected toggles debug=%v errors=%v", reloaded.ShowDebug(), reloaded.ShowErrors())
	}
	if g, ok := reloaded.Geometry(); !ok || g.Width != 800 || g.Height != 600 {
		t.Errorf("unexpected geometry %+v", g)
	}
	if ws, ok := reloaded.WindowState(); !ok || ws.Pane != settings.PaneLog || !ws.FullScreen {
		t.Errorf("unexpected window state %+v", ws)
	}

	ac.Log(logpane.LevelDebug, "hidden")
	if ac.LogBuffer.Len() != 0 {
		t.Error("expected debug entries to be filtered out")
	}
}

func TestCreateTrayMenu(t *testing.T) {
	ac := newTestController(t, "")

	menu := ac.CreateTrayMenu()
	var labels []string
	var stopAllDisabled bool
	for _, item := range menu.Items {
		if item.IsSeparator {
			continue
		}
		labels = append(labels, item.Label)
		if item.Label == "Stop All Proxies" {
			stopAllDisabled = item.Disabled
		}
	}
	if strings.Join(labels, ",") != "Open,Open Logs Folder,Stop All Proxies,Quit" {
		t.Errorf("unexpected tray items %v", labels)
	}
	if !stopAllDisabled {
		t.Error("expected Stop All Proxies to be disabled without listeners")
	}

	ac.ProxyTable.Upsert(8080, false, ProxyListening)
	for _, item := range ac.CreateTrayMenu().Items {
		if item.Label == "Stop All Proxies" && item.Disabled {
			t.Error("expected Stop All Proxies to be enabled with a listener")
		}
	}
}

func TestVerifyServerIgnoresStaleResult(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version": "10.0"}`))
	}))
	defer slow.Close()
	gone := httptest.NewServer(http.NotFoundHandler())
	unreachable := gone.URL
	gone.Close()

	ac := newTestController(t, "")
	var mu sync.Mutex
	var statuses []bool
	ac.UIService.UpdateServerStatusFunc = func(ok bool, detail string) {
		mu.Lock()
		statuses = append(statuses, ok)
		mu.Unlock()
	}

	ac.VerifyServer(slow.URL + "/")
	ac.VerifyServer(unreachable)
	close(release)
	ac.waitForCalls()

	if ac.IsVerified() {
		t.Error("expected the older check not to mark the server verified")
	}
	if got := ac.Settings.ServerURL(); got != "" {
		t.Errorf("expected no server URL to be remembered, got %q", got)
	}
	for _, msg := range logMessages(ac, logpane.LevelInfo) {
		if strings.HasPrefix(msg, "Connected to") {
			t.Errorf("unexpected %q from the older check", msg)
		}
	}
	mu.Lock()
	if len(statuses) != 1 || statuses[0] {
		t.Errorf("expected one failed status update, got %v", statuses)
	}
	mu.Unlock()

	ac.VerifyServer(slow.URL + "/")
	ac.waitForCalls()
	if !ac.IsVerified() {
		t.Fatalf("expected the latest check to verify, errors: %v", logMessages(ac, logpane.LevelError))
	}
	if got := ac.Settings.ServerURL(); got != slow.URL {
		t.Errorf("expected %q to be remembered without the trailing slash, got %q", slow.URL, got)
	}
}
