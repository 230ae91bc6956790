// Package settings persists the client's window and display preferences in an
// INI file, one section per project name.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/ini.v1"
)

// INI keys inside the project section.
const (
	KeyGeometry    = "geometry"
	KeyWindowState = "windowState"
	KeyShowErrors  = "showErrors"
	KeyShowDebug   = "showDebug"
	KeyServerURL   = "serverUrl"
)

// Panes that can be restored through WindowState.
const (
	PaneHome = "home"
	PaneLog  = "log"
)

// Geometry is the window size in Fyne units.
type Geometry struct {
	Width  float32
	Height float32
}

// WindowState is the restorable part of the window besides its size.
type WindowState struct {
	Pane       string
	FullScreen bool
}

// Settings is an INI-backed key/value store. Safe for concurrent use.
type Settings struct {
	mu      sync.Mutex
	path    string
	section string
	file    *ini.File
}

// Open loads path if it exists. A missing file yields empty settings.
func Open(path, section string) (*Settings, error) {
	f, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings %s: %w", path, err)
	}
	return &Settings{path: path, section: section, file: f}, nil
}

// New returns empty settings that will be written to path.
func New(path, section string) *Settings {
	return &Settings{path: path, section: section, file: ini.Empty()}
}

// Path returns the INI file location.
func (s *Settings) Path() string {
	return s.path
}

func (s *Settings) get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec := s.file.Section(s.section)
	if !sec.HasKey(key) {
		return "", false
	}
	return sec.Key(key).String(), true
}

func (s *Settings) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file.Section(s.section).Key(key).SetValue(value)
}

func (s *Settings) getFlag(key string) bool {
	v, ok := s.get(key)
	if !ok {
		return true
	}
	return v == "1"
}

func (s *Settings) setFlag(key string, on bool) {
	if on {
		s.set(key, "1")
	} else {
		s.set(key, "0")
	}
}

// Geometry returns the saved window size, if any.
func (s *Settings) Geometry() (Geometry, bool) {
	raw, ok := s.get(KeyGeometry)
	if !ok {
		return Geometry{}, false
	}
	w, h, found := strings.Cut(raw, "x")
	if !found {
		return Geometry{}, false
	}
	width, err1 := strconv.ParseFloat(w, 32)
	height, err2 := strconv.ParseFloat(h, 32)
	if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
		return Geometry{}, false
	}
	return Geometry{Width: float32(width), Height: float32(height)}, true
}

func (s *Settings) SetGeometry(g Geometry) {
	s.set(KeyGeometry, fmt.Sprintf("%.0fx%.0f", g.Width, g.Height))
}

// WindowState returns the saved pane and full-screen flag, if any.
func (s *Settings) WindowState() (WindowState, bool) {
	raw, ok := s.get(KeyWindowState)
	if !ok || raw == "" {
		return WindowState{}, false
	}
	pane, flag, _ := strings.Cut(raw, "|")
	if pane != PaneHome && pane != PaneLog {
		pane = PaneHome
	}
	return WindowState{Pane: pane, FullScreen: flag == "fullscreen"}, true
}

func (s *Settings) SetWindowState(ws WindowState) {
	raw := ws.Pane
	if ws.FullScreen {
		raw += "|fullscreen"
	}
	s.set(KeyWindowState, raw)
}

// ShowErrors defaults to true when never saved.
func (s *Settings) ShowErrors() bool     { return s.getFlag(KeyShowErrors) }
func (s *Settings) SetShowErrors(on bool) { s.setFlag(KeyShowErrors, on) }

// ShowDebug defaults to true when never saved.
func (s *Settings) ShowDebug() bool     { return s.getFlag(KeyShowDebug) }
func (s *Settings) SetShowDebug(on bool) { s.setFlag(KeyShowDebug, on) }

// ServerURL is the last server URL that answered Info with 200.
func (s *Settings) ServerURL() string {
	v, _ := s.get(KeyServerURL)
	return v
}

func (s *Settings) SetServerURL(url string) {
	s.set(KeyServerURL, url)
}

// Sync writes the settings to disk, creating the parent directory.
func (s *Settings) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings dir: %w", err)
		}
	}
	if err := s.file.SaveTo(s.path); err != nil {
		return fmt.Errorf("failed to save settings %s: %w", s.path, err)
	}
	return nil
}
