package services

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckAndRotateLogFile(t *testing.T) {
	old := maxLogFileSize
	maxLogFileSize = 16
	t.Cleanup(func() { maxLogFileSize = old })

	dir := t.TempDir()

	t.Run("small file stays", func(t *testing.T) {
		path := filepath.Join(dir, "small.log")
		if err := os.WriteFile(path, []byte("short"), 0644); err != nil {
			t.Fatal(err)
		}
		CheckAndRotateLogFile(path)
		if _, err := os.Stat(path + ".old"); !os.IsNotExist(err) {
			t.Errorf("expected no .old file, got err=%v", err)
		}
	})

	t.Run("large file moves to .old", func(t *testing.T) {
		path := filepath.Join(dir, "big.log")
		if err := os.WriteFile(path+".old", []byte("stale"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(strings.Repeat("x", 64)), 0644); err != nil {
			t.Fatal(err)
		}
		CheckAndRotateLogFile(path)

		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("expected %s to be rotated away, got err=%v", path, err)
		}
		data, err := os.ReadFile(path + ".old")
		if err != nil {
			t.Fatal(err)
		}
		if len(data) != 64 {
			t.Errorf("expected rotated content, got %q", data)
		}
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		CheckAndRotateLogFile(filepath.Join(dir, "missing.log"))
	})
}

func TestFileServiceOpenLogFiles(t *testing.T) {
	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")
	settingsPath := filepath.Join(dir, "conf", "Project.ini")

	fs, err := NewFileService(logDir, settingsPath, "Project")
	if err != nil {
		t.Fatalf("NewFileService: %v", err)
	}
	if fs.LogDir != logDir || fs.SettingsPath != settingsPath {
		t.Errorf("unexpected paths %q / %q", fs.LogDir, fs.SettingsPath)
	}
	if _, err := os.Stat(filepath.Join(dir, "conf")); err != nil {
		t.Errorf("expected settings dir to exist: %v", err)
	}

	if err := fs.OpenLogFiles("main.log", "api.log"); err != nil {
		t.Fatalf("OpenLogFiles: %v", err)
	}
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	log.Printf("hello from test")
	if _, err := fs.APILogFile.WriteString("api line\n"); err != nil {
		t.Fatal(err)
	}
	fs.CloseLogFiles()

	mainLog, err := os.ReadFile(filepath.Join(logDir, "main.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(mainLog), "hello from test") {
		t.Errorf("expected standard logger output in main log, got %q", mainLog)
	}
	apiLog, err := os.ReadFile(filepath.Join(logDir, "api.log"))
	if err != nil {
		t.Fatal(err)
	}
	if string(apiLog) != "api line\n" {
		t.Errorf("unexpected api log %q", apiLog)
	}
	if fs.MainLogFile != nil || fs.APILogFile != nil {
		t.Error("expected handles to be cleared after CloseLogFiles")
	}
}
