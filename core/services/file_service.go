package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"appscan-traffic-recorder/internal/debuglog"
	"appscan-traffic-recorder/internal/platform"
)

// maxLogFileSize is the size after which a log file is moved to .old on open.
var maxLogFileSize int64 = 10 * 1024 * 1024 // 10 MB

// FileService manages file paths and log file handles.
// It encapsulates file-related operations to reduce AppController complexity.
type FileService struct {
	// File paths
	ExecDir      string
	LogDir       string
	SettingsPath string

	// Log files
	MainLogFile *os.File
	APILogFile  *os.File
}

// NewFileService resolves paths and creates the directories they live in.
// Empty logDir means <executable dir>/logs; empty settingsPath means
// <user config dir>/<projectName>.ini.
func NewFileService(logDir, settingsPath, projectName string) (*FileService, error) {
	fs := &FileService{}

	ex, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("NewFileService: cannot determine executable path: %w", err)
	}
	fs.ExecDir = filepath.Dir(ex)

	fs.LogDir = logDir
	if fs.LogDir == "" {
		fs.LogDir = platform.GetLogsDir(fs.ExecDir)
	}
	fs.SettingsPath = settingsPath
	if fs.SettingsPath == "" {
		fs.SettingsPath = platform.GetSettingsPath(projectName)
	}

	if err := platform.EnsureDirectories(fs.LogDir, filepath.Dir(fs.SettingsPath)); err != nil {
		return nil, fmt.Errorf("NewFileService: cannot create directories: %w", err)
	}
	return fs, nil
}

// OpenLogFiles opens the process log (which becomes the output of the standard
// logger) and the API trace log, both with rotation.
func (fs *FileService) OpenLogFiles(mainLogFileName, apiLogFileName string) error {
	logFile, err := fs.OpenLogFileWithRotation(filepath.Join(fs.LogDir, mainLogFileName))
	if err != nil {
		return fmt.Errorf("OpenLogFiles: cannot open main log file: %w", err)
	}
	log.SetOutput(logFile)
	fs.MainLogFile = logFile

	apiLogFile, err := fs.OpenLogFileWithRotation(filepath.Join(fs.LogDir, apiLogFileName))
	if err != nil {
		log.Printf("OpenLogFiles: failed to open API log file: %v", err)
		fs.APILogFile = nil
	} else {
		fs.APILogFile = apiLogFile
	}

	return nil
}

// CloseLogFiles closes all log files and sends the standard logger back to stderr.
func (fs *FileService) CloseLogFiles() {
	if fs.APILogFile != nil {
		debuglog.CloseWithLog("CloseLogFiles: API log", fs.APILogFile)
		fs.APILogFile = nil
	}
	if fs.MainLogFile != nil {
		log.SetOutput(os.Stderr)
		debuglog.CloseWithLog("CloseLogFiles: main log", fs.MainLogFile)
		fs.MainLogFile = nil
	}
}

// OpenLogFileWithRotation opens a log file for appending, rotating it first if needed.
func (fs *FileService) OpenLogFileWithRotation(logPath string) (*os.File, error) {
	CheckAndRotateLogFile(logPath)
	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// CheckAndRotateLogFile renames logPath to logPath.old when it exceeds maxLogFileSize.
// An existing .old file is replaced.
func CheckAndRotateLogFile(logPath string) {
	info, err := os.Stat(logPath)
	if err != nil {
		return // File doesn't exist yet, nothing to rotate
	}

	if info.Size() > maxLogFileSize {
		oldPath := logPath + ".old"
		_ = os.Remove(oldPath)
		if err := os.Rename(logPath, oldPath); err != nil {
			log.Printf("CheckAndRotateLogFile: Failed to rotate log file %s: %v", logPath, err)
		} else {
			log.Printf("CheckAndRotateLogFile: Rotated log file %s (size: %d bytes)", logPath, info.Size())
		}
	}
}
