package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"appscan-traffic-recorder/internal/constants"
)

// GetLogsDir returns the path to the logs directory under baseDir
func GetLogsDir(baseDir string) string {
	return filepath.Join(baseDir, constants.LogsDirName)
}

// GetConfigDir returns the per-user configuration directory.
// Falls back to the working directory when the OS does not report one.
func GetConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "."
	}
	return dir
}

// GetSettingsPath returns <config dir>/<projectName>.ini
func GetSettingsPath(projectName string) string {
	return filepath.Join(GetConfigDir(), projectName+constants.SettingsFileExt)
}

// EnsureDirectories creates the given directories if they don't exist
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
