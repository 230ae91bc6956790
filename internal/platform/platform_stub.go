//go:build !linux && !darwin && !windows
// +build !linux,!darwin,!windows

package platform

import (
	"fmt"
	"runtime"
)

// OpenFolder is not supported on this platform
func OpenFolder(path string) error {
	return fmt.Errorf("OpenFolder not supported on %s", runtime.GOOS)
}

// OpenURL is not supported on this platform
func OpenURL(url string) error {
	return fmt.Errorf("OpenURL not supported on %s", runtime.GOOS)
}
