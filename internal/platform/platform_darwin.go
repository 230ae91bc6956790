//go:build darwin
// +build darwin

package platform

import (
	"os/exec"
)

// OpenFolder opens a folder in Finder
func OpenFolder(path string) error {
	return exec.Command("open", path).Start()
}

// OpenURL opens a URL in the default browser
func OpenURL(url string) error {
	return exec.Command("open", url).Start()
}
