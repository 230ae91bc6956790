//go:build windows
// +build windows

package platform

import (
	"os/exec"
)

// OpenFolder opens a folder in Explorer
func OpenFolder(path string) error {
	return exec.Command("explorer", path).Start()
}

// OpenURL opens a URL in the default browser.
// rundll32 is used instead of explorer so query strings survive.
func OpenURL(url string) error {
	return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
}
