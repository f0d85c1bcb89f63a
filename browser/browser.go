// Package browser opens URLs in the user's default browser.
package browser

import (
	"errors"
	"os/exec"
	"runtime"
)

var ErrNotImplemented = errors.New("browser: not implemented")

// OpenURL opens a URL in a browser session.
//
// On platforms without a known opener it returns ErrNotImplemented; callers
// should fall back to printing the URL for the user to open manually.
func OpenURL(url string) error {
	if url == "" {
		return errors.New("browser: url is required")
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return ErrNotImplemented
	}
}
