// Package browser hands video and cover links to the system browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Opener launches a validated URL.
type Opener func(rawURL string) error

// System is the Opener backed by the platform's URL handler.
var System Opener = systemOpen

// Validate accepts absolute http(s) URLs only.
func Validate(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("no link to open")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", rawURL)
	}
	return nil
}

// Open validates rawURL and passes it to the System opener.
func Open(rawURL string) error {
	return OpenWith(System, rawURL)
}

func OpenWith(open Opener, rawURL string) error {
	if err := Validate(rawURL); err != nil {
		return err
	}
	if err := open(rawURL); err != nil {
		return fmt.Errorf("opening %s: %w", rawURL, err)
	}
	return nil
}

func systemOpen(rawURL string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "windows":
		// rundll32 avoids cmd /c start shell interpretation
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return exec.Command("xdg-open", rawURL).Start()
	}
}
