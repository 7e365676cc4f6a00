// Package system shells out to the host OS for the two desktop
// integrations the wrapper needs: opening a URL in the default browser and
// showing a native directory picker.
package system

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoPicker is returned by SelectDirectory when no native picker helper
// is available on this host.
var ErrNoPicker = errors.New("no directory picker available")

// OpenURL opens the URL in the default browser. Only http and https URLs
// are accepted; the string is passed to an OS helper, not a shell.
func OpenURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q scheme", u.Scheme)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	// The opener forks and returns immediately; don't hold the request on it.
	go func() { _ = cmd.Wait() }()
	return nil
}

// SelectDirectory shows a native directory picker and returns the chosen
// path. Returns ("", nil) when the user cancels and ErrNoPicker when the
// host has no usable picker helper.
func SelectDirectory(ctx context.Context) (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return pickDarwin(ctx)
	case "windows":
		return pickWindows(ctx)
	default:
		return pickLinux(ctx)
	}
}

func pickDarwin(ctx context.Context) (string, error) {
	script := `POSIX path of (choose folder with prompt "Select TAK Manager install directory")`
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
	if err != nil {
		// osascript exits non-zero on user cancel
		if _, ok := err.(*exec.ExitError); ok {
			return "", nil
		}
		return "", fmt.Errorf("osascript: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func pickWindows(ctx context.Context) (string, error) {
	script := `Add-Type -AssemblyName System.Windows.Forms; ` +
		`$d = New-Object System.Windows.Forms.FolderBrowserDialog; ` +
		`if ($d.ShowDialog() -eq 'OK') { Write-Output $d.SelectedPath }`
	out, err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script).Output()
	if err != nil {
		return "", fmt.Errorf("powershell: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func pickLinux(ctx context.Context) (string, error) {
	if _, err := exec.LookPath("zenity"); err != nil {
		return "", ErrNoPicker
	}
	out, err := exec.CommandContext(ctx, "zenity", "--file-selection", "--directory",
		"--title", "Select TAK Manager install directory").Output()
	if err != nil {
		// zenity exits 1 on cancel
		if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("zenity: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
