//go:build !windows
// +build !windows

package service

import "log"

// Service management only exists on Windows. Elsewhere the agent runs in the
// foreground and the management commands do nothing.

// RunService runs the agent in the foreground
func RunService(isDebug bool, app *Application) {
	app.Run()
	if err := app.Err(); err != nil {
		log.Fatalf("agent failed to start: %v", err)
	}
}

func InstallService(exePath string) error {
	return nil
}

func UninstallService() error {
	return nil
}

func StartService() error {
	return nil
}

func StopService() error {
	return nil
}

// IsWindowsService always returns false on non-Windows platforms
func IsWindowsService() (bool, error) {
	return false, nil
}
