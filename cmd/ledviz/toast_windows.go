//go:build windows

package main

import (
	"log"

	"github.com/go-toast/toast"
)

// showStartupErrorToast fires a Windows desktop notification on a fatal
// startup error, mirroring the teacher's tray.ShowNotification call sites
// around BackendUnavailableError/NoWidgetsError in cmd/steelclock/main.go.
func showStartupErrorToast(message string) {
	notification := toast.Notification{
		AppID:   "ledviz",
		Title:   "ledviz failed to start",
		Message: message,
	}
	if err := notification.Push(); err != nil {
		log.Printf("failed to show startup toast: %v", err)
	}
}
