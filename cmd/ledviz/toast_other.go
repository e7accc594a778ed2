//go:build !windows

package main

import "log"

// showStartupErrorToast only logs the message on non-Windows hosts, matching the
// teacher's tray.ShowNotification fallback for Unix.
func showStartupErrorToast(message string) {
	log.Printf("startup error notification (not shown on this platform): %s", message)
}
