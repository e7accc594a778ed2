//go:build !systray

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ledviz/core/internal/artnet"
	"github.com/ledviz/core/internal/config"
	"github.com/ledviz/core/internal/pipeline"
)

// waitForShutdown blocks on an OS interrupt/terminate signal. This is the
// default build (no tray icon): SIGINT/SIGTERM is the only shutdown
// trigger, matching a plain headless daemon.
func waitForShutdown(pl *pipeline.Pipeline, dispatcher artnet.Dispatcher, cfg *config.Config) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}
