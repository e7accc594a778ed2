//go:build systray

package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/getlantern/systray"

	"github.com/ledviz/core/internal/artnet"
	"github.com/ledviz/core/internal/config"
	"github.com/ledviz/core/internal/pipeline"
)

// waitForShutdown runs the tray icon event loop, grounded in the teacher's
// internal/tray.Manager: a menu exposing the same start/stop controls as the
// control plane's start_capture/stop_capture/start_output/stop_output
// commands, plus a shortcut to the control-plane URL and a Quit item. An OS
// signal also reaches systray.Quit, so SIGTERM behaves the same with or
// without the tray.
func waitForShutdown(pl *pipeline.Pipeline, dispatcher artnet.Dispatcher, cfg *config.Config) {
	onReady := func() {
		systray.SetTitle("ledviz")
		systray.SetTooltip("ledviz audio-reactive LED visualizer")

		mStartCapture := systray.AddMenuItem("Start Capture", "Open the audio capture device")
		mStopCapture := systray.AddMenuItem("Stop Capture", "Close the audio capture device")
		systray.AddSeparator()
		mStartOutput := systray.AddMenuItem("Start Output", "Resume ArtNet output")
		mStopOutput := systray.AddMenuItem("Stop Output", "Pause ArtNet output")
		systray.AddSeparator()
		mOpenUI := systray.AddMenuItem("Open Control UI", "Open the control plane in a browser")
		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Shut down ledviz")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		go func() {
			<-sigCh
			systray.Quit()
		}()

		go handleMenuClicks(pl, dispatcher, cfg, mStartCapture, mStopCapture, mStartOutput, mStopOutput, mOpenUI, mQuit)
	}

	onExit := func() {}

	systray.Run(onReady, onExit)
}

func handleMenuClicks(pl *pipeline.Pipeline, dispatcher artnet.Dispatcher, cfg *config.Config,
	mStartCapture, mStopCapture, mStartOutput, mStopOutput, mOpenUI, mQuit *systray.MenuItem) {
	for {
		select {
		case <-mStartCapture.ClickedCh:
			if err := pl.Source.Open(""); err != nil {
				log.Printf("tray: start capture failed: %v", err)
			}
		case <-mStopCapture.ClickedCh:
			if err := pl.Source.Close(); err != nil {
				log.Printf("tray: stop capture failed: %v", err)
			}
		case <-mStartOutput.ClickedCh:
			if err := dispatcher.Start(artnet.Production); err != nil {
				log.Printf("tray: start output failed: %v", err)
			}
		case <-mStopOutput.ClickedCh:
			if err := dispatcher.Stop(); err != nil {
				log.Printf("tray: stop output failed: %v", err)
			}
		case <-mOpenUI.ClickedCh:
			openBrowser(fmt.Sprintf("http://%s", cfg.ControlPlane.ListenAddr))
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

// openBrowser shells out to the platform opener, mirroring the teacher's
// approach of reaching for an OS helper rather than a browser-launcher
// dependency for this one-off.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("tray: failed to open browser: %v", err)
	}
}
