// Command ledviz is the real-time audio-reactive LED visualizer core: it
// wires the Audio Source, Spectrum Analyzer, Effect Engine, LED Output, and
// Control Plane of spec.md into one running process. Grounded in the
// teacher's cmd/steelclock/main.go: flag-based config path, file+stderr
// logging with Ldate|Ltime|Lshortfile, typed startup errors, exponential
// backoff on ArtNet dispatcher construction, and graceful signal-triggered
// shutdown.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/ledviz/core/internal/apperr"
	"github.com/ledviz/core/internal/artnet"
	"github.com/ledviz/core/internal/audio"
	"github.com/ledviz/core/internal/config"
	"github.com/ledviz/core/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the controller/effect configuration file")
	profilesPath := flag.String("profiles", "", "path to a profiles file (overrides -config when set)")
	profileName := flag.String("profile", "", "profile name to activate from -profiles (default: the profile set's active one)")
	simulate := flag.Bool("simulator", false, "start ArtNet output in simulator mode (no UDP transmission)")
	synthetic := flag.Bool("synthetic-audio", false, "use the deterministic synthetic audio source instead of a real capture device")
	tone := flag.Float64("tone-hz", 440, "synthetic audio source's tone frequency, used only with -synthetic-audio")
	flag.Parse()

	setupLogging()

	log.Println("========================================")
	log.Println("ledviz starting...")
	log.Println("========================================")

	cfg, err := loadConfiguration(*configPath, *profilesPath, *profileName)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	source := buildAudioSource(*synthetic, *tone)

	dispatcher, err := buildDispatcherWithRetry(cfg, 5)
	if err != nil {
		notifyStartupFailure(err)
		log.Fatalf("startup: %v", err)
	}

	pl, err := pipeline.New(*cfg, source, dispatcher)
	if err != nil {
		log.Fatalf("startup: pipeline: %v", err)
	}

	mode := artnet.Production
	if *simulate {
		mode = artnet.Simulator
	}
	if err := dispatcher.Start(mode); err != nil {
		notifyStartupFailure(err)
		log.Fatalf("startup: dispatcher: %v", err)
	}

	if err := pl.Start(); err != nil {
		log.Fatalf("startup: pipeline start: %v", err)
	}

	log.Printf("ledviz running (control plane on %s)", cfg.ControlPlane.ListenAddr)

	// waitForShutdown blocks until the process should exit: on a plain
	// build that's an OS signal; on a `systray` build it's also the tray's
	// own Quit menu item, grounded in the teacher's systray.Run(onReady,
	// onQuit) lifecycle.
	waitForShutdown(pl, dispatcher, cfg)

	log.Println("ledviz shutting down...")
	pl.Stop()
	_ = dispatcher.Stop()
	log.Println("ledviz stopped")
}

// setupLogging mirrors the teacher's setupLogging: timestamped,
// file-location-prefixed log lines written to both a log file next to the
// binary and stderr, so the log *presentation* stays out of scope (spec.md
// §1's non-goal) while the core still emits structured-enough lines for a
// shell to reformat.
func setupLogging() {
	logFile, err := os.OpenFile("ledviz.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to open ledviz.log: %v\n", err)
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		return
	}
	log.SetOutput(io.MultiWriter(logFile, os.Stderr))
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
}

// loadConfiguration resolves either a single config file or a profile set,
// per SPEC_FULL.md §10's supplemented profile-switching feature.
func loadConfiguration(configPath, profilesPath, profileName string) (*config.Config, error) {
	if profilesPath != "" {
		set, err := config.LoadProfiles(profilesPath)
		if err != nil {
			return nil, fmt.Errorf("load profiles: %w", err)
		}
		if profileName != "" {
			return set.Switch(profileName)
		}
		return set.Current()
	}
	return config.Load(configPath)
}

func buildAudioSource(synthetic bool, toneHz float64) audio.Source {
	if synthetic {
		log.Printf("using synthetic audio source at %.1f Hz", toneHz)
		return audio.NewSynthetic(audio.RingCapacity*4, audio.Tone{FreqHz: toneHz, Amp: 0.8})
	}
	return audio.NewDefaultSource()
}

// buildDispatcherWithRetry builds the ArtNet dispatcher with exponential
// backoff, grounded in the teacher's bindEventWithRetry. Only
// artnet.NewUDPDispatcher is retried, and it opens no sockets: the
// controller sockets are dialed later by dispatcher.Start, which is not
// retried. A NoControllersConfigured error is never retried, since no
// amount of waiting fixes an empty config.
func buildDispatcherWithRetry(cfg *config.Config, maxAttempts int) (artnet.Dispatcher, error) {
	if len(cfg.Controllers) == 0 {
		return nil, apperr.New(apperr.NoControllersConfigured, "main.buildDispatcher", nil)
	}

	baseDelay := 500 * time.Millisecond
	maxDelay := 5 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := baseDelay * time.Duration(1<<uint(attempt-2))
			if delay > maxDelay {
				delay = maxDelay
			}
			log.Printf("retrying dispatcher bring-up in %v (attempt %d/%d)", delay, attempt, maxAttempts)
			time.Sleep(delay)
		}

		d, err := artnet.NewUDPDispatcher(cfg.Controllers)
		if err == nil {
			return d, nil
		}
		lastErr = err
		log.Printf("dispatcher bring-up failed: %v", err)
	}
	return nil, fmt.Errorf("dispatcher bring-up failed after %d attempts: %w", maxAttempts, lastErr)
}

// notifyStartupFailure surfaces a fatal startup error through the optional
// desktop-toast front end (Windows only; other platforms only log it),
// matching the teacher's tray.ShowNotification on BackendUnavailableError.
func notifyStartupFailure(err error) {
	kind, ok := apperr.KindOf(err)
	msg := err.Error()
	if ok {
		msg = fmt.Sprintf("%s: %s", kind, msg)
	}
	showStartupErrorToast(msg)

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		log.Printf("fatal startup error (%s): %v", appErr.Kind, appErr.Err)
	}
}
