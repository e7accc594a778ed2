package audio

import "github.com/ledviz/core/internal/apperr"

// SampleRate is the fixed capture rate of spec.md §3.
const SampleRate = 48000

// Source is the Audio Source component's operations contract (spec.md §4.1):
// enumerate available capture devices, open one (or the default), close it,
// report whether it is actively capturing, and report the cumulative
// dropped-window count. Implementations push captured windows into a Ring
// drawn from a Pool, never allocating on the capture callback path.
type Source interface {
	// EnumerateDevices lists the names of available capture devices.
	EnumerateDevices() ([]string, error)

	// Open begins capturing from the named device, or the system default
	// if device is empty.
	Open(device string) error

	// Close stops capturing and releases any OS resources.
	Close() error

	// IsCapturing reports whether Open succeeded and Close has not since
	// been called.
	IsCapturing() bool

	// DroppedCount returns the number of windows the ring has discarded
	// under the overwrite policy since the source was created (Open does
	// not reset it).
	DroppedCount() uint64

	// Ring exposes the consumer side so the analyzer can drain windows.
	Ring() *Ring
}

// errUnavailable is the typed error capture backends return when no
// capture device can be opened, matching spec.md §7's DeviceUnavailable
// condition.
func errUnavailable(op string, cause error) error {
	return apperr.New(apperr.DeviceUnavailable, op, cause)
}
