//go:build windows

package audio

const poolCapacity = RingCapacity * 4

// NewDefaultSource builds the platform's real capture backend.
func NewDefaultSource() Source {
	return NewWindowsCapture(poolCapacity)
}
