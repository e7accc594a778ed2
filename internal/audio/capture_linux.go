//go:build linux

package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ledviz/core/internal/apperr"
)

// LinuxCapture shells out to pw-record or parec to read raw stereo f32 PCM
// from the named device, or from the recorder's own default input when no
// device is given, as the teacher's
// audio_capture_linux.go does for its visualizer widget; here the samples
// feed windows into the same Pool/Ring contract every Source implements
// instead of a widget-local buffer.
type LinuxCapture struct {
	pool   *Pool
	ring   *Ring
	framer *Framer

	mu        sync.Mutex
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	capturing atomic.Bool
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewLinuxCapture constructs a Linux exec-based capture Source.
func NewLinuxCapture(poolCapacity int) *LinuxCapture {
	pool := NewPool(poolCapacity)
	ring := NewRing()
	return &LinuxCapture{
		pool:   pool,
		ring:   ring,
		framer: NewFramer(pool, ring),
	}
}

func (c *LinuxCapture) EnumerateDevices() ([]string, error) {
	monitor, err := findDefaultSinkMonitor()
	if err != nil || monitor == "" {
		return []string{"default"}, nil
	}
	return []string{monitor}, nil
}

// Open picks pw-record if present, falling back to parec, matching the
// teacher's backend-detection order.
func (c *LinuxCapture) Open(device string) error {
	if c.capturing.Load() {
		return nil
	}

	bin, args, err := captureCommand(device)
	if err != nil {
		return errUnavailable("audio.Open", err)
	}

	cmd := exec.Command(bin, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errUnavailable("audio.Open", err)
	}
	if err := cmd.Start(); err != nil {
		return errUnavailable("audio.Open", err)
	}

	c.mu.Lock()
	c.cmd = cmd
	c.stdout = stdout
	c.mu.Unlock()

	c.framer.Reset()
	c.stopChan = make(chan struct{})
	c.capturing.Store(true)
	c.wg.Add(1)
	go c.readLoop()
	return nil
}

func captureCommand(device string) (string, []string, error) {
	if path, err := exec.LookPath("pw-record"); err == nil {
		args := []string{"--rate", "48000", "--channels", "2", "--format", "f32", "-"}
		if device != "" {
			args = append([]string{"--target", device}, args...)
		}
		return path, args, nil
	}
	if path, err := exec.LookPath("parec"); err == nil {
		args := []string{"--raw", "--rate=48000", "--channels=2", "--format=float32le"}
		if device != "" {
			args = append(args, "--device="+device)
		}
		return path, args, nil
	}
	return "", nil, fmt.Errorf("neither pw-record nor parec found on PATH")
}

func findDefaultSinkMonitor() (string, error) {
	path, err := exec.LookPath("wpctl")
	if err != nil {
		return "", err
	}
	out, err := exec.Command(path, "inspect", "@DEFAULT_AUDIO_SINK@").Output()
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "node.name") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				return strings.Trim(strings.TrimSpace(parts[1]), "\"") + ".monitor", nil
			}
		}
	}
	return "", nil
}

// readLoop reads 8-byte stereo float32 frames and downmixes to mono,
// filling pooled Windows and pushing them into the ring.
func (c *LinuxCapture) readLoop() {
	defer c.wg.Done()

	c.mu.Lock()
	r := bufio.NewReaderSize(c.stdout, 1<<16)
	c.mu.Unlock()

	frame := make([]byte, 8)

	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		if _, err := io.ReadFull(r, frame); err != nil {
			log.Printf("%v", apperr.New(apperr.CaptureStalled, "audio.readLoop", err))
			return
		}

		left := math.Float32frombits(binary.LittleEndian.Uint32(frame[0:4]))
		right := math.Float32frombits(binary.LittleEndian.Uint32(frame[4:8]))
		c.framer.PushSample((left + right) / 2)
	}
}

func (c *LinuxCapture) Close() error {
	if !c.capturing.Load() {
		return nil
	}
	close(c.stopChan)

	c.mu.Lock()
	cmd := c.cmd
	c.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	c.wg.Wait()
	c.capturing.Store(false)
	return nil
}

func (c *LinuxCapture) IsCapturing() bool { return c.capturing.Load() }

func (c *LinuxCapture) DroppedCount() uint64 { return c.ring.DroppedCount() }

func (c *LinuxCapture) Ring() *Ring { return c.ring }
