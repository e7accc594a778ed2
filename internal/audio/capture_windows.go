//go:build windows

package audio

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"

	"github.com/ledviz/core/internal/apperr"
)

// WindowsCapture captures the default render device's loopback stream via
// WASAPI, grounded in the teacher's wca_windows.go COM helpers
// (EnsureCOMInitialized, CreateDeviceEnumerator, GetDefaultRenderDevice,
// SafeRelease*) and its AudioCaptureWCA loopback loop
// (audio_visualizer_windows.go), generalized from the widget's local ring
// buffer to the shared Pool/Ring contract every Source implements.
type WindowsCapture struct {
	pool   *Pool
	ring   *Ring
	framer *Framer

	mu            sync.Mutex
	enumerator    *wca.IMMDeviceEnumerator
	device        *wca.IMMDevice
	audioClient   *wca.IAudioClient
	captureClient *wca.IAudioCaptureClient

	capturing atomic.Bool
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewWindowsCapture constructs a Windows WASAPI-loopback capture Source.
func NewWindowsCapture(poolCapacity int) *WindowsCapture {
	pool := NewPool(poolCapacity)
	ring := NewRing()
	return &WindowsCapture{
		pool:   pool,
		ring:   ring,
		framer: NewFramer(pool, ring),
	}
}

func (c *WindowsCapture) EnumerateDevices() ([]string, error) {
	if err := ensureCOMInitialized(); err != nil {
		return nil, errUnavailable("audio.EnumerateDevices", err)
	}
	enumerator, err := createDeviceEnumerator()
	if err != nil {
		return nil, errUnavailable("audio.EnumerateDevices", err)
	}
	defer safeReleaseMMDeviceEnumerator(enumerator)

	device, err := getDefaultRenderDevice(enumerator)
	if err != nil {
		return nil, errUnavailable("audio.EnumerateDevices", err)
	}
	defer safeReleaseMMDevice(device)

	return []string{"default render (loopback)"}, nil
}

// Open initializes WASAPI loopback capture on the default render device.
// device is currently ignored; only the system default output is supported.
func (c *WindowsCapture) Open(device string) error {
	if c.capturing.Load() {
		return nil
	}
	if err := ensureCOMInitialized(); err != nil {
		return errUnavailable("audio.Open", err)
	}

	enumerator, err := createDeviceEnumerator()
	if err != nil {
		return errUnavailable("audio.Open", err)
	}
	mmDevice, err := getDefaultRenderDevice(enumerator)
	if err != nil {
		safeReleaseMMDeviceEnumerator(enumerator)
		return errUnavailable("audio.Open", err)
	}

	var audioClient *wca.IAudioClient
	if err := mmDevice.Activate(wca.IID_IAudioClient, wca.CLSCTX_ALL, nil, (*unsafe.Pointer)(unsafe.Pointer(&audioClient))); err != nil {
		safeReleaseMMDevice(mmDevice)
		safeReleaseMMDeviceEnumerator(enumerator)
		return errUnavailable("audio.Open", err)
	}

	var mixFormat *wca.WAVEFORMATEX
	if err := audioClient.GetMixFormat(&mixFormat); err != nil {
		safeReleaseAudioClient(audioClient)
		safeReleaseMMDevice(mmDevice)
		safeReleaseMMDeviceEnumerator(enumerator)
		return errUnavailable("audio.Open", err)
	}

	const bufferDuration = 2000 * 10000 // 2000ms in 100ns units
	if err := audioClient.Initialize(wca.AUDCLNT_SHAREMODE_SHARED, wca.AUDCLNT_STREAMFLAGS_LOOPBACK, bufferDuration, 0, mixFormat, nil); err != nil {
		safeReleaseAudioClient(audioClient)
		safeReleaseMMDevice(mmDevice)
		safeReleaseMMDeviceEnumerator(enumerator)
		return errUnavailable("audio.Open", err)
	}

	var captureClient *wca.IAudioCaptureClient
	if err := audioClient.GetService(wca.IID_IAudioCaptureClient, (*unsafe.Pointer)(unsafe.Pointer(&captureClient))); err != nil {
		safeReleaseAudioClient(audioClient)
		safeReleaseMMDevice(mmDevice)
		safeReleaseMMDeviceEnumerator(enumerator)
		return errUnavailable("audio.Open", err)
	}

	if err := audioClient.Start(); err != nil {
		safeReleaseAudioCaptureClient(captureClient)
		safeReleaseAudioClient(audioClient)
		safeReleaseMMDevice(mmDevice)
		safeReleaseMMDeviceEnumerator(enumerator)
		return errUnavailable("audio.Open", err)
	}

	c.mu.Lock()
	c.enumerator = enumerator
	c.device = mmDevice
	c.audioClient = audioClient
	c.captureClient = captureClient
	c.mu.Unlock()

	c.framer.Reset()
	c.stopChan = make(chan struct{})
	c.capturing.Store(true)
	c.wg.Add(1)
	go c.readLoop()
	return nil
}

// readLoop polls IAudioCaptureClient without events (every 10ms it drains
// all available packets), downmixing interleaved float32 frames to mono and filling pooled Windows.
func (c *WindowsCapture) readLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		cc := c.captureClient
		c.mu.Unlock()
		if cc == nil {
			continue
		}

		for {
			frames, flags, err := nextPacket(cc)
			if err != nil {
				log.Printf("%v", apperr.New(apperr.CaptureStalled, "audio.readLoop", err))
				return
			}
			if frames == 0 {
				break
			}
			for i := 0; i+1 < len(frames); i += 2 {
				left, right := frames[i], frames[i+1]
				if flags != 0 {
					left, right = 0, 0
				}
				c.framer.PushSample((left + right) / 2)
			}
		}
	}
}

func (c *WindowsCapture) Close() error {
	if !c.capturing.Load() {
		return nil
	}
	close(c.stopChan)
	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.audioClient != nil {
		_ = c.audioClient.Stop()
	}
	safeReleaseAudioCaptureClient(c.captureClient)
	safeReleaseAudioClient(c.audioClient)
	safeReleaseMMDevice(c.device)
	safeReleaseMMDeviceEnumerator(c.enumerator)
	c.captureClient, c.audioClient, c.device, c.enumerator = nil, nil, nil, nil
	c.capturing.Store(false)
	return nil
}

func (c *WindowsCapture) IsCapturing() bool { return c.capturing.Load() }

func (c *WindowsCapture) DroppedCount() uint64 { return c.ring.DroppedCount() }

func (c *WindowsCapture) Ring() *Ring { return c.ring }

func ensureCOMInitialized() error {
	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		if oleErr, ok := err.(*ole.OleError); ok && oleErr.Code() == 0x80010106 {
			return nil
		}
		return err
	}
	return nil
}

func createDeviceEnumerator() (*wca.IMMDeviceEnumerator, error) {
	var enumerator *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &enumerator); err != nil {
		return nil, err
	}
	return enumerator, nil
}

func getDefaultRenderDevice(enumerator *wca.IMMDeviceEnumerator) (*wca.IMMDevice, error) {
	var device *wca.IMMDevice
	if err := enumerator.GetDefaultAudioEndpoint(wca.ERender, wca.EConsole, &device); err != nil {
		return nil, err
	}
	return device, nil
}

func safeReleaseMMDeviceEnumerator(e *wca.IMMDeviceEnumerator) {
	if e != nil {
		e.Release()
	}
}

func safeReleaseMMDevice(d *wca.IMMDevice) {
	if d != nil {
		d.Release()
	}
}

func safeReleaseAudioClient(a *wca.IAudioClient) {
	if a != nil {
		a.Release()
	}
}

func safeReleaseAudioCaptureClient(a *wca.IAudioCaptureClient) {
	if a != nil {
		a.Release()
	}
}

// nextPacket fetches the next available capture packet as interleaved
// two-channel float32 samples (the caller downmixes).
func nextPacket(cc *wca.IAudioCaptureClient) ([]float32, uint32, error) {
	var framesAvailable uint32
	if err := cc.GetNextPacketSize(&framesAvailable); err != nil {
		return nil, 0, err
	}
	if framesAvailable == 0 {
		return nil, 0, nil
	}

	var data *byte
	var numFrames uint32
	var flags uint32
	if err := cc.GetBuffer(&data, &numFrames, &flags, nil, nil); err != nil {
		return nil, 0, err
	}
	defer cc.ReleaseBuffer(numFrames)

	n := int(numFrames) * 2
	out := make([]float32, n)
	src := unsafe.Slice((*float32)(unsafe.Pointer(data)), n)
	copy(out, src)
	return out, flags, nil
}
