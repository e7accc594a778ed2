package artnet

import (
	"net"
	"time"

	"github.com/ledviz/core/internal/apperr"
	"github.com/ledviz/core/internal/config"
	"github.com/ledviz/core/internal/pixel"
)

// Controller wraps one config.ControllerConfig with its own UDP connection,
// sequence counter, and DMX scratch buffer — the per-device state the
// teacher's HIDDriver keeps for its single device, one instance per ArtNet
// receiver instead of one process-wide singleton.
type Controller struct {
	Cfg config.ControllerConfig

	conn     *net.UDPConn
	seq      uint8
	universes int

	sendBuf  [18 + MaxUniverseBytes]byte
	dmxBuf   [MaxUniverseBytes]byte

	sentPackets uint64
	sendErrors  uint64
}

// NewController records the controller's configuration and universe count
// without dialing (dialing happens in Open, so construction never fails on DNS/network
// state).
func NewController(cfg config.ControllerConfig) *Controller {
	return &Controller{
		Cfg:       cfg,
		seq:       0,
		universes: config.UniversesPerController(cfg),
	}
}

// Open dials the controller's UDP destination. UDP dial never blocks on
// the network (no handshake), so this only fails on local socket/address
// errors.
func (c *Controller) Open() error {
	port := c.Cfg.Port
	if port == 0 {
		port = Port
	}
	addr := &net.UDPAddr{IP: net.ParseIP(c.Cfg.IP), Port: port}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return apperr.New(apperr.SocketBindFailed, "artnet.Controller.Open", err)
	}
	c.conn = conn
	return nil
}

func (c *Controller) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// SendFrame slices the controller's pixel region out of the full frame and
// transmits it as c.universes ArtNet DMX packets, one per universe. Each
// write gets a 1ms deadline, so a write that would block fails instead.
// Send failures are counted (apperr.SendFailed), never retried: the next
// frame supersedes, per spec.md §4.4 step 3c.
func (c *Controller) SendFrame(frame *pixel.Matrix) error {
	if c.conn == nil {
		return apperr.New(apperr.SendFailed, "artnet.Controller.SendFrame", nil)
	}

	region := c.Cfg.Region
	totalBytes := region.W * region.H * 3
	offset := 0
	universe := 0

	for offset < totalBytes {
		n := universeChunkSize(totalBytes, offset)
		fillRegionBytes(c.dmxBuf[:n], frame, region, offset)

		c.seq = nextSequence(c.seq)
		pktLen := EncodePacket(c.sendBuf[:], c.seq, uint16(c.Cfg.UniverseBase+universe), c.dmxBuf[:n])

		_ = c.conn.SetWriteDeadline(time.Now().Add(time.Millisecond))
		if _, err := c.conn.Write(c.sendBuf[:pktLen]); err != nil {
			c.sendErrors++
			return apperr.New(apperr.SendFailed, "artnet.Controller.SendFrame", err)
		}
		c.sentPackets++

		offset += n
		universe++
	}
	return nil
}

// universeChunkSize returns how many bytes the next universe packet starting
// at offset should carry: config.PixelBytesPerUniverse (170 pixels), or
// fewer for the final, partial universe.
func universeChunkSize(totalBytes, offset int) int {
	n := config.PixelBytesPerUniverse
	if totalBytes-offset < n {
		n = totalBytes - offset
	}
	return n
}

// fillRegionBytes copies `n` bytes of RGB data starting at byteOffset
// within region's row-major RGB layout into dst.
func fillRegionBytes(dst []byte, frame *pixel.Matrix, region config.Region, byteOffset int) {
	for i := 0; i < len(dst); i += 3 {
		pixelIdx := (byteOffset + i) / 3
		localX := pixelIdx % region.W
		localY := pixelIdx / region.W
		r, g, b := frame.At(region.X+localX, region.Y+localY)
		dst[i] = r
		if i+1 < len(dst) {
			dst[i+1] = g
		}
		if i+2 < len(dst) {
			dst[i+2] = b
		}
	}
}

// Stats returns the controller's cumulative send counters for the Control
// Plane's stats event.
func (c *Controller) Stats() (sent, errs uint64) {
	return c.sentPackets, c.sendErrors
}
