// Package network implements the connection protocol engine and manager
// of spec §4.4/§4.5: per-connection frame assembly, the protocol state
// machine, the split reader/writer tasks coordinated by a shutdown latch,
// and the accept loop that owns every connection's lifecycle.
package network

import (
	"bufio"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/snapgo-project/snapgo/internal/config"
	"github.com/snapgo-project/snapgo/internal/metrics"
	"github.com/snapgo-project/snapgo/internal/protocol/frame"
	"github.com/snapgo-project/snapgo/internal/protocol/packets"
	"github.com/snapgo-project/snapgo/internal/serial"
)

// protocolVersion is the wire protocol this engine speaks (spec §4.4).
const protocolVersion = 754

// inboundCapacity/outboundCapacity are the bounded in-memory channel
// sizes of spec §4.4 — 32 in each direction, back-pressuring the slower
// side rather than ever dropping a packet (spec §5).
const inboundCapacity = 32
const outboundCapacity = 32

// GameConn is the handover object spec §3's Connection record calls
// "inbound: engine -> game; outbound: game -> engine" — the
// ServerConnection of the original implementation. Once a connection's
// first inbound packet is registered with the game layer (spec §4.5),
// GameConn is the sole surface the game layer uses to talk to it.
type GameConn struct {
	ID       uuid.UUID
	Incoming <-chan packets.Packet
	Outgoing chan<- packets.Packet
}

// Connection owns one TCP stream's protocol engine: a reader task, a
// writer task, and the shared compression/state cells spec §5 describes.
// Per spec §3's invariants, reader and writer are the only goroutines
// touching their respective halves of the socket.
type Connection struct {
	id   uuid.UUID
	conn net.Conn
	log  *logrus.Entry

	cfg     *config.Config
	online  int
	metrics *metrics.Connections

	shutdown    *shutdownLatch
	compression atomic.Bool
	state       connState

	inbound  chan packets.Packet
	outbound chan packets.Packet

	wg sync.WaitGroup
}

// NewConnection constructs and starts the reader/writer tasks for conn,
// returning the engine handle and the GameConn the manager will later
// hand to the game layer on first inbound packet (spec §4.5).
func NewConnection(conn net.Conn, cfg *config.Config, online int, m *metrics.Connections) (*Connection, GameConn) {
	id := uuid.New()
	c := &Connection{
		id:       id,
		conn:     conn,
		log:      logrus.WithField("conn", id.String()).WithField("remote", conn.RemoteAddr()),
		cfg:      cfg,
		online:   online,
		metrics:  m,
		shutdown: newShutdownLatch(),
		inbound:  make(chan packets.Packet, inboundCapacity),
		outbound: make(chan packets.Packet, outboundCapacity),
	}
	c.state.store(StateHandshake)

	c.wg.Add(2)
	go c.writerLoop()
	go c.readerLoop()

	return c, GameConn{ID: id, Incoming: c.inbound, Outgoing: c.outbound}
}

// ID reports the connection's log/metrics identity.
func (c *Connection) ID() uuid.UUID { return c.id }

// State reports the current protocol phase.
func (c *Connection) State() ConnectionState { return c.state.load() }

// ShutdownNotify returns a channel closed once this connection's shutdown
// latch triggers (ShutdownReason reports the reason) — used by the
// manager's disconnect-watcher helper task (spec §4.5).
func (c *Connection) ShutdownNotify() <-chan struct{} { return c.shutdown.done() }

// ShutdownReason reports the reason the latch was triggered with, valid
// once ShutdownNotify's channel is closed.
func (c *Connection) ShutdownReason() string { return c.shutdown.Reason() }

// Inbound exposes the engine's inbound queue for the manager's
// first-inbound-packet watcher (spec §4.5). The watcher receives the
// first packet from it, which takes that packet off the queue.
func (c *Connection) Inbound() <-chan packets.Packet { return c.inbound }

// Destroy triggers shutdown (idempotent) and awaits both tasks, the Go
// equivalent of the original's Connection::destroy — "safe if already
// finished" (spec §4.4).
func (c *Connection) Destroy() {
	c.shutdown.trigger("")
	_ = c.conn.Close()
	c.wg.Wait()
}

// writerLoop is the writer task of spec §4.4: it drains outbound,
// framing and sending each packet, and reacts specially to disconnect and
// compression-toggle packets.
func (c *Connection) writerLoop() {
	defer c.wg.Done()

	adv := c.cfg.Network.Advanced
	for {
		select {
		case <-c.shutdown.done():
			c.emitFinalDisconnect()
			return
		case pkt, ok := <-c.outbound:
			if !ok {
				c.emitFinalDisconnect()
				return
			}
			c.handleOutbound(pkt, int(adv.CompressionThreshold), int(adv.CompressionLevel))
		}
	}
}

func (c *Connection) handleOutbound(pkt packets.Packet, threshold, level int) {
	switch p := pkt.(type) {
	case *packets.InternalNetworkDisconnect:
		c.log.WithField("reason", p.Reason).Debug("internal disconnect requested")
		c.shutdown.trigger(p.Reason)
		return

	case *packets.ClientboundLoginDisconnect:
		c.log.WithField("reason", p.Reason.String()).Info("disconnecting client during login")
		if _, err := c.writeFramed(pkt, threshold, level); err != nil {
			c.log.WithError(err).Warn("failed to write login disconnect")
		}
		c.shutdown.trigger(p.Reason.String())
		return

	case *packets.ClientboundLoginSetCompression:
		if _, err := c.writeFramed(pkt, threshold, level); err != nil {
			c.log.WithError(err).Warn("failed to write set-compression")
			return
		}
		// Flip only after the bytes are on the wire: upstream guarantees
		// the client never sends a compressed frame before seeing this
		// (spec §4.4, §9).
		c.compression.Store(true)
		return

	default:
		saved, err := c.writeFramed(pkt, threshold, level)
		if err != nil {
			if errors.Is(err, frame.ErrFrameTooLarge) {
				c.log.WithError(err).Error("outbound frame too large, dropping and disconnecting")
				if c.metrics != nil {
					c.metrics.Errors.Add(1)
				}
				c.shutdown.trigger("frame too large")
				return
			}
			c.log.WithError(err).Warn("failed to write packet")
		}
		if c.metrics != nil {
			c.metrics.PacketsOut.Add(1)
			if saved > 0 {
				c.metrics.CompressionSaved.Add(float64(saved))
			}
		}
	}
}

func (c *Connection) writeFramed(pkt packets.Packet, threshold, level int) (saved int, err error) {
	body, err := pkt.EncodeBody()
	if err != nil {
		return 0, errors.Wrapf(err, "encoding %s", pkt.Name())
	}
	return frame.Write(c.conn, pkt.ID(), body, c.compression.Load(), threshold, level)
}

// emitFinalDisconnect sends a synthetic Play-state Disconnect when the
// shutdown reason is available and the connection had reached Play
// (spec §4.4's writer-exit behavior).
func (c *Connection) emitFinalDisconnect() {
	if c.state.load() != StatePlay {
		return
	}
	reason := c.shutdown.Reason()
	if reason == "" {
		return
	}
	chat, err := serial.NewChat(reason)
	if err != nil {
		return
	}
	pkt := &packets.ClientboundPlayDisconnect{Reason: chat}
	adv := c.cfg.Network.Advanced
	_, _ = c.writeFramed(pkt, int(adv.CompressionThreshold), int(adv.CompressionLevel))
}

// readerLoop is the reader task of spec §4.4: it owns the read half of
// the socket, assembles frames, decodes per the current state, and
// either handles a packet internally or forwards it to inbound.
func (c *Connection) readerLoop() {
	defer c.wg.Done()
	defer c.shutdown.trigger("")

	br := bufio.NewReaderSize(c.conn, int(c.cfg.Network.Advanced.BufferSize))

	for {
		if c.shutdown.isTriggered() {
			return
		}

		id, body, err := frame.Read(br, c.compression.Load())
		if err != nil {
			if err != io.EOF && !errors.Is(err, io.ErrUnexpectedEOF) {
				c.log.WithError(err).Debug("reader terminating")
				if c.metrics != nil {
					c.metrics.Errors.Add(1)
				}
			}
			return
		}

		pkt, derr := c.decode(id, body)
		if derr != nil {
			c.log.WithError(derr).Warn("failed to decode packet, terminating connection")
			if c.metrics != nil {
				c.metrics.Errors.Add(1)
			}
			return
		}
		if pkt == nil {
			c.log.WithField("id", id).WithField("state", c.state.load()).
				Warn("unknown packet id, dropping")
			continue
		}

		if c.metrics != nil {
			c.metrics.PacketsIn.Add(1)
		}

		if handled := c.handleInternally(pkt); handled {
			continue
		}

		select {
		case c.inbound <- pkt:
		case <-c.shutdown.done():
			return
		}
	}
}

func (c *Connection) decode(id byte, body []byte) (packets.Packet, error) {
	switch c.state.load() {
	case StateHandshake:
		return packets.DecodeServerboundHandshaking(id, body)
	case StateStatus:
		return packets.DecodeServerboundStatus(id, body)
	case StateLogin:
		return packets.DecodeServerboundLogin(id, body)
	default:
		return nil, nil
	}
}
