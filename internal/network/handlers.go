package network

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/snapgo-project/snapgo/internal/protocol/packets"
	"github.com/snapgo-project/snapgo/internal/serial"
)

// statusResponse is the JSON body of spec §6.2's ServerboundStatusRequest
// reply, mirrored from original_source/src/network/connection.rs's
// inline StatusResponse struct.
type statusResponse struct {
	Version     statusVersion     `json:"version"`
	Players     statusPlayers     `json:"players"`
	Description statusDescription `json:"description"`
	Favicon     string            `json:"favicon,omitempty"`
}

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type statusPlayers struct {
	Max    int           `json:"max"`
	Online int           `json:"online"`
	Sample []interface{} `json:"sample"`
}

type statusDescription struct {
	Text string `json:"text"`
}

// handleInternally implements spec §4.4's built-in Handshake/Status/Login
// handling in the reader task. It returns true when pkt was fully handled
// and must not be forwarded to the game layer.
func (c *Connection) handleInternally(pkt packets.Packet) bool {
	switch p := pkt.(type) {
	case *packets.ServerboundHandshakingHandshake:
		c.handleHandshake(p)
		return true

	case *packets.ServerboundStatusRequest:
		c.handleStatusRequest()
		return true

	case *packets.ServerboundStatusPing:
		c.enqueue(&packets.ClientboundStatusPong{Payload: p.Payload})
		return true

	case *packets.ServerboundLoginLoginStart:
		c.handleLoginStart(p)
		return true

	default:
		return false
	}
}

func (c *Connection) handleHandshake(p *packets.ServerboundHandshakingHandshake) {
	version := p.ProtocolVersion.Value
	c.log.WithField("protocol_version", version).Debug("client connected")

	if version > protocolVersion && p.NextState != 1 {
		c.log.WithField("protocol_version", version).
			Warn("rejecting unsupported protocol version")
		c.shutdown.trigger("")
		return
	}

	switch p.NextState {
	case 1:
		c.state.store(StateStatus)
	case 2:
		c.state.store(StateLogin)
	default:
		c.log.WithField("next_state", p.NextState).Warn("invalid handshake next_state")
		c.shutdown.trigger("")
	}
}

func (c *Connection) handleStatusRequest() {
	cfg := c.cfg
	resp := statusResponse{
		Version: statusVersion{Name: "1.16.5", Protocol: protocolVersion},
		Players: statusPlayers{
			Max:    int(cfg.Network.MaxPlayers),
			Online: c.online,
			Sample: []interface{}{},
		},
		Description: statusDescription{Text: cfg.Server.Motd},
	}

	body, err := json.Marshal(resp)
	if err != nil {
		c.log.WithError(err).Error("failed to marshal status response")
		return
	}

	pkt, err := packets.NewClientboundStatusResponse(string(body))
	if err != nil {
		c.log.WithError(err).Error("status response json exceeds bound")
		return
	}
	c.enqueue(pkt)
}

func (c *Connection) handleLoginStart(p *packets.ServerboundLoginLoginStart) {
	name := p.Name.Value
	c.log.WithField("username", name).Info("login attempt")

	threshold := c.cfg.Network.Advanced.CompressionThreshold
	c.enqueue(&packets.ClientboundLoginSetCompression{Threshold: serial.NewVarInt(threshold)})

	// The zero UUID is an explicit placeholder (spec §9): session
	// authentication against Mojang is out of scope.
	success, err := packets.NewClientboundLoginSuccess(uuid.Nil.String(), name)
	if err != nil {
		c.log.WithError(err).Error("failed to build login success")
		return
	}
	c.enqueue(success)

	c.state.store(StatePlay)

	select {
	case c.inbound <- &packets.InternalServerInitialize{UUID: uuid.Nil.String(), Username: name}:
	case <-c.shutdown.done():
	}
}

// enqueue pushes pkt onto the outbound queue, backing off if the
// connection is shutting down rather than blocking forever on a full
// channel nobody will ever drain again.
func (c *Connection) enqueue(pkt packets.Packet) {
	select {
	case c.outbound <- pkt:
	case <-c.shutdown.done():
	}
}
