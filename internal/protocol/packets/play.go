package packets

import "github.com/snapgo-project/snapgo/internal/serial"

// ClientboundPlayDisconnect is Clientbound/Play 0x19 (spec §6.3) — the only
// Play-state packet this engine implements; everything else in the
// Play-state corpus is explicitly out of scope (spec §1).
type ClientboundPlayDisconnect struct {
	Reason serial.Chat
}

func (p *ClientboundPlayDisconnect) ID() byte     { return 0x19 }
func (p *ClientboundPlayDisconnect) Name() string { return "ClientboundPlayDisconnect" }

func (p *ClientboundPlayDisconnect) EncodeBody() ([]byte, error) {
	enc := &serial.Encoder{}
	if err := p.Reason.Encode(enc); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

func decodeClientboundPlayDisconnect(body []byte) (Packet, error) {
	dec := serial.NewDecoder(body)
	reason, err := serial.DecodeChat(dec)
	if err != nil {
		return nil, err
	}
	return &ClientboundPlayDisconnect{Reason: reason}, nil
}

// DecodeClientboundPlay is the per-(direction,state) dispatcher for the
// Play state's one implemented packet.
func DecodeClientboundPlay(id byte, body []byte) (Packet, error) {
	switch id {
	case 0x19:
		return decodeClientboundPlayDisconnect(body)
	default:
		return nil, nil
	}
}
