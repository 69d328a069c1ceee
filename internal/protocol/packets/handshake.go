package packets

import "github.com/snapgo-project/snapgo/internal/serial"

// ServerboundHandshakingHandshake is Serverbound/Handshaking 0x00 (spec §6.3).
type ServerboundHandshakingHandshake struct {
	ProtocolVersion serial.VarInt
	ServerAddress   serial.BoundedString
	ServerPort      uint16
	NextState       uint8 // technically a VarInt on the wire, but valid values fit a u8
}

func (p *ServerboundHandshakingHandshake) ID() byte     { return 0x00 }
func (p *ServerboundHandshakingHandshake) Name() string { return "ServerboundHandshakingHandshake" }

func (p *ServerboundHandshakingHandshake) EncodeBody() ([]byte, error) {
	enc := &serial.Encoder{}
	if err := p.ProtocolVersion.Encode(enc); err != nil {
		return nil, err
	}
	if err := p.ServerAddress.Encode(enc); err != nil {
		return nil, err
	}
	if err := serial.EncodeU16(enc, p.ServerPort); err != nil {
		return nil, err
	}
	if err := serial.EncodeU8(enc, p.NextState); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

func decodeServerboundHandshakingHandshake(body []byte) (Packet, error) {
	dec := serial.NewDecoder(body)
	p := &ServerboundHandshakingHandshake{}

	if err := p.ProtocolVersion.Decode(dec); err != nil {
		return nil, err
	}

	addr, err := serial.DecodeBoundedString(dec, 255)
	if err != nil {
		return nil, err
	}
	p.ServerAddress = addr

	port, err := serial.DecodeU16(dec)
	if err != nil {
		return nil, err
	}
	p.ServerPort = port

	nextState, err := serial.DecodeU8(dec)
	if err != nil {
		return nil, err
	}
	p.NextState = nextState

	return p, nil
}

// DecodeServerboundHandshaking is the per-(direction,state) dispatcher for
// the Handshaking state, spec §4.2 item 5.
func DecodeServerboundHandshaking(id byte, body []byte) (Packet, error) {
	switch id {
	case 0x00:
		return decodeServerboundHandshakingHandshake(body)
	default:
		return nil, nil
	}
}
