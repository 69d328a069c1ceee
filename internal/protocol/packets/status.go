package packets

import "github.com/snapgo-project/snapgo/internal/serial"

// ServerboundStatusRequest is Serverbound/Status 0x00 (spec §6.3) — an
// empty body.
type ServerboundStatusRequest struct{}

func (p *ServerboundStatusRequest) ID() byte              { return 0x00 }
func (p *ServerboundStatusRequest) Name() string          { return "ServerboundStatusRequest" }
func (p *ServerboundStatusRequest) EncodeBody() ([]byte, error) { return nil, nil }

func decodeServerboundStatusRequest(body []byte) (Packet, error) {
	return &ServerboundStatusRequest{}, nil
}

// ServerboundStatusPing is Serverbound/Status 0x01 (spec §6.3).
type ServerboundStatusPing struct {
	Payload int64
}

func (p *ServerboundStatusPing) ID() byte     { return 0x01 }
func (p *ServerboundStatusPing) Name() string { return "ServerboundStatusPing" }

func (p *ServerboundStatusPing) EncodeBody() ([]byte, error) {
	enc := &serial.Encoder{}
	if err := serial.EncodeI64(enc, p.Payload); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

func decodeServerboundStatusPing(body []byte) (Packet, error) {
	dec := serial.NewDecoder(body)
	payload, err := serial.DecodeI64(dec)
	if err != nil {
		return nil, err
	}
	return &ServerboundStatusPing{Payload: payload}, nil
}

// DecodeServerboundStatus is the per-(direction,state) dispatcher for the
// Status state.
func DecodeServerboundStatus(id byte, body []byte) (Packet, error) {
	switch id {
	case 0x00:
		return decodeServerboundStatusRequest(body)
	case 0x01:
		return decodeServerboundStatusPing(body)
	default:
		return nil, nil
	}
}

// ClientboundStatusResponse is Clientbound/Status 0x00 (spec §6.3).
type ClientboundStatusResponse struct {
	JSONResponse serial.BoundedString
}

func (p *ClientboundStatusResponse) ID() byte     { return 0x00 }
func (p *ClientboundStatusResponse) Name() string { return "ClientboundStatusResponse" }

func (p *ClientboundStatusResponse) EncodeBody() ([]byte, error) {
	enc := &serial.Encoder{}
	if err := p.JSONResponse.Encode(enc); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// NewClientboundStatusResponse bounds json to BoundedString<32767> per
// spec §6.3.
func NewClientboundStatusResponse(json string) (*ClientboundStatusResponse, error) {
	bs, err := serial.NewBoundedString(json, 32767)
	if err != nil {
		return nil, err
	}
	return &ClientboundStatusResponse{JSONResponse: bs}, nil
}

func decodeClientboundStatusResponse(body []byte) (Packet, error) {
	dec := serial.NewDecoder(body)
	bs, err := serial.DecodeBoundedString(dec, 32767)
	if err != nil {
		return nil, err
	}
	return &ClientboundStatusResponse{JSONResponse: bs}, nil
}

// ClientboundStatusPong is Clientbound/Status 0x01 (spec §6.3).
type ClientboundStatusPong struct {
	Payload int64
}

func (p *ClientboundStatusPong) ID() byte     { return 0x01 }
func (p *ClientboundStatusPong) Name() string { return "ClientboundStatusPong" }

func (p *ClientboundStatusPong) EncodeBody() ([]byte, error) {
	enc := &serial.Encoder{}
	if err := serial.EncodeI64(enc, p.Payload); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

func decodeClientboundStatusPong(body []byte) (Packet, error) {
	dec := serial.NewDecoder(body)
	payload, err := serial.DecodeI64(dec)
	if err != nil {
		return nil, err
	}
	return &ClientboundStatusPong{Payload: payload}, nil
}

// DecodeClientboundStatus is the per-(direction,state) dispatcher for the
// Status state, used by tests that need to round-trip clientbound
// packets even though the live engine never decodes its own traffic.
func DecodeClientboundStatus(id byte, body []byte) (Packet, error) {
	switch id {
	case 0x00:
		return decodeClientboundStatusResponse(body)
	case 0x01:
		return decodeClientboundStatusPong(body)
	default:
		return nil, nil
	}
}
