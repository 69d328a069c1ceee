package packets

import "github.com/snapgo-project/snapgo/internal/serial"

// ServerboundLoginLoginStart is Serverbound/Login 0x00 (spec §6.3).
type ServerboundLoginLoginStart struct {
	Name serial.BoundedString
}

func (p *ServerboundLoginLoginStart) ID() byte     { return 0x00 }
func (p *ServerboundLoginLoginStart) Name() string { return "ServerboundLoginLoginStart" }

func (p *ServerboundLoginLoginStart) EncodeBody() ([]byte, error) {
	enc := &serial.Encoder{}
	if err := p.Name.Encode(enc); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

func decodeServerboundLoginLoginStart(body []byte) (Packet, error) {
	dec := serial.NewDecoder(body)
	name, err := serial.DecodeBoundedString(dec, 16)
	if err != nil {
		return nil, err
	}
	return &ServerboundLoginLoginStart{Name: name}, nil
}

// ServerboundLoginEncryptionResponse is Serverbound/Login 0x01 (spec §6.3).
// The two length fields (_ssl, _vtl) are private length bindings and are
// elided from the struct per spec §4.2 item 1 — they're recovered from
// len(SharedSecret)/len(VerifyToken) at encode time and consumed into
// locals at decode time.
type ServerboundLoginEncryptionResponse struct {
	SharedSecret []byte
	VerifyToken  []byte
}

func (p *ServerboundLoginEncryptionResponse) ID() byte { return 0x01 }
func (p *ServerboundLoginEncryptionResponse) Name() string {
	return "ServerboundLoginEncryptionResponse"
}

func (p *ServerboundLoginEncryptionResponse) EncodeBody() ([]byte, error) {
	enc := &serial.Encoder{}
	if err := encodeByteSlice(enc, p.SharedSecret); err != nil {
		return nil, err
	}
	if err := encodeByteSlice(enc, p.VerifyToken); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

func decodeServerboundLoginEncryptionResponse(body []byte) (Packet, error) {
	dec := serial.NewDecoder(body)
	secret, err := decodeByteSlice(dec)
	if err != nil {
		return nil, err
	}
	token, err := decodeByteSlice(dec)
	if err != nil {
		return nil, err
	}
	return &ServerboundLoginEncryptionResponse{SharedSecret: secret, VerifyToken: token}, nil
}

// DecodeServerboundLogin is the per-(direction,state) dispatcher for the
// Login state.
func DecodeServerboundLogin(id byte, body []byte) (Packet, error) {
	switch id {
	case 0x00:
		return decodeServerboundLoginLoginStart(body)
	case 0x01:
		return decodeServerboundLoginEncryptionResponse(body)
	default:
		return nil, nil
	}
}

// ClientboundLoginDisconnect is Clientbound/Login 0x00 (spec §6.3).
type ClientboundLoginDisconnect struct {
	Reason serial.Chat
}

func (p *ClientboundLoginDisconnect) ID() byte     { return 0x00 }
func (p *ClientboundLoginDisconnect) Name() string { return "ClientboundLoginDisconnect" }

func (p *ClientboundLoginDisconnect) EncodeBody() ([]byte, error) {
	enc := &serial.Encoder{}
	if err := p.Reason.Encode(enc); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

func decodeClientboundLoginDisconnect(body []byte) (Packet, error) {
	dec := serial.NewDecoder(body)
	reason, err := serial.DecodeChat(dec)
	if err != nil {
		return nil, err
	}
	return &ClientboundLoginDisconnect{Reason: reason}, nil
}

// ClientboundLoginEncryptionRequest is Clientbound/Login 0x01 (spec §6.3).
// As with the serverbound response, _pkl and _vtl are private length
// bindings elided from the struct.
type ClientboundLoginEncryptionRequest struct {
	ServerID    serial.BoundedString
	PublicKey   []byte
	VerifyToken []byte
}

func (p *ClientboundLoginEncryptionRequest) ID() byte { return 0x01 }
func (p *ClientboundLoginEncryptionRequest) Name() string {
	return "ClientboundLoginEncryptionRequest"
}

func (p *ClientboundLoginEncryptionRequest) EncodeBody() ([]byte, error) {
	enc := &serial.Encoder{}
	if err := p.ServerID.Encode(enc); err != nil {
		return nil, err
	}
	if err := encodeByteSlice(enc, p.PublicKey); err != nil {
		return nil, err
	}
	if err := encodeByteSlice(enc, p.VerifyToken); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

func decodeClientboundLoginEncryptionRequest(body []byte) (Packet, error) {
	dec := serial.NewDecoder(body)
	serverID, err := serial.DecodeBoundedString(dec, 20)
	if err != nil {
		return nil, err
	}
	pubKey, err := decodeByteSlice(dec)
	if err != nil {
		return nil, err
	}
	token, err := decodeByteSlice(dec)
	if err != nil {
		return nil, err
	}
	return &ClientboundLoginEncryptionRequest{ServerID: serverID, PublicKey: pubKey, VerifyToken: token}, nil
}

// ClientboundLoginSuccess is Clientbound/Login 0x02 (spec §6.3).
type ClientboundLoginSuccess struct {
	UUID     serial.BoundedString
	Username serial.BoundedString
}

func (p *ClientboundLoginSuccess) ID() byte     { return 0x02 }
func (p *ClientboundLoginSuccess) Name() string { return "ClientboundLoginSuccess" }

func (p *ClientboundLoginSuccess) EncodeBody() ([]byte, error) {
	enc := &serial.Encoder{}
	if err := p.UUID.Encode(enc); err != nil {
		return nil, err
	}
	if err := p.Username.Encode(enc); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// NewClientboundLoginSuccess bounds uuid/username to <36>/<16> per spec §6.3.
func NewClientboundLoginSuccess(uuid, username string) (*ClientboundLoginSuccess, error) {
	u, err := serial.NewBoundedString(uuid, 36)
	if err != nil {
		return nil, err
	}
	n, err := serial.NewBoundedString(username, 16)
	if err != nil {
		return nil, err
	}
	return &ClientboundLoginSuccess{UUID: u, Username: n}, nil
}

func decodeClientboundLoginSuccess(body []byte) (Packet, error) {
	dec := serial.NewDecoder(body)
	uuid, err := serial.DecodeBoundedString(dec, 36)
	if err != nil {
		return nil, err
	}
	username, err := serial.DecodeBoundedString(dec, 16)
	if err != nil {
		return nil, err
	}
	return &ClientboundLoginSuccess{UUID: uuid, Username: username}, nil
}

// ClientboundLoginSetCompression is Clientbound/Login 0x03 (spec §6.3).
type ClientboundLoginSetCompression struct {
	Threshold serial.VarInt
}

func (p *ClientboundLoginSetCompression) ID() byte     { return 0x03 }
func (p *ClientboundLoginSetCompression) Name() string { return "ClientboundLoginSetCompression" }

func (p *ClientboundLoginSetCompression) EncodeBody() ([]byte, error) {
	enc := &serial.Encoder{}
	if err := p.Threshold.Encode(enc); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

func decodeClientboundLoginSetCompression(body []byte) (Packet, error) {
	dec := serial.NewDecoder(body)
	var threshold serial.VarInt
	if err := threshold.Decode(dec); err != nil {
		return nil, err
	}
	return &ClientboundLoginSetCompression{Threshold: threshold}, nil
}

// DecodeClientboundLogin is the per-(direction,state) dispatcher for the
// Login state's clientbound packets — exercised by round-trip tests.
func DecodeClientboundLogin(id byte, body []byte) (Packet, error) {
	switch id {
	case 0x00:
		return decodeClientboundLoginDisconnect(body)
	case 0x01:
		return decodeClientboundLoginEncryptionRequest(body)
	case 0x02:
		return decodeClientboundLoginSuccess(body)
	case 0x03:
		return decodeClientboundLoginSetCompression(body)
	default:
		return nil, nil
	}
}
