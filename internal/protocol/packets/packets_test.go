package packets

import (
	"testing"

	"github.com/snapgo-project/snapgo/internal/serial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, p Packet, decode func(byte, []byte) (Packet, error)) Packet {
	t.Helper()
	body, err := p.EncodeBody()
	require.NoError(t, err)

	decoded, err := decode(p.ID(), body)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	return decoded
}

func TestHandshakeRoundTrip(t *testing.T) {
	addr, err := serial.NewBoundedString("127.0.0.1", 255)
	require.NoError(t, err)

	p := &ServerboundHandshakingHandshake{
		ProtocolVersion: serial.NewVarInt(754),
		ServerAddress:   addr,
		ServerPort:      25565,
		NextState:       1,
	}
	decoded := roundTrip(t, p, DecodeServerboundHandshaking).(*ServerboundHandshakingHandshake)
	assert.Equal(t, p.ProtocolVersion.Value, decoded.ProtocolVersion.Value)
	assert.Equal(t, p.ServerAddress.Value, decoded.ServerAddress.Value)
	assert.Equal(t, p.ServerPort, decoded.ServerPort)
	assert.Equal(t, p.NextState, decoded.NextState)
}

func TestStatusRequestRoundTrip(t *testing.T) {
	p := &ServerboundStatusRequest{}
	decoded := roundTrip(t, p, DecodeServerboundStatus)
	assert.IsType(t, &ServerboundStatusRequest{}, decoded)
}

func TestStatusPingPongRoundTrip(t *testing.T) {
	ping := &ServerboundStatusPing{Payload: 42}
	decodedPing := roundTrip(t, ping, DecodeServerboundStatus).(*ServerboundStatusPing)
	assert.Equal(t, int64(42), decodedPing.Payload)

	pong := &ClientboundStatusPong{Payload: 42}
	decodedPong := roundTrip(t, pong, DecodeClientboundStatus).(*ClientboundStatusPong)
	assert.Equal(t, int64(42), decodedPong.Payload)
}

func TestStatusResponseRoundTrip(t *testing.T) {
	p, err := NewClientboundStatusResponse(`{"version":{"name":"1.16.5","protocol":754}}`)
	require.NoError(t, err)
	decoded := roundTrip(t, p, DecodeClientboundStatus).(*ClientboundStatusResponse)
	assert.Equal(t, p.JSONResponse.Value, decoded.JSONResponse.Value)
}

func TestLoginStartRoundTrip(t *testing.T) {
	name, err := serial.NewBoundedString("tester", 16)
	require.NoError(t, err)
	p := &ServerboundLoginLoginStart{Name: name}
	decoded := roundTrip(t, p, DecodeServerboundLogin).(*ServerboundLoginLoginStart)
	assert.Equal(t, "tester", decoded.Name.Value)
}

func TestEncryptionResponseRoundTrip(t *testing.T) {
	p := &ServerboundLoginEncryptionResponse{
		SharedSecret: []byte{1, 2, 3, 4},
		VerifyToken:  []byte{5, 6},
	}
	decoded := roundTrip(t, p, DecodeServerboundLogin).(*ServerboundLoginEncryptionResponse)
	assert.Equal(t, p.SharedSecret, decoded.SharedSecret)
	assert.Equal(t, p.VerifyToken, decoded.VerifyToken)
}

func TestEncryptionRequestRoundTrip(t *testing.T) {
	serverID, err := serial.NewBoundedString("", 20)
	require.NoError(t, err)
	p := &ClientboundLoginEncryptionRequest{
		ServerID:    serverID,
		PublicKey:   []byte{1, 2, 3},
		VerifyToken: []byte{4, 5, 6, 7},
	}
	decoded := roundTrip(t, p, DecodeClientboundLogin).(*ClientboundLoginEncryptionRequest)
	assert.Equal(t, p.PublicKey, decoded.PublicKey)
	assert.Equal(t, p.VerifyToken, decoded.VerifyToken)
}

func TestLoginSuccessRoundTrip(t *testing.T) {
	p, err := NewClientboundLoginSuccess("00000000-0000-0000-0000-000000000000", "tester")
	require.NoError(t, err)
	decoded := roundTrip(t, p, DecodeClientboundLogin).(*ClientboundLoginSuccess)
	assert.Equal(t, p.UUID.Value, decoded.UUID.Value)
	assert.Equal(t, p.Username.Value, decoded.Username.Value)
}

func TestSetCompressionRoundTrip(t *testing.T) {
	p := &ClientboundLoginSetCompression{Threshold: serial.NewVarInt(256)}
	decoded := roundTrip(t, p, DecodeClientboundLogin).(*ClientboundLoginSetCompression)
	assert.Equal(t, uint32(256), decoded.Threshold.Value)
}

func TestLoginDisconnectRoundTrip(t *testing.T) {
	reason, err := serial.NewChat(`{"text":"bye"}`)
	require.NoError(t, err)
	p := &ClientboundLoginDisconnect{Reason: reason}
	decoded := roundTrip(t, p, DecodeClientboundLogin).(*ClientboundLoginDisconnect)
	assert.Equal(t, p.Reason.String(), decoded.Reason.String())
}

func TestPlayDisconnectRoundTrip(t *testing.T) {
	reason, err := serial.NewChat(`{"text":"kicked"}`)
	require.NoError(t, err)
	p := &ClientboundPlayDisconnect{Reason: reason}
	decoded := roundTrip(t, p, DecodeClientboundPlay).(*ClientboundPlayDisconnect)
	assert.Equal(t, p.Reason.String(), decoded.Reason.String())
}

func TestUnknownIDYieldsNilWithoutError(t *testing.T) {
	p, err := DecodeServerboundStatus(0xFE, nil)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestInternalPacketsAreNeverSerialized(t *testing.T) {
	init := &InternalServerInitialize{UUID: "u", Username: "n"}
	body, err := init.EncodeBody()
	require.NoError(t, err)
	assert.Nil(t, body)

	disc := &InternalNetworkDisconnect{Reason: "bye"}
	body, err = disc.EncodeBody()
	require.NoError(t, err)
	assert.Nil(t, body)
}
