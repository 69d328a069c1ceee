// Package packets implements the packet catalog of spec §6.3: one Go type
// per (direction, state, id) entry, each an EncodeBody/decode pair, fronted
// by the Packet interface that every layer above this one passes around.
//
// The catalog in the original implementation is generated by a proc-macro
// from a declarative table; Go has no equivalent macro system, so this
// package is the hand-authored output such a generator would have
// produced — one file per protocol state (handshake.go, status.go,
// login.go, play.go), each holding its own per-(direction,state)
// id→decoder table spec §4.2 calls for.
package packets

import "github.com/snapgo-project/snapgo/internal/serial"

// Packet is the dispatch sum type named Packets in spec §3/§4.2. Every
// catalog entry is a concrete struct implementing this interface directly;
// Go's interface dispatch plays the role the original's boxed enum
// variants played, and a type switch stands in for its generated Debug
// impl. Construction from any typed record is total because every record
// type satisfies the interface by definition — there is no separate
// conversion step to get wrong.
type Packet interface {
	// ID is the packet's numeric id within its (direction, state) table.
	ID() byte
	// Name identifies the variant for logging, the Go equivalent of the
	// generated Debug rendering in spec §4.2 item 4.
	Name() string
	// EncodeBody serializes the packet's fields in declaration order.
	// Packets flagged Ignore (spec §3) return (nil, nil): recognized but
	// never actually put on the wire.
	EncodeBody() ([]byte, error)
}

// encodeByteSlice writes a VarInt length prefix followed by raw bytes —
// the wire shape of a "sequence of T with an explicit, private length
// field" (spec §3) specialized to T=byte, used by the Login-state
// encryption packets' shared_secret/verify_token fields. The length is
// computed from the slice, never stored on the struct.
func encodeByteSlice(enc *serial.Encoder, data []byte) error {
	if err := serial.NewVarInt(uint32(len(data))).Encode(enc); err != nil {
		return err
	}
	_, err := enc.Write(data)
	return err
}

// decodeByteSlice is the decode counterpart of encodeByteSlice: it reads
// the private VarInt length binding into a local variable and uses it to
// size the following read, without surfacing the length as a field.
func decodeByteSlice(dec *serial.Decoder) ([]byte, error) {
	var length serial.VarInt
	if err := length.Decode(dec); err != nil {
		return nil, err
	}
	return dec.ReadBytes(int(length.Value))
}
