// Package serial implements the byte-level encode/decode primitives for the
// game protocol's type system: fixed-width integers, VarInts, bounded
// strings, Chat, and Identifier. It is the innermost layer of the protocol
// stack — the frame layer (internal/protocol/frame) and packet catalog
// (internal/protocol/packets) build on top of it.
package serial

import "github.com/pkg/errors"

// DecodeError distinguishes a short read from malformed content, mirroring
// the two-variant error the original implementation used so callers can
// tell "come back with more bytes" apart from "this connection is done."
type DecodeError struct {
	Kind DecodeErrorKind
	Err  error
}

type DecodeErrorKind int

const (
	// NotEnoughBytes means the decoder ran off the end of the buffer; a
	// framing layer reading from a stream should read more and retry.
	NotEnoughBytes DecodeErrorKind = iota
	// InvalidData covers oversized VarInts, invalid UTF-8, and bound
	// violations — none of these are recoverable by reading more bytes.
	InvalidData
)

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Kind == NotEnoughBytes {
		return "not enough bytes"
	}
	return "invalid data"
}

func (e *DecodeError) Unwrap() error { return e.Err }

func errNotEnoughBytes() error {
	return &DecodeError{Kind: NotEnoughBytes, Err: errors.New("not enough bytes")}
}

func errInvalidData(msg string) error {
	return &DecodeError{Kind: InvalidData, Err: errors.New(msg)}
}

// IsNotEnoughBytes reports whether err is (or wraps) a NotEnoughBytes
// DecodeError.
func IsNotEnoughBytes(err error) bool {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind == NotEnoughBytes
	}
	return false
}

// Encoder accumulates the encoded bytes of a value. It has no failure mode
// of its own today (encoding a well-formed Go value cannot fail), but is
// kept as a type so Encode methods have somewhere to write and so future
// encode-time validation (e.g. a hard length cap) has a natural home.
type Encoder struct {
	buf []byte
}

func (e *Encoder) WriteByte(b byte) error {
	e.buf = append(e.buf, b)
	return nil
}

func (e *Encoder) Write(b []byte) (int, error) {
	e.buf = append(e.buf, b...)
	return len(b), nil
}

func (e *Encoder) Bytes() []byte { return e.buf }

// Encode is implemented by every primitive and packet type that can be
// written to the wire.
type Encode interface {
	Encode(enc *Encoder) error
}

// EncodeToBytes is the convenience wrapper named in spec §4.1.
func EncodeToBytes(v Encode) ([]byte, error) {
	enc := &Encoder{}
	if err := v.Encode(enc); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// Decoder reads sequentially from a fixed byte slice, tracking how many
// bytes have been consumed so a framing layer can advance its own cursor.
type Decoder struct {
	buf    []byte
	offset int
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.offset
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.offset
}

func (d *Decoder) ReadByte() (byte, error) {
	if d.Remaining() < 1 {
		return 0, errNotEnoughBytes()
	}
	b := d.buf[d.offset]
	d.offset++
	return b, nil
}

func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errInvalidData("negative length")
	}
	if d.Remaining() < n {
		return nil, errNotEnoughBytes()
	}
	b := d.buf[d.offset : d.offset+n]
	d.offset += n
	return b, nil
}

// Decode is implemented by every primitive and packet type that can be
// read from the wire.
type Decode interface {
	Decode(dec *Decoder) error
}

// DecodeFromBytes decodes a single value from buf, returning the number of
// bytes consumed so a framing layer can advance its own cursor — the Go
// equivalent of decode_from_slice in spec §4.1.
func DecodeFromBytes(v Decode, buf []byte) (int, error) {
	dec := NewDecoder(buf)
	if err := v.Decode(dec); err != nil {
		return 0, err
	}
	return dec.Offset(), nil
}
