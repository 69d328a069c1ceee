// Package frame implements the length-prefixed wire framing and optional
// zlib compression envelope of spec §4.3: it sits between the connection
// engine's reader/writer tasks and the serial codec, turning a stream of
// bytes into (id, body) pairs and back.
package frame

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"io"

	"github.com/pkg/errors"

	"github.com/snapgo-project/snapgo/internal/serial"
)

// MaxFrameLength is the 2^21-1 byte cap on a frame's length-prefixed
// content (spec §3) — not counting the length prefix itself, matching
// how the wire format's own VarInt length field bounds the body it
// describes (the same convention itzg-mc-router's mcproto package uses
// for its own MaxFrameLength check).
const MaxFrameLength = 2097151

// ErrFrameTooLarge is returned by Write when the frame it was asked to
// serialize would exceed MaxFrameLength. Spec §4.3 step 5 treats this as
// a protocol-level error: the caller must broadcast shutdown and must
// never let the oversize bytes reach the wire.
var ErrFrameTooLarge = errors.New("frame exceeds maximum length")

// Read assembles one frame from r per spec §4.3's receive path and
// returns the packet id and body. With compression disabled, a frame is
// the plain v32(length) | id | body shape. With compression enabled, the
// outer v32(frameLength) | v32(uncompressedLength) | payload envelope is
// unwrapped first; payload is zlib-inflated when uncompressedLength != 0
// and used as-is (it was below the sender's compression threshold)
// otherwise.
//
// r must be a *bufio.Reader (not a bare io.Reader) because VarInt decode
// needs ReadByte, and because bufio.Reader already gives us exactly the
// "issue additional reads until the frame is assembled" behavior spec
// §4.3 step 2 asks for — io.ReadFull over it pulls from the underlying
// connection as many times as it takes.
func Read(r *bufio.Reader, compressionEnabled bool) (id byte, body []byte, err error) {
	length, _, err := serial.ReadVarIntFrom(r)
	if err != nil {
		return 0, nil, errors.Wrap(err, "reading frame length")
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		// A zero-byte read mid-frame surfaces here as io.EOF or
		// io.ErrUnexpectedEOF; either way the caller terminates the
		// connection per spec §7's PeerClosed policy.
		return 0, nil, errors.Wrap(err, "reading frame body")
	}

	if !compressionEnabled {
		return splitIDBody(payload)
	}

	dec := serial.NewDecoder(payload)
	var uncompressedLength serial.VarInt
	if err := uncompressedLength.Decode(dec); err != nil {
		return 0, nil, errors.Wrap(err, "reading uncompressed length")
	}
	rest := payload[dec.Offset():]

	if uncompressedLength.Value == 0 {
		return splitIDBody(rest)
	}

	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return 0, nil, errors.Wrap(err, "opening zlib reader")
	}
	defer zr.Close()

	idBody := make([]byte, uncompressedLength.Value)
	if _, err := io.ReadFull(zr, idBody); err != nil {
		return 0, nil, errors.Wrap(err, "inflating frame")
	}
	return splitIDBody(idBody)
}

func splitIDBody(data []byte) (byte, []byte, error) {
	if len(data) < 1 {
		return 0, nil, errors.New("empty frame")
	}
	return data[0], data[1:], nil
}

// Write serializes id|body onto w per spec §4.3's send path. saved
// reports how many bytes zlib shaved off this frame — 0 whenever
// compression is disabled, the frame stayed below threshold, or
// compressing it didn't actually shrink the payload.
//
// With compression disabled, it emits the plain frame unconditionally.
// With compression enabled, it only attempts zlib once len(body)+1
// exceeds threshold, and falls back to the raw (uncompressed-length=0)
// envelope whenever compressing didn't actually shrink the payload —
// exactly the two-sided comparison spec §4.3 step 4 describes.
func Write(w io.Writer, id byte, body []byte, compressionEnabled bool, threshold int, level int) (saved int, err error) {
	idBody := make([]byte, 0, len(body)+1)
	idBody = append(idBody, id)
	idBody = append(idBody, body...)

	if !compressionEnabled {
		return 0, writeRaw(w, idBody)
	}

	if len(idBody) <= threshold {
		return 0, writeEnvelope(w, 0, idBody)
	}

	compressed, err := zlibCompress(idBody, level)
	if err != nil {
		return 0, errors.Wrap(err, "compressing frame")
	}
	if len(compressed) < len(idBody) {
		return len(idBody) - len(compressed), writeEnvelope(w, uint32(len(idBody)), compressed)
	}
	return 0, writeEnvelope(w, 0, idBody)
}

func writeRaw(w io.Writer, idBody []byte) error {
	if len(idBody) > MaxFrameLength {
		return ErrFrameTooLarge
	}
	enc := &serial.Encoder{}
	if err := serial.NewVarInt(uint32(len(idBody))).Encode(enc); err != nil {
		return err
	}
	if _, err := w.Write(enc.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(idBody)
	return err
}

func writeEnvelope(w io.Writer, uncompressedLength uint32, payload []byte) error {
	ulEnc := &serial.Encoder{}
	if err := serial.NewVarInt(uncompressedLength).Encode(ulEnc); err != nil {
		return err
	}
	inner := append(ulEnc.Bytes(), payload...)
	if len(inner) > MaxFrameLength {
		return ErrFrameTooLarge
	}

	lenEnc := &serial.Encoder{}
	if err := serial.NewVarInt(uint32(len(inner))).Encode(lenEnc); err != nil {
		return err
	}
	if _, err := w.Write(lenEnc.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(inner)
	return err
}

func zlibCompress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
