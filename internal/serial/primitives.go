package serial

import "math"

// Go cannot implement the Encode/Decode interfaces on builtin types (no
// methods on non-local types), so the fixed-width primitives are free
// functions instead of trait impls — everything else in this package
// composes them directly. All multi-byte integers and floats are
// big-endian; bool is a single 0/1 byte, matching spec §4.1.

func EncodeU8(enc *Encoder, v uint8) error { return enc.WriteByte(v) }

func DecodeU8(dec *Decoder) (uint8, error) { return dec.ReadByte() }

func EncodeU16(enc *Encoder, v uint16) error {
	_, err := enc.Write([]byte{byte(v >> 8), byte(v)})
	return err
}

func DecodeU16(dec *Decoder) (uint16, error) {
	b, err := dec.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func EncodeU32(enc *Encoder, v uint32) error {
	_, err := enc.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
	return err
}

func DecodeU32(dec *Decoder) (uint32, error) {
	b, err := dec.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func EncodeU64(enc *Encoder, v uint64) error {
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (56 - 8*i))
	}
	_, err := enc.Write(buf)
	return err
}

func DecodeU64(dec *Decoder) (uint64, error) {
	b, err := dec.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

func EncodeI8(enc *Encoder, v int8) error  { return EncodeU8(enc, uint8(v)) }
func DecodeI8(dec *Decoder) (int8, error)  { b, err := DecodeU8(dec); return int8(b), err }
func EncodeI16(enc *Encoder, v int16) error { return EncodeU16(enc, uint16(v)) }
func DecodeI16(dec *Decoder) (int16, error) { v, err := DecodeU16(dec); return int16(v), err }
func EncodeI32(enc *Encoder, v int32) error { return EncodeU32(enc, uint32(v)) }
func DecodeI32(dec *Decoder) (int32, error) { v, err := DecodeU32(dec); return int32(v), err }
func EncodeI64(enc *Encoder, v int64) error { return EncodeU64(enc, uint64(v)) }
func DecodeI64(dec *Decoder) (int64, error) { v, err := DecodeU64(dec); return int64(v), err }

func EncodeF32(enc *Encoder, v float32) error { return EncodeU32(enc, math.Float32bits(v)) }
func DecodeF32(dec *Decoder) (float32, error) {
	v, err := DecodeU32(dec)
	return math.Float32frombits(v), err
}

func EncodeF64(enc *Encoder, v float64) error { return EncodeU64(enc, math.Float64bits(v)) }
func DecodeF64(dec *Decoder) (float64, error) {
	v, err := DecodeU64(dec)
	return math.Float64frombits(v), err
}

func EncodeBool(enc *Encoder, v bool) error {
	if v {
		return enc.WriteByte(1)
	}
	return enc.WriteByte(0)
}

func DecodeBool(dec *Decoder) (bool, error) {
	b, err := dec.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}
