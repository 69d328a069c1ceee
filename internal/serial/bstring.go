package serial

import (
	"unicode/utf8"

	"github.com/pkg/errors"
)

// BoundedString is UTF-8 text whose character count is bounded by Max and
// whose byte length is carried as a VarInt prefix on the wire (spec §3).
// Go has no const-generic equivalent of the original's BoundedString<L>,
// so the bound lives as a runtime field instead of a type parameter; each
// wire-level bound (255, 16, 20, 36, 32767, 262144 …) is fixed by the
// constructor a packet field uses, not by distinct Go types.
type BoundedString struct {
	Value string
	Max   int
}

// NewBoundedString constructs a BoundedString, enforcing spec §3's
// "0 < L ≤ 32767" and "character count ≤ L" invariants; ChatMax is the
// one bound above 32767 that is accepted. Unlike the
// original's panicking assert!, a violation here is a returned error: a
// malformed field must fail the decode of a single connection, not the
// process (spec §7).
func NewBoundedString(value string, max int) (BoundedString, error) {
	if max <= 0 || (max > 32767 && max != ChatMax) {
		return BoundedString{}, errors.New("bounded string max out of range")
	}
	if utf8.RuneCountInString(value) > max {
		return BoundedString{}, errInvalidData("string exceeds bound")
	}
	return BoundedString{Value: value, Max: max}, nil
}

func (s BoundedString) Encode(enc *Encoder) error {
	b := []byte(s.Value)
	if err := NewVarInt(uint32(len(b))).Encode(enc); err != nil {
		return err
	}
	_, err := enc.Write(b)
	return err
}

// DecodeBoundedString decodes a length-prefixed UTF-8 string bounded to
// max characters. It's a function rather than a Decode method because the
// bound must be known before decoding — unlike the type-parameterized
// original, Go can't dispatch on Max at decode time.
func DecodeBoundedString(dec *Decoder, max int) (BoundedString, error) {
	var length VarInt
	if err := length.Decode(dec); err != nil {
		return BoundedString{}, err
	}
	raw, err := dec.ReadBytes(int(length.Value))
	if err != nil {
		return BoundedString{}, err
	}
	if !utf8.Valid(raw) {
		return BoundedString{}, errInvalidData("invalid utf-8")
	}
	return NewBoundedString(string(raw), max)
}

// Chat is a BoundedString<262144> carrying opaque JSON text (spec §3).
const ChatMax = 262144

type Chat struct {
	Value BoundedString
}

func NewChat(json string) (Chat, error) {
	bs, err := NewBoundedString(json, ChatMax)
	return Chat{Value: bs}, err
}

func (c Chat) Encode(enc *Encoder) error { return c.Value.Encode(enc) }

func DecodeChat(dec *Decoder) (Chat, error) {
	bs, err := DecodeBoundedString(dec, ChatMax)
	return Chat{Value: bs}, err
}

func (c Chat) String() string { return c.Value.Value }
