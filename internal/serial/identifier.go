package serial

import "strings"

// IdentifierMax is the BoundedString bound an Identifier is built on (spec §3).
const IdentifierMax = 32767

// Identifier is a namespace:path pair where every character is in
// [a-z0-9_./-]; a missing namespace defaults to "minecraft".
type Identifier struct {
	value BoundedString
}

func isValidIdentifierChar(c rune) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '.' || c == '/' || c == '-'
}

// NewIdentifier constructs an Identifier from "namespace:path" or a bare
// "path" (which defaults the namespace to "minecraft"), validating every
// character of both parts.
func NewIdentifier(raw string) (Identifier, error) {
	namespace, path, found := strings.Cut(raw, ":")
	if !found {
		namespace, path = "minecraft", namespace
	}

	for _, part := range []string{namespace, path} {
		for _, c := range part {
			if !isValidIdentifierChar(c) {
				return Identifier{}, errInvalidData("invalid identifier character")
			}
		}
	}

	bs, err := NewBoundedString(namespace+":"+path, IdentifierMax)
	if err != nil {
		return Identifier{}, err
	}
	return Identifier{value: bs}, nil
}

func (i Identifier) String() string { return i.value.Value }

func (i Identifier) Encode(enc *Encoder) error { return i.value.Encode(enc) }

func DecodeIdentifier(dec *Decoder) (Identifier, error) {
	bs, err := DecodeBoundedString(dec, IdentifierMax)
	if err != nil {
		return Identifier{}, err
	}
	return NewIdentifier(bs.Value)
}
