// Package base58 implements Base58 and Base58Check encoding over the
// Bitcoin/Neo alphabet, built on top of github.com/mr-tron/base58's fast
// encoder/decoder.
package base58

import (
	"github.com/mr-tron/base58"

	"github.com/r3e-network/neogo-sdk/hash"
	"github.com/r3e-network/neogo-sdk/neoerr"
)

// Encode returns the Base58 encoding of b, preserving leading-zero bytes
// as leading '1' characters (the mr-tron encoder already does this).
func Encode(b []byte) string {
	return base58.Encode(b)
}

// Decode parses a Base58 string back into bytes. Unlike the source's
// lenient mode, a malformed character returns a distinguishable error
// instead of silently producing an empty slice.
func Decode(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, neoerr.Wrap(neoerr.InvalidFormat, "bad base58 string", err)
	}
	return b, nil
}

// DecodeLenient mirrors the source's old compatibility behavior: any
// decode failure yields an empty slice and a nil error instead of a
// distinguishable error. New code should prefer Decode.
func DecodeLenient(s string) []byte {
	b, err := base58.Decode(s)
	if err != nil {
		return []byte{}
	}
	return b
}

// CheckEncode appends the first 4 bytes of DoubleSha256(payload) to
// payload, then Base58-encodes the result.
func CheckEncode(payload []byte) string {
	checksum := hash.Checksum(payload)
	buf := make([]byte, 0, len(payload)+4)
	buf = append(buf, payload...)
	buf = append(buf, checksum...)
	return Encode(buf)
}

// CheckDecode reverses CheckEncode, verifying and stripping the
// checksum. A bad checksum or a too-short decoded string is a
// distinguishable InvalidFormat error, never a silent empty result.
func CheckDecode(s string) ([]byte, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) < 4 {
		return nil, neoerr.New(neoerr.InvalidFormat, "base58check payload too short")
	}
	payload, checksum := b[:len(b)-4], b[len(b)-4:]
	want := hash.Checksum(payload)
	if !hash.ConstantTimeEq(checksum, want) {
		return nil, neoerr.New(neoerr.InvalidFormat, "base58check checksum mismatch")
	}
	return payload, nil
}
