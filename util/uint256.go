package util

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/r3e-network/neogo-sdk/neoerr"
)

// Uint256Size is the length in bytes of a Uint256.
const Uint256Size = 32

// Uint256 is a 32-byte block/transaction hash. Like Uint160, its
// internal storage is little-endian (wire order); String/BytesBE
// reverse that for display.
type Uint256 [Uint256Size]byte

// Uint256DecodeBytesLE decodes a Uint256 from its little-endian (wire)
// byte form.
func Uint256DecodeBytesLE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, neoerr.New(neoerr.InvalidArgument, "expected 32 bytes for Uint256")
	}
	copy(u[:], b)
	return u, nil
}

// Uint256DecodeBytesBE decodes a Uint256 from its big-endian (display)
// byte form.
func Uint256DecodeBytesBE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, neoerr.New(neoerr.InvalidArgument, "expected 32 bytes for Uint256")
	}
	for i := range b {
		u[Uint256Size-1-i] = b[i]
	}
	return u, nil
}

// Uint256DecodeStringLE decodes a Uint256 from a little-endian hex
// string.
func Uint256DecodeStringLE(s string) (Uint256, error) {
	b, err := decodeFixedHex(s, Uint256Size)
	if err != nil {
		return Uint256{}, err
	}
	return Uint256DecodeBytesLE(b)
}

// Uint256DecodeStringBE decodes a Uint256 from a big-endian hex string,
// the form used for transaction IDs (spec.md §6).
func Uint256DecodeStringBE(s string) (Uint256, error) {
	b, err := decodeFixedHex(s, Uint256Size)
	if err != nil {
		return Uint256{}, err
	}
	return Uint256DecodeBytesBE(b)
}

// BytesLE returns the little-endian (wire) byte form.
func (u Uint256) BytesLE() []byte {
	out := make([]byte, Uint256Size)
	copy(out, u[:])
	return out
}

// BytesBE returns the big-endian (display) byte form.
func (u Uint256) BytesBE() []byte {
	out := make([]byte, Uint256Size)
	for i := range u {
		out[Uint256Size-1-i] = u[i]
	}
	return out
}

// StringLE returns the little-endian hex form.
func (u Uint256) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// String returns the big-endian hex form used for transaction IDs.
func (u Uint256) String() string {
	return hex.EncodeToString(u.BytesBE())
}

// StringBE0x returns the "0x"-prefixed big-endian hex form, the exact
// shape of the transaction ID surfaced to users (spec.md §6).
func (u Uint256) StringBE0x() string {
	return "0x" + u.String()
}

// Equals reports whether u and v hold the same bytes.
func (u Uint256) Equals(v Uint256) bool {
	return u == v
}

// IsZero reports whether u is the all-zero value.
func (u Uint256) IsZero() bool {
	return u == Uint256{}
}

// MarshalJSON renders u as a "0x"-prefixed big-endian hex string.
func (u Uint256) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.StringBE0x())
}

// UnmarshalJSON accepts big-endian hex, with or without a "0x" prefix.
func (u *Uint256) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "Uint256 must be a JSON string", err)
	}
	v, err := Uint256DecodeStringBE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
