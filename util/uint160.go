// Package util provides the dual-endian fixed-width identifiers
// (Uint160, Uint256) used as script hashes and transaction/block hashes.
package util

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/r3e-network/neogo-sdk/neoerr"
)

// Uint160Size is the length in bytes of a Uint160.
const Uint160Size = 20

// Uint160 is a 20-byte script hash. Its internal storage is
// little-endian, matching the byte order a Uint160 has on the wire
// (inside a serialized transaction or a decoded address payload).
// BytesBE/String reverse that order for the conventional big-endian
// display form used by explorers and RPC responses.
type Uint160 [Uint160Size]byte

// Uint160DecodeBytesLE decodes a Uint160 from its little-endian (wire)
// byte form.
func Uint160DecodeBytesLE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, neoerr.New(neoerr.InvalidArgument, "expected 20 bytes for Uint160")
	}
	copy(u[:], b)
	return u, nil
}

// Uint160DecodeBytesBE decodes a Uint160 from its big-endian (display)
// byte form.
func Uint160DecodeBytesBE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, neoerr.New(neoerr.InvalidArgument, "expected 20 bytes for Uint160")
	}
	for i := range b {
		u[Uint160Size-1-i] = b[i]
	}
	return u, nil
}

// Uint160DecodeStringLE decodes a Uint160 from a little-endian hex
// string.
func Uint160DecodeStringLE(s string) (Uint160, error) {
	b, err := decodeFixedHex(s, Uint160Size)
	if err != nil {
		return Uint160{}, err
	}
	return Uint160DecodeBytesLE(b)
}

// Uint160DecodeStringBE decodes a Uint160 from a big-endian hex string,
// the form most RPC/explorer UIs show.
func Uint160DecodeStringBE(s string) (Uint160, error) {
	b, err := decodeFixedHex(s, Uint160Size)
	if err != nil {
		return Uint160{}, err
	}
	return Uint160DecodeBytesBE(b)
}

// BytesLE returns the little-endian (wire) byte form.
func (u Uint160) BytesLE() []byte {
	out := make([]byte, Uint160Size)
	copy(out, u[:])
	return out
}

// BytesBE returns the big-endian (display) byte form.
func (u Uint160) BytesBE() []byte {
	out := make([]byte, Uint160Size)
	for i := range u {
		out[Uint160Size-1-i] = u[i]
	}
	return out
}

// StringLE returns the little-endian hex form.
func (u Uint160) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// String returns the big-endian hex form, the conventional display
// representation of a script hash.
func (u Uint160) String() string {
	return hex.EncodeToString(u.BytesBE())
}

// Equals reports whether u and v hold the same bytes.
func (u Uint160) Equals(v Uint160) bool {
	return u == v
}

// IsZero reports whether u is the all-zero value.
func (u Uint160) IsZero() bool {
	return u == Uint160{}
}

// MarshalJSON renders u as a "0x"-prefixed big-endian hex string.
func (u Uint160) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + u.String())
}

// UnmarshalJSON accepts big-endian hex, with or without a "0x" prefix.
func (u *Uint160) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "Uint160 must be a JSON string", err)
	}
	v, err := Uint160DecodeStringBE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func decodeFixedHex(s string, size int) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, neoerr.Wrap(neoerr.InvalidFormat, "bad hex string", err)
	}
	if len(b) != size {
		return nil, neoerr.New(neoerr.InvalidArgument, "unexpected byte length")
	}
	return b, nil
}
