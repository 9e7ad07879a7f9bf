// Package address converts between Neo N3 addresses and the Uint160
// script hash they encode.
package address

import (
	"github.com/r3e-network/neogo-sdk/codec/base58"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/util"
)

// NEO3Prefix is the default Neo N3 mainnet/testnet address version
// byte. Base58Check-encoding (Prefix, scriptHashLE) yields an address
// that always starts with 'N'.
const NEO3Prefix = 0x35

// ToString returns the Base58Check address for u under the default
// Neo N3 address version.
func ToString(u util.Uint160) string {
	return ToStringVersion(u, NEO3Prefix)
}

// ToStringVersion returns the Base58Check address for u under an
// explicit address version byte, for networks that use a non-default
// prefix.
func ToStringVersion(u util.Uint160, version byte) string {
	payload := make([]byte, 0, 1+util.Uint160Size)
	payload = append(payload, version)
	payload = append(payload, u.BytesLE()...)
	return base58.CheckEncode(payload)
}

// FromString decodes a Neo N3 address (default version byte) into its
// script hash.
func FromString(s string) (util.Uint160, error) {
	return FromStringVersion(s, NEO3Prefix)
}

// FromStringVersion decodes an address into its script hash, requiring
// an explicit address version byte.
func FromStringVersion(s string, version byte) (util.Uint160, error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return util.Uint160{}, err
	}
	if len(b) != 1+util.Uint160Size {
		return util.Uint160{}, neoerr.New(neoerr.InvalidFormat, "unexpected address payload length")
	}
	if b[0] != version {
		return util.Uint160{}, neoerr.New(neoerr.InvalidFormat, "unexpected address version byte")
	}
	return util.Uint160DecodeBytesLE(b[1:])
}
