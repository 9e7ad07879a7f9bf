package eckey

import (
	"crypto/elliptic"

	"github.com/r3e-network/neogo-sdk/codec/base58"
	"github.com/r3e-network/neogo-sdk/neoerr"
)

// WIFVersion is the version byte Bitcoin-style WIF encoding uses for a
// mainnet private key, the default when a caller passes version 0.
const WIFVersion = 0x80

// WIF is a decoded Wallet Import Format private key.
type WIF struct {
	PrivateKey *PrivateKey
	Compressed bool
	Version    byte
}

// WIFEncode encodes a raw 32-byte secp256r1 scalar as a WIF string:
// version ∥ scalar ∥ (0x01 if compressed) is base58check-encoded.
// version of 0 uses WIFVersion.
func WIFEncode(b []byte, version byte, compressed bool) (string, error) {
	if len(b) != PrivateKeySize {
		return "", neoerr.New(neoerr.InvalidArgument, "private key must be 32 bytes")
	}
	if version == 0 {
		version = WIFVersion
	}
	payload := make([]byte, 0, 1+PrivateKeySize+1)
	payload = append(payload, version)
	payload = append(payload, b...)
	if compressed {
		payload = append(payload, 0x01)
	}
	return base58.CheckEncode(payload), nil
}

// WIFDecode decodes a WIF string into its private key, curve-default
// public key, and compression flag. version of 0 expects WIFVersion.
func WIFDecode(wif string, version byte) (*WIF, error) {
	if version == 0 {
		version = WIFVersion
	}
	payload, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, err
	}
	var compressed bool
	switch len(payload) {
	case 1 + PrivateKeySize:
		compressed = false
	case 1 + PrivateKeySize + 1:
		if payload[1+PrivateKeySize] != 0x01 {
			return nil, neoerr.New(neoerr.InvalidFormat, "bad WIF compression marker")
		}
		compressed = true
	default:
		return nil, neoerr.New(neoerr.InvalidFormat, "bad WIF payload length")
	}
	if payload[0] != version {
		return nil, neoerr.New(neoerr.InvalidFormat, "unexpected WIF version byte")
	}

	priv, err := newPrivateKeyFromBytes(payload[1:1+PrivateKeySize], elliptic.P256())
	if err != nil {
		return nil, err
	}
	return &WIF{PrivateKey: priv, Compressed: compressed, Version: version}, nil
}
