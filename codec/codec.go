// Package codec provides the hex and Base64 wire-encoding helpers used
// alongside codec/base58 for keys, scripts and signatures.
package codec

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/r3e-network/neogo-sdk/neoerr"
)

// HexEncode lower-case encodes b.
func HexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

// HexDecode decodes a hex string, tolerating mixed case but rejecting
// odd length or non-hex characters.
func HexDecode(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return nil, neoerr.Wrap(neoerr.InvalidFormat, "bad hex string", err)
	}
	return b, nil
}

// Base64Encode encodes b with the standard, padded alphabet.
func Base64Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Base64Decode decodes s with the standard, padded alphabet, strictly.
func Base64Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, neoerr.Wrap(neoerr.InvalidFormat, "bad base64 string", err)
	}
	return b, nil
}
