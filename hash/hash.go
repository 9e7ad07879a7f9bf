// Package hash collects the fixed-output hashing primitives consumed
// throughout the core: Hash160 and Hash256 wrap these into the dual-endian
// types used for script hashes and transaction IDs.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for Neo's Hash160
)

// Sha256 returns the SHA-256 digest of b.
func Sha256(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// DoubleSha256 returns SHA-256(SHA-256(b)), the digest used for
// transaction IDs and Base58Check checksums.
func DoubleSha256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// RipeMD160 returns the RIPEMD-160 digest of b.
func RipeMD160(b []byte) [20]byte {
	h := ripemd160.New()
	h.Write(b) //nolint:errcheck // ripemd160.digest.Write never errors
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hash160 returns RIPEMD-160(SHA-256(b)), Neo's script-hash digest.
func Hash160(b []byte) [20]byte {
	sh := sha256.Sum256(b)
	return RipeMD160(sh[:])
}

// Checksum returns the first 4 bytes of DoubleSha256(b), used by
// Base58Check.
func Checksum(b []byte) []byte {
	sum := DoubleSha256(b)
	return sum[:4]
}

// HMACSha256 returns HMAC-SHA-256(key, data).
func HMACSha256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data) //nolint:errcheck // hmac.Write never errors
	return mac.Sum(nil)
}

// HMACSha512 returns HMAC-SHA-512(key, data).
func HMACSha512(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data) //nolint:errcheck // hmac.Write never errors
	return mac.Sum(nil)
}

// ConstantTimeEq reports whether a and b are equal without leaking timing
// information about the position of the first difference. Unequal
// lengths are rejected before the constant-time compare, since
// subtle.ConstantTimeCompare requires equal-length inputs.
func ConstantTimeEq(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
