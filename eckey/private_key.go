// Package eckey implements the secp256r1 (NIST P-256) EC key pair and
// the canonical-S ECDSA signing/verification spec.md §4.3 requires,
// plus an alternate secp256k1 curve for contracts that verify against
// it. Signing uses RFC 6979 deterministic nonce generation rather than
// stdlib's randomized ecdsa.Sign, matching how the teacher project (and
// its AlexVanin-neo-go predecessor) sign Neo transactions.
package eckey

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"math/big"

	"github.com/r3e-network/neogo-sdk/codec"
	"github.com/r3e-network/neogo-sdk/hash"
	"github.com/r3e-network/neogo-sdk/neoerr"
)

// PrivateKeySize is the length in bytes of a raw secp256r1/secp256k1
// scalar.
const PrivateKeySize = 32

// PrivateKey is a 32-byte scalar paired with the curve it was drawn
// from. The default curve across this SDK is secp256r1; NewSecp256k1PrivateKey
// and friends opt into secp256k1 for contracts that need it.
type PrivateKey struct {
	ecdsa.PrivateKey
}

// NewPrivateKey draws a new random secp256r1 private key via the
// platform CSPRNG.
func NewPrivateKey() (*PrivateKey, error) {
	return newPrivateKey(elliptic.P256())
}

// NewSecp256k1PrivateKey draws a new random secp256k1 private key.
func NewSecp256k1PrivateKey() (*PrivateKey, error) {
	return newPrivateKey(secp256k1Curve())
}

func newPrivateKey(curve elliptic.Curve) (*PrivateKey, error) {
	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, neoerr.Wrap(neoerr.Crypto, "key generation failed", err)
	}
	return &PrivateKey{PrivateKey: *priv}, nil
}

// NewPrivateKeyFromBytes builds a PrivateKey on secp256r1 from a raw
// 32-byte scalar, rejecting zero and out-of-range values.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	return newPrivateKeyFromBytes(b, elliptic.P256())
}

// NewSecp256k1PrivateKeyFromBytes builds a PrivateKey on secp256k1 from
// a raw 32-byte scalar.
func NewSecp256k1PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	return newPrivateKeyFromBytes(b, secp256k1Curve())
}

func newPrivateKeyFromBytes(b []byte, curve elliptic.Curve) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, neoerr.New(neoerr.InvalidArgument, "private key must be 32 bytes")
	}
	d := new(big.Int).SetBytes(b)
	n := curve.Params().N
	if d.Sign() == 0 || d.Cmp(n) >= 0 {
		return nil, neoerr.New(neoerr.Crypto, "scalar out of range [1, n-1]")
	}
	x, y := curve.ScalarBaseMult(b)
	return &PrivateKey{PrivateKey: ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
		D:         d,
	}}, nil
}

// NewPrivateKeyFromHex decodes a hex-encoded 32-byte scalar on secp256r1.
func NewPrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := codec.HexDecode(s)
	if err != nil {
		return nil, err
	}
	return NewPrivateKeyFromBytes(b)
}

// NewPrivateKeyFromRawBytes parses an ASN.1 SEC1 EC private key, the
// format crypto/x509 produces for secp256r1 keys.
func NewPrivateKeyFromRawBytes(b []byte) (*PrivateKey, error) {
	key, err := x509.ParseECPrivateKey(b)
	if err != nil {
		return nil, neoerr.Wrap(neoerr.InvalidFormat, "bad ASN.1 EC private key", err)
	}
	return &PrivateKey{PrivateKey: *key}, nil
}

// Bytes returns the raw, fixed-width 32-byte scalar.
func (p *PrivateKey) Bytes() []byte {
	b := p.D.Bytes()
	if len(b) == PrivateKeySize {
		return b
	}
	out := make([]byte, PrivateKeySize)
	copy(out[PrivateKeySize-len(b):], b)
	return out
}

// String returns the lower-case hex encoding of Bytes().
func (p *PrivateKey) String() string {
	return codec.HexEncode(p.Bytes())
}

// PublicKey derives the public key paired with p.
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := PublicKey(p.PrivateKey.PublicKey)
	return &pub
}

// Destroy best-effort zeroizes the in-memory scalar. Correctness never
// depends on this; callers that hold key material longer than needed
// should call it when done (spec.md §5).
func (p *PrivateKey) Destroy() {
	if p.D == nil {
		return
	}
	p.D.SetInt64(0)
}

// Address returns the Neo N3 address of the account whose verification
// script is the default single-signature script for this key's public
// key.
func (p *PrivateKey) Address() string {
	return p.PublicKey().Address()
}

// Sign computes a canonical 64-byte compact signature over
// SHA-256(data).
func (p *PrivateKey) Sign(data []byte) []byte {
	h := hash.Sha256(data)
	return p.SignHash(h)
}

// SignHash computes a canonical 64-byte compact signature over a
// caller-supplied 32-byte digest.
func (p *PrivateKey) SignHash(digest [32]byte) []byte {
	return signRFC6979(&p.PrivateKey, digest[:])
}
