package eckey

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/asn1"
	"math/big"
	"sort"

	"github.com/r3e-network/neogo-sdk/address"
	"github.com/r3e-network/neogo-sdk/codec"
	"github.com/r3e-network/neogo-sdk/hash"
	neoio "github.com/r3e-network/neogo-sdk/io"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/util"
)

// PublicKeySize is the length in bytes of a compressed public key.
const PublicKeySize = 33

// PublicKey is a point on an elliptic curve (secp256r1 by default),
// encoded in its 33-byte compressed form (spec.md §3).
type PublicKey ecdsa.PublicKey

// NewPublicKeyFromBytes decodes a compressed (33-byte, 0x02/0x03
// prefix), infinity (1-byte, 0x00), or uncompressed (65-byte, 0x04
// prefix) public key on secp256r1.
func NewPublicKeyFromBytes(b []byte) (*PublicKey, error) {
	return newPublicKeyFromBytes(b, elliptic.P256())
}

// NewSecp256k1PublicKeyFromBytes is NewPublicKeyFromBytes for secp256k1.
func NewSecp256k1PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	return newPublicKeyFromBytes(b, secp256k1Curve())
}

func newPublicKeyFromBytes(b []byte, curve elliptic.Curve) (*PublicKey, error) {
	switch {
	case len(b) == 1 && b[0] == 0x00:
		return &PublicKey{Curve: curve}, nil
	case len(b) == PublicKeySize && (b[0] == 0x02 || b[0] == 0x03):
		x, y, err := decompress(curve, b)
		if err != nil {
			return nil, err
		}
		return &PublicKey{Curve: curve, X: x, Y: y}, nil
	case len(b) == 2*keyByteLen(curve)+1 && b[0] == 0x04:
		x := new(big.Int).SetBytes(b[1 : 1+keyByteLen(curve)])
		y := new(big.Int).SetBytes(b[1+keyByteLen(curve):])
		if !curve.IsOnCurve(x, y) {
			return nil, neoerr.New(neoerr.Crypto, "point not on curve")
		}
		return &PublicKey{Curve: curve, X: x, Y: y}, nil
	default:
		return nil, neoerr.New(neoerr.InvalidArgument, "unrecognized public key encoding")
	}
}

// NewPublicKeyFromString decodes a hex-encoded compressed public key on
// secp256r1.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := codec.HexDecode(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(b)
}

func keyByteLen(curve elliptic.Curve) int {
	return (curve.Params().BitSize + 7) / 8
}

func decompress(curve elliptic.Curve, b []byte) (x, y *big.Int, err error) {
	params := curve.Params()
	byteLen := keyByteLen(curve)
	if len(b) != byteLen+1 {
		return nil, nil, neoerr.New(neoerr.InvalidArgument, "bad compressed point length")
	}
	x = new(big.Int).SetBytes(b[1:])
	if x.Cmp(params.P) >= 0 {
		return nil, nil, neoerr.New(neoerr.Crypto, "x coordinate out of range")
	}

	// y^2 = x^3 + ax + b (mod p). secp256r1 uses a=-3; secp256k1 uses
	// a=0. Go's generic elliptic.CurveParams (and IsOnCurve below) only
	// ever models a=-3 curves, so secp256k1 needs its own branch here.
	ySq := new(big.Int).Exp(x, big.NewInt(3), params.P)
	if params.Name == "secp256k1" {
		ySq.Add(ySq, params.B)
	} else {
		threeX := new(big.Int).Mul(x, big.NewInt(3))
		threeX.Mod(threeX, params.P)
		ySq.Sub(ySq, threeX)
		ySq.Add(ySq, params.B)
	}
	ySq.Mod(ySq, params.P)

	y = new(big.Int).ModSqrt(ySq, params.P)
	if y == nil {
		return nil, nil, neoerr.New(neoerr.Crypto, "x has no square root: not a valid point")
	}
	if y.Bit(0) != uint(b[0]&0x01) {
		y.Sub(params.P, y)
	}
	if !curve.IsOnCurve(x, y) {
		return nil, nil, neoerr.New(neoerr.Crypto, "decompressed point not on curve")
	}
	return x, y, nil
}

// IsInfinity reports whether p is the point at infinity (the "empty"
// public key used as a placeholder in some serialized forms).
func (p *PublicKey) IsInfinity() bool {
	return p.X == nil || p.Y == nil
}

// Bytes returns the compressed encoding: a single 0x00 byte for the
// point at infinity, otherwise 0x02/0x03 ∥ X (spec.md §3).
func (p *PublicKey) Bytes() []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}
	byteLen := keyByteLen(p.Curve)
	out := make([]byte, byteLen+1)
	if p.Y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	xb := p.X.Bytes()
	copy(out[1+byteLen-len(xb):], xb)
	return out
}

// String returns the lower-case hex encoding of Bytes().
func (p *PublicKey) String() string {
	return codec.HexEncode(p.Bytes())
}

// ScriptHash returns the Hash160 of this key's default single-sig
// verification script.
func (p *PublicKey) ScriptHash() util.Uint160 {
	script := SingleSigVerificationScript(p)
	h := hash.Hash160(script)
	u, _ := util.Uint160DecodeBytesLE(h[:])
	return u
}

// Address returns the Neo N3 address of ScriptHash().
func (p *PublicKey) Address() string {
	return address.ToString(p.ScriptHash())
}

// Verify reports whether sig (64-byte compact R||S form) is a valid,
// canonical signature by p over digest. Any malformed or non-canonical
// signature is rejected rather than causing a panic.
func (p *PublicKey) Verify(sig, digest []byte) bool {
	if p.IsInfinity() {
		return false
	}
	byteLen := keyByteLen(p.Curve)
	if len(sig) != byteLen*2 {
		return false
	}
	r := new(big.Int).SetBytes(sig[:byteLen])
	s := new(big.Int).SetBytes(sig[byteLen:])
	if !isCanonicalS(s, p.Curve.Params().N) {
		return false
	}
	pub := ecdsa.PublicKey(*p)
	return ecdsa.Verify(&pub, digest, r, s)
}

// derSignature is the minimal ASN.1 structure for exporting/importing a
// DER-encoded EC signature's R/S pair, used for interop with tooling
// that expects DER signatures (spec.md §4.3); the wire/transport form
// remains the 64-byte compact encoding.
type derSignature struct {
	R, S *big.Int
}

// SignatureToDER converts a 64-byte compact signature to its DER
// encoding.
func SignatureToDER(sig []byte, curve elliptic.Curve) ([]byte, error) {
	byteLen := keyByteLen(curve)
	if len(sig) != byteLen*2 {
		return nil, neoerr.New(neoerr.InvalidArgument, "compact signature has wrong length")
	}
	r := new(big.Int).SetBytes(sig[:byteLen])
	s := new(big.Int).SetBytes(sig[byteLen:])
	der, err := asn1.Marshal(derSignature{R: r, S: s})
	if err != nil {
		return nil, neoerr.Wrap(neoerr.Crypto, "DER encoding failed", err)
	}
	return der, nil
}

// SignatureFromDER converts a DER-encoded signature to the 64-byte
// compact form for a given curve.
func SignatureFromDER(der []byte, curve elliptic.Curve) ([]byte, error) {
	var sig derSignature
	if _, err := asn1.Unmarshal(der, &sig); err != nil {
		return nil, neoerr.Wrap(neoerr.InvalidFormat, "bad DER signature", err)
	}
	byteLen := keyByteLen(curve)
	out := make([]byte, byteLen*2)
	sig.R.FillBytes(out[:byteLen])
	sig.S.FillBytes(out[byteLen:])
	return out, nil
}

// EncodeBinary implements io.Serializable: it writes Bytes() verbatim,
// with no length prefix (the compressed/infinity form is self-describing
// by its first byte).
func (p *PublicKey) EncodeBinary(w *neoio.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// DecodeBinary implements io.Serializable: it reads the first byte to
// determine whether this is the infinity point (0x00) or a compressed
// point (0x02/0x03 ∥ X), then reads the remaining bytes accordingly.
func (p *PublicKey) DecodeBinary(r *neoio.BinReader) {
	prefix := r.ReadB()
	if r.Err != nil {
		return
	}
	if prefix == 0x00 {
		*p = PublicKey{Curve: p.curveOrDefault()}
		return
	}
	byteLen := keyByteLen(p.curveOrDefault())
	rest := make([]byte, byteLen)
	r.ReadBytes(rest)
	if r.Err != nil {
		return
	}
	full := append([]byte{prefix}, rest...)
	pk, err := newPublicKeyFromBytes(full, p.curveOrDefault())
	if err != nil {
		r.Err = err
		return
	}
	*p = *pk
}

// curveOrDefault returns p.Curve, defaulting to secp256r1 for a
// zero-valued PublicKey being decoded for the first time.
func (p *PublicKey) curveOrDefault() elliptic.Curve {
	if p.Curve != nil {
		return p.Curve
	}
	return elliptic.P256()
}

// PublicKeys sorts a set of public keys lexicographically by their
// compressed encoding, the canonical order spec.md §4.7 requires before
// emitting a multi-sig verification script.
type PublicKeys []*PublicKey

func (p PublicKeys) Len() int      { return len(p) }
func (p PublicKeys) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p PublicKeys) Less(i, j int) bool {
	return bytes.Compare(p[i].Bytes(), p[j].Bytes()) < 0
}

// Sorted returns a copy of p sorted lexicographically by compressed
// encoding.
func (p PublicKeys) Sorted() PublicKeys {
	out := make(PublicKeys, len(p))
	copy(out, p)
	sort.Sort(out)
	return out
}
