// Package bip32 implements hierarchical deterministic key derivation
// over secp256r1, the curve this SDK's accounts sign with, following
// the same HMAC-SHA512 master/child derivation and 78-byte extended
// key serialization BIP-32 defines for secp256k1 (spec.md §4.4).
package bip32

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"math/big"
	"strconv"
	"strings"

	"github.com/r3e-network/neogo-sdk/codec/base58"
	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/r3e-network/neogo-sdk/hash"
	"github.com/r3e-network/neogo-sdk/neoerr"
)

// HardenedOffset is added to a path segment to request hardened
// derivation, spec.md §4.4.
const HardenedOffset uint32 = 0x80000000

const (
	versionPrivate uint32 = 0x0488ADE4
	versionPublic  uint32 = 0x0488B21E
)

var curve = elliptic.P256()

// ExtendedKey is a BIP-32 node: either a private key with its chain
// code (can derive any child) or a public key with its chain code
// (can derive only non-hardened children).
type ExtendedKey struct {
	Key               []byte // 32-byte private scalar, or 33-byte compressed public key
	ChainCode         [32]byte
	Depth             byte
	Index             uint32
	ParentFingerprint [4]byte
	IsPrivate         bool
}

// NewMasterKey derives the master extended key from a BIP-39 seed via
// HMAC-SHA512(key="Bitcoin seed", data=seed), spec.md §4.4.
func NewMasterKey(seed []byte) (*ExtendedKey, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, neoerr.New(neoerr.InvalidArgument, "seed must be 16 to 64 bytes")
	}
	mac := hmac.New(sha512.New, []byte("Bitcoin seed"))
	mac.Write(seed)
	lr := mac.Sum(nil)

	key := append([]byte(nil), lr[:32]...)
	keyInt := new(big.Int).SetBytes(key)
	if keyInt.Sign() == 0 || keyInt.Cmp(curve.Params().N) >= 0 {
		return nil, neoerr.New(neoerr.Crypto, "derived master key is not in the valid scalar range")
	}

	k := &ExtendedKey{Key: key, IsPrivate: true}
	copy(k.ChainCode[:], lr[32:])
	return k, nil
}

// PublicKey returns the 33-byte compressed public key this node
// identifies, deriving it from the private scalar when needed.
func (k *ExtendedKey) PublicKey() []byte {
	if !k.IsPrivate {
		return k.Key
	}
	x, y := curve.ScalarBaseMult(k.Key)
	out := make([]byte, 33)
	if y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	xb := x.Bytes()
	copy(out[33-len(xb):], xb)
	return out
}

// PrivateKey returns an eckey.PrivateKey for this node. Returns an
// error if this is a public-only extended key.
func (k *ExtendedKey) PrivateKey() (*eckey.PrivateKey, error) {
	if !k.IsPrivate {
		return nil, neoerr.New(neoerr.UnsupportedOperation, "extended key has no private component")
	}
	return eckey.NewPrivateKeyFromBytes(k.Key)
}

// fingerprint is the first 4 bytes of sha256_then_ripemd160 of this
// node's public key, the value a child's ParentFingerprint records.
func (k *ExtendedKey) fingerprint() [4]byte {
	var out [4]byte
	h := hash.Hash160(k.PublicKey())
	copy(out[:], h[:4])
	return out
}

// Neuter returns the public-only counterpart of k: the same public
// key and chain code, with the private scalar discarded.
func (k *ExtendedKey) Neuter() *ExtendedKey {
	if !k.IsPrivate {
		return k
	}
	out := &ExtendedKey{
		Key:               k.PublicKey(),
		ChainCode:         k.ChainCode,
		Depth:             k.Depth,
		Index:             k.Index,
		ParentFingerprint: k.ParentFingerprint,
		IsPrivate:         false,
	}
	return out
}

// DeriveChild derives the child at index. index >= HardenedOffset
// requests hardened derivation, which requires k to be private.
func (k *ExtendedKey) DeriveChild(index uint32) (*ExtendedKey, error) {
	hardened := index >= HardenedOffset
	if hardened && !k.IsPrivate {
		return nil, neoerr.New(neoerr.UnsupportedOperation, "cannot derive a hardened child from a public key")
	}
	if k.Depth == 0xff {
		return nil, neoerr.New(neoerr.InvalidArgument, "maximum derivation depth reached")
	}

	data := make([]byte, 37)
	if hardened {
		data[0] = 0x00
		copy(data[1:33], k.Key)
	} else {
		copy(data[:33], k.PublicKey())
	}
	binary.BigEndian.PutUint32(data[33:], index)

	mac := hmac.New(sha512.New, k.ChainCode[:])
	mac.Write(data)
	lr := mac.Sum(nil)
	il, ir := lr[:32], lr[32:]

	child := &ExtendedKey{
		Depth:             k.Depth + 1,
		Index:             index,
		ParentFingerprint: k.fingerprint(),
		IsPrivate:         k.IsPrivate,
	}
	copy(child.ChainCode[:], ir)

	if k.IsPrivate {
		ilInt := new(big.Int).SetBytes(il)
		parentInt := new(big.Int).SetBytes(k.Key)
		childInt := new(big.Int).Add(ilInt, parentInt)
		childInt.Mod(childInt, curve.Params().N)
		if childInt.Sign() == 0 {
			return nil, neoerr.New(neoerr.Crypto, "derived child key is zero, retry with a different index")
		}
		key := make([]byte, 32)
		b := childInt.Bytes()
		copy(key[32-len(b):], b)
		child.Key = key
		return child, nil
	}

	ilInt := new(big.Int).SetBytes(il)
	if ilInt.Cmp(curve.Params().N) >= 0 {
		return nil, neoerr.New(neoerr.Crypto, "derived child offset is out of range, retry with a different index")
	}
	ilX, ilY := curve.ScalarBaseMult(il)
	parentX, parentY := decompress(k.Key)
	childX, childY := curve.Add(ilX, ilY, parentX, parentY)
	if childX.Sign() == 0 && childY.Sign() == 0 {
		return nil, neoerr.New(neoerr.Crypto, "derived child key is the point at infinity, retry with a different index")
	}
	pub := (&ecdsa.PublicKey{Curve: curve, X: childX, Y: childY})
	child.Key = compress(pub)
	return child, nil
}

// DerivePath walks path in order, deriving one child per segment.
func (k *ExtendedKey) DerivePath(path []uint32) (*ExtendedKey, error) {
	cur := k
	var err error
	for _, idx := range path {
		cur, err = cur.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func compress(pub *ecdsa.PublicKey) []byte {
	out := make([]byte, 33)
	if pub.Y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	xb := pub.X.Bytes()
	copy(out[33-len(xb):], xb)
	return out
}

func decompress(b []byte) (*big.Int, *big.Int) {
	pub, err := eckey.NewPublicKeyFromBytes(b)
	if err != nil {
		return nil, nil
	}
	ep := (*ecdsa.PublicKey)(pub)
	return ep.X, ep.Y
}

// Serialize renders k in the documented 78-byte xprv/xpub layout,
// Base58Check-encoded, spec.md §4.4.
func (k *ExtendedKey) Serialize() string {
	buf := make([]byte, 78)
	version := versionPublic
	if k.IsPrivate {
		version = versionPrivate
	}
	binary.BigEndian.PutUint32(buf[0:4], version)
	buf[4] = k.Depth
	copy(buf[5:9], k.ParentFingerprint[:])
	binary.BigEndian.PutUint32(buf[9:13], k.Index)
	copy(buf[13:45], k.ChainCode[:])
	if k.IsPrivate {
		buf[45] = 0x00
		copy(buf[46:78], k.Key)
	} else {
		copy(buf[45:78], k.Key)
	}
	return base58.CheckEncode(buf)
}

// String is an alias for Serialize, so an ExtendedKey satisfies
// fmt.Stringer.
func (k *ExtendedKey) String() string { return k.Serialize() }

// ParseExtendedKey decodes the Base58Check xprv/xpub form Serialize
// produces.
func ParseExtendedKey(s string) (*ExtendedKey, error) {
	buf, err := base58.CheckDecode(s)
	if err != nil {
		return nil, err
	}
	if len(buf) != 78 {
		return nil, neoerr.New(neoerr.InvalidFormat, "extended key must decode to 78 bytes")
	}
	version := binary.BigEndian.Uint32(buf[0:4])
	var isPrivate bool
	switch version {
	case versionPrivate:
		isPrivate = true
	case versionPublic:
		isPrivate = false
	default:
		return nil, neoerr.New(neoerr.InvalidFormat, "unrecognized extended key version bytes")
	}
	k := &ExtendedKey{
		Depth:     buf[4],
		Index:     binary.BigEndian.Uint32(buf[9:13]),
		IsPrivate: isPrivate,
	}
	copy(k.ParentFingerprint[:], buf[5:9])
	copy(k.ChainCode[:], buf[13:45])
	if isPrivate {
		if buf[45] != 0x00 {
			return nil, neoerr.New(neoerr.InvalidFormat, "malformed extended private key padding byte")
		}
		k.Key = append([]byte(nil), buf[46:78]...)
	} else {
		k.Key = append([]byte(nil), buf[45:78]...)
		if _, err := eckey.NewPublicKeyFromBytes(k.Key); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// ParsePath parses the "m[/index['|h]]*" derivation path syntax,
// spec.md §4.4, returning the sequence of indexes DerivePath expects.
func ParsePath(path string) ([]uint32, error) {
	segments := strings.Split(path, "/")
	if len(segments) == 0 || segments[0] != "m" {
		return nil, neoerr.New(neoerr.InvalidArgument, "derivation path must start with \"m\"")
	}
	out := make([]uint32, 0, len(segments)-1)
	for _, seg := range segments[1:] {
		if seg == "" {
			return nil, neoerr.New(neoerr.InvalidArgument, "empty derivation path segment")
		}
		hardened := false
		numPart := seg
		last := seg[len(seg)-1]
		if last == '\'' || last == 'h' || last == 'H' {
			hardened = true
			numPart = seg[:len(seg)-1]
		}
		n, err := strconv.ParseUint(numPart, 10, 32)
		if err != nil {
			return nil, neoerr.Wrap(neoerr.InvalidArgument, "malformed derivation path segment: "+seg, err)
		}
		if hardened && n >= uint64(HardenedOffset) {
			return nil, neoerr.New(neoerr.InvalidArgument, "derivation path index out of range: "+seg)
		}
		if hardened {
			n += uint64(HardenedOffset)
		}
		out = append(out, uint32(n))
	}
	return out, nil
}
