package eckey

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"math/big"

	"github.com/nspcc-dev/rfc6979"
)

// signRFC6979 signs digest deterministically (RFC 6979) under priv and
// returns the 64-byte compact (R||S) form with S canonicalized to the
// low half of the curve order, per spec.md §4.3.
func signRFC6979(priv *ecdsa.PrivateKey, digest []byte) []byte {
	r, s, err := rfc6979.SignECDSA(priv, digest, sha256.New)
	if err != nil {
		// RFC 6979 signing over a valid in-range scalar cannot fail;
		// a failure here indicates a corrupted key, which the rest of
		// the API (PrivateKey construction) already guards against.
		panic("eckey: deterministic signing failed: " + err.Error())
	}

	n := priv.Curve.Params().N
	halfN := new(big.Int).Rsh(n, 1)
	if s.Cmp(halfN) > 0 {
		s = new(big.Int).Sub(n, s)
	}

	byteLen := (n.BitLen() + 7) / 8
	out := make([]byte, byteLen*2)
	r.FillBytes(out[:byteLen])
	s.FillBytes(out[byteLen:])
	return out
}

// isCanonicalS reports whether s is at most half the curve order, the
// canonical-S rule spec.md §4.3/§8 requires of every signature this
// package accepts.
func isCanonicalS(s, n *big.Int) bool {
	halfN := new(big.Int).Rsh(n, 1)
	return s.Cmp(halfN) <= 0
}
