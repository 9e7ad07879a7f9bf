package eckey

import (
	"crypto/elliptic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// secp256k1Curve returns the secp256k1 curve, implemented by
// github.com/decred/dcrd/dcrec/secp256k1/v4 (the same curve Bitcoin
// uses), for contracts and accounts that verify against it instead of
// the default secp256r1.
func secp256k1Curve() elliptic.Curve {
	return secp256k1.S256()
}
