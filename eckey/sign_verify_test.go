package eckey

import (
	"math/big"
	"testing"

	"github.com/r3e-network/neogo-sdk/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	data := []byte("transfer 1 GAS")
	sig := priv.Sign(data)
	assert.Len(t, sig, 64)

	digest := sha256Sum(data)
	assert.True(t, pub.Verify(sig, digest[:]))
}

func TestSignIsDeterministic(t *testing.T) {
	priv, err := NewPrivateKeyFromBytes(make32(1))
	require.NoError(t, err)

	data := []byte("same message")
	sig1 := priv.Sign(data)
	sig2 := priv.Sign(data)
	assert.Equal(t, sig1, sig2)
}

func TestVerifyRejectsTamperedData(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	sig := priv.Sign([]byte("original"))
	digest := sha256Sum([]byte("tampered"))
	assert.False(t, pub.Verify(sig, digest[:]))
}

func TestVerifyRejectsNonCanonicalS(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	data := []byte("some data")
	sig := priv.Sign(data)
	byteLen := 32
	s := new(big.Int).SetBytes(sig[byteLen:])
	n := priv.Curve.Params().N
	flipped := new(big.Int).Sub(n, s)
	flipped.FillBytes(sig[byteLen:])

	digest := sha256Sum(data)
	assert.False(t, pub.Verify(sig, digest[:]))
}

func TestVerifyRejectsWrongLengthSignature(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	assert.False(t, pub.Verify([]byte{1, 2, 3}, make32(0)))
}

func make32(b byte) []byte {
	out := make([]byte, 32)
	out[31] = b
	if b == 0 {
		out[31] = 1
	}
	return out
}

func sha256Sum(b []byte) [32]byte {
	return hash.Sha256(b)
}
