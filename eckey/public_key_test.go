package eckey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicKeyBytesRoundTrip(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	decoded, err := NewPublicKeyFromBytes(pub.Bytes())
	require.NoError(t, err)
	assert.Equal(t, pub.Bytes(), decoded.Bytes())
	assert.True(t, pub.X.Cmp(decoded.X) == 0)
	assert.True(t, pub.Y.Cmp(decoded.Y) == 0)
}

func TestPublicKeyInfinity(t *testing.T) {
	pub, err := NewPublicKeyFromBytes([]byte{0x00})
	require.NoError(t, err)
	assert.True(t, pub.IsInfinity())
	assert.Equal(t, []byte{0x00}, pub.Bytes())
}

func TestPublicKeyFromBytesInvalidEncoding(t *testing.T) {
	_, err := NewPublicKeyFromBytes([]byte{0x05, 0x01, 0x02})
	assert.Error(t, err)
}

func TestPublicKeyFromBytesBadPrefix(t *testing.T) {
	b := make([]byte, PublicKeySize)
	b[0] = 0x04
	_, err := NewPublicKeyFromBytes(b)
	assert.Error(t, err)
}

func TestPublicKeyUncompressedRoundTrip(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	uncompressed := make([]byte, 0, 65)
	uncompressed = append(uncompressed, 0x04)
	xb := pub.X.Bytes()
	yb := pub.Y.Bytes()
	pad := make([]byte, 32-len(xb))
	uncompressed = append(uncompressed, pad...)
	uncompressed = append(uncompressed, xb...)
	pad = make([]byte, 32-len(yb))
	uncompressed = append(uncompressed, pad...)
	uncompressed = append(uncompressed, yb...)

	decoded, err := NewPublicKeyFromBytes(uncompressed)
	require.NoError(t, err)
	assert.Equal(t, pub.Bytes(), decoded.Bytes())
}

func TestPublicKeyFromString(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	decoded, err := NewPublicKeyFromString(pub.String())
	require.NoError(t, err)
	assert.Equal(t, pub.Bytes(), decoded.Bytes())
}

func TestPublicKeyScriptHashAndAddress(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	sh := pub.ScriptHash()
	assert.False(t, sh.IsZero())
	assert.Equal(t, pub.Address(), priv.Address())
}

func TestSignatureDERRoundTrip(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	sig := priv.Sign([]byte("hello neo"))
	der, err := SignatureToDER(sig, priv.Curve)
	require.NoError(t, err)

	back, err := SignatureFromDER(der, priv.Curve)
	require.NoError(t, err)
	assert.Equal(t, sig, back)
}

func TestSecp256k1PublicKeyRoundTrip(t *testing.T) {
	priv, err := NewSecp256k1PrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	decoded, err := NewSecp256k1PublicKeyFromBytes(pub.Bytes())
	require.NoError(t, err)
	assert.Equal(t, pub.Bytes(), decoded.Bytes())
}

func TestPublicKeysSorted(t *testing.T) {
	var keys PublicKeys
	for i := 0; i < 5; i++ {
		priv, err := NewPrivateKey()
		require.NoError(t, err)
		keys = append(keys, priv.PublicKey())
	}

	sorted := keys.Sorted()
	require.Len(t, sorted, len(keys))
	for i := 1; i < len(sorted); i++ {
		assert.True(t, string(sorted[i-1].Bytes()) <= string(sorted[i].Bytes()))
	}
}
