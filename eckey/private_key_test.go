package eckey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrivateKey(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	require.NotNil(t, priv)
	assert.Len(t, priv.Bytes(), PrivateKeySize)
}

func TestNewPrivateKeyFromBytesRoundTrip(t *testing.T) {
	orig, err := NewPrivateKey()
	require.NoError(t, err)

	decoded, err := NewPrivateKeyFromBytes(orig.Bytes())
	require.NoError(t, err)
	assert.Equal(t, orig.Bytes(), decoded.Bytes())
}

func TestNewPrivateKeyFromBytesBadLength(t *testing.T) {
	_, err := NewPrivateKeyFromBytes(make([]byte, 31))
	assert.Error(t, err)
}

func TestNewPrivateKeyFromBytesZero(t *testing.T) {
	_, err := NewPrivateKeyFromBytes(make([]byte, PrivateKeySize))
	assert.Error(t, err)
}

func TestNewPrivateKeyFromHex(t *testing.T) {
	orig, err := NewPrivateKey()
	require.NoError(t, err)

	decoded, err := NewPrivateKeyFromHex(orig.String())
	require.NoError(t, err)
	assert.Equal(t, orig.Bytes(), decoded.Bytes())
}

func TestPrivateKeyPublicKey(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	pub := priv.PublicKey()
	require.NotNil(t, pub)
	assert.False(t, pub.IsInfinity())
	assert.Len(t, pub.Bytes(), PublicKeySize)
}

func TestPrivateKeyAddress(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	addr := priv.Address()
	assert.Equal(t, priv.PublicKey().Address(), addr)
	assert.Equal(t, byte('N'), addr[0])
}

func TestPrivateKeyDestroy(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	priv.Destroy()
	assert.Equal(t, int64(0), priv.D.Int64())
}

func TestSecp256k1PrivateKeyRoundTrip(t *testing.T) {
	orig, err := NewSecp256k1PrivateKey()
	require.NoError(t, err)

	decoded, err := NewSecp256k1PrivateKeyFromBytes(orig.Bytes())
	require.NoError(t, err)
	assert.Equal(t, orig.Bytes(), decoded.Bytes())
}
