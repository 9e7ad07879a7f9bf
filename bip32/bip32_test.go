package bip32

import (
	"bytes"
	"testing"

	"github.com/r3e-network/neogo-sdk/codec/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeed() []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}
	return seed
}

func TestNewMasterKeyRejectsBadSeedLength(t *testing.T) {
	_, err := NewMasterKey(make([]byte, 15))
	assert.Error(t, err)
	_, err = NewMasterKey(make([]byte, 65))
	assert.Error(t, err)
}

func TestNewMasterKeyIsDeterministic(t *testing.T) {
	k1, err := NewMasterKey(testSeed())
	require.NoError(t, err)
	k2, err := NewMasterKey(testSeed())
	require.NoError(t, err)
	assert.Equal(t, k1.Key, k2.Key)
	assert.Equal(t, k1.ChainCode, k2.ChainCode)
	assert.True(t, k1.IsPrivate)
}

func TestNeuterDropsPrivateScalar(t *testing.T) {
	master, err := NewMasterKey(testSeed())
	require.NoError(t, err)
	pub := master.Neuter()
	assert.False(t, pub.IsPrivate)
	assert.Equal(t, master.PublicKey(), pub.Key)
	assert.Equal(t, master.ChainCode, pub.ChainCode)

	_, err = pub.PrivateKey()
	assert.Error(t, err)
}

func TestNeuterOnPublicKeyIsNoop(t *testing.T) {
	master, err := NewMasterKey(testSeed())
	require.NoError(t, err)
	pub := master.Neuter()
	assert.Same(t, pub, pub.Neuter())
}

func TestDeriveChildNonHardenedMatchesPublicDerivation(t *testing.T) {
	master, err := NewMasterKey(testSeed())
	require.NoError(t, err)

	privChild, err := master.DeriveChild(0)
	require.NoError(t, err)

	pubChild, err := master.Neuter().DeriveChild(0)
	require.NoError(t, err)

	assert.Equal(t, privChild.PublicKey(), pubChild.Key)
	assert.Equal(t, privChild.ChainCode, pubChild.ChainCode)
	assert.False(t, pubChild.IsPrivate)
}

func TestDeriveChildHardenedRequiresPrivateKey(t *testing.T) {
	master, err := NewMasterKey(testSeed())
	require.NoError(t, err)
	pub := master.Neuter()

	_, err = pub.DeriveChild(HardenedOffset)
	assert.Error(t, err)

	_, err = master.DeriveChild(HardenedOffset)
	assert.NoError(t, err)
}

func TestDeriveChildIsDeterministic(t *testing.T) {
	master, err := NewMasterKey(testSeed())
	require.NoError(t, err)
	c1, err := master.DeriveChild(7)
	require.NoError(t, err)
	c2, err := master.DeriveChild(7)
	require.NoError(t, err)
	assert.Equal(t, c1.Key, c2.Key)
	assert.Equal(t, byte(1), c1.Depth)
	assert.Equal(t, uint32(7), c1.Index)
}

func TestDeriveChildDifferentIndexesDiffer(t *testing.T) {
	master, err := NewMasterKey(testSeed())
	require.NoError(t, err)
	c1, err := master.DeriveChild(0)
	require.NoError(t, err)
	c2, err := master.DeriveChild(1)
	require.NoError(t, err)
	assert.NotEqual(t, c1.Key, c2.Key)
}

func TestDerivePathWalksEachSegment(t *testing.T) {
	master, err := NewMasterKey(testSeed())
	require.NoError(t, err)

	path, err := ParsePath("m/44'/888'/0'/0/0")
	require.NoError(t, err)

	viaPath, err := master.DerivePath(path)
	require.NoError(t, err)

	cur := master
	for _, idx := range path {
		cur, err = cur.DeriveChild(idx)
		require.NoError(t, err)
	}
	assert.Equal(t, cur.Key, viaPath.Key)
	assert.Equal(t, byte(len(path)), viaPath.Depth)
}

func TestParsePathRejectsMalformedSegments(t *testing.T) {
	_, err := ParsePath("44'/0")
	assert.Error(t, err)
	_, err = ParsePath("m/abc")
	assert.Error(t, err)
	_, err = ParsePath("m/")
	assert.Error(t, err)
	_, err = ParsePath("m/4294967296'")
	assert.Error(t, err)
}

func TestParsePathAcceptsHardenedMarkers(t *testing.T) {
	for _, p := range []string{"m/0'", "m/0h", "m/0H"} {
		path, err := ParsePath(p)
		require.NoError(t, err, p)
		require.Len(t, path, 1)
		assert.Equal(t, HardenedOffset, path[0])
	}
}

func TestSerializeParseRoundTripPrivate(t *testing.T) {
	master, err := NewMasterKey(testSeed())
	require.NoError(t, err)
	child, err := master.DeriveChild(1)
	require.NoError(t, err)

	encoded := child.Serialize()
	decoded, err := ParseExtendedKey(encoded)
	require.NoError(t, err)

	assert.Equal(t, child.Key, decoded.Key)
	assert.Equal(t, child.ChainCode, decoded.ChainCode)
	assert.Equal(t, child.Depth, decoded.Depth)
	assert.Equal(t, child.Index, decoded.Index)
	assert.Equal(t, child.ParentFingerprint, decoded.ParentFingerprint)
	assert.True(t, decoded.IsPrivate)
	assert.Equal(t, encoded, decoded.String())
}

func TestSerializeParseRoundTripPublic(t *testing.T) {
	master, err := NewMasterKey(testSeed())
	require.NoError(t, err)
	pub := master.Neuter()

	encoded := pub.Serialize()
	decoded, err := ParseExtendedKey(encoded)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(pub.Key, decoded.Key))
	assert.False(t, decoded.IsPrivate)
}

func TestParseExtendedKeyRejectsGarbage(t *testing.T) {
	_, err := ParseExtendedKey("not base58check at all")
	assert.Error(t, err)
}

func TestParseExtendedKeyRejectsWrongLength(t *testing.T) {
	short := base58.CheckEncode(make([]byte, 40))
	_, err := ParseExtendedKey(short)
	assert.Error(t, err)
}
