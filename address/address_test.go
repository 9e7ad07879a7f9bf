package address

import (
	"testing"

	"github.com/r3e-network/neogo-sdk/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	var u util.Uint160
	for i := range u {
		u[i] = byte(i * 3)
	}
	s := ToString(u)
	require.Len(t, s, 34)
	require.Equal(t, byte('N'), s[0])

	got, err := FromString(s)
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestZeroAddressStartsWithN(t *testing.T) {
	s := ToString(util.Uint160{})
	assert.Equal(t, byte('N'), s[0])

	var all0xff util.Uint160
	for i := range all0xff {
		all0xff[i] = 0xff
	}
	s2 := ToString(all0xff)
	assert.Equal(t, byte('N'), s2[0])
}

func TestBadBase58(t *testing.T) {
	_, err := FromString("not-base58-@@@")
	require.Error(t, err)
}

func TestBadPrefix(t *testing.T) {
	var u util.Uint160
	s := ToStringVersion(u, 0x17)
	_, err := FromString(s)
	require.Error(t, err)
}
