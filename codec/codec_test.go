package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexRoundTrip(t *testing.T) {
	b := []byte{0xde, 0xad, 0xbe, 0xef}
	s := HexEncode(b)
	require.Equal(t, "deadbeef", s)

	got, err := HexDecode("DEADBEEF")
	require.NoError(t, err)
	require.Equal(t, b, got)

	_, err = HexDecode("abc")
	require.Error(t, err)

	_, err = HexDecode("zz")
	require.Error(t, err)
}

func TestBase64RoundTrip(t *testing.T) {
	b := []byte("hello world")
	s := Base64Encode(b)
	got, err := Base64Decode(s)
	require.NoError(t, err)
	require.Equal(t, b, got)

	_, err = Base64Decode("not base64!!")
	require.Error(t, err)
}
