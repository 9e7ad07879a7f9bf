package transaction

import (
	"strings"

	"github.com/r3e-network/neogo-sdk/codec"
)

func encodeBase64(b []byte) string { return codec.Base64Encode(b) }

func decodeBase64(s string) ([]byte, error) { return codec.Base64Decode(s) }

func trimHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}
