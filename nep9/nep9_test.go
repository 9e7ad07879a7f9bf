package nep9

import (
	"testing"

	"github.com/r3e-network/neogo-sdk/address"
	"github.com/r3e-network/neogo-sdk/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress() string {
	return address.ToString(util.Uint160{})
}

func TestParseBareAddress(t *testing.T) {
	uri := Scheme + testAddress()
	req, err := Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, testAddress(), req.Address)
	assert.Empty(t, req.Asset)
	assert.Empty(t, req.Amount)
}

func TestParseWithAssetAndAmount(t *testing.T) {
	uri := Scheme + testAddress() + "?asset=gas&amount=1.5"
	req, err := Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "gas", req.Asset)
	assert.Equal(t, "1.5", req.Amount)
}

func TestParseIgnoresUnknownQueryKeys(t *testing.T) {
	uri := Scheme + testAddress() + "?asset=neo&foo=bar"
	req, err := Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "neo", req.Asset)
}

func TestParseRejectsWrongScheme(t *testing.T) {
	_, err := Parse("bitcoin:" + testAddress())
	assert.Error(t, err)
}

func TestParseRejectsTooShort(t *testing.T) {
	_, err := Parse("neo:short")
	assert.Error(t, err)
}

func TestParseRejectsBadAddress(t *testing.T) {
	_, err := Parse("neo:Nthisisnotavalidaddresswhichislongenough00")
	assert.Error(t, err)
}

func TestParseRejectsNonNumericAmount(t *testing.T) {
	uri := Scheme + testAddress() + "?amount=notanumber"
	_, err := Parse(uri)
	assert.Error(t, err)
}

func TestStringRoundTrip(t *testing.T) {
	req := &Request{Address: testAddress(), Asset: "gas", Amount: "2.25"}
	uri := req.String()
	got, err := Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, req.Address, got.Address)
	assert.Equal(t, req.Asset, got.Asset)
	assert.Equal(t, req.Amount, got.Amount)
}
