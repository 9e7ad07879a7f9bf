package nep2

import (
	"testing"

	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ktype mirrors the teacher's internal/keytestcases fixture shape.
type ktype struct {
	address, privateKey, wif, passphrase, encryptedWif string
	invalid                                             bool
}

var cases = []ktype{
	{
		address:      "NPTmAHDxo6Pkyic8Nvu3kwyXoYJCvcCB6i",
		privateKey:   "7d128a6d096f0c14c3a25a2b0c41cf79661bfcb4a8cc95aaaea28bde4d732344",
		wif:          "L1QqQJnpBwbsPGAuutuzPTac8piqvbR1HRjrY5qHup48TBCBFe4g",
		passphrase:   "city of zion",
		encryptedWif: "6PYUUUFei9PBBfVkSn8q7hFCnewWFRBKPxcn6Kz6Bmk3FqWyLyuTQE2XFH",
	},
	{
		address:      "NMBfzaEq2c5zodiNbLPoohVENARMbJim1r",
		privateKey:   "9ab7e154840daca3a2efadaf0df93cd3a5b51768c632f5433f86909d9b994a69",
		wif:          "L2QTooFoDFyRFTxmtiVHt5CfsXfVnexdbENGDkkrrgTTryiLsPMG",
		passphrase:   "我的密码",
		encryptedWif: "6PYUmBuLbdXdnybyNeafUJUrVhoBRZpjHACdY9K2VCNzD5tuX5tXgr9fur",
	},
}

func TestNEP2EncryptKnownVectors(t *testing.T) {
	for _, tc := range cases {
		priv, err := eckey.NewPrivateKeyFromHex(tc.privateKey)
		require.NoError(t, err)

		encrypted, err := NEP2Encrypt(priv, tc.passphrase)
		require.NoError(t, err)
		assert.Equal(t, tc.encryptedWif, encrypted)
	}
}

func TestNEP2DecryptKnownVectors(t *testing.T) {
	for _, tc := range cases {
		wif, err := NEP2Decrypt(tc.encryptedWif, tc.passphrase)
		require.NoError(t, err)

		priv, err := eckey.WIFDecode(wif, 0)
		require.NoError(t, err)
		assert.Equal(t, tc.privateKey, priv.PrivateKey.String())
		assert.Equal(t, tc.address, priv.PrivateKey.Address())
	}
}

func TestNEP2DecryptWrongPassphrase(t *testing.T) {
	_, err := NEP2Decrypt(cases[0].encryptedWif, "wrong passphrase")
	assert.Error(t, err)
}

func TestNEP2DecryptBadPayload(t *testing.T) {
	_, err := NEP2Decrypt("not a valid nep2 string", "whatever")
	assert.Error(t, err)
}

func TestNEP2EncryptDecryptRoundTrip(t *testing.T) {
	priv, err := eckey.NewPrivateKey()
	require.NoError(t, err)

	encrypted, err := NEP2Encrypt(priv, "hunter2")
	require.NoError(t, err)

	wif, err := NEP2Decrypt(encrypted, "hunter2")
	require.NoError(t, err)

	decoded, err := eckey.WIFDecode(wif, 0)
	require.NoError(t, err)
	assert.Equal(t, priv.Bytes(), decoded.PrivateKey.Bytes())
}
