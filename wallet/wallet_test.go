package wallet

import (
	"testing"

	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccountHasAddressAndScriptHash(t *testing.T) {
	acc, err := NewAccount()
	require.NoError(t, err)
	assert.NotEmpty(t, acc.Address)
	assert.Equal(t, byte('N'), acc.Address[0])
	assert.False(t, acc.ScriptHash.IsZero())
	assert.NotNil(t, acc.PrivateKey())
}

func TestAccountWIFRoundTrip(t *testing.T) {
	acc, err := NewAccount()
	require.NoError(t, err)
	priv := acc.PrivateKey()

	wif, err := eckey.WIFEncode(priv.Bytes(), 0, true)
	require.NoError(t, err)
	imported, err := NewAccountFromWIF(wif)
	require.NoError(t, err)
	assert.Equal(t, acc.ScriptHash, imported.ScriptHash)
}

func TestAccountEncryptDecryptRoundTrip(t *testing.T) {
	acc, err := NewAccount()
	require.NoError(t, err)
	scriptHash := acc.ScriptHash

	require.NoError(t, acc.Encrypt("correct horse battery staple"))
	assert.Nil(t, acc.PrivateKey())
	assert.NotEmpty(t, acc.EncryptedWIF)

	require.NoError(t, acc.Decrypt("correct horse battery staple"))
	require.NotNil(t, acc.PrivateKey())
	assert.Equal(t, scriptHash, acc.PrivateKey().PublicKey().ScriptHash())
}

func TestAccountDecryptWrongPassphraseFails(t *testing.T) {
	acc, err := NewAccount()
	require.NoError(t, err)
	require.NoError(t, acc.Encrypt("correct passphrase"))

	err = acc.Decrypt("wrong passphrase")
	assert.Error(t, err)
}

func TestWatchOnlyAccountHasNoKey(t *testing.T) {
	acc, err := NewAccount()
	require.NoError(t, err)

	watchOnly := NewWatchOnlyAccount(acc.ScriptHash)
	assert.Nil(t, watchOnly.PrivateKey())
	assert.Equal(t, acc.Address, watchOnly.Address)

	_, err = watchOnly.Sign([32]byte{})
	assert.Error(t, err)
}

func TestWalletAtMostOneDefault(t *testing.T) {
	w := NewWallet("primary")
	acc1, err := NewAccount()
	require.NoError(t, err)
	acc2, err := NewAccount()
	require.NoError(t, err)
	acc1.IsDefault = true

	w.AddAccount(acc1)
	w.AddAccount(acc2)
	require.NoError(t, w.SetDefault(acc2.ScriptHash))

	assert.False(t, acc1.IsDefault)
	assert.True(t, acc2.IsDefault)
	assert.Equal(t, acc2, w.DefaultAccount())
}

func TestWalletAddAccountDemotesExistingDefault(t *testing.T) {
	w := NewWallet("w")
	acc1, err := NewAccount()
	require.NoError(t, err)
	acc1.IsDefault = true
	acc2, err := NewAccount()
	require.NoError(t, err)
	acc2.IsDefault = true

	w.AddAccount(acc1)
	w.AddAccount(acc2)
	assert.False(t, acc1.IsDefault)
	assert.True(t, acc2.IsDefault)
}

func TestWalletRemoveAccount(t *testing.T) {
	w := NewWallet("w")
	acc, err := NewAccount()
	require.NoError(t, err)
	w.AddAccount(acc)

	require.NoError(t, w.RemoveAccount(acc.ScriptHash))
	assert.Nil(t, w.GetAccount(acc.ScriptHash))
	assert.Error(t, w.RemoveAccount(acc.ScriptHash))
}
