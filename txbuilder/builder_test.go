package txbuilder

import (
	"testing"

	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/r3e-network/neogo-sdk/io"
	"github.com/r3e-network/neogo-sdk/transaction"
	"github.com/r3e-network/neogo-sdk/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func make32(fill byte) []byte {
	b := make([]byte, 32)
	for i := range b {
		b[i] = fill
	}
	return b
}

func TestBuildSignSerializeSingleSig(t *testing.T) {
	priv, err := eckey.NewPrivateKeyFromBytes(make32(1))
	require.NoError(t, err)
	pub := priv.PublicKey()
	scriptHash := pub.ScriptHash()

	b := New(Options{NetworkMagic: 860833102})
	b.SetScript([]byte{0x51}).
		SetSystemFee(100000).
		SetNetworkFee(100000).
		SetValidUntilBlock(1000000).
		SetNonce(12345).
		AddSigner(scriptHash, transaction.CalledByEntry, priv)

	require.Equal(t, Draft, b.State())
	require.NoError(t, b.Validate())
	require.Equal(t, Validated, b.State())
	require.NoError(t, b.Sign())
	require.Equal(t, Signed, b.State())
	digest := mustDigest(t, b)

	tx, err := b.Finalize()
	require.NoError(t, err)
	require.Equal(t, Serialized, b.State())
	require.Len(t, tx.Scripts, 1)

	assert.Equal(t, scriptHash, vm.ScriptHash(tx.Scripts[0].VerificationScript))
	ok := pub.Verify(stripPushedSignature(tx.Scripts[0].InvocationScript), digest)
	assert.True(t, ok)
}

func TestSerializeEndToEnd(t *testing.T) {
	priv, err := eckey.NewPrivateKeyFromBytes(make32(2))
	require.NoError(t, err)
	scriptHash := priv.PublicKey().ScriptHash()

	b := New(Options{NetworkMagic: 860833102})
	b.SetScript([]byte{0x51}).
		SetValidUntilBlock(100).
		AddSigner(scriptHash, transaction.CalledByEntry, priv)

	raw, err := b.Serialize()
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Equal(t, Serialized, b.State())

	var got transaction.Transaction
	require.NoError(t, decodeTx(&got, raw))
	assert.Len(t, got.Scripts, 1)
}

func TestMutationAfterSignResetsToDraft(t *testing.T) {
	priv, err := eckey.NewPrivateKeyFromBytes(make32(3))
	require.NoError(t, err)
	scriptHash := priv.PublicKey().ScriptHash()

	b := New(Options{})
	b.SetScript([]byte{0x51}).SetValidUntilBlock(1).AddSigner(scriptHash, transaction.CalledByEntry, priv)
	require.NoError(t, b.Validate())
	require.NoError(t, b.Sign())
	require.Equal(t, Signed, b.State())

	b.SetSystemFee(5)
	assert.Equal(t, Draft, b.State())
}

func TestFinalizeRequiresSign(t *testing.T) {
	b := New(Options{})
	b.SetScript([]byte{0x51}).SetValidUntilBlock(1)
	_, err := b.Finalize()
	assert.Error(t, err)
}

func TestValidateRejectsEmptyScript(t *testing.T) {
	b := New(Options{})
	b.SetValidUntilBlock(1)
	err := b.Validate()
	assert.Error(t, err)
}

func TestValidateRejectsNoSigners(t *testing.T) {
	b := New(Options{})
	b.SetScript([]byte{0x51}).SetValidUntilBlock(1)
	err := b.Validate()
	assert.Error(t, err)
}

func TestValidateRejectsDuplicateSigners(t *testing.T) {
	priv, err := eckey.NewPrivateKeyFromBytes(make32(4))
	require.NoError(t, err)
	sh := priv.PublicKey().ScriptHash()

	b := New(Options{})
	b.SetScript([]byte{0x51}).SetValidUntilBlock(1).
		AddSigner(sh, transaction.CalledByEntry, priv).
		AddSigner(sh, transaction.Global, nil)
	err = b.Validate()
	assert.Error(t, err)
}

func TestValidateRejectsGlobalWithOtherSigners(t *testing.T) {
	priv1, err := eckey.NewPrivateKeyFromBytes(make32(5))
	require.NoError(t, err)
	priv2, err := eckey.NewPrivateKeyFromBytes(make32(6))
	require.NoError(t, err)

	b := New(Options{})
	b.SetScript([]byte{0x51}).SetValidUntilBlock(1).
		AddSigner(priv1.PublicKey().ScriptHash(), transaction.Global, priv1).
		AddSigner(priv2.PublicKey().ScriptHash(), transaction.CustomContracts, priv2)
	err = b.Validate()
	assert.Error(t, err)
}

func TestTransactionIDStable(t *testing.T) {
	priv, err := eckey.NewPrivateKeyFromBytes(make32(7))
	require.NoError(t, err)
	sh := priv.PublicKey().ScriptHash()

	b := New(Options{})
	b.SetScript([]byte{0x51}).SetValidUntilBlock(1).SetNonce(1).
		AddSigner(sh, transaction.CalledByEntry, priv)
	require.NoError(t, b.Validate())

	id1, err := b.TransactionID()
	require.NoError(t, err)
	id2, err := b.TransactionID()
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Regexp(t, "^0x[0-9a-f]{64}$", id1)
}

func TestSignRequiresKeyOrWitness(t *testing.T) {
	var noKey *eckey.PrivateKey
	priv, err := eckey.NewPrivateKeyFromBytes(make32(8))
	require.NoError(t, err)
	sh := priv.PublicKey().ScriptHash()

	b := New(Options{})
	b.SetScript([]byte{0x51}).SetValidUntilBlock(1).AddSigner(sh, transaction.CalledByEntry, noKey)
	require.NoError(t, b.Validate())
	err = b.Sign()
	assert.Error(t, err)
}

func TestAddWitnessForWatchOnlySigner(t *testing.T) {
	priv, err := eckey.NewPrivateKeyFromBytes(make32(9))
	require.NoError(t, err)
	pub := priv.PublicKey()
	sh := pub.ScriptHash()
	verification := vm.SingleSigVerificationScript(pub)

	b := New(Options{})
	b.SetScript([]byte{0x51}).SetValidUntilBlock(1).AddSigner(sh, transaction.CalledByEntry, nil)
	require.NoError(t, b.Validate())

	digest, err := b.SigningDigest()
	require.NoError(t, err)
	sig := priv.SignHash(digest)
	require.NoError(t, b.AddWitness(0, transaction.Witness{
		InvocationScript:   vm.InvocationScript([][]byte{sig}),
		VerificationScript: verification,
	}))
	require.NoError(t, b.Sign())

	tx, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, sh, vm.ScriptHash(tx.Scripts[0].VerificationScript))
}

func stripPushedSignature(invocation []byte) []byte {
	// A 64-byte signature pushed via the single-byte-length data-push
	// rule (len <= 75) is prefixed with exactly one length byte.
	return invocation[1:]
}

func mustDigest(t *testing.T, b *Builder) []byte {
	t.Helper()
	d, err := b.SigningDigest()
	require.NoError(t, err)
	return d[:]
}

func decodeTx(tx *transaction.Transaction, raw []byte) error {
	r := io.NewBinReaderFromBuf(raw)
	tx.DecodeBinary(r)
	return r.Err
}
