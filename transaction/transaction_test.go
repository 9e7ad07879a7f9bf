package transaction

import (
	"testing"

	"github.com/r3e-network/neogo-sdk/io"
	"github.com/r3e-network/neogo-sdk/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneU160(last byte) util.Uint160 {
	var u util.Uint160
	u[len(u)-1] = last
	return u
}

// TestUnsignedTransactionRoundTrip seeds the literal scenario from
// spec.md §8 #6: a single-signer, no-attribute, PUSH1-script
// transaction round-trips byte-for-byte.
func TestUnsignedTransactionRoundTrip(t *testing.T) {
	tx := &UnsignedTransaction{
		Version:         DefaultVersion,
		Nonce:           12345,
		SystemFee:       100000,
		NetworkFee:      100000,
		ValidUntilBlock: 1000000,
		Signers: []Signer{
			{Account: oneU160(1), Scopes: CalledByEntry},
		},
		Script: []byte{0x51},
	}

	w := io.NewBufBinWriter()
	tx.EncodeBinary(w)
	require.NoError(t, w.Error())
	raw := w.Bytes()

	w2 := io.NewBufBinWriter()
	tx.EncodeBinary(w2)
	require.NoError(t, w2.Error())
	assert.Equal(t, raw, w2.Bytes(), "serialization must be deterministic across runs")

	var got UnsignedTransaction
	r := io.NewBinReaderFromBuf(raw)
	got.DecodeBinary(r)
	require.NoError(t, r.Err)

	assert.Equal(t, tx.Version, got.Version)
	assert.Equal(t, tx.Nonce, got.Nonce)
	assert.Equal(t, tx.SystemFee, got.SystemFee)
	assert.Equal(t, tx.NetworkFee, got.NetworkFee)
	assert.Equal(t, tx.ValidUntilBlock, got.ValidUntilBlock)
	assert.Equal(t, tx.Signers, got.Signers)
	assert.Equal(t, tx.Script, got.Script)
	assert.Empty(t, got.Attributes)
}

func TestFullTransactionRoundTrip(t *testing.T) {
	unsigned := UnsignedTransaction{
		Version:         DefaultVersion,
		Nonce:           1,
		SystemFee:       1,
		NetworkFee:      1,
		ValidUntilBlock: 100,
		Signers: []Signer{
			{Account: oneU160(1), Scopes: CalledByEntry},
			{Account: oneU160(2), Scopes: Global},
		},
		Script: []byte{0x51},
	}
	tx := &Transaction{
		UnsignedTransaction: unsigned,
		Scripts: []Witness{
			{InvocationScript: []byte{0x01, 0x02}, VerificationScript: []byte{0x03}},
			{InvocationScript: []byte{}, VerificationScript: []byte{0x0C, 0x21, 0x03}},
		},
	}

	w := io.NewBufBinWriter()
	tx.EncodeBinary(w)
	require.NoError(t, w.Error())

	var got Transaction
	r := io.NewBinReaderFromBuf(w.Bytes())
	got.DecodeBinary(r)
	require.NoError(t, r.Err)
	assert.Equal(t, tx.Scripts, got.Scripts)
	assert.Equal(t, tx.Signers, got.Signers)
}

func TestWitnessCountMustMatchSignerCount(t *testing.T) {
	tx := &Transaction{
		UnsignedTransaction: UnsignedTransaction{
			Version:         DefaultVersion,
			ValidUntilBlock: 1,
			Signers:         []Signer{{Account: oneU160(1), Scopes: CalledByEntry}},
			Script:          []byte{0x51},
		},
		Scripts: nil,
	}
	w := io.NewBufBinWriter()
	tx.EncodeBinary(w)
	assert.Error(t, w.Error())
}

func TestGlobalScopeCannotCombine(t *testing.T) {
	_, err := ScopesFromByte(byte(Global | CalledByEntry))
	assert.Error(t, err)
}

func TestScopesFromByteRejectsUnknownBits(t *testing.T) {
	_, err := ScopesFromByte(0x08)
	assert.Error(t, err)
}

func TestEmptyScriptRejected(t *testing.T) {
	tx := &UnsignedTransaction{
		Version:         DefaultVersion,
		ValidUntilBlock: 1,
		Signers:         []Signer{{Account: oneU160(1), Scopes: CalledByEntry}},
	}
	w := io.NewBufBinWriter()
	tx.EncodeBinary(w)
	assert.Error(t, w.Error())
}

func TestNoSignersRejected(t *testing.T) {
	tx := &UnsignedTransaction{
		Version:         DefaultVersion,
		ValidUntilBlock: 1,
		Script:          []byte{0x51},
	}
	w := io.NewBufBinWriter()
	tx.EncodeBinary(w)
	assert.Error(t, w.Error())
}

func TestSignerWithCustomContractsRoundTrip(t *testing.T) {
	s := Signer{
		Account:          oneU160(5),
		Scopes:           CustomContracts,
		AllowedContracts: []util.Uint160{oneU160(6), oneU160(7)},
	}
	w := io.NewBufBinWriter()
	s.EncodeBinary(w)
	require.NoError(t, w.Error())

	var got Signer
	r := io.NewBinReaderFromBuf(w.Bytes())
	got.DecodeBinary(r)
	require.NoError(t, r.Err)
	assert.Equal(t, s, got)
}

func TestSignerTooManyAllowedContractsRejected(t *testing.T) {
	s := Signer{Account: oneU160(1), Scopes: CustomContracts}
	for i := 0; i < MaxSignerSubitems+1; i++ {
		s.AllowedContracts = append(s.AllowedContracts, oneU160(byte(i)))
	}
	w := io.NewBufBinWriter()
	s.EncodeBinary(w)
	assert.Error(t, w.Error())
}
