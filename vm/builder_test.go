package vm

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/r3e-network/neogo-sdk/util"
	"github.com/r3e-network/neogo-sdk/vm/opcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataPushBoundaries(t *testing.T) {
	cases := []struct {
		name string
		n    int
	}{
		{"75", 75}, {"76", 76}, {"255", 255}, {"256", 256}, {"65535", 65535}, {"65536", 65536},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			payload := bytes.Repeat([]byte{0x42}, c.n)
			b := NewBuilder()
			script, err := b.EmitBytes(payload).Script()
			require.NoError(t, err)
			switch {
			case c.n <= 75:
				assert.Equal(t, byte(c.n), script[0])
				assert.Equal(t, payload, script[1:])
			case c.n <= 255:
				assert.Equal(t, byte(opcode.PUSHDATA1), script[0])
				assert.Equal(t, byte(c.n), script[1])
				assert.Equal(t, payload, script[2:])
			case c.n <= 65535:
				assert.Equal(t, byte(opcode.PUSHDATA2), script[0])
				assert.Equal(t, payload, script[3:])
			default:
				assert.Equal(t, byte(opcode.PUSHDATA4), script[0])
				assert.Equal(t, payload, script[5:])
			}
		})
	}
}

func TestDataPush75And76ExactBytes(t *testing.T) {
	payload75 := bytes.Repeat([]byte{0x42}, 75)
	script, err := NewBuilder().EmitBytes(payload75).Script()
	require.NoError(t, err)
	expected := append([]byte{0x4B}, payload75...)
	assert.Equal(t, expected, script)

	payload76 := bytes.Repeat([]byte{0x42}, 76)
	script, err = NewBuilder().EmitBytes(payload76).Script()
	require.NoError(t, err)
	expected = append([]byte{0x0C, 0x4C}, payload76...)
	assert.Equal(t, expected, script)
}

func TestIntegerPushBoundaries(t *testing.T) {
	cases := []struct {
		name string
		v    *big.Int
		op   opcode.Opcode
	}{
		{"minus1", big.NewInt(-1), opcode.PUSHM1},
		{"zero", big.NewInt(0), opcode.PUSH0},
		{"sixteen", big.NewInt(16), opcode.PUSH0 + 16},
		{"seventeen", big.NewInt(17), opcode.PUSHINT8},
		{"minus129", big.NewInt(-129), opcode.PUSHINT16},
		{"onetwentyeight", big.NewInt(128), opcode.PUSHINT16},
		{"maxint32", big.NewInt(1<<31 - 1), opcode.PUSHINT32},
		{"int32", big.NewInt(1 << 31), opcode.PUSHINT64},
		{"minint32minus1", big.NewInt(-(1<<31) - 1), opcode.PUSHINT64},
		{"maxint63", new(big.Int).SetUint64(1<<63 - 1), opcode.PUSHINT64},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			script, err := NewBuilder().EmitBigInt(c.v).Script()
			require.NoError(t, err)
			require.NotEmpty(t, script)
			assert.Equal(t, byte(c.op), script[0])
		})
	}
}

func TestIntegerPushSeventeenExactBytes(t *testing.T) {
	script, err := NewBuilder().EmitInt(17).Script()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x11}, script)
}

func TestBoolPush(t *testing.T) {
	script, err := NewBuilder().EmitBool(true).Script()
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(opcode.PUSH1)}, script)

	script, err = NewBuilder().EmitBool(false).Script()
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(opcode.PUSH0)}, script)
}

func TestInteropHashSystemContractCall(t *testing.T) {
	h := InteropHash("System.Contract.Call")
	// First 4 bytes of SHA-256("System.Contract.Call") are 62 7D 5B 52,
	// read little-endian, per spec.md §6 and the literal scenario in §8.
	assert.Equal(t, uint32(0x525B7D62), h)
}

func TestContractCallEndsWithSystemContractCallSyscall(t *testing.T) {
	from := util.Uint160{}
	var to util.Uint160
	for i := range to {
		to[i] = 0xFF
	}

	b := NewBuilder()
	b.EmitContractCall(to, "transfer", CallFlagsAll, 4, func(i int) {
		switch i {
		case 0:
			b.EmitBytes(from.BytesLE())
		case 1:
			b.EmitBytes(to.BytesLE())
		case 2:
			b.EmitInt(100)
		case 3:
			b.EmitNull()
		}
	})
	script, err := b.Script()
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(script), 5)
	assert.Equal(t, byte(opcode.SYSCALL), script[len(script)-5])
	gotHash := script[len(script)-4:]
	wantHash := InteropHash("System.Contract.Call")
	assert.Equal(t, byte(wantHash), gotHash[0])
	assert.Equal(t, byte(wantHash>>8), gotHash[1])
	assert.Equal(t, byte(wantHash>>16), gotHash[2])
	assert.Equal(t, byte(wantHash>>24), gotHash[3])
}

func TestMultiSigVerificationScriptIsOrderIndependent(t *testing.T) {
	var pubs eckey.PublicKeys
	for i := 1; i <= 3; i++ {
		priv, err := eckey.NewPrivateKeyFromBytes(make32(byte(i)))
		require.NoError(t, err)
		pubs = append(pubs, priv.PublicKey())
	}
	reversed := eckey.PublicKeys{pubs[2], pubs[1], pubs[0]}

	s1, err := MultiSigVerificationScript(2, pubs)
	require.NoError(t, err)
	s2, err := MultiSigVerificationScript(2, reversed)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestMultiSigVerificationScriptRejectsBadThreshold(t *testing.T) {
	priv, err := eckey.NewPrivateKey()
	require.NoError(t, err)
	_, err = MultiSigVerificationScript(0, eckey.PublicKeys{priv.PublicKey()})
	assert.Error(t, err)
	_, err = MultiSigVerificationScript(2, eckey.PublicKeys{priv.PublicKey()})
	assert.Error(t, err)
}

func TestScriptHashMatchesSingleSigVerification(t *testing.T) {
	priv, err := eckey.NewPrivateKeyFromBytes(make32(1))
	require.NoError(t, err)
	pub := priv.PublicKey()

	script := SingleSigVerificationScript(pub)
	assert.Equal(t, pub.ScriptHash(), ScriptHash(script))
}

func make32(fill byte) []byte {
	b := make([]byte, 32)
	for i := range b {
		b[i] = fill
	}
	return b
}
