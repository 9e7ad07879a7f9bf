package native

import (
	"math/big"
	"testing"

	"github.com/r3e-network/neogo-sdk/smartcontract"
	"github.com/r3e-network/neogo-sdk/util"
	"github.com/r3e-network/neogo-sdk/vm/opcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWellKnownHashesAreDistinct(t *testing.T) {
	assert.NotEqual(t, NEOHash, GASHash)
	assert.NotEqual(t, util.Uint160{}, NEOHash)
	assert.NotEqual(t, util.Uint160{}, GASHash)
}

// TestNEOTransferEndsWithContractCallSyscall reproduces spec.md §8 item 5:
// NEO.transfer(from, to, 100, null) must target NEOHash and end with the
// System.Contract.Call syscall.
func TestNEOTransferEndsWithContractCallSyscall(t *testing.T) {
	var from, to util.Uint160
	to[19] = 0xFF

	script, err := NEOTransfer(from, to, big.NewInt(100), smartcontract.NewVoid())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(script), 5)
	assert.Equal(t, byte(opcode.SYSCALL), script[len(script)-5])

	direct := smartcontract.NewBuilder()
	direct.InvokeMethod(NEOHash, "transfer", from, to, big.NewInt(100), smartcontract.NewVoid())
	want, err := direct.Script()
	require.NoError(t, err)
	assert.Equal(t, want, script)
}

func TestGASTransferTargetsGASHash(t *testing.T) {
	var from, to util.Uint160
	script, err := GASTransfer(from, to, big.NewInt(1), smartcontract.NewVoid())
	require.NoError(t, err)

	direct := smartcontract.NewBuilder()
	direct.InvokeMethod(GASHash, "transfer", from, to, big.NewInt(1), smartcontract.NewVoid())
	want, err := direct.Script()
	require.NoError(t, err)
	assert.Equal(t, want, script)
}

func TestBalanceOfTargetsGivenContract(t *testing.T) {
	var account util.Uint160
	account[0] = 1
	contract := GASHash

	script, err := BalanceOf(contract, account)
	require.NoError(t, err)

	direct := smartcontract.NewBuilder()
	direct.InvokeMethod(contract, "balanceOf", account)
	want, err := direct.Script()
	require.NoError(t, err)
	assert.Equal(t, want, script)
}

func TestNEOUnclaimedGasEncodesEndAsInt(t *testing.T) {
	var account util.Uint160
	script, err := NEOUnclaimedGas(account, 12345)
	require.NoError(t, err)

	direct := smartcontract.NewBuilder()
	direct.InvokeMethod(NEOHash, "unclaimedGas", account, int64(12345))
	want, err := direct.Script()
	require.NoError(t, err)
	assert.Equal(t, want, script)
}

func TestNNSResolveEncodesNameAndRecordType(t *testing.T) {
	var nns util.Uint160
	nns[0] = 9

	script, err := NNSResolve(nns, "example.neo", 16)
	require.NoError(t, err)

	direct := smartcontract.NewBuilder()
	direct.InvokeMethod(nns, "resolve", "example.neo", int64(16))
	want, err := direct.Script()
	require.NoError(t, err)
	assert.Equal(t, want, script)
}
