// Package native is the thin, pure-function method table spec.md §4.9
// describes for the well-known native contracts: "a table of methods
// producing invocation scripts", never a class hierarchy, never
// touching the network. Every helper here defers entirely to
// smartcontract.Builder.
package native

import (
	"math/big"

	"github.com/r3e-network/neogo-sdk/smartcontract"
	"github.com/r3e-network/neogo-sdk/util"
)

// Well-known Neo N3 native contract script hashes.
var (
	NEOHash = mustHash("ef4073a0f2b305a38ec4050e4d3d28bc40ea63f5")
	GASHash = mustHash("d2a4cff31913016155e38e474a2c06d08be276cf")
)

func mustHash(s string) util.Uint160 {
	h, err := util.Uint160DecodeStringBE(s)
	if err != nil {
		panic("native: bad well-known script hash: " + err.Error())
	}
	return h
}

// Transfer builds a NEP-17 transfer(from, to, amount, data) invocation
// script against contract, the method table every NEP-17 token
// (NEO, GAS, or a custom one) shares.
func Transfer(contract, from, to util.Uint160, amount *big.Int, data smartcontract.Parameter) ([]byte, error) {
	b := smartcontract.NewBuilder()
	b.InvokeMethod(contract, "transfer", from, to, amount, data)
	return b.Script()
}

// BalanceOf builds a NEP-17 balanceOf(account) invocation script.
func BalanceOf(contract, account util.Uint160) ([]byte, error) {
	b := smartcontract.NewBuilder()
	b.InvokeMethod(contract, "balanceOf", account)
	return b.Script()
}

// NEOTransfer builds a NEO.transfer(from, to, amount, data) invocation
// script, the end-to-end scenario named in spec.md §8 item 5.
func NEOTransfer(from, to util.Uint160, amount *big.Int, data smartcontract.Parameter) ([]byte, error) {
	return Transfer(NEOHash, from, to, amount, data)
}

// GASTransfer builds a GAS.transfer(from, to, amount, data) invocation
// script.
func GASTransfer(from, to util.Uint160, amount *big.Int, data smartcontract.Parameter) ([]byte, error) {
	return Transfer(GASHash, from, to, amount, data)
}

// NEOUnclaimedGas builds a NEO.unclaimedGas(account, end) invocation
// script.
func NEOUnclaimedGas(account util.Uint160, end uint32) ([]byte, error) {
	b := smartcontract.NewBuilder()
	b.InvokeMethod(NEOHash, "unclaimedGas", account, int64(end))
	return b.Script()
}

// NNSResolve builds an NNS resolve(name, recordType) invocation script
// against the given NNS contract hash, the pattern
// r3e-network's httpapi neo_handlers.go and neofeeds proxy through a
// joeqian10/neo3-gogogo-shaped method table.
func NNSResolve(nnsContract util.Uint160, domainName string, recordType int64) ([]byte, error) {
	b := smartcontract.NewBuilder()
	b.InvokeMethod(nnsContract, "resolve", domainName, recordType)
	return b.Script()
}
