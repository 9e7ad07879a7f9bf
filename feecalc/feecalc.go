// Package feecalc implements the size-and-witness network fee model
// spec.md §4.8 names but leaves to the caller: a deterministic function
// of an already-serialized transaction and its witness sizes.
package feecalc

import (
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/transaction"
)

// verificationOverhead approximates the interpreter cost, in fee
// units, of executing a single-signature verification script: one
// signature push, one key push (both use the single-byte length form,
// not PUSHDATA1), one SYSCALL. Real
// per-opcode pricing lives at the node; this is the flat approximation
// a client uses to estimate a fee before broadcasting.
const verificationOverhead = 1_000_000

// NetworkFee estimates the network fee for tx, given the byte length
// each signer's eventual witness is expected to occupy
// (len(witnessSizes) must equal len(tx.Signers), one size per signer in
// order) and the network's configured fee-per-byte rate. The result is
// feePerByte times the transaction's total serialized size (computed
// from tx's unsigned fields plus the given witness sizes) plus a flat
// per-witness verification overhead.
func NetworkFee(tx *transaction.Transaction, witnessSizes []int, feePerByte int64) (int64, error) {
	if len(witnessSizes) != len(tx.Signers) {
		return 0, neoerr.New(neoerr.InvalidArgument, "witness size count must equal signer count")
	}
	if feePerByte < 0 {
		return 0, neoerr.New(neoerr.InvalidArgument, "fee per byte must be non-negative")
	}

	unsignedBytes, err := tx.UnsignedTransaction.Bytes()
	if err != nil {
		return 0, err
	}

	// var-int witness-count prefix, sized as the wire encoding actually is.
	size := len(unsignedBytes) + varIntSize(uint64(len(witnessSizes)))
	var fee int64
	for _, ws := range witnessSizes {
		if ws < 0 {
			return 0, neoerr.New(neoerr.InvalidArgument, "witness size must be non-negative")
		}
		size += ws
		fee += verificationOverhead
	}

	fee += int64(size) * feePerByte
	return fee, nil
}

func varIntSize(v uint64) int {
	switch {
	case v <= 0xfc:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	default:
		return 9
	}
}
