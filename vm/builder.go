// Package vm builds Neo VM byte-exact invocation and verification
// scripts: the integer/data push rules, syscall hashes, and contract-call
// and verification-script shapes of spec.md §4.7.
package vm

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/r3e-network/neogo-sdk/hash"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/util"
	"github.com/r3e-network/neogo-sdk/vm/opcode"
)

// CallFlags, mirrored here rather than imported from smartcontract/callflag
// to keep this package a leaf: smartcontract imports vm to build scripts,
// so vm cannot import back.
const CallFlagsAll uint32 = 0x0F

// InteropHash returns the first 4 bytes of SHA-256(name) interpreted as
// a little-endian uint32, the syscall identifier spec.md §6 defines.
func InteropHash(name string) uint32 {
	sum := sha256.Sum256([]byte(name))
	return binary.LittleEndian.Uint32(sum[:4])
}

// Builder accumulates script bytes. A zero Builder is ready to use.
type Builder struct {
	buf []byte
	err error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Len returns the number of bytes emitted so far.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset discards all emitted bytes and any sticky error.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
	b.err = nil
}

// Script returns the accumulated bytes, or the first error encountered.
func (b *Builder) Script() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out, nil
}

func (b *Builder) emit(op opcode.Opcode) {
	b.buf = append(b.buf, byte(op))
}

func (b *Builder) emitBytes(p []byte) {
	b.buf = append(b.buf, p...)
}

// EmitOpcode appends a single opcode byte with no operand.
func (b *Builder) EmitOpcode(op opcode.Opcode) *Builder {
	b.emit(op)
	return b
}

// EmitBool pushes a boolean: true -> PUSH1, false -> PUSH0.
func (b *Builder) EmitBool(v bool) *Builder {
	if v {
		b.emit(opcode.PUSH1)
	} else {
		b.emit(opcode.PUSH0)
	}
	return b
}

// EmitNull pushes PUSHNULL.
func (b *Builder) EmitNull() *Builder {
	b.emit(opcode.PUSHNULL)
	return b
}

// EmitInt pushes a two's-complement integer using the smallest push
// form that fits, per spec.md §4.7: -1 and 0..16 use the dedicated
// single-byte opcodes, everything else uses the smallest of
// PUSHINT8/16/32/64/128/256 in little-endian two's complement.
func (b *Builder) EmitInt(v int64) *Builder {
	return b.EmitBigInt(big.NewInt(v))
}

// EmitBigInt is EmitInt generalized to arbitrary-precision integers, so
// a 256-bit NEP-17 amount pushes correctly.
func (b *Builder) EmitBigInt(v *big.Int) *Builder {
	if v.IsInt64() {
		n := v.Int64()
		switch {
		case n == -1:
			b.emit(opcode.PUSHM1)
			return b
		case n >= 0 && n <= 16:
			b.emit(opcode.PUSH0 + opcode.Opcode(n))
			return b
		}
	}
	buf := twosComplementLE(v)
	op, width := pushIntOpcodeFor(len(buf))
	padded := make([]byte, width)
	copy(padded, buf)
	if v.Sign() < 0 {
		for i := len(buf); i < width; i++ {
			padded[i] = 0xff
		}
	}
	b.emit(op)
	b.emitBytes(padded)
	return b
}

// pushIntOpcodeFor returns the smallest PUSHINT opcode (and its fixed
// operand width) that can hold n bytes of two's-complement payload.
func pushIntOpcodeFor(n int) (opcode.Opcode, int) {
	switch {
	case n <= 1:
		return opcode.PUSHINT8, 1
	case n <= 2:
		return opcode.PUSHINT16, 2
	case n <= 4:
		return opcode.PUSHINT32, 4
	case n <= 8:
		return opcode.PUSHINT64, 8
	case n <= 16:
		return opcode.PUSHINT128, 16
	default:
		return opcode.PUSHINT256, 32
	}
}

// twosComplementLE returns the minimal little-endian two's-complement
// encoding of v (sign-extension is added by the caller up to the chosen
// opcode's fixed width).
func twosComplementLE(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0}
	}
	if v.Sign() > 0 {
		be := v.Bytes()
		le := reverse(be)
		if le[len(le)-1]&0x80 != 0 {
			le = append(le, 0)
		}
		return le
	}
	// Negative: two's complement over the smallest byte width that
	// represents v, then reversed to little-endian.
	bitLen := new(big.Int).Neg(v)
	bitLen.Sub(bitLen, big.NewInt(1))
	nBytes := (bitLen.BitLen() / 8) + 1
	mod := new(big.Int).Lsh(big.NewInt(1), uint(nBytes*8))
	comp := new(big.Int).Add(v, mod)
	be := comp.FillBytes(make([]byte, nBytes))
	le := reverse(be)
	if le[len(le)-1]&0x80 == 0 {
		le = append(le, 0xff)
	}
	return le
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// EmitBytes pushes an arbitrary byte payload using the length-keyed
// data-push rule of spec.md §4.7.
func (b *Builder) EmitBytes(payload []byte) *Builder {
	l := len(payload)
	switch {
	case l <= 75:
		b.buf = append(b.buf, byte(l))
	case l <= 255:
		b.emit(opcode.PUSHDATA1)
		b.buf = append(b.buf, byte(l))
	case l <= 65535:
		b.emit(opcode.PUSHDATA2)
		var lb [2]byte
		binary.LittleEndian.PutUint16(lb[:], uint16(l))
		b.emitBytes(lb[:])
	case l <= 1<<31-1:
		b.emit(opcode.PUSHDATA4)
		var lb [4]byte
		binary.LittleEndian.PutUint32(lb[:], uint32(l))
		b.emitBytes(lb[:])
	default:
		b.err = neoerr.New(neoerr.InvalidArgument, "data push payload too large")
		return b
	}
	b.emitBytes(payload)
	return b
}

// EmitString pushes s as a UTF-8 byte payload.
func (b *Builder) EmitString(s string) *Builder {
	return b.EmitBytes([]byte(s))
}

// EmitSyscall appends SYSCALL followed by the little-endian interop
// hash of name.
func (b *Builder) EmitSyscall(name string) *Builder {
	b.emit(opcode.SYSCALL)
	var h [4]byte
	binary.LittleEndian.PutUint32(h[:], InteropHash(name))
	b.emitBytes(h[:])
	return b
}

// EmitArray pushes each element left-to-right via push, then the count,
// then PACK.
func (b *Builder) EmitArray(n int, push func(i int)) *Builder {
	for i := 0; i < n; i++ {
		push(i)
	}
	b.EmitInt(int64(n))
	b.emit(opcode.PACK)
	return b
}

// EmitMap pushes each (key, value) pair via push, then the entry count,
// then PACKMAP.
func (b *Builder) EmitMap(n int, push func(i int)) *Builder {
	for i := 0; i < n; i++ {
		push(i)
	}
	b.EmitInt(int64(n))
	b.emit(opcode.PACKMAP)
	return b
}

// EmitContractCall pushes params in reverse order, the method name, the
// CallFlags, and the target script hash, then SYSCALL ∥
// interop_hash("System.Contract.Call"), per spec.md §4.7. pushParam is
// called with indices n-1..0 (reverse order).
func (b *Builder) EmitContractCall(scriptHash util.Uint160, method string, callFlags uint32, n int, pushParam func(i int)) *Builder {
	for i := n - 1; i >= 0; i-- {
		pushParam(i)
	}
	b.EmitString(method)
	b.EmitInt(int64(callFlags))
	b.EmitBytes(scriptHash.BytesLE())
	return b.EmitSyscall("System.Contract.Call")
}

// SingleSigVerificationScript delegates to eckey, the leaf package that
// owns the default single-signature verification script shape.
func SingleSigVerificationScript(pub *eckey.PublicKey) []byte {
	return eckey.SingleSigVerificationScript(pub)
}

// MultiSigVerificationScript builds the m-of-n multi-signature
// verification script of spec.md §4.7: push_int(threshold) ∥
// push_data(pub_1) ∥ ... ∥ push_data(pub_m) ∥ push_int(m) ∥ SYSCALL ∥
// interop_hash("System.Crypto.CheckMultisig"). Keys are sorted
// lexicographically by compressed encoding before emission so the same
// key set in any input order produces byte-identical output.
func MultiSigVerificationScript(threshold int, pubs eckey.PublicKeys) ([]byte, error) {
	m := len(pubs)
	if m == 0 || m > 1024 {
		return nil, neoerr.New(neoerr.InvalidArgument, "multi-sig key count out of range")
	}
	if threshold < 1 || threshold > m {
		return nil, neoerr.New(neoerr.InvalidArgument, "multi-sig threshold out of range")
	}
	sorted := pubs.Sorted()
	b := NewBuilder()
	b.EmitInt(int64(threshold))
	for _, p := range sorted {
		b.EmitBytes(p.Bytes())
	}
	b.EmitInt(int64(m))
	b.EmitSyscall("System.Crypto.CheckMultisig")
	return b.Script()
}

// InvocationScript concatenates push_data(signature) for each signature
// in signer order, the default single/multi-sig invocation shape of
// spec.md §4.7.
func InvocationScript(signatures [][]byte) []byte {
	b := NewBuilder()
	for _, sig := range signatures {
		b.EmitBytes(sig)
	}
	out, _ := b.Script()
	return out
}

// ScriptHash computes the Hash160 a verification script is identified
// by on-chain: sha256_then_ripemd160(script).
func ScriptHash(script []byte) util.Uint160 {
	return util.Uint160(hash.Hash160(script))
}
