package eckey

import "crypto/sha256"

// Opcode values a verification script is built from. These mirror
// vm/opcode's Neo VM constants; they are duplicated here (rather than
// imported) because vm's general script builder depends on eckey
// for multi-sig key sorting, and eckey must stay a leaf package to avoid
// an import cycle.
const (
	opSyscall byte = 0x41
)

// interopHash returns the first 4 bytes of SHA-256(name), the syscall
// identifier spec.md §6 defines.
func interopHash(name string) []byte {
	sum := sha256.Sum256([]byte(name))
	out := make([]byte, 4)
	copy(out, sum[:4])
	return out
}

func pushData(b []byte) []byte {
	// Every key this package pushes (PublicKey.Bytes: 33-byte compressed
	// or the 1-byte infinity marker) is well under the
	// 76-byte PUSHDATA1 threshold, so the single-byte-length push rule
	// (spec.md §4.7) always applies here.
	out := make([]byte, 0, len(b)+1)
	out = append(out, byte(len(b)))
	out = append(out, b...)
	return out
}

// SingleSigVerificationScript builds the default single-signature
// verification script for pub: push_data(pubkey) ∥ SYSCALL ∥
// interop_hash("System.Crypto.CheckSig") (spec.md §4.7).
func SingleSigVerificationScript(pub *PublicKey) []byte {
	script := pushData(pub.Bytes())
	script = append(script, opSyscall)
	script = append(script, interopHash("System.Crypto.CheckSig")...)
	return script
}
