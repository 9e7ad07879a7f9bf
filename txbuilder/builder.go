// Package txbuilder implements the transaction assembly pipeline of
// spec.md §4.8: compose an unsigned transaction, compute its signing
// hash under a caller-supplied network magic, sign it with one or more
// accounts, and serialize the finalized transaction.
//
// A Builder moves through a small explicit state machine:
//
//	Draft -> Validated -> Signed -> Serialized
//
// Field-setting methods may be called in any state; each one drops the
// builder back to Draft and discards any witnesses. Validate moves Draft
// to Validated (or reports a BuilderError and stays in Draft). Sign
// moves Validated to Signed once every signer has a matching witness.
// Any further mutation after Signed invalidates the witnesses already
// produced and drops the builder back to Draft, per spec.md §4.8.
package txbuilder

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/r3e-network/neogo-sdk/hash"
	"github.com/r3e-network/neogo-sdk/io"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/neosdk"
	"github.com/r3e-network/neogo-sdk/transaction"
	"github.com/r3e-network/neogo-sdk/util"
	"github.com/r3e-network/neogo-sdk/vm"
	"go.uber.org/zap"
)

// State names a Builder's position in its Draft/Validated/Signed/
// Serialized state machine.
type State int

const (
	Draft State = iota
	Validated
	Signed
	Serialized
)

func (s State) String() string {
	switch s {
	case Draft:
		return "draft"
	case Validated:
		return "validated"
	case Signed:
		return "signed"
	case Serialized:
		return "serialized"
	default:
		return "unknown"
	}
}

// Options configures a Builder. NetworkMagic has no default: spec.md
// §9 leaves mainnet/testnet magic to the caller, and a zero value is a
// legitimate magic for private networks rather than a missing one.
type Options struct {
	NetworkMagic          uint32
	ValidUntilBlockOffset uint32
}

// Builder assembles a transaction.Transaction from a script, signers,
// attributes, fees and a validity window, then signs and serializes
// it. It is not safe for concurrent use; independent Builders may run
// on independent goroutines, spec.md §5.
type Builder struct {
	opts  Options
	state State

	nonceSet bool
	tx       transaction.UnsignedTransaction

	// signerKeys holds, for each entry in tx.Signers at the same
	// index, the account that should produce its default single-sig
	// witness, or nil if the caller will supply the witness manually.
	signerKeys []*eckey.PrivateKey

	witnesses []transaction.Witness
}

// New returns an empty Builder in the Draft state.
func New(opts Options) *Builder {
	return &Builder{opts: opts}
}

func (b *Builder) invalidateWitnesses() {
	if b.state == Signed || b.state == Serialized {
		neosdk.Logger().Debug("txbuilder: mutation after signing invalidated witnesses",
			zap.String("from", b.state.String()))
	}
	b.witnesses = nil
	b.state = Draft
}

// SetScript sets the invocation script the transaction executes.
func (b *Builder) SetScript(script []byte) *Builder {
	b.invalidateWitnesses()
	b.tx.Script = script
	return b
}

// SetNonce pins an explicit nonce. Without a call to SetNonce, Validate
// draws a random one.
func (b *Builder) SetNonce(nonce uint32) *Builder {
	b.invalidateWitnesses()
	b.tx.Nonce = nonce
	b.nonceSet = true
	return b
}

// SetSystemFee sets the GAS cost of executing the script.
func (b *Builder) SetSystemFee(fee int64) *Builder {
	b.invalidateWitnesses()
	b.tx.SystemFee = fee
	return b
}

// SetNetworkFee sets the GAS cost of transaction size and witness
// verification.
func (b *Builder) SetNetworkFee(fee int64) *Builder {
	b.invalidateWitnesses()
	b.tx.NetworkFee = fee
	return b
}

// SetValidUntilBlock pins the last block height this transaction is
// valid in. Without a call to SetValidUntilBlock, Validate returns a
// BuilderError unless the caller has set one.
func (b *Builder) SetValidUntilBlock(height uint32) *Builder {
	b.invalidateWitnesses()
	b.tx.ValidUntilBlock = height
	return b
}

// AddAttribute appends a transaction attribute.
func (b *Builder) AddAttribute(attr transaction.Attribute) *Builder {
	b.invalidateWitnesses()
	b.tx.Attributes = append(b.tx.Attributes, attr)
	return b
}

// AddSigner adds a signer authorized with scope, to be witnessed with
// key's default single-sig verification script at Sign time. key's
// script hash must equal account; pass a nil key for a watch-only
// signer whose witness must be supplied via AddWitness.
func (b *Builder) AddSigner(account util.Uint160, scope transaction.WitnessScope, key *eckey.PrivateKey) *Builder {
	b.invalidateWitnesses()
	b.tx.Signers = append(b.tx.Signers, transaction.Signer{
		Account: account,
		Scopes:  scope,
	})
	b.signerKeys = append(b.signerKeys, key)
	return b
}

// AddSignerWithRules adds a signer with the full scope subitems a
// CustomContracts/CustomGroups/WitnessRules scope requires.
func (b *Builder) AddSignerWithRules(s transaction.Signer, key *eckey.PrivateKey) *Builder {
	b.invalidateWitnesses()
	b.tx.Signers = append(b.tx.Signers, s)
	b.signerKeys = append(b.signerKeys, key)
	return b
}

// Validate checks the builder-level invariants of spec.md §4.8
// (non-empty script, at least one signer, fees non-negative, no
// duplicate signers, a valid-until-block set), rejects a Global-scope
// signer alongside other signers when any signer carries a
// CustomContracts, CustomGroups or Rules scope, logs the HighPriority
// advisory, draws a nonce if none was set, and moves Draft -> Validated.
func (b *Builder) Validate() error {
	if b.state != Draft {
		return neoerr.New(neoerr.BuilderError, "Validate called outside the Draft state")
	}
	if len(b.tx.Script) == 0 {
		return neoerr.New(neoerr.BuilderError, "transaction script must not be empty")
	}
	if len(b.tx.Signers) == 0 {
		return neoerr.New(neoerr.BuilderError, "transaction must have at least one signer")
	}
	if b.tx.SystemFee < 0 || b.tx.NetworkFee < 0 {
		return neoerr.New(neoerr.BuilderError, "fees must be non-negative")
	}
	if b.tx.ValidUntilBlock == 0 {
		return neoerr.New(neoerr.BuilderError, "valid-until-block must be set")
	}
	seen := make(map[util.Uint160]bool, len(b.tx.Signers))
	hasGlobal := false
	hasFields := false
	for _, s := range b.tx.Signers {
		if seen[s.Account] {
			return neoerr.New(neoerr.BuilderError, "duplicate signer script hash")
		}
		seen[s.Account] = true
		if s.Scopes.Has(transaction.Global) {
			hasGlobal = true
		}
		if s.Scopes&(transaction.CustomContracts|transaction.CustomGroups|transaction.Rules) != 0 {
			hasFields = true
		}
	}
	if hasGlobal && len(b.tx.Signers) > 1 && hasFields {
		return neoerr.New(neoerr.BuilderError, "Global scope cannot be combined with a contract, group or rule scoped signer")
	}
	for _, attr := range b.tx.Attributes {
		if attr.Type == transaction.HighPriority {
			neosdk.Logger().Debug("txbuilder: HighPriority attribute set; committee membership is checked at the node, not here")
		}
	}
	if !b.nonceSet {
		nonce, err := randomNonce()
		if err != nil {
			return err
		}
		b.tx.Nonce = nonce
	}
	b.state = Validated
	return nil
}

func randomNonce() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, neoerr.Wrap(neoerr.Crypto, "nonce generation failed", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// SigningDigest computes sha256(network_magic_le ∥ sha256(unsigned_tx_bytes)),
// the 32-byte digest every signer's ECDSA signature is produced over,
// spec.md §4.8 and §6. This is distinct from UnsignedTransaction.SigningHash,
// which folds in no network magic and is instead the transaction hash
// used for the transaction ID.
func (b *Builder) SigningDigest() ([32]byte, error) {
	if b.state != Validated && b.state != Signed {
		return [32]byte{}, neoerr.New(neoerr.BuilderError, "SigningDigest requires a Validated builder; call Validate first")
	}
	raw, err := b.tx.Bytes()
	if err != nil {
		return [32]byte{}, err
	}
	inner := hash.Sha256(raw)
	var magic [4]byte
	binary.LittleEndian.PutUint32(magic[:], b.opts.NetworkMagic)
	buf := make([]byte, 0, 4+32)
	buf = append(buf, magic[:]...)
	buf = append(buf, inner[:]...)
	return hash.Sha256(buf), nil
}

// TransactionID returns the big-endian hex transaction ID, with a
// leading "0x", spec.md §3 and §6.
func (b *Builder) TransactionID() (string, error) {
	h, err := b.tx.SigningHash()
	if err != nil {
		return "", err
	}
	return "0x" + h.String(), nil
}

// Sign produces a default single-sig witness for every signer that was
// added with a non-nil key via AddSigner, and requires every other
// signer to already carry a manually supplied witness via AddWitness.
// It moves Validated -> Signed once every signer has a witness whose
// verification-script hash matches the signer's account.
func (b *Builder) Sign() error {
	if b.state != Validated {
		return neoerr.New(neoerr.BuilderError, "Sign requires a Validated builder; call Validate first")
	}
	if b.witnesses == nil {
		b.witnesses = make([]transaction.Witness, len(b.tx.Signers))
	}
	digest, err := b.SigningDigest()
	if err != nil {
		return err
	}
	for i, signer := range b.tx.Signers {
		if b.witnesses[i].VerificationScript != nil {
			continue
		}
		key := b.signerKeys[i]
		if key == nil {
			return neoerr.New(neoerr.BuilderError, "signer has no key and no witness was supplied")
		}
		pub := key.PublicKey()
		verification := vm.SingleSigVerificationScript(pub)
		if vm.ScriptHash(verification) != signer.Account {
			return neoerr.New(neoerr.BuilderError, "signer key does not match signer script hash")
		}
		sig := key.SignHash(digest)
		b.witnesses[i] = transaction.Witness{
			InvocationScript:   vm.InvocationScript([][]byte{sig}),
			VerificationScript: verification,
		}
	}
	for i, w := range b.witnesses {
		if w.VerificationScript == nil {
			return neoerr.New(neoerr.BuilderError, "missing witness for signer")
		}
		if vm.ScriptHash(w.VerificationScript) != b.tx.Signers[i].Account {
			return neoerr.New(neoerr.BuilderError, "witness verification script hash does not match signer")
		}
	}
	b.state = Signed
	neosdk.Logger().Debug("txbuilder: signed", zap.Int("signers", len(b.tx.Signers)))
	return nil
}

// AddWitness installs a manually constructed witness for the signer at
// index i, for watch-only signers or multi-sig accounts the Builder
// cannot derive a witness for on its own. It must be called before
// Sign.
func (b *Builder) AddWitness(i int, w transaction.Witness) error {
	if b.state == Signed || b.state == Serialized {
		return neoerr.New(neoerr.BuilderError, "AddWitness called after Sign; call Validate again first")
	}
	if i < 0 || i >= len(b.tx.Signers) {
		return neoerr.New(neoerr.BuilderError, "signer index out of range")
	}
	if vm.ScriptHash(w.VerificationScript) != b.tx.Signers[i].Account {
		return neoerr.New(neoerr.BuilderError, "witness verification script hash does not match signer")
	}
	if b.witnesses == nil {
		b.witnesses = make([]transaction.Witness, len(b.tx.Signers))
	}
	b.witnesses[i] = w
	return nil
}

// Finalize returns the assembled Transaction once Sign has completed
// and moves Signed -> Serialized.
func (b *Builder) Finalize() (*transaction.Transaction, error) {
	if b.state != Signed {
		return nil, neoerr.New(neoerr.BuilderError, "Finalize requires a Signed builder; call Sign first")
	}
	if len(b.witnesses) != len(b.tx.Signers) {
		return nil, neoerr.New(neoerr.BuilderError, "witness count does not match signer count")
	}
	tx := &transaction.Transaction{
		UnsignedTransaction: b.tx,
		Scripts:             append([]transaction.Witness(nil), b.witnesses...),
	}
	b.state = Serialized
	return tx, nil
}

// Serialize validates, signs (if not already signed) and finalizes in
// one call, returning the full wire-format byte stream of spec.md §6.
// It requires every signer to already have a matching witness (via
// AddWitness) or a key (via AddSigner).
func (b *Builder) Serialize() ([]byte, error) {
	if b.state == Draft {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	if b.state == Validated {
		if err := b.Sign(); err != nil {
			return nil, err
		}
	}
	tx, err := b.Finalize()
	if err != nil {
		return nil, err
	}
	w := io.NewBufBinWriter()
	tx.EncodeBinary(w)
	if err := w.Error(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// State returns the builder's current position in its state machine.
func (b *Builder) State() State {
	return b.state
}
