// Package transaction implements the Neo N3 transaction model: signers,
// witness scopes and rules, attributes, witnesses, and the unsigned and
// signed transaction wire formats.
package transaction

import (
	"encoding/json"

	"github.com/r3e-network/neogo-sdk/hash"
	"github.com/r3e-network/neogo-sdk/io"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/util"
)

// DefaultVersion is the only transaction version Neo N3 currently defines.
const DefaultVersion = 0

const (
	// MaxAttributes bounds the number of attributes a transaction carries.
	MaxAttributes = 16
	// MaxScriptLength bounds the invocation script.
	MaxScriptLength = 65536
)

// UnsignedTransaction is every transaction field covered by the
// signing hash: everything but the witnesses, spec.md §3.
type UnsignedTransaction struct {
	Version         byte
	Nonce           uint32
	SystemFee       int64
	NetworkFee      int64
	ValidUntilBlock uint32
	Signers         []Signer
	Attributes      []Attribute
	Script          []byte
}

// Transaction is an UnsignedTransaction plus one Witness per Signer,
// paired by index, spec.md §3.
type Transaction struct {
	UnsignedTransaction
	Scripts []Witness
}

// EncodeBinary writes the unsigned fields in wire order: version,
// nonce, system fee, network fee, valid-until-block, signers,
// attributes, script.
func (t *UnsignedTransaction) EncodeBinary(w *io.BinWriter) {
	if t.Version != DefaultVersion {
		w.Err = neoerr.New(neoerr.InvalidArgument, "unsupported transaction version")
		return
	}
	if t.SystemFee < 0 || t.NetworkFee < 0 {
		w.Err = neoerr.New(neoerr.InvalidArgument, "fees must be non-negative")
		return
	}
	if len(t.Signers) == 0 {
		w.Err = neoerr.New(neoerr.BuilderError, "transaction must have at least one signer")
		return
	}
	if len(t.Script) == 0 {
		w.Err = neoerr.New(neoerr.BuilderError, "transaction script must not be empty")
		return
	}
	if len(t.Attributes) > MaxAttributes {
		w.Err = neoerr.New(neoerr.InvalidArgument, "too many transaction attributes")
		return
	}
	if err := checkUniqueSigners(t.Signers); err != nil {
		w.Err = err
		return
	}

	w.WriteB(t.Version)
	w.WriteU32LE(t.Nonce)
	w.WriteI64LE(t.SystemFee)
	w.WriteI64LE(t.NetworkFee)
	w.WriteU32LE(t.ValidUntilBlock)

	w.WriteVarUint(uint64(len(t.Signers)))
	for i := range t.Signers {
		t.Signers[i].EncodeBinary(w)
	}
	w.WriteVarUint(uint64(len(t.Attributes)))
	for i := range t.Attributes {
		t.Attributes[i].EncodeBinary(w)
	}
	w.WriteVarBytes(t.Script)
}

// DecodeBinary is the inverse of EncodeBinary.
func (t *UnsignedTransaction) DecodeBinary(r *io.BinReader) {
	t.Version = r.ReadB()
	if r.Err != nil {
		return
	}
	if t.Version != DefaultVersion {
		r.Err = neoerr.New(neoerr.DeserializationError, "unsupported transaction version")
		return
	}
	t.Nonce = r.ReadU32LE()
	t.SystemFee = r.ReadI64LE()
	t.NetworkFee = r.ReadI64LE()
	t.ValidUntilBlock = r.ReadU32LE()
	if r.Err != nil {
		return
	}
	if t.SystemFee < 0 || t.NetworkFee < 0 {
		r.Err = neoerr.New(neoerr.DeserializationError, "fees must be non-negative")
		return
	}

	nSigners := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nSigners == 0 {
		r.Err = neoerr.New(neoerr.DeserializationError, "transaction must have at least one signer")
		return
	}
	t.Signers = make([]Signer, nSigners)
	for i := range t.Signers {
		t.Signers[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}
	if err := checkUniqueSigners(t.Signers); err != nil {
		r.Err = err
		return
	}

	nAttrs := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nAttrs > MaxAttributes {
		r.Err = neoerr.New(neoerr.DeserializationError, "too many transaction attributes")
		return
	}
	t.Attributes = make([]Attribute, nAttrs)
	for i := range t.Attributes {
		t.Attributes[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}

	t.Script = r.ReadVarBytes(MaxScriptLength)
	if r.Err != nil {
		return
	}
	if len(t.Script) == 0 {
		r.Err = neoerr.New(neoerr.DeserializationError, "transaction script must not be empty")
	}
}

func checkUniqueSigners(signers []Signer) error {
	seen := make(map[util.Uint160]bool, len(signers))
	globalSeen := false
	hasFields := false
	for _, s := range signers {
		if seen[s.Account] {
			return neoerr.New(neoerr.InvalidArgument, "duplicate signer account")
		}
		seen[s.Account] = true
		if s.Scopes.Has(Global) {
			globalSeen = true
		}
		if s.Scopes&(CustomContracts|CustomGroups|Rules) != 0 {
			hasFields = true
		}
	}
	if globalSeen && len(signers) > 1 && hasFields {
		return neoerr.New(neoerr.InvalidArgument, "a Global-scope signer cannot share a transaction with a contract, group or rule scoped signer")
	}
	return nil
}

// Bytes serializes t's unsigned fields, the byte string the signing
// digest and transaction ID are derived from.
func (t *UnsignedTransaction) Bytes() ([]byte, error) {
	bw := io.NewBufBinWriter()
	t.EncodeBinary(bw)
	if bw.Err != nil {
		return nil, bw.Err
	}
	return bw.Bytes(), nil
}

// SigningHash returns sha256(sha256(unsigned transaction bytes)), the
// transaction hash the transaction ID is taken from. It is not the
// digest a signer's key signs: that digest folds in the network magic,
// see txbuilder.Builder.SigningDigest.
func (t *UnsignedTransaction) SigningHash() (util.Uint256, error) {
	raw, err := t.Bytes()
	if err != nil {
		return util.Uint256{}, err
	}
	h := hash.DoubleSha256(raw)
	return util.Uint256DecodeBytesLE(h[:])
}

// EncodeBinary writes the unsigned fields followed by one witness per
// signer.
func (t *Transaction) EncodeBinary(w *io.BinWriter) {
	if len(t.Scripts) != len(t.Signers) {
		w.Err = neoerr.New(neoerr.BuilderError, "witness count must equal signer count")
		return
	}
	t.UnsignedTransaction.EncodeBinary(w)
	if w.Err != nil {
		return
	}
	w.WriteVarUint(uint64(len(t.Scripts)))
	for i := range t.Scripts {
		t.Scripts[i].EncodeBinary(w)
	}
}

// DecodeBinary is the inverse of EncodeBinary.
func (t *Transaction) DecodeBinary(r *io.BinReader) {
	t.UnsignedTransaction.DecodeBinary(r)
	if r.Err != nil {
		return
	}
	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if int(n) != len(t.Signers) {
		r.Err = neoerr.New(neoerr.DeserializationError, "witness count must equal signer count")
		return
	}
	t.Scripts = make([]Witness, n)
	for i := range t.Scripts {
		t.Scripts[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}
}

// Hash returns sha256(sha256(unsigned transaction bytes)).
func (t *Transaction) Hash() (util.Uint256, error) {
	return t.UnsignedTransaction.SigningHash()
}

// ID returns the big-endian hex transaction ID surfaced to users,
// spec.md §3.
func (t *Transaction) ID() (string, error) {
	h, err := t.Hash()
	if err != nil {
		return "", err
	}
	return "0x" + h.String(), nil
}

type jsonTransaction struct {
	Hash            string      `json:"hash"`
	Version         byte        `json:"version"`
	Nonce           uint32      `json:"nonce"`
	SystemFee       string      `json:"sysfee"`
	NetworkFee      string      `json:"netfee"`
	ValidUntilBlock uint32      `json:"validuntilblock"`
	Signers         []*Signer   `json:"signers"`
	Attributes      []*Attribute `json:"attributes"`
	Script          string      `json:"script"`
	Witnesses       []*Witness  `json:"witnesses"`
}

// MarshalJSON renders t the way Neo N3's RPC server renders a
// transaction, including the derived "hash" field.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	id, err := t.ID()
	if err != nil {
		return nil, err
	}
	out := jsonTransaction{
		Hash:            id,
		Version:         t.Version,
		Nonce:           t.Nonce,
		SystemFee:       formatFixed(t.SystemFee),
		NetworkFee:      formatFixed(t.NetworkFee),
		ValidUntilBlock: t.ValidUntilBlock,
		Script:          encodeBase64(t.Script),
	}
	for i := range t.Signers {
		out.Signers = append(out.Signers, &t.Signers[i])
	}
	for i := range t.Attributes {
		out.Attributes = append(out.Attributes, &t.Attributes[i])
	}
	for i := range t.Scripts {
		out.Witnesses = append(out.Witnesses, &t.Scripts[i])
	}
	return json.Marshal(out)
}

func formatFixed(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := itoa(v)
	if neg {
		return "-" + s
	}
	return s
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
