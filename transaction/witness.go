package transaction

import (
	"encoding/json"

	"github.com/r3e-network/neogo-sdk/codec"
	"github.com/r3e-network/neogo-sdk/io"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/util"
	"github.com/r3e-network/neogo-sdk/vm"
)

// MaxWitnessScriptLen bounds either script in a Witness, spec.md §3.
const MaxWitnessScriptLen = 65536

// Witness carries the invocation and verification scripts a signer
// attaches to prove authorization, spec.md §3.
type Witness struct {
	InvocationScript   []byte
	VerificationScript []byte
}

// ScriptHash returns the Hash160 of the verification script, the
// account this witness authorizes for.
func (w *Witness) ScriptHash() util.Uint160 {
	return vm.ScriptHash(w.VerificationScript)
}

// EncodeBinary writes InvocationScript then VerificationScript, each
// as var-bytes.
func (w *Witness) EncodeBinary(bw *io.BinWriter) {
	bw.WriteVarBytes(w.InvocationScript)
	bw.WriteVarBytes(w.VerificationScript)
}

// DecodeBinary is the inverse of EncodeBinary.
func (w *Witness) DecodeBinary(br *io.BinReader) {
	w.InvocationScript = br.ReadVarBytes(MaxWitnessScriptLen)
	if br.Err != nil {
		return
	}
	w.VerificationScript = br.ReadVarBytes(MaxWitnessScriptLen)
}

type jsonWitness struct {
	Invocation   string `json:"invocation"`
	Verification string `json:"verification"`
}

// MarshalJSON renders both scripts base64-encoded, matching Neo N3's
// RPC witness JSON.
func (w *Witness) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonWitness{
		Invocation:   codec.Base64Encode(w.InvocationScript),
		Verification: codec.Base64Encode(w.VerificationScript),
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (w *Witness) UnmarshalJSON(data []byte) error {
	var raw jsonWitness
	if err := json.Unmarshal(data, &raw); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "decode witness", err)
	}
	inv, err := codec.Base64Decode(raw.Invocation)
	if err != nil {
		return err
	}
	ver, err := codec.Base64Decode(raw.Verification)
	if err != nil {
		return err
	}
	w.InvocationScript = inv
	w.VerificationScript = ver
	return nil
}
