// Package smartcontract implements the contract-parameter tagged union
// (spec.md §3/§4.9) that feeds the script builder, plus a thin Builder
// that turns a sequence of method calls into an invocation script.
package smartcontract

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/util"
)

// ParamType tags a Parameter's Value.
type ParamType byte

const (
	UnknownType ParamType = iota
	AnyType
	BoolType
	IntegerType
	ByteArrayType
	StringType
	Hash160Type
	Hash256Type
	PublicKeyType
	SignatureType
	ArrayType
	MapType
	InteropInterfaceType
	VoidType
)

var typeNames = map[ParamType]string{
	UnknownType:          "Unknown",
	AnyType:              "Any",
	BoolType:             "Boolean",
	IntegerType:          "Integer",
	ByteArrayType:        "ByteString",
	StringType:           "String",
	Hash160Type:          "Hash160",
	Hash256Type:          "Hash256",
	PublicKeyType:        "PublicKey",
	SignatureType:        "Signature",
	ArrayType:            "Array",
	MapType:              "Map",
	InteropInterfaceType: "InteropInterface",
	VoidType:             "Void",
}

func (t ParamType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "Unknown"
}

// Parameter is a tagged value: exactly one of the shapes spec.md §3
// names. It is immutable after construction by convention (no method
// here mutates Value).
type Parameter struct {
	Type  ParamType
	Value interface{}
}

// ParameterPair is one (key, value) entry of a MapType Parameter. Map
// keys are restricted to the primitive variants named in spec.md §3.
type ParameterPair struct {
	Key   Parameter
	Value Parameter
}

// NewBool constructs a BoolType parameter.
func NewBool(v bool) Parameter { return Parameter{Type: BoolType, Value: v} }

// NewInt constructs an IntegerType parameter from an int64.
func NewInt(v int64) Parameter { return Parameter{Type: IntegerType, Value: big.NewInt(v)} }

// NewBigInt constructs an IntegerType parameter from an arbitrary-size
// integer, for amounts beyond int64 range (e.g. a raw NEP-17 balance).
func NewBigInt(v *big.Int) Parameter { return Parameter{Type: IntegerType, Value: v} }

// NewByteArray constructs a ByteArrayType parameter.
func NewByteArray(b []byte) Parameter { return Parameter{Type: ByteArrayType, Value: b} }

// NewString constructs a StringType parameter.
func NewString(s string) Parameter { return Parameter{Type: StringType, Value: s} }

// NewHash160 constructs a Hash160Type parameter.
func NewHash160(h util.Uint160) Parameter { return Parameter{Type: Hash160Type, Value: h} }

// NewHash256 constructs a Hash256Type parameter.
func NewHash256(h util.Uint256) Parameter { return Parameter{Type: Hash256Type, Value: h} }

// NewPublicKey constructs a PublicKeyType parameter from a compressed
// 33-byte encoding.
func NewPublicKey(pub *eckey.PublicKey) Parameter {
	return Parameter{Type: PublicKeyType, Value: pub.Bytes()}
}

// NewSignature constructs a SignatureType parameter. sig must be
// exactly 64 bytes (spec.md §3 invariant).
func NewSignature(sig []byte) (Parameter, error) {
	if len(sig) != 64 {
		return Parameter{}, neoerr.New(neoerr.InvalidArgument, "signature parameter must be 64 bytes")
	}
	return Parameter{Type: SignatureType, Value: sig}, nil
}

// NewArray constructs an ArrayType parameter.
func NewArray(items []Parameter) Parameter { return Parameter{Type: ArrayType, Value: items} }

// NewVoid constructs a Void/Any parameter (the "null" argument NEP-17
// transfer's data field commonly takes).
func NewVoid() Parameter { return Parameter{Type: VoidType, Value: nil} }

// NewMap constructs a MapType parameter, validating that every key is
// one of the primitive variants spec.md §3 allows as a map key.
func NewMap(pairs []ParameterPair) (Parameter, error) {
	for _, p := range pairs {
		switch p.Key.Type {
		case BoolType, IntegerType, ByteArrayType, StringType:
		default:
			return Parameter{}, neoerr.New(neoerr.InvalidArgument, "map key must be a primitive parameter type")
		}
	}
	return Parameter{Type: MapType, Value: pairs}, nil
}

// CheckInvariants validates the length invariants spec.md §3 places on
// Hash160 (20 bytes), Hash256 (32 bytes), and Signature (64 bytes)
// parameters, recursing into Array/Map values.
func (p Parameter) CheckInvariants() error {
	switch p.Type {
	case SignatureType:
		if b, ok := p.Value.([]byte); !ok || len(b) != 64 {
			return neoerr.New(neoerr.InvalidArgument, "signature parameter must be 64 bytes")
		}
	case Hash160Type:
		if _, ok := p.Value.(util.Uint160); !ok {
			return neoerr.New(neoerr.InvalidArgument, "hash160 parameter must be a Uint160")
		}
	case Hash256Type:
		if _, ok := p.Value.(util.Uint256); !ok {
			return neoerr.New(neoerr.InvalidArgument, "hash256 parameter must be a Uint256")
		}
	case ArrayType:
		items, _ := p.Value.([]Parameter)
		for _, it := range items {
			if err := it.CheckInvariants(); err != nil {
				return err
			}
		}
	case MapType:
		pairs, _ := p.Value.([]ParameterPair)
		for _, pr := range pairs {
			if err := pr.Key.CheckInvariants(); err != nil {
				return err
			}
			if err := pr.Value.CheckInvariants(); err != nil {
				return err
			}
		}
	}
	return nil
}

type jsonParameter struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON renders a Parameter the way the external RPC collaborator
// expects: {"type": "<Name>", "value": <value>}, byte arrays and
// signatures base64-encoded.
func (p Parameter) MarshalJSON() ([]byte, error) {
	if p.Type == UnknownType {
		return nil, neoerr.New(neoerr.InvalidArgument, "cannot marshal an Unknown-typed parameter")
	}
	var raw interface{}
	switch p.Type {
	case BoolType:
		raw = p.Value
	case IntegerType:
		n, ok := p.Value.(*big.Int)
		if !ok {
			return nil, neoerr.New(neoerr.InvalidArgument, "integer parameter value must be *big.Int")
		}
		if n.IsInt64() {
			raw = n.Int64()
		} else {
			raw = n.String()
		}
	case StringType:
		raw = p.Value
	case ByteArrayType, SignatureType:
		if p.Value == nil {
			raw = nil
		} else {
			b, _ := p.Value.([]byte)
			raw = base64.StdEncoding.EncodeToString(b)
		}
	case PublicKeyType:
		b, _ := p.Value.([]byte)
		raw = fmt.Sprintf("%x", b)
	case Hash160Type:
		h, _ := p.Value.(util.Uint160)
		raw = "0x" + h.StringLE()
	case Hash256Type:
		h, _ := p.Value.(util.Uint256)
		raw = "0x" + h.StringLE()
	case ArrayType:
		items, _ := p.Value.([]Parameter)
		if items == nil {
			items = []Parameter{}
		}
		raw = items
	case MapType:
		pairs, _ := p.Value.([]ParameterPair)
		type kv struct {
			Key   Parameter `json:"key"`
			Value Parameter `json:"value"`
		}
		out := make([]kv, len(pairs))
		for i, pr := range pairs {
			out[i] = kv{Key: pr.Key, Value: pr.Value}
		}
		raw = out
	case InteropInterfaceType, VoidType:
		raw = nil
	default:
		return nil, neoerr.New(neoerr.InvalidArgument, "unsupported parameter type for JSON")
	}

	valueBytes, err := json.Marshal(raw)
	if err != nil {
		return nil, neoerr.Wrap(neoerr.InvalidArgument, "marshal parameter value", err)
	}
	out := jsonParameter{Type: p.Type.String(), Value: valueBytes}
	if p.Type == SignatureType && p.Value == nil {
		return json.Marshal(struct {
			Type string `json:"type"`
		}{Type: p.Type.String()})
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var raw jsonParameter
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "decode parameter envelope", err)
	}
	var t ParamType
	found := false
	for k, v := range typeNames {
		if v == raw.Type || (raw.Type == "Bool" && k == BoolType) {
			t, found = k, true
			break
		}
	}
	if !found {
		return neoerr.New(neoerr.InvalidFormat, "unknown parameter type: "+raw.Type)
	}
	p.Type = t
	if len(raw.Value) == 0 {
		p.Value = nil
		return nil
	}
	switch t {
	case BoolType:
		var v bool
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return neoerr.Wrap(neoerr.InvalidFormat, "decode bool parameter", err)
		}
		p.Value = v
	case IntegerType:
		var asNum json.Number
		if err := json.Unmarshal(raw.Value, &asNum); err == nil {
			n, ok := new(big.Int).SetString(asNum.String(), 10)
			if !ok {
				return neoerr.New(neoerr.InvalidFormat, "malformed integer parameter")
			}
			p.Value = n
			return nil
		}
		var asStr string
		if err := json.Unmarshal(raw.Value, &asStr); err != nil {
			return neoerr.New(neoerr.InvalidFormat, "malformed integer parameter")
		}
		n, ok := new(big.Int).SetString(asStr, 10)
		if !ok {
			return neoerr.New(neoerr.InvalidFormat, "malformed integer parameter")
		}
		p.Value = n
	case StringType:
		var v string
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return neoerr.Wrap(neoerr.InvalidFormat, "decode string parameter", err)
		}
		p.Value = v
	case ByteArrayType, SignatureType:
		var v *string
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return neoerr.Wrap(neoerr.InvalidFormat, "decode byte-array parameter", err)
		}
		if v == nil {
			p.Value = nil
			return nil
		}
		b, err := base64.StdEncoding.DecodeString(*v)
		if err != nil {
			return neoerr.Wrap(neoerr.InvalidFormat, "decode base64 payload", err)
		}
		p.Value = b
	case PublicKeyType:
		var v string
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return neoerr.Wrap(neoerr.InvalidFormat, "decode public key parameter", err)
		}
		b, err := hexDecode(v)
		if err != nil {
			return err
		}
		p.Value = b
	case Hash160Type:
		var v string
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return neoerr.Wrap(neoerr.InvalidFormat, "decode hash160 parameter", err)
		}
		h, err := util.Uint160DecodeStringLE(trim0x(v))
		if err != nil {
			return err
		}
		p.Value = h
	case Hash256Type:
		var v string
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return neoerr.Wrap(neoerr.InvalidFormat, "decode hash256 parameter", err)
		}
		h, err := util.Uint256DecodeStringLE(trim0x(v))
		if err != nil {
			return err
		}
		p.Value = h
	case ArrayType:
		var items []Parameter
		if err := json.Unmarshal(raw.Value, &items); err != nil {
			return neoerr.Wrap(neoerr.InvalidFormat, "decode array parameter", err)
		}
		p.Value = items
	case MapType:
		type kv struct {
			Key   Parameter `json:"key"`
			Value Parameter `json:"value"`
		}
		var kvs []kv
		if err := json.Unmarshal(raw.Value, &kvs); err != nil {
			return neoerr.Wrap(neoerr.InvalidFormat, "decode map parameter", err)
		}
		pairs := make([]ParameterPair, len(kvs))
		for i, e := range kvs {
			pairs[i] = ParameterPair{Key: e.Key, Value: e.Value}
		}
		p.Value = pairs
	}
	return nil
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func hexDecode(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, neoerr.Wrap(neoerr.InvalidFormat, "decode hex payload", err)
	}
	return b, nil
}
