package transaction

import (
	"encoding/json"

	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/r3e-network/neogo-sdk/io"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/util"
)

// WitnessAction is the verdict a WitnessRule contributes when its
// Condition matches.
type WitnessAction byte

const (
	WitnessDeny  WitnessAction = 0
	WitnessAllow WitnessAction = 1
)

// ConditionType tags a WitnessCondition variant. Values match the wire
// encoding Neo N3 assigns each condition shape.
type ConditionType byte

const (
	ConditionBooleanT          ConditionType = 0x00
	ConditionNotT              ConditionType = 0x01
	ConditionAndT              ConditionType = 0x02
	ConditionOrT               ConditionType = 0x03
	ConditionScriptHashT       ConditionType = 0x18
	ConditionGroupT            ConditionType = 0x19
	ConditionCalledByEntryT    ConditionType = 0x20
	ConditionCalledByContractT ConditionType = 0x28
	ConditionCalledByGroupT    ConditionType = 0x29
)

// maxConditionDepth bounds recursive And/Or/Not nesting, the depth-2
// invariant spec.md §3 places on a Signer's rules.
const maxConditionDepth = 2

// WitnessCondition is the recursive AST a WitnessRule evaluates against
// the invocation context, spec.md §3.
type WitnessCondition interface {
	Type() ConditionType
	EncodeBinary(w *io.BinWriter)
	depth() int
}

// WitnessRule is one (action, condition) pair of spec.md §3.
type WitnessRule struct {
	Action    WitnessAction
	Condition WitnessCondition
}

// EncodeBinary writes Action then Condition.
func (r *WitnessRule) EncodeBinary(w *io.BinWriter) {
	if r.Action != WitnessAllow && r.Action != WitnessDeny {
		w.Err = neoerr.New(neoerr.InvalidArgument, "witness rule action must be Allow or Deny")
		return
	}
	w.WriteB(byte(r.Action))
	r.Condition.EncodeBinary(w)
}

// DecodeBinary reads Action then Condition.
func (r *WitnessRule) DecodeBinary(rd *io.BinReader) {
	action := WitnessAction(rd.ReadB())
	if rd.Err != nil {
		return
	}
	if action != WitnessAllow && action != WitnessDeny {
		rd.Err = neoerr.New(neoerr.DeserializationError, "witness rule action must be Allow or Deny")
		return
	}
	r.Action = action
	r.Condition = decodeCondition(rd, 0)
}

// Copy returns a deep copy of r so a caller can mutate it without
// aliasing the original condition tree.
func (r *WitnessRule) Copy() *WitnessRule {
	return &WitnessRule{Action: r.Action, Condition: copyCondition(r.Condition)}
}

func copyCondition(c WitnessCondition) WitnessCondition {
	switch v := c.(type) {
	case *ConditionBoolean:
		cp := *v
		return &cp
	case *ConditionNot:
		return &ConditionNot{Expression: copyCondition(v.Expression)}
	case *ConditionAnd:
		out := make(ConditionGroup, len(v.Expressions))
		for i, e := range v.Expressions {
			out[i] = copyCondition(e)
		}
		return &ConditionAnd{Expressions: out}
	case *ConditionOr:
		out := make(ConditionGroup, len(v.Expressions))
		for i, e := range v.Expressions {
			out[i] = copyCondition(e)
		}
		return &ConditionOr{Expressions: out}
	case *ConditionScriptHash:
		cp := *v
		return &cp
	case *ConditionGroupKey:
		cp := *v
		return &cp
	case *ConditionCalledByEntry:
		return &ConditionCalledByEntry{}
	case *ConditionCalledByContract:
		cp := *v
		return &cp
	case *ConditionCalledByGroup:
		cp := *v
		return &cp
	default:
		return c
	}
}

func decodeCondition(r *io.BinReader, depth int) WitnessCondition {
	if r.Err != nil {
		return nil
	}
	if depth > maxConditionDepth {
		r.Err = neoerr.New(neoerr.DeserializationError, "witness condition nesting too deep")
		return nil
	}
	t := ConditionType(r.ReadB())
	if r.Err != nil {
		return nil
	}
	switch t {
	case ConditionBooleanT:
		var b ConditionBoolean
		b = ConditionBoolean(r.ReadBool())
		return &b
	case ConditionNotT:
		inner := decodeCondition(r, depth+1)
		return &ConditionNot{Expression: inner}
	case ConditionAndT:
		return &ConditionAnd{Expressions: decodeConditionGroup(r, depth+1)}
	case ConditionOrT:
		return &ConditionOr{Expressions: decodeConditionGroup(r, depth+1)}
	case ConditionScriptHashT:
		var buf [util.Uint160Size]byte
		r.ReadBytes(buf[:])
		h, _ := util.Uint160DecodeBytesLE(buf[:])
		return &ConditionScriptHash{Hash: h}
	case ConditionGroupT:
		b := r.ReadVarBytes(eckey.PublicKeySize)
		pub, err := eckey.NewPublicKeyFromBytes(b)
		if err != nil {
			r.Err = err
			return nil
		}
		return &ConditionGroupKey{Group: pub}
	case ConditionCalledByEntryT:
		return &ConditionCalledByEntry{}
	case ConditionCalledByContractT:
		var buf [util.Uint160Size]byte
		r.ReadBytes(buf[:])
		h, _ := util.Uint160DecodeBytesLE(buf[:])
		return &ConditionCalledByContract{Hash: h}
	case ConditionCalledByGroupT:
		b := r.ReadVarBytes(eckey.PublicKeySize)
		pub, err := eckey.NewPublicKeyFromBytes(b)
		if err != nil {
			r.Err = err
			return nil
		}
		return &ConditionCalledByGroup{Group: pub}
	default:
		r.Err = neoerr.New(neoerr.DeserializationError, "unknown witness condition type")
		return nil
	}
}

func decodeConditionGroup(r *io.BinReader, depth int) ConditionGroup {
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	out := make(ConditionGroup, n)
	for i := range out {
		out[i] = decodeCondition(r, depth)
	}
	return out
}

// ConditionBoolean is a constant true/false leaf condition.
type ConditionBoolean bool

func (c *ConditionBoolean) Type() ConditionType { return ConditionBooleanT }
func (c *ConditionBoolean) depth() int          { return 0 }
func (c *ConditionBoolean) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionBooleanT))
	w.WriteBool(bool(*c))
}

// ConditionNot negates its single inner condition.
type ConditionNot struct{ Expression WitnessCondition }

func (c *ConditionNot) Type() ConditionType { return ConditionNotT }
func (c *ConditionNot) depth() int          { return 1 + c.Expression.depth() }
func (c *ConditionNot) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionNotT))
	c.Expression.EncodeBinary(w)
}

// ConditionGroup is a list of conditions combined by And/Or.
type ConditionGroup []WitnessCondition

func (g ConditionGroup) encode(w *io.BinWriter) {
	w.WriteVarUint(uint64(len(g)))
	for _, c := range g {
		c.EncodeBinary(w)
	}
}

func (g ConditionGroup) maxDepth() int {
	max := 0
	for _, c := range g {
		if d := c.depth(); d > max {
			max = d
		}
	}
	return max
}

// ConditionAnd requires every child condition to match.
type ConditionAnd struct{ Expressions ConditionGroup }

func (c *ConditionAnd) Type() ConditionType { return ConditionAndT }
func (c *ConditionAnd) depth() int          { return 1 + c.Expressions.maxDepth() }
func (c *ConditionAnd) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionAndT))
	c.Expressions.encode(w)
}

// ConditionOr requires any child condition to match.
type ConditionOr struct{ Expressions ConditionGroup }

func (c *ConditionOr) Type() ConditionType { return ConditionOrT }
func (c *ConditionOr) depth() int          { return 1 + c.Expressions.maxDepth() }
func (c *ConditionOr) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionOrT))
	c.Expressions.encode(w)
}

// ConditionScriptHash matches when the executing contract's script
// hash equals Hash.
type ConditionScriptHash struct{ Hash util.Uint160 }

func (c *ConditionScriptHash) Type() ConditionType { return ConditionScriptHashT }
func (c *ConditionScriptHash) depth() int          { return 0 }
func (c *ConditionScriptHash) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionScriptHashT))
	w.WriteBytes(c.Hash.BytesLE())
}

// ConditionGroupKey matches when the executing contract belongs to the
// group identified by Group.
type ConditionGroupKey struct{ Group *eckey.PublicKey }

func (c *ConditionGroupKey) Type() ConditionType { return ConditionGroupT }
func (c *ConditionGroupKey) depth() int          { return 0 }
func (c *ConditionGroupKey) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionGroupT))
	w.WriteVarBytes(c.Group.Bytes())
}

// ConditionCalledByEntry matches only when the current context is the
// entry (top-level) script.
type ConditionCalledByEntry struct{}

func (c *ConditionCalledByEntry) Type() ConditionType { return ConditionCalledByEntryT }
func (c *ConditionCalledByEntry) depth() int          { return 0 }
func (c *ConditionCalledByEntry) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionCalledByEntryT))
}

// ConditionCalledByContract matches when the immediate caller's script
// hash equals Hash.
type ConditionCalledByContract struct{ Hash util.Uint160 }

func (c *ConditionCalledByContract) Type() ConditionType { return ConditionCalledByContractT }
func (c *ConditionCalledByContract) depth() int          { return 0 }
func (c *ConditionCalledByContract) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionCalledByContractT))
	w.WriteBytes(c.Hash.BytesLE())
}

// ConditionCalledByGroup matches when the immediate caller belongs to
// the group identified by Group.
type ConditionCalledByGroup struct{ Group *eckey.PublicKey }

func (c *ConditionCalledByGroup) Type() ConditionType { return ConditionCalledByGroupT }
func (c *ConditionCalledByGroup) depth() int          { return 0 }
func (c *ConditionCalledByGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionCalledByGroupT))
	w.WriteVarBytes(c.Group.Bytes())
}

type jsonWitnessRule struct {
	Action    string          `json:"action"`
	Condition json.RawMessage `json:"condition"`
}

// MarshalJSON renders the rule as {"action": "Allow"|"Deny", "condition": {...}}.
func (r *WitnessRule) MarshalJSON() ([]byte, error) {
	if r.Action != WitnessAllow && r.Action != WitnessDeny {
		return nil, neoerr.New(neoerr.InvalidArgument, "witness rule action must be Allow or Deny")
	}
	action := "Deny"
	if r.Action == WitnessAllow {
		action = "Allow"
	}
	cond, err := marshalCondition(r.Condition)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonWitnessRule{Action: action, Condition: cond})
}

func marshalCondition(c WitnessCondition) ([]byte, error) {
	if c == nil {
		return nil, neoerr.New(neoerr.InvalidArgument, "witness rule missing condition")
	}
	switch v := c.(type) {
	case *ConditionBoolean:
		return json.Marshal(map[string]interface{}{"type": "Boolean", "expression": bool(*v)})
	case *ConditionCalledByEntry:
		return json.Marshal(map[string]interface{}{"type": "CalledByEntry"})
	case *ConditionScriptHash:
		return json.Marshal(map[string]interface{}{"type": "ScriptHash", "hash": "0x" + v.Hash.StringLE()})
	default:
		return json.Marshal(map[string]interface{}{"type": v.Type().String()})
	}
}

func (t ConditionType) String() string {
	switch t {
	case ConditionBooleanT:
		return "Boolean"
	case ConditionNotT:
		return "Not"
	case ConditionAndT:
		return "And"
	case ConditionOrT:
		return "Or"
	case ConditionScriptHashT:
		return "ScriptHash"
	case ConditionGroupT:
		return "Group"
	case ConditionCalledByEntryT:
		return "CalledByEntry"
	case ConditionCalledByContractT:
		return "CalledByContract"
	case ConditionCalledByGroupT:
		return "CalledByGroup"
	default:
		return "Unknown"
	}
}

// UnmarshalJSON is the inverse of MarshalJSON for the two condition
// shapes this SDK constructs itself, Boolean and CalledByEntry; a rule
// with any other condition type returns an InvalidFormat error.
func (r *WitnessRule) UnmarshalJSON(data []byte) error {
	var raw jsonWitnessRule
	if err := json.Unmarshal(data, &raw); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "decode witness rule envelope", err)
	}
	switch raw.Action {
	case "Allow":
		r.Action = WitnessAllow
	case "Deny":
		r.Action = WitnessDeny
	default:
		return neoerr.New(neoerr.InvalidFormat, "witness rule action must be Allow or Deny")
	}
	if len(raw.Condition) == 0 {
		return neoerr.New(neoerr.InvalidFormat, "witness rule missing condition")
	}
	var head struct {
		Type       string `json:"type"`
		Expression *bool  `json:"expression"`
	}
	if err := json.Unmarshal(raw.Condition, &head); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "decode witness condition", err)
	}
	switch head.Type {
	case "Boolean":
		if head.Expression == nil {
			return neoerr.New(neoerr.InvalidFormat, "boolean condition missing expression")
		}
		b := ConditionBoolean(*head.Expression)
		r.Condition = &b
	case "CalledByEntry":
		r.Condition = &ConditionCalledByEntry{}
	default:
		return neoerr.New(neoerr.InvalidFormat, "unsupported witness condition type: "+head.Type)
	}
	return nil
}
