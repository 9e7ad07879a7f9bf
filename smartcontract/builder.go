package smartcontract

import (
	"math/big"

	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/smartcontract/callflag"
	"github.com/r3e-network/neogo-sdk/util"
	"github.com/r3e-network/neogo-sdk/vm"
)

// Builder accumulates one or more contract invocations into a single
// script, the shape a TransactionBuilder's Script field consumes.
type Builder struct {
	vb  *vm.Builder
	err error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{vb: vm.NewBuilder()}
}

// Len returns the number of script bytes emitted so far.
func (b *Builder) Len() int { return b.vb.Len() }

// Reset discards all emitted bytes and any sticky error.
func (b *Builder) Reset() {
	b.vb.Reset()
	b.err = nil
}

// Script returns the accumulated invocation script.
func (b *Builder) Script() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.vb.Script()
}

// InvokeMethod appends a System.Contract.Call invocation of method on
// the contract identified by scriptHash, with params pushed in reverse
// order and CallFlags = All, per spec.md §4.7.
func (b *Builder) InvokeMethod(scriptHash util.Uint160, method string, params ...interface{}) *Builder {
	return b.InvokeMethodWithFlags(scriptHash, method, callflag.All, params...)
}

// InvokeMethodWithFlags is InvokeMethod with an explicit CallFlags value.
func (b *Builder) InvokeMethodWithFlags(scriptHash util.Uint160, method string, flags callflag.CallFlag, params ...interface{}) *Builder {
	if b.err != nil {
		return b
	}
	b.vb.EmitContractCall(scriptHash, method, uint32(flags), len(params), func(i int) {
		if b.err != nil {
			return
		}
		if err := pushValue(b.vb, params[i]); err != nil {
			b.err = err
		}
	})
	return b
}

// pushValue emits the script-builder push for a native Go value or an
// explicit Parameter, the automatic conversion table spec.md §4.9
// describes as feeding the script builder.
func pushValue(vb *vm.Builder, v interface{}) error {
	switch t := v.(type) {
	case nil:
		vb.EmitNull()
	case Parameter:
		return pushParameter(vb, t)
	case bool:
		vb.EmitBool(t)
	case int:
		vb.EmitInt(int64(t))
	case int64:
		vb.EmitInt(t)
	case uint64:
		vb.EmitBigInt(new(big.Int).SetUint64(t))
	case *big.Int:
		vb.EmitBigInt(t)
	case []byte:
		vb.EmitBytes(t)
	case string:
		vb.EmitString(t)
	case util.Uint160:
		vb.EmitBytes(t.BytesLE())
	case util.Uint256:
		vb.EmitBytes(t.BytesLE())
	case *eckey.PublicKey:
		vb.EmitBytes(t.Bytes())
	case []interface{}:
		vb.EmitArray(len(t), func(i int) {
			_ = pushValue(vb, t[i])
		})
	default:
		return neoerr.New(neoerr.InvalidArgument, "unsupported contract call parameter type")
	}
	return nil
}

func pushParameter(vb *vm.Builder, p Parameter) error {
	switch p.Type {
	case BoolType:
		v, _ := p.Value.(bool)
		vb.EmitBool(v)
	case IntegerType:
		n, ok := p.Value.(*big.Int)
		if !ok {
			return neoerr.New(neoerr.InvalidArgument, "integer parameter missing *big.Int value")
		}
		vb.EmitBigInt(n)
	case ByteArrayType, SignatureType, PublicKeyType:
		b, _ := p.Value.([]byte)
		vb.EmitBytes(b)
	case StringType:
		s, _ := p.Value.(string)
		vb.EmitString(s)
	case Hash160Type:
		h, _ := p.Value.(util.Uint160)
		vb.EmitBytes(h.BytesLE())
	case Hash256Type:
		h, _ := p.Value.(util.Uint256)
		vb.EmitBytes(h.BytesLE())
	case ArrayType:
		items, _ := p.Value.([]Parameter)
		vb.EmitArray(len(items), func(i int) {
			_ = pushParameter(vb, items[i])
		})
	case MapType:
		pairs, _ := p.Value.([]ParameterPair)
		vb.EmitMap(len(pairs), func(i int) {
			_ = pushParameter(vb, pairs[i].Key)
			_ = pushParameter(vb, pairs[i].Value)
		})
	case VoidType, AnyType, InteropInterfaceType:
		vb.EmitNull()
	default:
		return neoerr.New(neoerr.InvalidArgument, "unsupported parameter type for script push")
	}
	return nil
}
