package transaction

import (
	"encoding/json"

	"github.com/r3e-network/neogo-sdk/io"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/util"
)

// AttrType tags the variant an Attribute's Value carries, spec.md §3.
type AttrType byte

const (
	HighPriority    AttrType = 0x01
	OracleResponseT AttrType = 0x11
	NotValidBeforeT AttrType = 0x20
	ConflictsT      AttrType = 0x21
	NotaryAssistedT AttrType = 0x22

	// ReservedLowerBound and ReservedUpperBound bound the attribute
	// type range this SDK can carry opaquely without interpreting its
	// payload, for forward compatibility with attribute kinds defined
	// after this SDK was built.
	ReservedLowerBound AttrType = 0xe0
	ReservedUpperBound AttrType = 0xff
)

// AttrValue is the decoded payload of an Attribute.
type AttrValue interface {
	AttrType() AttrType
	EncodeBinary(w *io.BinWriter)
	DecodeBinary(r *io.BinReader)
}

// Attribute is a single transaction attribute: a type tag plus its
// decoded value, spec.md §3.
type Attribute struct {
	Type  AttrType
	Value AttrValue
}

// EncodeBinary writes Type then the type-specific Value payload.
// HighPriority carries no payload.
func (a *Attribute) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(a.Type))
	if w.Err != nil {
		return
	}
	if a.Type == HighPriority {
		return
	}
	if a.Value == nil {
		w.Err = neoerr.New(neoerr.InvalidArgument, "attribute missing value")
		return
	}
	a.Value.EncodeBinary(w)
}

// DecodeBinary reads Type then, for every type but HighPriority, its
// value payload.
func (a *Attribute) DecodeBinary(r *io.BinReader) {
	t := AttrType(r.ReadB())
	if r.Err != nil {
		return
	}
	a.Type = t
	switch {
	case t == HighPriority:
		a.Value = nil
	case t == OracleResponseT:
		v := new(OracleResponse)
		v.DecodeBinary(r)
		a.Value = v
	case t == NotValidBeforeT:
		v := new(NotValidBefore)
		v.DecodeBinary(r)
		a.Value = v
	case t == ConflictsT:
		v := new(Conflicts)
		v.DecodeBinary(r)
		a.Value = v
	case t == NotaryAssistedT:
		v := new(NotaryAssisted)
		v.DecodeBinary(r)
		a.Value = v
	case t >= ReservedLowerBound && t <= ReservedUpperBound:
		v := new(Reserved)
		v.DecodeBinary(r)
		a.Value = v
	default:
		r.Err = neoerr.New(neoerr.DeserializationError, "unknown transaction attribute type")
	}
}

// OracleResponseCode is the status an oracle node returns alongside its
// Result payload.
type OracleResponseCode byte

const (
	Success              OracleResponseCode = 0x00
	ProtocolNotSupported OracleResponseCode = 0x10
	ConsensusUnreachable OracleResponseCode = 0x12
	NotFound             OracleResponseCode = 0x14
	Timeout              OracleResponseCode = 0x16
	Forbidden            OracleResponseCode = 0x18
	ResponseTooLarge     OracleResponseCode = 0x1a
	InsufficientFunds    OracleResponseCode = 0x1c
	Error                OracleResponseCode = 0xff
)

var oracleCodeNames = map[OracleResponseCode]string{
	Success:              "Success",
	ProtocolNotSupported: "ProtocolNotSupported",
	ConsensusUnreachable: "ConsensusUnreachable",
	NotFound:             "NotFound",
	Timeout:              "Timeout",
	Forbidden:            "Forbidden",
	ResponseTooLarge:     "ResponseTooLarge",
	InsufficientFunds:    "InsufficientFunds",
	Error:                "Error",
}

func (c OracleResponseCode) String() string {
	if n, ok := oracleCodeNames[c]; ok {
		return n
	}
	return "Unknown"
}

// maxOracleResult is the largest Result payload an oracle response may
// carry.
const maxOracleResult = 0xffff

// OracleResponse is the payload of an OracleResponseT attribute: the
// answer an oracle node gives to the request it was asked, identified
// by ID.
type OracleResponse struct {
	ID     uint64
	Code   OracleResponseCode
	Result []byte
}

func (*OracleResponse) AttrType() AttrType { return OracleResponseT }

// EncodeBinary writes ID, Code, then Result. A non-Success code must
// carry an empty Result, the invariant Neo N3 oracle nodes enforce.
func (o *OracleResponse) EncodeBinary(w *io.BinWriter) {
	if _, ok := oracleCodeNames[o.Code]; !ok {
		w.Err = neoerr.New(neoerr.InvalidArgument, "unknown oracle response code")
		return
	}
	if o.Code != Success && len(o.Result) != 0 {
		w.Err = neoerr.New(neoerr.InvalidArgument, "non-success oracle response must have empty result")
		return
	}
	w.WriteU64LE(o.ID)
	w.WriteB(byte(o.Code))
	w.WriteVarBytes(o.Result)
}

func (o *OracleResponse) DecodeBinary(r *io.BinReader) {
	o.ID = r.ReadU64LE()
	o.Code = OracleResponseCode(r.ReadB())
	if r.Err != nil {
		return
	}
	if _, ok := oracleCodeNames[o.Code]; !ok {
		r.Err = neoerr.New(neoerr.DeserializationError, "unknown oracle response code")
		return
	}
	o.Result = r.ReadVarBytes(maxOracleResult)
	if r.Err != nil {
		return
	}
	if o.Code != Success && len(o.Result) != 0 {
		r.Err = neoerr.New(neoerr.DeserializationError, "non-success oracle response must have empty result")
	}
}

func (o *OracleResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID     uint64 `json:"id"`
		Code   string `json:"code"`
		Result string `json:"result"`
	}{o.ID, o.Code.String(), encodeBase64(o.Result)})
}

func (o *OracleResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     uint64 `json:"id"`
		Code   string `json:"code"`
		Result string `json:"result"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "decode oracle response", err)
	}
	for code, name := range oracleCodeNames {
		if name == raw.Code {
			o.Code = code
			o.ID = raw.ID
			result, err := decodeBase64(raw.Result)
			if err != nil {
				return err
			}
			o.Result = result
			return nil
		}
	}
	return neoerr.New(neoerr.InvalidFormat, "unknown oracle response code: "+raw.Code)
}

// NotValidBefore is the payload of a NotValidBeforeT attribute: the
// transaction is invalid until Height is reached.
type NotValidBefore struct {
	Height uint32
}

func (*NotValidBefore) AttrType() AttrType { return NotValidBeforeT }

func (n *NotValidBefore) EncodeBinary(w *io.BinWriter) { w.WriteU32LE(n.Height) }
func (n *NotValidBefore) DecodeBinary(r *io.BinReader)  { n.Height = r.ReadU32LE() }

func (n *NotValidBefore) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Height uint32 `json:"height"`
	}{n.Height})
}

func (n *NotValidBefore) UnmarshalJSON(data []byte) error {
	var raw struct {
		Height uint32 `json:"height"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "decode not-valid-before", err)
	}
	n.Height = raw.Height
	return nil
}

// Conflicts is the payload of a ConflictsT attribute: Hash names a
// transaction this one supersedes.
type Conflicts struct {
	Hash util.Uint256
}

func (*Conflicts) AttrType() AttrType { return ConflictsT }

func (c *Conflicts) EncodeBinary(w *io.BinWriter) { w.WriteBytes(c.Hash.BytesLE()) }

func (c *Conflicts) DecodeBinary(r *io.BinReader) {
	var buf [util.Uint256Size]byte
	r.ReadBytes(buf[:])
	if r.Err != nil {
		return
	}
	h, err := util.Uint256DecodeBytesLE(buf[:])
	if err != nil {
		r.Err = err
		return
	}
	c.Hash = h
}

func (c *Conflicts) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Hash string `json:"hash"`
	}{"0x" + c.Hash.StringLE()})
}

func (c *Conflicts) UnmarshalJSON(data []byte) error {
	var raw struct {
		Hash string `json:"hash"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "decode conflicts attribute", err)
	}
	h, err := util.Uint256DecodeStringLE(trimHexPrefix(raw.Hash))
	if err != nil {
		return err
	}
	c.Hash = h
	return nil
}

// NotaryAssisted is the payload of a NotaryAssistedT attribute: NKeys
// counts the extra signer keys the notary contract must verify.
type NotaryAssisted struct {
	NKeys byte
}

func (*NotaryAssisted) AttrType() AttrType { return NotaryAssistedT }

func (n *NotaryAssisted) EncodeBinary(w *io.BinWriter) { w.WriteB(n.NKeys) }
func (n *NotaryAssisted) DecodeBinary(r *io.BinReader)  { n.NKeys = r.ReadB() }

func (n *NotaryAssisted) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		NKeys byte `json:"nkeys"`
	}{n.NKeys})
}

func (n *NotaryAssisted) UnmarshalJSON(data []byte) error {
	var raw struct {
		NKeys byte `json:"nkeys"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "decode notary-assisted attribute", err)
	}
	n.NKeys = raw.NKeys
	return nil
}

// maxReservedValue bounds an opaque Reserved attribute payload.
const maxReservedValue = 0xffff

// Reserved carries an attribute type in the reserved range opaquely:
// this SDK neither interprets nor rejects it.
type Reserved struct {
	Value []byte
}

func (*Reserved) AttrType() AttrType { return 0 }

func (r *Reserved) EncodeBinary(w *io.BinWriter) { w.WriteVarBytes(r.Value) }
func (r *Reserved) DecodeBinary(br *io.BinReader) { r.Value = br.ReadVarBytes(maxReservedValue) }

func (r *Reserved) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value string `json:"value"`
	}{encodeBase64(r.Value)})
}

func (r *Reserved) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "decode reserved attribute", err)
	}
	v, err := decodeBase64(raw.Value)
	if err != nil {
		return err
	}
	r.Value = v
	return nil
}

type jsonAttribute struct {
	Type string          `json:"type"`
	Rest json.RawMessage `json:"-"`
}

// MarshalJSON flattens {"type": "...", <value fields>...} the way
// Neo N3's RPC attribute JSON does.
func (a *Attribute) MarshalJSON() ([]byte, error) {
	typeName, err := attrTypeName(a.Type)
	if err != nil {
		return nil, err
	}
	if a.Type == HighPriority {
		return json.Marshal(map[string]string{"type": typeName})
	}
	if a.Value == nil {
		return nil, neoerr.New(neoerr.InvalidArgument, "attribute missing value")
	}
	valueJSON, err := json.Marshal(a.Value)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(valueJSON, &fields); err != nil {
		return nil, neoerr.Wrap(neoerr.InvalidFormat, "flatten attribute value", err)
	}
	fields["type"] = json.RawMessage(`"` + typeName + `"`)
	return json.Marshal(fields)
}

// UnmarshalJSON is the inverse of MarshalJSON, except that every
// reserved-range type decodes as ReservedLowerBound: the JSON form
// carries only the name "Reserved", not the type byte.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "decode attribute envelope", err)
	}
	t, err := attrTypeFromName(head.Type)
	if err != nil {
		return err
	}
	a.Type = t
	if t == HighPriority {
		a.Value = nil
		return nil
	}
	var v AttrValue
	switch {
	case t == OracleResponseT:
		v = new(OracleResponse)
	case t == NotValidBeforeT:
		v = new(NotValidBefore)
	case t == ConflictsT:
		v = new(Conflicts)
	case t == NotaryAssistedT:
		v = new(NotaryAssisted)
	case t >= ReservedLowerBound && t <= ReservedUpperBound:
		v = new(Reserved)
	default:
		return neoerr.New(neoerr.InvalidFormat, "unknown transaction attribute type")
	}
	if u, ok := v.(json.Unmarshaler); ok {
		if err := u.UnmarshalJSON(data); err != nil {
			return err
		}
	}
	a.Value = v
	return nil
}

func attrTypeName(t AttrType) (string, error) {
	switch {
	case t == HighPriority:
		return "HighPriority", nil
	case t == OracleResponseT:
		return "OracleResponse", nil
	case t == NotValidBeforeT:
		return "NotValidBefore", nil
	case t == ConflictsT:
		return "Conflicts", nil
	case t == NotaryAssistedT:
		return "NotaryAssisted", nil
	case t >= ReservedLowerBound && t <= ReservedUpperBound:
		return "Reserved", nil
	default:
		return "", neoerr.New(neoerr.InvalidArgument, "unknown transaction attribute type")
	}
}

func attrTypeFromName(name string) (AttrType, error) {
	switch name {
	case "HighPriority":
		return HighPriority, nil
	case "OracleResponse":
		return OracleResponseT, nil
	case "NotValidBefore":
		return NotValidBeforeT, nil
	case "Conflicts":
		return ConflictsT, nil
	case "NotaryAssisted":
		return NotaryAssistedT, nil
	case "Reserved":
		return ReservedLowerBound, nil
	default:
		return 0, neoerr.New(neoerr.InvalidFormat, "unknown transaction attribute type: "+name)
	}
}
