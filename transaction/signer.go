package transaction

import (
	"encoding/json"

	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/r3e-network/neogo-sdk/io"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/util"
)

// Per spec.md §3, a signer's AllowedContracts/AllowedGroups/Rules lists
// are each capped at this many entries.
const MaxSignerSubitems = 16

// Signer names an account whose witness must authorize the
// transaction, and the scope that witness is valid for, spec.md §3.
type Signer struct {
	Account          util.Uint160
	Scopes           WitnessScope
	AllowedContracts []util.Uint160
	AllowedGroups    []*eckey.PublicKey
	Rules            []WitnessRule
}

// EncodeBinary writes Account, Scopes, then whichever of
// AllowedContracts/AllowedGroups/Rules the scope bits call for.
func (s *Signer) EncodeBinary(w *io.BinWriter) {
	if _, err := ScopesFromByte(byte(s.Scopes)); err != nil {
		w.Err = err
		return
	}
	w.WriteBytes(s.Account.BytesLE())
	w.WriteB(byte(s.Scopes))
	if s.Scopes.Has(CustomContracts) {
		if len(s.AllowedContracts) > MaxSignerSubitems {
			w.Err = neoerr.New(neoerr.InvalidArgument, "too many allowed contracts")
			return
		}
		w.WriteVarUint(uint64(len(s.AllowedContracts)))
		for _, h := range s.AllowedContracts {
			w.WriteBytes(h.BytesLE())
		}
	}
	if s.Scopes.Has(CustomGroups) {
		if len(s.AllowedGroups) > MaxSignerSubitems {
			w.Err = neoerr.New(neoerr.InvalidArgument, "too many allowed groups")
			return
		}
		w.WriteVarUint(uint64(len(s.AllowedGroups)))
		for _, g := range s.AllowedGroups {
			w.WriteVarBytes(g.Bytes())
		}
	}
	if s.Scopes.Has(Rules) {
		if len(s.Rules) > MaxSignerSubitems {
			w.Err = neoerr.New(neoerr.InvalidArgument, "too many witness rules")
			return
		}
		w.WriteVarUint(uint64(len(s.Rules)))
		for i := range s.Rules {
			s.Rules[i].EncodeBinary(w)
		}
	}
}

// DecodeBinary is the inverse of EncodeBinary.
func (s *Signer) DecodeBinary(r *io.BinReader) {
	var buf [util.Uint160Size]byte
	r.ReadBytes(buf[:])
	if r.Err != nil {
		return
	}
	account, err := util.Uint160DecodeBytesLE(buf[:])
	if err != nil {
		r.Err = err
		return
	}
	s.Account = account

	scopes, err := ScopesFromByte(r.ReadB())
	if r.Err != nil {
		return
	}
	if err != nil {
		r.Err = err
		return
	}
	s.Scopes = scopes

	if scopes.Has(CustomContracts) {
		n := r.ReadVarUint()
		if r.Err != nil {
			return
		}
		if n > MaxSignerSubitems {
			r.Err = neoerr.New(neoerr.DeserializationError, "too many allowed contracts")
			return
		}
		s.AllowedContracts = make([]util.Uint160, n)
		for i := range s.AllowedContracts {
			var b [util.Uint160Size]byte
			r.ReadBytes(b[:])
			if r.Err != nil {
				return
			}
			h, err := util.Uint160DecodeBytesLE(b[:])
			if err != nil {
				r.Err = err
				return
			}
			s.AllowedContracts[i] = h
		}
	}
	if scopes.Has(CustomGroups) {
		n := r.ReadVarUint()
		if r.Err != nil {
			return
		}
		if n > MaxSignerSubitems {
			r.Err = neoerr.New(neoerr.DeserializationError, "too many allowed groups")
			return
		}
		s.AllowedGroups = make([]*eckey.PublicKey, n)
		for i := range s.AllowedGroups {
			b := r.ReadVarBytes(eckey.PublicKeySize)
			if r.Err != nil {
				return
			}
			pub, err := eckey.NewPublicKeyFromBytes(b)
			if err != nil {
				r.Err = err
				return
			}
			s.AllowedGroups[i] = pub
		}
	}
	if scopes.Has(Rules) {
		n := r.ReadVarUint()
		if r.Err != nil {
			return
		}
		if n > MaxSignerSubitems {
			r.Err = neoerr.New(neoerr.DeserializationError, "too many witness rules")
			return
		}
		s.Rules = make([]WitnessRule, n)
		for i := range s.Rules {
			s.Rules[i].DecodeBinary(r)
			if r.Err != nil {
				return
			}
		}
	}
}

type jsonSigner struct {
	Account          string   `json:"account"`
	Scopes           string   `json:"scopes"`
	AllowedContracts []string `json:"allowedcontracts,omitempty"`
	AllowedGroups    []string `json:"allowedgroups,omitempty"`
	Rules            []*WitnessRule `json:"rules,omitempty"`
}

// MarshalJSON matches the shape Neo N3's RPC server renders a signer in.
func (s *Signer) MarshalJSON() ([]byte, error) {
	out := jsonSigner{
		Account: "0x" + s.Account.StringLE(),
		Scopes:  s.Scopes.String(),
	}
	for _, h := range s.AllowedContracts {
		out.AllowedContracts = append(out.AllowedContracts, "0x"+h.StringLE())
	}
	for _, g := range s.AllowedGroups {
		out.AllowedGroups = append(out.AllowedGroups, g.String())
	}
	for i := range s.Rules {
		out.Rules = append(out.Rules, &s.Rules[i])
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Signer) UnmarshalJSON(data []byte) error {
	var raw jsonSigner
	if err := json.Unmarshal(data, &raw); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "decode signer", err)
	}
	account, err := util.Uint160DecodeStringLE(trimHexPrefix(raw.Account))
	if err != nil {
		return err
	}
	s.Account = account
	scopes, err := ScopesFromString(raw.Scopes)
	if err != nil {
		return err
	}
	s.Scopes = scopes
	s.AllowedContracts = nil
	for _, h := range raw.AllowedContracts {
		u, err := util.Uint160DecodeStringLE(trimHexPrefix(h))
		if err != nil {
			return err
		}
		s.AllowedContracts = append(s.AllowedContracts, u)
	}
	s.AllowedGroups = nil
	for _, g := range raw.AllowedGroups {
		pub, err := eckey.NewPublicKeyFromString(trimHexPrefix(g))
		if err != nil {
			return err
		}
		s.AllowedGroups = append(s.AllowedGroups, pub)
	}
	s.Rules = nil
	for _, r := range raw.Rules {
		s.Rules = append(s.Rules, *r)
	}
	return nil
}
