// Package callflag defines the bit flags a contract invocation grants
// the callee, the CallFlags operand of spec.md §4.7's contract-call
// script shape.
package callflag

import (
	"strings"

	"github.com/r3e-network/neogo-sdk/neoerr"
)

// CallFlag is a bit set of permissions granted to an invoked contract.
type CallFlag byte

const (
	NoneFlag CallFlag = 0

	ReadStates  CallFlag = 1 << 0
	WriteStates CallFlag = 1 << 1
	AllowCall   CallFlag = 1 << 2
	AllowNotify CallFlag = 1 << 3

	States   = ReadStates | WriteStates
	ReadOnly = ReadStates | AllowCall

	// All grants every flag; spec.md §4.7 names this 0x0F as the
	// typical CallFlags value for a single-signer invocation.
	All = States | AllowCall | AllowNotify
)

// namedFlags is checked in this order by both String and FromString so
// a composite like States or ReadOnly is preferred over spelling out
// its component bits individually.
var namedFlags = []struct {
	flag CallFlag
	name string
}{
	{ReadOnly, "ReadOnly"},
	{States, "States"},
	{ReadStates, "ReadStates"},
	{WriteStates, "WriteStates"},
	{AllowCall, "AllowCall"},
	{AllowNotify, "AllowNotify"},
}

// Has reports whether f contains every bit set in v.
func (f CallFlag) Has(v CallFlag) bool {
	return f&v == v
}

// String renders f as a comma-separated list of its component flags,
// preferring composite names (States, ReadOnly) over their constituent
// bits, "None" for the zero value, and "All" for the full set.
func (f CallFlag) String() string {
	switch f {
	case NoneFlag:
		return "None"
	case All:
		return "All"
	}
	remaining := f
	var parts []string
	for _, n := range namedFlags {
		if remaining.Has(n.flag) {
			parts = append(parts, n.name)
			remaining &^= n.flag
		}
	}
	return strings.Join(parts, ", ")
}

// FromString parses the String() representation back into a CallFlag.
func FromString(s string) (CallFlag, error) {
	if s == "None" {
		return NoneFlag, nil
	}
	if s == "All" {
		return All, nil
	}
	var out CallFlag
	for _, part := range strings.Split(s, ",") {
		trimmed := strings.TrimPrefix(part, " ")
		if trimmed == "" || trimmed != strings.TrimSpace(trimmed) {
			return NoneFlag, neoerr.New(neoerr.InvalidArgument, "malformed call flag list")
		}
		found := false
		for _, n := range namedFlags {
			if n.name == trimmed {
				out |= n.flag
				found = true
				break
			}
		}
		if !found {
			return NoneFlag, neoerr.New(neoerr.InvalidArgument, "unknown call flag: "+trimmed)
		}
	}
	return out, nil
}
