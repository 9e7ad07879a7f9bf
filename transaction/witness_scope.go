package transaction

import (
	"strings"

	"github.com/r3e-network/neogo-sdk/neoerr"
)

// WitnessScope bounds which contracts a signer's witness is considered
// valid for, per spec.md §3.
type WitnessScope byte

const (
	None            WitnessScope = 0
	CalledByEntry   WitnessScope = 0x01
	CustomContracts WitnessScope = 0x10
	CustomGroups    WitnessScope = 0x20
	Rules           WitnessScope = 0x40
	Global          WitnessScope = 0x80
)

var scopeNames = []struct {
	scope WitnessScope
	name  string
}{
	{Global, "Global"},
	{CalledByEntry, "CalledByEntry"},
	{CustomContracts, "CustomContracts"},
	{CustomGroups, "CustomGroups"},
	{Rules, "WitnessRules"},
	{None, "None"},
}

// Has reports whether s contains every bit set in v.
func (s WitnessScope) Has(v WitnessScope) bool {
	return s&v == v
}

// ScopesFromByte validates a raw scope byte against the known bit
// values and the Global-must-not-combine invariant of spec.md §3.
func ScopesFromByte(b byte) (WitnessScope, error) {
	s := WitnessScope(b)
	const known = CalledByEntry | CustomContracts | CustomGroups | Rules | Global
	if b != 0 && s&^known != 0 {
		return 0, neoerr.New(neoerr.InvalidArgument, "unknown witness scope bit set")
	}
	if s.Has(Global) && s != Global {
		return 0, neoerr.New(neoerr.InvalidArgument, "Global scope cannot be combined with any other scope")
	}
	return s, nil
}

// String renders s as a comma-separated list of its component scope
// names, "None" for the zero value.
func (s WitnessScope) String() string {
	if s == None {
		return "None"
	}
	var parts []string
	for _, n := range scopeNames {
		if n.scope != None && s.Has(n.scope) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ", ")
}

// ScopesFromString parses the comma-separated scope-name syntax used by
// CLI tooling and JSON, deduplicating repeated names and rejecting
// Global combined with any other scope.
func ScopesFromString(s string) (WitnessScope, error) {
	if strings.TrimSpace(s) == "" {
		return 0, neoerr.New(neoerr.InvalidArgument, "empty witness scope string")
	}
	var out WitnessScope
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		found := false
		for _, n := range scopeNames {
			if n.name == name {
				out |= n.scope
				found = true
				break
			}
		}
		if !found {
			return 0, neoerr.New(neoerr.InvalidArgument, "unknown witness scope: "+name)
		}
	}
	if out.Has(Global) && out != Global {
		return 0, neoerr.New(neoerr.InvalidArgument, "Global scope cannot be combined with any other scope")
	}
	return out, nil
}
