// Package nep9 parses and renders NEP-9 URIs, the
// "neo:<address>[?asset=...][&amount=...]" scheme NEP-17 wallets use to
// request a token transfer, spec.md §6.
package nep9

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/r3e-network/neogo-sdk/address"
	"github.com/r3e-network/neogo-sdk/neoerr"
)

// Scheme is the URI scheme prefix every NEP-9 URI must start with.
const Scheme = "neo:"

// MinURILength is the shortest a well-formed NEP-9 URI can be,
// spec.md §6.
const MinURILength = 38

// Request is a parsed NEP-9 transfer request.
type Request struct {
	Address string
	Asset   string
	Amount  string
}

// Parse decodes uri into a Request, enforcing the "neo:" scheme prefix
// and minimum-length rule, and recognizing the "asset" and "amount"
// query keys; unrecognized query keys are ignored, spec.md §6.
func Parse(uri string) (*Request, error) {
	if len(uri) < MinURILength {
		return nil, neoerr.New(neoerr.InvalidFormat, "nep9 uri is shorter than the minimum valid length")
	}
	if !strings.HasPrefix(uri, Scheme) {
		return nil, neoerr.New(neoerr.InvalidFormat, "nep9 uri must start with \"neo:\"")
	}
	rest := uri[len(Scheme):]

	addr := rest
	var rawQuery string
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		addr = rest[:i]
		rawQuery = rest[i+1:]
	}
	if addr == "" {
		return nil, neoerr.New(neoerr.InvalidFormat, "nep9 uri is missing an address")
	}
	if _, err := address.FromString(addr); err != nil {
		return nil, neoerr.Wrap(neoerr.InvalidFormat, "nep9 uri has an invalid address", err)
	}

	req := &Request{Address: addr}
	if rawQuery != "" {
		values, err := url.ParseQuery(rawQuery)
		if err != nil {
			return nil, neoerr.Wrap(neoerr.InvalidFormat, "nep9 uri has a malformed query", err)
		}
		req.Asset = values.Get("asset")
		req.Amount = values.Get("amount")
		if req.Amount != "" {
			if _, err := strconv.ParseFloat(req.Amount, 64); err != nil {
				return nil, neoerr.New(neoerr.InvalidFormat, "nep9 uri amount is not a decimal number")
			}
		}
	}
	return req, nil
}

// String renders r back into its NEP-9 URI form.
func (r *Request) String() string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString(r.Address)
	var query []string
	if r.Asset != "" {
		query = append(query, fmt.Sprintf("asset=%s", url.QueryEscape(r.Asset)))
	}
	if r.Amount != "" {
		query = append(query, fmt.Sprintf("amount=%s", url.QueryEscape(r.Amount)))
	}
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(strings.Join(query, "&"))
	}
	return b.String()
}
