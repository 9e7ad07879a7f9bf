package wallet

import (
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/util"
)

// Wallet is a named, ordered collection of accounts with at most one
// default, spec.md §3. Persistence to disk is out of scope.
type Wallet struct {
	Name     string
	accounts []*Account
}

// NewWallet creates an empty wallet named name.
func NewWallet(name string) *Wallet {
	return &Wallet{Name: name}
}

// Accounts returns the wallet's accounts in insertion order.
func (w *Wallet) Accounts() []*Account {
	return w.accounts
}

// AddAccount appends acc to the wallet. If acc is marked IsDefault,
// any existing default account is demoted first, preserving the
// at-most-one-default invariant.
func (w *Wallet) AddAccount(acc *Account) {
	if acc.IsDefault {
		w.clearDefault()
	}
	w.accounts = append(w.accounts, acc)
}

// RemoveAccount removes the account matching scriptHash. Returns an
// error if no such account exists.
func (w *Wallet) RemoveAccount(scriptHash util.Uint160) error {
	for i, acc := range w.accounts {
		if acc.ScriptHash.Equals(scriptHash) {
			w.accounts = append(w.accounts[:i], w.accounts[i+1:]...)
			return nil
		}
	}
	return neoerr.New(neoerr.InvalidArgument, "no account with that script hash")
}

// GetAccount returns the account matching scriptHash, or nil.
func (w *Wallet) GetAccount(scriptHash util.Uint160) *Account {
	for _, acc := range w.accounts {
		if acc.ScriptHash.Equals(scriptHash) {
			return acc
		}
	}
	return nil
}

// DefaultAccount returns the wallet's default account, or nil if none
// is marked default.
func (w *Wallet) DefaultAccount() *Account {
	for _, acc := range w.accounts {
		if acc.IsDefault {
			return acc
		}
	}
	return nil
}

// SetDefault marks the account matching scriptHash as the wallet's
// sole default, demoting any previous default.
func (w *Wallet) SetDefault(scriptHash util.Uint160) error {
	acc := w.GetAccount(scriptHash)
	if acc == nil {
		return neoerr.New(neoerr.InvalidArgument, "no account with that script hash")
	}
	w.clearDefault()
	acc.IsDefault = true
	return nil
}

func (w *Wallet) clearDefault() {
	for _, acc := range w.accounts {
		acc.IsDefault = false
	}
}
