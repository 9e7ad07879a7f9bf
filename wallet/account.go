// Package wallet implements the Account and Wallet types of spec.md
// §3: a named, ordered collection of accounts, each either a signing
// account backed by an ECKeyPair or a watch-only account holding just
// a script hash.
package wallet

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/r3e-network/neogo-sdk/address"
	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"github.com/r3e-network/neogo-sdk/nep2"
	"github.com/r3e-network/neogo-sdk/util"
)

// Account pairs a script hash with, optionally, the key pair that
// signs for it, spec.md §3. An account constructed from a WIF, a raw
// key pair, or NewAccountFromEncryptedWIF (which decrypts at once)
// carries the key in memory; one decoded from JSON, one that has been
// Encrypted, or a watch-only one does not, until Decrypt is called.
type Account struct {
	ID           string
	Label        string
	Address      string
	ScriptHash   util.Uint160
	Locked       bool
	IsDefault    bool
	EncryptedWIF string

	keyPair *eckey.PrivateKey
}

// NewAccount creates a signing account backed by a freshly generated
// secp256r1 key pair.
func NewAccount() (*Account, error) {
	priv, err := eckey.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return newAccountFromKey(priv), nil
}

// NewAccountFromWIF creates a signing account by importing a WIF
// private key.
func NewAccountFromWIF(wif string) (*Account, error) {
	decoded, err := eckey.WIFDecode(wif, 0)
	if err != nil {
		return nil, err
	}
	return newAccountFromKey(decoded.PrivateKey), nil
}

// NewAccountFromEncryptedWIF creates a signing account by decrypting a
// NEP-2 envelope with passphrase.
func NewAccountFromEncryptedWIF(encrypted, passphrase string) (*Account, error) {
	wif, err := nep2.NEP2Decrypt(encrypted, passphrase)
	if err != nil {
		return nil, err
	}
	acc, err := NewAccountFromWIF(wif)
	if err != nil {
		return nil, err
	}
	acc.EncryptedWIF = encrypted
	return acc, nil
}

// NewWatchOnlyAccount creates an account with no key material: it can
// be used as an AllowedContracts/Signer entry or balance lookup, but
// Sign will fail until a key pair is supplied out of band.
func NewWatchOnlyAccount(scriptHash util.Uint160) *Account {
	return &Account{
		ID:         uuid.NewString(),
		Address:    address.ToString(scriptHash),
		ScriptHash: scriptHash,
	}
}

func newAccountFromKey(priv *eckey.PrivateKey) *Account {
	pub := priv.PublicKey()
	return &Account{
		ID:         uuid.NewString(),
		Address:    pub.Address(),
		ScriptHash: pub.ScriptHash(),
		keyPair:    priv,
	}
}

// PrivateKey returns the account's key pair, or nil if this account
// holds no key material (watch-only, or an encrypted envelope not yet
// decrypted).
func (a *Account) PrivateKey() *eckey.PrivateKey {
	return a.keyPair
}

// Encrypt replaces the account's in-memory key pair with its NEP-2
// encrypted form under passphrase, storing the envelope in
// EncryptedWIF and discarding the plaintext key from memory.
func (a *Account) Encrypt(passphrase string) error {
	if a.keyPair == nil {
		return neoerr.New(neoerr.UnsupportedOperation, "account has no private key to encrypt")
	}
	enc, err := nep2.NEP2Encrypt(a.keyPair, passphrase)
	if err != nil {
		return err
	}
	a.EncryptedWIF = enc
	a.keyPair.Destroy()
	a.keyPair = nil
	return nil
}

// Decrypt recovers the account's key pair from EncryptedWIF using
// passphrase. Returns an error if the account carries no encrypted
// envelope or the passphrase is wrong.
func (a *Account) Decrypt(passphrase string) error {
	if a.EncryptedWIF == "" {
		return neoerr.New(neoerr.UnsupportedOperation, "account has no encrypted key")
	}
	wif, err := nep2.NEP2Decrypt(a.EncryptedWIF, passphrase)
	if err != nil {
		return err
	}
	decoded, err := eckey.WIFDecode(wif, 0)
	if err != nil {
		return err
	}
	a.keyPair = decoded.PrivateKey
	return nil
}

// Sign signs digest with the account's key pair.
func (a *Account) Sign(digest [32]byte) ([]byte, error) {
	if a.keyPair == nil {
		return nil, neoerr.New(neoerr.UnsupportedOperation, "account has no private key to sign with")
	}
	return a.keyPair.SignHash(digest), nil
}

type jsonAccount struct {
	ID        string `json:"id"`
	Label     string `json:"label,omitempty"`
	Address   string `json:"address"`
	Locked    bool   `json:"lock"`
	IsDefault bool   `json:"isdefault"`
	Key       string `json:"key,omitempty"`
}

// MarshalJSON renders the account's public fields plus its NEP-2 key
// envelope, if any. A decrypted-but-unencrypted key pair is never
// serialized: call Encrypt first.
func (a *Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonAccount{
		ID:        a.ID,
		Label:     a.Label,
		Address:   a.Address,
		Locked:    a.Locked,
		IsDefault: a.IsDefault,
		Key:       a.EncryptedWIF,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (a *Account) UnmarshalJSON(data []byte) error {
	var raw jsonAccount
	if err := json.Unmarshal(data, &raw); err != nil {
		return neoerr.Wrap(neoerr.InvalidFormat, "decode account", err)
	}
	scriptHash, err := address.FromString(raw.Address)
	if err != nil {
		return err
	}
	a.ID = raw.ID
	a.Label = raw.Label
	a.Address = raw.Address
	a.ScriptHash = scriptHash
	a.Locked = raw.Locked
	a.IsDefault = raw.IsDefault
	a.EncryptedWIF = raw.Key
	return nil
}
