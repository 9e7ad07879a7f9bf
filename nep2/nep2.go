// Package nep2 implements the NEP-2 password-based private key
// encryption standard (spec.md §4.5): a scrypt-derived key splits into
// an XOR mask and an AES-256-ECB key, producing a base58check-encoded
// envelope that embeds an address-hash checksum so a wrong passphrase
// is detectable without ever decrypting into a usable key.
package nep2

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/r3e-network/neogo-sdk/codec/base58"
	"github.com/r3e-network/neogo-sdk/eckey"
	"github.com/r3e-network/neogo-sdk/hash"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters fixed by the NEP-2 standard.
const (
	scryptN = 16384
	scryptR = 8
	scryptP = 8

	prefix1 = 0x01
	prefix2 = 0x42
	flagByte = 0xe0

	payloadLen = 39 // 2 prefix bytes + flag + 4-byte address hash + 32-byte encrypted key
)

// NEP2Encrypt encrypts priv under passphrase, returning the NEP-2
// base58check string.
func NEP2Encrypt(priv *eckey.PrivateKey, passphrase string) (string, error) {
	addressHash := addressChecksum(priv.Address())

	derived, err := scrypt.Key([]byte(passphrase), addressHash, scryptN, scryptR, scryptP, 64)
	if err != nil {
		return "", neoerr.Wrap(neoerr.Crypto, "scrypt derivation failed", err)
	}
	derivedHalf1, derivedHalf2 := derived[:32], derived[32:]

	block, err := aes.NewCipher(derivedHalf2)
	if err != nil {
		return "", neoerr.Wrap(neoerr.Crypto, "AES cipher init failed", err)
	}

	xored := xorBytes(priv.Bytes(), derivedHalf1)
	encrypted := make([]byte, 32)
	ecbEncrypt(block, encrypted, xored)

	payload := make([]byte, 0, payloadLen)
	payload = append(payload, prefix1, prefix2, flagByte)
	payload = append(payload, addressHash...)
	payload = append(payload, encrypted...)

	return base58.CheckEncode(payload), nil
}

// NEP2Decrypt recovers the WIF-encoded private key from an encrypted
// NEP-2 string, verifying the embedded address checksum matches the
// recovered key before returning. A wrong passphrase or corrupted
// input surfaces as neoerr.AuthenticationFailure.
func NEP2Decrypt(encrypted, passphrase string) (string, error) {
	payload, err := base58.CheckDecode(encrypted)
	if err != nil {
		return "", neoerr.New(neoerr.AuthenticationFailure, "wrong passphrase or malformed NEP-2 string")
	}
	if len(payload) != payloadLen || payload[0] != prefix1 || payload[1] != prefix2 || payload[2] != flagByte {
		return "", neoerr.New(neoerr.AuthenticationFailure, "wrong passphrase or malformed NEP-2 string")
	}
	addressHash := payload[3:7]
	encryptedKey := payload[7:]

	derived, err := scrypt.Key([]byte(passphrase), addressHash, scryptN, scryptR, scryptP, 64)
	if err != nil {
		return "", neoerr.Wrap(neoerr.Crypto, "scrypt derivation failed", err)
	}
	derivedHalf1, derivedHalf2 := derived[:32], derived[32:]

	block, err := aes.NewCipher(derivedHalf2)
	if err != nil {
		return "", neoerr.Wrap(neoerr.Crypto, "AES cipher init failed", err)
	}

	decrypted := make([]byte, 32)
	ecbDecrypt(block, decrypted, encryptedKey)
	scalar := xorBytes(decrypted, derivedHalf1)

	priv, err := eckey.NewPrivateKeyFromBytes(scalar)
	if err != nil {
		return "", neoerr.New(neoerr.AuthenticationFailure, "wrong passphrase or malformed NEP-2 string")
	}

	if !hash.ConstantTimeEq(addressChecksum(priv.Address()), addressHash) {
		return "", neoerr.New(neoerr.AuthenticationFailure, "wrong passphrase or malformed NEP-2 string")
	}

	wif, err := eckey.WIFEncode(priv.Bytes(), 0, true)
	if err != nil {
		return "", err
	}
	return wif, nil
}

// addressChecksum returns the 4-byte Checksum of the ASCII address
// string, the value NEP-2 embeds to detect a wrong passphrase.
func addressChecksum(address string) []byte {
	return hash.Checksum([]byte(address))
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// ecbEncrypt/ecbDecrypt implement AES-ECB mode, which NEP-2 requires
// and which stdlib's crypto/cipher intentionally omits a named mode
// for; both operate block-by-block directly on the cipher.Block.
func ecbEncrypt(block cipher.Block, dst, src []byte) {
	bs := block.BlockSize()
	for len(src) > 0 {
		block.Encrypt(dst[:bs], src[:bs])
		src = src[bs:]
		dst = dst[bs:]
	}
}

func ecbDecrypt(block cipher.Block, dst, src []byte) {
	bs := block.BlockSize()
	for len(src) > 0 {
		block.Decrypt(dst[:bs], src[:bs])
		src = src[bs:]
		dst = dst[bs:]
	}
}
