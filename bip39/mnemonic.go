package bip39

import (
	"crypto/sha256"
	"crypto/sha512"
	"strings"

	cosmosbip39 "github.com/cosmos/go-bip39"
	"github.com/r3e-network/neogo-sdk/neoerr"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

// Valid entropy lengths in bits, spec.md §4.4.
var validEntropyBits = map[int]bool{128: true, 160: true, 192: true, 224: true, 256: true}

func wordIndex(w string) (int, bool) {
	lo, hi := 0, len(englishWordList)
	for lo < hi {
		mid := (lo + hi) / 2
		if englishWordList[mid] < w {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(englishWordList) && englishWordList[lo] == w {
		return lo, true
	}
	return 0, false
}

// NewEntropy draws bitSize bits (one of 128/160/192/224/256) from a
// cryptographically secure source, the input EntropyToMnemonic turns
// into a mnemonic.
func NewEntropy(bitSize int) ([]byte, error) {
	if !validEntropyBits[bitSize] {
		return nil, neoerr.New(neoerr.InvalidArgument, "entropy size must be one of 128, 160, 192, 224, 256 bits")
	}
	b, err := cosmosbip39.NewEntropy(bitSize)
	if err != nil {
		return nil, neoerr.Wrap(neoerr.Crypto, "draw entropy", err)
	}
	return b, nil
}

// EntropyToMnemonic encodes entropy (16/20/24/28/32 bytes) into its
// English mnemonic, appending the checksum bits spec.md §4.4 defines.
func EntropyToMnemonic(entropy []byte) (string, error) {
	bitSize := len(entropy) * 8
	if !validEntropyBits[bitSize] {
		return "", neoerr.New(neoerr.InvalidArgument, "entropy length must be one of 16, 20, 24, 28, 32 bytes")
	}
	checksumBits := bitSize / 32
	sum := sha256.Sum256(entropy)

	bits := make([]bool, bitSize+checksumBits)
	for i, b := range entropy {
		for j := 0; j < 8; j++ {
			bits[i*8+j] = b&(1<<(7-j)) != 0
		}
	}
	for i := 0; i < checksumBits; i++ {
		bits[bitSize+i] = sum[0]&(1<<(7-i)) != 0
	}

	wordCount := len(bits) / 11
	words := make([]string, wordCount)
	for i := 0; i < wordCount; i++ {
		idx := 0
		for j := 0; j < 11; j++ {
			idx <<= 1
			if bits[i*11+j] {
				idx |= 1
			}
		}
		words[i] = englishWordList[idx]
	}
	return strings.Join(words, " "), nil
}

// GenerateMnemonic draws bitSize bits of entropy and encodes it as a
// mnemonic in one step.
func GenerateMnemonic(bitSize int) (string, error) {
	entropy, err := NewEntropy(bitSize)
	if err != nil {
		return "", err
	}
	return EntropyToMnemonic(entropy)
}

// MnemonicToEntropy decodes mnemonic back to its original entropy
// bytes, verifying the embedded checksum.
func MnemonicToEntropy(mnemonic string) ([]byte, error) {
	words := strings.Fields(mnemonic)
	n := len(words)
	if n == 0 || n%3 != 0 || n < 12 || n > 24 {
		return nil, neoerr.New(neoerr.InvalidFormat, "mnemonic must have 12, 15, 18, 21, or 24 words")
	}
	totalBits := n * 11
	checksumBits := totalBits / 33
	entropyBits := totalBits - checksumBits

	bits := make([]bool, totalBits)
	for i, w := range words {
		idx, ok := wordIndex(w)
		if !ok {
			return nil, neoerr.New(neoerr.InvalidFormat, "unknown mnemonic word: "+w)
		}
		for j := 0; j < 11; j++ {
			bits[i*11+j] = idx&(1<<(10-j)) != 0
		}
	}

	entropy := make([]byte, entropyBits/8)
	for i := range entropy {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if bits[i*8+j] {
				b |= 1
			}
		}
		entropy[i] = b
	}

	sum := sha256.Sum256(entropy)
	for i := 0; i < checksumBits; i++ {
		want := sum[0]&(1<<(7-i)) != 0
		if bits[entropyBits+i] != want {
			return nil, neoerr.New(neoerr.InvalidFormat, "mnemonic checksum mismatch")
		}
	}
	return entropy, nil
}

// ValidateMnemonic reports whether mnemonic decodes to valid entropy
// with a matching checksum.
func ValidateMnemonic(mnemonic string) bool {
	_, err := MnemonicToEntropy(mnemonic)
	return err == nil
}

// NewSeed derives the 64-byte BIP-32 master seed from mnemonic and an
// optional passphrase via PBKDF2-HMAC-SHA512, 2048 iterations, with
// NFKD normalization applied to both inputs, spec.md §4.4. It does not
// validate the mnemonic's checksum; callers that need that guarantee
// should call ValidateMnemonic first.
func NewSeed(mnemonic, passphrase string) []byte {
	normMnemonic := norm.NFKD.String(mnemonic)
	normPass := norm.NFKD.String("mnemonic" + passphrase)
	return pbkdf2.Key([]byte(normMnemonic), []byte(normPass), 2048, 64, sha512.New)
}
