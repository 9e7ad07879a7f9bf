// Package neoerr defines the small closed set of error kinds the SDK core
// ever returns, collapsing the two parallel exception hierarchies of the
// source project into one type.
package neoerr

import "fmt"

// Kind classifies a core error. Callers that need to branch on failure
// mode should switch on Kind rather than match error strings.
type Kind int

// The core never returns an error outside this set.
const (
	// InvalidArgument covers wrong length, out-of-range index, malformed
	// path, illegal scope combination, or a non-canonical var-int read.
	InvalidArgument Kind = iota
	// InvalidFormat covers bad hex/Base58/Base58Check/NEP-2/WIF framing
	// or checksum.
	InvalidFormat
	// Crypto covers RNG failure, key out of range, verification failure,
	// canonicalization failure, or scrypt/AES backend failure.
	Crypto
	// AuthenticationFailure covers a NEP-2 password/salt mismatch. It is
	// reported without distinguishing it from InvalidFormat at the
	// exported API so a caller can't build a decryption oracle.
	AuthenticationFailure
	// DeserializationError covers a read past end, an unknown tag, or a
	// non-canonical encoding.
	DeserializationError
	// BuilderError covers a missing script, no signers, a duplicate
	// signer, a witness/signer hash mismatch, or a negative fee.
	BuilderError
	// UnsupportedOperation covers a feature gated off or not implemented
	// for the requested curve/format.
	UnsupportedOperation
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case InvalidFormat:
		return "invalid format"
	case Crypto:
		return "crypto error"
	case AuthenticationFailure:
		return "authentication failure"
	case DeserializationError:
		return "deserialization error"
	case BuilderError:
		return "builder error"
	case UnsupportedOperation:
		return "unsupported operation"
	default:
		return "unknown error"
	}
}

// Error is the single error type the core surfaces. Detail must never
// include key material, passwords, or raw NEP-2 ciphertext.
type Error struct {
	Kind   Kind
	Detail string
	cause  error
}

// New constructs an Error of the given kind.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap constructs an Error of the given kind carrying cause as its
// Unwrap() target.
func Wrap(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, cause: cause}
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap lets errors.Is/errors.As see through to the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error of the same Kind, so callers
// can write errors.Is(err, neoerr.New(neoerr.BuilderError, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
