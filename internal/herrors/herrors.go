// Package herrors defines the uniform error surface the core crypto
// engine presents to its callers.
//
// Every operation in keystore, kem, sign, envelope, seal, open, chunk
// and shamir returns either nil or an *Error whose Kind is one of the
// values below. Callers switch on Kind, never on the wrapped cause —
// the whole point of collapsing RSA, Kyber, AES-GCM and padding
// failures into DecryptionFailed is that a caller (or an attacker
// probing error messages) cannot tell which step rejected the input.
package herrors

import "fmt"

// Kind identifies the class of failure. The set is fixed and matches
// the wire-level error contract; it is not meant to grow per-primitive.
type Kind int

const (
	_ Kind = iota
	KeyNotFound
	KeyParseError
	DecryptionFailed
	IntegrityFailed
	SignatureInvalid
	Expired
	ShareInvalid
	IoError
	ConfigError
)

func (k Kind) String() string {
	switch k {
	case KeyNotFound:
		return "KeyNotFound"
	case KeyParseError:
		return "KeyParseError"
	case DecryptionFailed:
		return "DecryptionFailed"
	case IntegrityFailed:
		return "IntegrityFailed"
	case SignatureInvalid:
		return "SignatureInvalid"
	case Expired:
		return "Expired"
	case ShareInvalid:
		return "ShareInvalid"
	case IoError:
		return "IoError"
	case ConfigError:
		return "ConfigError"
	default:
		return "Unknown"
	}
}

// Error is the single error type that crosses the core's API boundary.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "seal", "keystore.rotate"
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error. err may be nil when the kind alone is the
// whole story (e.g. Expired).
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is an *Error of the given kind. It does not
// inspect the wrapped cause, matching the collapsed-error-surface
// design: two DecryptionFailed errors compare equal here regardless of
// whether one came from AES-GCM and the other from RSA unwrap.
func Is(err error, kind Kind) bool {
	var e *Error
	if !asError(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf extracts the Kind from err, returning ok=false if err is not
// (or does not wrap) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !asError(err, &e) {
		return 0, false
	}
	return e.Kind, true
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
