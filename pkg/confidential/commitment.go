// Package confidential classifies the confidential commitments carried by
// Elements transactions.
//
// Every confidential asset, value and nonce starts with a one byte prefix
// that decides how many bytes follow it:
//
//	prefix 0x01 or 0xff        explicit, 8 (value) or 32 (asset, nonce) bytes follow
//	per-kind blinded prefixes  blinded, 32 bytes follow
//	anything else              null marker, the prefix is the whole commitment
//
// The blinded prefixes are 0x0a/0x0b for assets, 0x08/0x09 for values and
// 0x02/0x03 for nonces.
//
// References:
//   - Elements: src/primitives/confidential.h (CConfidentialCommitment)
//   - https://github.com/ElementsProject/elements/blob/master/doc/
package confidential

import "fmt"

// Kind identifies which of the three commitment tables applies.
type Kind uint8

const (
	KindAsset Kind = iota
	KindValue
	KindNonce
)

func (k Kind) String() string {
	switch k {
	case KindAsset:
		return "asset"
	case KindValue:
		return "value"
	case KindNonce:
		return "nonce"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Class is the variant a prefix selects.
type Class uint8

const (
	// ClassNull is the single byte marker. The canonical null prefix is
	// 0x00; unknown prefixes are classified here as well.
	ClassNull Class = iota

	// ClassExplicit carries the plain asset id, amount or nonce.
	ClassExplicit

	// ClassBlinded carries a 33 byte curve point commitment.
	ClassBlinded
)

func (c Class) String() string {
	switch c {
	case ClassNull:
		return "null"
	case ClassExplicit:
		return "explicit"
	case ClassBlinded:
		return "blinded"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// Commitment sizes and prefixes.
const (
	NullSize           = 1
	CommitmentSize     = 33 // blinded commitments and explicit assets/nonces
	ExplicitValueSize  = 9  // prefix + 8 byte big-endian amount
	NullPrefix         = 0x00
	ExplicitPrefix     = 0x01
	ExplicitPrefixAlt  = 0xff
	explicitValueBytes = ExplicitValueSize - 1
)

// blindedPrefixes maps each kind to its pair of blinded prefixes. The pair
// differs only in the low bit, which encodes the y-coordinate choice.
var blindedPrefixes = [...][2]byte{
	KindAsset: {0x0a, 0x0b},
	KindValue: {0x08, 0x09},
	KindNonce: {0x02, 0x03},
}

// BlindedPrefixes returns the two prefixes that mark a blinded commitment of
// the given kind.
func BlindedPrefixes(kind Kind) [2]byte {
	if int(kind) >= len(blindedPrefixes) {
		return [2]byte{}
	}
	return blindedPrefixes[kind]
}

// Classify matches prefix against the table for kind.
func Classify(kind Kind, prefix byte) Class {
	if prefix == ExplicitPrefix || prefix == ExplicitPrefixAlt {
		return ClassExplicit
	}
	if int(kind) < len(blindedPrefixes) {
		pair := blindedPrefixes[kind]
		if prefix == pair[0] || prefix == pair[1] {
			return ClassBlinded
		}
	}
	return ClassNull
}

// IsKnownPrefix reports whether prefix is one the protocol defines for kind.
// Classify maps every other prefix to ClassNull.
func IsKnownPrefix(kind Kind, prefix byte) bool {
	return prefix == NullPrefix || Classify(kind, prefix) != ClassNull
}

// EncodedSize returns the full length, prefix included, of a commitment of
// the given kind starting with prefix.
func EncodedSize(kind Kind, prefix byte) int {
	switch Classify(kind, prefix) {
	case ClassExplicit:
		if kind == KindValue {
			return ExplicitValueSize
		}
		return CommitmentSize
	case ClassBlinded:
		return CommitmentSize
	default:
		return NullSize
	}
}

// Commitment is a decoded confidential field. Bytes always holds the full
// encoding including the prefix.
type Commitment struct {
	Kind  Kind
	Class Class
	Bytes []byte
}

// Prefix returns the discriminant byte, or 0 for an empty commitment.
func (c Commitment) Prefix() byte {
	if len(c.Bytes) == 0 {
		return 0
	}
	return c.Bytes[0]
}

// IsConfidential reports whether the commitment hides its content.
func (c Commitment) IsConfidential() bool {
	return c.Class == ClassBlinded
}

func (c Commitment) String() string {
	return fmt.Sprintf("%s/%s:%x", c.Kind, c.Class, c.Bytes)
}

// Parse decodes the commitment of the given kind at the front of b and
// returns it along with the number of bytes consumed. The returned Bytes
// alias b.
func Parse(kind Kind, b []byte) (Commitment, int, error) {
	if len(b) == 0 {
		return Commitment{}, 0, &Error{
			Kind:    kind,
			Message: "empty input",
		}
	}

	size := EncodedSize(kind, b[0])
	if len(b) < size {
		return Commitment{}, 0, &Error{
			Kind:   kind,
			Prefix: b[0],
			Message: fmt.Sprintf("need %d bytes for %s commitment, have %d",
				size, Classify(kind, b[0]), len(b)),
		}
	}

	return Commitment{
		Kind:  kind,
		Class: Classify(kind, b[0]),
		Bytes: b[:size],
	}, size, nil
}

// Error describes a commitment that does not fit the table for its kind.
type Error struct {
	Kind    Kind
	Prefix  byte
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid %s commitment (prefix 0x%02x): %s: %v",
			e.Kind, e.Prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid %s commitment (prefix 0x%02x): %s",
		e.Kind, e.Prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
