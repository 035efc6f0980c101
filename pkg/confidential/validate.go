package confidential

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Validate checks b strictly against the table for kind. Unlike Classify it
// rejects prefixes the protocol does not define and lengths that do not
// match the prefix. Blinded commitments must carry an x-coordinate that lies
// on secp256k1.
//
// Only the x-coordinate is checked: Elements selects y by quadratic residue
// rather than parity, so the prefix bit is not compared against the point.
func Validate(kind Kind, b []byte) error {
	if len(b) == 0 {
		return &Error{Kind: kind, Message: "empty input"}
	}

	prefix := b[0]
	if !IsKnownPrefix(kind, prefix) {
		return &Error{Kind: kind, Prefix: prefix, Message: "unknown prefix"}
	}

	if want := EncodedSize(kind, prefix); len(b) != want {
		return &Error{
			Kind:    kind,
			Prefix:  prefix,
			Message: fmt.Sprintf("length %d, want %d", len(b), want),
		}
	}

	if Classify(kind, prefix) != ClassBlinded {
		return nil
	}

	if _, err := ParsePoint(b); err != nil {
		return &Error{
			Kind:    kind,
			Prefix:  prefix,
			Message: "commitment is not a curve point",
			Cause:   err,
		}
	}

	return nil
}

// ParsePoint interprets a 33 byte blinded commitment as a secp256k1 point.
// The commitment prefix is replaced with the compressed public key prefix
// 0x02 before parsing.
func ParsePoint(commitment []byte) (*secp256k1.PublicKey, error) {
	if len(commitment) != CommitmentSize {
		return nil, fmt.Errorf("commitment must be %d bytes, got %d",
			CommitmentSize, len(commitment))
	}

	var compressed [CommitmentSize]byte
	copy(compressed[:], commitment)
	compressed[0] = secp256k1.PubKeyFormatCompressedEven

	pub, err := secp256k1.ParsePubKey(compressed[:])
	if err != nil {
		return nil, fmt.Errorf("failed to parse point: %w", err)
	}
	return pub, nil
}
