// Package api provides the byte-oriented entry points of the library.
//
// Callers that hold a raw Elements transaction use these functions instead
// of wiring the transaction and sighash packages themselves:
//
//  1. ParseTransaction / SerializeTransaction - wire format encoding
//  2. GetSighashPreimage - one half of the witness v0 preimage for an input
//  3. GetSighash - the 32-byte message a signature for an input commits to
//  4. GetSighashes - messages for several inputs at once
package api

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Randy808/liquid-checksigfromstack-example/pkg/confidential"
	"github.com/Randy808/liquid-checksigfromstack-example/pkg/sighash"
	"github.com/Randy808/liquid-checksigfromstack-example/pkg/transaction"
)

// SighashRequest identifies the input to sign and what the signature
// commits to.
type SighashRequest struct {
	TxBytes    []byte                  // Serialized transaction
	InputIndex int                     // Index of the input to sign (0-based)
	HashType   transaction.SigHashType // SIGHASH flags
	ScriptCode []byte                  // Script code of the spent output
	InputValue []byte                  // Value commitment of the spent output
	Strict     bool                    // Reject commitments outside the prefix table
}

// ============================================================================
// API Function 1: ParseTransaction / SerializeTransaction
// ============================================================================

// ParseTransaction decodes a transaction in the Elements wire format.
func ParseTransaction(raw []byte, strict bool) (*transaction.Transaction, error) {
	var opts []transaction.ReaderOption
	if strict {
		opts = append(opts, transaction.WithStrictCommitments())
	}

	tx, err := transaction.Parse(raw, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "invalid transaction")
	}
	return tx, nil
}

// SerializeTransaction encodes tx in the Elements wire format.
func SerializeTransaction(tx *transaction.Transaction) ([]byte, error) {
	raw, err := transaction.Serialize(tx)
	if err != nil {
		return nil, errors.Wrap(err, "serialize transaction")
	}
	return raw, nil
}

// ExplicitValue returns the explicit value commitment of amount, suitable
// for SighashRequest.InputValue when the spent output is unblinded.
func ExplicitValue(amount int64) ([]byte, error) {
	return confidential.NewExplicitValue(amount)
}

// ============================================================================
// API Function 2: GetSighashPreimage
// ============================================================================

// GetSighashPreimage returns the input half (SectionInputs) or the output
// half (SectionOutputs) of the witness v0 preimage for an input.
//
// The caller hashes the concatenation of both halves with hash256 to get the
// signing message; GetSighash does this in one step.
func GetSighashPreimage(req SighashRequest, sections sighash.Section) ([]byte, error) {
	tx, err := ParseTransaction(req.TxBytes, req.Strict)
	if err != nil {
		return nil, err
	}

	preimage, err := sighash.Preimage(tx, req.InputIndex, req.HashType,
		sections, req.ScriptCode, req.InputValue)
	if err != nil {
		return nil, errors.Wrapf(err, "preimage for input %d", req.InputIndex)
	}
	return preimage, nil
}

// ============================================================================
// API Function 3: GetSighash
// ============================================================================

// GetSighash computes the witness v0 signature hash for an input.
//
// This is the 32-byte hash that should be signed with the private key.
func GetSighash(req SighashRequest) ([32]byte, error) {
	tx, err := ParseTransaction(req.TxBytes, req.Strict)
	if err != nil {
		return [32]byte{}, err
	}

	msg, err := sighash.Message(tx, req.InputIndex, req.HashType,
		req.ScriptCode, req.InputValue)
	if err != nil {
		return [32]byte{}, errors.Wrapf(err, "sighash for input %d", req.InputIndex)
	}
	return msg, nil
}

// ============================================================================
// API Function 4: GetSighashes
// ============================================================================

// GetSighashes computes the signature hashes of several inputs of one
// transaction. The aggregate digests are shared between inputs and the
// messages are computed concurrently.
func GetSighashes(ctx context.Context, txBytes []byte, strict bool,
	reqs []sighash.Request) ([][32]byte, error) {

	tx, err := ParseTransaction(txBytes, strict)
	if err != nil {
		return nil, err
	}

	msgs, err := sighash.BatchMessages(ctx, tx, reqs)
	if err != nil {
		return nil, errors.Wrap(err, "batch sighash")
	}

	out := make([][32]byte, len(msgs))
	for i, m := range msgs {
		out[i] = m
	}
	return out, nil
}
