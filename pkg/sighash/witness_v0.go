// Package sighash builds the witness v0 signature hash preimage of an
// Elements transaction.
//
// The algorithm is the BIP 143 construction extended with the confidential
// fields of Elements: outputs are committed to by their asset, value and
// nonce commitments, the spent value is a confidential value commitment, and
// an extra aggregate (hashIssuances) binds the issuance records of all
// inputs.
//
// The preimage is produced in two halves:
//
//	input half:  version || hashPrevouts || hashSequence || hashIssuances ||
//	             outpoint hash || outpoint index || VarSlice(scriptCode) ||
//	             value || sequence || [issuance]
//	output half: hashOutputs || locktime || hashType
//
// The message a signature commits to is hash256(input half || output half).
//
// This corresponds to:
//   - elements/src/script/interpreter.cpp (SignatureHash, SigVersion::WITNESS_V0)
//
// The hash type flags select which parts of the transaction are bound:
//   - ANYONECANPAY: hashPrevouts, hashSequence and hashIssuances are zero
//   - SINGLE or NONE: hashSequence is zero
//   - ALL: hashOutputs covers every output
//   - SINGLE: hashOutputs covers the output at the signed index, or is zero
//     when there is no such output
//   - NONE: hashOutputs is zero
package sighash

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"

	"github.com/Randy808/liquid-checksigfromstack-example/pkg/transaction"
)

// Section selects which half of the preimage Preimage returns.
type Section uint8

const (
	SectionInputs  Section = 1 << iota // version through the input's issuance
	SectionOutputs                     // hashOutputs, locktime and hash type
)

func (s Section) String() string {
	switch s {
	case 0:
		return "none"
	case SectionInputs:
		return "inputs"
	case SectionOutputs:
		return "outputs"
	case SectionInputs | SectionOutputs:
		return "inputs|outputs"
	default:
		return "invalid"
	}
}

// Preimage returns one half of the preimage for input inIndex. If sections
// includes SectionInputs the input half is returned, otherwise the output
// half is returned if SectionOutputs is set. With neither set it fails with
// ErrNoSection.
//
// prevOutScript is the script code of the spent output and inputValue its
// confidential value commitment, both written as given.
func Preimage(
	tx *transaction.Transaction,
	inIndex int,
	hashType transaction.SigHashType,
	sections Section,
	prevOutScript []byte,
	inputValue []byte,
	opts ...Option,
) ([]byte, error) {
	switch {
	case sections&SectionInputs != 0:
		return InputPreimage(tx, inIndex, hashType, prevOutScript, inputValue, opts...)
	case sections&SectionOutputs != 0:
		return OutputPreimage(tx, inIndex, hashType, opts...)
	default:
		return nil, ErrNoSection
	}
}

func checkIndex(tx *transaction.Transaction, inIndex int) error {
	if inIndex < 0 || inIndex >= len(tx.Inputs) {
		return &SighashError{
			InputIndex: inIndex,
			Message:    "input index out of bounds",
		}
	}
	return nil
}

// InputPreimage returns the input half of the preimage for input inIndex.
func InputPreimage(
	tx *transaction.Transaction,
	inIndex int,
	hashType transaction.SigHashType,
	prevOutScript []byte,
	inputValue []byte,
	opts ...Option,
) ([]byte, error) {
	if err := checkIndex(tx, inIndex); err != nil {
		return nil, err
	}

	o := newOptions(opts)
	input := tx.Inputs[inIndex]
	anyoneCanPay := transaction.IsAnyoneCanPay(hashType)
	baseType := transaction.BaseType(hashType)

	log.Debugf("Building input preimage for input %d, hash type %v",
		inIndex, transaction.SigHashString(hashType))

	var (
		hashPrev chainhash.Hash
		hashSeq  chainhash.Hash
		hashIss  chainhash.Hash
		err      error
	)

	if !anyoneCanPay {
		if o.hashes != nil {
			hashPrev = o.hashes.HashPrevOuts
		} else if hashPrev, err = hashPrevOuts(tx, o.hasher); err != nil {
			return nil, &SighashError{InputIndex: inIndex, Message: "prevouts", Cause: err}
		}
	}

	if !anyoneCanPay && baseType != transaction.SigHashSingle &&
		baseType != transaction.SigHashNone {

		if o.hashes != nil {
			hashSeq = o.hashes.HashSequence
		} else if hashSeq, err = hashSequence(tx, o.hasher); err != nil {
			return nil, &SighashError{InputIndex: inIndex, Message: "sequence", Cause: err}
		}
	}

	if !anyoneCanPay {
		if o.hashes != nil {
			hashIss = o.hashes.HashIssuances
		} else if hashIss, err = hashIssuances(tx, o.hasher); err != nil {
			return nil, &SighashError{InputIndex: inIndex, Message: "issuances", Cause: err}
		}
	}

	log.Tracef("Input %d aggregates: prevouts=%v, sequence=%v, issuances=%v",
		inIndex, hashPrev, hashSeq, hashIss)

	size := 4 + 3*chainhash.HashSize +
		chainhash.HashSize + 4 +
		transaction.VarSliceSize(prevOutScript) +
		len(inputValue) +
		4 +
		transaction.IssuanceSize(input.Issuance)

	w := transaction.WithCapacity(size)
	w.WriteUInt32(uint32(tx.Version))
	w.WriteSlice(hashPrev[:])
	w.WriteSlice(hashSeq[:])
	w.WriteSlice(hashIss[:])
	w.WriteSlice(input.Hash[:])
	w.WriteUInt32(input.Index)
	w.WriteVarSlice(prevOutScript)
	w.WriteSlice(inputValue)
	w.WriteUInt32(input.Sequence)
	if input.HasIssuance() {
		w.WriteIssuance(input.Issuance)
	}

	buf, err := w.End()
	if err != nil {
		return nil, &SighashError{InputIndex: inIndex, Message: "input preimage", Cause: err}
	}
	return buf, nil
}

// OutputPreimage returns the output half of the preimage for input inIndex.
func OutputPreimage(
	tx *transaction.Transaction,
	inIndex int,
	hashType transaction.SigHashType,
	opts ...Option,
) ([]byte, error) {
	if err := checkIndex(tx, inIndex); err != nil {
		return nil, err
	}

	o := newOptions(opts)
	baseType := transaction.BaseType(hashType)

	log.Debugf("Building output preimage for input %d, hash type %v",
		inIndex, transaction.SigHashString(hashType))

	var (
		hashOuts chainhash.Hash
		err      error
	)
	switch {
	case baseType != transaction.SigHashSingle && baseType != transaction.SigHashNone:
		if o.hashes != nil {
			hashOuts = o.hashes.HashOutputs
		} else if hashOuts, err = hashOutputs(tx.Outputs, o.hasher); err != nil {
			return nil, &SighashError{InputIndex: inIndex, Message: "outputs", Cause: err}
		}

	case baseType == transaction.SigHashSingle && inIndex < len(tx.Outputs):
		hashOuts, err = hashOutputs(tx.Outputs[inIndex:inIndex+1], o.hasher)
		if err != nil {
			return nil, &SighashError{InputIndex: inIndex, Message: "single output", Cause: err}
		}
	}

	log.Tracef("Input %d aggregates: outputs=%v", inIndex, hashOuts)

	w := transaction.WithCapacity(chainhash.HashSize + 4 + 4)
	w.WriteSlice(hashOuts[:])
	w.WriteUInt32(tx.Locktime)
	w.WriteUInt32(uint32(hashType))

	buf, err := w.End()
	if err != nil {
		return nil, &SighashError{InputIndex: inIndex, Message: "output preimage", Cause: err}
	}
	return buf, nil
}

// Message returns the digest a signature for input inIndex commits to:
// hash256 of the input half followed by the output half.
func Message(
	tx *transaction.Transaction,
	inIndex int,
	hashType transaction.SigHashType,
	prevOutScript []byte,
	inputValue []byte,
	opts ...Option,
) (chainhash.Hash, error) {
	in, err := InputPreimage(tx, inIndex, hashType, prevOutScript, inputValue, opts...)
	if err != nil {
		return chainhash.Hash{}, errors.Wrapf(err, "input preimage for input %d", inIndex)
	}
	out, err := OutputPreimage(tx, inIndex, hashType, opts...)
	if err != nil {
		return chainhash.Hash{}, errors.Wrapf(err, "output preimage for input %d", inIndex)
	}

	preimage := make([]byte, 0, len(in)+len(out))
	preimage = append(preimage, in...)
	preimage = append(preimage, out...)

	return newOptions(opts).hasher.Hash256(preimage), nil
}
