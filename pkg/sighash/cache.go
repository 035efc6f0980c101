package sighash

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"

	"github.com/Randy808/liquid-checksigfromstack-example/pkg/transaction"
)

// TxSigHashes holds the aggregate digests a SIGHASH_ALL preimage commits to.
// They are the same for every input of a transaction, so signing n inputs
// only needs to hash the inputs and outputs once.
type TxSigHashes struct {
	HashPrevOuts  chainhash.Hash
	HashSequence  chainhash.Hash
	HashIssuances chainhash.Hash
	HashOutputs   chainhash.Hash
}

// NewTxSigHashes computes the aggregate digests of tx. A nil hasher selects
// DoubleSHA256.
func NewTxSigHashes(tx *transaction.Transaction, hasher Hasher) (*TxSigHashes, error) {
	if hasher == nil {
		hasher = DoubleSHA256
	}

	var (
		c   TxSigHashes
		err error
	)
	if c.HashPrevOuts, err = hashPrevOuts(tx, hasher); err != nil {
		return nil, err
	}
	if c.HashSequence, err = hashSequence(tx, hasher); err != nil {
		return nil, err
	}
	if c.HashIssuances, err = hashIssuances(tx, hasher); err != nil {
		return nil, err
	}
	if c.HashOutputs, err = hashOutputs(tx.Outputs, hasher); err != nil {
		return nil, err
	}

	log.Tracef("Computed sighash midstate: prevouts=%v, sequence=%v, "+
		"issuances=%v, outputs=%v", c.HashPrevOuts, c.HashSequence,
		c.HashIssuances, c.HashOutputs)

	return &c, nil
}

// hashPrevOuts is hash256 of every outpoint, hash then index.
func hashPrevOuts(tx *transaction.Transaction, hasher Hasher) (chainhash.Hash, error) {
	w := transaction.WithCapacity((chainhash.HashSize + 4) * len(tx.Inputs))
	for _, in := range tx.Inputs {
		w.WriteSlice(in.Hash[:])
		w.WriteUInt32(in.Index)
	}

	buf, err := w.End()
	if err != nil {
		return chainhash.Hash{}, errors.Wrap(err, "hash prevouts")
	}
	return hasher.Hash256(buf), nil
}

// hashSequence is hash256 of every input sequence.
func hashSequence(tx *transaction.Transaction, hasher Hasher) (chainhash.Hash, error) {
	w := transaction.WithCapacity(4 * len(tx.Inputs))
	for _, in := range tx.Inputs {
		w.WriteUInt32(in.Sequence)
	}

	buf, err := w.End()
	if err != nil {
		return chainhash.Hash{}, errors.Wrap(err, "hash sequence")
	}
	return hasher.Hash256(buf), nil
}

// hashIssuances is hash256 of every issuance record, with a single zero byte
// standing in for inputs that have none.
func hashIssuances(tx *transaction.Transaction, hasher Hasher) (chainhash.Hash, error) {
	size := 0
	for _, in := range tx.Inputs {
		if in.HasIssuance() {
			size += transaction.IssuanceSize(in.Issuance)
		} else {
			size++
		}
	}

	w := transaction.WithCapacity(size)
	for _, in := range tx.Inputs {
		if in.HasIssuance() {
			w.WriteIssuance(in.Issuance)
		} else {
			w.WriteUInt8(0x00)
		}
	}

	buf, err := w.End()
	if err != nil {
		return chainhash.Hash{}, errors.Wrap(err, "hash issuances")
	}
	return hasher.Hash256(buf), nil
}

func outputSize(out *transaction.TxOutput) int {
	return len(out.Asset) + len(out.Value) + len(out.Nonce) +
		transaction.VarSliceSize(out.Script)
}

// hashOutputs is hash256 of the given outputs: asset, value, nonce and
// script of each.
func hashOutputs(outs []*transaction.TxOutput, hasher Hasher) (chainhash.Hash, error) {
	size := 0
	for _, out := range outs {
		size += outputSize(out)
	}

	w := transaction.WithCapacity(size)
	for _, out := range outs {
		w.WriteSlice(out.Asset)
		w.WriteSlice(out.Value)
		w.WriteSlice(out.Nonce)
		w.WriteVarSlice(out.Script)
	}

	buf, err := w.End()
	if err != nil {
		return chainhash.Hash{}, errors.Wrap(err, "hash outputs")
	}
	return hasher.Hash256(buf), nil
}
