package transaction

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Elements wire format:
//
//	version (i32le) || flag (u8) ||
//	VarInt(#in)  || { hash(32) || index(u32le) || VarSlice(scriptSig) || sequence(u32le) || [issuance] }
//	VarInt(#out) || { asset || value || nonce || VarSlice(script) } ||
//	locktime (u32le) ||
//	if flag: { VarSlice(issuanceRangeProof) || VarSlice(inflationRangeProof) ||
//	           Vector(witness) || Vector(peginWitness) } per input ||
//	         { VarSlice(surjectionProof) || VarSlice(rangeProof) } per output
//
// Bit 31 of the serialized outpoint index marks an input with an issuance and
// bit 30 a peg-in. Neither flag is applied to the coinbase index.

// outpointSize is the hash and the index of a previous output.
const outpointSize = chainhash.HashSize + 4

// SerializeSize returns the number of bytes Serialize produces. With
// withWitness false it is the size of the serialization the txid commits
// to.
func (tx *Transaction) SerializeSize(withWitness bool) int {
	// version, flag, locktime
	n := 4 + 1 + 4

	n += wire.VarIntSerializeSize(uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		n += outpointSize + VarSliceSize(in.Script) + 4 + IssuanceSize(in.Issuance)
	}

	n += wire.VarIntSerializeSize(uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		n += len(out.Asset) + len(out.Value) + len(out.Nonce) + VarSliceSize(out.Script)
	}

	if withWitness && tx.HasWitness() {
		for _, in := range tx.Inputs {
			n += VarSliceSize(in.IssuanceRangeProof) + VarSliceSize(in.InflationRangeProof) +
				VectorSize(in.Witness) + VectorSize(in.PeginWitness)
		}
		for _, out := range tx.Outputs {
			n += VarSliceSize(out.SurjectionProof) + VarSliceSize(out.RangeProof)
		}
	}

	return n
}

// Serialize encodes tx in the Elements wire format, including the witness
// section when the transaction has one.
func Serialize(tx *Transaction) ([]byte, error) {
	return serialize(tx, true)
}

// TxHash returns the transaction id: the double SHA-256 of the
// serialization without witness data.
func (tx *Transaction) TxHash() (chainhash.Hash, error) {
	raw, err := serialize(tx, false)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(raw), nil
}

func serialize(tx *Transaction, withWitness bool) ([]byte, error) {
	witness := withWitness && tx.HasWitness()
	w := WithCapacity(tx.SerializeSize(withWitness))

	w.WriteInt32(tx.Version)
	if witness {
		w.WriteUInt8(1)
	} else {
		w.WriteUInt8(0)
	}

	w.WriteVarInt(uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		w.WriteSlice(in.Hash[:])
		w.WriteUInt32(outpointIndex(in))
		w.WriteVarSlice(in.Script)
		w.WriteUInt32(in.Sequence)
		if in.HasIssuance() {
			w.WriteIssuance(in.Issuance)
		}
	}

	w.WriteVarInt(uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		w.WriteSlice(out.Asset)
		w.WriteSlice(out.Value)
		w.WriteSlice(out.Nonce)
		w.WriteVarSlice(out.Script)
	}

	w.WriteUInt32(tx.Locktime)

	if witness {
		for _, in := range tx.Inputs {
			w.WriteConfidentialInFields(in)
		}
		for _, out := range tx.Outputs {
			w.WriteConfidentialOutFields(out)
		}
	}

	return w.End()
}

// outpointIndex returns the index as serialized, with the issuance and
// peg-in flags applied.
func outpointIndex(in *TxInput) uint32 {
	if in.Index == CoinbaseIndex {
		return in.Index
	}
	index := in.Index
	if in.HasIssuance() {
		index |= OutpointIssuanceFlag
	}
	if in.IsPegin {
		index |= OutpointPeginFlag
	}
	return index
}

// Parse decodes a transaction in the Elements wire format. Every byte of raw
// must be consumed.
func Parse(raw []byte, opts ...ReaderOption) (*Transaction, error) {
	r := NewReader(raw, opts...)

	tx, err := parse(r)
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, &CodecError{
			Code:   CodeTrailingData,
			Op:     "Parse",
			Offset: r.Offset(),
			Len:    len(raw),
		}
	}

	log.Tracef("Parsed transaction: version=%d, inputs=%d, outputs=%d, "+
		"flag=%d", tx.Version, len(tx.Inputs), len(tx.Outputs), tx.Flag)

	return tx, nil
}

func parse(r *Reader) (*Transaction, error) {
	tx := &Transaction{}

	var err error
	if tx.Version, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if tx.Flag, err = r.ReadUInt8(); err != nil {
		return nil, err
	}
	if tx.Flag > 1 {
		return nil, &CodecError{
			Code:   CodeRange,
			Op:     "Parse",
			Offset: r.Offset() - 1,
			Cause:  fmt.Errorf("unknown transaction flag %d", tx.Flag),
		}
	}

	numIn, err := readCount(r, outpointSize)
	if err != nil {
		return nil, err
	}
	if numIn > 0 {
		tx.Inputs = make([]*TxInput, 0, numIn)
	}
	for i := 0; i < numIn; i++ {
		in, err := parseInput(r)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		tx.Inputs = append(tx.Inputs, in)
	}

	// Smallest output: three null commitments and an empty script.
	numOut, err := readCount(r, 4)
	if err != nil {
		return nil, err
	}
	if numOut > 0 {
		tx.Outputs = make([]*TxOutput, 0, numOut)
	}
	for i := 0; i < numOut; i++ {
		out, err := parseOutput(r)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		tx.Outputs = append(tx.Outputs, out)
	}

	if tx.Locktime, err = r.ReadUInt32(); err != nil {
		return nil, err
	}

	if tx.Flag == 1 {
		for i, in := range tx.Inputs {
			if err := r.ReadConfidentialInFields(in); err != nil {
				return nil, fmt.Errorf("input %d witness: %w", i, err)
			}
		}
		for i, out := range tx.Outputs {
			if err := r.ReadConfidentialOutFields(out); err != nil {
				return nil, fmt.Errorf("output %d witness: %w", i, err)
			}
		}
	}

	return tx, nil
}

// readCount reads an element count and rejects counts that cannot fit in
// the rest of the buffer given the minimum size of one element.
func readCount(r *Reader, minSize int) (int, error) {
	start := r.Offset()
	count, err := r.ReadVarInt()
	if err != nil {
		return 0, err
	}
	if count > uint64(r.Remaining()/minSize) {
		return 0, &CodecError{
			Code:   CodeOutOfBounds,
			Op:     "readCount",
			Offset: start,
			Need:   int(min(count, uint64(r.Remaining()+1))) * minSize,
			Len:    len(r.buf),
			Cause:  fmt.Errorf("count %d exceeds remaining data", count),
		}
	}
	return int(count), nil
}

func parseInput(r *Reader) (*TxInput, error) {
	in := &TxInput{}

	hash, err := r.ReadSlice(chainhash.HashSize)
	if err != nil {
		return nil, err
	}
	copy(in.Hash[:], hash)

	index, err := r.ReadUInt32()
	if err != nil {
		return nil, err
	}

	hasIssuance := false
	if index != CoinbaseIndex {
		hasIssuance = index&OutpointIssuanceFlag != 0
		in.IsPegin = index&OutpointPeginFlag != 0
		index &= OutpointIndexMask
	}
	in.Index = index

	if in.Script, err = r.ReadVarSlice(); err != nil {
		return nil, err
	}
	if in.Sequence, err = r.ReadUInt32(); err != nil {
		return nil, err
	}
	if hasIssuance {
		if in.Issuance, err = r.ReadIssuance(); err != nil {
			return nil, err
		}
	}

	return in, nil
}

func parseOutput(r *Reader) (*TxOutput, error) {
	out := &TxOutput{}

	var err error
	if out.Asset, err = r.ReadConfidentialAsset(); err != nil {
		return nil, err
	}
	if out.Value, err = r.ReadConfidentialValue(); err != nil {
		return nil, err
	}
	if out.Nonce, err = r.ReadConfidentialNonce(); err != nil {
		return nil, err
	}
	if out.Script, err = r.ReadVarSlice(); err != nil {
		return nil, err
	}

	return out, nil
}
