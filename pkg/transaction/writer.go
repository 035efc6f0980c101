package transaction

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/wire"
)

// Writer serializes transaction primitives into a fixed-size buffer.
//
// The buffer is sized up front by the caller. Every write checks that the
// bytes fit before the cursor moves, so a failed write leaves the buffer and
// the offset untouched. The first failure is kept and reported again by End;
// once a write has failed every later write is a no-op.
type Writer struct {
	buf    []byte
	offset int
	err    error
}

// NewWriter returns a Writer that fills buf from the start.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// WithCapacity returns a Writer over a new zeroed buffer of n bytes.
func WithCapacity(n int) *Writer {
	return NewWriter(make([]byte, n))
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int {
	return w.offset
}

// Err returns the first write failure, if any.
func (w *Writer) Err() error {
	return w.err
}

// reserve checks that n more bytes fit and returns the destination slice.
func (w *Writer) reserve(op string, n int) ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if n < 0 || w.offset+n > len(w.buf) {
		w.err = boundsErr(op, w.offset, n, len(w.buf))
		return nil, w.err
	}
	dst := w.buf[w.offset : w.offset+n]
	w.offset += n
	return dst, nil
}

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return w.err
}

// Write implements io.Writer. A short buffer fails the whole write.
func (w *Writer) Write(p []byte) (int, error) {
	dst, err := w.reserve("Write", len(p))
	if err != nil {
		return 0, err
	}
	return copy(dst, p), nil
}

func (w *Writer) WriteUInt8(v uint8) error {
	dst, err := w.reserve("WriteUInt8", 1)
	if err != nil {
		return err
	}
	dst[0] = v
	return nil
}

func (w *Writer) WriteInt32(v int32) error {
	dst, err := w.reserve("WriteInt32", 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(dst, uint32(v))
	return nil
}

func (w *Writer) WriteUInt32(v uint32) error {
	dst, err := w.reserve("WriteUInt32", 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(dst, v)
	return nil
}

// WriteUInt64 writes v little-endian. Every uint64 is accepted.
func (w *Writer) WriteUInt64(v uint64) error {
	dst, err := w.reserve("WriteUInt64", 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(dst, v)
	return nil
}

// WriteAmount writes a signed amount as an unsigned 64-bit field. Negative
// amounts fail with ErrRange.
func (w *Writer) WriteAmount(v int64) error {
	if w.err != nil {
		return w.err
	}
	if err := CheckUint(v, 64); err != nil {
		cerr := err.(*CodecError)
		cerr.Op = "WriteAmount"
		cerr.Offset = w.offset
		return w.fail(cerr)
	}
	return w.WriteUInt64(uint64(v))
}

// WriteVarInt writes v as a Bitcoin CompactSize integer.
func (w *Writer) WriteVarInt(v uint64) error {
	if w.err != nil {
		return w.err
	}
	n := wire.VarIntSerializeSize(v)
	if w.offset+n > len(w.buf) {
		return w.fail(boundsErr("WriteVarInt", w.offset, n, len(w.buf)))
	}
	if err := wire.WriteVarInt(w, 0, v); err != nil {
		return w.fail(err)
	}
	return nil
}

// WriteSlice copies b as is.
func (w *Writer) WriteSlice(b []byte) error {
	dst, err := w.reserve("WriteSlice", len(b))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// WriteVarSlice writes the length of b as a VarInt followed by b.
func (w *Writer) WriteVarSlice(b []byte) error {
	if w.err != nil {
		return w.err
	}
	if need := VarSliceSize(b); w.offset+need > len(w.buf) {
		return w.fail(boundsErr("WriteVarSlice", w.offset, need, len(w.buf)))
	}
	if err := w.WriteVarInt(uint64(len(b))); err != nil {
		return err
	}
	return w.WriteSlice(b)
}

// WriteVector writes the element count followed by each element as a
// VarSlice, in order.
func (w *Writer) WriteVector(v [][]byte) error {
	if err := w.WriteVarInt(uint64(len(v))); err != nil {
		return err
	}
	for _, b := range v {
		if err := w.WriteVarSlice(b); err != nil {
			return err
		}
	}
	return nil
}

// WriteIssuance writes the blinding nonce, the entropy and both amount
// commitments.
func (w *Writer) WriteIssuance(iss *TxIssuance) error {
	if w.err != nil {
		return w.err
	}
	for _, field := range [][]byte{iss.AssetBlindingNonce, iss.AssetEntropy} {
		if len(field) != IssuanceNonceSize {
			return w.fail(&CodecError{
				Code:   CodeSizeMismatch,
				Op:     "WriteIssuance",
				Offset: w.offset,
				Need:   IssuanceNonceSize,
				Len:    len(field),
				Cause:  fmt.Errorf("issuance nonce/entropy must be %d bytes", IssuanceNonceSize),
			})
		}
	}

	w.WriteSlice(iss.AssetBlindingNonce)
	w.WriteSlice(iss.AssetEntropy)
	w.WriteSlice(iss.AssetAmount)
	return w.WriteSlice(iss.TokenAmount)
}

// WriteConfidentialInFields writes the witness section of an input: both
// issuance range proofs, the script witness and the peg-in witness. Missing
// fields are written empty.
func (w *Writer) WriteConfidentialInFields(in *TxInput) error {
	w.WriteVarSlice(in.IssuanceRangeProof)
	w.WriteVarSlice(in.InflationRangeProof)
	w.WriteVector(in.Witness)
	return w.WriteVector(in.PeginWitness)
}

// WriteConfidentialOutFields writes the surjection proof and the range
// proof of an output.
func (w *Writer) WriteConfidentialOutFields(out *TxOutput) error {
	w.WriteVarSlice(out.SurjectionProof)
	return w.WriteVarSlice(out.RangeProof)
}

// End returns the buffer once it has been filled exactly. It reports the
// first failed write, or ErrSizeMismatch if the buffer was sized wrong.
func (w *Writer) End() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.offset != len(w.buf) {
		return nil, &CodecError{
			Code:   CodeSizeMismatch,
			Op:     "End",
			Offset: w.offset,
			Len:    len(w.buf),
		}
	}
	return w.buf, nil
}

// CheckUint fails with ErrRange unless 0 <= v < 2^bits.
func CheckUint(v int64, bits uint) error {
	if v < 0 || (bits < 63 && v >= int64(1)<<bits) {
		return &CodecError{
			Code:  CodeRange,
			Op:    "CheckUint",
			Cause: fmt.Errorf("value %d out of range for uint%d", v, bits),
		}
	}
	return nil
}

// VarSliceSize returns the encoded size of b with its length prefix.
func VarSliceSize(b []byte) int {
	return wire.VarIntSerializeSize(uint64(len(b))) + len(b)
}

// VectorSize returns the encoded size of v: the count plus every element
// as a VarSlice.
func VectorSize(v [][]byte) int {
	n := wire.VarIntSerializeSize(uint64(len(v)))
	for _, b := range v {
		n += VarSliceSize(b)
	}
	return n
}

// IssuanceSize returns the encoded size of iss, or 0 when iss is nil.
func IssuanceSize(iss *TxIssuance) int {
	if iss == nil {
		return 0
	}
	return 2*IssuanceNonceSize + len(iss.AssetAmount) + len(iss.TokenAmount)
}
