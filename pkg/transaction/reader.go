package transaction

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/btcsuite/btcd/wire"

	"github.com/Randy808/liquid-checksigfromstack-example/pkg/confidential"
)

// Reader decodes transaction primitives from a byte buffer.
//
// A failed read never moves the cursor. Slices returned by the Reader are
// copies and do not alias the source buffer.
type Reader struct {
	buf    []byte
	offset int
	strict bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithStrictCommitments makes the Reader reject confidential commitments
// whose prefix is outside the decision table for their field, as well as
// blinded commitments that are not valid curve points.
func WithStrictCommitments() ReaderOption {
	return func(r *Reader) {
		r.strict = true
	}
}

func NewReader(buf []byte, opts ...ReaderOption) *Reader {
	r := &Reader{buf: buf}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Offset returns the number of bytes consumed.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.offset
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if r.Remaining() == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.offset:])
	r.offset += n
	return n, nil
}

func (r *Reader) take(op string, n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, boundsErr(op, r.offset, n, len(r.buf))
	}
	b := r.buf[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

func (r *Reader) ReadUInt8() (uint8, error) {
	b, err := r.take("ReadUInt8", 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadInt32() (int32, error) {
	b, err := r.take("ReadInt32", 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (r *Reader) ReadUInt32() (uint32, error) {
	b, err := r.take("ReadUInt32", 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadUInt64() (uint64, error) {
	b, err := r.take("ReadUInt64", 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadVarInt reads a CompactSize integer. Encodings that use a longer form
// than necessary fail with ErrNonCanonical.
func (r *Reader) ReadVarInt() (uint64, error) {
	start := r.offset
	v, err := wire.ReadVarInt(r, 0)
	if err == nil {
		return v, nil
	}

	r.offset = start
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		need := 1
		if len(r.buf) > start {
			need = wire.VarIntSerializeSize(varIntFormMax(r.buf[start]))
		}
		return 0, boundsErr("ReadVarInt", start, need, len(r.buf))
	}
	return 0, &CodecError{
		Code:   CodeNonCanonical,
		Op:     "ReadVarInt",
		Offset: start,
		Len:    len(r.buf),
		Cause:  err,
	}
}

// varIntFormMax returns the largest value of the form selected by the
// CompactSize discriminant.
func varIntFormMax(discriminant byte) uint64 {
	switch discriminant {
	case 0xfd:
		return 0xffff
	case 0xfe:
		return 0xffffffff
	case 0xff:
		return 1<<64 - 1
	default:
		return 0
	}
}

// ReadSlice reads exactly n bytes.
func (r *Reader) ReadSlice(n int) ([]byte, error) {
	b, err := r.take("ReadSlice", n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadVarSlice reads a length-prefixed byte slice. An empty slice is
// returned as nil.
func (r *Reader) ReadVarSlice() ([]byte, error) {
	start := r.offset
	n, err := r.ReadVarInt()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Remaining()) {
		err := boundsErr("ReadVarSlice", r.offset, int(min(n, uint64(len(r.buf)+1))), len(r.buf))
		r.offset = start
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return r.ReadSlice(int(n))
}

// ReadVector reads a count followed by that many VarSlices. An empty
// vector is returned as nil.
func (r *Reader) ReadVector() ([][]byte, error) {
	start := r.offset
	count, err := r.ReadVarInt()
	if err != nil {
		return nil, err
	}

	// Every element takes at least its one byte length prefix.
	if count > uint64(r.Remaining()) {
		err := boundsErr("ReadVector", r.offset, int(min(count, uint64(len(r.buf)+1))), len(r.buf))
		r.offset = start
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	vector := make([][]byte, 0, count)
	for i := uint64(0); i < count; i++ {
		b, err := r.ReadVarSlice()
		if err != nil {
			r.offset = start
			return nil, err
		}
		vector = append(vector, b)
	}
	return vector, nil
}

// readCommitment reads one confidential commitment of the given kind,
// prefix included.
func (r *Reader) readCommitment(op string, kind confidential.Kind) ([]byte, error) {
	if r.Remaining() == 0 {
		return nil, boundsErr(op, r.offset, 1, len(r.buf))
	}

	start := r.offset
	size := confidential.EncodedSize(kind, r.buf[start])
	b, err := r.take(op, size)
	if err != nil {
		return nil, err
	}

	if r.strict {
		if err := confidential.Validate(kind, b); err != nil {
			r.offset = start
			return nil, &CodecError{
				Code:   CodeInvalidCommitment,
				Op:     op,
				Offset: start,
				Len:    len(r.buf),
				Cause:  err,
			}
		}
	}

	out := make([]byte, size)
	copy(out, b)
	return out, nil
}

// ReadConfidentialAsset reads an asset commitment (1 or 33 bytes).
func (r *Reader) ReadConfidentialAsset() ([]byte, error) {
	return r.readCommitment("ReadConfidentialAsset", confidential.KindAsset)
}

// ReadConfidentialNonce reads a nonce commitment (1 or 33 bytes).
func (r *Reader) ReadConfidentialNonce() ([]byte, error) {
	return r.readCommitment("ReadConfidentialNonce", confidential.KindNonce)
}

// ReadConfidentialValue reads a value commitment (1, 9 or 33 bytes).
func (r *Reader) ReadConfidentialValue() ([]byte, error) {
	return r.readCommitment("ReadConfidentialValue", confidential.KindValue)
}

// ReadIssuance reads an issuance record: nonce, entropy, amount and token
// amount.
func (r *Reader) ReadIssuance() (*TxIssuance, error) {
	start := r.offset
	iss, err := r.readIssuance()
	if err != nil {
		r.offset = start
		return nil, err
	}
	return iss, nil
}

func (r *Reader) readIssuance() (*TxIssuance, error) {
	nonce, err := r.ReadSlice(IssuanceNonceSize)
	if err != nil {
		return nil, err
	}
	entropy, err := r.ReadSlice(IssuanceNonceSize)
	if err != nil {
		return nil, err
	}
	amount, err := r.ReadConfidentialValue()
	if err != nil {
		return nil, err
	}
	token, err := r.ReadConfidentialValue()
	if err != nil {
		return nil, err
	}

	return &TxIssuance{
		AssetBlindingNonce: nonce,
		AssetEntropy:       entropy,
		AssetAmount:        amount,
		TokenAmount:        token,
	}, nil
}

// ReadConfidentialInFields reads the witness section of one input into in.
// in is only modified when every field was read.
func (r *Reader) ReadConfidentialInFields(in *TxInput) error {
	start := r.offset
	fail := func(err error) error {
		r.offset = start
		return err
	}

	issuanceProof, err := r.ReadVarSlice()
	if err != nil {
		return fail(err)
	}
	inflationProof, err := r.ReadVarSlice()
	if err != nil {
		return fail(err)
	}
	witness, err := r.ReadVector()
	if err != nil {
		return fail(err)
	}
	peginWitness, err := r.ReadVector()
	if err != nil {
		return fail(err)
	}

	in.IssuanceRangeProof = issuanceProof
	in.InflationRangeProof = inflationProof
	in.Witness = witness
	in.PeginWitness = peginWitness
	return nil
}

// ReadConfidentialOutFields reads the surjection and range proofs of one
// output into out.
func (r *Reader) ReadConfidentialOutFields(out *TxOutput) error {
	start := r.offset
	surjection, err := r.ReadVarSlice()
	if err != nil {
		return err
	}
	rangeProof, err := r.ReadVarSlice()
	if err != nil {
		r.offset = start
		return err
	}

	out.SurjectionProof = surjection
	out.RangeProof = rangeProof
	return nil
}
