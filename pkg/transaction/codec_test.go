package transaction

import (
	"bytes"
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestWriterFixedWidth(t *testing.T) {
	w := WithCapacity(1 + 4 + 4 + 8)
	require.NoError(t, w.WriteUInt8(0xab))
	require.NoError(t, w.WriteInt32(-2))
	require.NoError(t, w.WriteUInt32(0x01020304))
	require.NoError(t, w.WriteUInt64(0x0102030405060708))

	out, err := w.End()
	require.NoError(t, err)
	assert.Equal(t, "ab"+"feffffff"+"04030201"+"0807060504030201", hex.EncodeToString(out))

	r := NewReader(out)
	u8, err := r.ReadUInt8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xab), u8)

	i32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i32)

	u32, err := r.ReadUInt32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), u32)

	u64, err := r.ReadUInt64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)
	assert.Equal(t, 0, r.Remaining())
}

func TestUInt64Range(t *testing.T) {
	cases := []struct {
		name string
		v    uint64
	}{
		{"zero", 0},
		{"max_safe_integer", 1<<53 - 1},
		{"two_pow_53", 1 << 53},
		{"max_uint64", math.MaxUint64},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := WithCapacity(8)
			require.NoError(t, w.WriteUInt64(tc.v))
			out, err := w.End()
			require.NoError(t, err)

			got, err := NewReader(out).ReadUInt64()
			require.NoError(t, err)
			assert.Equal(t, tc.v, got)
		})
	}
}

func TestWriteAmount(t *testing.T) {
	w := WithCapacity(8)
	require.NoError(t, w.WriteAmount(1<<53-1))
	_, err := w.End()
	require.NoError(t, err)

	w = WithCapacity(8)
	err = w.WriteAmount(-1)
	require.ErrorIs(t, err, ErrRange)
	assert.Equal(t, 0, w.Offset())

	// The failure is sticky.
	require.ErrorIs(t, w.WriteUInt64(1), ErrRange)
	_, err = w.End()
	require.ErrorIs(t, err, ErrRange)
}

func TestCheckUint(t *testing.T) {
	require.NoError(t, CheckUint(0, 8))
	require.NoError(t, CheckUint(255, 8))
	require.ErrorIs(t, CheckUint(256, 8), ErrRange)
	require.ErrorIs(t, CheckUint(-1, 32), ErrRange)
	require.NoError(t, CheckUint(math.MaxUint32, 32))
	require.ErrorIs(t, CheckUint(math.MaxUint32+1, 32), ErrRange)
	require.NoError(t, CheckUint(math.MaxInt64, 64))
}

func TestVarInt(t *testing.T) {
	cases := []struct {
		name string
		v    uint64
		enc  string
	}{
		{"zero", 0, "00"},
		{"max_single_byte", 0xfc, "fc"},
		{"min_uint16", 0xfd, "fdfd00"},
		{"max_uint16", 0xffff, "fdffff"},
		{"min_uint32", 0x10000, "fe00000100"},
		{"max_uint32", 0xffffffff, "feffffffff"},
		{"min_uint64", 0x100000000, "ff0000000001000000"},
		{"max_uint64", math.MaxUint64, "ffffffffffffffffff"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc := mustHex(t, tc.enc)

			w := WithCapacity(len(enc))
			require.NoError(t, w.WriteVarInt(tc.v))
			out, err := w.End()
			require.NoError(t, err)
			assert.Equal(t, enc, out)

			r := NewReader(enc)
			got, err := r.ReadVarInt()
			require.NoError(t, err)
			assert.Equal(t, tc.v, got)
			assert.Equal(t, len(enc), r.Offset())
		})
	}
}

func TestReadVarIntErrors(t *testing.T) {
	cases := []struct {
		name string
		enc  string
		want error
	}{
		{"empty", "", ErrOutOfBounds},
		{"truncated_uint16", "fd01", ErrOutOfBounds},
		{"truncated_uint32", "fe010203", ErrOutOfBounds},
		{"truncated_uint64", "ff01020304050607", ErrOutOfBounds},
		{"non_canonical_uint16", "fd1000", ErrNonCanonical},
		{"non_canonical_uint32", "feffff0000", ErrNonCanonical},
		{"non_canonical_uint64", "ffffffffff00000000", ErrNonCanonical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReader(mustHex(t, tc.enc))
			_, err := r.ReadVarInt()
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, 0, r.Offset(), "cursor must not move")
		})
	}
}

func TestWriterOutOfBounds(t *testing.T) {
	t.Run("fixed width", func(t *testing.T) {
		w := WithCapacity(3)
		err := w.WriteUInt32(1)
		require.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, 0, w.Offset())

		var cerr *CodecError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "WriteUInt32", cerr.Op)
		assert.Equal(t, 4, cerr.Need)
		assert.Equal(t, 3, cerr.Len)
	})

	t.Run("slice", func(t *testing.T) {
		w := WithCapacity(2)
		require.ErrorIs(t, w.WriteSlice([]byte{1, 2, 3}), ErrOutOfBounds)
	})

	t.Run("var slice checks prefix and body together", func(t *testing.T) {
		w := WithCapacity(3)
		require.ErrorIs(t, w.WriteVarSlice([]byte{1, 2, 3}), ErrOutOfBounds)
		assert.Equal(t, 0, w.Offset())
	})

	t.Run("varint", func(t *testing.T) {
		w := WithCapacity(2)
		require.ErrorIs(t, w.WriteVarInt(0xfd), ErrOutOfBounds)
		assert.Equal(t, 0, w.Offset())
	})

	t.Run("io.Writer", func(t *testing.T) {
		w := WithCapacity(1)
		n, err := w.Write([]byte{1, 2})
		require.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, 0, n)
	})
}

func TestEndSizeMismatch(t *testing.T) {
	script := []byte{0x51, 0x52, 0x53}

	t.Run("exact", func(t *testing.T) {
		w := WithCapacity(4 + VarSliceSize(script))
		w.WriteUInt32(7)
		w.WriteVarSlice(script)
		_, err := w.End()
		require.NoError(t, err)
	})

	t.Run("one byte too large", func(t *testing.T) {
		w := WithCapacity(4 + VarSliceSize(script) + 1)
		w.WriteUInt32(7)
		w.WriteVarSlice(script)
		_, err := w.End()
		require.ErrorIs(t, err, ErrSizeMismatch)
	})

	t.Run("one byte too small", func(t *testing.T) {
		w := WithCapacity(4 + VarSliceSize(script) - 1)
		w.WriteUInt32(7)
		w.WriteVarSlice(script)
		_, err := w.End()
		require.ErrorIs(t, err, ErrOutOfBounds)
	})
}

func TestVarSliceAndVector(t *testing.T) {
	big := bytes.Repeat([]byte{0x5a}, 300)
	vector := [][]byte{{0x01}, nil, big, {0x02, 0x03}}

	size := VarSliceSize(big) + VectorSize(vector)
	assert.Equal(t, 3+300, VarSliceSize(big))
	assert.Equal(t, 1+2+1+303+3, VectorSize(vector))

	w := WithCapacity(size)
	require.NoError(t, w.WriteVarSlice(big))
	require.NoError(t, w.WriteVector(vector))
	out, err := w.End()
	require.NoError(t, err)

	r := NewReader(out)
	gotSlice, err := r.ReadVarSlice()
	require.NoError(t, err)
	assert.Equal(t, big, gotSlice)

	gotVector, err := r.ReadVector()
	require.NoError(t, err)
	require.Len(t, gotVector, len(vector))
	for i := range vector {
		assert.Equal(t, len(vector[i]), len(gotVector[i]), "element %d", i)
		assert.True(t, bytes.Equal(vector[i], gotVector[i]), "element %d", i)
	}
	assert.Equal(t, 0, r.Remaining())
}

func TestReaderOutOfBounds(t *testing.T) {
	t.Run("fixed width", func(t *testing.T) {
		r := NewReader([]byte{1, 2, 3})
		_, err := r.ReadUInt32()
		require.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, 0, r.Offset())
	})

	t.Run("var slice longer than buffer", func(t *testing.T) {
		r := NewReader([]byte{0x05, 1, 2})
		_, err := r.ReadVarSlice()
		require.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, 0, r.Offset())
	})

	t.Run("vector count larger than buffer", func(t *testing.T) {
		r := NewReader(mustHex(t, "feffffff00"))
		_, err := r.ReadVector()
		require.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, 0, r.Offset())
	})

	t.Run("vector with truncated element", func(t *testing.T) {
		r := NewReader([]byte{0x02, 0x01, 0xaa, 0x02, 0xbb})
		_, err := r.ReadVector()
		require.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, 0, r.Offset())
	})
}

func TestConfidentialCommitments(t *testing.T) {
	cases := []struct {
		name string
		read func(*Reader) ([]byte, error)
		in   string
		size int
	}{
		{"asset_null", (*Reader).ReadConfidentialAsset, "00", 1},
		{"asset_unknown", (*Reader).ReadConfidentialAsset, "08", 1},
		{"asset_explicit", (*Reader).ReadConfidentialAsset, "01" + hex.EncodeToString(bytes.Repeat([]byte{0x6f}, 32)), 33},
		{"asset_explicit_ff", (*Reader).ReadConfidentialAsset, "ff" + hex.EncodeToString(bytes.Repeat([]byte{0x6f}, 32)), 33},
		{"asset_blinded", (*Reader).ReadConfidentialAsset, "0a" + hex.EncodeToString(bytes.Repeat([]byte{0x11}, 32)), 33},
		{"nonce_null", (*Reader).ReadConfidentialNonce, "00", 1},
		{"nonce_blinded", (*Reader).ReadConfidentialNonce, "03" + hex.EncodeToString(bytes.Repeat([]byte{0x22}, 32)), 33},
		{"value_null", (*Reader).ReadConfidentialValue, "00", 1},
		{"value_explicit", (*Reader).ReadConfidentialValue, "010000000005f5e100", 9},
		{"value_blinded", (*Reader).ReadConfidentialValue, "09" + hex.EncodeToString(bytes.Repeat([]byte{0x33}, 32)), 33},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := mustHex(t, tc.in)
			require.Len(t, in, tc.size)

			// Trailing bytes must not be consumed.
			r := NewReader(append(append([]byte{}, in...), 0xee, 0xee))
			got, err := tc.read(r)
			require.NoError(t, err)
			assert.Equal(t, in, got)
			assert.Equal(t, tc.size, r.Offset())

			w := WithCapacity(len(got))
			require.NoError(t, w.WriteSlice(got))
			out, err := w.End()
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestConfidentialTruncated(t *testing.T) {
	r := NewReader([]byte{0x08, 0x01, 0x02})
	_, err := r.ReadConfidentialValue()
	require.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, 0, r.Offset())

	_, err = NewReader(nil).ReadConfidentialAsset()
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestStrictCommitments(t *testing.T) {
	t.Run("lenient accepts unknown prefix", func(t *testing.T) {
		got, err := NewReader([]byte{0x42}).ReadConfidentialNonce()
		require.NoError(t, err)
		assert.Equal(t, []byte{0x42}, got)
	})

	t.Run("strict rejects unknown prefix", func(t *testing.T) {
		r := NewReader([]byte{0x42}, WithStrictCommitments())
		_, err := r.ReadConfidentialNonce()
		require.ErrorIs(t, err, ErrInvalidCommitment)
		assert.Equal(t, 0, r.Offset())
	})

	t.Run("strict rejects off-curve blinded value", func(t *testing.T) {
		in := append([]byte{0x09}, bytes.Repeat([]byte{0xff}, 32)...)
		_, err := NewReader(in, WithStrictCommitments()).ReadConfidentialValue()
		require.ErrorIs(t, err, ErrInvalidCommitment)
	})

	t.Run("strict accepts explicit value", func(t *testing.T) {
		in := mustHex(t, "010000000005f5e100")
		got, err := NewReader(in, WithStrictCommitments()).ReadConfidentialValue()
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})
}

func testIssuance() *TxIssuance {
	return &TxIssuance{
		AssetBlindingNonce: make([]byte, 32),
		AssetEntropy:       bytes.Repeat([]byte{0xe0}, 32),
		AssetAmount:        []byte{0x01, 0, 0, 0, 0, 0, 0, 0x03, 0xe8},
		TokenAmount:        []byte{0x00},
	}
}

func TestIssuance(t *testing.T) {
	iss := testIssuance()
	assert.Equal(t, 64+9+1, IssuanceSize(iss))
	assert.Equal(t, 0, IssuanceSize(nil))

	w := WithCapacity(IssuanceSize(iss))
	require.NoError(t, w.WriteIssuance(iss))
	out, err := w.End()
	require.NoError(t, err)

	got, err := NewReader(out).ReadIssuance()
	require.NoError(t, err)
	assert.Equal(t, iss, got)

	t.Run("short nonce", func(t *testing.T) {
		bad := testIssuance()
		bad.AssetBlindingNonce = bad.AssetBlindingNonce[:31]
		w := WithCapacity(IssuanceSize(bad))
		require.ErrorIs(t, w.WriteIssuance(bad), ErrSizeMismatch)
	})

	t.Run("truncated", func(t *testing.T) {
		r := NewReader(out[:len(out)-1])
		_, err := r.ReadIssuance()
		require.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, 0, r.Offset())
	})
}

func TestConfidentialFields(t *testing.T) {
	in := &TxInput{
		IssuanceRangeProof: []byte{0x01, 0x02},
		Witness:            [][]byte{{0x30, 0x44}, {0x02, 0x21}},
	}
	out := &TxOutput{
		SurjectionProof: bytes.Repeat([]byte{0x5e}, 70),
		RangeProof:      bytes.Repeat([]byte{0x60}, 260),
	}

	inSize := VarSliceSize(in.IssuanceRangeProof) + VarSliceSize(nil) +
		VectorSize(in.Witness) + VectorSize(nil)
	outSize := VarSliceSize(out.SurjectionProof) + VarSliceSize(out.RangeProof)

	w := WithCapacity(inSize + outSize)
	require.NoError(t, w.WriteConfidentialInFields(in))
	require.NoError(t, w.WriteConfidentialOutFields(out))
	raw, err := w.End()
	require.NoError(t, err)

	// Absent fields are encoded as zero-length.
	assert.Equal(t, []byte{0x02, 0x01, 0x02, 0x00, 0x02}, raw[:5])

	r := NewReader(raw)
	var gotIn TxInput
	var gotOut TxOutput
	require.NoError(t, r.ReadConfidentialInFields(&gotIn))
	require.NoError(t, r.ReadConfidentialOutFields(&gotOut))
	assert.Equal(t, *in, gotIn)
	assert.Equal(t, *out, gotOut)
	assert.Equal(t, 0, r.Remaining())
}
