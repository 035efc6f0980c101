package confidential

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
)

// ErrNegativeAmount is returned when a signed amount cannot be encoded as an
// unsigned explicit value.
var ErrNegativeAmount = errors.New("amount is negative")

// NewExplicitValue encodes amount as an explicit confidential value: the
// 0x01 prefix followed by the amount in big-endian order.
func NewExplicitValue(amount int64) ([]byte, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeAmount, amount)
	}

	out := make([]byte, ExplicitValueSize)
	out[0] = ExplicitPrefix
	binary.BigEndian.PutUint64(out[1:], uint64(amount))
	return out, nil
}

// ExplicitValue decodes the amount of an explicit confidential value.
func ExplicitValue(b []byte) (uint64, error) {
	if len(b) != ExplicitValueSize || Classify(KindValue, b[0]) != ClassExplicit {
		prefix := byte(0)
		if len(b) > 0 {
			prefix = b[0]
		}
		return 0, &Error{
			Kind:    KindValue,
			Prefix:  prefix,
			Message: fmt.Sprintf("not an explicit value (%d bytes)", len(b)),
		}
	}
	return binary.BigEndian.Uint64(b[1:]), nil
}

// ExplicitAmount is ExplicitValue as a btcutil.Amount. Values beyond the
// signed range are rejected.
func ExplicitAmount(b []byte) (btcutil.Amount, error) {
	v, err := ExplicitValue(b)
	if err != nil {
		return 0, err
	}
	if v > uint64(btcutil.MaxSatoshi) {
		return 0, &Error{
			Kind:    KindValue,
			Prefix:  b[0],
			Message: fmt.Sprintf("amount %d exceeds %d", v, int64(btcutil.MaxSatoshi)),
		}
	}
	return btcutil.Amount(v), nil
}
