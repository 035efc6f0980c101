package transaction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/txscript"
)

// SigHashType is the 4 byte hash type committed to by a signature.
type SigHashType = txscript.SigHashType

// SIGHASH flags (Bitcoin-derived).
//
// The low five bits select which outputs are signed; ANYONECANPAY restricts
// the input side to the input being signed.
const (
	SigHashAll          = txscript.SigHashAll          // Sign all inputs and outputs
	SigHashNone         = txscript.SigHashNone         // Sign all inputs but no outputs
	SigHashSingle       = txscript.SigHashSingle       // Sign all inputs and the output at the same index
	SigHashAnyoneCanPay = txscript.SigHashAnyOneCanPay // Sign only this input

	SigHashMask SigHashType = 0x1f
)

// BaseType returns the low five bits of t.
func BaseType(t SigHashType) SigHashType {
	return t & SigHashMask
}

// IsAnyoneCanPay reports whether t has the ANYONECANPAY bit set.
func IsAnyoneCanPay(t SigHashType) bool {
	return t&SigHashAnyoneCanPay != 0
}

// ParseSigHashType parses names such as "ALL", "single|anyonecanpay" or a
// numeric value like "0x83".
func ParseSigHashType(s string) (SigHashType, error) {
	var t SigHashType
	for _, part := range strings.Split(s, "|") {
		part = strings.ToUpper(strings.TrimSpace(part))
		part = strings.TrimPrefix(part, "SIGHASH_")

		switch part {
		case "ALL":
			t |= SigHashAll
		case "NONE":
			t |= SigHashNone
		case "SINGLE":
			t |= SigHashSingle
		case "ANYONECANPAY":
			t |= SigHashAnyoneCanPay
		default:
			n, err := strconv.ParseUint(part, 0, 32)
			if err != nil {
				return 0, fmt.Errorf("unknown sighash type %q", part)
			}
			t |= SigHashType(n)
		}
	}
	return t, nil
}

// SigHashString renders t the way ParseSigHashType reads it.
func SigHashString(t SigHashType) string {
	var base string
	switch BaseType(t) {
	case SigHashAll:
		base = "ALL"
	case SigHashNone:
		base = "NONE"
	case SigHashSingle:
		base = "SINGLE"
	default:
		return fmt.Sprintf("0x%x", uint32(t))
	}
	if t&^(SigHashMask|SigHashAnyoneCanPay) != 0 {
		return fmt.Sprintf("0x%x", uint32(t))
	}
	if IsAnyoneCanPay(t) {
		return base + "|ANYONECANPAY"
	}
	return base
}
