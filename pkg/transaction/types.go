// Package transaction implements the Elements transaction model and its
// binary codec.
//
// An Elements transaction extends the Bitcoin format with confidential
// outputs (asset, value and nonce commitments instead of a plain amount),
// asset issuance records attached to inputs and a witness section that also
// carries range and surjection proofs.
//
// The types in this file correspond to:
//   - elements/src/primitives/transaction.h (CTxIn, CTxOut, CTransaction)
//   - elements/src/asset.h (CAssetIssuance)
//
// The package is read-only with respect to the values passed in: the
// writers and the sighash code never modify a Transaction.
package transaction

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Transaction is an Elements transaction.
type Transaction struct {
	Version  int32       // Transaction version (2 for current wallets)
	Flag     uint8       // 1 when the witness section is serialized
	Locktime uint32      // nLockTime
	Inputs   []*TxInput  // Coins being spent
	Outputs  []*TxOutput // Coins being created
}

// TxInput is an input spending a previous output.
//
// Hash, Index, Sequence and Issuance enter the signature hash. The remaining
// fields are only needed to serialize the transaction.
type TxInput struct {
	Hash     chainhash.Hash // Previous transaction id, internal byte order
	Index    uint32         // Previous output index, without issuance/peg-in flags
	Sequence uint32         // nSequence
	Script   []byte         // scriptSig
	IsPegin  bool           // Input claims a peg-in from the parent chain

	// Issuance is set when this input creates or reissues an asset.
	Issuance *TxIssuance

	// Witness section
	Witness             [][]byte // Script witness stack
	PeginWitness        [][]byte // Peg-in witness stack
	IssuanceRangeProof  []byte   // Range proof for a blinded issuance amount
	InflationRangeProof []byte   // Range proof for a blinded token amount
}

// TxIssuance is the asset issuance record attached to an input.
type TxIssuance struct {
	AssetBlindingNonce []byte // 32 bytes, zero for new issuances
	AssetEntropy       []byte // 32 bytes, contract hash or reissuance entropy
	AssetAmount        []byte // Confidential value (1, 9 or 33 bytes)
	TokenAmount        []byte // Confidential value for reissuance tokens
}

// TxOutput is an Elements transaction output.
type TxOutput struct {
	Asset           []byte // Confidential asset (1 or 33 bytes)
	Value           []byte // Confidential value (1, 9 or 33 bytes)
	Nonce           []byte // Confidential nonce (1 or 33 bytes)
	Script          []byte // scriptPubKey
	SurjectionProof []byte // Present only for blinded outputs
	RangeProof      []byte // Present only for blinded outputs
}

// Outpoint flags and constants used by the input serialization.
const (
	DefaultSequence      uint32 = 0xffffffff
	CoinbaseIndex        uint32 = 0xffffffff
	OutpointIndexMask    uint32 = 0x3fffffff
	OutpointIssuanceFlag uint32 = 1 << 31
	OutpointPeginFlag    uint32 = 1 << 30

	// IssuanceNonceSize is the length of both the blinding nonce and the
	// entropy of an issuance.
	IssuanceNonceSize = 32
)

// NewTxInput returns an input spending hash:index with the default
// sequence.
func NewTxInput(hash chainhash.Hash, index uint32) *TxInput {
	return &TxInput{
		Hash:     hash,
		Index:    index,
		Sequence: DefaultSequence,
	}
}

// NewTxOutput returns an output with a null nonce.
func NewTxOutput(asset, value, script []byte) *TxOutput {
	return &TxOutput{
		Asset:  asset,
		Value:  value,
		Nonce:  []byte{0x00},
		Script: script,
	}
}

// HasIssuance reports whether the input carries an issuance record.
func (in *TxInput) HasIssuance() bool {
	return in.Issuance != nil
}

// IsCoinbase reports whether the input spends the null outpoint.
func (in *TxInput) IsCoinbase() bool {
	return in.Index == CoinbaseIndex && in.Hash == chainhash.Hash{}
}

// HasWitness reports whether the input has any data for the witness
// section.
func (in *TxInput) HasWitness() bool {
	return len(in.Witness) > 0 || len(in.PeginWitness) > 0 ||
		len(in.IssuanceRangeProof) > 0 || len(in.InflationRangeProof) > 0
}

// IsConfidential reports whether the output carries proofs.
func (out *TxOutput) IsConfidential() bool {
	return len(out.SurjectionProof) > 0 || len(out.RangeProof) > 0
}

// HasWitness reports whether the transaction serializes a witness section:
// either Flag is set or some input or output has witness data.
func (tx *Transaction) HasWitness() bool {
	if tx.Flag == 1 {
		return true
	}
	for _, in := range tx.Inputs {
		if in.HasWitness() {
			return true
		}
	}
	for _, out := range tx.Outputs {
		if out.IsConfidential() {
			return true
		}
	}
	return false
}
