package sighash

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Hasher computes hash256, the double-round digest every aggregate and the
// final signing message are built with.
type Hasher interface {
	Hash256(b []byte) chainhash.Hash
}

// HasherFunc adapts a function to the Hasher interface.
type HasherFunc func(b []byte) chainhash.Hash

func (f HasherFunc) Hash256(b []byte) chainhash.Hash {
	return f(b)
}

// DoubleSHA256 is SHA-256 applied twice, the hash Elements consensus uses.
var DoubleSHA256 Hasher = HasherFunc(chainhash.DoubleHashH)

// Option configures a preimage computation.
type Option func(*options)

type options struct {
	hasher Hasher
	hashes *TxSigHashes
}

func newOptions(opts []Option) *options {
	o := &options{hasher: DoubleSHA256}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithHasher replaces DoubleSHA256.
func WithHasher(h Hasher) Option {
	return func(o *options) {
		if h != nil {
			o.hasher = h
		}
	}
}

// WithSigHashes reuses precomputed aggregate digests instead of hashing the
// inputs and outputs again. c must have been built from the same
// transaction and with the same Hasher.
func WithSigHashes(c *TxSigHashes) Option {
	return func(o *options) {
		o.hashes = c
	}
}
