package sighash

import (
	"context"
	"runtime"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Randy808/liquid-checksigfromstack-example/pkg/transaction"
)

// Request describes one input to compute a signing message for.
type Request struct {
	InputIndex    int
	HashType      transaction.SigHashType
	PrevOutScript []byte
	InputValue    []byte
}

// BatchMessages computes Message for every request concurrently. The
// aggregate digests are computed once and shared unless WithSigHashes
// already supplies them. Results are in request order.
func BatchMessages(ctx context.Context, tx *transaction.Transaction,
	reqs []Request, opts ...Option) ([]chainhash.Hash, error) {

	o := newOptions(opts)
	if o.hashes == nil && len(reqs) > 1 {
		hashes, err := NewTxSigHashes(tx, o.hasher)
		if err != nil {
			return nil, errors.Wrap(err, "sighash midstate")
		}
		opts = append(opts[:len(opts):len(opts)], WithSigHashes(hashes))
	}

	log.Debugf("Computing %d signing messages", len(reqs))

	msgs := make([]chainhash.Hash, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			msg, err := Message(tx, req.InputIndex, req.HashType,
				req.PrevOutScript, req.InputValue, opts...)
			if err != nil {
				return errors.Wrapf(err, "request %d", i)
			}
			msgs[i] = msg
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return msgs, nil
}
