package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/Randy808/liquid-checksigfromstack-example/pkg/api"
	"github.com/Randy808/liquid-checksigfromstack-example/pkg/confidential"
	"github.com/Randy808/liquid-checksigfromstack-example/pkg/transaction"
)

// txSpewer dumps decoded transactions for --verbose.
var txSpewer = &spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                5,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func newDecodeCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <txhex>",
		Short: "Decode a transaction and print its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := decodeHexArg(args)
			if err != nil {
				return err
			}
			tx, err := api.ParseTransaction(raw, cfg.strict)
			if err != nil {
				return err
			}

			if cfg.verbose {
				txSpewer.Fdump(cmd.OutOrStdout(), tx)
				return nil
			}
			return printTx(cmd.OutOrStdout(), tx)
		},
	}
	cmd.Flags().BoolVarP(&cfg.verbose, "verbose", "v", false, "dump every field")
	return cmd
}

func printTx(w io.Writer, tx *transaction.Transaction) error {
	txid, err := tx.TxHash()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "txid:     %v\n", txid)
	fmt.Fprintf(w, "version:  %d\n", tx.Version)
	fmt.Fprintf(w, "locktime: %d\n", tx.Locktime)
	fmt.Fprintf(w, "size:     %d (%d without witness)\n",
		tx.SerializeSize(true), tx.SerializeSize(false))

	fmt.Fprintf(w, "inputs:   %d\n", len(tx.Inputs))
	for i, in := range tx.Inputs {
		fmt.Fprintf(w, "  [%d] %v:%d sequence=%#08x", i, in.Hash, in.Index, in.Sequence)
		if in.IsPegin {
			fmt.Fprint(w, " pegin")
		}
		if in.HasIssuance() {
			fmt.Fprintf(w, " issuance(amount=%s, token=%s)",
				describeCommitment(confidential.KindValue, in.Issuance.AssetAmount),
				describeCommitment(confidential.KindValue, in.Issuance.TokenAmount))
		}
		if len(in.Witness) > 0 {
			fmt.Fprintf(w, " witness=%d", len(in.Witness))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "outputs:  %d\n", len(tx.Outputs))
	for i, out := range tx.Outputs {
		fmt.Fprintf(w, "  [%d] asset=%s value=%s nonce=%s script=%s\n", i,
			describeCommitment(confidential.KindAsset, out.Asset),
			describeCommitment(confidential.KindValue, out.Value),
			describeCommitment(confidential.KindNonce, out.Nonce),
			hex.EncodeToString(out.Script))
	}
	return nil
}

// describeCommitment renders explicit values as an amount and everything
// else by class.
func describeCommitment(kind confidential.Kind, b []byte) string {
	c, _, err := confidential.Parse(kind, b)
	if err != nil {
		return "invalid"
	}

	switch c.Class {
	case confidential.ClassExplicit:
		if kind == confidential.KindValue {
			if amt, err := confidential.ExplicitAmount(b); err == nil {
				return amt.String()
			}
		}
		return hex.EncodeToString(b[1:])
	case confidential.ClassBlinded:
		return "blinded"
	default:
		return "null"
	}
}
