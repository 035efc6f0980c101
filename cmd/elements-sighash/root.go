package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Randy808/liquid-checksigfromstack-example/pkg/api"
	"github.com/Randy808/liquid-checksigfromstack-example/pkg/sighash"
	"github.com/Randy808/liquid-checksigfromstack-example/pkg/transaction"
)

const appVersion = "v0.1.0"

// config holds the values of all command line flags.
type config struct {
	logLevel string
	strict   bool
	verbose  bool

	input    int
	hashType string
	script   string
	value    string
	amount   int64
	section  string
}

func newRootCmd() *cobra.Command {
	cfg := &config{}

	root := &cobra.Command{
		Use:           "elements-sighash",
		Short:         "Witness v0 signature hashes for Elements transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLoggers(cmd.ErrOrStderr(), cfg.logLevel)
		},
	}

	root.PersistentFlags().StringVar(&cfg.logLevel, "loglevel", "info",
		"log level: trace|debug|info|warn|error|critical|off")
	root.PersistentFlags().BoolVar(&cfg.strict, "strict", false,
		"reject confidential commitments outside the prefix table")

	root.AddCommand(
		newDecodeCmd(cfg),
		newPreimageCmd(cfg),
		newDigestCmd(cfg),
		newVersionCmd(),
	)
	return root
}

// addSighashFlags registers the flags shared by preimage and digest.
func addSighashFlags(cmd *cobra.Command, cfg *config) {
	f := cmd.Flags()
	f.IntVar(&cfg.input, "input", 0, "index of the input to sign")
	f.StringVar(&cfg.hashType, "sighash", "ALL", "hash type, e.g. ALL, SINGLE|ANYONECANPAY or 0x83")
	f.StringVar(&cfg.script, "script", "", "script code of the spent output (hex)")
	f.StringVar(&cfg.value, "value", "", "value commitment of the spent output (hex)")
	f.Int64Var(&cfg.amount, "amount", -1, "explicit amount of the spent output in satoshis, instead of --value")
}

func decodeHexArg(args []string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(args[0]))
	if err != nil {
		return nil, fmt.Errorf("transaction is not valid hex: %w", err)
	}
	return raw, nil
}

// sighashRequest builds the request from the positional transaction and the
// shared flags.
func (cfg *config) sighashRequest(args []string) (api.SighashRequest, error) {
	var req api.SighashRequest

	raw, err := decodeHexArg(args)
	if err != nil {
		return req, err
	}

	hashType, err := transaction.ParseSigHashType(cfg.hashType)
	if err != nil {
		return req, err
	}

	script, err := hex.DecodeString(cfg.script)
	if err != nil {
		return req, fmt.Errorf("invalid --script: %w", err)
	}

	var value []byte
	switch {
	case cfg.value != "" && cfg.amount >= 0:
		return req, fmt.Errorf("--value and --amount are mutually exclusive")
	case cfg.value != "":
		if value, err = hex.DecodeString(cfg.value); err != nil {
			return req, fmt.Errorf("invalid --value: %w", err)
		}
	case cfg.amount >= 0:
		if value, err = api.ExplicitValue(cfg.amount); err != nil {
			return req, err
		}
	default:
		return req, fmt.Errorf("one of --value or --amount is required")
	}

	return api.SighashRequest{
		TxBytes:    raw,
		InputIndex: cfg.input,
		HashType:   hashType,
		ScriptCode: script,
		InputValue: value,
		Strict:     cfg.strict,
	}, nil
}

func parseSection(s string) (sighash.Section, error) {
	switch strings.ToLower(s) {
	case "inputs", "input", "in":
		return sighash.SectionInputs, nil
	case "outputs", "output", "out":
		return sighash.SectionOutputs, nil
	default:
		return 0, fmt.Errorf("unknown section %q (want inputs or outputs)", s)
	}
}

func newPreimageCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preimage <txhex>",
		Short: "Print one half of the witness v0 preimage for an input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := cfg.sighashRequest(args)
			if err != nil {
				return err
			}
			section, err := parseSection(cfg.section)
			if err != nil {
				return err
			}

			preimage, err := api.GetSighashPreimage(req, section)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(preimage))
			return nil
		},
	}
	addSighashFlags(cmd, cfg)
	cmd.Flags().StringVar(&cfg.section, "section", "inputs", "preimage half: inputs|outputs")
	return cmd
}

func newDigestCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest <txhex>",
		Short: "Print the message a signature for an input commits to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := cfg.sighashRequest(args)
			if err != nil {
				return err
			}

			msg, err := api.GetSighash(req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(msg[:]))
			return nil
		},
	}
	addSighashFlags(cmd, cfg)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "elements-sighash %s\n", appVersion)
		},
	}
}
