package main

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Randy808/liquid-checksigfromstack-example/pkg/transaction"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func testTxHex(t *testing.T) string {
	t.Helper()

	tx := &transaction.Transaction{
		Version: 2,
		Inputs: []*transaction.TxInput{
			transaction.NewTxInput(chainhash.Hash{0x01}, 0),
		},
		Outputs: []*transaction.TxOutput{
			transaction.NewTxOutput(
				append([]byte{0x01}, bytes.Repeat([]byte{0x6d}, 32)...),
				[]byte{0x01, 0, 0, 0, 0, 0x05, 0xf5, 0xe1, 0x00},
				[]byte{0x51},
			),
		},
	}
	raw, err := transaction.Serialize(tx)
	require.NoError(t, err)
	return hex.EncodeToString(raw)
}

func TestDecode(t *testing.T) {
	out, err := run(t, "decode", testTxHex(t))
	require.NoError(t, err)
	assert.Contains(t, out, "inputs:   1")
	assert.Contains(t, out, "value=1 BTC")
	assert.Contains(t, out, "nonce=null")

	_, err = run(t, "decode", "zz")
	require.Error(t, err)
}

func TestPreimageAndDigest(t *testing.T) {
	txHex := testTxHex(t)
	flags := []string{"--input", "0", "--sighash", "ALL", "--script", "76a914" + strings.Repeat("00", 20) + "88ac", "--amount", "100000000"}

	in, err := run(t, append([]string{"preimage", txHex, "--section", "inputs"}, flags...)...)
	require.NoError(t, err)
	out, err := run(t, append([]string{"preimage", txHex, "--section", "outputs"}, flags...)...)
	require.NoError(t, err)

	inBytes, err := hex.DecodeString(in)
	require.NoError(t, err)
	outBytes, err := hex.DecodeString(out)
	require.NoError(t, err)
	assert.Len(t, outBytes, 40)

	digest, err := run(t, append([]string{"digest", txHex}, flags...)...)
	require.NoError(t, err)

	want := chainhash.DoubleHashH(append(inBytes, outBytes...))
	assert.Equal(t, hex.EncodeToString(want[:]), digest)
}

func TestSighashFlagErrors(t *testing.T) {
	txHex := testTxHex(t)

	_, err := run(t, "digest", txHex, "--script", "51")
	require.Error(t, err, "missing value")

	_, err = run(t, "digest", txHex, "--script", "51", "--amount", "1", "--value", "00")
	require.Error(t, err, "both value and amount")

	_, err = run(t, "digest", txHex, "--amount", "1", "--sighash", "BOGUS")
	require.Error(t, err)

	_, err = run(t, "digest", txHex, "--amount", "1", "--input", "3")
	require.Error(t, err)

	_, err = run(t, "preimage", txHex, "--amount", "1", "--section", "neither")
	require.Error(t, err)

	_, err = run(t, "--loglevel", "loud", "version")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "elements-sighash "+appVersion, out)
}
