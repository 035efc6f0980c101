package main

import (
	"fmt"
	"io"

	"github.com/btcsuite/btclog"

	"github.com/Randy808/liquid-checksigfromstack-example/pkg/sighash"
	"github.com/Randy808/liquid-checksigfromstack-example/pkg/transaction"
)

// setupLoggers routes the library subsystems to w at the given level.
func setupLoggers(w io.Writer, level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("invalid log level %q", level)
	}

	backend := btclog.NewBackend(w)

	sghsLog := backend.Logger(sighash.Subsystem)
	sghsLog.SetLevel(lvl)
	sighash.UseLogger(sghsLog)

	txnsLog := backend.Logger(transaction.Subsystem)
	txnsLog.SetLevel(lvl)
	transaction.UseLogger(txnsLog)

	return nil
}
