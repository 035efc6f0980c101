// elements-sighash CLI - witness v0 signature hashes for Elements transactions
//
// This CLI exercises the library on raw transactions: decoding them and
// computing the preimage halves or the final message a signature for one of
// their inputs commits to.
//
// Example usage:
//
//	# Decode a transaction
//	elements-sighash decode 0200000001...
//
//	# Input half of the preimage for input 0
//	elements-sighash preimage 0200000001... --input 0 --sighash ALL \
//	    --script 76a914...88ac --amount 100000000 --section inputs
//
//	# Signing message for input 1
//	elements-sighash digest 0200000001... --input 1 --sighash SINGLE|ANYONECANPAY \
//	    --script 76a914...88ac --value 01000000000bebc200
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
