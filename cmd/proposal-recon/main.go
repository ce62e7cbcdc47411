// Package main provides the CLI entrypoint for proposal-recon.
//
// proposal-recon compares the change proposals an agent produced against the
// expected ones:
//   - compare: reconcile a case file and print the verdict and diff
//   - template: evaluate {{...}} date expressions in free text
//   - transformers: list the registered transformers
//   - check-config: validate configuration and transformer definitions
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
