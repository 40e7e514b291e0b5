// SPDX-License-Identifier: EPL-2.0

// Command audstream extracts per-block audio features and converts audio
// files.
//
// Usage:
//
//	audstream [--config file] [--log-level level] <command> [args]
//
// Commands:
//
//	features  - print one feature vector per block of an audio file
//	convert   - decode, resample and write an audio file as WAV
//	formats   - list the supported input formats
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
