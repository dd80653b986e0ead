// Command ccm2git converts a Synergy/CM release-chain snapshot into a git
// fast-import stream. Usage:
//
//	ccm2git [--blobs <dir>] [-o <path>] [--log <path>] <snapshot.json>
package main

import (
	"fmt"
	"os"
)

func main() {
	// runConvert handles its own exit-code mapping and os.Exit for
	// conversion errors; this covers cobra's own argument/flag parsing
	// failures and the log/snapshot/output file errors runConvert
	// returns before conversion starts.
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitOther)
	}
}
