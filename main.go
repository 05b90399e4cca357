// cfg checks and edits schema-validated configuration files.
package main

import (
	"fmt"
	"os"

	"cfgfile/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
