// Command typeql checks, formats and normalises TypeQL queries written as
// CUE documents.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/typeql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
