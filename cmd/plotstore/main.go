// Command plotstore serves live plot pages over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/plotstore/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
