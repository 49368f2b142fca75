package main

import (
	"fmt"
	"os"

	"github.com/jakoblorz/slnchain/internal/cli"
	"github.com/jakoblorz/slnchain/internal/tui"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.RenderError(err))
		os.Exit(1)
	}
}
