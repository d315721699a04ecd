package main

import (
	"os"

	"github.com/majorcontext/offcpu/cmd/offcpu/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
