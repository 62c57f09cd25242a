package main

import (
	"fmt"
	"os"

	"go-chi-calculator/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "calc:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
