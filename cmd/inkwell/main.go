package main

import (
	"os"

	"github.com/bookmint/inkwell/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
