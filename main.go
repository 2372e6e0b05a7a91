package main

import (
	"os"

	"github.com/causaltools/looprank/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
