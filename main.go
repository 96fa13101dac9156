package main

import (
	"os"

	"github.com/orglens/orglens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
