package main

import (
	"os"

	"github.com/solatis/formforge/cmd/formforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
