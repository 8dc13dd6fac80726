package main

import (
	"fmt"
	"os"

	"github.com/ivankudzin/matchdeck/internal/app/cliapp"
)

func main() {
	if err := cliapp.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
