package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/mathgrade/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrIncorrect) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
