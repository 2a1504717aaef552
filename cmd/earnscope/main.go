package main

import (
	"os"

	"github.com/minhvo/earnscope/cmd/earnscope/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
