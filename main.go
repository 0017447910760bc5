package main

import (
	"os"

	"github.com/abhisek/mockexam/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
