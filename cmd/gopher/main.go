package main

import (
	"context"
	"os"

	"github.com/insha/gopher/internal/cli"
)

// Main runs the command and returns the process exit code.
func Main() int {
	if err := cli.Execute(context.Background(), os.Args[1:]); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(Main())
}
