package main

import (
	"os"

	"github.com/critic-dev/critic/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
