package main

import (
	"os"

	"github.com/rautio/react-analyzer/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
