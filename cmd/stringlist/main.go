package main

import (
	"os"

	"github.com/idilsaglam/stringlist/internal/cli"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], cli.Options{
		Version: version + " " + commit + " " + date,
	}))
}
