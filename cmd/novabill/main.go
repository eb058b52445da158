package main

import (
	"os"

	"github.com/platinummonkey/novabill/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
