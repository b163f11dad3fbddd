package main

import (
	"os"

	"github.com/funvibe/stackvm/pkg/cli"
)

func main() {
	os.Exit(cli.NewApp().Run(os.Args[1:]))
}
