package main

import (
	"os"

	"github.com/goliatone/go-formvalidate/cmd/formvalidate/commands"
)

func main() {
	os.Exit(commands.Execute())
}
