package main

import (
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/codeguardian/guardian/commands"
)

func main() {
	parser := flags.NewParser(&commands.Guardian, flags.HelpFlag|flags.PrintErrors)
	parser.NamespaceDelimiter = "-"

	_, err := parser.Parse()
	if err != nil {
		os.Exit(1)
	}
}
