package commands

import (
	"os"

	"github.com/mgutz/ansi"

	"github.com/codeguardian/guardian/engines"
)

var (
	red    = ansi.ColorFunc("red+b")
	yellow = ansi.ColorFunc("yellow+b")
	green  = ansi.ColorFunc("green+b")
	cyan   = ansi.ColorFunc("cyan")
)

func severityColor(severity engines.Severity) func(string) string {
	switch severity {
	case engines.Critical, engines.High:
		return red
	case engines.Medium:
		return yellow
	default:
		return cyan
	}
}

// plainUnlessTerminal turns colouring off when stdout is a pipe or a file.
func plainUnlessTerminal() {
	fi, err := os.Stdout.Stat()
	ansi.DisableColors(err != nil || fi.Mode()&os.ModeCharDevice == 0)
}
