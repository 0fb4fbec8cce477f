package commands

type GuardianCommand struct {
	Scan    ScanCommand    `command:"scan" description:"Scan a file, a directory or STDIN with the security, quality and compliance engines"`
	Version VersionCommand `command:"version" description:"Displays guardian version" alias:"V"`
}

var Guardian GuardianCommand
