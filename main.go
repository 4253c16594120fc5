package main

import (
	"update-appcast/cmd" // Import the cmd package which contains the CLI command and execution logic
)

// main hands the command line to cmd.Execute, which owns flag parsing,
// the appcast update and the process exit status.
//
// update-appcast is a release pipeline step that announces a new build to
// Sparkle auto-update clients:
//   - Collects release metadata from flags and/or a YAML manifest
//   - Optionally sizes and sanity-checks the local release archive
//   - Inserts one <item> as the newest release of appcast.xml and rewrites the file
//
// Exit status is 0 on success, 1 when the appcast cannot be parsed, has no
// <channel> or cannot be written, and 2 on usage errors.
func main() {
	cmd.Execute()
}
