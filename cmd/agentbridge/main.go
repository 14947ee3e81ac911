// Command agentbridge runs the conversational agent router: a Temporal
// worker hosting the routing workflows plus client commands to exercise
// them.
package main

import (
	"fmt"
	"os"

	"agentbridge/cmd/agentbridge/commands"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	commands.SetVersion(version, commit)

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
