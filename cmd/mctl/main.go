// Command mctl is the Meridian console CLI: session management, access
// to projects, deliverables, tickets, users, and organizations.
package main

import (
	"os"

	"github.com/meridianhq/mctl/cmd/mctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
