// Command actortree is a small CLI that exercises the actor runtime: it
// builds a demo supervision tree, sends it messages, and prints the
// resulting structure and replies.
package main

import (
	"fmt"
	"os"

	"github.com/roasbeef/actortree/cmd/actortree/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
