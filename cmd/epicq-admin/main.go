// Command epicq-admin is the operator CLI for the EPIC-Q backend. It applies database
// migrations and runs deletion analysis and execution outside API Gateway.
package main

import (
	"fmt"
	"os"
)

func main() {
	opts := &rootOptions{}
	cmd := newRootCommand(opts)
	err := cmd.Execute()
	opts.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
