// Package main is the entry point for the sqldedupe CLI application.
// It collapses near-duplicate SQL queries in exported query logs.
package main

import (
	"sqldedupe/cli/cmd"
)

// main is the entry point for the sqldedupe CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
