// Package main is the entry point for the eqg CLI tool.
package main

import (
	"github.com/hargabyte/eqg/internal/cmd"
)

func main() {
	cmd.Execute()
}
