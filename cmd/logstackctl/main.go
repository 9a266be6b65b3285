// Package main is the entry point for the logstackctl admin tool.
package main

import (
	"os"

	"github.com/logstackhq/logstack/cmd/logstackctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
