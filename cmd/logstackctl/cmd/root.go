// Package cmd contains the CLI commands for logstackctl.
package cmd

import (
	"github.com/spf13/cobra"
)

const defaultDBPath = "data/logstack.db"

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "logstackctl",
	Short: "LogStack admin tool",
	Long: `logstackctl manages a LogStack deployment directly through its
database file. It is intended for system administrators; day-to-day
operations go through the HTTP API.

Examples:
  # List all accounts
  logstackctl user list

  # Create an operator account
  logstackctl user create --name jane --email jane@example.com`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
