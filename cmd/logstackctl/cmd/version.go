package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logstackhq/logstack/pkg/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit, and build time of logstackctl.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.VersionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
