package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of notice-engine",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("notice-engine %s (pipeline %s)\n", version, types.AgentVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
