// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dailyexamresult/notice-engine/internal/agent"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one full pipeline run",
	Long: `Run executes discovery, verification, generation, and validation once,
end to end, and stores the resulting drafts. With --dry-run, drafts are
written as YAML files instead of being stored.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "write drafts to the drafts directory instead of the store")
	runCmd.Flags().Bool("auto-publish", false, "publish drafts that pass every quality gate")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		viper.Set("agent.dry_run", true)
	}
	if autoPublish, _ := cmd.Flags().GetBool("auto-publish"); autoPublish {
		viper.Set("agent.auto_publish", true)
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if _, err := rt.store.SeedCategories(cmd.Context()); err != nil {
		return err
	}

	summary, err := rt.agent.Run(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}

	printSummary(summary)
	if summary.HasFailures() {
		return fmt.Errorf("%d signal(s) failed", len(summary.Failures))
	}
	return nil
}

func printSummary(summary agent.RunSummary) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Println()
	fmt.Printf("%s %s\n", cyan("Run:"), summary.RunID)
	fmt.Printf("  discovered: %d\n", summary.Discovered)
	fmt.Printf("  verified:   %d\n", summary.Verified)
	fmt.Printf("  saved:      %s\n", green(summary.Saved))
	fmt.Printf("  published:  %s\n", green(summary.Published))
	fmt.Printf("  skipped:    %s\n", yellow(summary.Skipped))
	if summary.HasFailures() {
		fmt.Printf("  failed:     %s\n", red(len(summary.Failures)))
		for _, f := range summary.Failures {
			fmt.Printf("    %s\n", red(f))
		}
	}
	fmt.Printf("  duration:   %s\n", summary.Duration)
}
