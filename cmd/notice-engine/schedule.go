// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dailyexamresult/notice-engine/internal/agent"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a daily cron schedule",
	Long: `Schedule starts a long-running process that triggers a full pipeline run
on the configured cron expression (default "0 2 * * *"). Overlapping
triggers are rejected by the run guard; a trigger fired while a run is
still active is skipped.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().String("cron", "", `cron expression overriding the configured schedule`)

	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if spec, _ := cmd.Flags().GetString("cron"); spec != "" {
		viper.Set("agent.schedule", spec)
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if _, err := rt.store.SeedCategories(cmd.Context()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := agent.NewScheduler(rt.agent, rt.cfg.Agent.Schedule, os.Stdout)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	fmt.Fprintf(os.Stderr, "Scheduler running with spec %q; press Ctrl-C to stop\n",
		rt.cfg.Agent.Schedule)
	<-ctx.Done()
	return nil
}
