// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps robfig/cron and fires the daily run.
type Scheduler struct {
	cron  *cron.Cron
	agent *Agent
	spec  string
	out   io.Writer
}

// NewScheduler creates a scheduler that triggers the agent on the given
// cron spec (e.g. "0 2 * * *").
func NewScheduler(a *Agent, spec string, out io.Writer) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		agent: a,
		spec:  spec,
		out:   out,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("registering cron job: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] started with spec %q", s.spec)
	return nil
}

// Stop shuts the scheduler down. Jobs already running are not interrupted.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	summary, err := s.agent.Run(ctx, s.out)
	if err != nil {
		// An overlapping trigger is expected when a run outlasts the
		// schedule interval; anything else is a real failure.
		log.Printf("[scheduler] run error: %v", err)
		return
	}
	log.Printf("[scheduler] run %s complete: %d saved, %d skipped, %d failed",
		summary.RunID, summary.Saved, summary.Skipped, len(summary.Failures))
}
