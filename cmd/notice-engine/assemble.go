// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/dailyexamresult/notice-engine/internal/agent"
	"github.com/dailyexamresult/notice-engine/internal/discovery"
	"github.com/dailyexamresult/notice-engine/internal/fetch"
	"github.com/dailyexamresult/notice-engine/internal/generation"
	"github.com/dailyexamresult/notice-engine/internal/pdftext"
	"github.com/dailyexamresult/notice-engine/internal/store"
	"github.com/dailyexamresult/notice-engine/internal/verification"
	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// runtime holds the assembled pipeline for one CLI invocation. Close
// releases the content store.
type runtime struct {
	cfg       types.Config
	store     *store.Store
	agent     *agent.Agent
	discovery *discovery.Service
	backend   generation.ModelBackend
	limiter   *generation.Limiter
}

func (r *runtime) Close() error {
	return r.store.Close()
}

// buildRuntime wires every stage from configuration. Collaborators are
// constructed here and injected; no package holds global state.
func buildRuntime() (*runtime, error) {
	cfg := loadConfig()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening content store: %w", err)
	}

	disc := discovery.New(fetch.New(cfg.Discovery.HTTPConfig), st, cfg.Discovery)
	ver := verification.New(fetch.New(cfg.Verification.HTTPConfig), pdftext.Extractor{}, cfg.Verification)

	backend := buildBackend(cfg.Generation.AIConfig)
	limiter := generation.NewLimiter(cfg.Generation.RateLimit, cfg.Generation.RateWindow)
	gen := generation.NewService(backend, limiter, cfg.Generation)

	return &runtime{
		cfg:       cfg,
		store:     st,
		agent:     agent.New(disc, ver, gen, st, cfg.Agent, cfg.Verification.Scores),
		discovery: disc,
		backend:   backend,
		limiter:   limiter,
	}, nil
}

func buildBackend(cfg types.AIConfig) generation.ModelBackend {
	if cfg.Provider == "claude" {
		return generation.NewClaudeBackend(cfg)
	}
	return generation.NewGeminiBackend(cfg)
}
