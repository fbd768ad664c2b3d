// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// loadConfig overlays viper values (config file, then environment) on the
// built-in defaults and resolves the model API key from secrets.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()

	if viper.IsSet("store.path") {
		cfg.Store.Path = viper.GetString("store.path")
	}

	if viper.IsSet("discovery.aggregators") {
		cfg.Discovery.Aggregators = viper.GetStringSlice("discovery.aggregators")
	}
	if viper.IsSet("discovery.authorities") {
		cfg.Discovery.Authorities = viper.GetStringSlice("discovery.authorities")
	}
	if viper.IsSet("discovery.target_year") {
		year := viper.GetString("discovery.target_year")
		cfg.Discovery.TargetYear = year
		cfg.Verification.TargetYear = year
	}

	if viper.IsSet("verification.official_domains") {
		cfg.Verification.OfficialDomains = viper.GetStringSlice("verification.official_domains")
	}

	if viper.IsSet("ai.provider") {
		cfg.Generation.Provider = viper.GetString("ai.provider")
	}
	if viper.IsSet("ai.model") {
		cfg.Generation.Model = viper.GetString("ai.model")
	}
	if viper.IsSet("ai.max_attempts") {
		cfg.Generation.MaxAttempts = viper.GetInt("ai.max_attempts")
	}
	if viper.IsSet("generation.rate_limit") {
		cfg.Generation.RateLimit = viper.GetInt("generation.rate_limit")
	}
	if viper.IsSet("generation.rate_window") {
		cfg.Generation.RateWindow = viper.GetDuration("generation.rate_window")
	}

	if viper.IsSet("agent.dry_run") {
		cfg.Agent.DryRun = viper.GetBool("agent.dry_run")
	}
	if viper.IsSet("agent.auto_publish") {
		cfg.Agent.AutoPublish = viper.GetBool("agent.auto_publish")
	}
	if viper.IsSet("agent.schedule") {
		cfg.Agent.Schedule = viper.GetString("agent.schedule")
	}
	if viper.IsSet("agent.drafts_dir") {
		cfg.Agent.DraftsDir = viper.GetString("agent.drafts_dir")
	}
	if viper.IsSet("agent.thresholds.publish_confidence") {
		cfg.Agent.Thresholds.PublishConfidence = viper.GetFloat64("agent.thresholds.publish_confidence")
	}
	if viper.IsSet("agent.thresholds.publish_completeness") {
		cfg.Agent.Thresholds.PublishCompleteness = viper.GetFloat64("agent.thresholds.publish_completeness")
	}

	cfg.Generation.APIKey = resolveAPIKey(cfg.Generation.Provider, viper.GetString("ai.api_key"))
	return cfg
}

// resolveAPIKey prefers an explicit config/env value, then the provider's
// key file from the secrets directory.
func resolveAPIKey(provider, explicit string) string {
	switch provider {
	case "claude":
		return secretDefault("anthropic-api-key", explicit)
	default:
		return secretDefault("gemini-api-key", explicit)
	}
}
