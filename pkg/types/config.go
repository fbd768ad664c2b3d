// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that fetch pages
// or documents.
type HTTPConfig struct {
	// Timeout is the per-request timeout for page and PDF fetches.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// RobotsTimeout is the shorter timeout for robots.txt probes.
	RobotsTimeout time.Duration `json:"robots_timeout" yaml:"robots_timeout"`

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// RequestsPerSecond caps outbound request rate per fetcher as a
	// politeness measure. Zero disables the cap.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// AIConfig holds shared settings for stages that call a generative model.
type AIConfig struct {
	// Provider selects the model backend: "gemini" or "claude".
	Provider string `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gemini-1.5-pro").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the provider. Usually loaded from the
	// secrets directory rather than the config file.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxAttempts bounds the corrective retry loop for title-only
	// drafting (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// ScoringConfig holds the per-evidence confidence weights.
type ScoringConfig struct {
	PDFFound         float64 `json:"pdf_found" yaml:"pdf_found"`
	ApplyLink        float64 `json:"apply_link" yaml:"apply_link"`
	DatesConfirmed   float64 `json:"dates_confirmed" yaml:"dates_confirmed"`
	VacancyConfirmed float64 `json:"vacancy_confirmed" yaml:"vacancy_confirmed"`
}

// ThresholdConfig holds the auto-publish gates.
type ThresholdConfig struct {
	PublishConfidence   float64 `json:"publish_confidence" yaml:"publish_confidence"`
	PublishCompleteness float64 `json:"publish_completeness" yaml:"publish_completeness"`
}

// DiscoveryConfig holds settings for the discovery stage.
type DiscoveryConfig struct {
	HTTPConfig `yaml:",inline"`

	// Aggregators are the third-party listing sites scanned for signals.
	Aggregators []string `json:"aggregators" yaml:"aggregators"`

	// Authorities is the ordered table of known issuing bodies. Matching
	// takes the first entry contained in a title; order is the tie-break.
	Authorities []string `json:"authorities" yaml:"authorities"`

	// NoiseTerms discard anchors whose text contains any of them.
	NoiseTerms []string `json:"noise_terms" yaml:"noise_terms"`

	// Keywords keep anchors whose text contains at least one of them.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// TargetYear is the only notice year discovery lets through.
	TargetYear string `json:"target_year" yaml:"target_year"`
}

// VerificationConfig holds settings for the verification stage.
type VerificationConfig struct {
	HTTPConfig `yaml:",inline"`

	// OfficialDomains are hostname suffixes presumed to belong to a
	// government body.
	OfficialDomains []string `json:"official_domains" yaml:"official_domains"`

	// TargetYear drives the wrong-year veto: PDF text mentioning another
	// 202x year while omitting this one is rejected.
	TargetYear string `json:"target_year" yaml:"target_year"`

	// SnippetLimit bounds the extracted PDF text kept on the result.
	SnippetLimit int `json:"snippet_limit" yaml:"snippet_limit"`

	Scores ScoringConfig `json:"scores" yaml:"scores"`
}

// GenerationConfig holds settings for the generation stage.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// RateLimit is the number of model calls allowed per RateWindow
	// (default 5 per 60s, shared process-wide).
	RateLimit  int           `json:"rate_limit" yaml:"rate_limit"`
	RateWindow time.Duration `json:"rate_window" yaml:"rate_window"`

	// SnippetLimit bounds the official text embedded in the prompt.
	SnippetLimit int `json:"snippet_limit" yaml:"snippet_limit"`
}

// ValidationConfig holds the settings validation needs to finalize a draft.
type ValidationConfig struct {
	AutoPublish bool            `json:"auto_publish" yaml:"auto_publish"`
	Thresholds  ThresholdConfig `json:"thresholds" yaml:"thresholds"`
	Scores      ScoringConfig   `json:"scores" yaml:"scores"`
}

// StoreConfig holds settings for the content repository.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path"`
}

// AgentConfig holds settings for the daily run coordinator.
type AgentConfig struct {
	// AutoPublish enables automatic publication when every gate passes.
	AutoPublish bool `json:"auto_publish" yaml:"auto_publish"`

	// DryRun skips persistence and writes drafts to DraftsDir instead.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Schedule is the cron expression for the daily trigger.
	Schedule string `json:"schedule" yaml:"schedule"`

	// DraftsDir receives YAML draft dumps during dry runs.
	DraftsDir string `json:"drafts_dir" yaml:"drafts_dir"`

	Thresholds ThresholdConfig `json:"thresholds" yaml:"thresholds"`
}

// Config groups all stage configurations.
type Config struct {
	Discovery    DiscoveryConfig    `json:"discovery" yaml:"discovery"`
	Verification VerificationConfig `json:"verification" yaml:"verification"`
	Generation   GenerationConfig   `json:"generation" yaml:"generation"`
	Store        StoreConfig        `json:"store" yaml:"store"`
	Agent        AgentConfig        `json:"agent" yaml:"agent"`
}

// AgentVersion identifies the pipeline revision recorded in provenance.
const AgentVersion = "1.0.0"

// DefaultConfig returns the configuration the agent ships with. Viper
// overlays file and environment values on top of these.
func DefaultConfig() Config {
	http := HTTPConfig{
		Timeout:           20 * time.Second,
		RobotsTimeout:     5 * time.Second,
		UserAgent:         "notice-engine/" + AgentVersion,
		RequestsPerSecond: 1,
	}
	scores := ScoringConfig{
		PDFFound:         0.5,
		ApplyLink:        0.2,
		DatesConfirmed:   0.2,
		VacancyConfirmed: 0.1,
	}
	return Config{
		Discovery: DiscoveryConfig{
			HTTPConfig:  http,
			Aggregators: []string{"https://www.sarkariresult.com"},
			Authorities: []string{
				"UPSC", "SSC", "IBPS", "SBI", "RBI", "UPPSC", "BPSC",
				"RPSC", "MPPSC", "Indian Navy", "Indian Army", "Indian Air Force",
			},
			NoiseTerms: []string{"result", "app", "youtube", "portal"},
			Keywords:   []string{"apply", "online", "form", "notification", "result", "admit card"},
			TargetYear: "2026",
		},
		Verification: VerificationConfig{
			HTTPConfig:      http,
			OfficialDomains: []string{".gov.in", ".nic.in", ".org.in", ".edu.in", ".res.in"},
			TargetYear:      "2026",
			SnippetLimit:    3000,
			Scores:          scores,
		},
		Generation: GenerationConfig{
			AIConfig: AIConfig{
				Provider:    "gemini",
				Model:       "gemini-1.5-pro",
				MaxAttempts: 3,
			},
			RateLimit:    5,
			RateWindow:   time.Minute,
			SnippetLimit: 10000,
		},
		Store: StoreConfig{Path: "notice-engine.db"},
		Agent: AgentConfig{
			Schedule:  "0 2 * * *",
			DraftsDir: "out/drafts",
			Thresholds: ThresholdConfig{
				PublishConfidence:   0.95,
				PublishCompleteness: 95,
			},
		},
	}
}
