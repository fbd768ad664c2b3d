// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the notice-engine CLI. The agent
// discovers recruitment notices on aggregator sites, verifies them
// against official government sources, drafts portal posts with a
// generative model, and stores them for editorial review.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dailyexamresult/notice-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, else the secret value for
// key if it exists.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the notice-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "notice-engine",
	Short: "Automated recruitment notice pipeline for an exam portal",
	Long: `notice-engine automates the daily content pipeline of a government exam
portal. It scans aggregator sites for recruitment signals, verifies each one
against official domains and notification PDFs, drafts a structured post with
a generative model, validates and scores the draft, and stores it for review.

Each stage is a subcommand for manual operation; the run and schedule
commands execute the full pipeline.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./notice-engine.yaml or ~/.config/notice-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("notice-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "notice-engine"))
		}
	}

	viper.SetEnvPrefix("NOTICE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
