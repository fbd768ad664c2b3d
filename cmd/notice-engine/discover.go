// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan aggregator sites for new recruitment signals",
	Long: `Discover scans the configured aggregator sites, normalizes relevant
anchor titles into signals, and filters out notices already in the store.
Nothing is verified or saved; this surfaces what a full run would process.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().Bool("json", false, "output signals as JSON")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	signals, err := rt.discovery.Discover(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(signals)
	}

	if len(signals) == 0 {
		fmt.Println("No new signals found.")
		return nil
	}
	for _, sig := range signals {
		fmt.Printf("%-14s %-22s %s  %s\n", sig.Authority, sig.PostType, sig.Year, sig.RawTitle)
	}
	fmt.Printf("\n%d new signal(s)\n", len(signals))
	return nil
}
