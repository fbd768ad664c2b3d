// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/dailyexamresult/notice-engine/internal/generation"
	"github.com/dailyexamresult/notice-engine/pkg/types"
)

var draftCmd = &cobra.Command{
	Use:   "draft <title>",
	Short: "Draft a single post from a notice title",
	Long: `Draft generates one structured post from a free-form notice title,
without discovery or verification. The model output is validated and
regenerated with corrective feedback up to the attempt limit. The result
is stored as a draft, or written to a YAML file with --out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().String("out", "", "write the draft to this YAML file instead of the store")

	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if _, err := rt.store.SeedCategories(cmd.Context()); err != nil {
		return err
	}

	slugExists := func(slug string) (bool, error) {
		return rt.store.SlugExists(cmd.Context(), slug)
	}
	flow := generation.NewTitleFlow(rt.backend, rt.limiter, rt.cfg.Generation.MaxAttempts, slugExists)

	draft, err := flow.Create(cmd.Context(), title, os.Stderr)
	if err != nil {
		return err
	}
	if err := assignDraftCategory(cmd.Context(), rt, &draft); err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		return writeDraftFile(out, draft)
	}

	if err := rt.store.InsertPost(cmd.Context(), &draft); err != nil {
		return err
	}
	fmt.Printf("Draft saved: %s\n", draft.Slug)
	return nil
}

// assignDraftCategory resolves the model's category name against the
// catalog, falling back to the jobs listing.
func assignDraftCategory(ctx context.Context, rt *runtime, draft *types.PostDraft) error {
	if draft.Category != "" {
		c, err := rt.store.CategoryByNameContains(ctx, draft.Category)
		if err != nil {
			return err
		}
		if c != nil {
			draft.Category = c.Name
			draft.CategoryID = c.ID
			return nil
		}
	}
	c, err := rt.store.CategoryBySlug(ctx, "latest-jobs")
	if err != nil {
		return err
	}
	if c != nil {
		draft.Category = c.Name
		draft.CategoryID = c.ID
	}
	return nil
}

func writeDraftFile(path string, draft types.PostDraft) error {
	data, err := yaml.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshaling draft: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Draft written: %s\n", path)
	return nil
}
