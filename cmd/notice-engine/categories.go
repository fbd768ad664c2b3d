// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage the portal category catalog",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		categories, err := rt.store.AllCategories(cmd.Context())
		if err != nil {
			return err
		}
		if len(categories) == 0 {
			fmt.Println("No categories. Run 'notice-engine categories seed' to install the defaults.")
			return nil
		}
		for _, c := range categories {
			fmt.Printf("%3d  %-12s %s\n", c.ID, c.Slug, c.Name)
		}
		return nil
	},
}

var categoriesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the default category catalog",
	Long:  `Seed installs the standard portal categories when the catalog is empty. It is a no-op otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		seeded, err := rt.store.SeedCategories(cmd.Context())
		if err != nil {
			return err
		}
		if seeded {
			fmt.Println("Default categories installed.")
		} else {
			fmt.Println("Catalog already populated; nothing to do.")
		}
		return nil
	},
}

func init() {
	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesSeedCmd)
	rootCmd.AddCommand(categoriesCmd)
}
