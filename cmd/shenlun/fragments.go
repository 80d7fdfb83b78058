// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pdiddy/shenlun/internal/fragments"
	"github.com/pdiddy/shenlun/pkg/types"
)

var fragmentsCmd = &cobra.Command{
	Use:   "fragments",
	Short: "Inspect a fragment data source",
	Long: `Fragments loads the data source, prints the number of entries in each
category, and reports required categories that are missing or empty.`,
	RunE: runFragments,
}

func runFragments(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("data-source")

	store, err := openStore(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s  %s\n", "Category", "Entries")
	for _, c := range store.Categories() {
		entries, _ := store.Lookup(c)
		marker := ""
		if !slices.Contains(fragments.RequiredCategories, c) {
			marker = "  (unused)"
		}
		fmt.Fprintf(out, "%-20s  %d%s\n", c, len(entries), marker)
	}

	if err := store.Validate(); err != nil {
		fmt.Fprintln(out)
		for _, e := range unjoin(err) {
			fmt.Fprintf(out, "problem: %v\n", e)
		}
		return errors.New("data source is incomplete")
	}
	return nil
}

// unjoin splits an errors.Join result back into its parts.
func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func init() {
	fragmentsCmd.Flags().StringP("data-source", "d", types.DefaultDataSource, "fragment data source (JSON, or YAML by extension)")

	rootCmd.AddCommand(fragmentsCmd)
}
