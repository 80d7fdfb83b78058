// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/shenlun/internal/archive"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse essays stored with generate --save",
	Long: `History manages the local SQLite archive of generated essays. Use
subcommands to list, show, or export archived essays.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List archived essays, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := archive.Open(archiveConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background(), queryOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistoryList(cmd.OutOrStdout(), records, jsonOutput)
}

func formatHistoryList(w io.Writer, records []archive.Record, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No essays found.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-16s  %-7s  %s\n", "ID", "Created", "Theme", "Length", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, r := range records {
		fmt.Fprintf(w, "%-36s  %-20s  %-16s  %-7d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(r.Theme, 16), r.ActualLength, truncate(r.Title, 30))
	}
	fmt.Fprintf(w, "\n%d essays\n", len(records))
	return nil
}

// truncate shortens s to at most n characters.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived essay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archive.Open(archiveConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		r, err := store.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "生成的文章主题: %s\n", r.Theme)
		fmt.Fprintf(out, "生成的文章字数: %d\n", r.ActualLength)
		fmt.Fprintf(out, "seed: %d, index: %d\n", r.Seed, r.Index)
		fmt.Fprintln(out, "\n生成的文章:")
		fmt.Fprintln(out, r.Text())
		return nil
	},
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived essays to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("output")

		store, err := archive.Open(archiveConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		w := cmd.OutOrStdout()
		if path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			defer f.Close()
			w = f
		}

		if err := store.Export(context.Background(), queryOptsFromFlags(cmd, args), format, w); err != nil {
			return err
		}
		if path != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", path)
		}
		return nil
	},
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) archive.QueryOptions {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	theme, _ := cmd.Flags().GetString("theme")
	limit, _ := cmd.Flags().GetInt("limit")

	return archive.QueryOptions{
		Theme:      theme,
		Query:      query,
		MaxResults: limit,
	}
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().String("query", "", "substring to search for in essay text")
		c.Flags().String("theme", "", "filter by theme")
	}

	historyListCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	historyListCmd.Flags().Bool("json", false, "output results as JSON")

	historyExportCmd.Flags().String("format", archive.FormatYAML, "export format: yaml or json")
	historyExportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
