// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vectorconv/internal/history"
	"github.com/pdiddy/vectorconv/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or export past conversions",
	Long: `History lists the conversions recorded in the history database, newest
first. Use --summary for per-conversion counts and --export to write the
selected entries to a YAML file (or JSON when the name ends in .json).`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries (0 for all)")
	historyCmd.Flags().String("kind", "", "only this conversion: png2svg, svg2png, svg2pdf or pdf2png")
	historyCmd.Flags().Bool("failed", false, "only failed conversions")
	historyCmd.Flags().String("run", "", "only the conversions of this run ID")
	historyCmd.Flags().Bool("summary", false, "print counts per conversion instead of entries")
	historyCmd.Flags().String("export", "", "write the entries to this YAML or JSON file")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		rows, err := store.Summary(ctx)
		if err != nil {
			return err
		}
		history.WriteSummary(out, rows)
		return nil
	}

	var f history.Filter
	f.Limit, _ = cmd.Flags().GetInt("limit")
	f.RunID, _ = cmd.Flags().GetString("run")
	if k, _ := cmd.Flags().GetString("kind"); k != "" {
		if f.Kind, err = types.ParseKind(k); err != nil {
			return err
		}
	}
	if failed, _ := cmd.Flags().GetBool("failed"); failed {
		f.Status = types.StatusFailed
	}

	entries, err := store.List(ctx, f)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		if err := history.ExportFile(path, entries); err != nil {
			return err
		}
		fmt.Fprintf(out, "exported %d entries to %s\n", len(entries), path)
		return nil
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "no conversions recorded")
		return nil
	}
	history.WriteTable(out, entries)
	return nil
}
