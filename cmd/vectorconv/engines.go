// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vectorconv/internal/engine"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "Show which conversion engines are available",
	Long: `Engines reports, for each external engine, whether it was found on PATH,
its version, whether it can run from the configured container image, and an
install hint when it is missing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		statuses := engine.Detect(cmd.Context(), a.engines)
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			data, err := json.MarshalIndent(statuses, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Engines:")
		engine.WriteTable(cmd.OutOrStdout(), statuses)
		return nil
	},
}

func init() {
	enginesCmd.Flags().Bool("json", false, "print the status as JSON")

	rootCmd.AddCommand(enginesCmd)
}
