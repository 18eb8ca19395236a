// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/vectorconv/internal/menu"
)

var menuCmd = &cobra.Command{
	Use:   "menu [DIR]",
	Short: "Pick files to convert from an interactive menu",
	Long: `Menu lists the PNG, SVG and PDF files of DIR (default the current
directory) and converts the chosen file, or all matching files, into
svg_output, png_output or pdf_output below it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		a, err := newApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		m := menu.New(dir, a.conv, a.defaultOptions(), cmd.InOrStdin(), cmd.OutOrStdout())
		return m.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
