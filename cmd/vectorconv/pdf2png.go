// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/vectorconv/pkg/types"
)

var pdf2pngCmd = &cobra.Command{
	Use:   "pdf2png INPUT",
	Short: "Render PDF pages as PNG",
	Long: `pdf2png renders each selected page with pdftoppm. A single-page document
is written to the output name; longer documents get one file per page named
<base>-<n>.png. When pdftoppm is unavailable pages are extracted and
rasterized in-process.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingle(cmd, args, types.KindPDFToPNG)
	},
}

func init() {
	addOutputFlags(pdf2pngCmd)
	addDPIFlag(pdf2pngCmd.Flags(), "render resolution in dots per inch")
	addSizeFlags(pdf2pngCmd.Flags())
	addBackgroundFlag(pdf2pngCmd.Flags())
	pdf2pngCmd.Flags().Int("first", 0, "first page to render (1-based, default first page)")
	pdf2pngCmd.Flags().Int("last", 0, "last page to render (default last page)")

	rootCmd.AddCommand(pdf2pngCmd)
}
