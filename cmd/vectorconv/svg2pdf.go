// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/vectorconv/pkg/types"
)

var svg2pdfCmd = &cobra.Command{
	Use:   "svg2pdf INPUT",
	Short: "Export an SVG as PDF",
	Long:  `svg2pdf exports an SVG to PDF with rsvg-convert, falling back to inkscape.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingle(cmd, args, types.KindSVGToPDF)
	},
}

func init() {
	addOutputFlags(svg2pdfCmd)
	addDPIFlag(svg2pdfCmd.Flags(), "resolution used for rasterized effects")
	addScaleFlag(svg2pdfCmd.Flags())
	addBackgroundFlag(svg2pdfCmd.Flags())

	rootCmd.AddCommand(svg2pdfCmd)
}
