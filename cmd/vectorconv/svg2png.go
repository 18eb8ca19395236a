// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/vectorconv/pkg/types"
)

var svg2pngCmd = &cobra.Command{
	Use:   "svg2png INPUT",
	Short: "Rasterize an SVG into a PNG",
	Long: `svg2png renders an SVG to PNG. rsvg-convert is tried first, then inkscape,
then the built-in rasterizer. Every method that fails is reported before the
next one runs. The PNG records the requested DPI as its pixel density.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingle(cmd, args, types.KindSVGToPNG)
	},
}

func init() {
	addOutputFlags(svg2pngCmd)
	addDPIFlag(svg2pngCmd.Flags(), "output resolution in dots per inch")
	addScaleFlag(svg2pngCmd.Flags())
	addSizeFlags(svg2pngCmd.Flags())
	addBackgroundFlag(svg2pngCmd.Flags())

	rootCmd.AddCommand(svg2pngCmd)
}
