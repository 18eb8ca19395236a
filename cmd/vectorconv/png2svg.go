// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/vectorconv/pkg/types"
)

var png2svgCmd = &cobra.Command{
	Use:   "png2svg INPUT",
	Short: "Trace a PNG into an SVG",
	Long: `png2svg traces a bitmap into vector paths with vtracer. INPUT may be a
file, an http(s) URL or a glob pattern; BMP, TIFF and WebP files are
re-encoded as PNG first. The default preset favors quality; --preset simple
raises color precision and curve fitting iterations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingle(cmd, args, types.KindPNGToSVG)
	},
}

func init() {
	addOutputFlags(png2svgCmd)
	addTraceFlags(png2svgCmd.Flags())
	addDPIFlag(png2svgCmd.Flags(), "accepted for compatibility; tracing is resolution independent")

	rootCmd.AddCommand(png2svgCmd)
}
