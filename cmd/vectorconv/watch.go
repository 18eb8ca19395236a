// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vectorconv/internal/watch"
	"github.com/pdiddy/vectorconv/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR OUTPUT_DIR --type KIND",
	Short: "Convert files as they appear in a directory",
	Long: `Watch converts every file with the conversion's input extension that is
created or rewritten in DIR, writing the result to OUTPUT_DIR. A file is
converted once it has been quiet for the debounce period. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("type", "", "conversion: png2svg, svg2png, svg2pdf or pdf2png")
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a changed file is converted")
	watchCmd.Flags().Bool("existing", false, "also convert the files already in DIR")
	addDPIFlag(watchCmd.Flags(), "resolution for svg2png, svg2pdf and pdf2png")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	typ, _ := cmd.Flags().GetString("type")
	if typ == "" {
		return fmt.Errorf("--type is required (png2svg, svg2png, svg2pdf or pdf2png)")
	}
	kind, err := types.ParseKind(typ)
	if err != nil {
		return err
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")
	existing, _ := cmd.Flags().GetBool("existing")

	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	w := &watch.Watcher{
		Dir:      args[0],
		OutDir:   args[1],
		Kind:     kind,
		Options:  applyFlags(cmd.Flags(), a.defaultOptions()),
		Debounce: debounce,
		Existing: existing,
		Conv:     a.conv,
		Reporter: a.rep,
	}
	res, err := w.Run(cmd.Context())
	if err != nil {
		return err
	}
	return failures(res)
}
