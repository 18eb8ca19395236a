// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vectorconv/internal/convert"
	"github.com/pdiddy/vectorconv/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch PATTERN OUTPUT_DIR --type KIND | batch --from JOBS.yaml",
	Short: "Convert every file matching a pattern",
	Long: `Batch converts every file matching PATTERN into OUTPUT_DIR, one at a time,
and prints a summary of converted, skipped and failed files. A "**" element
in the pattern matches any number of directories; the matched files keep
their relative directory under OUTPUT_DIR.

With --from, the jobs listed in a YAML file run in order instead:

  jobs:
    - name: icons
      type: svg2png
      input: "art/**/*.svg"
      output: build/icons
      dpi: 300
      options:
        raster:
          width: 256`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("type", "", "conversion: png2svg, svg2png, svg2pdf or pdf2png")
	batchCmd.Flags().String("from", "", "run the jobs in a YAML job file")
	batchCmd.Flags().Bool("skip-existing", false, "skip inputs whose output already exists")
	addDPIFlag(batchCmd.Flags(), "resolution for svg2png, svg2pdf and pdf2png")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	if from == "" && len(args) != 2 {
		return fmt.Errorf("provide PATTERN and OUTPUT_DIR, or --from JOBS.yaml")
	}
	if from != "" && len(args) != 0 {
		return fmt.Errorf("--from takes no positional arguments")
	}

	var jobs []convert.Job
	var kind types.Kind
	if from != "" {
		var err error
		if jobs, err = convert.LoadJobFile(from); err != nil {
			return err
		}
	} else {
		typ, _ := cmd.Flags().GetString("type")
		if typ == "" {
			return fmt.Errorf("--type is required (png2svg, svg2png, svg2pdf or pdf2png)")
		}
		var err error
		if kind, err = types.ParseKind(typ); err != nil {
			return err
		}
	}

	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	opts := applyFlags(cmd.Flags(), a.defaultOptions())

	if from != "" {
		return failures(a.conv.RunJobs(cmd.Context(), jobs, opts))
	}

	skip, _ := cmd.Flags().GetBool("skip-existing")
	res, err := a.conv.Batch(cmd.Context(), args[0], args[1], kind, convert.BatchOptions{Options: opts, SkipExisting: skip})
	if err != nil {
		return err
	}
	return failures(res)
}
