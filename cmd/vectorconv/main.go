// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vectorconv CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vectorconv/internal/container"
	"github.com/pdiddy/vectorconv/internal/convert"
	"github.com/pdiddy/vectorconv/internal/engine"
	"github.com/pdiddy/vectorconv/internal/fetch"
	"github.com/pdiddy/vectorconv/internal/history"
	"github.com/pdiddy/vectorconv/internal/report"
	"github.com/pdiddy/vectorconv/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the vectorconv CLI.
var rootCmd = &cobra.Command{
	Use:   "vectorconv",
	Short: "Convert between PNG, SVG and PDF",
	Long: `vectorconv converts raster images to vector graphics and back (PNG to SVG,
SVG to PNG) and renders SVG to PDF and PDF pages to PNG. The work is delegated
to external engines (vtracer, rsvg-convert, inkscape, pdftoppm) with in-process
fallbacks where one exists.

Convert single files with png2svg, svg2png, svg2pdf and pdf2png, whole
patterns with batch, or pick files interactively with menu.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./vectorconv.yaml or ~/.config/vectorconv/vectorconv.yaml)")
	rootCmd.PersistentFlags().String("log-format", "text", "progress output format: text or ndjson")
	rootCmd.PersistentFlags().Bool("no-history", false, "do not record conversions in the history database")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vectorconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vectorconv"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("VECTORCONV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every configuration key so environment overrides
// apply even when no config file exists.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("engines.vtracer", d.Engines.Vtracer)
	v.SetDefault("engines.rsvg", d.Engines.Rsvg)
	v.SetDefault("engines.inkscape", d.Engines.Inkscape)
	v.SetDefault("engines.pdftoppm", d.Engines.Pdftoppm)
	v.SetDefault("engines.image", d.Engines.Image)
	v.SetDefault("engines.timeout", d.Engines.Timeout)
	v.SetDefault("defaults.dpi", d.Defaults.DPI)
	v.SetDefault("defaults.scale", d.Defaults.Scale)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.max_retries", d.Fetch.MaxRetries)
}

// loadConfig decodes the merged configuration.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if cfg.Defaults.DPI <= 0 {
		return cfg, fmt.Errorf("defaults.dpi must be positive, got %d", cfg.Defaults.DPI)
	}
	if cfg.Defaults.Scale <= 0 {
		return cfg, fmt.Errorf("defaults.scale must be positive, got %g", cfg.Defaults.Scale)
	}
	return cfg, nil
}

// app bundles what a conversion command needs.
type app struct {
	cfg     types.Config
	engines *engine.Set
	conv    *convert.Converter
	rep     report.Reporter
	store   *history.Store
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// defaultOptions returns the per-kind defaults with the configured DPI
// and scale applied.
func (a *app) defaultOptions() types.Options {
	opts := types.DefaultOptions().WithDPI(a.cfg.Defaults.DPI)
	opts.Raster.Scale = a.cfg.Defaults.Scale
	opts.PDF.Scale = a.cfg.Defaults.Scale
	return opts
}

// newApp loads the configuration and wires engines, reporter, downloads
// and history for cmd.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	format, _ := cmd.Flags().GetString("log-format")
	rep, err := report.New(report.Format(format), cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	var rt container.Runtime
	if cfg.Engines.Image != "" {
		rt, err = container.DetectRuntime(ctx)
		if err != nil {
			rep.Warn("container_unavailable", fmt.Sprintf("engines.image is set but %v", err), nil)
			rt = nil
		}
	}
	engines := engine.NewSet(cfg.Engines, rt)

	conv := convert.New(engines, rep)
	conv.Fetcher = fetch.New(cfg.Fetch)

	a := &app{cfg: cfg, engines: engines, conv: conv, rep: rep}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if cfg.History.Enabled && !noHistory {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			rep.Warn("history_unavailable", fmt.Sprintf("history disabled: %v", err), nil)
		} else {
			a.store = store
			conv.Recorder = store
		}
	}
	return a, nil
}

// failures turns a batch outcome into the command's exit status.
func failures(res types.BatchResult) error {
	if res.HasFailures() {
		return fmt.Errorf("%d file(s) failed", res.Failed)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
