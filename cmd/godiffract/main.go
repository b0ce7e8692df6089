/*
 * main.go, part of goDiffract.
 *
 * Copyright 2026 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Command godiffract computes structure factors and real-space distribution
//functions from x-ray diffraction patterns of liquids and amorphous solids,
//with optional Eggert refinement and density optimization.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"

	"github.com/rmera/godiffract/cmd/godiffract/config"
	"github.com/rmera/godiffract/diffio"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("godiffract failed", "error", err)
		os.Exit(1)
	}
}

//flags holds the command line values that can override the configuration file.
type flags struct {
	configPath string
	verbose    bool

	density     float64
	rmin        float64
	iterations  int
	method      string
	mod         string
	windowStart float64
	outDir      string
	optimize    bool
	lower       float64
	upper       float64
	jobs        int
}

func setupLogging(level string, verbose bool) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	//SetDefault also routes the library's log.Printf warnings through the handler.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

//loadConfig loads the configuration file and applies the flags that were set.
func (f *flags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	set := cmd.Flags().Changed
	if set("density") {
		cfg.Density = f.density
	}
	if set("rmin") {
		cfg.Refinement.RMin = f.rmin
	}
	if set("iterations") {
		cfg.Refinement.Iterations = f.iterations
	}
	if set("method") {
		cfg.Method = f.method
	}
	if set("mod") {
		cfg.Modification.Kind = f.mod
	}
	if set("window-start") {
		ws := f.windowStart
		cfg.Modification.WindowStart = &ws
	}
	if set("out") {
		cfg.Output.Dir = f.outDir
	}
	if set("optimize-density") {
		cfg.Optimizer.Enabled = f.optimize
	}
	if set("lower") {
		cfg.Optimizer.Lower = f.lower
	}
	if set("upper") {
		cfg.Optimizer.Upper = f.upper
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setupLogging(cfg.LogLevel, f.verbose)
	slog.Debug("Configuration loaded", "path", f.configPath)
	return cfg, nil
}

func addAnalysisFlags(cmd *cobra.Command, f *flags) {
	fl := cmd.Flags()
	fl.Float64Var(&f.density, "density", 0, "initial number density, atoms/A^3")
	fl.Float64Var(&f.rmin, "rmin", 0, "distance below which no atom pairs exist, A")
	fl.StringVar(&f.method, "method", "", "S(Q) formulation: ashcroft-langreth or faber-ziman")
	fl.StringVar(&f.mod, "mod", "", "modification function: none, lorch or cosine-window")
	fl.Float64Var(&f.windowStart, "window-start", 0, "Q at which the cosine window starts, 1/A")
	fl.StringVarP(&f.outDir, "out", "o", "", "output directory")
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "godiffract",
		Short:         "Structure factors and pair-distribution functions from x-ray diffraction of liquids",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", "godiffract.yaml", "configuration file")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	sqCmd := &cobra.Command{
		Use:   "sq [data file]",
		Short: "Compute S(Q), g(r) and the RDF of the unrefined data",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Refinement.Iterations = 0
			return analyseFiles(cmd.Context(), cfg, dataFiles(cfg, args), false, false, 1)
		},
	}
	addAnalysisFlags(sqCmd, f)

	refineCmd := &cobra.Command{
		Use:   "refine [data file]",
		Short: "Refine S(Q) with the Eggert procedure, optionally optimizing the density",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.loadConfig(cmd)
			if err != nil {
				return err
			}
			return analyseFiles(cmd.Context(), cfg, dataFiles(cfg, args), cfg.Optimizer.Enabled, true, 1)
		},
	}
	addAnalysisFlags(refineCmd, f)
	addRefineFlags(refineCmd, f)

	batchCmd := &cobra.Command{
		Use:   "batch data files...",
		Short: "Refine several data files concurrently, with the same configuration",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.loadConfig(cmd)
			if err != nil {
				return err
			}
			return analyseFiles(cmd.Context(), cfg, args, cfg.Optimizer.Enabled, true, f.jobs)
		},
	}
	addAnalysisFlags(batchCmd, f)
	addRefineFlags(batchCmd, f)
	batchCmd.Flags().IntVarP(&f.jobs, "jobs", "j", runtime.NumCPU(), "number of files processed at the same time")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefault(f.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default configuration written to %s\n", f.configPath)
			return nil
		},
	}
	configCmd.AddCommand(initCmd)

	root.AddCommand(sqCmd, refineCmd, batchCmd, configCmd)
	return root
}

func addRefineFlags(cmd *cobra.Command, f *flags) {
	fl := cmd.Flags()
	fl.IntVarP(&f.iterations, "iterations", "n", 0, "number of Eggert iterations")
	fl.BoolVar(&f.optimize, "optimize-density", false, "find the density that minimizes chi-squared")
	fl.Float64Var(&f.lower, "lower", 0, "lower density bound, atoms/A^3")
	fl.Float64Var(&f.upper, "upper", 0, "upper density bound, atoms/A^3")
}

//dataFiles returns the file given in args, or the one in the configuration.
func dataFiles(cfg *config.Config, args []string) []string {
	if len(args) > 0 {
		return args
	}
	if cfg.Data.File != "" {
		return []string{cfg.Data.File}
	}
	return nil
}

//analyseFiles analyses each file on its own goroutine, at most jobs at a time.
//A failed file does not stop the others. The summaries of every file are
//written, and an error is returned if any file failed.
func analyseFiles(ctx context.Context, cfg *config.Config, files []string, optimize, writeLog bool, jobs int) error {
	if len(files) == 0 {
		return fmt.Errorf("no data file given, either as an argument or in the configuration")
	}
	if jobs < 1 {
		jobs = 1
	}
	sums := make([]*diffio.Summary, len(files))
	var logMu sync.Mutex
	var failedMu sync.Mutex
	var failed []string
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			j := &job{cfg: cfg, file: name, optimize: optimize, writeLog: writeLog, logMu: &logMu}
			s, err := j.run(gctx)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Error("Analysis failed", "file", name, "error", err)
				failedMu.Lock()
				failed = append(failed, name)
				failedMu.Unlock()
				s = &diffio.Summary{DataFile: name, Error: err.Error()}
			}
			sums[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := writeSummary(cfg, sums); err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d file(s) failed: %s", len(failed), len(files), strings.Join(failed, ", "))
	}
	return nil
}
