/*
 * run.go, part of goDiffract.
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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	diffract "github.com/rmera/godiffract"
	"github.com/rmera/godiffract/cmd/godiffract/config"
	"github.com/rmera/godiffract/datamanip"
	"github.com/rmera/godiffract/diffio"
)

//pattern is a preprocessed diffraction pattern.
type pattern struct {
	q, intensity []float64
}

//loadPattern reads the file name and applies the preprocessing configured in d.
func loadPattern(name string, d config.Data) (*pattern, error) {
	c, err := diffio.ReadCurve(name)
	if err != nil {
		return nil, err
	}
	x, y := c.X, c.Y
	if d.TwoTheta {
		if x, err = datamanip.TwoThetaToQ(x, d.Wavelength); err != nil {
			return nil, err
		}
	}
	if d.Background != "" {
		bkg, err := diffio.ReadCurve(d.Background)
		if err != nil {
			return nil, err
		}
		if len(bkg.Y) != len(y) {
			return nil, fmt.Errorf("background %s has %d points, data %s has %d", d.Background, len(bkg.Y), name, len(y))
		}
		scale := d.BackgroundScale
		if scale == 0 {
			if scale, err = datamanip.BackgroundScale(y, bkg.Y, 1); err != nil {
				return nil, err
			}
			slog.Debug("Background scale fitted", "file", name, "scale", scale)
		}
		if y, err = datamanip.SubtractBackground(y, bkg.Y, scale); err != nil {
			return nil, err
		}
	}
	if d.RebinStep > 0 {
		if x, y, err = datamanip.Rebin(x, y, d.RebinStep); err != nil {
			return nil, err
		}
	}
	if d.QMin > 0 || d.QMax > 0 {
		if x, y, err = datamanip.CutQ(x, y, d.QMin, d.QMax); err != nil {
			return nil, err
		}
	}
	if d.Smooth.Enabled {
		if y, err = datamanip.SavitzkyGolay(y, d.Smooth.Window, d.Smooth.Order); err != nil {
			return nil, err
		}
	}
	if d.ZeroNorm {
		y = datamanip.ZeroNorm(y)
	}
	return &pattern{q: x, intensity: y}, nil
}

//job is the analysis of one file.
type job struct {
	cfg      *config.Config
	file     string
	optimize bool
	writeLog bool
	logMu    *sync.Mutex //serializes appends to the shared refinement log
}

//outputBase returns the path, without suffix, of the result files for the data file name.
func outputBase(dir, name string) string {
	base := filepath.Base(name)
	for _, ext := range []string{".zst", ".zstd", ".gz"} {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base)
}

//run analyses the file of the job, writes the results and returns the
//summary of the analysis.
func (j *job) run(ctx context.Context) (*diffio.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := slog.With("file", j.file)
	p, err := loadPattern(j.file, j.cfg.Data)
	if err != nil {
		return nil, err
	}
	in, err := j.cfg.RefineInput(p.q, p.intensity)
	if err != nil {
		return nil, err
	}
	opts, err := j.cfg.Options()
	if err != nil {
		return nil, err
	}
	entry := diffio.NewLogEntry(j.file, in)
	entry.QMin, entry.QMax = j.cfg.Data.QMin, j.cfg.Data.QMax
	entry.Smoothed = j.cfg.Data.Smooth.Enabled
	logger.Info("Analysing", "run_id", entry.RunID, "composition", in.Composition.String(), "points", len(p.q), "iterations", in.Iterations)
	res, err := diffract.Analyse(diffract.AnalysisInput{RefineInput: in, OptimizeDensity: j.optimize, Bounds: j.cfg.Bounds()}, opts)
	if err != nil {
		return nil, err
	}
	entry.ChiSq = res.Refinement.ChiSq
	if res.Density != nil {
		entry.Optimized = res.Density
		entry.Bounds = j.cfg.Bounds()
		entry.Solver = "L-BFGS"
		logger.Info("Density optimized", "density", res.Density.Density, "mass_density", res.Density.MassDensity, "status", res.Density.Status, "evaluations", res.Density.FuncEvals)
		if !res.Density.Converged {
			logger.Warn("Density optimization did not converge", "message", res.Density.Message)
		}
	}
	logger.Info("Refinement done", "chi_sq", res.Refinement.ChiSq, "alpha", res.SQ.Alpha)
	dir := j.cfg.Output.Dir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	base := outputBase(dir, j.file)
	if err := diffio.WriteSQ(base+"_SQ.dat", res.Refinement, in.Mod); err != nil {
		return nil, err
	}
	if err := diffio.WriteGr(base+"_gr.dat", res.Gr); err != nil {
		return nil, err
	}
	if err := diffio.WriteRDF(base+"_rdf.dat", res.RDF); err != nil {
		return nil, err
	}
	if j.writeLog && j.cfg.Output.Log != "" {
		j.logMu.Lock()
		err := diffio.AppendLog(filepath.Join(dir, j.cfg.Output.Log), entry)
		j.logMu.Unlock()
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("Results written", "base", base)
	return diffio.NewSummary(entry, res), nil
}

//writeSummary writes the JSON summary of the analyses, if configured.
func writeSummary(cfg *config.Config, sums []*diffio.Summary) error {
	if cfg.Output.Summary == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(cfg.Output.Dir, cfg.Output.Summary))
	if err != nil {
		return err
	}
	if err := diffio.WriteSummaryJSON(f, sums...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
