/*
 * summary.go, part of goDiffract.
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

package diffio

import (
	"encoding/json"
	"io"

	diffract "github.com/rmera/godiffract"
)

//Summary is the machine-readable record of one analysis.
type Summary struct {
	RunID          string  `json:"run_id"`
	DataFile       string  `json:"data_file"`
	Composition    string  `json:"composition"`
	Method         string  `json:"method"`
	Modification   string  `json:"modification"`
	InitialDensity float64 `json:"initial_density"`
	Density        float64 `json:"density"`
	MassDensity    float64 `json:"mass_density"`
	RMin           float64 `json:"r_min"`
	Iterations     int     `json:"iterations"`
	Alpha          float64 `json:"alpha"`
	ChiSq          float64 `json:"chi_sq"`
	Optimized      bool    `json:"density_optimized"`
	Converged      bool    `json:"converged,omitempty"`
	Status         string  `json:"status,omitempty"`
	FuncEvals      int     `json:"function_evaluations,omitempty"`
	Error          string  `json:"error,omitempty"`
}

//NewSummary builds the summary of res for the log entry entry.
func NewSummary(entry *LogEntry, res *diffract.Result) *Summary {
	S := &Summary{
		RunID:          entry.RunID.String(),
		DataFile:       entry.DataFile,
		Method:         entry.Method.String(),
		Modification:   entry.Mod.String(),
		InitialDensity: entry.Density,
		RMin:           entry.RMin,
		Iterations:     entry.Iterations,
	}
	if entry.Composition != nil {
		S.Composition = entry.Composition.String()
	}
	if res == nil {
		return S
	}
	if res.SQ != nil {
		S.Alpha = res.SQ.Alpha
	}
	if r := res.Refinement; r != nil {
		S.Density = r.Density
		S.ChiSq = r.ChiSq
		if entry.Composition != nil {
			S.MassDensity = diffract.MassDensity(r.Density, entry.Composition)
		}
	}
	if d := res.Density; d != nil {
		S.Optimized = true
		S.Converged = d.Converged
		S.Status = d.Status
		S.FuncEvals = d.FuncEvals
	}
	return S
}

//WriteSummaryJSON writes the summaries to w as an indented JSON array.
func WriteSummaryJSON(w io.Writer, sums ...*Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if sums == nil {
		sums = []*Summary{}
	}
	return enc.Encode(sums)
}
