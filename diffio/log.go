/*
 * log.go, part of goDiffract.
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
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	diffract "github.com/rmera/godiffract"
)

//LogEntry is one block of the refinement log.
type LogEntry struct {
	RunID       uuid.UUID
	Time        time.Time
	DataFile    string
	Composition *diffract.Composition
	QMin        float64
	QMax        float64
	Smoothed    bool
	Mod         diffract.Modification
	Method      diffract.Method
	Density     float64 //initial density, atoms/A^3
	RMin        float64
	Iterations  int
	ChiSq       float64
	//The following are used only if the density was optimized.
	Optimized *diffract.DensityResult
	Bounds    diffract.Bounds
	Solver    string
}

//NewLogEntry returns an entry for the refinement in, with a new run id and the current time.
func NewLogEntry(datafile string, in diffract.RefineInput) *LogEntry {
	return &LogEntry{
		RunID:       uuid.New(),
		Time:        time.Now(),
		DataFile:    datafile,
		Composition: in.Composition,
		Mod:         in.Mod,
		Method:      in.Method,
		Density:     in.Density,
		RMin:        in.RMin,
		Iterations:  in.Iterations,
	}
}

func yn(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

//WriteTo writes the entry in the plain-text log format.
func (L *LogEntry) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString(strings.Repeat("#", 30) + "\n")
	b.WriteString(L.Time.Format(time.RFC3339) + "\n")
	b.WriteString("Run ID : " + L.RunID.String() + "\n")
	b.WriteString(strings.Repeat("#", 30) + "\n")
	b.WriteString("refinement_log\n" + Version + "\n\n")
	b.WriteString(strings.Repeat("-", 25) + "\n")
	fmt.Fprintf(&b, "Data File : %s\n", L.DataFile)
	fmt.Fprintf(&b, "Composition [Element: (Z, Charge, n)]: %v\n", L.Composition)
	fmt.Fprintf(&b, "Q_min : %v\n", L.QMin)
	fmt.Fprintf(&b, "Q_max : %v\n", L.QMax)
	fmt.Fprintf(&b, "Data smoothing? : %s\n", yn(L.Smoothed))
	fmt.Fprintf(&b, "Modification function : %s\n", L.Mod.Kind)
	if L.Mod.HasStart {
		fmt.Fprintf(&b, "Cosine window start : %v\n", L.Mod.WindowStart)
	} else {
		b.WriteString("Cosine window start : None\n")
	}
	fmt.Fprintf(&b, "S(Q) formulation : %s\n", L.Method)
	fmt.Fprintf(&b, "Density : %v\n", L.Density)
	fmt.Fprintf(&b, "r_min : %v\n", L.RMin)
	fmt.Fprintf(&b, "Number iterations (Eggert) : %d\n", L.Iterations)
	b.WriteString(strings.Repeat("*", 25) + "\n")
	fmt.Fprintf(&b, "Density refined? : %s\n", yn(L.Optimized != nil))
	if o := L.Optimized; o != nil {
		fmt.Fprintf(&b, "Solver : %s\n", L.Solver)
		fmt.Fprintf(&b, "Lower bound : %v\n", L.Bounds.Lower)
		fmt.Fprintf(&b, "Upper bound : %v\n", L.Bounds.Upper)
		b.WriteString(strings.Repeat("*", 25) + "\n")
		fmt.Fprintf(&b, "status: %s\nconverged: %v\nfunction evaluations: %d\nmajor iterations: %d\n", o.Status, o.Converged, o.FuncEvals, o.MajorIterations)
		if o.Message != "" {
			fmt.Fprintf(&b, "message: %s\n", o.Message)
		}
		b.WriteString(strings.Repeat("*", 25) + "\n\n")
		fmt.Fprintf(&b, "Refined density : %v (at/A^3)\n", o.Density)
		fmt.Fprintf(&b, "                  %v (g/cm3)\n", o.MassDensity)
	}
	fmt.Fprintf(&b, "Chi^2 : %v\n", L.ChiSq)
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

//AppendLog appends entry to the log file name, creating it if needed.
func AppendLog(name string, entry *LogEntry) error {
	f, err := create(name, true)
	if err != nil {
		return errDecorate(err, "AppendLog")
	}
	if _, err := entry.WriteTo(f); err != nil {
		f.Close()
		return newError(name, "AppendLog", err, "can't write log entry")
	}
	if err := f.Close(); err != nil {
		return newError(name, "AppendLog", err, "can't close log")
	}
	return nil
}
