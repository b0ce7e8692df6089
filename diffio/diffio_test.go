/*
 * diffio_test.go, part of goDiffract.
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
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	diffract "github.com/rmera/godiffract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadColumns(t *testing.T) {
	data := "# comment\n\n0.0 1.0 5\n0.1, 2.0, 6\n\t0.2\t3.0\t7\n"
	cols, err := ReadColumns(strings.NewReader(data), "mem")
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, []float64{0, 0.1, 0.2}, cols[0])
	assert.Equal(t, []float64{1, 2, 3}, cols[1])

	_, err = ReadColumns(strings.NewReader("1 2\n3\n"), "mem")
	assert.Error(t, err)
	_, err = ReadColumns(strings.NewReader("1 a\n"), "mem")
	assert.Error(t, err)
	_, err = ReadColumns(strings.NewReader("# only comments\n"), "mem")
	assert.Error(t, err)
}

func TestRoundTripCompressed(t *testing.T) {
	dir := t.TempDir()
	x := []float64{0, 0.5, 1, 1.5}
	y := []float64{3, 2.5, -1, 1e-9}
	for _, ext := range []string{".dat", ".dat.zst", ".dat.gz"} {
		name := filepath.Join(dir, "curve"+ext)
		require.NoError(t, writeFile(name, "test", []string{"a header"}, x, y))
		c, err := ReadCurve(name)
		require.NoError(t, err, ext)
		assert.InDeltaSlice(t, x, c.X, 1e-15, ext)
		assert.InDeltaSlice(t, y, c.Y, 1e-15, ext)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "curve.dat.zst"))
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "a header"), "zstd output should be compressed")
}

func TestReadCurveErrors(t *testing.T) {
	_, err := ReadCurve(filepath.Join(t.TempDir(), "missing.dat"))
	require.Error(t, err)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Contains(t, e.FileName(), "missing.dat")
	assert.True(t, e.Critical())
	assert.True(t, errors.Is(err, os.ErrNotExist))

	name := filepath.Join(t.TempDir(), "one.dat")
	require.NoError(t, os.WriteFile(name, []byte("1\n2\n"), 0o644))
	_, err = ReadCurve(name)
	assert.Error(t, err)
}

func testRefinement(t *testing.T) (*diffract.Refinement, diffract.RefineInput) {
	comp, err := diffract.NewComposition(nil, diffract.Entry{Symbol: "Ar", Amount: 1})
	require.NoError(t, err)
	q := make([]float64, 401)
	iq := make([]float64, len(q))
	for i := range q {
		q[i] = float64(i) * 0.025
		iq[i] = -0.5 * (1 - q[i]/10) * (1 - q[i]/10)
	}
	I, err := diffract.Intensity(comp, q, iq, 1)
	require.NoError(t, err)
	in := diffract.RefineInput{Q: q, Intensity: I, Composition: comp, Density: 0.02, RMin: 2, Iterations: 1, Mod: diffract.Lorch()}
	ref, err := diffract.Refine(in)
	require.NoError(t, err)
	return ref, in
}

func TestWriteResults(t *testing.T) {
	ref, in := testRefinement(t)
	dir := t.TempDir()
	sqname := filepath.Join(dir, "sample_SQ.dat")
	require.NoError(t, WriteSQ(sqname, ref, in.Mod))
	cols, err := readFile(sqname)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Len(t, cols[0], len(ref.Q))
	raw, err := os.ReadFile(sqname)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "# Q|S(Q)|i(Q)*M(Q)")
	assert.Contains(t, string(raw), "# M(Q) : lorch")
	assert.True(t, strings.HasPrefix(string(raw), "# Refined S(Q)\n"))

	unrefined := *ref
	unrefined.Iterations = 0
	require.NoError(t, WriteSQ(sqname, &unrefined, in.Mod))
	raw, err = os.ReadFile(sqname)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "# S(Q)\n"))
	assert.NotContains(t, string(raw), "Refined")

	require.NoError(t, WriteSQ(sqname, ref, diffract.NoModification))
	cols, err = readFile(sqname)
	require.NoError(t, err)
	assert.Len(t, cols, 2)

	gr, err := diffract.Transform(ref.Q, ref.Refined, ref.Density, in.Mod, diffract.PairDist)
	require.NoError(t, err)
	grname := filepath.Join(dir, "sample_gr.dat")
	require.NoError(t, WriteGr(grname, gr))
	c, err := ReadCurve(grname)
	require.NoError(t, err)
	assert.InDeltaSlice(t, gr.Y, c.Y, 1e-12)
	require.NoError(t, WriteRDF(filepath.Join(dir, "sample_rdf.dat"), gr))
}

func readFile(name string) ([][]float64, error) {
	f, err := open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadColumns(f, name)
}

func TestAppendLog(t *testing.T) {
	ref, in := testRefinement(t)
	name := filepath.Join(t.TempDir(), "refinement.log")
	e1 := NewLogEntry("sample.dat", in)
	e1.ChiSq = ref.ChiSq
	require.NoError(t, AppendLog(name, e1))
	e2 := NewLogEntry("sample.dat", in)
	e2.Optimized = &diffract.DensityResult{Density: 0.021, MassDensity: 1.39, Status: "FunctionConvergence", Converged: true}
	e2.Bounds = diffract.Bounds{Lower: 0.01, Upper: 0.03}
	e2.Solver = "L-BFGS"
	require.NoError(t, AppendLog(name, e2))
	raw, err := os.ReadFile(name)
	require.NoError(t, err)
	text := string(raw)
	assert.Equal(t, 2, strings.Count(text, "refinement_log\n"))
	assert.Contains(t, text, e1.RunID.String())
	assert.Contains(t, text, e2.RunID.String())
	assert.NotEqual(t, e1.RunID, e2.RunID)
	assert.Contains(t, text, "Density refined? : N")
	assert.Contains(t, text, "Density refined? : Y")
	assert.Contains(t, text, "Refined density : 0.021 (at/A^3)")
	assert.Contains(t, text, "Composition [Element: (Z, Charge, n)]: {Ar: (18, 0, 1)}")
}

func TestSummaryJSON(t *testing.T) {
	ref, in := testRefinement(t)
	entry := NewLogEntry("sample.dat", in)
	res := &diffract.Result{Refinement: ref}
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryJSON(&buf, NewSummary(entry, res), NewSummary(entry, nil)))
	var back []Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back, 2)
	assert.Equal(t, entry.RunID.String(), back[0].RunID)
	assert.InDelta(t, ref.ChiSq, back[0].ChiSq, 1e-12*ref.ChiSq+1e-300)
	assert.False(t, back[0].Optimized)
	assert.Equal(t, "ashcroft-langreth", back[1].Method)
}
