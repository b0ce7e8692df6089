/*
 * eggert_test.go, part of goDiffract.
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

package diffract

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/integrate"
)

//testInterference is a liquid-like interference function: a damped first
//shell at 3.8 A on top of a small-angle term.
func testInterference(q []float64) []float64 {
	ret := make([]float64, len(q))
	for i, v := range q {
		x := 3.8 * v
		shell := 1.0
		if x != 0 {
			shell = math.Sin(x) / x
		}
		ret[i] = 0.8*shell*math.Exp(-0.01*v*v) - 0.6*math.Exp(-0.5*v*v)
	}
	return ret
}

func argonInput(Te *testing.T, iterations int) RefineInput {
	ar := argon(Te)
	q := qGrid(0.02, 15)
	I, err := Intensity(ar, q, testInterference(q), 2.5)
	if err != nil {
		Te.Fatal(err)
	}
	return RefineInput{
		Q:           q,
		Intensity:   I,
		Composition: ar,
		Density:     0.0213,
		RMin:        2.5,
		DPQ:         3.8,
		Iterations:  iterations,
		Method:      FaberZiman,
		Mod:         Lorch(),
	}
}

func TestRefineNoIterations(Te *testing.T) {
	in := argonInput(Te, 0)
	ref, err := Refine(in)
	if err != nil {
		Te.Fatal(err)
	}
	for i := range ref.Q {
		if ref.Refined[i] != ref.Initial[i] {
			Te.Fatalf("Without iterations the data should not change, Q=%v", ref.Q[i])
		}
	}
	fr, err := ReducedPDF(ref.Q, ref.Initial, in.Mod)
	if err != nil {
		Te.Fatal(err)
	}
	var r, df2 []float64
	for i, v := range fr.X {
		if v >= in.RMin {
			break
		}
		d := fr.Y[i] + 4*math.Pi*in.Density*v
		r = append(r, v)
		df2 = append(df2, d*d)
	}
	expected := integrate.Trapezoidal(r, df2)
	if math.Abs(ref.ChiSq-expected) > 1e-9*expected {
		Te.Errorf("Unrefined chi-squared should be %v, got %v", expected, ref.ChiSq)
	}
	chi, err := ChiSquared(in)
	if err != nil {
		Te.Fatal(err)
	}
	if chi != ref.ChiSq {
		Te.Errorf("ChiSquared and Refine disagree: %v, %v", chi, ref.ChiSq)
	}
}

func TestRefineImproves(Te *testing.T) {
	unref, err := Refine(argonInput(Te, 0))
	if err != nil {
		Te.Fatal(err)
	}
	ref, err := Refine(argonInput(Te, 5))
	if err != nil {
		Te.Fatal(err)
	}
	Te.Logf("chi^2 unrefined: %v refined: %v", unref.ChiSq, ref.ChiSq)
	if ref.ChiSq > unref.ChiSq {
		Te.Errorf("Refinement increased chi-squared: %v > %v", ref.ChiSq, unref.ChiSq)
	}
	if ref.Iterations != 5 {
		Te.Errorf("Expected 5 iterations, got %d", ref.Iterations)
	}
	s := ref.RefinedSQ()
	for i := range s {
		if math.Abs(s[i]-ref.Refined[i]-ref.SInf[i]) > 1e-12 {
			Te.Fatalf("Refined S(Q) is not i(Q)+S_inf at Q=%v", ref.Q[i])
		}
	}
	//The same refinement, from the interference function.
	refined, chi, err := RefineInterference(ref.Q, ref.Initial, ref.SInf, 0.0213, 2.5, 5, Lorch())
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(chi-ref.ChiSq) > 1e-9*math.Max(ref.ChiSq, 1e-12) {
		Te.Errorf("RefineInterference gives chi-squared %v, Refine %v", chi, ref.ChiSq)
	}
	for i := range refined {
		if math.Abs(refined[i]-ref.Refined[i]) > 1e-9 {
			Te.Fatalf("RefineInterference and Refine differ at Q=%v", ref.Q[i])
		}
	}
}

func TestRefineErrors(Te *testing.T) {
	cases := []struct {
		name string
		mod  func(*RefineInput)
		kind error
	}{
		{"zero rmin", func(in *RefineInput) { in.RMin = 0 }, ErrInvalidInput},
		{"rmin beyond grid", func(in *RefineInput) { in.RMin = 25 }, ErrInvalidInput},
		{"rmin too small", func(in *RefineInput) { in.RMin = 0.005 }, ErrDegenerate},
		{"negative iterations", func(in *RefineInput) { in.Iterations = -1 }, ErrInvalidInput},
		{"no window start", func(in *RefineInput) { in.Mod = Modification{Kind: ModCosineWindow} }, ErrMissingWindowStart},
		{"zero density", func(in *RefineInput) { in.Density = 0 }, ErrInvalidInput},
	}
	for _, c := range cases {
		in := argonInput(Te, 1)
		c.mod(&in)
		_, err := Refine(in)
		if !errors.Is(err, c.kind) {
			Te.Errorf("%s: expected %v, got %v", c.name, c.kind, err)
		}
	}
}
