/*
 * density_test.go, part of goDiffract.
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
)

func TestMinimizeBounded(Te *testing.T) {
	s := DefaultOptimizerSettings()
	parabola := func(min float64) func(float64) float64 {
		return func(x float64) float64 {
			d := (x - min) / 0.001
			return d * d
		}
	}
	res := minimizeBounded(parabola(0.03), 0.02, 0.01, 0.05, s)
	if res.err != nil {
		Te.Log("optimizer error:", res.err)
	}
	if math.Abs(res.x-0.03) > 1e-4 {
		Te.Errorf("Minimum should be at 0.03, got %v (status %v)", res.x, res.status)
	}
	if res.evals <= 0 {
		Te.Errorf("No function evaluations reported")
	}
	//Minimum beyond the upper bound.
	res = minimizeBounded(parabola(0.1), 0.02, 0.01, 0.05, s)
	if res.x > 0.05 || res.x < 0.049 {
		Te.Errorf("The minimum should be at the upper bound, got %v", res.x)
	}
}

func TestBoundedMapping(Te *testing.T) {
	for _, x := range []float64{0.011, 0.02, 0.03, 0.049} {
		if back := toBounded(fromBounded(x, 0.01, 0.05), 0.01, 0.05); math.Abs(back-x) > 1e-12 {
			Te.Errorf("Mapping is not invertible at %v: %v", x, back)
		}
	}
	for _, t := range []float64{-100, -1, 0, 2, 50} {
		if x := toBounded(t, 0.01, 0.05); x < 0.01 || x > 0.05 {
			Te.Errorf("Mapped value %v out of bounds", x)
		}
	}
}

func TestOptimizeDensity(Te *testing.T) {
	in := argonInput(Te, 3)
	res, err := OptimizeDensity(in, Bounds{Lower: 0.015, Upper: 0.03})
	if err != nil {
		Te.Fatal(err)
	}
	Te.Logf("density: %v (%v g/cm^3) chi^2: %v -> %v status: %s", res.Density, res.MassDensity, res.InitialChiSq, res.ChiSq, res.Status)
	if res.Density < 0.015 || res.Density > 0.03 {
		Te.Errorf("Density %v out of bounds", res.Density)
	}
	if res.ChiSq > res.InitialChiSq*(1+1e-9) {
		Te.Errorf("Optimization increased chi-squared: %v > %v", res.ChiSq, res.InitialChiSq)
	}
	if res.Refinement == nil || res.Refinement.Density != res.Density {
		Te.Errorf("The refinement should be done at the optimized density")
	}
	if math.Abs(res.MassDensity-MassDensity(res.Density, in.Composition)) > 1e-12 {
		Te.Errorf("Inconsistent mass density %v", res.MassDensity)
	}
	if !res.Converged && res.Message == "" {
		Te.Errorf("Non-converged results need a message")
	}
}

func TestOptimizeDensityBounds(Te *testing.T) {
	in := argonInput(Te, 1)
	for _, b := range []Bounds{{0.03, 0.015}, {0, 0.03}, {0.022, 0.03}, {0.01, 0.01}} {
		if _, err := OptimizeDensity(in, b); !errors.Is(err, ErrInvalidBounds) {
			Te.Errorf("Bounds %v: expected an invalid bounds error, got %v", b, err)
		}
	}
}

//modelPairDist is a liquid-like g(r): zero below 3.2 A, a smooth onset, a first
//shell at 3.8 A and a weak minimum at 5.2 A.
func modelPairDist(r float64) float64 {
	const sigma = 3.2
	if r < sigma {
		return 0
	}
	x := (r - sigma) / 0.4
	onset := 1 - math.Exp(-x*x)
	shells := 1.5*math.Exp(-(r-3.8)*(r-3.8)/(2*0.3*0.3)) - 0.3*math.Exp(-(r-5.2)*(r-5.2)/(2*0.5*0.5))
	return onset * (1 + shells)
}

//consistentInput returns argon data built from modelPairDist at the density rho,
//with the initial density set to start.
func consistentInput(Te *testing.T, rho, start float64) RefineInput {
	r := RGrid(0.01, 20)
	fr := make([]float64, len(r))
	for i, v := range r {
		fr[i] = 4 * math.Pi * rho * v * (modelPairDist(v) - 1)
	}
	q := qGrid(0.02, 15)
	iq, err := BackTransform(r, fr, q)
	if err != nil {
		Te.Fatal(err)
	}
	ar := argon(Te)
	I, err := Intensity(ar, q, iq, 2.5)
	if err != nil {
		Te.Fatal(err)
	}
	return RefineInput{
		Q:           q,
		Intensity:   I,
		Composition: ar,
		Density:     start,
		RMin:        2.5,
		Iterations:  2,
		Method:      FaberZiman,
		Mod:         Lorch(),
	}
}

func TestOptimizeDensityRecovery(Te *testing.T) {
	const rho = 0.0213
	in := consistentInput(Te, rho, 0.018)
	res, err := OptimizeDensity(in, Bounds{Lower: 0.015, Upper: 0.03})
	if err != nil {
		Te.Fatal(err)
	}
	Te.Logf("density: %v chi^2: %v -> %v status: %s evaluations: %d", res.Density, res.InitialChiSq, res.ChiSq, res.Status, res.FuncEvals)
	if math.Abs(res.Density-rho) > 1e-4 {
		Te.Errorf("The optimized density should be %v, got %v", rho, res.Density)
	}
	at := in
	at.Density = rho
	chi, err := ChiSquared(at)
	if err != nil {
		Te.Fatal(err)
	}
	if chi > 0.01*res.InitialChiSq {
		Te.Errorf("chi-squared at the true density (%v) should be far below the initial one (%v)", chi, res.InitialChiSq)
	}
}

func TestOptimizeDensityNotConverged(Te *testing.T) {
	in := consistentInput(Te, 0.0213, 0.018)
	o := DefaultOptions()
	o.Optimizer(OptimizerSettings{MaxIter: 1, MaxFuncEvals: 2})
	res, err := OptimizeDensity(in, Bounds{Lower: 0.015, Upper: 0.03}, o)
	if err != nil {
		Te.Fatalf("Running out of iterations should not be an error: %v", err)
	}
	if res.Converged {
		Te.Errorf("The optimizer can't converge with one iteration, status %s", res.Status)
	}
	if res.Status == "" || res.Message == "" {
		Te.Errorf("Status (%q) and message (%q) should be set", res.Status, res.Message)
	}
	if res.Density < 0.015 || res.Density > 0.03 {
		Te.Errorf("Density %v out of bounds", res.Density)
	}
	if math.IsNaN(res.ChiSq) || res.ChiSq > res.InitialChiSq*(1+1e-9) {
		Te.Errorf("The best density should not be worse than the initial one: %v > %v", res.ChiSq, res.InitialChiSq)
	}
}
