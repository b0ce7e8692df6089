/*
 * transform_test.go, part of goDiffract.
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

func gaussian(q []float64) []float64 {
	ret := make([]float64, len(q))
	for i, v := range q {
		ret[i] = math.Exp(-0.5 * v * v)
	}
	return ret
}

//For i(Q) = exp(-Q^2/2), F(r) = sqrt(2/pi) r exp(-r^2/2).
func TestReducedPDF(Te *testing.T) {
	q := qGrid(0.02, 15)
	fr, err := ReducedPDF(q, gaussian(q), NoModification)
	if err != nil {
		Te.Fatal(err)
	}
	if fr.Len() != len(DefaultOptions().RGrid()) {
		Te.Errorf("F(r) should be sampled on the default grid, got %d points", fr.Len())
	}
	for i, r := range fr.X {
		expected := math.Sqrt(2/math.Pi) * r * math.Exp(-0.5*r*r)
		if math.Abs(fr.Y[i]-expected) > 1e-4 {
			Te.Fatalf("F(%v) should be %v, got %v", r, expected, fr.Y[i])
		}
	}
}

func TestRoundTrip(Te *testing.T) {
	q := qGrid(0.02, 15)
	iq := gaussian(q)
	fr, err := ReducedPDF(q, iq, NoModification)
	if err != nil {
		Te.Fatal(err)
	}
	back, err := BackTransform(fr.X, fr.Y, q)
	if err != nil {
		Te.Fatal(err)
	}
	for i := range q {
		if math.Abs(back[i]-iq[i]) > 1e-3 {
			Te.Fatalf("Round trip failed at Q=%v: %v != %v", q[i], back[i], iq[i])
		}
	}
}

func TestTransformTargets(Te *testing.T) {
	q := qGrid(0.02, 15)
	rho := 0.0213
	gr, err := Transform(q, gaussian(q), rho, NoModification, PairDist)
	if err != nil {
		Te.Fatal(err)
	}
	rdf, err := Transform(q, gaussian(q), rho, NoModification, RadialDist)
	if err != nil {
		Te.Fatal(err)
	}
	if last := gr.Y[gr.Len()-1]; math.Abs(last-1) > 1e-6 {
		Te.Errorf("g(r) should go to 1 at large r, got %v", last)
	}
	if rdf.Y[0] != 0 {
		Te.Errorf("RDF(0) should be 0, got %v", rdf.Y[0])
	}
	for i, r := range gr.X {
		if math.Abs(rdf.Y[i]-4*math.Pi*r*r*rho*gr.Y[i]) > 1e-9 {
			Te.Fatalf("RDF and g(r) are inconsistent at r=%v", r)
		}
	}
	//At r=0, h(0) = int Q^2 exp(-Q^2/2) dQ = sqrt(pi/2).
	expected := 1 + math.Sqrt(math.Pi/2)/(2*math.Pi*math.Pi*rho)
	if math.Abs(gr.Y[0]-expected) > 1e-4*expected {
		Te.Errorf("g(0) should be %v, got %v", expected, gr.Y[0])
	}
	if _, err := Transform(q, gaussian(q), 0, NoModification, PairDist); err == nil {
		Te.Errorf("A zero density should be rejected")
	}
	for _, s := range []string{"pair_dist_func", "radial_dist_func"} {
		t, err := ParseTarget(s)
		if err != nil || t.String() != s {
			Te.Errorf("Can't parse target %q: %v", s, err)
		}
	}
	if _, err := Transform(q, gaussian(q), rho, NoModification, Target(7)); !errors.Is(err, ErrInvalidInput) {
		Te.Errorf("An unknown target should be rejected, got %v", err)
	}
}

func TestDSTIntegrator(Te *testing.T) {
	q := qGrid(0.02, 15)
	iq := gaussian(q)
	o := DefaultOptions()
	o.RMax(10)
	o.Integrator(DST)
	dst, err := ReducedPDF(q, iq, Lorch(), o)
	if err != nil {
		Te.Fatal(err)
	}
	o.Integrator(Trapezoid)
	trap, err := ReducedPDF(q, iq, Lorch(), o)
	if err != nil {
		Te.Fatal(err)
	}
	for i, r := range trap.X {
		if math.Abs(dst.Y[i]-trap.Y[i]) > 1e-3 {
			Te.Fatalf("DST and trapezoid integrators differ at r=%v: %v, %v", r, dst.Y[i], trap.Y[i])
		}
	}
	o.Integrator(DST)
	uneven := append(qGrid(0.02, 10), 10.5)
	if _, err := ReducedPDF(uneven, gaussian(uneven), NoModification, o); err == nil {
		Te.Errorf("The DST integrator should reject uneven grids")
	}
}

//The normalization makes the interference function fulfil the sum rule
//int Q^2 i(Q) M(Q) dQ = -2 pi^2 rho.
func TestSumRule(Te *testing.T) {
	ar := argon(Te)
	q := qGrid(0.02, 15)
	I, err := Intensity(ar, q, testInterference(q), 3)
	if err != nil {
		Te.Fatal(err)
	}
	rho := 0.0213
	for _, mod := range []Modification{NoModification, Lorch(), CosineWindow(10)} {
		sq, err := StructureFactor(SQInput{Q: q, Intensity: I, Composition: ar, Density: rho, Mod: mod})
		if err != nil {
			Te.Fatal(err)
		}
		m, _ := mod.Apply(q)
		y := make([]float64, len(q))
		for i, v := range q {
			y[i] = v * v * sq.Interference[i] * m[i]
		}
		if s := integrate.Trapezoidal(q, y); math.Abs(s+2*math.Pi*math.Pi*rho) > 1e-8 {
			Te.Errorf("Sum rule not fulfilled with %s: %v", mod, s)
		}
	}
}
