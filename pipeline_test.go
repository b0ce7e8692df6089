/*
 * pipeline_test.go, part of goDiffract.
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
	"math"
	"testing"
)

func TestAnalyse(Te *testing.T) {
	in := AnalysisInput{RefineInput: argonInput(Te, 2)}
	res, err := Analyse(in)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Density != nil {
		Te.Errorf("No density optimization was requested")
	}
	if res.Gr.Len() != res.RDF.Len() || res.Gr.Len() != res.Fr.Len() {
		Te.Errorf("Real-space functions should share a grid")
	}
	//F(r) = 4 pi rho r (g(r) - 1)
	rho := res.Refinement.Density
	for i, r := range res.Gr.X {
		if math.Abs(res.Fr.Y[i]-4*math.Pi*rho*r*(res.Gr.Y[i]-1)) > 1e-8 {
			Te.Fatalf("F(r) and g(r) are inconsistent at r=%v", r)
		}
	}
	in.OptimizeDensity = true
	in.Bounds = Bounds{Lower: 0.018, Upper: 0.025}
	res, err = Analyse(in)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Density == nil || res.Refinement != res.Density.Refinement {
		Te.Errorf("The refinement should come from the density optimization")
	}
}
