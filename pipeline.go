/*
 * pipeline.go, part of goDiffract.
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

//AnalysisInput describes a full analysis of one diffraction pattern.
type AnalysisInput struct {
	RefineInput
	OptimizeDensity bool
	Bounds          Bounds //used only if OptimizeDensity is true
}

//Result collects every product of Analyse.
type Result struct {
	SQ         *SQ            //structure factor of the unrefined data, at the initial density
	Density    *DensityResult //nil unless the density was optimized
	Refinement *Refinement
	Gr         *Curve //g(r) of the refined interference function
	RDF        *Curve
	Fr         *Curve //reduced pair-distribution function F(r)
}

//Analyse computes S(Q), optionally optimizes the density, refines the
//interference function and transforms the refined data to real space.
func Analyse(in AnalysisInput, options ...*Options) (*Result, error) {
	o := optionsOrDefault(options)
	sq, err := StructureFactor(in.sqInput(), o)
	if err != nil {
		return nil, errDecorate(err, "Analyse")
	}
	ret := &Result{SQ: sq}
	if in.OptimizeDensity {
		ret.Density, err = OptimizeDensity(in.RefineInput, in.Bounds, o)
		if err != nil {
			return nil, errDecorate(err, "Analyse")
		}
		ret.Refinement = ret.Density.Refinement
	} else {
		ret.Refinement, err = Refine(in.RefineInput, o)
		if err != nil {
			return nil, errDecorate(err, "Analyse")
		}
	}
	ref := ret.Refinement
	if ret.Gr, err = Transform(ref.Q, ref.Refined, ref.Density, in.Mod, PairDist, o); err != nil {
		return nil, errDecorate(err, "Analyse")
	}
	if ret.RDF, err = Transform(ref.Q, ref.Refined, ref.Density, in.Mod, RadialDist, o); err != nil {
		return nil, errDecorate(err, "Analyse")
	}
	if ret.Fr, err = ReducedPDF(ref.Q, ref.Refined, in.Mod, o); err != nil {
		return nil, errDecorate(err, "Analyse")
	}
	return ret, nil
}
