/*
 * eggert.go, part of goDiffract.
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

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
)

//RefineInput contains the data and parameters for an Eggert refinement.
type RefineInput struct {
	Q           []float64 //momentum transfer, 1/A, strictly increasing
	Intensity   []float64 //background-corrected intensity
	Composition *Composition
	Density     float64 //number density, atoms/A^3
	RMin        float64 //distance, in A, below which no atom pairs are expected
	//DPQ is the nearest-neighbour distance of the sample. It is kept with the
	//refinement parameters, but no part of the algorithm uses it.
	DPQ        float64
	Iterations int
	Method     Method
	Mod        Modification
}

func (in RefineInput) sqInput() SQInput {
	return SQInput{Q: in.Q, Intensity: in.Intensity, Composition: in.Composition, Density: in.Density, Method: in.Method, Mod: in.Mod}
}

func (in RefineInput) validate(caller string, o *Options) error {
	if err := in.sqInput().validate(caller); err != nil {
		return err
	}
	if math.IsNaN(in.RMin) || in.RMin <= 0 {
		return newError(ErrInvalidInput, caller, "r_min must be positive, got %v", in.RMin)
	}
	if in.RMin > o.RMax() {
		return newError(ErrInvalidInput, caller, "r_min (%v) is beyond the real-space grid (%v)", in.RMin, o.RMax())
	}
	if in.Iterations < 0 {
		return newError(ErrInvalidInput, caller, "the number of iterations can't be negative (%d)", in.Iterations)
	}
	return nil
}

//Refinement is the result of an Eggert refinement. It is not modified after being returned.
type Refinement struct {
	Q          []float64
	SQ         *SQ       //structure factor of the unrefined data
	SInf       []float64 //high-Q limit of S(Q)
	Initial    []float64 //interference function before the refinement
	Refined    []float64 //interference function after the refinement
	ChiSq      float64   //int_0^rmin DeltaF(r)^2 dr for the refined interference function
	Density    float64
	Iterations int
}

//RefinedSQ returns the structure factor that corresponds to the refined interference function.
func (R *Refinement) RefinedSQ() []float64 {
	ret := make([]float64, len(R.Refined))
	for i, v := range R.Refined {
		ret[i] = v + R.SInf[i]
	}
	return ret
}

//eggert holds the precomputed pieces of an Eggert refinement on a fixed
//Q grid and real-space sub-grid (r < rmin). The same engine serves every
//density tried by the optimizer.
type eggert struct {
	q    []float64
	sinf []float64
	mod  []float64
	rsub []float64
	rw   []float64 //trapezoid weights on rsub
	fwd  forward
	back *mat.Dense
}

func newEggert(q, sinf, mod []float64, rmin float64, o *Options) (*eggert, error) {
	var rsub []float64
	for _, r := range o.RGrid() {
		if r >= rmin {
			break
		}
		rsub = append(rsub, r)
	}
	if len(rsub) < 2 {
		return nil, newError(ErrDegenerate, "newEggert", "r_min (%v) leaves %d point(s) of the real-space grid below it, at least 2 are needed", rmin, len(rsub))
	}
	fwd, err := newForward(q, rsub, o)
	if err != nil {
		return nil, errDecorate(err, "newEggert")
	}
	return &eggert{
		q:    q,
		sinf: sinf,
		mod:  mod,
		rsub: rsub,
		rw:   trapzWeights(rsub),
		fwd:  fwd,
		back: backKernel(q, rsub),
	}, nil
}

//deltaF returns F(r) + 4 pi rho r on the sub-grid, i.e. the deviation of F(r) from
//its expected value where no atom pairs exist.
func (E *eggert) deltaF(iq []float64, rho float64) []float64 {
	f := reduced(E.rsub, E.fwd.h(modulate(iq, E.mod)))
	for i, r := range E.rsub {
		f[i] += 4 * math.Pi * rho * r
	}
	return f
}

func (E *eggert) chiSq(df []float64) float64 {
	sq := make([]float64, len(df))
	for i, v := range df {
		sq[i] = v * v
	}
	return integrate.Trapezoidal(E.rsub, sq)
}

//run performs n refinement steps starting from iq, and returns the refined
//interference function and its chi-squared.
func (E *eggert) run(iq []float64, rho float64, n int) ([]float64, float64) {
	cur := append([]float64(nil), iq...)
	di := mat.NewVecDense(len(cur), nil)
	for it := 0; it < n; it++ {
		df := E.deltaF(cur, rho)
		di.MulVec(E.back, mat.NewVecDense(len(df), df))
		for j, v := range cur {
			cur[j] = v - (v/E.sinf[j]+1)*di.AtVec(j)
		}
	}
	return cur, E.chiSq(E.deltaF(cur, rho))
}

//prepare computes S(Q) for in and builds an engine for it.
func prepare(caller string, in RefineInput, o *Options) (*SQ, *eggert, error) {
	if err := in.validate(caller, o); err != nil {
		return nil, nil, err
	}
	sq, err := StructureFactor(in.sqInput(), o)
	if err != nil {
		return nil, nil, errDecorate(err, caller)
	}
	mod, err := in.Mod.Apply(in.Q)
	if err != nil {
		return nil, nil, errDecorate(err, caller)
	}
	e, err := newEggert(sq.Q, sq.SInf, mod, in.RMin, o)
	if err != nil {
		return nil, nil, errDecorate(err, caller)
	}
	return sq, e, nil
}

//Refine applies the iterative procedure of Eggert et al. (2002) to the
//interference function obtained from in. In each of the in.Iterations steps, F(r)
//is computed for r < r_min, where it should equal -4 pi rho r, and the
//interference function is corrected with the back-transform of the deviation:
//	i(Q) <- i(Q) - (i(Q)/S_inf + 1) (1/Q) int_0^rmin DeltaF(r) sin(Qr) dr
//The chi-squared of the final interference function is int_0^rmin DeltaF(r)^2 dr.
//With zero iterations, the unrefined data and its chi-squared are returned.
func Refine(in RefineInput, options ...*Options) (*Refinement, error) {
	o := optionsOrDefault(options)
	sq, e, err := prepare("Refine", in, o)
	if err != nil {
		return nil, err
	}
	refined, chi := e.run(sq.Interference, in.Density, in.Iterations)
	if err := checkFinite("Refine", "refined i(Q)", refined); err != nil {
		return nil, err
	}
	if math.IsNaN(chi) || math.IsInf(chi, 0) {
		return nil, newError(ErrDegenerate, "Refine", "chi-squared is not finite (%v)", chi)
	}
	return &Refinement{
		Q:          sq.Q,
		SQ:         sq,
		SInf:       sq.SInf,
		Initial:    append([]float64(nil), sq.Interference...),
		Refined:    refined,
		ChiSq:      chi,
		Density:    in.Density,
		Iterations: in.Iterations,
	}, nil
}

//ChiSquared returns only the chi-squared of the refinement of in. It is the
//objective minimized by OptimizeDensity.
func ChiSquared(in RefineInput, options ...*Options) (float64, error) {
	r, err := Refine(in, options...)
	if err != nil {
		return 0, errDecorate(err, "ChiSquared")
	}
	return r.ChiSq, nil
}

//RefineInterference refines an interference function that has already been
//computed, with the given high-Q limit of S(Q). Unlike Refine, no normalization
//is performed, so the density only enters through the real-space constraint.
//It returns the refined interference function and its chi-squared.
func RefineInterference(q, iq, sinf []float64, rho, rmin float64, n int, mod Modification, options ...*Options) ([]float64, float64, error) {
	o := optionsOrDefault(options)
	if err := checkCurve("RefineInterference", q, iq); err != nil {
		return nil, 0, err
	}
	if len(sinf) != len(q) {
		return nil, 0, newError(ErrInvalidInput, "RefineInterference", "S_inf has %d points, Q has %d", len(sinf), len(q))
	}
	for i, v := range sinf {
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, 0, newError(ErrDegenerate, "RefineInterference", "invalid S_inf at index %d (%v)", i, v)
		}
	}
	if err := checkDensity("RefineInterference", rho); err != nil {
		return nil, 0, err
	}
	if n < 0 {
		return nil, 0, newError(ErrInvalidInput, "RefineInterference", "the number of iterations can't be negative (%d)", n)
	}
	if math.IsNaN(rmin) || rmin <= 0 || rmin > o.RMax() {
		return nil, 0, newError(ErrInvalidInput, "RefineInterference", "r_min (%v) must be in (0, %v]", rmin, o.RMax())
	}
	m, err := mod.Apply(q)
	if err != nil {
		return nil, 0, errDecorate(err, "RefineInterference")
	}
	e, err := newEggert(q, sinf, m, rmin, o)
	if err != nil {
		return nil, 0, errDecorate(err, "RefineInterference")
	}
	refined, chi := e.run(iq, rho, n)
	if err := checkFinite("RefineInterference", "refined i(Q)", refined); err != nil {
		return nil, 0, err
	}
	return refined, chi, nil
}
