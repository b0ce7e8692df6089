/*
 * density.go, part of goDiffract.
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
	"log"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

//Bounds is a closed interval for the number density, in atoms/A^3.
type Bounds struct {
	Lower float64
	Upper float64
}

func (b Bounds) check(caller string, guess float64) error {
	if math.IsNaN(b.Lower) || math.IsNaN(b.Upper) || math.IsInf(b.Upper, 0) {
		return newError(ErrInvalidBounds, caller, "bounds must be finite, got [%v, %v]", b.Lower, b.Upper)
	}
	if b.Lower <= 0 {
		return newError(ErrInvalidBounds, caller, "the lower bound must be positive, got %v", b.Lower)
	}
	if b.Lower >= b.Upper {
		return newError(ErrInvalidBounds, caller, "the lower bound (%v) must be smaller than the upper one (%v)", b.Lower, b.Upper)
	}
	if guess < b.Lower || guess > b.Upper {
		return newError(ErrInvalidBounds, caller, "the initial density (%v) is outside [%v, %v]", guess, b.Lower, b.Upper)
	}
	return nil
}

//DensityResult is the outcome of a density optimization.
type DensityResult struct {
	Density         float64 //best number density found, atoms/A^3
	MassDensity     float64 //the same, in g/cm^3
	ChiSq           float64
	InitialChiSq    float64 //chi-squared at the initial density
	Status          string  //termination status reported by the optimizer
	Converged       bool
	FuncEvals       int
	MajorIterations int
	Message         string //non-empty if the optimizer did not converge
	Refinement      *Refinement
}

//boundedResult is what minimizeBounded returns.
type boundedResult struct {
	x, f       float64
	status     optimize.Status
	converged  bool
	evals      int
	iterations int
	err        error
}

//toBounded maps an unbounded coordinate t onto [lb, ub].
func toBounded(t, lb, ub float64) float64 {
	return lb + (ub-lb)*(1+math.Sin(t))/2
}

//fromBounded is the inverse of toBounded. Values at the bounds are moved slightly
//inwards, where the derivative of the mapping is not zero.
func fromBounded(x, lb, ub float64) float64 {
	u := 2*(x-lb)/(ub-lb) - 1
	u = math.Max(-0.999, math.Min(0.999, u))
	return math.Asin(u)
}

//minimizeBounded minimizes f on [lb, ub] starting from x0 with L-BFGS. The
//bounds are enforced through the change of variables x = lb + (ub-lb)(1+sin t)/2,
//and the gradient is obtained with forward finite differences on t.
//The best point seen over all evaluations is returned, even if the optimizer
//fails or reaches its limits.
func minimizeBounded(f func(float64) float64, x0, lb, ub float64, s OptimizerSettings) boundedResult {
	best := boundedResult{x: x0, f: math.Inf(1)}
	g := func(t float64) float64 {
		x := toBounded(t, lb, ub)
		v := f(x)
		if v < best.f {
			best.x, best.f = x, v
		}
		return v
	}
	p := optimize.Problem{
		Func: func(t []float64) float64 { return g(t[0]) },
		Grad: func(grad, t []float64) {
			grad[0] = fd.Derivative(g, t[0], &fd.Settings{Formula: fd.Forward, Step: s.FDStep})
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: s.GradTol,
		Converger:         &optimize.FunctionConverge{Relative: s.FuncTol, Absolute: s.FuncTol, Iterations: 1},
		MajorIterations:   s.MaxIter,
		FuncEvaluations:   s.MaxFuncEvals,
	}
	res, err := optimize.Minimize(p, []float64{fromBounded(x0, lb, ub)}, settings, &optimize.LBFGS{})
	best.err = err
	if res == nil {
		best.status = optimize.Failure
		return best
	}
	best.status = res.Status
	best.evals = res.Stats.FuncEvaluations
	best.iterations = res.Stats.MajorIterations
	if err == nil {
		switch res.Status {
		case optimize.Success, optimize.FunctionConvergence, optimize.GradientThreshold, optimize.StepConvergence, optimize.MethodConverge:
			best.converged = true
		}
	}
	return best
}

//OptimizeDensity finds the number density, within b, that minimizes the
//chi-squared of the Eggert refinement of in. in.Density is the initial guess.
//Not reaching convergence is not an error: the best density found is returned
//and the Converged, Status and Message fields of the result describe the
//termination.
func OptimizeDensity(in RefineInput, b Bounds, options ...*Options) (*DensityResult, error) {
	o := optionsOrDefault(options)
	if err := b.check("OptimizeDensity", in.Density); err != nil {
		return nil, err
	}
	sq, e, err := prepare("OptimizeDensity", in, o)
	if err != nil {
		return nil, err
	}
	av := Average(o.Model(), in.Composition, in.Q)
	var objErr error
	chi := func(rho float64) float64 {
		alpha, err := normalization(in.Q, in.Intensity, av, e.mod, rho)
		if err != nil {
			if objErr == nil {
				objErr = err
			}
			return math.MaxFloat64
		}
		_, c := e.run(interference(in.Intensity, av, alpha), rho, in.Iterations)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return math.MaxFloat64
		}
		return c
	}
	_, initial := e.run(sq.Interference, in.Density, in.Iterations)
	res := minimizeBounded(chi, in.Density, b.Lower, b.Upper, o.Optimizer())
	if objErr != nil {
		return nil, errDecorate(objErr, "OptimizeDensity")
	}
	ret := &DensityResult{
		Density:         res.x,
		MassDensity:     MassDensity(res.x, in.Composition),
		InitialChiSq:    initial,
		Status:          res.status.String(),
		Converged:       res.converged,
		FuncEvals:       res.evals,
		MajorIterations: res.iterations,
	}
	if !res.converged {
		ret.Message = "optimizer did not converge: " + res.status.String()
		if res.err != nil {
			ret.Message += ": " + res.err.Error()
		}
		log.Printf("goDiffract/OptimizeDensity: %s. Returning the best density found (%v)", ret.Message, res.x)
	}
	if initial < res.f {
		//The optimizer never improved on the starting point.
		ret.Density = in.Density
		ret.MassDensity = MassDensity(in.Density, in.Composition)
	}
	final := in
	final.Density = ret.Density
	ret.Refinement, err = Refine(final, o)
	if err != nil {
		return nil, errDecorate(err, "OptimizeDensity")
	}
	ret.ChiSq = ret.Refinement.ChiSq
	return ret, nil
}

//interference returns i(Q) = (alpha I - J - <f^2>)/<f>^2, which is the same for
//every normalization method.
func interference(intensity []float64, av *Averages, alpha float64) []float64 {
	ret := make([]float64, len(intensity))
	for i, I := range intensity {
		ret[i] = (alpha*I - av.Compton[i] - av.MeanSq[i]) / av.SqMean[i]
	}
	return ret
}
