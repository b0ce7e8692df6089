/*
 * options.go, part of goDiffract.
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
	"fmt"
	"math"
)

//Integrator selects how the sine Fourier integrals from Q to r space are evaluated.
type Integrator int

const (
	//Trapezoid integrates with the trapezoid rule directly on the given Q grid.
	Trapezoid Integrator = iota
	//DST uses a discrete sine transform on a zero-padded, uniform Q grid.
	//The Q grid must be evenly spaced and start at a multiple of its step.
	DST
)

func (I Integrator) String() string {
	switch I {
	case Trapezoid:
		return "trapezoid"
	case DST:
		return "dst"
	}
	return fmt.Sprintf("Integrator(%d)", int(I))
}

//ParseIntegrator returns the Integrator named by s.
func ParseIntegrator(s string) (Integrator, error) {
	switch s {
	case "trapezoid", "":
		return Trapezoid, nil
	case "dst":
		return DST, nil
	}
	return 0, newError(ErrInvalidInput, "ParseIntegrator", "unknown integrator %q", s)
}

//OptimizerSettings controls the bounded density minimization.
type OptimizerSettings struct {
	FuncTol      float64 //relative function tolerance
	GradTol      float64 //gradient norm threshold
	MaxIter      int     //maximum major iterations
	MaxFuncEvals int     //maximum objective evaluations requested by the optimizer
	FDStep       float64 //finite difference step, in the internal (bounded) coordinate
}

//DefaultOptimizerSettings returns the standard settings for the density optimization.
func DefaultOptimizerSettings() OptimizerSettings {
	return OptimizerSettings{
		FuncTol:      DefaultFuncTol,
		GradTol:      DefaultGradTol,
		MaxIter:      DefaultMaxIter,
		MaxFuncEvals: DefaultMaxFuncEvals,
		FDStep:       DefaultFDStep,
	}
}

//Options contains the numerical settings shared by the transforms, the
//refinement and the density optimization.
type Options struct {
	rstep      float64
	rmax       float64
	integrator Integrator
	model      ScatteringModel
	optimizer  OptimizerSettings
}

//DefaultOptions returns the default options: a 0-20 A real-space grid with a
//0.01 A step, trapezoid integration, the Cromer-Mann model on the default table
//and the default optimizer settings.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.rstep = DefaultRStep
	ret.rmax = DefaultRMax
	ret.integrator = Trapezoid
	ret.model = NewCromerMann(DefaultTable())
	ret.optimizer = DefaultOptimizerSettings()
	return ret
}

//Returns the step of the real-space grid, and sets it, if a valid value is given.
func (O *Options) RStep(step ...float64) float64 {
	if len(step) > 0 && step[0] > 0 && !math.IsInf(step[0], 0) {
		O.rstep = step[0]
	}
	return O.rstep
}

//Returns the upper limit of the real-space grid, and sets it, if a valid value is given.
func (O *Options) RMax(max ...float64) float64 {
	if len(max) > 0 && max[0] > 0 && !math.IsInf(max[0], 0) {
		O.rmax = max[0]
	}
	return O.rmax
}

//Returns the integrator used for Q to r transforms and sets it, if given.
func (O *Options) Integrator(i ...Integrator) Integrator {
	if len(i) > 0 {
		O.integrator = i[0]
	}
	return O.integrator
}

//Returns the scattering model and sets it, if a non-nil one is given.
func (O *Options) Model(m ...ScatteringModel) ScatteringModel {
	if len(m) > 0 && m[0] != nil {
		O.model = m[0]
	}
	return O.model
}

//Returns the optimizer settings and sets them, if given.
//Non-positive fields in the given settings keep their current value.
func (O *Options) Optimizer(s ...OptimizerSettings) OptimizerSettings {
	if len(s) > 0 {
		n := s[0]
		if n.FuncTol > 0 {
			O.optimizer.FuncTol = n.FuncTol
		}
		if n.GradTol > 0 {
			O.optimizer.GradTol = n.GradTol
		}
		if n.MaxIter > 0 {
			O.optimizer.MaxIter = n.MaxIter
		}
		if n.MaxFuncEvals > 0 {
			O.optimizer.MaxFuncEvals = n.MaxFuncEvals
		}
		if n.FDStep > 0 {
			O.optimizer.FDStep = n.FDStep
		}
	}
	return O.optimizer
}

//RGrid returns the real-space grid defined by the options.
func (O *Options) RGrid() []float64 {
	return RGrid(O.rstep, O.rmax)
}

//RGrid returns an evenly spaced grid from 0 to max (included, if max is a multiple of step).
func RGrid(step, max float64) []float64 {
	if !(step > 0) || !(max > 0) {
		return nil
	}
	n := int(math.Floor(max/step+1e-9)) + 1
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = float64(i) * step
	}
	return ret
}

//optionsOrDefault returns o, or the default options if o is nil.
func optionsOrDefault(o []*Options) *Options {
	if len(o) > 0 && o[0] != nil {
		return o[0]
	}
	return DefaultOptions()
}
