/*
 * transform.go, part of goDiffract.
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

	"gonum.org/v1/gonum/mat"
)

//Target is the real-space function produced by Transform.
type Target int

const (
	//PairDist is the pair-distribution function g(r).
	PairDist Target = iota
	//RadialDist is the radial distribution function, RDF(r) = 4 pi r^2 rho g(r).
	RadialDist
)

func (T Target) String() string {
	switch T {
	case PairDist:
		return "pair_dist_func"
	case RadialDist:
		return "radial_dist_func"
	}
	return fmt.Sprintf("Target(%d)", int(T))
}

//ParseTarget returns the Target named by s.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "pair_dist_func", "gr", "":
		return PairDist, nil
	case "radial_dist_func", "rdf":
		return RadialDist, nil
	}
	return PairDist, newError(ErrInvalidInput, "ParseTarget", "unknown target function %q", s)
}

//Curve is a sampled function, with X strictly increasing.
type Curve struct {
	X []float64
	Y []float64
}

//Len returns the number of points in the curve.
func (C *Curve) Len() int { return len(C.X) }

//forward evaluates h(r) = int Q i(Q) M(Q) sin(Qr)/r dQ on a fixed set of r values.
//The r=0 limit, int Q^2 i(Q) M(Q) dQ, is used where r is zero.
type forward interface {
	r() []float64
	h(iqm []float64) []float64
}

//kernelForward evaluates the integral with the trapezoid rule as a
//product of a precomputed sine-kernel matrix and the integrand.
type kernelForward struct {
	rs []float64
	k  *mat.Dense
}

func newKernelForward(q, r []float64) *kernelForward {
	w := trapzWeights(q)
	k := mat.NewDense(len(r), len(q), nil)
	for i, rv := range r {
		row := k.RawRowView(i)
		for j, qv := range q {
			row[j] = w[j] * qv * sinOver(qv, rv)
		}
	}
	return &kernelForward{rs: r, k: k}
}

func (K *kernelForward) r() []float64 { return K.rs }

func (K *kernelForward) h(iqm []float64) []float64 {
	out := mat.NewVecDense(len(K.rs), nil)
	out.MulVec(K.k, mat.NewVecDense(len(iqm), iqm))
	return out.RawVector().Data
}

//newForward returns the forward transform selected in o.
func newForward(q, r []float64, o *Options) (forward, error) {
	if o.Integrator() == DST {
		f, err := newDSTForward(q, r, o.RStep())
		if err != nil {
			return nil, errDecorate(err, "newForward")
		}
		return f, nil
	}
	return newKernelForward(q, r), nil
}

//sinOver returns sin(a*b)/b, or its limit, a, when b is zero.
func sinOver(a, b float64) float64 {
	if math.Abs(b) < appzero {
		return a
	}
	return math.Sin(a*b) / b
}

//trapzWeights returns the weights w such that sum_i w_i f_i is the trapezoid
//rule integral of f sampled on x.
func trapzWeights(x []float64) []float64 {
	n := len(x)
	w := make([]float64, n)
	if n < 2 {
		return w
	}
	w[0] = (x[1] - x[0]) / 2
	w[n-1] = (x[n-1] - x[n-2]) / 2
	for i := 1; i < n-1; i++ {
		w[i] = (x[i+1] - x[i-1]) / 2
	}
	return w
}

//modulate returns iq*mod, element-wise.
func modulate(iq, mod []float64) []float64 {
	ret := make([]float64, len(iq))
	for i, v := range iq {
		ret[i] = v * mod[i]
	}
	return ret
}

func (o *Options) checkGrid(caller string) ([]float64, error) {
	r := o.RGrid()
	if len(r) < 2 {
		return nil, newError(ErrDegenerate, caller, "real-space grid with step %v and max %v has less than 2 points", o.RStep(), o.RMax())
	}
	return r, nil
}

//Transform returns g(r) or RDF(r), on the real-space grid of the options, from the
//interference function iq sampled on q:
//	g(r) = 1 + 1/(2 pi^2 rho) int Q i(Q) M(Q) sin(Qr)/r dQ
//	RDF(r) = 4 pi r^2 rho g(r)
//where M(Q) is the modification function mod.
func Transform(q, iq []float64, rho float64, mod Modification, target Target, options ...*Options) (*Curve, error) {
	o := optionsOrDefault(options)
	if err := checkCurve("Transform", q, iq); err != nil {
		return nil, err
	}
	if err := checkDensity("Transform", rho); err != nil {
		return nil, err
	}
	if target != PairDist && target != RadialDist {
		return nil, newError(ErrInvalidInput, "Transform", "unknown target function %d", int(target))
	}
	m, err := mod.Apply(q)
	if err != nil {
		return nil, errDecorate(err, "Transform")
	}
	r, err := o.checkGrid("Transform")
	if err != nil {
		return nil, err
	}
	f, err := newForward(q, r, o)
	if err != nil {
		return nil, errDecorate(err, "Transform")
	}
	h := f.h(modulate(iq, m))
	y := make([]float64, len(r))
	for i, rv := range r {
		g := 1 + h[i]/(2*math.Pi*math.Pi*rho)
		switch target {
		case RadialDist:
			y[i] = 4 * math.Pi * rv * rv * rho * g
		default:
			y[i] = g
		}
	}
	if err := checkFinite("Transform", target.String(), y); err != nil {
		return nil, err
	}
	return &Curve{X: r, Y: y}, nil
}

//ReducedPDF returns F(r) = 4 pi rho r (g(r)-1) = (2/pi) int Q i(Q) M(Q) sin(Qr) dQ
//on the real-space grid of the options. F(r) does not depend on the density.
func ReducedPDF(q, iq []float64, mod Modification, options ...*Options) (*Curve, error) {
	o := optionsOrDefault(options)
	if err := checkCurve("ReducedPDF", q, iq); err != nil {
		return nil, err
	}
	m, err := mod.Apply(q)
	if err != nil {
		return nil, errDecorate(err, "ReducedPDF")
	}
	r, err := o.checkGrid("ReducedPDF")
	if err != nil {
		return nil, err
	}
	f, err := newForward(q, r, o)
	if err != nil {
		return nil, errDecorate(err, "ReducedPDF")
	}
	return &Curve{X: r, Y: reduced(r, f.h(modulate(iq, m)))}, nil
}

//reduced turns h(r) into F(r) = (2/pi) r h(r).
func reduced(r, h []float64) []float64 {
	ret := make([]float64, len(r))
	for i, rv := range r {
		ret[i] = 2 / math.Pi * rv * h[i]
	}
	return ret
}

//backKernel returns the len(q) x len(r) matrix B such that B*F approximates
//int F(r) sin(Qr)/Q dr, with the trapezoid rule on r. Where Q is zero, the
//limit int F(r) r dr is used.
func backKernel(q, r []float64) *mat.Dense {
	w := trapzWeights(r)
	b := mat.NewDense(len(q), len(r), nil)
	for j, qv := range q {
		row := b.RawRowView(j)
		for k, rv := range r {
			row[k] = w[k] * sinOver(rv, qv)
		}
	}
	return b
}

//BackTransform returns the interference function on q obtained from the reduced
//pair-distribution function fr sampled on r:
//	i(Q) = 1/Q int F(r) sin(Qr) dr
//It is the inverse of ReducedPDF, up to truncation and discretization errors.
func BackTransform(r, fr, q []float64) ([]float64, error) {
	if err := checkCurve("BackTransform", r, fr); err != nil {
		return nil, err
	}
	if err := checkFinite("BackTransform", "q", q); err != nil {
		return nil, err
	}
	out := mat.NewVecDense(len(q), nil)
	out.MulVec(backKernel(q, r), mat.NewVecDense(len(fr), fr))
	return out.RawVector().Data, nil
}
