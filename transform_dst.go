/*
 * transform_dst.go, part of goDiffract.
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

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/interp"
)

//gridTol is the relative tolerance used to decide that a Q grid is evenly spaced.
const gridTol = 1e-6

//dstForward evaluates the sine integral with a discrete sine transform.
//The data, given on an even Q grid, is placed on the grid Q_m = (m+1) dq,
//m = 0...n-1, zero-padded up to a size that gives a real-space resolution at
//least as fine as the requested one. The transform yields h at
//r_k = (k+1) pi/((n+1) dq), which is then interpolated linearly onto the
//requested r values.
type dstForward struct {
	rs     []float64
	n      int
	offset int //index in the padded grid of the first data point
	dq     float64
	w      []float64 //trapezoid weights, in units of dq
	q      []float64
	t      *fourier.DST
	scale  float64
	kmax   int //number of transform points needed to cover the r grid
}

func newDSTForward(q, r []float64, rstep float64) (*dstForward, error) {
	dq := q[1] - q[0]
	for i := 2; i < len(q); i++ {
		if math.Abs((q[i]-q[i-1])-dq) > gridTol*dq {
			return nil, newError(ErrInvalidInput, "newDSTForward", "the DST integrator needs an evenly spaced Q grid (step %v at index %d, %v at index 1)", q[i]-q[i-1], i, dq)
		}
	}
	j0 := math.Round(q[0] / dq)
	if math.Abs(q[0]-j0*dq) > gridTol*dq*math.Max(1, j0) {
		return nil, newError(ErrInvalidInput, "newDSTForward", "the first Q value (%v) must be a multiple of the Q step (%v)", q[0], dq)
	}
	rmax := r[len(r)-1]
	if rmax >= math.Pi/dq {
		return nil, newError(ErrDegenerate, "newDSTForward", "a Q step of %v can't resolve distances up to %v A", dq, rmax)
	}
	//The sample Q=0 is dropped, as it contributes nothing to a sine transform.
	offset := int(j0) - 1
	np1 := 2
	for float64(np1) < math.Pi/(dq*rstep) || np1-1 < offset+len(q) {
		np1 *= 2
	}
	n := np1 - 1
	t := fourier.NewDST(n)
	//Transform is unnormalized, its scale is read from a unit impulse.
	probe := make([]float64, n)
	probe[0] = 1
	scale := t.Transform(nil, probe)[0] / math.Sin(math.Pi/float64(np1))
	w := trapzWeights(q)
	for i := range w {
		w[i] /= dq
	}
	kmax := int(math.Ceil(rmax*float64(np1)*dq/math.Pi)) + 1
	if kmax > n {
		kmax = n
	}
	return &dstForward{rs: r, n: n, offset: offset, dq: dq, w: w, q: q, t: t, scale: scale, kmax: kmax}, nil
}

func (D *dstForward) r() []float64 { return D.rs }

func (D *dstForward) h(iqm []float64) []float64 {
	src := make([]float64, D.n)
	var h0 float64
	for i, v := range iqm {
		f := D.w[i] * D.q[i] * v
		h0 += f * D.q[i] * D.dq
		if m := D.offset + i; m >= 0 {
			src[m] = f
		}
	}
	dst := D.t.Transform(nil, src)
	xs := make([]float64, D.kmax+1)
	ys := make([]float64, D.kmax+1)
	ys[0] = h0
	np1 := float64(D.n + 1)
	for k := 0; k < D.kmax; k++ {
		rk := float64(k+1) * math.Pi / (np1 * D.dq)
		xs[k+1] = rk
		ys[k+1] = D.dq * dst[k] / (D.scale * rk)
	}
	var pl interp.PiecewiseLinear
	ret := make([]float64, len(D.rs))
	if err := pl.Fit(xs, ys); err != nil {
		//xs is strictly increasing and has at least 2 points, so this can't happen.
		panic(err.Error())
	}
	for i, rv := range D.rs {
		ret[i] = pl.Predict(rv)
	}
	return ret
}
