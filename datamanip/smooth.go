/*
 * smooth.go, part of goDiffract.
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

package datamanip

import (
	"math"

	diffract "github.com/rmera/godiffract"
	"gonum.org/v1/gonum/mat"
)

//vandermonde returns the window x (order+1) matrix with A[i][j] = (i-offset)^j.
func vandermonde(window, order, offset int) *mat.Dense {
	a := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		t := float64(i - offset)
		for j := 0; j <= order; j++ {
			a.Set(i, j, math.Pow(t, float64(j)))
		}
	}
	return a
}

//SavitzkyGolay smooths y by fitting, in the least squares sense, a polynomial of
//the given order to each window of points centered on every element. The
//window must be odd, larger than order, and not larger than len(y). For the
//first and last window/2 elements, the polynomial fitted to the first (or last)
//full window is evaluated instead.
func SavitzkyGolay(y []float64, window, order int) ([]float64, error) {
	if window%2 == 0 || window <= order || order < 0 {
		return nil, newError(diffract.ErrInvalidInput, "SavitzkyGolay", "window (%d) must be odd and larger than the order (%d)", window, order)
	}
	if window > len(y) {
		return nil, newError(diffract.ErrDegenerate, "SavitzkyGolay", "window (%d) larger than the data (%d points)", window, len(y))
	}
	half := window / 2
	a := vandermonde(window, order, half)
	//The smoothed central value is the constant term of the fit, c . y_window.
	var pinv mat.Dense
	if err := pinv.Solve(a, eye(window)); err != nil {
		return nil, newError(diffract.ErrDegenerate, "SavitzkyGolay", "can't build the filter: %s", err.Error())
	}
	c := pinv.RawRowView(0)
	ret := make([]float64, len(y))
	for i := half; i < len(y)-half; i++ {
		var s float64
		for k, w := range c {
			s += w * y[i-half+k]
		}
		ret[i] = s
	}
	edges := []struct {
		start int //first element of the window
		from  int //first element to fill
		to    int //last element to fill, excluded
	}{
		{0, 0, half},
		{len(y) - window, len(y) - half, len(y)},
	}
	for _, e := range edges {
		var coef mat.VecDense
		if err := coef.SolveVec(vandermonde(window, order, 0), mat.NewVecDense(window, append([]float64(nil), y[e.start:e.start+window]...))); err != nil {
			return nil, newError(diffract.ErrDegenerate, "SavitzkyGolay", "can't fit the edges: %s", err.Error())
		}
		for i := e.from; i < e.to; i++ {
			t := float64(i - e.start)
			var s float64
			for j := order; j >= 0; j-- {
				s = s*t + coef.AtVec(j)
			}
			ret[i] = s
		}
	}
	return ret, nil
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
