/*
 * datamanip.go, part of goDiffract.
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

//Package datamanip contains the preprocessing steps usually applied to a
//measured pattern before it is handed to the diffract package: resampling,
//angle to Q conversion, cuts, smoothing and background subtraction.
package datamanip

import (
	"fmt"
	"math"
	"strings"

	diffract "github.com/rmera/godiffract"
	"gonum.org/v1/gonum/interp"
)

//Error is the error type of this package. Its Unwrap method returns one of
//the sentinel errors of the diffract package.
type Error struct {
	message string
	kind    error
	deco    []string
}

func newError(kind error, caller, format string, a ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, a...), kind: kind, deco: []string{caller}}
}

func (err *Error) Error() string {
	return fmt.Sprintf("goDiffract/datamanip: %s: %v: %s", strings.Join(err.deco, " <- "), err.kind, err.message)
}

//Decorate adds dec to the trail of the error, and returns the trail.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err *Error) Unwrap() error { return err.kind }

//All errors in this package are critical.
func (err *Error) Critical() bool { return true }

func checkXY(caller string, x, y []float64, min int) error {
	if len(x) != len(y) {
		return newError(diffract.ErrInvalidInput, caller, "x and y have different lengths (%d, %d)", len(x), len(y))
	}
	if len(x) < min {
		return newError(diffract.ErrDegenerate, caller, "at least %d points are needed, got %d", min, len(x))
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return newError(diffract.ErrInvalidInput, caller, "x must be strictly increasing (index %d)", i)
		}
	}
	return nil
}

//Rebin resamples y(x) on an even grid from 0 to x[len(x)-1] (excluded) with step dx,
//using a not-a-knot cubic spline. Below x[0], the cubic of the first spline
//segment is extrapolated.
func Rebin(x, y []float64, dx float64) ([]float64, []float64, error) {
	if err := checkXY("Rebin", x, y, 3); err != nil {
		return nil, nil, err
	}
	if !(dx > 0) || math.IsInf(dx, 0) {
		return nil, nil, newError(diffract.ErrInvalidInput, "Rebin", "step must be positive, got %v", dx)
	}
	var spl interp.NotAKnotCubic
	if err := spl.Fit(x, y); err != nil {
		return nil, nil, newError(diffract.ErrDegenerate, "Rebin", "can't fit spline: %s", err.Error())
	}
	xmax := x[len(x)-1]
	n := int(math.Ceil(xmax/dx - 1e-9))
	if n < 1 {
		return nil, nil, newError(diffract.ErrDegenerate, "Rebin", "step %v is larger than the data range", dx)
	}
	first := hermite{x0: x[0], x1: x[1], y0: y[0], y1: y[1], d0: spl.PredictDerivative(x[0]), d1: spl.PredictDerivative(x[1])}
	nx := make([]float64, n)
	ny := make([]float64, n)
	for i := range nx {
		v := float64(i) * dx
		nx[i] = v
		if v < x[0] {
			ny[i] = first.at(v)
			continue
		}
		ny[i] = spl.Predict(v)
	}
	return nx, ny, nil
}

//hermite is the cubic with values y0, y1 and derivatives d0, d1 at x0 and x1.
type hermite struct {
	x0, x1, y0, y1, d0, d1 float64
}

func (h hermite) at(v float64) float64 {
	w := h.x1 - h.x0
	t := (v - h.x0) / w
	t2 := t * t
	t3 := t2 * t
	return (2*t3-3*t2+1)*h.y0 + (t3-2*t2+t)*w*h.d0 + (-2*t3+3*t2)*h.y1 + (t3-t2)*w*h.d1
}

//TwoThetaToQ converts scattering angles 2theta, in degrees, to momentum transfer
//Q = 4 pi/lambda sin(theta), in 1/A. wavelength is in A.
func TwoThetaToQ(twotheta []float64, wavelength float64) ([]float64, error) {
	if !(wavelength > 0) || math.IsInf(wavelength, 0) {
		return nil, newError(diffract.ErrInvalidInput, "TwoThetaToQ", "wavelength must be positive, got %v", wavelength)
	}
	ret := make([]float64, len(twotheta))
	for i, v := range twotheta {
		ret[i] = 4 * math.Pi / wavelength * math.Sin(v*math.Pi/360)
	}
	return ret, nil
}

//ZeroNorm returns a copy of y shifted so its first element is zero.
func ZeroNorm(y []float64) []float64 {
	ret := make([]float64, len(y))
	if len(y) == 0 {
		return ret
	}
	for i, v := range y {
		ret[i] = v - y[0]
	}
	return ret
}

//CutQ removes the points with x >= qmax and replaces the values of y at x <= qmin
//with the first value above qmin, so the low-Q region does not contribute spurious
//features. A non-positive qmin or qmax disables the corresponding cut.
//New slices are returned.
func CutQ(x, y []float64, qmin, qmax float64) ([]float64, []float64, error) {
	if err := checkXY("CutQ", x, y, 2); err != nil {
		return nil, nil, err
	}
	if qmin > 0 && qmax > 0 && qmin >= qmax {
		return nil, nil, newError(diffract.ErrInvalidInput, "CutQ", "qmin (%v) must be smaller than qmax (%v)", qmin, qmax)
	}
	n := len(x)
	if qmax > 0 {
		for n > 0 && x[n-1] >= qmax {
			n--
		}
	}
	nx := append([]float64(nil), x[:n]...)
	ny := append([]float64(nil), y[:n]...)
	if qmin > 0 {
		first := -1
		for i, v := range nx {
			if v > qmin {
				first = i
				break
			}
		}
		if first < 0 {
			return nil, nil, newError(diffract.ErrDegenerate, "CutQ", "no data left between qmin (%v) and qmax (%v)", qmin, qmax)
		}
		for i := 0; i < first; i++ {
			ny[i] = ny[first]
		}
	}
	if len(nx) < 2 {
		return nil, nil, newError(diffract.ErrDegenerate, "CutQ", "less than 2 points left below qmax (%v)", qmax)
	}
	return nx, ny, nil
}
