/*
 * background.go, part of goDiffract.
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
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

//BackgroundScale returns the factor s that minimizes the mean absolute
//difference between data and s*bkg, found with the Nelder-Mead simplex
//method starting from guess. data and bkg must be sampled on the same grid.
func BackgroundScale(data, bkg []float64, guess float64) (float64, error) {
	if len(data) != len(bkg) || len(data) == 0 {
		return 0, newError(diffract.ErrInvalidInput, "BackgroundScale", "data and background must be non-empty and of equal length (%d, %d)", len(data), len(bkg))
	}
	diff := make([]float64, len(data))
	p := optimize.Problem{
		Func: func(s []float64) float64 {
			for i, v := range data {
				diff[i] = math.Abs(v - s[0]*bkg[i])
			}
			return stat.Mean(diff, nil)
		},
	}
	res, err := optimize.Minimize(p, []float64{guess}, nil, &optimize.NelderMead{})
	if res == nil {
		return 0, newError(diffract.ErrDegenerate, "BackgroundScale", "minimization failed: %v", err)
	}
	//Failing to meet the convergence criteria still leaves a usable scale.
	return res.X[0], nil
}

//SubtractBackground returns data - scale*bkg.
func SubtractBackground(data, bkg []float64, scale float64) ([]float64, error) {
	if len(data) != len(bkg) {
		return nil, newError(diffract.ErrInvalidInput, "SubtractBackground", "data and background have different lengths (%d, %d)", len(data), len(bkg))
	}
	ret := make([]float64, len(data))
	for i, v := range data {
		ret[i] = v - scale*bkg[i]
	}
	return ret, nil
}
