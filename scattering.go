/*
 * scattering.go, part of goDiffract.
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

import "math"

//ScatteringModel supplies the atomic scattering factors needed to normalize
//an x-ray intensity.
type ScatteringModel interface {

	//FormFactor returns the coherent atomic form factor of e at momentum transfer q (1/A).
	FormFactor(e Element, q float64) float64

	//Compton returns the incoherent (Compton) scattering intensity of e at q, in electron units.
	Compton(e Element, q float64) float64
}

//CromerMann is a ScatteringModel that uses the analytic Cromer-Mann
//approximation for the form factors. Ionic coefficients are used when the
//table has them, otherwise the neutral form factor is scaled by (Z-charge)/Z.
//The Compton intensity is taken in the independent-electron approximation,
//J(Q) = Zeff - f(Q)^2/Zeff, which is 0 at Q=0 and goes to Zeff at high Q.
type CromerMann struct {
	table *Table
}

//NewCromerMann returns a CromerMann model that takes its coefficients from table.
//If table is nil, the default table is used.
func NewCromerMann(table *Table) *CromerMann {
	if table == nil {
		table = DefaultTable()
	}
	return &CromerMann{table: table}
}

//FormFactor returns the form factor of e at q. It returns NaN for
//elements not present in the model's table.
func (C *CromerMann) FormFactor(e Element, q float64) float64 {
	cm, exact, ok := C.table.coefficients(e.Symbol, e.Charge)
	if !ok {
		return math.NaN()
	}
	s := q / (4 * math.Pi)
	s2 := s * s
	f := cm.c
	for i, a := range cm.a {
		f += a * math.Exp(-cm.b[i]*s2)
	}
	if !exact && e.Z > 0 {
		f *= float64(e.Z-e.Charge) / float64(e.Z)
	}
	return f
}

//Compton returns the incoherent scattering of e at q.
func (C *CromerMann) Compton(e Element, q float64) float64 {
	zeff := float64(e.Z - e.Charge)
	if zeff <= 0 {
		return 0
	}
	f := C.FormFactor(e, q)
	j := zeff - f*f/zeff
	if j < 0 {
		return 0
	}
	return j
}

//Averages contains the composition-averaged scattering terms, sampled on a Q grid.
type Averages struct {
	MeanSq  []float64 //<f^2> = sum_p x_p f_p^2
	SqMean  []float64 //<f>^2 = (sum_p x_p f_p)^2
	Compton []float64 //sum_p x_p J_p
}

//Average returns the composition-weighted scattering terms of comp on the q grid, according to model.
func Average(model ScatteringModel, comp *Composition, q []float64) *Averages {
	ret := &Averages{
		MeanSq:  make([]float64, len(q)),
		SqMean:  make([]float64, len(q)),
		Compton: make([]float64, len(q)),
	}
	for i, qv := range q {
		var fsq, fmean, j float64
		for _, e := range comp.elements {
			f := model.FormFactor(e, qv)
			fsq += e.Fraction * f * f
			fmean += e.Fraction * f
			j += e.Fraction * model.Compton(e, qv)
		}
		ret.MeanSq[i] = fsq
		ret.SqMean[i] = fmean * fmean
		ret.Compton[i] = j
	}
	return ret
}
