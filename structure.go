/*
 * structure.go, part of goDiffract.
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

	"gonum.org/v1/gonum/integrate"
)

//Method is the normalization convention used for the total structure factor.
type Method int

const (
	//AshcroftLangreth keeps the self scattering inside S(Q), so its high-Q limit,
	//S_inf = <f^2>/<f>^2, depends on Q for more than one species.
	AshcroftLangreth Method = iota
	//FaberZiman subtracts the self scattering, S(Q) goes to 1 at high Q.
	FaberZiman
)

func (M Method) String() string {
	switch M {
	case AshcroftLangreth:
		return "ashcroft-langreth"
	case FaberZiman:
		return "faber-ziman"
	}
	return fmt.Sprintf("Method(%d)", int(M))
}

//ParseMethod returns the Method named by s.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "ashcroft-langreth", "":
		return AshcroftLangreth, nil
	case "faber-ziman":
		return FaberZiman, nil
	}
	return AshcroftLangreth, newError(ErrInvalidInput, "ParseMethod", "unknown S(Q) method %q", s)
}

//SQInput contains what is needed to turn a measured intensity into S(Q).
type SQInput struct {
	Q           []float64 //momentum transfer, 1/A, strictly increasing
	Intensity   []float64 //background-corrected intensity, arbitrary units
	Composition *Composition
	Density     float64 //number density, atoms/A^3
	Method      Method
	Mod         Modification //used only to weight the normalization integrals
}

func (in SQInput) validate(caller string) error {
	if err := checkCurve(caller, in.Q, in.Intensity); err != nil {
		return err
	}
	if err := checkComposition(caller, in.Composition); err != nil {
		return err
	}
	if err := checkDensity(caller, in.Density); err != nil {
		return err
	}
	if in.Method != AshcroftLangreth && in.Method != FaberZiman {
		return newError(ErrInvalidInput, caller, "unknown method %d", int(in.Method))
	}
	return errDecorate(in.Mod.Validate(), caller)
}

//SQ is the structure factor obtained from an intensity. It is not modified after
//being returned.
type SQ struct {
	Q            []float64
	S            []float64
	SInf         []float64
	Interference []float64 //i(Q) = S(Q) - S_inf
	Alpha        float64   //normalization factor applied to the intensity
	Method       Method
}

//StructureFactor normalizes the intensity in in and returns the structure
//factor, its high-Q limit and the interference function.
//The normalization factor alpha is obtained from the Krogh-Moe/Norman sum rule,
//as in Eggert et al. (2002):
//	alpha = [ int Q^2 M(Q) (J + <f^2>)/<f>^2 dQ - 2 pi^2 rho ] / int Q^2 M(Q) I(Q)/<f>^2 dQ
//Then, for Faber-Ziman: S = (alpha I - J - <f^2>)/<f>^2 + 1, and for Ashcroft-Langreth
//S = (alpha I - J)/<f>^2. Both give the same i(Q).
func StructureFactor(in SQInput, options ...*Options) (*SQ, error) {
	o := optionsOrDefault(options)
	if err := in.validate("StructureFactor"); err != nil {
		return nil, err
	}
	av := Average(o.Model(), in.Composition, in.Q)
	if err := checkFinite("StructureFactor", "form factors", av.SqMean); err != nil {
		return nil, err
	}
	mod, err := in.Mod.Apply(in.Q)
	if err != nil {
		return nil, errDecorate(err, "StructureFactor")
	}
	alpha, err := normalization(in.Q, in.Intensity, av, mod, in.Density)
	if err != nil {
		return nil, errDecorate(err, "StructureFactor")
	}
	n := len(in.Q)
	ret := &SQ{
		Q:            append([]float64(nil), in.Q...),
		S:            make([]float64, n),
		SInf:         sInf(av, in.Method),
		Interference: make([]float64, n),
		Alpha:        alpha,
		Method:       in.Method,
	}
	for i, I := range in.Intensity {
		coh := alpha*I - av.Compton[i]
		switch in.Method {
		case FaberZiman:
			ret.S[i] = (coh-av.MeanSq[i])/av.SqMean[i] + 1
		default:
			ret.S[i] = coh / av.SqMean[i]
		}
		ret.Interference[i] = ret.S[i] - ret.SInf[i]
	}
	if err := checkFinite("StructureFactor", "S(Q)", ret.S); err != nil {
		return nil, err
	}
	return ret, nil
}

//normalization returns the factor that puts the intensity on an absolute (electron) scale.
func normalization(q, intensity []float64, av *Averages, mod []float64, rho float64) (float64, error) {
	num := make([]float64, len(q))
	den := make([]float64, len(q))
	for i, v := range q {
		w := v * v * mod[i] / av.SqMean[i]
		num[i] = w * (av.Compton[i] + av.MeanSq[i])
		den[i] = w * intensity[i]
	}
	d := integrate.Trapezoidal(q, den)
	if math.Abs(d) < appzero || math.IsNaN(d) {
		return 0, newError(ErrDegenerate, "normalization", "the weighted intensity integrates to %v", d)
	}
	return (integrate.Trapezoidal(q, num) - 2*math.Pi*math.Pi*rho) / d, nil
}

func sInf(av *Averages, method Method) []float64 {
	ret := make([]float64, len(av.MeanSq))
	for i := range ret {
		if method == FaberZiman {
			ret[i] = 1
			continue
		}
		ret[i] = av.MeanSq[i] / av.SqMean[i]
	}
	return ret
}

//SInf returns the high-Q limit of S(Q) for the given composition and method,
//sampled on q. It is 1 for Faber-Ziman, <f^2>/<f>^2 for Ashcroft-Langreth.
func SInf(comp *Composition, q []float64, method Method, options ...*Options) ([]float64, error) {
	o := optionsOrDefault(options)
	if err := checkComposition("SInf", comp); err != nil {
		return nil, err
	}
	av := Average(o.Model(), comp, q)
	ret := sInf(av, method)
	if err := checkFinite("SInf", "S_inf", ret); err != nil {
		return nil, err
	}
	return ret, nil
}

//Intensity is the inverse of StructureFactor: it returns the intensity that,
//normalized with alpha, gives the interference function iq. Useful to build
//synthetic data.
func Intensity(comp *Composition, q, iq []float64, alpha float64, options ...*Options) ([]float64, error) {
	o := optionsOrDefault(options)
	if err := checkComposition("Intensity", comp); err != nil {
		return nil, err
	}
	if err := checkCurve("Intensity", q, iq); err != nil {
		return nil, err
	}
	if alpha == 0 {
		return nil, newError(ErrInvalidInput, "Intensity", "alpha can't be zero")
	}
	av := Average(o.Model(), comp, q)
	ret := make([]float64, len(q))
	for i, v := range iq {
		ret[i] = (v*av.SqMean[i] + av.MeanSq[i] + av.Compton[i]) / alpha
	}
	return ret, nil
}
