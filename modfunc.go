/*
 * modfunc.go, part of goDiffract.
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
	"strings"
)

//ModKind identifies a modification (window) function.
type ModKind int

const (
	ModNone ModKind = iota
	ModLorch
	ModCosineWindow
)

func (M ModKind) String() string {
	switch M {
	case ModNone:
		return "none"
	case ModLorch:
		return "lorch"
	case ModCosineWindow:
		return "cosine-window"
	}
	return fmt.Sprintf("ModKind(%d)", int(M))
}

//ParseModKind returns the modification function kind named by s.
//Case is ignored and spaces are taken as hyphens, an empty string means "none".
func ParseModKind(s string) (ModKind, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-") {
	case "none", "":
		return ModNone, nil
	case "lorch":
		return ModLorch, nil
	case "cosine-window":
		return ModCosineWindow, nil
	}
	return ModNone, newError(ErrInvalidInput, "ParseModKind", "unknown modification function %q", s)
}

//Modification describes the damping applied to i(Q) before transforming it to real space.
//WindowStart is only used, and then required, by the cosine window.
type Modification struct {
	Kind        ModKind
	WindowStart float64
	HasStart    bool
}

//NoModification is the identity modification function.
var NoModification = Modification{Kind: ModNone}

//Lorch returns a Lorch modification function.
func Lorch() Modification { return Modification{Kind: ModLorch} }

//CosineWindow returns a cosine-window modification that starts tapering at start.
func CosineWindow(start float64) Modification {
	return Modification{Kind: ModCosineWindow, WindowStart: start, HasStart: true}
}

func (M Modification) String() string {
	if M.Kind == ModCosineWindow && M.HasStart {
		return fmt.Sprintf("%s (start %g)", M.Kind, M.WindowStart)
	}
	return M.Kind.String()
}

//Validate returns an error if the modification is not usable.
func (M Modification) Validate() error {
	switch M.Kind {
	case ModNone, ModLorch:
		return nil
	case ModCosineWindow:
		if !M.HasStart {
			return newError(ErrMissingWindowStart, "Modification.Validate", "no window start given")
		}
		if math.IsNaN(M.WindowStart) || math.IsInf(M.WindowStart, 0) {
			return newError(ErrInvalidInput, "Modification.Validate", "window start is not finite")
		}
		return nil
	}
	return newError(ErrInvalidInput, "Modification.Validate", "unknown modification kind %d", int(M.Kind))
}

//Apply returns the modification function sampled on q, which must be
//increasing. Qmax is taken as the last element of q.
//Lorch: sin(pi Q/Qmax)/(pi Q/Qmax). Cosine window: 1 below the window start,
//a half-cosine going from 1 at the window start to 0 at Qmax above it.
//If the window start is at or above Qmax, no damping is applied.
func (M Modification) Apply(q []float64) ([]float64, error) {
	if err := M.Validate(); err != nil {
		return nil, errDecorate(err, "Modification.Apply")
	}
	ret := make([]float64, len(q))
	for i := range ret {
		ret[i] = 1
	}
	if len(q) == 0 || M.Kind == ModNone {
		return ret, nil
	}
	qmax := q[len(q)-1]
	if !(qmax > 0) {
		return nil, newError(ErrDegenerate, "Modification.Apply", "Qmax must be positive, got %v", qmax)
	}
	switch M.Kind {
	case ModLorch:
		for i, v := range q {
			x := math.Pi * v / qmax
			if math.Abs(x) > appzero {
				ret[i] = math.Sin(x) / x
			}
		}
	case ModCosineWindow:
		ws := M.WindowStart
		if ws >= qmax {
			return ret, nil
		}
		for i, v := range q {
			if v < ws {
				continue
			}
			ret[i] = 0.5 * (1 + math.Cos(math.Pi*(v-ws)/(qmax-ws)))
		}
	}
	return ret, nil
}
