/*
 * errors.go, part of goDiffract.
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
	"errors"
	"fmt"
	"math"
	"strings"
)

//Sentinel kinds. Every *Error returned by this package unwraps to one of these,
//so callers can test with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDegenerate         = errors.New("numerical degeneracy")
	ErrMissingWindowStart = errors.New("cosine-window modification requires a window start")
	ErrInvalidBounds      = errors.New("invalid density bounds")
)

//Error is the error type for goDiffract. The Decorate
//method allows adding the names of the functions the error travels through,
//without changing its type.
type Error struct {
	message  string
	kind     error
	deco     []string
	critical bool
}

func newError(kind error, caller, format string, a ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, a...), kind: kind, deco: []string{caller}, critical: true}
}

func (err *Error) Error() string {
	trail := ""
	if len(err.deco) > 0 {
		trail = strings.Join(err.deco, " <- ") + ": "
	}
	return fmt.Sprintf("goDiffract: %s%v: %s", trail, err.kind, err.message)
}

//Unwrap returns the sentinel kind of the error.
func (err *Error) Unwrap() error { return err.kind }

//Decorate adds deco to the call trail of the error, unless it is empty,
//and returns the current trail.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical returns true if the error prevents any result from being produced.
func (err *Error) Critical() bool { return err.critical }

//errDecorate decorates err with caller if it is an *Error, returns it unchanged otherwise.
func errDecorate(err error, caller string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}

//checkFinite returns an ErrDegenerate error naming the first non-finite element of v.
func checkFinite(caller, name string, v []float64) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return newError(ErrDegenerate, caller, "%s is not finite at index %d (%v)", name, i, x)
		}
	}
	return nil
}

//checkCurve validates a sampled curve: equal lengths, at least 2 points, strictly
//increasing and finite x values, finite y values.
func checkCurve(caller string, x, y []float64) error {
	if len(x) != len(y) {
		return newError(ErrInvalidInput, caller, "x and y have different lengths (%d, %d)", len(x), len(y))
	}
	if len(x) < 2 {
		return newError(ErrDegenerate, caller, "at least 2 points are needed, got %d", len(x))
	}
	if err := checkFinite(caller, "x", x); err != nil {
		return err
	}
	if err := checkFinite(caller, "y", y); err != nil {
		return err
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return newError(ErrInvalidInput, caller, "x must be strictly increasing (index %d: %v <= %v)", i, x[i], x[i-1])
		}
	}
	return nil
}
