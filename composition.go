/*
 * composition.go, part of goDiffract.
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

	"gonum.org/v1/gonum/floats"
)

//Element is one species of a composition.
type Element struct {
	Symbol   string
	Z        int
	Charge   int
	Fraction float64 //atomic fraction, the fractions of a composition sum to 1
	mass     float64
}

//Mass returns the atomic weight of the element.
func (E Element) Mass() float64 { return E.mass }

//Entry is the user-supplied description of one species, as given in a
//composition table: the element symbol, its ionic charge and the amount of it
//in the formula unit. Z may be left as 0, in which case it is taken from the
//element table. If given, it must match the table.
type Entry struct {
	Symbol string
	Z      int
	Charge int
	Amount float64
}

//Composition is an immutable set of elements with their atomic fractions.
//It can only be built with NewComposition.
type Composition struct {
	elements []Element
	zsum     float64
}

//NewComposition builds a composition from the given entries, using table to
//obtain atomic numbers and masses. The amounts are normalized so the fractions
//sum to 1. An error is returned if no entries are given, if an amount is not
//positive or if an element is not in the table.
func NewComposition(table *Table, entries ...Entry) (*Composition, error) {
	if table == nil {
		table = DefaultTable()
	}
	if len(entries) == 0 {
		return nil, newError(ErrInvalidInput, "NewComposition", "empty composition")
	}
	amounts := make([]float64, len(entries))
	seen := make(map[string]bool, len(entries))
	C := &Composition{elements: make([]Element, 0, len(entries))}
	for i, e := range entries {
		if !(e.Amount > 0) || math.IsInf(e.Amount, 0) {
			return nil, newError(ErrInvalidInput, "NewComposition", "amount of %s must be positive and finite, got %v", e.Symbol, e.Amount)
		}
		key := fmt.Sprintf("%s%+d", e.Symbol, e.Charge)
		if seen[key] {
			return nil, newError(ErrInvalidInput, "NewComposition", "species %s given twice", key)
		}
		seen[key] = true
		z, ok := table.Z(e.Symbol)
		if !ok {
			return nil, newError(ErrInvalidInput, "NewComposition", "element %q not in the element table", e.Symbol)
		}
		if e.Z != 0 && e.Z != z {
			return nil, newError(ErrInvalidInput, "NewComposition", "atomic number %d given for %s, the table says %d", e.Z, e.Symbol, z)
		}
		if e.Charge >= z {
			return nil, newError(ErrInvalidInput, "NewComposition", "charge %d leaves no electrons on %s", e.Charge, e.Symbol)
		}
		mass, _ := table.Mass(e.Symbol)
		amounts[i] = e.Amount
		C.elements = append(C.elements, Element{Symbol: e.Symbol, Z: z, Charge: e.Charge, mass: mass})
	}
	total := floats.Sum(amounts)
	for i := range C.elements {
		C.elements[i].Fraction = amounts[i] / total
		C.zsum += C.elements[i].Fraction * float64(C.elements[i].Z)
	}
	return C, nil
}

//Len returns the number of species in the composition.
func (C *Composition) Len() int { return len(C.elements) }

//Element returns a copy of the ith species.
func (C *Composition) Element(i int) Element { return C.elements[i] }

//Elements returns a copy of all the species in the composition.
func (C *Composition) Elements() []Element {
	ret := make([]Element, len(C.elements))
	copy(ret, C.elements)
	return ret
}

//MeanZ returns the fraction-weighted atomic number.
func (C *Composition) MeanZ() float64 { return C.zsum }

//MeanMass returns the fraction-weighted atomic mass, in g/mol.
func (C *Composition) MeanMass() float64 {
	var m float64
	for _, v := range C.elements {
		m += v.Fraction * v.mass
	}
	return m
}

//String returns the composition in a "Symbol: (Z, charge, fraction)" format.
func (C *Composition) String() string {
	parts := make([]string, 0, len(C.elements))
	for _, v := range C.elements {
		parts = append(parts, fmt.Sprintf("%s: (%d, %d, %.6g)", v.Symbol, v.Z, v.Charge, v.Fraction))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

//MassDensity converts a number density in atoms/A^3 to a mass density in g/cm^3.
func MassDensity(rho float64, comp *Composition) float64 {
	return rho * comp.MeanMass() / AvogadroScaling
}

//checkComposition returns an error if comp is nil or empty.
func checkComposition(caller string, comp *Composition) error {
	if comp == nil || comp.Len() == 0 {
		return newError(ErrInvalidInput, caller, "empty composition")
	}
	return nil
}

//checkDensity returns an error if rho is not a positive, finite number.
func checkDensity(caller string, rho float64) error {
	if !(rho > 0) || math.IsInf(rho, 0) {
		return newError(ErrInvalidInput, caller, "density must be positive and finite, got %v", rho)
	}
	return nil
}
