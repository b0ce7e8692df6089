/*
 * conversion.go, part of goDiffract.
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

//Conversion factors and other constants

const (
	//AvogadroScaling is the Avogadro number times 1e-24. Dividing amu/A^3 by it gives g/cm^3.
	AvogadroScaling = 0.602214076
)

//Default real-space grid, in A.
const (
	DefaultRStep = 0.01
	DefaultRMax  = 20.0
)

//Density optimizer defaults. They match the L-BFGS-B settings the refinement
//was originally tuned with.
const (
	DefaultFuncTol      = 2.22e-8
	DefaultGradTol      = 1e-10
	DefaultMaxIter      = 15000
	DefaultMaxFuncEvals = 15000
	DefaultFDStep       = 1e-8
)

//appzero is used to decide when a Q or r value is zero for limit evaluations.
const appzero = 1e-12
