/*
 * doc.go, part of goDiffract.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package diffract is the main package of the goDiffract library. It turns X-ray total
scattering intensities from liquid and amorphous samples into structure factors and
real-space distribution functions.



	**goDiffract Capabilities**


    Cromer-Mann atomic form factors and Compton (incoherent) scattering for
	neutral atoms and some ions, averaged over an arbitrary composition.

    Normalization of an intensity to S(Q) with the Krogh-Moe/Norman sum rule,
	in the Ashcroft-Langreth or the Faber-Ziman convention.

    Lorch and cosine-window modification functions.

    Fourier transforms to g(r), the radial distribution function and F(r),
	either with the trapezoid rule on any Q grid, or with a discrete sine
	transform on evenly spaced data. Back-transform from F(r) to i(Q).

    Iterative removal of the unphysical oscillations of F(r) at short
	distances (Eggert et al., Phys. Rev. B 65, 174105, 2002).

    Bounded optimization of the sample density by minimizing the
	chi-squared left after that refinement.

Sub-packages provide preprocessing helpers (datamanip), file input and output (diffio),
and a command line interface (cmd/godiffract).

Q is given in 1/A, r in A and number densities in atoms/A^3, throughout.*/
package diffract
