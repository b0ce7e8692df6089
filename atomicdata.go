/*
 * atomicdata.go, part of goDiffract.
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

import "sort"

//cromerMann holds the coefficients of the analytic form factor approximation
//f0(s) = sum_i a_i exp(-b_i s^2) + c, with s = sin(theta)/lambda = Q/4pi.
type cromerMann struct {
	a [4]float64
	b [4]float64
	c float64
}

type elementData struct {
	z    int
	mass float64
	cm   cromerMann
}

//Neutral atom data. Masses are standard atomic weights, coefficients are from
//the International Tables for Crystallography, Vol. C, table 6.1.1.4.
//Note that only a selection of elements common in liquid and glass studies is present.
var neutralData = map[string]elementData{
	"H":  {1, 1.008, cromerMann{[4]float64{0.493002, 0.322912, 0.140191, 0.040810}, [4]float64{10.5109, 26.1257, 3.14236, 57.7997}, 0.003038}},
	"He": {2, 4.0026, cromerMann{[4]float64{0.873400, 0.630900, 0.311200, 0.178000}, [4]float64{9.10370, 3.35680, 22.9276, 0.982100}, 0.006400}},
	"Li": {3, 6.94, cromerMann{[4]float64{1.12820, 0.750800, 0.617500, 0.465300}, [4]float64{3.95460, 1.05240, 85.3905, 168.261}, 0.037700}},
	"B":  {5, 10.81, cromerMann{[4]float64{2.05450, 1.33260, 1.09790, 0.706800}, [4]float64{23.2185, 1.02100, 60.3498, 0.140300}, -0.19320}},
	"C":  {6, 12.011, cromerMann{[4]float64{2.31000, 1.02000, 1.58860, 0.865000}, [4]float64{20.8439, 10.2075, 0.568700, 51.6512}, 0.215600}},
	"N":  {7, 14.007, cromerMann{[4]float64{12.2126, 3.13220, 2.01250, 1.16630}, [4]float64{0.005700, 9.89330, 28.9975, 0.582600}, -11.529}},
	"O":  {8, 15.999, cromerMann{[4]float64{3.04850, 2.28680, 1.54630, 0.867000}, [4]float64{13.2771, 5.70110, 0.323900, 32.9089}, 0.250800}},
	"F":  {9, 18.998, cromerMann{[4]float64{3.53920, 2.64120, 1.51700, 1.02430}, [4]float64{10.2825, 4.29440, 0.261500, 26.1476}, 0.277600}},
	"Ne": {10, 20.180, cromerMann{[4]float64{3.95530, 3.11250, 1.45460, 1.12510}, [4]float64{8.40420, 3.42620, 0.230600, 21.7184}, 0.351500}},
	"Na": {11, 22.990, cromerMann{[4]float64{4.76260, 3.17360, 1.26740, 1.11280}, [4]float64{3.28500, 8.84220, 0.313600, 129.424}, 0.676000}},
	"Mg": {12, 24.305, cromerMann{[4]float64{5.42040, 2.17350, 1.22690, 2.30730}, [4]float64{2.82750, 79.2611, 0.380800, 7.19370}, 0.858400}},
	"Al": {13, 26.982, cromerMann{[4]float64{6.42020, 1.90020, 1.59360, 1.96460}, [4]float64{3.03870, 0.742600, 31.5472, 85.0886}, 1.11510}},
	"Si": {14, 28.085, cromerMann{[4]float64{6.29150, 3.03530, 1.98910, 1.54100}, [4]float64{2.43860, 32.3337, 0.678500, 81.6937}, 1.14070}},
	"P":  {15, 30.974, cromerMann{[4]float64{6.43450, 4.17910, 1.78000, 1.49080}, [4]float64{1.90670, 27.1570, 0.526000, 68.1645}, 1.11490}},
	"S":  {16, 32.06, cromerMann{[4]float64{6.90530, 5.20340, 1.43790, 1.58630}, [4]float64{1.46790, 22.2151, 0.253600, 56.1720}, 0.866900}},
	"Cl": {17, 35.45, cromerMann{[4]float64{11.4604, 7.19640, 6.25560, 1.64550}, [4]float64{0.010400, 1.16620, 18.5194, 47.7784}, -9.5574}},
	"Ar": {18, 39.948, cromerMann{[4]float64{7.48450, 6.77230, 0.653900, 1.64420}, [4]float64{0.907200, 14.8407, 43.8983, 33.3929}, 1.44450}},
	"K":  {19, 39.098, cromerMann{[4]float64{8.21860, 7.43980, 1.05190, 0.865900}, [4]float64{12.7949, 0.774800, 213.187, 41.6841}, 1.42280}},
	"Ca": {20, 40.078, cromerMann{[4]float64{8.62660, 7.38730, 1.58990, 1.02110}, [4]float64{10.4421, 0.659900, 85.7484, 178.437}, 1.37510}},
	"Ti": {22, 47.867, cromerMann{[4]float64{9.75950, 7.35580, 1.69910, 1.90210}, [4]float64{7.85080, 0.500000, 35.6338, 116.105}, 1.28070}},
	"Fe": {26, 55.845, cromerMann{[4]float64{11.7695, 7.35730, 3.52220, 2.30450}, [4]float64{4.76110, 0.307200, 15.3535, 76.8805}, 1.03690}},
	"Ni": {28, 58.693, cromerMann{[4]float64{12.8376, 7.29200, 4.44380, 2.38000}, [4]float64{3.87850, 0.256500, 12.1763, 66.3421}, 1.03410}},
	"Cu": {29, 63.546, cromerMann{[4]float64{13.3380, 7.16760, 5.61580, 1.67350}, [4]float64{3.58280, 0.247000, 11.3966, 64.8126}, 1.19100}},
	"Zn": {30, 65.38, cromerMann{[4]float64{14.0743, 7.03180, 5.16520, 2.41000}, [4]float64{3.26550, 0.233300, 10.3163, 58.7097}, 1.30410}},
	"Ga": {31, 69.723, cromerMann{[4]float64{15.2354, 6.70060, 4.35910, 2.96230}, [4]float64{3.06690, 0.241200, 10.7805, 61.4135}, 1.71890}},
	"Ge": {32, 72.630, cromerMann{[4]float64{16.0816, 6.37470, 3.70680, 3.68300}, [4]float64{2.85090, 0.251600, 11.4468, 54.7625}, 2.13130}},
	"Xe": {54, 131.293, cromerMann{[4]float64{20.2933, 19.0298, 8.97670, 1.99000}, [4]float64{3.92820, 0.344000, 26.4659, 64.2658}, 3.71180}},
}

//Ionic coefficients, keyed by symbol and charge.
var ionData = map[ionKey]cromerMann{
	{"Na", 1}:  {[4]float64{3.25650, 3.93620, 1.39980, 1.00320}, [4]float64{2.66710, 6.11530, 0.200100, 14.0390}, 0.404000},
	{"Mg", 2}:  {[4]float64{3.49880, 3.83780, 1.32840, 0.849700}, [4]float64{2.16760, 4.75420, 0.185000, 10.1411}, 0.485300},
	{"Si", 4}:  {[4]float64{4.43918, 3.20345, 1.19453, 0.416530}, [4]float64{1.64167, 3.43757, 0.214900, 6.65365}, 0.746297},
	{"Cl", -1}: {[4]float64{18.2915, 7.20840, 6.53370, 2.33860}, [4]float64{0.006600, 1.17170, 19.5424, 60.4486}, -16.378},
}

type ionKey struct {
	symbol string
	charge int
}

//Table is an element lookup table. It is immutable once built, so a single
//instance can be shared by any number of compositions and scattering models.
type Table struct {
	elements map[string]elementData
	ions     map[ionKey]cromerMann
}

var defaultTable = newTable(neutralData, ionData)

//DefaultTable returns the built-in, process-wide element table.
func DefaultTable() *Table {
	return defaultTable
}

func newTable(el map[string]elementData, ions map[ionKey]cromerMann) *Table {
	t := &Table{elements: make(map[string]elementData, len(el)), ions: make(map[ionKey]cromerMann, len(ions))}
	for k, v := range el {
		t.elements[k] = v
	}
	for k, v := range ions {
		t.ions[k] = v
	}
	return t
}

//Z returns the atomic number for symbol, and false if the element is not in the table.
func (T *Table) Z(symbol string) (int, bool) {
	d, ok := T.elements[symbol]
	return d.z, ok
}

//Mass returns the standard atomic weight for symbol, and false if the element is not in the table.
func (T *Table) Mass(symbol string) (float64, bool) {
	d, ok := T.elements[symbol]
	return d.mass, ok
}

//Symbols returns the symbols present in the table, sorted by atomic number.
func (T *Table) Symbols() []string {
	ret := make([]string, 0, len(T.elements))
	for k := range T.elements {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool { return T.elements[ret[i]].z < T.elements[ret[j]].z })
	return ret
}

//coefficients returns the form factor coefficients for the given symbol and charge.
//exact is false when no ionic entry exists and the neutral coefficients are returned instead.
func (T *Table) coefficients(symbol string, charge int) (cm cromerMann, exact bool, ok bool) {
	if charge != 0 {
		if c, found := T.ions[ionKey{symbol, charge}]; found {
			return c, true, true
		}
	}
	d, found := T.elements[symbol]
	if !found {
		return cromerMann{}, false, false
	}
	return d.cm, charge == 0, true
}
