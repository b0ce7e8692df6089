/*
 * write.go, part of goDiffract.
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

package diffio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	diffract "github.com/rmera/godiffract"
)

//Version is written in the headers of the output files.
const Version = "goDiffract v0.1.0"

//WriteColumns writes the columns cols to w, one row per line, preceded
//by the header lines, each one starting with '# '.
func WriteColumns(w io.Writer, header []string, cols ...[]float64) error {
	bw := bufio.NewWriter(w)
	for _, h := range header {
		if _, err := fmt.Fprintf(bw, "# %s\n", h); err != nil {
			return err
		}
	}
	if len(cols) == 0 {
		return bw.Flush()
	}
	n := len(cols[0])
	for _, c := range cols[1:] {
		if len(c) != n {
			return fmt.Errorf("goDiffract/diffio: columns of different lengths (%d, %d)", n, len(c))
		}
	}
	row := make([]string, len(cols))
	for i := 0; i < n; i++ {
		for j, c := range cols {
			row[j] = fmt.Sprintf("%.18e", c[i])
		}
		if _, err := bw.WriteString(strings.Join(row, " ") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeFile(name, caller string, header []string, cols ...[]float64) error {
	f, err := create(name, false)
	if err != nil {
		return errDecorate(err, caller)
	}
	if err := WriteColumns(f, header, cols...); err != nil {
		f.Close()
		return newError(name, caller, err, "can't write data")
	}
	if err := f.Close(); err != nil {
		return newError(name, caller, err, "can't close file")
	}
	return nil
}

//WriteSQ writes the structure factor, S(Q) = i(Q) + S_inf, of ref to the file name.
//The header calls it refined only if refinement iterations were performed.
//If a modification function other than none was used, a third column with the
//modified interference function, i(Q)*M(Q), is added.
func WriteSQ(name string, ref *diffract.Refinement, mod diffract.Modification) error {
	title := "S(Q)"
	if ref.Iterations > 0 {
		title = "Refined S(Q)"
	}
	header := []string{
		title,
		Version,
		"See refinement_log for more info",
		"S(Q) = i(Q) + S_inf",
		"S_inf = " + sInfString(ref.SInf),
	}
	s := ref.RefinedSQ()
	if mod.Kind == diffract.ModNone {
		header = append(header, "Q|S(Q)")
		return writeFile(name, "WriteSQ", header, ref.Q, s)
	}
	m, err := mod.Apply(ref.Q)
	if err != nil {
		return newError(name, "WriteSQ", err, "can't apply modification function")
	}
	im := make([]float64, len(m))
	for i, v := range m {
		im[i] = ref.Refined[i] * v
	}
	header = append(header, "M(Q) : "+mod.String(), "Q|S(Q)|i(Q)*M(Q)")
	return writeFile(name, "WriteSQ", header, ref.Q, s, im)
}

//sInfString returns S_inf as a single number if it doesn't change with Q.
func sInfString(sinf []float64) string {
	if len(sinf) == 0 {
		return "[]"
	}
	for _, v := range sinf[1:] {
		if v != sinf[0] {
			return fmt.Sprintf("Q-dependent, %g to %g", sinf[0], sinf[len(sinf)-1])
		}
	}
	return fmt.Sprintf("%g", sinf[0])
}

//WriteGr writes g(r) to the file name.
func WriteGr(name string, gr *diffract.Curve) error {
	header := []string{"Refined g(r)", Version, "See refinement_log for more info", "r|g(r)"}
	return writeFile(name, "WriteGr", header, gr.X, gr.Y)
}

//WriteRDF writes the radial distribution function to the file name.
func WriteRDF(name string, rdf *diffract.Curve) error {
	header := []string{"Refined rdf", Version, "See refinement_log for more info", "r|rdf"}
	return writeFile(name, "WriteRDF", header, rdf.X, rdf.Y)
}
