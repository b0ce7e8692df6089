/*
 * read.go, part of goDiffract.
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
	"errors"
	"io"
	"strconv"
	"strings"

	diffract "github.com/rmera/godiffract"
)

//ReadColumns reads whitespace (or comma) separated numeric columns from r.
//Empty lines and lines starting with '#' are skipped. Every data line must
//have the same number of columns as the first one. name is used only for
//error messages.
func ReadColumns(r io.Reader, name string) ([][]float64, error) {
	var cols [][]float64
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for s.Scan() {
		line++
		text := strings.TrimSpace(s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(c rune) bool {
			return c == ',' || c == ' ' || c == '\t'
		})
		if cols == nil {
			cols = make([][]float64, len(fields))
		}
		if len(fields) != len(cols) {
			return nil, newError(name, "ReadColumns", nil, "line %d has %d columns, expected %d", line, len(fields), len(cols))
		}
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, newError(name, "ReadColumns", err, "can't parse column %d of line %d", i+1, line)
			}
			cols[i] = append(cols[i], v)
		}
	}
	if err := s.Err(); err != nil {
		return nil, newError(name, "ReadColumns", err, "error reading data")
	}
	if len(cols) == 0 {
		return nil, newError(name, "ReadColumns", nil, "no data found")
	}
	return cols, nil
}

//ReadCurve reads the first two columns of the file name as x and y values.
//The file may be zstd (.zst) or gzip (.gz) compressed.
func ReadCurve(name string) (*diffract.Curve, error) {
	f, err := open(name)
	if err != nil {
		return nil, errDecorate(err, "ReadCurve")
	}
	defer f.Close()
	cols, err := ReadColumns(f, name)
	if err != nil {
		return nil, errDecorate(err, "ReadCurve")
	}
	if len(cols) < 2 {
		return nil, newError(name, "ReadCurve", nil, "at least 2 columns are needed, found %d", len(cols))
	}
	return &diffract.Curve{X: cols[0], Y: cols[1]}, nil
}

func errDecorate(err error, caller string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
