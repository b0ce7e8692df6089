/*
 * diffio.go, part of goDiffract.
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

//Package diffio reads diffraction patterns from column files, and writes the
//results of goDiffract analyses: S(Q), g(r) and RDF files, an append-only
//refinement log and a JSON summary. Files with a .zst or .gz extension are
//compressed and decompressed transparently.
package diffio

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//Error is the error type of this package.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
	err      error
}

func newError(filename, caller string, err error, format string, a ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, a...), filename: filename, deco: []string{caller}, critical: true, err: err}
}

func (err *Error) Error() string {
	if err.err != nil {
		return fmt.Sprintf("goDiffract/diffio: file %s: %s: %v", err.filename, err.message, err.err)
	}
	return fmt.Sprintf("goDiffract/diffio: file %s: %s", err.filename, err.message)
}

//Decorate adds new information to the error
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the file associated to the error.
func (err *Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

//Unwrap returns the underlying error, if any.
func (err *Error) Unwrap() error { return err.err }

//zstdReadCloser closes the decoder and the underlying file together.
type zstdReadCloser struct {
	*zstd.Decoder
	f *os.File
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

type gzipReadCloser struct {
	*gzip.Reader
	f *os.File
}

func (g gzipReadCloser) Close() error {
	g.Reader.Close()
	return g.f.Close()
}

//open opens name for reading, decompressing it if needed, according to its extension.
func open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, newError(name, "open", err, "can't open file")
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst", ".zstd":
		d, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, newError(name, "open", err, "can't start zstd decoder")
		}
		return zstdReadCloser{d, f}, nil
	case ".gz":
		g, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, newError(name, "open", err, "can't start gzip decoder")
		}
		return gzipReadCloser{g, f}, nil
	}
	return f, nil
}

//writeCloser closes the compressor, if any, and then the file.
type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w writeCloser) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

//create creates name, compressing what is written to it according to its extension.
func create(name string, appendMode bool) (io.WriteCloser, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(name, flags, 0o644)
	if err != nil {
		return nil, newError(name, "create", err, "can't create file")
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst", ".zstd":
		z, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return nil, newError(name, "create", err, "can't start zstd encoder")
		}
		return writeCloser{z, []io.Closer{z, f}}, nil
	case ".gz":
		g := gzip.NewWriter(f)
		return writeCloser{g, []io.Closer{g, f}}, nil
	}
	return f, nil
}
