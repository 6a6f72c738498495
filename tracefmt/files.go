// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefmt

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// A Files reads trace records from a sequence of input files.
//
// The logical record stream is the concatenation, in path order, of
// the records decoded from each file; every file is read to its own
// end of data. Paths ending in ".zst" or ".gz" are decompressed
// transparently. Each file is opened when the stream reaches it and
// closed before the next one is opened, on success and on error
// alike.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// AllowStdin indicates that the path "-" should be treated as
	// stdin. This is generally the desired behavior when the file
	// list comes from command-line arguments.
	AllowStdin bool

	// Stdin is the stream read for the path "-" when AllowStdin is
	// set. If nil, os.Stdin is used. A caller that scans the inputs
	// more than once must buffer stdin itself and set Stdin to a
	// fresh reader over the buffered bytes for each pass, since
	// os.Stdin cannot be re-read.
	Stdin io.Reader

	// RSSScale is a multiplier applied to the rss field of every
	// decoded record. See Reader.RSSScale. Zero means 1.
	RSSScale uint64

	// inputs is the sequence of remaining paths, or nil if this
	// Files has not started yet. Note that this distinguishes nil
	// from length 0.
	inputs []string

	reader Reader
	cur    io.Reader // current input; nil between files
	file   *os.File  // backing file of cur, nil for stdin
	decomp io.Closer // non-nil while reading a compressed file
	err    error
}

// Scan advances the reader to the next record in the sequence of
// files and reports whether a record was read. The caller should use
// the Record method to get the record. If Scan reaches the end of the
// file sequence, or if an error occurs, it returns false. In this
// case, the caller should use the Err method to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}

	if f.inputs == nil {
		// First use.
		f.inputs = f.Paths
		if f.inputs == nil {
			f.inputs = []string{}
		}
	}

	for {
		if f.cur == nil {
			// Open the next file.
			if len(f.inputs) == 0 {
				// We're out of inputs.
				return false
			}
			path := f.inputs[0]
			f.inputs = f.inputs[1:]

			var in io.Reader
			if f.AllowStdin && path == "-" {
				in = f.Stdin
				if in == nil {
					in = os.Stdin
				}
			} else {
				file, err := os.Open(path)
				if err != nil {
					f.err = err
					return false
				}
				f.file = file
				in = file
			}

			in, decomp, err := wrapDecompressor(in, path)
			if err != nil {
				f.err = err
				f.closeCurrent()
				return false
			}
			f.cur, f.decomp = in, decomp
			f.reader.RSSScale = f.RSSScale
			f.reader.Reset(in, path)
		}

		// Try to get the next record.
		if f.reader.Scan() {
			return true
		}
		err := f.reader.Err()
		if err != nil {
			f.err = err
			f.closeCurrent()
			return false
		}
		// Just an EOF. Close this file and open the next.
		f.closeCurrent()
	}
}

// wrapDecompressor wraps in with a decompressor selected by the
// extension of path. For plain files it returns in unchanged and a
// nil closer.
func wrapDecompressor(in io.Reader, path string) (io.Reader, io.Closer, error) {
	switch {
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(in)
		if err != nil {
			return nil, nil, err
		}
		rc := dec.IOReadCloser()
		return rc, rc, nil
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(in)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr, nil
	}
	return in, nil, nil
}

// closeCurrent closes the decompressor and file for the input
// currently being read, if any.
func (f *Files) closeCurrent() {
	if f.decomp != nil {
		f.decomp.Close()
		f.decomp = nil
	}
	if f.file != nil {
		f.file.Close()
		f.file = nil
	}
	f.cur = nil
}

// Record returns the record that was just read by Scan.
// See Reader.Record.
func (f *Files) Record() *Record {
	return f.reader.Record()
}

// Err returns the error that stopped Scan, if any. If Scan stopped
// because it read each file to completion, or if Scan has not yet
// returned false, Err returns nil.
func (f *Files) Err() error {
	return f.err
}
