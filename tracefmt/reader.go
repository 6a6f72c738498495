// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefmt

import (
	"bufio"
	"fmt"
	"io"
)

// A Reader decodes trace records from a single input stream.
//
// Its API is modeled on bufio.Scanner: call Scan to advance to the
// next record and Record to retrieve it. Decoding is lazy; records
// are produced one at a time as Scan is called. Re-reading the same
// input from the start yields the identical record sequence.
//
// To construct a new Reader, either call NewReader, or call Reset on
// a zeroed Reader.
type Reader struct {
	br   *bufio.Reader
	path string

	// RSSScale is a multiplier applied to the rss field of every
	// decoded record. It makes the unit of the rss samples an
	// explicit input: sources that record kilobytes need
	// RSSScale 1024 to report in bytes. Zero means 1.
	RSSScale uint64

	offset int64
	rec    Record
	buf    [RecordSize]byte
	err    error
}

// NewReader constructs a reader that decodes trace records from r.
// path is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, path string) *Reader {
	reader := new(Reader)
	reader.Reset(r, path)
	return reader
}

// Reset resets the reader to begin decoding from a new input.
// It preserves RSSScale.
func (r *Reader) Reset(ior io.Reader, path string) {
	if r.br == nil {
		r.br = bufio.NewReader(ior)
	} else {
		r.br.Reset(ior)
	}
	if path == "" {
		path = "<unknown>"
	}
	r.path = path
	r.offset = 0
	r.err = nil
}

// Scan advances the reader to the next record and reports whether one
// was decoded. The caller should use the Record method to get the
// record. If Scan reaches EOF exactly on a record boundary, or if an
// error occurs, it returns false, in which case the caller should use
// the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	n, err := io.ReadFull(r.br, r.buf[:])
	switch err {
	case nil:
		// Got a full record.
	case io.EOF:
		// Clean end of stream.
		return false
	case io.ErrUnexpectedEOF:
		r.err = &FormatError{r.path, r.offset,
			fmt.Sprintf("truncated record: %d trailing bytes, want %d", n, RecordSize)}
		return false
	default:
		r.err = fmt.Errorf("%s: %w", r.path, err)
		return false
	}

	if err := decode(r.buf[:], &r.rec); err != nil {
		r.err = &FormatError{r.path, r.offset, err.Error()}
		return false
	}
	if r.RSSScale > 1 {
		r.rec.RSS *= r.RSSScale
	}
	r.offset += RecordSize
	return true
}

// Record returns the record that was just decoded by Scan. The
// returned Record is overwritten by the next call to Scan.
func (r *Reader) Record() *Record {
	return &r.rec
}

// Err returns the first error that was encountered by the Reader.
// A clean end of input is not an error.
func (r *Reader) Err() error {
	return r.err
}
