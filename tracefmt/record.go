// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tracefmt reads and writes the binary thread-trace format.
//
// A trace file is a sequence of fixed-size 96-byte records with no
// header or footer; end-of-file must land exactly on a record
// boundary. Files may be concatenated. All integer fields are
// little-endian, matching the instrumentation that produces them:
//
//	offset  size  field
//	     0     1  version (must be 0)
//	     1     3  padding (ignored)
//	     4     4  thread  (uint32)
//	     8     8  t0      (uint64, ns)
//	    16     8  t1      (uint64, ns)
//	    24     8  utime   (uint64, ns)
//	    32     8  stime   (uint64, ns)
//	    40     8  rss     (uint64)
//	    48    48  name    (null-padded UTF-8 text)
package tracefmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

const (
	// RecordSize is the encoded size of one trace record in bytes.
	RecordSize = 96

	// NameSize is the fixed width of the name field in bytes.
	NameSize = 48
)

// A Record describes one traced interval on one thread.
//
// Records are plain value objects. The reader returns a pointer to an
// internal Record that is overwritten by the next Scan; callers that
// retain records must copy them.
type Record struct {
	Thread uint32 // OS or logical thread id
	T0     uint64 // interval start, nanoseconds
	T1     uint64 // interval end, nanoseconds
	Utime  uint64 // user CPU time consumed during the interval, nanoseconds
	Stime  uint64 // system CPU time consumed during the interval, nanoseconds
	RSS    uint64 // resident set size sampled at the end of the interval
	Name   string // label of the traced operation
}

// Wall returns the wall-clock duration of r in seconds. The decoder
// does not require T0 ≤ T1, so Wall may be negative for malformed
// input.
func (r *Record) Wall() float64 {
	return (float64(r.T1) - float64(r.T0)) / 1e9
}

// CPU returns the total (user+system) CPU time of r in seconds.
func (r *Record) CPU() float64 {
	return (float64(r.Utime) + float64(r.Stime)) / 1e9
}

// A FormatError reports malformed data in a trace file.
type FormatError struct {
	Path   string // input the error occurred in
	Offset int64  // byte offset of the bad record within the input
	Msg    string
}

// Pos returns the position of the error as an input name and a byte
// offset within that input.
func (e *FormatError) Pos() (path string, offset int64) {
	return e.Path, e.Offset
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: offset %d: %s", e.Path, e.Offset, e.Msg)
}

// decode decodes the RecordSize-byte buffer buf into rec. The buffer
// must be exactly RecordSize bytes; length checking and positioning
// are the caller's job.
func decode(buf []byte, rec *Record) error {
	if v := buf[0]; v != 0 {
		return fmt.Errorf("unsupported record version %d", v)
	}
	// Bytes 1-3 are padding.
	rec.Thread = binary.LittleEndian.Uint32(buf[4:])
	rec.T0 = binary.LittleEndian.Uint64(buf[8:])
	rec.T1 = binary.LittleEndian.Uint64(buf[16:])
	rec.Utime = binary.LittleEndian.Uint64(buf[24:])
	rec.Stime = binary.LittleEndian.Uint64(buf[32:])
	rec.RSS = binary.LittleEndian.Uint64(buf[40:])

	name := buf[48 : 48+NameSize]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	if !utf8.Valid(name) {
		return fmt.Errorf("name %q is not valid UTF-8", name)
	}
	rec.Name = string(name)
	return nil
}
