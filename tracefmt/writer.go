// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefmt

import (
	"encoding/binary"
	"fmt"
	"io"
)

// A Writer writes the binary thread-trace format. It is the inverse
// of Reader and is mainly useful for producing synthetic traces.
type Writer struct {
	w   io.Writer
	buf [RecordSize]byte
}

// NewWriter returns a writer that writes trace records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes rec as one fixed-size record and writes it to w.
// The record's name must be at most NameSize bytes; shorter names are
// null-padded to the fixed width.
func (w *Writer) Write(rec *Record) error {
	if len(rec.Name) > NameSize {
		return fmt.Errorf("name %q exceeds %d bytes", rec.Name, NameSize)
	}

	buf := w.buf[:]
	for i := range buf {
		buf[i] = 0
	}
	// buf[0] is the version, which is always 0; bytes 1-3 are padding.
	binary.LittleEndian.PutUint32(buf[4:], rec.Thread)
	binary.LittleEndian.PutUint64(buf[8:], rec.T0)
	binary.LittleEndian.PutUint64(buf[16:], rec.T1)
	binary.LittleEndian.PutUint64(buf[24:], rec.Utime)
	binary.LittleEndian.PutUint64(buf[32:], rec.Stime)
	binary.LittleEndian.PutUint64(buf[40:], rec.RSS)
	copy(buf[48:], rec.Name)

	_, err := w.w.Write(buf)
	return err
}
