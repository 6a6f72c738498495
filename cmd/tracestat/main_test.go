// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/perftools/tracestat/tracefmt"
)

// writeTrace encodes recs into a trace file under dir and returns its
// path.
func writeTrace(t *testing.T, dir string, recs []tracefmt.Record) string {
	t.Helper()
	path := filepath.Join(dir, "test.trace")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := tracefmt.NewWriter(f)
	for i := range recs {
		if err := w.Write(&recs[i]); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

// normalize collapses runs of spaces so tests compare report content
// rather than tabwriter padding.
func normalize(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, strings.Join(strings.Fields(line), " "))
	}
	return strings.Join(out, "\n")
}

var testRecords = []tracefmt.Record{
	{Thread: 1, T0: 0, T1: 1e9, Utime: 6e8, Stime: 2e8, RSS: 1000, Name: "load"},
	{Thread: 2, T0: 5e8, T1: 15e8, Utime: 5e8, Stime: 0, RSS: 2000, Name: "crunch"},
}

func TestTextReport(t *testing.T) {
	path := writeTrace(t, t.TempDir(), testRecords)

	reports, err := analyze([]string{path}, 1)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	formatText(&buf, reports)

	start := time.Unix(0, 0).Format("2006-01-02 15:04:05")
	want := `start time: ` + start + `
wall time: 1.50s
total cpu: 1.30s (86.7% of wall)
user cpu: 1.10s (84.6%)
sys cpu: 200ms (15.4%)
peak rss: 1.95kB

thread wall wall% cpu cpu%
1 1.00s 66.7% 800ms 61.5%
2 1.00s 66.7% 500ms 38.5%

label wall wall% cpu cpu%
load 1.00s 66.7% 800ms 61.5%
crunch 1.00s 66.7% 500ms 38.5%

label n mean median min max
load 1 1.00s 1.00s 1.00s 1.00s
crunch 1 1.00s 1.00s 1.00s 1.00s

concurrency:
level elapsed of total
1 1.00s 66.7%
2 500ms 33.3%

peak aggregate memory: 2.93kB
`
	if d := cmp.Diff(want, normalize(buf.String())); d != "" {
		t.Errorf("report differs (-want +got):\n%s", d)
	}
}

func TestTextReportEmpty(t *testing.T) {
	path := writeTrace(t, t.TempDir(), nil)

	reports, err := analyze([]string{path}, 1)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	formatText(&buf, reports)

	want := `start time: none
wall time: 0
total cpu: 0 (0.0% of wall)
user cpu: 0 (0.0%)
sys cpu: 0 (0.0%)
peak rss: 0

concurrency:
no data

peak aggregate memory: no data
`
	if d := cmp.Diff(want, normalize(buf.String())); d != "" {
		t.Errorf("report differs (-want +got):\n%s", d)
	}
}

func TestStdinReport(t *testing.T) {
	var trace bytes.Buffer
	w := tracefmt.NewWriter(&trace)
	for i := range testRecords {
		if err := w.Write(&testRecords[i]); err != nil {
			t.Fatal(err)
		}
	}
	defer func(old io.Reader) { stdin = old }(stdin)
	stdin = bytes.NewReader(trace.Bytes())

	// All three analyses must see the full stream even though stdin
	// can be read only once.
	reports, err := analyze([]string{"-"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := reports.Summary.Records; got != 2 {
		t.Errorf("summary saw %d records, want 2", got)
	}
	if reports.Overlap == nil {
		t.Error("overlap section reported no data")
	} else if got := reports.Overlap.Elapsed[2]; got != 0.5 {
		t.Errorf("Elapsed[2] = %v, want 0.5", got)
	}
	if !reports.HasPeak {
		t.Error("peak section reported no data")
	} else if reports.Peak != 3000 {
		t.Errorf("peak = %d, want 3000", reports.Peak)
	}
}

func TestHTMLReport(t *testing.T) {
	path := writeTrace(t, t.TempDir(), testRecords)

	reports, err := analyze([]string{path}, 1)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	formatHTML(&buf, reports)

	for _, want := range []string{"<table", "2.93kB", "crunch", "<th>level"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("HTML output does not contain %q", want)
		}
	}
}

func TestRSSUnitScaling(t *testing.T) {
	path := writeTrace(t, t.TempDir(), testRecords)

	// With kilobyte inputs the peak is 3000 kB, not 3000 B.
	reports, err := analyze([]string{path}, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if want := uint64(3000 * 1024); reports.Peak != want {
		t.Errorf("peak = %d, want %d", reports.Peak, want)
	}
}

func TestFailFast(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.trace")
	// A file ending mid-record.
	if err := os.WriteFile(path, make([]byte, tracefmt.RecordSize+10), 0666); err != nil {
		t.Fatal(err)
	}

	_, err := analyze([]string{path}, 1)
	var ferr *tracefmt.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("got error %v, want *FormatError", err)
	}
	if p, offset := ferr.Pos(); p != path || offset != tracefmt.RecordSize {
		t.Errorf("error at %s:%d, want %s:%d", p, offset, path, tracefmt.RecordSize)
	}
}
