// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Tracestat summarizes binary thread-trace logs.
//
// Usage:
//
//	tracestat [-html] [-rss-unit unit] file.trace [more.trace ...]
//
// Each input file is a sequence of fixed-size trace records as
// written by an instrumented process (see package tracefmt).
// Files ending in .zst or .gz are decompressed on the fly, and the
// path "-" reads a trace stream from stdin.
//
// Tracestat reads the inputs and prints three reports: a wall/CPU/
// memory summary with per-thread and per-label breakdowns, a
// histogram of how much wall time was spent at each concurrency
// level, and the peak aggregate resident memory across overlapping
// intervals.
//
// The rss field of a record is a raw counter whose unit depends on
// the platform that produced the trace: bytes on some, kilobytes on
// others. Tracestat never guesses; pass -rss-unit kb for traces from
// kilobyte-reporting sources.
//
// Any decode or consistency error aborts the run with a diagnostic
// naming the offending file and byte offset; no partial reports are
// printed.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/perftools/tracestat/tracefmt"
	"github.com/perftools/tracestat/tracestat"
)

var exit = os.Exit // replaced during testing

var stdin io.Reader = os.Stdin // replaced during testing

func usage() {
	fmt.Fprintf(os.Stderr, "usage: tracestat [options] file.trace [more.trace ...]\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	exit(2)
}

var (
	flagHTML    = flag.Bool("html", false, "print reports as an HTML document")
	flagRSSUnit = flag.String("rss-unit", "bytes", "`unit` of the recorded rss samples: bytes or kb")
)

var rssScales = map[string]uint64{
	"bytes": 1,
	"b":     1,
	"kb":    1024,
}

func main() {
	log.SetPrefix("tracestat: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	scale, ok := rssScales[strings.ToLower(*flagRSSUnit)]
	if flag.NArg() < 1 || !ok {
		flag.Usage()
	}

	reports, err := analyze(flag.Args(), scale)
	if err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if *flagHTML {
		buf.WriteString(htmlHeader)
		formatHTML(&buf, reports)
		buf.WriteString(htmlFooter)
	} else {
		formatText(&buf, reports)
	}
	os.Stdout.Write(buf.Bytes())
}

// Reports holds the results of the three analyses over one input
// set. Overlap is nil and HasPeak is false when the inputs held no
// records; the renderers report those sections as "no data".
type Reports struct {
	Summary *tracestat.Summary
	Overlap *tracestat.Overlap
	Peak    uint64
	HasPeak bool
}

// analyze runs the three analyses, each over its own full read of
// paths. Any decode or consistency error is returned immediately and
// no reports are produced.
func analyze(paths []string, rssScale uint64) (*Reports, error) {
	// Stdin can be read only once, but each analysis makes its own
	// pass over the inputs. Buffer it up front so every pass sees
	// the full stream.
	var stdinData []byte
	for _, path := range paths {
		if path != "-" {
			continue
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		stdinData = data
		break
	}

	open := func() *tracefmt.Files {
		f := &tracefmt.Files{Paths: paths, AllowStdin: true, RSSScale: rssScale}
		if stdinData != nil {
			f.Stdin = bytes.NewReader(stdinData)
		}
		return f
	}

	r := &Reports{Summary: tracestat.NewSummary()}
	if err := r.Summary.ReadAll(open()); err != nil {
		return nil, err
	}

	overlap, err := tracestat.AnalyzeOverlap(open())
	switch err {
	case nil:
		r.Overlap = overlap
	case tracestat.ErrNoData:
		// Rendered as an empty section.
	default:
		return nil, err
	}

	peak, err := tracestat.AnalyzePeakMemory(open())
	switch err {
	case nil:
		r.Peak, r.HasPeak = peak, true
	case tracestat.ErrNoData:
	default:
		return nil, err
	}

	return r, nil
}
