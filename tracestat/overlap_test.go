// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracestat

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/perftools/tracestat/tracefmt"
)

func TestOverlapDisjoint(t *testing.T) {
	// Two non-overlapping intervals on one thread: level 0 covers
	// the gap, level 1 the intervals.
	o, err := AnalyzeOverlap(source(
		tracefmt.Record{Thread: 1, T0: 0, T1: 1e9, RSS: 1000, Name: "a"},
		tracefmt.Record{Thread: 1, T0: 2e9, T1: 3e9, RSS: 1000, Name: "a"},
	))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]int{0, 1}, o.Levels); diff != "" {
		t.Errorf("Levels (-want +got):\n%s", diff)
	}
	if got := o.Elapsed[0]; got != 1 {
		t.Errorf("Elapsed[0] = %v, want 1", got)
	}
	if got := o.Elapsed[1]; got != 2 {
		t.Errorf("Elapsed[1] = %v, want 2", got)
	}
	if o.Total != 3 {
		t.Errorf("Total = %v, want 3", o.Total)
	}
}

func TestOverlapTwoThreads(t *testing.T) {
	// Overlapping intervals on two threads: level 2 for the
	// overlap window, one third of the 1.5s span.
	o, err := AnalyzeOverlap(source(
		tracefmt.Record{Thread: 1, T0: 0, T1: 1e9, RSS: 1000, Name: "a"},
		tracefmt.Record{Thread: 2, T0: 5e8, T1: 15e8, RSS: 2000, Name: "b"},
	))
	if err != nil {
		t.Fatal(err)
	}

	if got := o.Elapsed[2]; got != 0.5 {
		t.Errorf("Elapsed[2] = %v, want 0.5", got)
	}
	if got, want := o.Frac(2), 0.5/1.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("Frac(2) = %v, want %v", got, want)
	}
}

func TestOverlapTieBreak(t *testing.T) {
	// One interval ends exactly where the next starts; the sweep
	// must not count them as concurrent.
	o, err := AnalyzeOverlap(source(
		tracefmt.Record{Thread: 1, T0: 0, T1: 1e9, Name: "a"},
		tracefmt.Record{Thread: 2, T0: 1e9, T1: 2e9, Name: "b"},
	))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]int{1}, o.Levels); diff != "" {
		t.Errorf("Levels (-want +got):\n%s", diff)
	}
	if got := o.Elapsed[1]; got != 2 {
		t.Errorf("Elapsed[1] = %v, want 2", got)
	}
}

func TestOverlapTotal(t *testing.T) {
	// The elapsed durations partition the event span exactly.
	o, err := AnalyzeOverlap(source(
		tracefmt.Record{Thread: 1, T0: 3, T1: 7e8, Name: "a"},
		tracefmt.Record{Thread: 2, T0: 1e8, T1: 9e8, Name: "b"},
		tracefmt.Record{Thread: 3, T0: 2e8, T1: 3e8, Name: "c"},
		tracefmt.Record{Thread: 1, T0: 8e8, T1: 11e8, Name: "a"},
	))
	if err != nil {
		t.Fatal(err)
	}

	var sum float64
	for _, dur := range o.Elapsed {
		sum += dur
	}
	if math.Abs(sum-o.Total) > 1e-9 {
		t.Errorf("sum of Elapsed = %v, Total = %v", sum, o.Total)
	}
	if want := (11e8 - 3) / 1e9; math.Abs(o.Total-want) > 1e-9 {
		t.Errorf("Total = %v, want %v", o.Total, want)
	}
}

func TestOverlapInstant(t *testing.T) {
	// A zero-length interval spans no time and must not disturb the
	// histogram or the level accounting.
	o, err := AnalyzeOverlap(source(
		tracefmt.Record{Thread: 1, T0: 0, T1: 1e9, Name: "a"},
		tracefmt.Record{Thread: 2, T0: 5e8, T1: 5e8, Name: "blip"},
	))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1}, o.Levels); diff != "" {
		t.Errorf("Levels (-want +got):\n%s", diff)
	}
	if o.Total != 1 {
		t.Errorf("Total = %v, want 1", o.Total)
	}

	// A stream holding nothing but zero-length intervals is valid.
	if _, err := AnalyzeOverlap(source(
		tracefmt.Record{Thread: 1, T0: 5e8, T1: 5e8, Name: "blip"},
	)); err != nil {
		t.Fatal(err)
	}
}

func TestOverlapEmpty(t *testing.T) {
	if _, err := AnalyzeOverlap(source()); !errors.Is(err, ErrNoData) {
		t.Errorf("got %v, want ErrNoData", err)
	}
}

func TestOverlapNegativeLevel(t *testing.T) {
	// A record with t1 < t0 puts its end before its start in the
	// sweep, driving the level negative.
	_, err := AnalyzeOverlap(source(
		tracefmt.Record{Thread: 1, T0: 5e8, T1: 2e8, Name: "backwards"},
	))
	if !errors.Is(err, ErrNegativeConcurrency) {
		t.Errorf("got %v, want ErrNegativeConcurrency", err)
	}
}
