// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracestat

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNegativeConcurrency reports that a sweep saw more interval ends
// than starts at some prefix of the event sequence, which indicates
// corrupt or out-of-order trace data.
var ErrNegativeConcurrency = errors.New("concurrency level below zero")

// An Overlap is the concurrency-level histogram of a record stream:
// for each number of simultaneously open intervals, how much wall
// time was spent at that level.
type Overlap struct {
	// Levels holds every level with non-zero elapsed time, in
	// ascending order.
	Levels []int

	// Elapsed maps a concurrency level to seconds spent at it.
	Elapsed map[int]float64

	// Total is the seconds between the first and last event. It
	// equals the sum over Elapsed.
	Total float64
}

// Frac returns the elapsed time at level as a fraction of the total
// span, or 0 if the total span is zero.
func (o *Overlap) Frac(level int) float64 {
	if o.Total == 0 {
		return 0
	}
	return o.Elapsed[level] / o.Total
}

// AnalyzeOverlap sweeps the interval endpoints of every record in src
// and returns the concurrency-level histogram. It returns ErrNoData
// if src yields no records and ErrNegativeConcurrency (wrapped, with
// the offending timestamp) if an interval end has no matching start.
func AnalyzeOverlap(src Source) (*Overlap, error) {
	events, err := collectEvents(src)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoData
	}

	level := 0
	elapsed := make(map[int]float64)
	last := events[0].Time
	for _, ev := range events {
		elapsed[level] += float64(ev.Time-last) / 1e9
		switch ev.Kind {
		case Start:
			level++
		case End:
			level--
			if level < 0 {
				return nil, fmt.Errorf("%w at t=%dns: end with no matching start", ErrNegativeConcurrency, ev.Time)
			}
		case Spike:
			// Zero-length interval; the level is unchanged.
		}
		last = ev.Time
	}

	o := &Overlap{
		Elapsed: elapsed,
		Total:   float64(last-events[0].Time) / 1e9,
	}
	for level, dur := range elapsed {
		if dur > 0 {
			o.Levels = append(o.Levels, level)
		}
	}
	sort.Ints(o.Levels)
	return o, nil
}
