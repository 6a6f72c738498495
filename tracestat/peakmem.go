// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracestat

import (
	"errors"
	"fmt"
)

// ErrUnmatchedEnd reports an interval end on a thread with no open
// interval. Intervals on one thread must be properly nested or
// disjoint; overlapping non-nested intervals on the same thread have
// no well-defined pairing and are rejected.
var ErrUnmatchedEnd = errors.New("interval end with no open interval")

// AnalyzePeakMemory sweeps the interval endpoints of every record in
// src and returns the peak aggregate resident memory: at every event
// it sums, across threads, the rss reading of each thread's most
// recently opened interval, and tracks the running maximum. A
// zero-length interval counts toward the aggregate at its single
// instant.
//
// It returns ErrNoData if src yields no records and ErrUnmatchedEnd
// (wrapped, with thread and timestamp) on a malformed stream.
func AnalyzePeakMemory(src Source) (uint64, error) {
	events, err := collectEvents(src)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, ErrNoData
	}

	// Each open interval contributes one entry to its thread's
	// stack; the top of each stack is that thread's current
	// reading.
	stacks := make(map[uint32][]uint64)
	var peak uint64
	for _, ev := range events {
		switch ev.Kind {
		case Start:
			stacks[ev.Thread] = append(stacks[ev.Thread], ev.RSS)
		case End:
			stack := stacks[ev.Thread]
			if len(stack) == 0 {
				return 0, fmt.Errorf("thread %d: %w at t=%dns", ev.Thread, ErrUnmatchedEnd, ev.Time)
			}
			if len(stack) == 1 {
				delete(stacks, ev.Thread)
			} else {
				stacks[ev.Thread] = stack[:len(stack)-1]
			}
		}

		// Recompute the aggregate from scratch at every event.
		// Trace files are bounded and analyzed offline, so the
		// simplicity is worth more than an incremental total.
		var agg uint64
		for _, stack := range stacks {
			agg += stack[len(stack)-1]
		}
		if ev.Kind == Spike {
			// A zero-length interval holds its reading for one
			// instant only.
			agg += ev.RSS
		}
		if agg > peak {
			peak = agg
		}
	}
	return peak, nil
}
