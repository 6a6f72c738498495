// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tracestat computes statistical reports over a stream of
// trace records: a wall/CPU/memory summary with per-thread and
// per-label breakdowns, a histogram of wall time by concurrency
// level, and the peak aggregate resident memory across overlapping
// intervals.
package tracestat

import (
	"errors"
	"sort"

	"github.com/perftools/tracestat/tracefmt"
)

// A Source is a stream of trace records, in the style of
// bufio.Scanner. *tracefmt.Reader and *tracefmt.Files implement it.
type Source interface {
	// Scan advances to the next record and reports whether one is
	// available.
	Scan() bool
	// Record returns the current record. It may be overwritten by
	// the next call to Scan.
	Record() *tracefmt.Record
	// Err returns the error that stopped Scan, if any.
	Err() error
}

// ErrNoData reports that a record stream contained no records, so a
// sweep-line analysis has nothing to report.
var ErrNoData = errors.New("no data")

// An EventKind tags one endpoint of a record's interval.
type EventKind int

const (
	// End sorts before Start at equal timestamps; see eventLess.
	End EventKind = iota
	Start
	// Spike is the single event of a zero-length interval (t0 == t1).
	// It opens nothing and spans no time, but its rss reading counts
	// toward the aggregate at its instant.
	Spike
)

// An Event is one endpoint of a record's interval, used by the
// sweep-line analyses. Events exist only during a single pass.
type Event struct {
	Time   uint64 // endpoint timestamp, nanoseconds
	Kind   EventKind
	Thread uint32
	RSS    uint64
}

// eventLess orders events by ascending time. At equal timestamps End
// events order first and Start events last, so an interval that closes
// at the exact instant another opens never appears to overlap it.
// Spike events fall between the two and coexist with neither.
func eventLess(a, b Event) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return kindRank(a.Kind) < kindRank(b.Kind)
}

// kindRank returns the tie-break rank of k at equal timestamps.
func kindRank(k EventKind) int {
	switch k {
	case End:
		return 0
	case Spike:
		return 1
	default:
		return 2
	}
}

// collectEvents drains src and returns the endpoint events of every
// record, sorted by eventLess. A record whose interval is a single
// instant yields one Spike event rather than a Start/End pair.
func collectEvents(src Source) ([]Event, error) {
	var events []Event
	for src.Scan() {
		rec := src.Record()
		if rec.T0 == rec.T1 {
			events = append(events,
				Event{Time: rec.T0, Kind: Spike, Thread: rec.Thread, RSS: rec.RSS})
			continue
		}
		events = append(events,
			Event{Time: rec.T0, Kind: Start, Thread: rec.Thread, RSS: rec.RSS},
			Event{Time: rec.T1, Kind: End, Thread: rec.Thread, RSS: rec.RSS},
		)
	}
	if err := src.Err(); err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool { return eventLess(events[i], events[j]) })
	return events, nil
}
