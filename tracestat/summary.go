// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracestat

import (
	"math"
	"time"

	"github.com/perftools/tracestat/tracefmt"
)

// Stats accumulates wall and CPU seconds for one breakdown key.
type Stats struct {
	Wall float64 // wall-clock seconds
	CPU  float64 // user+system CPU seconds
}

// A Summary accumulates whole-run totals and per-thread and per-label
// breakdowns over a single pass of a record stream.
//
// Threads and Labels record breakdown keys in first-seen order, which
// is the order reports present them in.
type Summary struct {
	FirstStart float64 // earliest interval start, seconds (+Inf until a record is seen)
	LastEnd    float64 // latest interval end, seconds
	TotalUser  float64 // sum of user CPU, seconds
	TotalSys   float64 // sum of system CPU, seconds
	MaxRSS     uint64  // largest single-record rss (a watermark, not overlap-aware)

	Records  int
	Threads  []uint32
	Labels   []string
	ByThread map[uint32]*Stats
	ByLabel  map[string]*Stats

	// wallByLabel holds every label's individual interval
	// durations for distribution statistics.
	wallByLabel map[string][]float64
}

// NewSummary returns an empty Summary ready to accumulate records.
func NewSummary() *Summary {
	return &Summary{
		FirstStart:  math.Inf(1),
		ByThread:    make(map[uint32]*Stats),
		ByLabel:     make(map[string]*Stats),
		wallByLabel: make(map[string][]float64),
	}
}

// Add folds one record into s.
func (s *Summary) Add(rec *tracefmt.Record) {
	t0 := float64(rec.T0) / 1e9
	t1 := float64(rec.T1) / 1e9
	wall := rec.Wall()
	cpu := rec.CPU()

	s.Records++
	if t0 < s.FirstStart {
		s.FirstStart = t0
	}
	if t1 > s.LastEnd {
		s.LastEnd = t1
	}
	s.TotalUser += float64(rec.Utime) / 1e9
	s.TotalSys += float64(rec.Stime) / 1e9
	if rec.RSS > s.MaxRSS {
		s.MaxRSS = rec.RSS
	}

	th, ok := s.ByThread[rec.Thread]
	if !ok {
		th = new(Stats)
		s.ByThread[rec.Thread] = th
		s.Threads = append(s.Threads, rec.Thread)
	}
	th.Wall += wall
	th.CPU += cpu

	lb, ok := s.ByLabel[rec.Name]
	if !ok {
		lb = new(Stats)
		s.ByLabel[rec.Name] = lb
		s.Labels = append(s.Labels, rec.Name)
	}
	lb.Wall += wall
	lb.CPU += cpu
	s.wallByLabel[rec.Name] = append(s.wallByLabel[rec.Name], wall)
}

// ReadAll folds every record from src into s and returns the error,
// if any, that stopped the stream.
func (s *Summary) ReadAll(src Source) error {
	for src.Scan() {
		s.Add(src.Record())
	}
	return src.Err()
}

// Empty reports whether s has seen no records.
func (s *Summary) Empty() bool {
	return s.Records == 0
}

// StartTime returns the earliest interval start as a local wall-clock
// time. It is meaningful only when the trace clock is a real-time
// clock and s is not empty.
func (s *Summary) StartTime() time.Time {
	if s.Empty() {
		return time.Time{}
	}
	sec, frac := math.Modf(s.FirstStart)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// WallSpan returns the elapsed seconds between the earliest start and
// the latest end, or 0 for an empty summary.
func (s *Summary) WallSpan() float64 {
	if s.Empty() {
		return 0
	}
	return s.LastEnd - s.FirstStart
}

// TotalCPU returns the summed user+system CPU seconds.
func (s *Summary) TotalCPU() float64 {
	return s.TotalUser + s.TotalSys
}

// CPUUtil returns total CPU time as a fraction of the wall span.
// It returns 0 when the wall span is zero.
func (s *Summary) CPUUtil() float64 {
	span := s.WallSpan()
	if span == 0 {
		return 0
	}
	return s.TotalCPU() / span
}

// UserFrac returns user CPU time as a fraction of total CPU time.
// It returns 0 when no CPU time was recorded.
func (s *Summary) UserFrac() float64 {
	total := s.TotalCPU()
	if total == 0 {
		return 0
	}
	return s.TotalUser / total
}

// SysFrac returns system CPU time as a fraction of total CPU time.
// It returns 0 when no CPU time was recorded.
func (s *Summary) SysFrac() float64 {
	total := s.TotalCPU()
	if total == 0 {
		return 0
	}
	return s.TotalSys / total
}

// WallFrac returns wall as a fraction of the wall span, or 0 for an
// empty summary.
func (s *Summary) WallFrac(wall float64) float64 {
	span := s.WallSpan()
	if span == 0 {
		return 0
	}
	return wall / span
}

// CPUFrac returns cpu as a fraction of total CPU time, or 0 when no
// CPU time was recorded.
func (s *Summary) CPUFrac(cpu float64) float64 {
	total := s.TotalCPU()
	if total == 0 {
		return 0
	}
	return cpu / total
}
