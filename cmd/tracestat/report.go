// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strconv"

	"github.com/perftools/tracestat/tracestat"
	"github.com/perftools/tracestat/traceunit"
)

// A reportView is the fully formatted report, shared by the text and
// HTML renderers. All measurement fields are pre-rendered strings so
// the two renderers cannot disagree on scaling.
type reportView struct {
	StartTime string
	WallSpan  string
	TotalCPU  string
	CPUUtil   string
	UserCPU   string
	UserFrac  string
	SysCPU    string
	SysFrac   string
	PeakRSS   string

	Threads []breakdownRow
	Labels  []breakdownRow
	Dists   []distRow

	HasOverlap bool
	Levels     []levelRow

	HasPeak bool
	Peak    string
}

// A breakdownRow is one per-thread or per-label line of the summary.
type breakdownRow struct {
	Key      string
	Wall     string
	WallFrac string
	CPU      string
	CPUFrac  string
}

// A distRow is one line of the per-label duration distribution table.
type distRow struct {
	Label  string
	N      string
	Mean   string
	Median string
	Min    string
	Max    string
}

// A levelRow is one line of the concurrency histogram.
type levelRow struct {
	Level   string
	Elapsed string
	Frac    string
}

func buildView(r *Reports) *reportView {
	s := r.Summary
	v := &reportView{
		StartTime: "none",
		WallSpan:  traceunit.Time(s.WallSpan()),
		TotalCPU:  traceunit.Time(s.TotalCPU()),
		CPUUtil:   traceunit.Percent(s.CPUUtil()),
		UserCPU:   traceunit.Time(s.TotalUser),
		UserFrac:  traceunit.Percent(s.UserFrac()),
		SysCPU:    traceunit.Time(s.TotalSys),
		SysFrac:   traceunit.Percent(s.SysFrac()),
		PeakRSS:   traceunit.Bytes(float64(s.MaxRSS)),
	}
	if !s.Empty() {
		v.StartTime = s.StartTime().Format("2006-01-02 15:04:05")
	}

	for _, th := range s.Threads {
		st := s.ByThread[th]
		v.Threads = append(v.Threads, breakdownView(strconv.FormatUint(uint64(th), 10), st, s))
	}
	for _, label := range s.Labels {
		st := s.ByLabel[label]
		v.Labels = append(v.Labels, breakdownView(label, st, s))

		d := s.LabelDist(label)
		v.Dists = append(v.Dists, distRow{
			Label:  label,
			N:      strconv.Itoa(d.N),
			Mean:   traceunit.Time(d.Mean),
			Median: traceunit.Time(d.Median),
			Min:    traceunit.Time(d.Min),
			Max:    traceunit.Time(d.Max),
		})
	}

	if r.Overlap != nil {
		v.HasOverlap = true
		for _, level := range r.Overlap.Levels {
			v.Levels = append(v.Levels, levelRow{
				Level:   strconv.Itoa(level),
				Elapsed: traceunit.Time(r.Overlap.Elapsed[level]),
				Frac:    traceunit.Percent(r.Overlap.Frac(level)),
			})
		}
	}

	if r.HasPeak {
		v.HasPeak = true
		v.Peak = traceunit.Bytes(float64(r.Peak))
	}
	return v
}

func breakdownView(key string, st *tracestat.Stats, s *tracestat.Summary) breakdownRow {
	return breakdownRow{
		Key:      key,
		Wall:     traceunit.Time(st.Wall),
		WallFrac: traceunit.Percent(s.WallFrac(st.Wall)),
		CPU:      traceunit.Time(st.CPU),
		CPUFrac:  traceunit.Percent(s.CPUFrac(st.CPU)),
	}
}
