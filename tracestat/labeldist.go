// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracestat

import "github.com/aclements/go-moremath/stats"

// A Dist summarizes the distribution of per-interval wall durations
// for one label. All durations are in seconds.
type Dist struct {
	N                      int
	Mean, Median, Min, Max float64
}

// LabelDist returns the wall-duration distribution for label. The
// zero Dist is returned for a label s has never seen.
func (s *Summary) LabelDist(label string) Dist {
	xs := s.wallByLabel[label]
	if len(xs) == 0 {
		return Dist{}
	}
	sample := stats.Sample{Xs: xs}
	min, max := stats.Bounds(xs)
	return Dist{
		N:      len(xs),
		Mean:   stats.Mean(xs),
		Median: sample.Quantile(0.5),
		Min:    min,
		Max:    max,
	}
}
