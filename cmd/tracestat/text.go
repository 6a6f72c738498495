// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// formatText renders the three report sections as plain text.
func formatText(w io.Writer, r *Reports) {
	v := buildView(r)

	fmt.Fprintf(w, "start time:  %s\n", v.StartTime)
	fmt.Fprintf(w, "wall time:   %s\n", v.WallSpan)
	fmt.Fprintf(w, "total cpu:   %s (%s of wall)\n", v.TotalCPU, v.CPUUtil)
	fmt.Fprintf(w, "user cpu:    %s (%s)\n", v.UserCPU, v.UserFrac)
	fmt.Fprintf(w, "sys cpu:     %s (%s)\n", v.SysCPU, v.SysFrac)
	fmt.Fprintf(w, "peak rss:    %s\n", v.PeakRSS)

	if len(v.Threads) > 0 {
		tw := newTable(w)
		fmt.Fprintf(tw, "\nthread\twall\twall%%\tcpu\tcpu%%\t\n")
		for _, row := range v.Threads {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", row.Key, row.Wall, row.WallFrac, row.CPU, row.CPUFrac)
		}
		tw.Flush()

		tw = newTable(w)
		fmt.Fprintf(tw, "\nlabel\twall\twall%%\tcpu\tcpu%%\t\n")
		for _, row := range v.Labels {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", row.Key, row.Wall, row.WallFrac, row.CPU, row.CPUFrac)
		}
		tw.Flush()

		tw = newTable(w)
		fmt.Fprintf(tw, "\nlabel\tn\tmean\tmedian\tmin\tmax\t\n")
		for _, row := range v.Dists {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", row.Label, row.N, row.Mean, row.Median, row.Min, row.Max)
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\nconcurrency:\n")
	if !v.HasOverlap {
		fmt.Fprintf(w, "no data\n")
	} else {
		tw := newTable(w)
		fmt.Fprintf(tw, "level\telapsed\tof total\t\n")
		for _, row := range v.Levels {
			fmt.Fprintf(tw, "%s\t%s\t%s\t\n", row.Level, row.Elapsed, row.Frac)
		}
		tw.Flush()
	}

	if !v.HasPeak {
		fmt.Fprintf(w, "\npeak aggregate memory: no data\n")
	} else {
		fmt.Fprintf(w, "\npeak aggregate memory: %s\n", v.Peak)
	}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
}
