// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package traceunit formats raw trace measurements as human-scaled
// strings.
package traceunit

import "strconv"

// A factor is one rung of a unit ladder: values at or above size are
// rendered in this unit.
type factor struct {
	size   float64
	suffix string
}

// Ladders are ordered largest unit first; the formatter picks the
// first unit whose size does not exceed the magnitude. Values smaller
// than the last rung fall through to it.
var (
	timeFactors = []factor{
		{365 * 24 * 60 * 60, "y"},
		{24 * 60 * 60, "d"},
		{60 * 60, "h"},
		{60, "m"},
		{1, "s"},
		{1e-3, "ms"},
		{1e-6, "µs"},
		{1e-9, "ns"},
	}
	byteFactors = []factor{
		{1 << 40, "TB"},
		{1 << 30, "GB"},
		{1 << 20, "MB"},
		{1 << 10, "kB"},
		{1, "B"},
	}
)

// Thresholds for deciding how many digits follow the decimal point so
// that a scaled value shows three significant digits. They sit just
// below 10 and 100 so that a value which will round up to the next
// digit count is formatted with the shorter precision.
const (
	t10  = 9.9995
	t100 = 99.995
)

// format renders v in the largest unit of factors whose size does not
// exceed it, with three significant digits. Zero renders as "0" and
// negative values keep their sign.
func format(v float64, factors []factor) string {
	if v == 0 {
		return "0"
	}
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}

	f := factors[len(factors)-1]
	for _, cand := range factors {
		if v >= cand.size {
			f = cand
			break
		}
	}

	scaled := v / f.size
	var prec int
	switch {
	case scaled >= t100:
		prec = 0
	case scaled >= t10:
		prec = 1
	default:
		prec = 2
	}
	return sign + strconv.FormatFloat(scaled, 'f', prec, 64) + f.suffix
}

// Time formats a duration in seconds using the largest fitting unit
// from ns through years. For example, Time(90) returns "1.50m".
func Time(seconds float64) string {
	return format(seconds, timeFactors)
}

// Bytes formats a byte count using binary (power-of-1024) units from
// B through TB. For example, Bytes(1536) returns "1.50kB".
func Bytes(bytes float64) string {
	return format(bytes, byteFactors)
}

// Percent formats a fraction in [0, 1] as a percentage with one digit
// after the decimal point.
func Percent(frac float64) string {
	return strconv.FormatFloat(frac*100, 'f', 1, 64) + "%"
}
