// Copyright 2024 The Tracestat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"html/template"
	"io"
)

var htmlTemplate = template.Must(template.New("").Parse(`
<table class='tracestat'>
<tbody>
<tr><th>start time<td>{{.StartTime}}
<tr><th>wall time<td>{{.WallSpan}}
<tr><th>total cpu<td>{{.TotalCPU}} ({{.CPUUtil}} of wall)
<tr><th>user cpu<td>{{.UserCPU}} ({{.UserFrac}})
<tr><th>sys cpu<td>{{.SysCPU}} ({{.SysFrac}})
<tr><th>peak rss<td>{{.PeakRSS}}
</tbody>
</table>
{{if .Threads}}
<table class='tracestat'>
<tbody>
<tr><th>thread<th>wall<th>wall%<th>cpu<th>cpu%
{{range .Threads -}}
<tr><td>{{.Key}}<td>{{.Wall}}<td>{{.WallFrac}}<td>{{.CPU}}<td>{{.CPUFrac}}
{{end -}}
</tbody>
</table>
<table class='tracestat'>
<tbody>
<tr><th>label<th>wall<th>wall%<th>cpu<th>cpu%
{{range .Labels -}}
<tr><td>{{.Key}}<td>{{.Wall}}<td>{{.WallFrac}}<td>{{.CPU}}<td>{{.CPUFrac}}
{{end -}}
</tbody>
</table>
<table class='tracestat'>
<tbody>
<tr><th>label<th>n<th>mean<th>median<th>min<th>max
{{range .Dists -}}
<tr><td>{{.Label}}<td>{{.N}}<td>{{.Mean}}<td>{{.Median}}<td>{{.Min}}<td>{{.Max}}
{{end -}}
</tbody>
</table>
{{end}}
<table class='tracestat'>
<tbody>
<tr><th>level<th>elapsed<th>of total
{{if .HasOverlap}}
{{- range .Levels -}}
<tr><td>{{.Level}}<td>{{.Elapsed}}<td>{{.Frac}}
{{end -}}
{{else -}}
<tr><td class='note' colspan='3'>no data
{{end -}}
</tbody>
</table>
<p>peak aggregate memory: {{if .HasPeak}}{{.Peak}}{{else}}no data{{end}}</p>
`))

// formatHTML renders the three report sections as HTML tables.
func formatHTML(w io.Writer, r *Reports) {
	err := htmlTemplate.Execute(w, buildView(r))
	if err != nil {
		// The only possible errors here are the template not
		// matching the view structure. Don't make the caller
		// check - it's our fault.
		panic(err)
	}
}

var htmlHeader = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Trace Report</title>
<style>
.tracestat { border-collapse: collapse; margin-bottom: 1em; }
.tracestat th:nth-child(1) { text-align: left; }
.tracestat td { text-align: right; padding: 0em 1em; }
.tracestat .note { text-align: center; }
</style>
</head>
<body>
`

var htmlFooter = `</body>
</html>
`
