// Package pkg holds chartsmith's libraries.
//
// # Overview
//
// chartsmith draws box plots, grouped bar charts and line charts from tabular
// data. The packages split the work along the pipeline:
//
//  1. [source] and [dataset] - load CSV files, HTTP documents and Postgres rows
//  2. [stats] and [scale] - five-number summaries, band/linear/ordinal scales
//  3. [chart] and [scene] - chart specs and the scene graph they build
//  4. [render] - SVG, JSON, PNG, PDF and HTML output
//  5. [pipeline] - orchestration with [cache], [config] and [observability]
//
// # Data flow
//
//	CSV file / URL / Postgres
//	         ↓
//	    [source] package (load dataset)
//	         ↓
//	    [chart] package (scales + statistics → scene)
//	         ↓
//	    [render/sink] package (serialize)
//	         ↓
//	    SVG/PDF/PNG/JSON/HTML output
//
// # Quick Start
//
//	table, _ := source.NewFile("data").Load(ctx, "socialMedia.csv")
//	spec, _ := chart.DefaultFor(chart.KindBoxplot)
//	sc, _ := chart.Build(spec, table)
//	svg := sink.RenderSVG(sc)
//
// Most callers go through [pipeline.Runner], which adds caching, logging and
// concurrent execution of several charts.
package pkg
