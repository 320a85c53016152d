// Command svgflatten reads an SVG document, runs the flattening
// pipeline over it, and writes the flattened SVG to stdout (or -out).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-svgflatten/svgflatten/flatten"
	svgflattenlog "github.com/go-svgflatten/svgflatten/log"
	"github.com/go-svgflatten/svgflatten/num"
	"github.com/go-svgflatten/svgflatten/svgdom"
)

func main() {
	inPath := flag.String("in", "", "input SVG file (required)")
	outPath := flag.String("out", "", "output SVG file (default: stdout)")
	precision := flag.Int("precision", 6, "decimal places in output coordinates")
	curveSegments := flag.Int("curve-segments", 20, "sample count for visual curve output")
	clipSegments := flag.Int("clip-segments", 64, "sample count for clip polygons")
	bezierArcs := flag.Int("bezier-arcs", 8, "cubic arcs approximating a full circle/ellipse")
	clipRule := flag.String("clip-rule", "nonzero", "default clip-rule: nonzero or evenodd")
	e2eTolerance := flag.String("e2e-tolerance", "1e-10", "clip-area-conservation tolerance")
	skipUse := flag.Bool("skip-use", false, "skip the use-resolution stage")
	skipMarkers := flag.Bool("skip-markers", false, "skip the marker-resolution stage")
	skipPatterns := flag.Bool("skip-patterns", false, "skip the pattern-resolution stage")
	skipMasks := flag.Bool("skip-masks", false, "skip the mask-resolution stage")
	skipClipPaths := flag.Bool("skip-clippaths", false, "skip the clipPath-application stage")
	skipTransforms := flag.Bool("skip-transforms", false, "skip transform baking")
	skipGradients := flag.Bool("skip-gradients", false, "skip gradientTransform baking")
	skipDefsGC := flag.Bool("skip-defs-gc", false, "skip unused-defs garbage collection")
	verbose := flag.Bool("v", false, "lower the log level to info (stage errors are logged at warn level either way)")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := svgflattenlog.New(os.Stderr, level)

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "error: -in SVG file is required")
		os.Exit(1)
	}

	tol, err := num.FromString(*e2eTolerance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid -e2e-tolerance %q: %v\n", *e2eTolerance, err)
		os.Exit(1)
	}

	in, err := os.Open(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening SVG: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	doc, err := svgdom.Parse(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing SVG: %v\n", err)
		os.Exit(1)
	}

	cfg := flatten.NewConfig(
		flatten.WithPrecision(int32(*precision)),
		flatten.WithCurveSegments(*curveSegments),
		flatten.WithClipSegments(*clipSegments),
		flatten.WithBezierArcs(*bezierArcs),
		flatten.WithClipRule(*clipRule),
		flatten.WithE2ETolerance(tol),
		flatten.WithStages(negPtr(*skipUse), negPtr(*skipMarkers), negPtr(*skipPatterns), negPtr(*skipMasks), negPtr(*skipClipPaths)),
		flatten.WithFlattenTransforms(!*skipTransforms),
		flatten.WithBakeGradients(!*skipGradients),
		flatten.WithRemoveUnusedDefs(!*skipDefsGC),
	)

	report := flatten.NewPipeline(cfg).Run(doc)

	events := make([]svgflattenlog.StageEvent, 0, len(report.Errors))
	for _, e := range report.Errors {
		events = append(events, svgflattenlog.StageEvent{Stage: e.Stage, Entity: e.Entity, Kind: e.Kind, Message: e.Message})
	}
	svgflattenlog.LogStageErrors(logger, events)

	if !report.AllPassed() {
		logger.Warn("verification ledger recorded failures", slog.Int("count", len(report.Ledger.Failures())))
	}

	out := os.Stdout
	if *outPath != "" && *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	fmt.Fprintln(out, svgdom.Serialize(doc))
}

// negPtr returns a *bool holding the logical negation of skip, used to
// translate a "-skip-X" flag into WithStages' "enable X" parameter.
func negPtr(skip bool) *bool {
	v := !skip
	return &v
}
