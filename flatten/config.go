// Package flatten implements the SVG flattening pipeline: use/marker/
// pattern/mask resolution, clipPath application, transform baking,
// gradient-transform baking, and unused-defs garbage collection, run
// in a fixed order. Grounded on draw/builder.go's staged document
// assembly and svg/writer.go's output conventions.
package flatten

import (
	"github.com/go-svgflatten/svgflatten/font"
	"github.com/go-svgflatten/svgflatten/num"
	"github.com/go-svgflatten/svgflatten/svgdom"
)

// FontResolver returns the font face and shaping options to use for a
// given `<text>` element, so that `<text>` children of clipPath and
// mask definitions can be converted to boolean-clippable path
// geometry. A nil FontResolver leaves `<text>` content unresolved:
// callers treat it as an input-shape error (skipped, logged). Text
// inside marker and pattern content is copied as-is, not converted.
type FontResolver func(textEl *svgdom.Node) (*font.Face, font.Options, error)

// Config holds the pipeline's configurable surface, per the
// enumerated option table. Built via NewConfig and functional Options,
// mirroring the WithX constructor style of katalvlaran-lvlath's
// builder package (builder/options.go) generalized from graph
// construction to pipeline staging.
type Config struct {
	Precision         int32
	CurveSegments     int
	ClipSegments      int
	BezierArcs        int
	ResolveUse        bool
	ResolveMarkers    bool
	ResolvePatterns   bool
	ResolveMasks      bool
	ResolveClipPaths  bool
	FlattenTransforms bool
	BakeGradients     bool
	RemoveUnusedDefs  bool
	E2ETolerance      num.D
	ClipRule          string // "nonzero" or "evenodd"
	MaskOpacityThreshold num.D
	FontResolver      FontResolver
	Ctx               *num.Ctx
}

// Option customizes a Config.
type Option func(*Config)

// NewConfig builds a Config from the default pipeline settings, then
// applies opts in order.
func NewConfig(opts ...Option) Config {
	cfg := Config{
		Precision:            6,
		CurveSegments:        20,
		ClipSegments:         64,
		BezierArcs:           8,
		ResolveUse:           true,
		ResolveMarkers:       true,
		ResolvePatterns:      true,
		ResolveMasks:         true,
		ResolveClipPaths:     true,
		FlattenTransforms:    true,
		BakeGradients:        true,
		RemoveUnusedDefs:     true,
		E2ETolerance:         num.MustFromString("1e-10"),
		ClipRule:             "nonzero",
		MaskOpacityThreshold: num.MustFromString("0.5"),
		Ctx:                  num.DefaultCtx(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithPrecision sets the decimal places used when formatting output
// coordinates.
func WithPrecision(p int32) Option {
	return func(c *Config) { c.Precision = p }
}

// WithCurveSegments sets the sample count used when approximating
// curves for visual (non-clip) output.
func WithCurveSegments(n int) Option {
	return func(c *Config) { c.CurveSegments = n }
}

// WithClipSegments sets the sample count used when approximating
// curves for clip polygons.
func WithClipSegments(n int) Option {
	return func(c *Config) { c.ClipSegments = n }
}

// WithBezierArcs sets how many Bezier arcs approximate a full
// circle/ellipse (must be a multiple of 4).
func WithBezierArcs(n int) Option {
	return func(c *Config) { c.BezierArcs = n }
}

// WithStages toggles which resolver stages run. Pass false for any
// stage to skip it; omitted stages keep their current value.
func WithStages(use, markers, patterns, masks, clipPaths *bool) Option {
	return func(c *Config) {
		if use != nil {
			c.ResolveUse = *use
		}
		if markers != nil {
			c.ResolveMarkers = *markers
		}
		if patterns != nil {
			c.ResolvePatterns = *patterns
		}
		if masks != nil {
			c.ResolveMasks = *masks
		}
		if clipPaths != nil {
			c.ResolveClipPaths = *clipPaths
		}
	}
}

// WithFlattenTransforms toggles baking transform attributes into
// coordinates.
func WithFlattenTransforms(b bool) Option {
	return func(c *Config) { c.FlattenTransforms = b }
}

// WithBakeGradients toggles baking gradientTransform into gradient
// geometry.
func WithBakeGradients(b bool) Option {
	return func(c *Config) { c.BakeGradients = b }
}

// WithRemoveUnusedDefs toggles the final defs garbage collection pass.
func WithRemoveUnusedDefs(b bool) Option {
	return func(c *Config) { c.RemoveUnusedDefs = b }
}

// WithE2ETolerance sets the area-conservation tolerance clipPath
// verification uses.
func WithE2ETolerance(tol num.D) Option {
	return func(c *Config) { c.E2ETolerance = tol }
}

// WithClipRule sets the default clip-rule ("nonzero" or "evenodd")
// used when an element does not specify its own.
func WithClipRule(rule string) Option {
	return func(c *Config) { c.ClipRule = rule }
}

// WithMaskOpacityThreshold sets the luminance/opacity threshold used
// when converting a mask's content into a clip polygon.
func WithMaskOpacityThreshold(t num.D) Option {
	return func(c *Config) { c.MaskOpacityThreshold = t }
}

// WithCtx sets the decimal precision context used throughout the
// pipeline.
func WithCtx(ctx *num.Ctx) Option {
	return func(c *Config) { c.Ctx = ctx }
}

// WithFontResolver sets the resolver used to convert `<text>` content
// inside clipPath and mask definitions to glyph outline paths.
func WithFontResolver(r FontResolver) Option {
	return func(c *Config) { c.FontResolver = r }
}
