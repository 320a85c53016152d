package flatten

import (
	"fmt"

	"github.com/go-svgflatten/svgflatten/svgdom"
	"github.com/go-svgflatten/svgflatten/verify"
)

// Pipeline runs the ordered resolver stages over a document tree.
// Grounded on draw/builder.go's staged fluent construction,
// generalized from building up a single picture to mutating an
// existing DOM tree in fixed stage order.
type Pipeline struct {
	cfg Config
}

// NewPipeline constructs a Pipeline from cfg.
func NewPipeline(cfg Config) *Pipeline { return &Pipeline{cfg: cfg} }

// defsIndex maps an element id to its defining Node, rebuilt after
// any stage that mutates the definitions sub-tree.
type defsIndex map[string]*svgdom.Node

func buildDefsIndex(root *svgdom.Node) defsIndex {
	idx := defsIndex{}
	var walk func(*svgdom.Node)
	walk = func(n *svgdom.Node) {
		for _, c := range n.Children {
			if c.Type != svgdom.ElementNode {
				continue
			}
			if id, ok := c.Attr("id"); ok {
				idx[id] = c
			}
			walk(c)
		}
	}
	walk(root)
	return idx
}

// Run executes every enabled stage over doc in order, returning the
// run report. A stage-level panic recovery is intentionally absent:
// each stage traps errors at element granularity internally and
// appends a StageError; only a hard parse failure bypasses the
// pipeline entirely, which is the caller's responsibility
// (svgdom.Parse returning an error) rather than this function's.
func (p *Pipeline) Run(doc *svgdom.Node) *Report {
	report := &Report{Ledger: verify.NewLedger()}
	root := svgdom.Root(doc)
	if root == nil {
		report.Errors = append(report.Errors, StageError{Stage: "parse", Entity: "#document", Kind: "input_shape", Message: "document has no root element"})
		return report
	}

	idx := buildDefsIndex(root)

	if p.cfg.ResolveUse {
		report.UseResolved = resolveUse(root, idx, p.cfg, report)
		idx = buildDefsIndex(root)
	}
	if p.cfg.ResolveMarkers {
		report.MarkersResolved = resolveMarkers(root, idx, p.cfg, report)
		idx = buildDefsIndex(root)
	}
	if p.cfg.ResolvePatterns {
		report.PatternsResolved = resolvePatterns(root, idx, p.cfg, report)
		idx = buildDefsIndex(root)
	}
	if p.cfg.ResolveMasks {
		report.MasksResolved = resolveMasks(root, idx, p.cfg, report)
		idx = buildDefsIndex(root)
	}
	if p.cfg.ResolveClipPaths {
		report.ClipPathsApplied = applyClipPaths(root, idx, p.cfg, report)
		idx = buildDefsIndex(root)
	}
	if p.cfg.FlattenTransforms {
		report.TransformsBaked = flattenTransforms(root, p.cfg, report)
	}
	if p.cfg.BakeGradients {
		report.GradientsBaked = bakeGradientTransforms(root, p.cfg, report)
		idx = buildDefsIndex(root)
	}
	if p.cfg.RemoveUnusedDefs {
		report.DefsRemoved = removeUnusedDefs(root, idx, report)
	}

	return report
}

func recordError(report *Report, stage, entity, kind string, err error) {
	report.Errors = append(report.Errors, StageError{Stage: stage, Entity: entity, Kind: kind, Message: err.Error()})
}

func entityLabel(n *svgdom.Node) string {
	if id, ok := n.Attr("id"); ok {
		return n.Tag + "#" + id
	}
	return fmt.Sprintf("%s@%p", n.Tag, n)
}
