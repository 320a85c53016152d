package flatten

import (
	"fmt"
	"strings"

	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
	"github.com/go-svgflatten/svgflatten/svgdom"
)

// resolvePatterns implements pipeline stage 3: for each element
// whose fill references a pattern, tile the pattern's content over
// the host's bounding box and insert the tiled geometry as a sibling,
// then set the host's fill to none.
func resolvePatterns(root *svgdom.Node, idx defsIndex, cfg Config, report *Report) int {
	count := 0
	for _, host := range root.AllElements() {
		fill, ok := host.Attr("fill")
		if !ok || !strings.HasPrefix(strings.TrimSpace(fill), "url(") {
			continue
		}
		ref := urlRef(fill)
		def, ok := idx[ref]
		if !ok || def.Tag != "pattern" {
			continue
		}
		if err := tilePattern(host, def, cfg); err != nil {
			recordError(report, "patterns", entityLabel(host), "reference_error", err)
			continue
		}
		host.SetAttr("fill", "none")
		count++
	}
	return count
}

func urlRef(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "url(")
	s = strings.TrimSuffix(s, ")")
	s = strings.Trim(s, `'"`)
	return strings.TrimPrefix(s, "#")
}

// tilePattern tiles def's content over host's bounding box, honoring
// patternUnits (objectBoundingBox by default) and patternTransform,
// inserting one <g> per tile as a sibling of host. The pattern's
// viewBox, preserveAspectRatio and patternContentUnits are not read:
// pattern content is placed 1:1 in each tile's own coordinate space,
// with no viewBox scaling or aspect-ratio fit.
func tilePattern(host, def *svgdom.Node, cfg Config) error {
	min, max, err := ElementBoundingBox(host, cfg.ClipSegments, cfg.Ctx)
	if err != nil {
		return err
	}
	units := def.AttrOr("patternUnits", "objectBoundingBox")
	tileW := attrNum(def, "width", num.MustFromString("0.1"))
	tileH := attrNum(def, "height", num.MustFromString("0.1"))
	boxW := max.X.Sub(min.X)
	boxH := max.Y.Sub(min.Y)
	if units == "objectBoundingBox" {
		tileW = tileW.Mul(boxW)
		tileH = tileH.Mul(boxH)
	}
	if tileW.LessOrEqual(num.Zero) || tileH.LessOrEqual(num.Zero) {
		return fmt.Errorf("pattern tile has non-positive size")
	}

	patternTransform := geom.Identity(3)
	if ts, ok := def.Attr("patternTransform"); ok {
		if m, err := svgdom.ParseTransform(ts, cfg.Ctx); err == nil {
			patternTransform = m
		}
	}

	parent := host.Parent
	if parent == nil {
		return fmt.Errorf("pattern host is detached from the tree")
	}

	nx := ceilDiv(boxW, tileW)
	ny := ceilDiv(boxH, tileH)
	const maxTiles = 4096
	if nx*ny > maxTiles {
		return fmt.Errorf("pattern tiling exceeds %d tiles (%dx%d); reduce tile size or host extent", maxTiles, nx, ny)
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			tx := min.X.Add(tileW.Mul(num.FromInt(int64(i))))
			ty := min.Y.Add(tileH.Mul(num.FromInt(int64(j))))
			tile := def.Clone()
			tile.Tag = "g"
			translate := geom.Translation(tx, ty)
			m, err := translate.Mul(patternTransform)
			if err != nil {
				return err
			}
			tile.SetAttr("transform", matrixToAttr(m))
			parent.AppendChild(tile)
		}
	}
	return nil
}

func ceilDiv(total, step num.D) int {
	if step.LessOrEqual(num.Zero) {
		return 0
	}
	q, err := total.Div(step)
	if err != nil {
		return 0
	}
	n := int(q.Float64())
	if num.FromInt(int64(n)).LessThan(q) {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}
