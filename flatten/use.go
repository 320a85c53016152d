package flatten

import (
	"fmt"
	"strings"

	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
	"github.com/go-svgflatten/svgflatten/svgdom"
)

// resolveUse implements pipeline stage 1: for each `use` element,
// locate the referenced definition, synthesize geometry under the
// use's x/y/transform (plus, when the reference is a <symbol> or
// <svg> carrying a viewBox, the width/height-driven viewBox scale via
// symbolViewBoxTransform), and replace the use with that geometry.
// Style attributes present on the use but absent on the resolved copy
// are applied to it.
func resolveUse(root *svgdom.Node, idx defsIndex, cfg Config, report *Report) int {
	count := 0
	for _, useEl := range root.GetElementsByTagName("use") {
		if err := resolveOneUse(useEl, idx, cfg); err != nil {
			recordError(report, "use", entityLabel(useEl), "reference_error", err)
			continue
		}
		count++
	}
	return count
}

func resolveOneUse(useEl *svgdom.Node, idx defsIndex, cfg Config) error {
	href := useEl.AttrOr("href", useEl.AttrOr("xlink:href", ""))
	href = strings.TrimPrefix(href, "#")
	if href == "" {
		return fmt.Errorf("use element has no href")
	}
	def, ok := idx[href]
	if !ok {
		return fmt.Errorf("use references unknown id %q", href)
	}

	instance := def.Clone()
	instance.Tag = "g"

	x := attrNum(useEl, "x", num.Zero)
	y := attrNum(useEl, "y", num.Zero)
	translate := geom.Translation(x, y)
	useTransform := geom.Identity(3)
	if ts, ok := useEl.Attr("transform"); ok {
		m, err := svgdom.ParseTransform(ts, cfg.Ctx)
		if err == nil {
			useTransform = m
		}
	}
	composed, err := useTransform.Mul(translate)
	if err != nil {
		return err
	}
	if def.Tag == "symbol" || def.Tag == "svg" {
		viewBoxM, hasViewBox, err := symbolViewBoxTransform(def, useEl)
		if err != nil {
			return err
		}
		if hasViewBox {
			composed, err = composed.Mul(viewBoxM)
			if err != nil {
				return err
			}
		}
	}
	identity := geom.Identity(3)
	isIdentity := true
	for i := 0; i < 3 && isIdentity; i++ {
		for j := 0; j < 3; j++ {
			if !composed.At(i, j).Equal(identity.At(i, j)) {
				isIdentity = false
				break
			}
		}
	}
	if !isIdentity {
		instance.SetAttr("transform", matrixToAttr(composed))
	}

	for _, a := range useEl.Attrs {
		switch a.Local {
		case "x", "y", "width", "height", "href", "xlink:href", "transform", "id":
			continue
		}
		if !instance.HasAttr(a.Local) {
			instance.SetAttr(a.Local, a.Value)
		}
	}

	parent := useEl.Parent
	if parent == nil {
		return fmt.Errorf("use element is detached from the tree")
	}
	replaceChild(parent, useEl, instance)
	return nil
}

// symbolViewBoxTransform computes the scale+translate mapping a
// <symbol> or <svg> def's viewBox coordinate space into the viewport
// established by a use element's width/height (falling back to the
// def's own width/height, then to the viewBox's own size when
// neither is given), always under the xMidYMid meet fit whatever
// preserveAspectRatio the def declares. A def with no
// viewBox has no content scale to apply: hasViewBox is false and the
// use's width/height are left without effect, matching SVG's own rule
// that width/height only drive a coordinate mapping in the presence
// of a viewBox.
func symbolViewBoxTransform(def, useEl *svgdom.Node) (m geom.Matrix, hasViewBox bool, err error) {
	vb, ok := def.Attr("viewBox")
	if !ok {
		return geom.Identity(3), false, nil
	}
	fields := strings.FieldsFunc(vb, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return geom.Identity(3), false, fmt.Errorf("flatten: viewBox %q needs 4 numbers", vb)
	}
	vbMinX, err := num.FromString(fields[0])
	if err != nil {
		return geom.Identity(3), false, fmt.Errorf("flatten: viewBox %q: %w", vb, err)
	}
	vbMinY, err := num.FromString(fields[1])
	if err != nil {
		return geom.Identity(3), false, fmt.Errorf("flatten: viewBox %q: %w", vb, err)
	}
	vbW, err := num.FromString(fields[2])
	if err != nil {
		return geom.Identity(3), false, fmt.Errorf("flatten: viewBox %q: %w", vb, err)
	}
	vbH, err := num.FromString(fields[3])
	if err != nil {
		return geom.Identity(3), false, fmt.Errorf("flatten: viewBox %q: %w", vb, err)
	}

	width := attrNum(useEl, "width", attrNum(def, "width", vbW))
	height := attrNum(useEl, "height", attrNum(def, "height", vbH))
	if vbW.LessOrEqual(num.Zero) || vbH.LessOrEqual(num.Zero) || width.LessOrEqual(num.Zero) || height.LessOrEqual(num.Zero) {
		return geom.Identity(3), false, fmt.Errorf("flatten: viewBox/viewport has non-positive extent")
	}

	scaleX, err := width.Div(vbW)
	if err != nil {
		return geom.Identity(3), false, err
	}
	scaleY, err := height.Div(vbH)
	if err != nil {
		return geom.Identity(3), false, err
	}
	scale := num.Min(scaleX, scaleY)

	half := num.MustFromString("0.5")
	tx := width.Sub(vbW.Mul(scale)).Mul(half).Sub(vbMinX.Mul(scale))
	ty := height.Sub(vbH.Mul(scale)).Mul(half).Sub(vbMinY.Mul(scale))

	translated := geom.Translation(tx, ty)
	m, err = translated.Mul(geom.Scale2D(scale, scale))
	if err != nil {
		return geom.Identity(3), false, err
	}
	return m, true, nil
}

// replaceChild swaps old for replacement in parent's children slice in
// place, preserving document order.
func replaceChild(parent, old, replacement *svgdom.Node) {
	for i, c := range parent.Children {
		if c == old {
			replacement.Parent = parent
			parent.Children[i] = replacement
			return
		}
	}
}

// matrixToAttr renders a 3x3 affine geom.Matrix as an SVG
// `matrix(a,b,c,d,e,f)` transform string.
func matrixToAttr(m geom.Matrix) string {
	return fmt.Sprintf("matrix(%s,%s,%s,%s,%s,%s)",
		m.At(0, 0).String(), m.At(1, 0).String(),
		m.At(0, 1).String(), m.At(1, 1).String(),
		m.At(0, 2).String(), m.At(1, 2).String())
}
