package flatten

import (
	"strings"

	"github.com/go-svgflatten/svgflatten/svgdom"
)

// removeUnusedDefs implements pipeline stage 8: walk the document
// collecting every id referenced via a url(#id) attribute value or an
// href/xlink:href="#id" attribute, then drop every direct child of a
// <defs> element found in idx whose id was never referenced.
func removeUnusedDefs(root *svgdom.Node, idx defsIndex, report *Report) int {
	referenced := map[string]bool{}
	for _, el := range root.AllElements() {
		for _, a := range el.Attrs {
			collectRefs(a.Value, referenced)
		}
	}

	count := 0
	for id, def := range idx {
		if referenced[id] {
			continue
		}
		if def.Parent == nil || def.Parent.Tag != "defs" {
			continue
		}
		def.Parent.RemoveChild(def)
		count++
	}
	return count
}

func collectRefs(value string, out map[string]bool) {
	v := strings.TrimSpace(value)
	switch {
	case strings.Contains(v, "url("):
		start := strings.Index(v, "url(")
		rest := v[start+len("url("):]
		if end := strings.Index(rest, ")"); end >= 0 {
			ref := strings.Trim(rest[:end], `'" `)
			out[strings.TrimPrefix(ref, "#")] = true
		}
	case strings.HasPrefix(v, "#"):
		out[strings.TrimPrefix(v, "#")] = true
	}
}
