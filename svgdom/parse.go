package svgdom

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Parse reads an SVG document from r into a retained Node tree. The
// returned node is a synthetic "#document" root whose single element
// child is (ordinarily) the <svg> root element. Grounded on
// sparques-svg2gcode/parsesvg.go's xml.Decoder token loop, generalized
// from that program's flatten-on-the-fly element switch into a
// plain tree build: every element becomes a Node, attributes keep
// their local name, and whitespace-only text nodes between elements
// are dropped (SVG layout never depends on them).
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	root := &Node{Type: ElementNode, Tag: "#document"}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("svgdom: decode token: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Node{Type: ElementNode, Tag: strings.ToLower(t.Name.Local)}
			for _, a := range t.Attr {
				local := a.Name.Local
				name := local
				if a.Name.Space != "" {
					name = a.Name.Space + ":" + local
				}
				el.Attrs = append(el.Attrs, Attr{Name: name, Local: local, Value: a.Value})
			}
			parent := stack[len(stack)-1]
			parent.AppendChild(el)
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			parent := stack[len(stack)-1]
			parent.AppendChild(&Node{Type: TextNode, Text: text})
		}
	}
	if len(root.Children) == 0 {
		return nil, fmt.Errorf("svgdom: document has no root element")
	}
	return root, nil
}

// Root returns the document's root SVG element (the first element
// child of the synthetic document node), or nil if doc has none.
func Root(doc *Node) *Node {
	for _, c := range doc.Children {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}
