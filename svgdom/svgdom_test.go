package svgdom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
)

func TestParseAndGetElementsByTagName(t *testing.T) {
	src := `<svg viewBox="0 0 100 100"><g id="grp"><path id="p1" d="M0 0L10 10"/><circle id="c1" r="5"/></g></svg>`
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	root := Root(doc)
	require.NotNil(t, root)
	require.Equal(t, "svg", root.Tag)

	paths := root.GetElementsByTagName("path")
	require.Len(t, paths, 1)
	d, ok := paths[0].Attr("d")
	require.True(t, ok)
	require.Equal(t, "M0 0L10 10", d)

	found := root.GetElementByID("c1")
	require.NotNil(t, found)
	require.Equal(t, "circle", found.Tag)
}

func TestCloneIsDeepAndDetached(t *testing.T) {
	src := `<svg><g id="a"><rect id="r1"/></g></svg>`
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	g := Root(doc).GetElementByID("a")
	clone := g.Clone()
	require.Nil(t, clone.Parent)
	require.Len(t, clone.Children, 1)
	clone.Children[0].SetAttr("id", "r2")
	orig, _ := g.Children[0].Attr("id")
	require.Equal(t, "r1", orig)
}

func TestSerializeRoundTrip(t *testing.T) {
	src := `<svg><rect x="1" y="2"/></svg>`
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	out := Serialize(doc)
	require.Contains(t, out, `<rect x="1" y="2"/>`)
}

func TestParseTransformComposesLeftToRight(t *testing.T) {
	m, err := ParseTransform("translate(10,0) scale(2)", num.DefaultCtx())
	require.NoError(t, err)
	p, err := m.ApplyToPoint(geom.Pt(num.FromInt(1), num.FromInt(1)))
	require.NoError(t, err)
	require.True(t, p.X.Equal(num.FromInt(12)))
	require.True(t, p.Y.Equal(num.FromInt(2)))
}

func TestParseTransformMatrixFunc(t *testing.T) {
	m, err := ParseTransform("matrix(1,0,0,1,5,6)", num.DefaultCtx())
	require.NoError(t, err)
	p, err := m.ApplyToPoint(geom.Pt(num.Zero, num.Zero))
	require.NoError(t, err)
	require.True(t, p.X.Equal(num.FromInt(5)))
	require.True(t, p.Y.Equal(num.FromInt(6)))
}
