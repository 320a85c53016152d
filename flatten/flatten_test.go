package flatten

import (
	"strings"
	"testing"

	"github.com/go-svgflatten/svgflatten/num"
	"github.com/go-svgflatten/svgflatten/svgdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSVG(t *testing.T, src string) *svgdom.Node {
	t.Helper()
	doc, err := svgdom.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestClipInteriorRectAreaConservation(t *testing.T) {
	src := `<svg>
		<defs>
			<clipPath id="c"><rect x="25" y="25" width="50" height="50"/></clipPath>
		</defs>
		<rect id="host" x="0" y="0" width="100" height="100" clip-path="url(#c)"/>
	</svg>`
	doc := parseSVG(t, src)
	cfg := NewConfig()
	report := NewPipeline(cfg).Run(doc)

	host := svgdom.Root(doc).GetElementByID("host")
	require.NotNil(t, host)
	require.Equal(t, "path", host.Tag)

	cmds, err := ElementToCommands(host, cfg.BezierArcs, cfg.Ctx)
	require.NoError(t, err)
	poly, err := SampleToPolygon(cmds, cfg.ClipSegments, cfg.Ctx)
	require.NoError(t, err)
	area := poly.Area()
	assert.True(t, area.Sub(num.FromInt(2500)).Abs().LessOrEqual(num.MustFromString("1e-6")))
	assert.True(t, report.AllPassed())
}

func TestClipDisjointShapesYieldsEmptyHost(t *testing.T) {
	src := `<svg>
		<defs>
			<clipPath id="c"><rect x="200" y="200" width="10" height="10"/></clipPath>
		</defs>
		<rect id="host" x="0" y="0" width="50" height="50" clip-path="url(#c)"/>
	</svg>`
	doc := parseSVG(t, src)
	cfg := NewConfig()
	report := NewPipeline(cfg).Run(doc)

	host := svgdom.Root(doc).GetElementByID("host")
	require.NotNil(t, host)
	d := host.AttrOr("d", "")
	assert.Equal(t, "", d)
	_ = report
}

func TestClipObjectBoundingBoxUnits(t *testing.T) {
	src := `<svg>
		<defs>
			<clipPath id="c" clipPathUnits="objectBoundingBox">
				<rect x="0" y="0" width="1" height="1"/>
			</clipPath>
		</defs>
		<rect id="host" x="150" y="150" width="100" height="100" clip-path="url(#c)"/>
	</svg>`
	doc := parseSVG(t, src)
	cfg := NewConfig()
	NewPipeline(cfg).Run(doc)

	host := svgdom.Root(doc).GetElementByID("host")
	require.NotNil(t, host)
	cmds, err := ElementToCommands(host, cfg.BezierArcs, cfg.Ctx)
	require.NoError(t, err)
	poly, err := SampleToPolygon(cmds, cfg.ClipSegments, cfg.Ctx)
	require.NoError(t, err)
	area := poly.Area()
	assert.True(t, area.Sub(num.FromInt(10000)).Abs().LessOrEqual(num.MustFromString("1e-6")))
}

func TestUseResolutionInlinesDefinition(t *testing.T) {
	src := `<svg>
		<defs>
			<rect id="box" x="0" y="0" width="10" height="10"/>
		</defs>
		<use id="inst" href="#box" x="5" y="5"/>
	</svg>`
	doc := parseSVG(t, src)
	cfg := NewConfig()
	report := NewPipeline(cfg).Run(doc)

	root := svgdom.Root(doc)
	assert.Equal(t, 1, report.UseResolved)
	assert.Nil(t, root.GetElementByID("inst"))
}

func TestTransformFlattenBakesLeafCoordinates(t *testing.T) {
	src := `<svg>
		<rect id="r" x="0" y="0" width="10" height="10" transform="translate(5,5)"/>
	</svg>`
	doc := parseSVG(t, src)
	cfg := NewConfig()
	report := NewPipeline(cfg).Run(doc)

	host := svgdom.Root(doc).GetElementByID("r")
	require.NotNil(t, host)
	assert.False(t, host.HasAttr("transform"))
	assert.Equal(t, 1, report.TransformsBaked)
}

func TestGradientTransformBakesLinearEndpoints(t *testing.T) {
	src := `<svg>
		<defs>
			<linearGradient id="g" x1="0" y1="0" x2="1" y2="0" gradientTransform="translate(10,20)"/>
		</defs>
	</svg>`
	doc := parseSVG(t, src)
	// g is unreferenced, so the final defs GC would remove it; keep it
	// so the baked attributes can be inspected.
	cfg := NewConfig(WithRemoveUnusedDefs(false))
	report := NewPipeline(cfg).Run(doc)

	g := svgdom.Root(doc).GetElementByID("g")
	require.NotNil(t, g)
	assert.False(t, g.HasAttr("gradientTransform"))
	assert.Equal(t, "10", g.AttrOr("x1", ""))
	assert.Equal(t, "20", g.AttrOr("y1", ""))
	assert.Equal(t, 1, report.GradientsBaked)
}

func TestDefsGCRemovesUnreferencedDefinitions(t *testing.T) {
	src := `<svg>
		<defs>
			<linearGradient id="used" x1="0" y1="0" x2="1" y2="0"/>
			<linearGradient id="unused" x1="0" y1="0" x2="1" y2="0"/>
		</defs>
		<rect id="r" x="0" y="0" width="10" height="10" fill="url(#used)"/>
	</svg>`
	doc := parseSVG(t, src)
	cfg := NewConfig()
	NewPipeline(cfg).Run(doc)

	root := svgdom.Root(doc)
	assert.Nil(t, root.GetElementByID("unused"))
	assert.NotNil(t, root.GetElementByID("used"))
}
