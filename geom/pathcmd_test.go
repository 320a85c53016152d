package geom

import (
	"testing"

	"github.com/go-svgflatten/svgflatten/num"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathBasicCommands(t *testing.T) {
	cmds, err := ParsePath("M 10 20 L 30 40 C 1 2 3 4 5 6 Z")
	require.NoError(t, err)
	require.Len(t, cmds, 4)
	assert.Equal(t, OpMoveTo, cmds[0].Op)
	assert.Equal(t, OpLineTo, cmds[1].Op)
	assert.Equal(t, OpCubic, cmds[2].Op)
	assert.Equal(t, OpClose, cmds[3].Op)
	assert.False(t, cmds[0].Relative)
}

func TestParsePathImplicitRepeat(t *testing.T) {
	cmds, err := ParsePath("M0 0 L 1 1 2 2 3 3")
	require.NoError(t, err)
	require.Len(t, cmds, 4)
	for _, c := range cmds[1:] {
		assert.Equal(t, OpLineTo, c.Op)
	}
}

func TestParsePathMoveImplicitlyRepeatsAsLine(t *testing.T) {
	cmds, err := ParsePath("M 0 0 10 10")
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, OpMoveTo, cmds[0].Op)
	assert.Equal(t, OpLineTo, cmds[1].Op)
}

func TestParsePathArcNeverImplicit(t *testing.T) {
	_, err := ParsePath("M0 0 A 5 5 0 0 1 10 10 20 20")
	assert.Error(t, err)
}

func TestParsePathRelativeCommand(t *testing.T) {
	cmds, err := ParsePath("m0 0 l5 5")
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.True(t, cmds[0].Relative)
	assert.True(t, cmds[1].Relative)
}

func TestParsePathArcFlagsCompactForm(t *testing.T) {
	cmds, err := ParsePath("M0 0 A10 10 0 11 20 20")
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, OpArc, cmds[1].Op)
	assert.True(t, cmds[1].Args[3].Equal(num.One))
	assert.True(t, cmds[1].Args[4].Equal(num.One))
}

func TestParsePathRejectsMissingArguments(t *testing.T) {
	_, err := ParsePath("M0 0 Q1 1")
	assert.Error(t, err)
}

func TestCommandLetterRoundTrip(t *testing.T) {
	cmds, err := ParsePath("M10 20 L5 5 H1 V2 C1 2 3 4 5 6 S1 2 3 4 Q1 2 3 4 T5 6 Z")
	require.NoError(t, err)
	want := "MLHVCSQTZ"
	for i, c := range cmds {
		assert.Equal(t, want[i], c.Letter())
	}
}

func TestFormatStripsTrailingZeros(t *testing.T) {
	cmds, err := ParsePath("M 1.50000 2.00000")
	require.NoError(t, err)
	out := Format(cmds, 6)
	assert.Equal(t, "M 1.5 2", out)
}

func TestFormatRoundTripsThroughParse(t *testing.T) {
	original := "M 0 0 L 10 10 C 1 2 3 4 5 6 Z"
	cmds, err := ParsePath(original)
	require.NoError(t, err)
	out := Format(cmds, 6)
	reparsed, err := ParsePath(out)
	require.NoError(t, err)
	require.Len(t, reparsed, len(cmds))
	for i := range cmds {
		assert.Equal(t, cmds[i].Op, reparsed[i].Op)
	}
}
