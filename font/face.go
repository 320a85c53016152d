// Package font provides optional font support for converting <text>
// content to glyph outline paths. The flatten package uses it for
// <text> elements inside clipPath and mask content; it pulls in the
// textshape shaping engine.
//
// Example:
//
//	f, err := os.Open("arial.ttf")
//	face, err := font.Load(f)
//	cmds, err := face.ToPaths("Hello", font.Options{FontSize: 12})
package font

import (
	"fmt"
	"io"

	"github.com/boxesandglue/textshape/ot"
	"github.com/go-svgflatten/svgflatten/geom"
	"github.com/go-svgflatten/svgflatten/num"
)

// Face wraps a loaded font for text-to-path conversion.
type Face struct {
	font   *ot.Font
	face   *ot.Face
	shaper *ot.Shaper
	upem   float64
}

// Options configures text shaping and placement.
type Options struct {
	FontSize float64
	X, Y     float64
}

const defaultFontSize = 12.0

// Load loads a TrueType or OpenType font from a reader. The reader's
// contents are read into memory.
func Load(r io.Reader) (*Face, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("font: read font data: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads a TrueType or OpenType font from byte data.
func LoadFromBytes(data []byte) (*Face, error) {
	f, err := ot.ParseFont(data, 0)
	if err != nil {
		return nil, fmt.Errorf("font: parse font: %w", err)
	}
	face, err := ot.NewFace(f)
	if err != nil {
		return nil, fmt.Errorf("font: create face: %w", err)
	}
	shaper, err := ot.NewShaperFromFace(face)
	if err != nil {
		return nil, fmt.Errorf("font: create shaper: %w", err)
	}
	return &Face{font: f, face: face, shaper: shaper, upem: float64(face.Upem())}, nil
}

// Glyph is one shaped glyph's outline, already positioned for the
// line of text it came from.
type Glyph struct {
	Commands []geom.Command
}

func (f *Face) shape(text string) (*ot.Buffer, float64) {
	buf := ot.NewBuffer()
	buf.Direction = ot.DirectionLTR
	buf.Script = ot.ScriptToTag(ot.ScriptLatin)
	if tags := ot.LanguageToTag("en"); len(tags) > 0 {
		buf.Language = tags[0]
	}
	buf.AddString(text)
	f.shaper.Shape(buf, nil)
	return buf, f.upem
}

// ToPaths shapes text and returns one path (a closed Command sequence
// per contour) for each glyph that has outline geometry. Glyphs with
// no outline (e.g. space) are skipped but still advance the pen.
func (f *Face) ToPaths(text string, opts Options) ([]Glyph, error) {
	if opts.FontSize == 0 {
		opts.FontSize = defaultFontSize
	}
	buf, upem := f.shape(text)
	scale := opts.FontSize / upem
	curX, curY := opts.X, opts.Y

	var glyphs []Glyph
	for i := range buf.Info {
		info := buf.Info[i]
		pos := buf.Pos[i]

		outline, ok := f.face.GlyphOutline(info.GlyphID)
		if !ok {
			curX += float64(pos.XAdvance) * scale
			curY += float64(pos.YAdvance) * scale
			continue
		}

		glyphX := curX + float64(pos.XOffset)*scale
		glyphY := curY + float64(pos.YOffset)*scale
		cmds, err := outlineToCommands(outline, scale, glyphX, glyphY)
		if err != nil {
			return nil, err
		}
		if len(cmds) > 0 {
			glyphs = append(glyphs, Glyph{Commands: cmds})
		}

		curX += float64(pos.XAdvance) * scale
		curY += float64(pos.YAdvance) * scale
	}
	return glyphs, nil
}

// Bounds returns the bounding width and height of shaped text, using
// real font metrics for the vertical extent.
func (f *Face) Bounds(text string, fontSize float64) (width, height float64) {
	if fontSize == 0 {
		fontSize = defaultFontSize
	}
	buf, upem := f.shape(text)
	scale := fontSize / upem

	var advance float64
	for i := range buf.Pos {
		advance += float64(buf.Pos[i].XAdvance)
	}

	ext := f.face.GetHExtents()
	ascender := float64(ext.Ascender)
	descender := float64(-ext.Descender)
	return advance * scale, (ascender + descender) * scale
}

func ptAt(x, y float32, scale, offsetX, offsetY float64) (geom.Point, error) {
	px, err := num.FromFloat(float64(x)*scale + offsetX)
	if err != nil {
		return geom.Point{}, err
	}
	py, err := num.FromFloat(float64(y)*scale + offsetY)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Pt(px, py), nil
}

// outlineToCommands converts a glyph outline (as emitted by
// textshape's pathBuilder: MoveTo starts a contour, QuadTo carries a
// TrueType on-curve control point, CubeTo a PostScript-style cubic)
// into an absolute geom.Command path, closing every contour.
func outlineToCommands(outline ot.GlyphOutline, scale, offsetX, offsetY float64) ([]geom.Command, error) {
	var cmds []geom.Command
	for _, seg := range outline.Segments {
		switch seg.Op {
		case ot.SegmentMoveTo:
			p, err := ptAt(seg.Args[0].X, seg.Args[0].Y, scale, offsetX, offsetY)
			if err != nil {
				return nil, err
			}
			if len(cmds) > 0 && cmds[len(cmds)-1].Op != geom.OpClose {
				cmds = append(cmds, geom.Command{Op: geom.OpClose})
			}
			c := geom.Command{Op: geom.OpMoveTo, Argc: 2}
			c.Args[0], c.Args[1] = p.X, p.Y
			cmds = append(cmds, c)
		case ot.SegmentLineTo:
			p, err := ptAt(seg.Args[0].X, seg.Args[0].Y, scale, offsetX, offsetY)
			if err != nil {
				return nil, err
			}
			c := geom.Command{Op: geom.OpLineTo, Argc: 2}
			c.Args[0], c.Args[1] = p.X, p.Y
			cmds = append(cmds, c)
		case ot.SegmentQuadTo:
			ctrl, err := ptAt(seg.Args[0].X, seg.Args[0].Y, scale, offsetX, offsetY)
			if err != nil {
				return nil, err
			}
			end, err := ptAt(seg.Args[1].X, seg.Args[1].Y, scale, offsetX, offsetY)
			if err != nil {
				return nil, err
			}
			c := geom.Command{Op: geom.OpQuadratic, Argc: 4}
			c.Args[0], c.Args[1] = ctrl.X, ctrl.Y
			c.Args[2], c.Args[3] = end.X, end.Y
			cmds = append(cmds, c)
		case ot.SegmentCubeTo:
			ctrl1, err := ptAt(seg.Args[0].X, seg.Args[0].Y, scale, offsetX, offsetY)
			if err != nil {
				return nil, err
			}
			ctrl2, err := ptAt(seg.Args[1].X, seg.Args[1].Y, scale, offsetX, offsetY)
			if err != nil {
				return nil, err
			}
			end, err := ptAt(seg.Args[2].X, seg.Args[2].Y, scale, offsetX, offsetY)
			if err != nil {
				return nil, err
			}
			c := geom.Command{Op: geom.OpCubic, Argc: 6}
			c.Args[0], c.Args[1] = ctrl1.X, ctrl1.Y
			c.Args[2], c.Args[3] = ctrl2.X, ctrl2.Y
			c.Args[4], c.Args[5] = end.X, end.Y
			cmds = append(cmds, c)
		}
	}
	if len(cmds) > 0 {
		cmds = append(cmds, geom.Command{Op: geom.OpClose})
	}
	return cmds, nil
}
