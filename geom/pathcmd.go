package geom

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-svgflatten/svgflatten/num"
)

// Op identifies an SVG path command letter. Absolute commands use the
// uppercase constants; relative commands carry the Relative flag on
// Command instead of doubling the enum, which keeps downstream switches
// (optimizer, sampler) from having to handle 20 cases instead of 10.
type Op uint8

const (
	OpMoveTo Op = iota
	OpLineTo
	OpHorizontal
	OpVertical
	OpCubic
	OpSmoothCubic
	OpQuadratic
	OpSmoothQuadratic
	OpArc
	OpClose
)

// argc returns the SVG grammar's fixed argument count for op.
func (op Op) argc() int {
	switch op {
	case OpMoveTo, OpLineTo, OpSmoothQuadratic:
		return 2
	case OpHorizontal, OpVertical:
		return 1
	case OpCubic:
		return 6
	case OpSmoothCubic, OpQuadratic:
		return 4
	case OpArc:
		return 7
	case OpClose:
		return 0
	default:
		return 0
	}
}

// Command is one parsed path-data command: a tagged sum-type variant
// rather than a type-string descriptor. Args holds up to 7 decimal
// operands (the arc command's arity, the widest in the grammar); Arc
// keeps the SVG argument order rx, ry, x-axis-rotation, large-arc-flag,
// sweep-flag, x, y, so Args[3] and Args[4] encode the two flags as 0/1
// and Args[5], Args[6] hold the endpoint.
type Command struct {
	Op       Op
	Relative bool
	Args     [7]num.D
	Argc     int
}

func (c Command) arg(i int) num.D { return c.Args[i] }

// Letter returns the SVG command letter for c (uppercase for absolute,
// lowercase for relative).
func (c Command) Letter() byte {
	var l byte
	switch c.Op {
	case OpMoveTo:
		l = 'M'
	case OpLineTo:
		l = 'L'
	case OpHorizontal:
		l = 'H'
	case OpVertical:
		l = 'V'
	case OpCubic:
		l = 'C'
	case OpSmoothCubic:
		l = 'S'
	case OpQuadratic:
		l = 'Q'
	case OpSmoothQuadratic:
		l = 'T'
	case OpArc:
		l = 'A'
	case OpClose:
		l = 'Z'
	}
	if c.Relative {
		return l - 'A' + 'a'
	}
	return l
}

func opFromLetter(l byte) (Op, bool, bool) {
	upper := unicode.ToUpper(rune(l))
	relative := l != byte(upper)
	var op Op
	switch upper {
	case 'M':
		op = OpMoveTo
	case 'L':
		op = OpLineTo
	case 'H':
		op = OpHorizontal
	case 'V':
		op = OpVertical
	case 'C':
		op = OpCubic
	case 'S':
		op = OpSmoothCubic
	case 'Q':
		op = OpQuadratic
	case 'T':
		op = OpSmoothQuadratic
	case 'A':
		op = OpArc
	case 'Z':
		op = OpClose
	default:
		return 0, false, false
	}
	return op, relative, true
}

// ParsePath lexes an SVG `d` string into a Command sequence. The lexer
// is liberal about whitespace/comma separators and the SVG compact
// signed-number form (grounded on sparques-svg2gcode's parseSimplePath),
// strict about arity, and never implicitly repeats an A/a command
// (arc flags are ambiguous without delimiters).
func ParsePath(d string) ([]Command, error) {
	lex := &lexer{s: d}
	var cmds []Command
	var lastOp Op
	haveLast := false
	for {
		lex.skipSeparators()
		if lex.eof() {
			break
		}
		c := lex.s[lex.i]
		var op Op
		var relative bool
		var explicit bool
		if isCommandLetter(c) {
			var ok bool
			op, relative, ok = opFromLetter(c)
			if !ok {
				return nil, fmt.Errorf("geom: unknown path command %q at byte %d", string(c), lex.i)
			}
			lex.i++
			explicit = true
			haveLast = true
			lastOp = op
		} else if haveLast && lastOp != OpMoveTo && lastOp != OpClose && lastOp != OpArc {
			// Implicit repetition of the previous command, except A/a
			// (never implicit) and M/Z (M repeats as an implicit L per
			// the SVG grammar; Z takes no args so cannot repeat).
			op = lastOp
			relative = cmds[len(cmds)-1].Relative
		} else if haveLast && lastOp == OpMoveTo {
			op = OpLineTo
			relative = cmds[len(cmds)-1].Relative
		} else {
			return nil, fmt.Errorf("geom: expected a path command at byte %d", lex.i)
		}
		_ = explicit
		cmd := Command{Op: op, Relative: relative, Argc: op.argc()}
		if op == OpArc {
			for i := 0; i < 7; i++ {
				if i == 3 || i == 4 {
					lex.skipSeparators()
					flag, err := lex.arcFlag()
					if err != nil {
						return nil, fmt.Errorf("geom: arc flag %d: %w", i-3, err)
					}
					cmd.Args[i] = flag
					continue
				}
				v, err := lex.number()
				if err != nil {
					return nil, fmt.Errorf("geom: arc argument %d: %w", i, err)
				}
				cmd.Args[i] = v
			}
		} else {
			for i := 0; i < op.argc(); i++ {
				v, err := lex.number()
				if err != nil {
					return nil, fmt.Errorf("geom: argument %d of %c: %w", i, cmd.Letter(), err)
				}
				cmd.Args[i] = v
			}
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

type lexer struct {
	s string
	i int
}

func (l *lexer) eof() bool { return l.i >= len(l.s) }

func isCommandLetter(b byte) bool {
	switch unicode.ToUpper(rune(b)) {
	case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T', 'A', 'Z':
		return true
	}
	return false
}

func (l *lexer) skipSeparators() {
	for !l.eof() {
		c := l.s[l.i]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == ',' {
			l.i++
			continue
		}
		break
	}
}

// arcFlag parses a single 0/1 flag, tolerating the compact form where a
// flag is immediately followed by the next token with no separator
// (e.g. "A10 10 0 11 20 20" encodes flags "1" "1").
func (l *lexer) arcFlag() (num.D, error) {
	if l.eof() {
		return num.D{}, fmt.Errorf("unexpected end of input")
	}
	c := l.s[l.i]
	if c != '0' && c != '1' {
		return num.D{}, fmt.Errorf("expected arc flag 0 or 1, got %q", string(c))
	}
	l.i++
	if c == '0' {
		return num.Zero, nil
	}
	return num.One, nil
}

func (l *lexer) number() (num.D, error) {
	l.skipSeparators()
	start := l.i
	if l.eof() {
		return num.D{}, fmt.Errorf("unexpected end of input")
	}
	if l.s[l.i] == '+' || l.s[l.i] == '-' {
		l.i++
	}
	sawDigit := false
	for !l.eof() && isDigit(l.s[l.i]) {
		l.i++
		sawDigit = true
	}
	if !l.eof() && l.s[l.i] == '.' {
		l.i++
		for !l.eof() && isDigit(l.s[l.i]) {
			l.i++
			sawDigit = true
		}
	}
	if !sawDigit {
		return num.D{}, fmt.Errorf("invalid number at byte %d", start)
	}
	if !l.eof() && (l.s[l.i] == 'e' || l.s[l.i] == 'E') {
		save := l.i
		l.i++
		if !l.eof() && (l.s[l.i] == '+' || l.s[l.i] == '-') {
			l.i++
		}
		expDigits := false
		for !l.eof() && isDigit(l.s[l.i]) {
			l.i++
			expDigits = true
		}
		if !expDigits {
			l.i = save
		}
	}
	return num.FromString(l.s[start:l.i])
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Format serializes a command sequence to a `d` string at the given
// decimal precision, stripping trailing zeros. Every command —
// including repeated commands of the same type — carries its own
// letter; the implicit-repeat compaction the SVG grammar permits is
// instead an explicit, shorter-form-selection optimization performed
// by pathopt, not a behavior of this base serializer. Arc commands
// additionally always emit their letter and use a literal "0"/"1" for
// the two flag arguments with a mandatory whitespace separator.
func Format(cmds []Command, precision int32) string {
	var b strings.Builder
	for _, c := range cmds {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(c.Letter())
		for i := 0; i < c.Argc; i++ {
			b.WriteByte(' ')
			if c.Op == OpArc && (i == 3 || i == 4) {
				if c.Args[i].IsZero() {
					b.WriteByte('0')
				} else {
					b.WriteByte('1')
				}
			} else {
				b.WriteString(formatNumber(c.Args[i], precision))
			}
		}
	}
	return b.String()
}

// formatNumber renders d with at most `precision` fractional digits,
// stripping trailing zeros and a trailing decimal point, mirroring
// svg/writer.go's "%.Nf" formatting generalized to a configurable
// precision.
func formatNumber(d num.D, precision int32) string {
	s := d.StringFixed(precision)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	if s == "" || s == "-0" {
		s = "0"
	}
	return s
}
