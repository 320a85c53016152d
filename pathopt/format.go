package pathopt

import (
	"github.com/go-svgflatten/svgflatten/geom"
)

// ChooseShorterForm formats both the absolute and relative renderings
// of a single command at the same precision and returns whichever
// string is shorter, per the shorter-form selection. Ties
// favor the absolute form (arbitrary but deterministic). The two
// candidate commands must have equal argument counts, which
// toAbsoluteCommand/toRelativeCommand always preserve — asserted here
// defensively since a violation would mean a conversion-table bug.
func ChooseShorterForm(abs, rel geom.Command, precision int32) string {
	if abs.Argc != rel.Argc {
		return geom.Format([]geom.Command{abs}, precision)
	}
	absStr := geom.Format([]geom.Command{abs}, precision)
	relStr := geom.Format([]geom.Command{rel}, precision)
	if len(relStr) < len(absStr) {
		return relStr
	}
	return absStr
}

// FormatShortest renders the full command sequence, choosing per
// command whichever of the absolute/relative form is shorter at the
// given precision. Pen state is tracked in absolute terms throughout
// so each command's two candidate forms are computed against a
// consistent running position regardless of which form the previous
// command was emitted in.
func FormatShortest(cmds []geom.Command, precision int32) (string, error) {
	p := pen{}
	var out []geom.Command
	for _, c := range cmds {
		abs, err := toAbsoluteCommand(c, p)
		if err != nil {
			return "", err
		}
		rel, err := toRelativeCommand(abs, p)
		if err != nil {
			return "", err
		}
		absStr := geom.Format([]geom.Command{abs}, precision)
		relStr := geom.Format([]geom.Command{rel}, precision)
		if len(relStr) < len(absStr) {
			out = append(out, rel)
		} else {
			out = append(out, abs)
		}
		p = advancePen(p, abs)
	}
	return geom.Format(out, precision), nil
}
