// Package verify implements the pipeline's audit trail: a Ledger of
// VerificationRecords recording every numerical check the flatten
// pipeline performs (transform round-trips, matrix inversion
// residuals, polygon-intersection containment, clipPath area
// conservation, gradient transform fidelity, Bezier identities), per
// the testable properties. Grounded on
// mp/path_ops_test.go's assertion style, generalized from one-off test
// assertions into a retained, queryable record the pipeline carries
// alongside its output document.
package verify

import (
	"fmt"

	"github.com/go-svgflatten/svgflatten/num"
)

// CheckKind identifies which testable property a VerificationRecord
// reports on.
type CheckKind string

const (
	CheckTransformRoundTrip   CheckKind = "transform_round_trip"
	CheckMatrixInversion      CheckKind = "matrix_inversion_residual"
	CheckPolygonIntersection  CheckKind = "polygon_intersection"
	CheckClipAreaConservation CheckKind = "clip_area_conservation"
	CheckGradientFidelity     CheckKind = "gradient_transform_fidelity"
	CheckGJKDistance          CheckKind = "gjk_distance"
	CheckBezierSplit          CheckKind = "bezier_split_reconstruction"
	CheckBezierPolyRoundTrip  CheckKind = "bezier_poly_round_trip"
	CheckBezierHorner         CheckKind = "bezier_horner_agreement"
)

// VerificationRecord is one entry in the ledger: which stage produced
// it, which entity (an element id, or a synthetic description for
// entities with no id) it concerns, which check ran, the measured
// error, and whether it passed.
type VerificationRecord struct {
	Stage        string
	Entity       string
	Check        CheckKind
	MeasuredErr  num.D
	Tolerance    num.D
	Valid        bool
	Detail       string
}

// Ledger accumulates VerificationRecords across a pipeline run.
type Ledger struct {
	records []VerificationRecord
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Record appends rec to the ledger.
func (l *Ledger) Record(rec VerificationRecord) { l.records = append(l.records, rec) }

// Add is a convenience constructor-and-append: it computes Valid from
// measuredErr <= tolerance and records the result.
func (l *Ledger) Add(stage, entity string, check CheckKind, measuredErr, tolerance num.D, detail string) VerificationRecord {
	rec := VerificationRecord{
		Stage:       stage,
		Entity:      entity,
		Check:       check,
		MeasuredErr: measuredErr,
		Tolerance:   tolerance,
		Valid:       measuredErr.LessOrEqual(tolerance),
		Detail:      detail,
	}
	l.Record(rec)
	return rec
}

// Records returns a snapshot of every record in the ledger.
func (l *Ledger) Records() []VerificationRecord {
	return append([]VerificationRecord(nil), l.records...)
}

// Failures returns every record with Valid == false.
func (l *Ledger) Failures() []VerificationRecord {
	var out []VerificationRecord
	for _, r := range l.records {
		if !r.Valid {
			out = append(out, r)
		}
	}
	return out
}

// Summary returns a one-line-per-kind pass/fail tally, for inclusion
// in the pipeline's run report.
func (l *Ledger) Summary() map[CheckKind]struct{ Pass, Fail int } {
	out := map[CheckKind]struct{ Pass, Fail int }{}
	for _, r := range l.records {
		entry := out[r.Check]
		if r.Valid {
			entry.Pass++
		} else {
			entry.Fail++
		}
		out[r.Check] = entry
	}
	return out
}

func (r VerificationRecord) String() string {
	status := "OK"
	if !r.Valid {
		status = "FAIL"
	}
	return fmt.Sprintf("[%s] %s/%s %s err=%s tol=%s %s", status, r.Stage, r.Entity, r.Check, r.MeasuredErr, r.Tolerance, r.Detail)
}
