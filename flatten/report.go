package flatten

import "github.com/go-svgflatten/svgflatten/verify"

// Report summarizes one pipeline run: per-stage counts, an error log,
// and the verification ledger.
type Report struct {
	UseResolved       int
	MarkersResolved   int
	PatternsResolved  int
	MasksResolved     int
	ClipPathsApplied  int
	TransformsBaked   int
	GradientsBaked    int
	DefsRemoved       int
	Errors            []StageError
	Ledger            *verify.Ledger
}

// StageError records one non-fatal error encountered during a stage:
// no single element's error halts the pipeline, the offending element
// is skipped and an error record appended here instead.
type StageError struct {
	Stage   string
	Entity  string
	Kind    string // "input_shape", "numerical_degeneracy", "algorithmic_failure", "reference_error", "invariant_breach"
	Message string
}

func (e StageError) Error() string {
	return e.Stage + "/" + e.Entity + " [" + e.Kind + "]: " + e.Message
}

// AllPassed reports whether every ledger entry from this run passed.
func (r *Report) AllPassed() bool {
	return len(r.Ledger.Failures()) == 0
}
