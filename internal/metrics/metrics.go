// Package metrics records planner activity in Prometheus collectors.
package metrics

// Recorder receives planner events for observability purposes.
type Recorder interface {
	// RecordAssignment counts one assignment item by outcome: assigned,
	// cleared, skipped or forced.
	RecordAssignment(outcome string)
	// RecordAudit stores the number of conflicting courses found by the last
	// audit run.
	RecordAudit(conflicting int)
	// RecordExport counts a produced export, e.g. ("report", "pdf").
	RecordExport(kind, format string)
}

// Assignment outcomes.
const (
	OutcomeAssigned = "assigned"
	OutcomeCleared  = "cleared"
	OutcomeSkipped  = "skipped"
	OutcomeForced   = "forced"
)

// NopRecorder implements Recorder with no-op methods.
type NopRecorder struct{}

func (NopRecorder) RecordAssignment(string)     {}
func (NopRecorder) RecordAudit(int)             {}
func (NopRecorder) RecordExport(string, string) {}
