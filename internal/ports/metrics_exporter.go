package ports

import "context"

// MetricsExporter emits workflow counters to an external metrics backend.
// Implementations must be safe to call when the backend is unreachable; the
// workflow never fails on metrics.
type MetricsExporter interface {
	SessionStarted(ctx context.Context, issueType, template string)
	OutcomeRecorded(ctx context.Context, issueType string, successRate, satisfaction float64)
	PromptRun(ctx context.Context, exitCode int)
	Shutdown(ctx context.Context) error
}
