package otel

import "context"

// NoOpExporter discards all metrics. Used when the exporter is disabled or
// unreachable; the workflow never fails on metrics.
type NoOpExporter struct{}

func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) SessionStarted(ctx context.Context, issueType, template string) {}

func (e *NoOpExporter) OutcomeRecorded(ctx context.Context, issueType string, successRate, satisfaction float64) {
}

func (e *NoOpExporter) PromptRun(ctx context.Context, exitCode int) {}

func (e *NoOpExporter) Shutdown(ctx context.Context) error { return nil }
