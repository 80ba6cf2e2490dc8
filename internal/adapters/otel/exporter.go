package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mlombardi/issueflow/internal/domain"
)

const (
	serviceName    = "issueflow"
	serviceVersion = "1.0.0"
)

// Exporter emits workflow counters to an OTEL Collector.
type Exporter struct {
	provider         *sdkmetric.MeterProvider
	meter            metric.Meter
	sessionsTotal    metric.Int64Counter
	outcomesTotal    metric.Int64Counter
	promptRunsTotal  metric.Int64Counter
	satisfactionHist metric.Float64Histogram
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	sessionsTotal, err := meter.Int64Counter(
		"issueflow_sessions_started_total",
		metric.WithDescription("Workflow sessions started"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	outcomesTotal, err := meter.Int64Counter(
		"issueflow_outcomes_recorded_total",
		metric.WithDescription("Session outcomes recorded"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating outcomes counter: %w", err)
	}

	promptRunsTotal, err := meter.Int64Counter(
		"issueflow_prompt_runs_total",
		metric.WithDescription("Interactive assistant runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating prompt runs counter: %w", err)
	}

	satisfactionHist, err := meter.Float64Histogram(
		"issueflow_satisfaction",
		metric.WithDescription("User satisfaction ratings"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating satisfaction histogram: %w", err)
	}

	return &Exporter{
		provider:         provider,
		meter:            meter,
		sessionsTotal:    sessionsTotal,
		outcomesTotal:    outcomesTotal,
		promptRunsTotal:  promptRunsTotal,
		satisfactionHist: satisfactionHist,
	}, nil
}

func (e *Exporter) SessionStarted(ctx context.Context, issueType, template string) {
	e.sessionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("issue_type", issueType),
		attribute.String("template", template),
	))
}

func (e *Exporter) OutcomeRecorded(ctx context.Context, issueType string, successRate, satisfaction float64) {
	e.outcomesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("issue_type", issueType),
	))
	e.satisfactionHist.Record(ctx, satisfaction, metric.WithAttributes(
		attribute.String("issue_type", issueType),
		attribute.Bool("successful", successRate > domain.SuccessThreshold),
	))
}

func (e *Exporter) PromptRun(ctx context.Context, exitCode int) {
	e.promptRunsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("exit_code", exitCode),
	))
}

// Shutdown flushes pending metrics.
func (e *Exporter) Shutdown(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
