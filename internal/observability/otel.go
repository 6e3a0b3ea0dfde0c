package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"prepscore/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ObservabilityConfig holds configuration for observability
type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	ConsoleOutput  bool
	PrettyPrint    bool
	SampleRate     float64
	Prometheus     PrometheusConfig
}

// Metrics holds all custom metrics for prepscore. A nil *Metrics or a
// Metrics with nil instruments records nothing.
type Metrics struct {
	ScoringDuration metric.Float64Histogram
	ScoringErrors   metric.Int64Counter

	AnswersEvaluated metric.Int64Counter
	ResumesAnalyzed  metric.Int64Counter
	ResumesExtracted metric.Int64Counter
	AnswerScore      metric.Int64Histogram
	ATSScore         metric.Int64Histogram

	LexiconReloads metric.Int64Counter
	RateLimitHits  metric.Int64Counter
}

// ObservabilityManager manages OpenTelemetry setup
type ObservabilityManager struct {
	config           ObservabilityConfig
	fullConfig       *config.Config
	resource         *resource.Resource
	tracerProvider   *trace.TracerProvider
	meterProvider    *sdkmetric.MeterProvider
	metrics          *Metrics
	shutdownFuncs    []func(context.Context) error
	extraReaders     []sdkmetric.Reader
	prometheusServer *http.Server
}

// NewObservabilityManager creates a new observability manager
func NewObservabilityManager(obsConfig ObservabilityConfig, fullConfig *config.Config) (*ObservabilityManager, error) {
	if !obsConfig.Enabled {
		return &ObservabilityManager{config: obsConfig, fullConfig: fullConfig}, nil
	}

	om := &ObservabilityManager{
		config:        obsConfig,
		fullConfig:    fullConfig,
		shutdownFuncs: make([]func(context.Context) error, 0),
	}

	if err := om.initResource(); err != nil {
		return nil, fmt.Errorf("failed to initialize resource: %w", err)
	}

	if err := om.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := om.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return om, nil
}

// initResource creates the OpenTelemetry resource shared by traces and metrics
func (om *ObservabilityManager) initResource() error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(om.config.ServiceName),
			semconv.ServiceVersion(om.config.ServiceVersion),
			attribute.String("service.instance.id", om.getServiceInstanceID()),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	om.resource = res
	return nil
}

// initTracing sets up OpenTelemetry tracing
func (om *ObservabilityManager) initTracing() error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case om.config.ConsoleOutput:
		opts := []stdouttrace.Option{}
		if om.config.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case om.fullConfig != nil && om.fullConfig.Observability.OTLP.Enabled:
		exporter, err = om.createOTLPExporter()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(om.resource),
		trace.WithSampler(trace.TraceIDRatioBased(om.config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

// initMetrics sets up OpenTelemetry metrics
func (om *ObservabilityManager) initMetrics() error {
	readers, err := om.setupMetricReaders()
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{}
	if om.resource != nil {
		opts = append(opts, sdkmetric.WithResource(om.resource))
	}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)

	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	return om.initCustomMetrics()
}

// setupMetricReaders sets up all metric readers based on configuration
func (om *ObservabilityManager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	readers := append([]sdkmetric.Reader{}, om.extraReaders...)

	if err := om.setupConsoleReader(&readers); err != nil {
		return nil, err
	}

	if err := om.setupOTLPReader(&readers); err != nil {
		return nil, err
	}

	if err := om.setupPrometheusReader(&readers); err != nil {
		return nil, err
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	return readers, nil
}

// setupConsoleReader sets up console metric reader if enabled
func (om *ObservabilityManager) setupConsoleReader(readers *[]sdkmetric.Reader) error {
	if !om.config.ConsoleOutput {
		return nil
	}

	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("failed to create console metric exporter: %w", err)
	}

	interval := om.getMetricsCollectionInterval()
	*readers = append(*readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	return nil
}

// setupOTLPReader sets up OTLP metric reader if enabled
func (om *ObservabilityManager) setupOTLPReader(readers *[]sdkmetric.Reader) error {
	if om.fullConfig == nil || !om.fullConfig.Observability.OTLP.Enabled {
		return nil
	}

	otlpReader, err := om.createOTLPMetricsReader()
	if err != nil {
		return fmt.Errorf("failed to create OTLP metrics reader: %w", err)
	}
	*readers = append(*readers, otlpReader)
	return nil
}

// setupPrometheusReader sets up Prometheus metric reader if enabled
func (om *ObservabilityManager) setupPrometheusReader(readers *[]sdkmetric.Reader) error {
	if !om.config.Prometheus.Enabled {
		return nil
	}

	prometheusReader, prometheusMux, err := SetupPrometheusExporter(om.config.Prometheus)
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	if prometheusReader == nil {
		return nil
	}

	*readers = append(*readers, prometheusReader)
	om.prometheusServer = StartPrometheusServer(prometheusMux, om.config.Prometheus.Port)
	if om.prometheusServer != nil {
		om.shutdownFuncs = append(om.shutdownFuncs, om.prometheusServer.Shutdown)
	}
	return nil
}

// initCustomMetrics creates all custom metrics for prepscore
func (om *ObservabilityManager) initCustomMetrics() error {
	meter := om.meterProvider.Meter(om.config.ServiceName)
	om.metrics = &Metrics{}

	if err := om.createScoringMetrics(meter); err != nil {
		return err
	}

	if err := om.createBusinessMetrics(meter); err != nil {
		return err
	}

	return om.createInfrastructureMetrics(meter)
}

// createScoringMetrics creates per-operation timing metrics
func (om *ObservabilityManager) createScoringMetrics(meter metric.Meter) error {
	var err error

	om.metrics.ScoringDuration, err = meter.Float64Histogram(
		"prepscore_scoring_duration_seconds",
		metric.WithDescription("Time spent in scoring operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create scoring duration metric: %w", err)
	}

	om.metrics.ScoringErrors, err = meter.Int64Counter(
		"prepscore_scoring_errors_total",
		metric.WithDescription("Total number of failed scoring operations"),
	)
	if err != nil {
		return fmt.Errorf("failed to create scoring error metric: %w", err)
	}

	return nil
}

// createBusinessMetrics creates counters and score distributions
func (om *ObservabilityManager) createBusinessMetrics(meter metric.Meter) error {
	var err error

	om.metrics.AnswersEvaluated, err = meter.Int64Counter(
		"prepscore_answers_evaluated_total",
		metric.WithDescription("Total number of interview answers evaluated"),
	)
	if err != nil {
		return fmt.Errorf("failed to create answers evaluated metric: %w", err)
	}

	om.metrics.ResumesAnalyzed, err = meter.Int64Counter(
		"prepscore_resumes_analyzed_total",
		metric.WithDescription("Total number of resumes scored for ATS compatibility"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resumes analyzed metric: %w", err)
	}

	om.metrics.ResumesExtracted, err = meter.Int64Counter(
		"prepscore_resumes_extracted_total",
		metric.WithDescription("Total number of resumes parsed into structured information"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resumes extracted metric: %w", err)
	}

	scoreBuckets := metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100)

	om.metrics.AnswerScore, err = meter.Int64Histogram(
		"prepscore_answer_score",
		metric.WithDescription("Distribution of overall answer scores"),
		scoreBuckets,
	)
	if err != nil {
		return fmt.Errorf("failed to create answer score metric: %w", err)
	}

	om.metrics.ATSScore, err = meter.Int64Histogram(
		"prepscore_ats_score",
		metric.WithDescription("Distribution of ATS compatibility scores"),
		scoreBuckets,
	)
	if err != nil {
		return fmt.Errorf("failed to create ATS score metric: %w", err)
	}

	return nil
}

// createInfrastructureMetrics creates lexicon and rate limiting metrics
func (om *ObservabilityManager) createInfrastructureMetrics(meter metric.Meter) error {
	var err error

	om.metrics.LexiconReloads, err = meter.Int64Counter(
		"prepscore_lexicon_reloads_total",
		metric.WithDescription("Total number of lexicon reload attempts"),
	)
	if err != nil {
		return fmt.Errorf("failed to create lexicon reload metric: %w", err)
	}

	om.metrics.RateLimitHits, err = meter.Int64Counter(
		"prepscore_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return nil
}

// GetMetrics returns the metrics instance
func (om *ObservabilityManager) GetMetrics() *Metrics {
	if om == nil || om.metrics == nil {
		return &Metrics{}
	}
	return om.metrics
}

// HTTPMiddleware returns HTTP middleware with OpenTelemetry instrumentation
func (om *ObservabilityManager) HTTPMiddleware() func(http.Handler) http.Handler {
	if om == nil || !om.config.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	return otelhttp.NewMiddleware(
		om.config.ServiceName,
		otelhttp.WithTracerProvider(om.tracerProvider),
		otelhttp.WithMeterProvider(om.meterProvider),
	)
}

// Tracer returns a tracer for the service
func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if om == nil || !om.config.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return om.tracerProvider.Tracer(name)
}

// Shutdown gracefully shuts down all observability components
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	if om == nil {
		return nil
	}
	for _, shutdown := range om.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// TrackScoringOperation runs fn inside a span and records its duration and
// outcome
func (m *Metrics) TrackScoringOperation(ctx context.Context, operation string, fn func(context.Context) error) error {
	tracer := otel.Tracer("prepscore.scoring")
	ctx, span := tracer.Start(ctx, "scoring."+operation)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start).Seconds()

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	span.SetAttributes(attrs...)

	if m != nil && m.ScoringDuration != nil {
		m.ScoringDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
		if m != nil && m.ScoringErrors != nil {
			m.ScoringErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	}

	return err
}

// RecordAnswerEvaluated counts an evaluated answer and records its score
func (m *Metrics) RecordAnswerEvaluated(ctx context.Context, questionType string, score int) {
	if m == nil || m.AnswersEvaluated == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("question_type", questionType))
	m.AnswersEvaluated.Add(ctx, 1, attrs)
	m.AnswerScore.Record(ctx, int64(score), attrs)
}

// RecordResumeAnalyzed counts an ATS analysis and records its score
func (m *Metrics) RecordResumeAnalyzed(ctx context.Context, jobType string, score int) {
	if m == nil || m.ResumesAnalyzed == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("job_type", jobType))
	m.ResumesAnalyzed.Add(ctx, 1, attrs)
	m.ATSScore.Record(ctx, int64(score), attrs)
}

// RecordResumeExtracted counts a resume information extraction
func (m *Metrics) RecordResumeExtracted(ctx context.Context) {
	if m == nil || m.ResumesExtracted == nil {
		return
	}
	m.ResumesExtracted.Add(ctx, 1)
}

// RecordLexiconReload counts a lexicon reload attempt
func (m *Metrics) RecordLexiconReload(ctx context.Context, success bool) {
	if m == nil || m.LexiconReloads == nil {
		return
	}
	m.LexiconReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// RecordRateLimitHit counts a rejected request
func (m *Metrics) RecordRateLimitHit(ctx context.Context, limitType string) {
	if m == nil || m.RateLimitHits == nil {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limit_type", limitType)))
}

// No-op exporter used when no trace exporter is configured
type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

// createOTLPExporter creates an OTLP HTTP trace exporter
func (om *ObservabilityManager) createOTLPExporter() (trace.SpanExporter, error) {
	otlpConfig := om.fullConfig.Observability.OTLP

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

// createOTLPMetricsReader creates an OTLP HTTP metrics reader
func (om *ObservabilityManager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	otlpConfig := om.fullConfig.Observability.OTLP

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	interval := om.getMetricsCollectionInterval()
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)), nil
}

// getServiceInstanceID returns the service instance ID from config
func (om *ObservabilityManager) getServiceInstanceID() string {
	if om.fullConfig != nil && om.fullConfig.Observability.ServiceInstance != "" {
		return om.fullConfig.Observability.ServiceInstance
	}
	return om.config.ServiceName + "-1"
}

// getMetricsCollectionInterval returns the configured metrics collection interval
func (om *ObservabilityManager) getMetricsCollectionInterval() time.Duration {
	if om.fullConfig != nil && om.fullConfig.Observability.Metrics.CollectionInterval > 0 {
		return om.fullConfig.Observability.Metrics.CollectionInterval
	}
	return 15 * time.Second
}
