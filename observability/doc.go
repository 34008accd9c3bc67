// Package observability wires OpenTelemetry tracing and metrics into the
// ingestion pipeline.
//
// Export is optional. Without Setup the global providers are no-ops and
// every helper here stays cheap.
//
// Tracing and metrics:
//
//	shutdown, err := observability.Setup(ctx, observability.Config{Enabled: true, ServiceName: "vetta"})
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("vetta"))
//	run := observability.NewRunTracker(runID, metrics)
//	ctx = run.Start(ctx)
//	ctx, stage := run.StartStage(ctx, "connect", observability.SpanConnect)
//	stage.End(ctx, err)
//	run.End(ctx, segments, err)
//
// Health checks:
//
//	health := observability.NewServiceHealth("vetta", version.Version)
//	health.AddProvider(ctx, connector)
package observability
