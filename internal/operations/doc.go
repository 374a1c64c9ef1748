// Package operations runs the report as an explicit, ordered list of steps.
//
// Each Step receives the dataset produced by the steps before it and returns
// a StepOutput holding an optional replacement dataset, the artifacts it
// produced and metadata for the manifest. Datasets are immutable values, so a
// step never observes another step's in-place changes.
//
// Core Components:
//
// Manager: runs the registered steps sequentially on the calling goroutine.
// Each step gets its own timeout, trace span and manifest entry. The first
// failure stops the run and the remaining steps are recorded as skipped.
//
// Registry: holds the steps in registration order, which is execution order.
//
// ArtifactSink: receives each step's artifacts as soon as the step completes.
// The console, CSV and workbook exporters are sinks.
//
// PipelineManifest: the JSON record of a run, written next to the report.
//
// Example usage:
//
//	registry, err := operations.NewPipelineRegistry(operations.DefaultStageConfig(), logger)
//	if err != nil {
//		return err
//	}
//	manager := operations.NewManager(registry, operations.NewConfig(), sink, tracer, logger)
//	result, err := manager.Execute(ctx, operations.RunRequest{})
package operations
