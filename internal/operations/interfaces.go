package operations

import (
	"context"

	"ecomreport/pkg/contracts/domain"
)

// ArtifactSink receives the artifacts of each stage as soon as the stage
// completes. Sinks are called in stage order from the pipeline goroutine.
type ArtifactSink interface {
	Emit(ctx context.Context, stageID string, artifacts []domain.Artifact) error
}

// ArtifactSinkFunc adapts a function to ArtifactSink
type ArtifactSinkFunc func(ctx context.Context, stageID string, artifacts []domain.Artifact) error

// Emit calls f
func (f ArtifactSinkFunc) Emit(ctx context.Context, stageID string, artifacts []domain.Artifact) error {
	return f(ctx, stageID, artifacts)
}

// MultiSink fans artifacts out to several sinks, stopping at the first error
type MultiSink []ArtifactSink

// Emit hands artifacts to every sink in order
func (m MultiSink) Emit(ctx context.Context, stageID string, artifacts []domain.Artifact) error {
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Emit(ctx, stageID, artifacts); err != nil {
			return err
		}
	}
	return nil
}
