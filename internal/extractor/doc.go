// Package extractor turns a linked metadata model into a documentation
// payload.
//
// Every type and delegate of the loaded scopes is visited once, nested
// types included. A member is emitted when it has documentation of its own;
// a type is emitted when it has documentation or at least one emitted
// member. Emitted records are grouped by namespace (types without one go
// under types.GlobalNamespace) and sorted by identifier, so output does not
// depend on scheduling.
//
// # Concurrency
//
// Types are rendered by a bounded worker pool:
//
//	semaphore := make(chan struct{}, workers)
//	g, gctx := errgroup.WithContext(ctx)
//
// Rendering is pure. Shared state is limited to atomic counters and the
// mutex-guarded namespace map.
//
// # Failures
//
// An entity whose declaration or documentation fails to render, or whose
// rendering panics, is logged, counted in Statistics.EntitiesFailed and
// skipped. A failing member drops only that member. The run itself fails
// only when the model has no scopes or the context is cancelled.
//
// # Basic Usage
//
//	x := extractor.New(extractor.WithLogger(logger))
//	payload, stats, err := x.Extract(ctx, model, &extractor.Config{
//	    Workers:            8,
//	    ValidateReferences: true,
//	})
package extractor
