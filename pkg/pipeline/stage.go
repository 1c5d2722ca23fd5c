// Package pipeline holds the stage abstraction and the data model shared by
// the compositing stages.
package pipeline

import (
	"context"
)

// Stage is one step of a composition. Implementations must not retain or
// mutate their input and must honor ctx cancellation before heavy work.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc adapts a plain function, typically a stub in tests, to Stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute calls f.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}
