// Package waterfall resolves contact fields by querying ordered provider
// chains until one yields an acceptable value.
package waterfall

import (
	"context"

	"go.uber.org/zap"
)

// Source yields hits for one tier of a cascade.
type Source[T any] struct {
	Name  string
	Fetch func(ctx context.Context) ([]T, error)
}

// Result is the outcome of running a cascade.
type Result[T any] struct {
	// Primary is the first accepted hit, nil when no source produced one.
	Primary *T
	// Source names the provider that produced Primary.
	Source string
	// All collects every hit from the sources that ran, including ones
	// that were not accepted as primary.
	All []T
}

// First runs sources in order and stops after the first source that yields
// an accepted hit. Source errors are logged and skipped; a failing provider
// must never abort the cascade.
func First[T any](ctx context.Context, sources []Source[T], accept func(T) bool) Result[T] {
	var res Result[T]
	for _, src := range sources {
		hits, err := src.Fetch(ctx)
		if err != nil {
			zap.L().Warn("waterfall source failed",
				zap.String("source", src.Name),
				zap.Error(err))
			continue
		}
		res.All = append(res.All, hits...)
		for i := range hits {
			if accept(hits[i]) {
				res.Primary = &hits[i]
				res.Source = src.Name
				break
			}
		}
		if res.Primary != nil {
			return res
		}
	}
	return res
}
