// Package report is the frozen C9 contract: a Report Writer runs once
// discovery terminates and receives the run's Summary. Rendering
// backends (spreadsheet, Visio) are explicitly out of scope (spec §1); this
// package only defines the interface a future renderer implements and a
// no-op writer satisfying it, following the teacher's pattern of declaring a
// narrow consumer interface ahead of an unimplemented backend
// (pkg/discovery/interfaces.go's forward-declared service interfaces).
package report

import (
	"context"

	"github.com/lumatek/netwalk/pkg/discovery"
)

// Writer consumes a finished discovery run's Summary. The walked/observed
// device set and the adjacency graph are not passed to it; they remain in the
// inventory Store. Implementations (spreadsheet export, Visio rendering, ...)
// are out of scope for this repository.
type Writer interface {
	Write(ctx context.Context, summary discovery.Summary) error
}

// NoopWriter discards the report. It exists so cmd/netwalk has something to
// call without depending on an unimplemented rendering backend.
type NoopWriter struct{}

func (NoopWriter) Write(context.Context, discovery.Summary) error {
	return nil
}
