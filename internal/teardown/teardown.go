// Package teardown removes every trace of a session credential on logout.
// Each location is cleared independently; one failing never stops the rest.
package teardown

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tendant/simple-ats/internal/metrics"
	"github.com/tendant/simple-ats/pkg/domain"
	"go.uber.org/zap"
)

// Target is the request being served and the response that will carry the
// clearing instructions back to the browser.
type Target struct {
	Request *http.Request
	Writer  http.ResponseWriter
}

// Location is one place a credential can live.
type Location interface {
	Name() string
	Clear(ctx context.Context, t Target) error
}

// Routine clears a fixed, ordered list of locations.
type Routine struct {
	locations []Location
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// New creates a routine. logger and m may be nil.
func New(logger *zap.Logger, m *metrics.Metrics, locations ...Location) *Routine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Routine{locations: locations, logger: logger.Named("teardown"), metrics: m}
}

// Run attempts every location and reports whether all of them succeeded.
// It never panics and never returns an error; failures are logged.
func (r *Routine) Run(ctx context.Context, t Target) bool {
	failure := &domain.TeardownPartialFailure{}
	for _, loc := range r.locations {
		if err := clearSafely(ctx, loc, t); err != nil {
			failure.Add(loc.Name(), err)
		}
	}

	complete := !failure.HasFailures()
	r.metrics.Teardown(complete)
	if !complete {
		r.logger.Warn("credential teardown incomplete", zap.Error(failure))
	}
	return complete
}

func clearSafely(ctx context.Context, loc Location, t Target) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return loc.Clear(ctx, t)
}
