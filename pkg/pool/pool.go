// Package pool runs one engine phase as a bounded fan-out/fan-in barrier.
//
// Every item is processed, individual failures are collected rather than
// cancelling peers, and results are returned in completion order. Callers
// that depend on file order must re-sort the results.
package pool

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/timeaxis/pkg/constants"
	"github.com/agentstation/timeaxis/pkg/logging"
)

// Config sizes and labels a phase.
type Config struct {
	// Jobs is the number of concurrent workers. Values below one select
	// constants.DefaultJobs; values above constants.MaxJobs are capped.
	Jobs int

	// Phase names the phase in progress logs.
	Phase string

	// Logger receives progress. Nil selects the context logger.
	Logger *zerolog.Logger
}

// Workers returns the effective worker count.
func (c Config) Workers() int {
	switch {
	case c.Jobs < 1:
		return constants.DefaultJobs
	case c.Jobs > constants.MaxJobs:
		return constants.MaxJobs
	default:
		return c.Jobs
	}
}

// Result is the outcome of one item.
type Result[T, R any] struct {
	Item  T
	Value R
	Err   error
}

// Run applies fn to every item using at most cfg.Workers() goroutines and
// returns once all items are done. Items not yet started when ctx is
// cancelled are returned with ctx.Err().
func Run[T, R any](ctx context.Context, cfg Config, items []T, fn func(context.Context, T) (R, error)) []Result[T, R] {
	if cfg.Logger != nil {
		ctx = logging.WithLogger(ctx, cfg.Logger)
	}
	ctx = logging.WithPhase(ctx, cfg.Phase)
	log := logging.FromContext(ctx)
	total := len(items)
	results := make([]Result[T, R], 0, total)
	if total == 0 {
		return results
	}

	log.Info().
		Int("total", total).
		Int("jobs", cfg.Workers()).
		Msg("Phase started")

	var (
		mu       sync.Mutex
		failures int
	)
	var g errgroup.Group
	g.SetLimit(cfg.Workers())

	for _, item := range items {
		g.Go(func() error {
			var r Result[T, R]
			r.Item = item
			if err := ctx.Err(); err != nil {
				r.Err = err
			} else {
				r.Value, r.Err = fn(ctx, item)
			}

			mu.Lock()
			results = append(results, r)
			done := len(results)
			if r.Err != nil {
				failures++
			}
			mu.Unlock()

			log.Debug().
				Int("done", done).
				Int("total", total).
				Err(r.Err).
				Msg("Task finished")
			return nil
		})
	}
	_ = g.Wait()

	log.Info().
		Int("done", len(results)).
		Int("total", total).
		Int("failures", failures).
		Msg("Phase complete")
	return results
}

// Errors returns the failed results.
func Errors[T, R any](results []Result[T, R]) []Result[T, R] {
	var out []Result[T, R]
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
