// Package fleet runs many independent backtest Worlds concurrently over
// a bounded worker pool (internal/workers), farming independent units of
// work out to a Pool rather than hand-rolling a goroutine-per-job loop.
// A World is deterministic and single-threaded internally; fleet is the
// only place in this module that introduces concurrency, and it never
// shares a World across goroutines.
package fleet

import (
	"context"
	"fmt"
	"sync"

	"github.com/atlas-desktop/backtest-engine/internal/engine"
	"github.com/atlas-desktop/backtest-engine/internal/obs"
	"github.com/atlas-desktop/backtest-engine/internal/workers"
	"github.com/atlas-desktop/backtest-engine/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Job is one World ready to run, plus the identity it should be run
// under and reported back with.
type Job struct {
	RunID string
	World *engine.World
}

// Result pairs a Job's RunID with its outcome. Err is nil on success.
type Result struct {
	RunID string
	Err   error
}

// Fleet drives a bounded-concurrency batch of backtest runs. It wraps a
// workers.Pool sized for CPU-bound work (each World.Run is pure
// computation, no I/O) using HighThroughputPoolConfig rather than the
// I/O-biased default.
type Fleet struct {
	pool   *workers.Pool
	logger *zap.Logger
}

// New builds a Fleet with concurrency workers. concurrency <= 0 uses the
// HighThroughputPoolConfig default (4x NumCPU).
func New(logger *zap.Logger, concurrency int) *Fleet {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := workers.HighThroughputPoolConfig("backtest-fleet")
	if concurrency > 0 {
		cfg.NumWorkers = concurrency
	}
	pool := workers.NewPool(logger, cfg)
	pool.Start()
	return &Fleet{pool: pool, logger: logger}
}

// Run submits every job to the pool and blocks until all have completed
// or ctx is cancelled. Results are returned in the same order as jobs,
// not completion order.
func (f *Fleet) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	wg.Add(len(jobs))

	for i, job := range jobs {
		i, job := i, job
		if job.RunID == "" {
			job.RunID = utils.NewRunID("run")
		}
		task := workers.TaskFunc(func() error {
			defer wg.Done()
			err := job.World.Run(ctx)
			results[i] = Result{RunID: job.RunID, Err: err}
			return err
		})
		if err := f.pool.Submit(task); err != nil {
			wg.Done()
			results[i] = Result{RunID: job.RunID, Err: fmt.Errorf("fleet: submit %s: %w", job.RunID, err)}
		}
	}

	wg.Wait()
	return results
}

// Stats exposes the underlying pool's throughput and latency counters,
// grounded on workers.PoolStats.
func (f *Fleet) Stats() workers.PoolStats { return f.pool.Stats() }

// Registry returns the Prometheus registry backing every World this
// fleet runs; callers mount it on whatever HTTP handler they want.
func (f *Fleet) Registry() *prometheus.Registry { return obs.Registry() }

// Close stops the underlying pool. It does not wait for runs still in
// progress; Run has already waited for every run it submitted.
func (f *Fleet) Close() error { return f.pool.Stop() }
