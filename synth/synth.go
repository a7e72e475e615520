// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package synth synthesizes business-like records from declarative dataset
// specifications.
//
// Rows are produced in fixed-size shards; shard k draws from the k-th
// stream of the seed, so the output depends only on the seed, the
// specification and the row count, never on the number of workers.
package synth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/sourcegraph/conc/pool"

	"github.com/UNO-SOFT/fixture"
)

const (
	// DefaultShardSize is the number of rows drawn from one stream.
	DefaultShardSize = 1024
	checkEvery       = 256
)

// Synthesizer generates rows of compiled datasets.
type Synthesizer struct {
	seed      fixture.Seed
	workers   int
	shardSize int
	logger    *slog.Logger
	progress  func(done, total int)
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithWorkers bounds the number of concurrently generated shards.
func WithWorkers(n int) Option { return func(s *Synthesizer) { s.workers = n } }

// WithShardSize sets the shard size. Changing it changes the generated rows.
func WithShardSize(n int) Option { return func(s *Synthesizer) { s.shardSize = n } }

// WithLogger sets the logger, which is discarding by default.
func WithLogger(lgr *slog.Logger) Option { return func(s *Synthesizer) { s.logger = lgr } }

// WithProgress sets a callback called after each finished shard with the
// number of rows done so far. It may be called from several goroutines,
// but never concurrently.
func WithProgress(f func(done, total int)) Option { return func(s *Synthesizer) { s.progress = f } }

// New returns a Synthesizer drawing from seed.
func New(seed fixture.Seed, opts ...Option) *Synthesizer {
	s := &Synthesizer{seed: seed}
	for _, o := range opts {
		o(s)
	}
	if s.workers <= 0 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	if s.shardSize <= 0 {
		s.shardSize = DefaultShardSize
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Synthesize compiles spec and returns its header row followed by n data rows.
func (s *Synthesizer) Synthesize(ctx context.Context, spec DatasetSpec, n int) ([]fixture.Row, error) {
	ds, err := Compile(spec)
	if err != nil {
		return nil, err
	}
	return s.Generate(ctx, ds, n)
}

// Generate returns the header row of ds followed by n data rows.
//
// A cancelled ctx stops the generation with ctx's error.
func (s *Synthesizer) Generate(ctx context.Context, ds *Dataset, n int) ([]fixture.Row, error) {
	if n < 0 {
		return nil, fixture.NewConfigError(ds.Name+".rows", "negative row count %d", n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	shardCount := (n + s.shardSize - 1) / s.shardSize
	shards := make([][]fixture.Row, shardCount)
	logger := s.logger.With("dataset", ds.Name)
	logger.Debug("synthesize", "rows", n, "shards", shardCount, "workers", s.workers)
	start := time.Now()

	var mu sync.Mutex
	var done int
	p := pool.New().WithMaxGoroutines(s.workers).WithContext(ctx).WithFirstError().WithCancelOnError()
	for k := range shardCount {
		p.Go(func(ctx context.Context) error {
			first := k * s.shardSize
			count := min(s.shardSize, n-first)
			rows, err := ds.shard(ctx, s.seed.Named(ds.Name, uint64(k)), first, count)
			if err != nil {
				return err
			}
			shards[k] = rows
			if s.progress != nil {
				mu.Lock()
				done += count
				s.progress(done, n)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	rows := make([]fixture.Row, 0, n+1)
	rows = append(rows, ds.Header())
	for _, shard := range shards {
		rows = append(rows, shard...)
	}
	logger.Debug("synthesized", "rows", n, "dur", time.Since(start).String())
	return rows, nil
}

// shard generates count rows starting with the global row index first.
func (ds *Dataset) shard(ctx context.Context, rng *rand.Rand, first, count int) ([]fixture.Row, error) {
	rows := make([]fixture.Row, 0, count)
	env := make(map[string]any, len(ds.cols))
	for i := range count {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := ds.row(rng, first+i, env)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (ds *Dataset) row(rng *rand.Rand, idx int, env map[string]any) (fixture.Row, error) {
	clear(env)
	values := make([]any, len(ds.cols))
	for i := range ds.cols {
		c := &ds.cols[i]
		v, err := c.draw(rng, idx, values, env)
		if err != nil {
			return nil, fixture.NewConfigError(ds.Name+"."+c.Key, "row %d: %v", idx+1, err)
		}
		values[i] = v
		env[c.Key] = v
	}
	for i := range ds.cols {
		c := &ds.cols[i]
		if c.emptyWhen == nil {
			continue
		}
		out, err := expr.Run(c.emptyWhen, env)
		if err != nil {
			return nil, fixture.NewConfigError(ds.Name+"."+c.Key+".emptyWhen", "row %d: %v", idx+1, err)
		}
		if b, _ := out.(bool); b {
			values[i] = nil
		}
	}
	row := make(fixture.Row, 0, len(ds.header))
	for i := range ds.cols {
		c := &ds.cols[i]
		if c.Hidden {
			continue
		}
		cell, err := toCell(values[i], c.Format)
		if err != nil {
			return nil, fixture.NewConfigError(ds.Name+"."+c.Key, "row %d: %v", idx+1, err)
		}
		row = append(row, cell)
	}
	return row, nil
}

// draw returns the value of the column for the row idx.
// Every kind but Expr consumes a fixed number of draws from rng.
func (c *column) draw(rng *rand.Rand, idx int, values []any, env map[string]any) (any, error) {
	switch c.Kind {
	case Sequence:
		v := c.Start + int64(idx)*c.Step
		if c.Template != "" {
			return fmt.Sprintf(c.Template, v), nil
		}
		return v, nil

	case Choice:
		vocab := c.Values
		if c.depIndex >= 0 {
			dep, _ := values[c.depIndex].(string)
			vocab = c.ByValue[dep]
			if len(vocab) == 0 {
				return nil, fmt.Errorf("no vocabulary for %s=%q", c.DependsOn, dep)
			}
		} else if c.Cycle {
			return vocab[idx%len(vocab)], nil
		}
		return fixture.Pick(rng, vocab), nil

	case IntRange:
		return fixture.IntBetween(rng, int(c.Min), int(c.Max)), nil

	case RealRange:
		v := c.Min + rng.Float64()*(c.Max-c.Min)
		if c.scale != 0 {
			v = math.Round(v*c.scale) / c.scale
		}
		return v, nil

	case DateRange:
		days := idx*c.StepDays + fixture.IntBetween(rng, c.MinOffsetDays, c.MaxOffsetDays)
		t := c.base.AddDate(0, 0, days)
		if c.WithTime {
			t = t.Add(time.Duration(rng.IntN(24*60*60)) * time.Second)
		}
		return t, nil

	case DateAfter:
		from, ok := values[c.depIndex].(time.Time)
		if !ok {
			return nil, fmt.Errorf("%s is %T, not a date", c.From, values[c.depIndex])
		}
		return from.AddDate(0, 0, fixture.IntBetween(rng, c.MinDays, c.MaxDays)), nil

	case Bool:
		return rng.Float64() < c.Probability, nil

	case Expr:
		return expr.Run(c.program, env)
	}
	return nil, fmt.Errorf("unknown kind %q", c.Kind)
}
