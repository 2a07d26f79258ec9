// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package lookup resolves batches of names concurrently against a pluggable
// Resolver, serving and refreshing results through an optional Cache.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/cardinalhq/cgd/internal/idgen"
	"github.com/cardinalhq/cgd/internal/logctx"
)

// Engine runs batches of keys through a Resolver.
type Engine[V any] struct {
	resolver Resolver[V]
	cache    Cache[V]
	progress Progress
	opts     Options
}

// New creates an Engine. A nil cache disables both cache reads and writes;
// a nil progress discards progress events.
func New[V any](resolver Resolver[V], cache Cache[V], progress Progress, opts Options) *Engine[V] {
	if progress == nil {
		progress = noProgress{}
	}
	if cache == nil {
		opts.ReadCache = false
		opts.WriteCache = false
	}
	return &Engine[V]{
		resolver: resolver,
		cache:    cache,
		progress: progress,
		opts:     opts,
	}
}

// Run resolves every key and returns one outcome per key, in input order.
//
// Per-key failures are reported in the outcomes and never stop the batch.
// The returned error is non-nil only when fresh results could not be written
// to the cache; the outcomes are complete in that case as well.
func (e *Engine[V]) Run(ctx context.Context, keys []string) ([]Outcome[V], error) {
	batchID := idgen.NextBatchID()
	ctx = logctx.WithAttrs(ctx, slog.String("batchID", batchID))
	logger := logctx.FromContext(ctx)

	logger.Debug("Starting lookup batch",
		slog.Int("keys", len(keys)),
		slog.Int("concurrency", e.opts.concurrency()),
		slog.Bool("readCache", e.opts.ReadCache),
		slog.Bool("writeCache", e.opts.WriteCache))

	outcomes := make([]Outcome[V], len(keys))

	var (
		mu       sync.Mutex
		writeErr *multierror.Error
	)

	var g errgroup.Group
	g.SetLimit(e.opts.concurrency())

	for i, key := range keys {
		g.Go(func() error {
			defer e.progress.Increment()

			out := e.resolveOne(ctx, key)
			outcomes[i] = out
			recordOutcome(ctx, out.Kind)

			if out.Kind == KindFresh && e.opts.WriteCache {
				if err := e.cache.Put(key, out.Value); err != nil {
					recordCacheWriteFailure(ctx)
					logger.Error("Failed to persist lookup result",
						slog.String("key", key),
						slog.Any("error", err))
					mu.Lock()
					writeErr = multierror.Append(writeErr, err)
					mu.Unlock()
				}
			}
			return nil
		})
	}

	// Tasks never return errors; failures live in the outcomes.
	_ = g.Wait()

	return outcomes, writeErr.ErrorOrNil()
}

func (e *Engine[V]) resolveOne(ctx context.Context, key string) Outcome[V] {
	if e.opts.ReadCache {
		if v, ok := e.cache.Get(key); ok {
			return Hit(v)
		}
	}

	if err := ctx.Err(); err != nil {
		return Failure[V](fmt.Errorf("batch cancelled: %w", err))
	}

	ctx, span := tracer.Start(ctx, "lookup.resolve")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	v, err := e.resolver.Resolve(ctx, key)

	var out Outcome[V]
	switch {
	case err == nil:
		out = Fresh(v)
	case errors.Is(err, ErrNoRecord):
		out = Absent[V]()
	default:
		if e.opts.Timeout > 0 && errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
			err = fmt.Errorf("timed out after %s: %w", e.opts.Timeout, err)
		}
		out = Failure[V](err)
		span.SetStatus(codes.Error, err.Error())
		logctx.FromContext(ctx).Debug("Lookup failed",
			slog.String("key", key),
			slog.Any("error", err))
	}

	recordResolveDuration(ctx, start, out.Kind)
	span.SetAttributes(attribute.String("outcome", out.Kind.String()))
	return out
}
