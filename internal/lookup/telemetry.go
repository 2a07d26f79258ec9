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

package lookup

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("github.com/cardinalhq/cgd/internal/lookup")

	outcomeCounter     metric.Int64Counter
	resolveDuration    metric.Float64Histogram
	cacheWriteFailures metric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/cardinalhq/cgd/internal/lookup")

	var err error

	outcomeCounter, err = meter.Int64Counter(
		"cgd.lookup.outcomes",
		metric.WithDescription("Number of resolved keys by outcome kind"),
	)
	if err != nil {
		log.Fatalf("failed to create lookup.outcomes counter: %v", err)
	}

	resolveDuration, err = meter.Float64Histogram(
		"cgd.lookup.resolve.duration",
		metric.WithUnit("s"),
		metric.WithDescription("The duration in seconds of a single resolver call"),
	)
	if err != nil {
		log.Fatalf("failed to create lookup.resolve.duration histogram: %v", err)
	}

	cacheWriteFailures, err = meter.Int64Counter(
		"cgd.lookup.cache_write_errors",
		metric.WithDescription("Number of fresh results that could not be persisted"),
	)
	if err != nil {
		log.Fatalf("failed to create lookup.cache_write_errors counter: %v", err)
	}
}

func recordOutcome(ctx context.Context, kind Kind) {
	outcomeCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind.String()),
	))
}

func recordResolveDuration(ctx context.Context, start time.Time, kind Kind) {
	resolveDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("kind", kind.String()),
	))
}

func recordCacheWriteFailure(ctx context.Context) {
	cacheWriteFailures.Add(ctx, 1)
}
