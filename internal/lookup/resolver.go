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
	"errors"
)

// ErrNoRecord is returned (possibly wrapped) by a Resolver when the remote
// service has no record for the key. It maps to KindAbsent rather than a
// failure.
var ErrNoRecord = errors.New("no record")

// Resolver looks up a single key against one data source.
//
// Implementations are called concurrently for different keys and must not
// share mutable state between calls other than their read-only settings.
type Resolver[V any] interface {
	Resolve(ctx context.Context, key string) (V, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc[V any] func(ctx context.Context, key string) (V, error)

func (f ResolverFunc[V]) Resolve(ctx context.Context, key string) (V, error) {
	return f(ctx, key)
}

// Cache is the persistent key to value mapping consulted by the engine.
// Put must persist before returning.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Put(key string, value V) error
}

// Progress receives one Increment per completed key, in completion order.
type Progress interface {
	Increment()
}

type noProgress struct{}

func (noProgress) Increment() {}
