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

import "fmt"

// Kind tags how a single key was resolved.
type Kind int

const (
	// KindHit is a value served from the cache without calling the resolver.
	KindHit Kind = iota + 1
	// KindFresh is a value returned by the resolver during this batch.
	KindFresh
	// KindAbsent means the resolver found that no record exists.
	KindAbsent
	// KindFailure means the resolver could not produce an answer.
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindHit:
		return "hit"
	case KindFresh:
		return "fresh"
	case KindAbsent:
		return "absent"
	case KindFailure:
		return "failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the result of resolving one key. Value is only meaningful for
// KindHit and KindFresh, Err only for KindFailure.
type Outcome[V any] struct {
	Kind  Kind
	Value V
	Err   error
}

func Hit[V any](v V) Outcome[V] {
	return Outcome[V]{Kind: KindHit, Value: v}
}

func Fresh[V any](v V) Outcome[V] {
	return Outcome[V]{Kind: KindFresh, Value: v}
}

func Absent[V any]() Outcome[V] {
	return Outcome[V]{Kind: KindAbsent}
}

func Failure[V any](err error) Outcome[V] {
	return Outcome[V]{Kind: KindFailure, Err: err}
}

// Found reports whether the outcome carries a value.
func (o Outcome[V]) Found() bool {
	return o.Kind == KindHit || o.Kind == KindFresh
}

// Reason is the failure text, or "" when the outcome is not a failure.
func (o Outcome[V]) Reason() string {
	if o.Kind != KindFailure || o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
