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

// Package report prints the outcome of a lookup batch.
package report

import (
	"fmt"
	"io"

	"github.com/cardinalhq/cgd/internal/lookup"
)

// Summary holds the counts printed after the per-key lines.
type Summary struct {
	Errors    int
	CacheHits int
	Absent    int
}

// Reporter writes one entry per key in input order.
type Reporter[V any] struct {
	Out io.Writer
	// Format renders a found value for key. It may span several lines.
	Format func(key string, v V) string
	// AbsentText is printed for keys with no record.
	AbsentText string
}

// Report prints keys and their outcomes, then the summary line.
// keys and outcomes must be the same length.
func (r *Reporter[V]) Report(keys []string, outcomes []lookup.Outcome[V]) Summary {
	if len(keys) != len(outcomes) {
		panic(fmt.Sprintf("report: %d keys but %d outcomes", len(keys), len(outcomes)))
	}

	var s Summary
	for i, out := range outcomes {
		key := keys[i]
		switch out.Kind {
		case lookup.KindHit:
			s.CacheHits++
			fmt.Fprintln(r.Out, r.Format(key, out.Value))
		case lookup.KindFresh:
			fmt.Fprintln(r.Out, r.Format(key, out.Value))
		case lookup.KindAbsent:
			s.Absent++
			fmt.Fprintf(r.Out, "%s: %s\n", key, r.AbsentText)
		case lookup.KindFailure:
			s.Errors++
			fmt.Fprintf(r.Out, "error: %s, company: %s\n", out.Reason(), key)
		default:
			panic(fmt.Sprintf("report: unexpected outcome kind %v for %q", out.Kind, key))
		}
	}

	fmt.Fprintf(r.Out, "done: %d errors, %d cache hits\n", s.Errors, s.CacheHits)
	return s
}
