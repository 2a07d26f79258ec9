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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/cgd/internal/helpers"
	"github.com/cardinalhq/cgd/internal/lookup"
	"github.com/cardinalhq/cgd/internal/progressbar"
	"github.com/cardinalhq/cgd/internal/report"
	"github.com/cardinalhq/cgd/internal/resultcache"
)

var errNoNames = errors.New("no company names given")

// batchFlags are the input and cache flags shared by the lookup commands.
type batchFlags struct {
	file         string
	sep          string
	noReadCache  bool
	noWriteCache bool
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Look up every company listed in a text file")
	cmd.Flags().StringVarP(&f.sep, "sep", "s", "\n", "Separator between company names")
	cmd.Flags().BoolVarP(&f.noReadCache, "no-read-cache", "R", false, "Do not read the cache file")
	cmd.Flags().BoolVarP(&f.noWriteCache, "no-write-cache", "W", false, "Do not write the cache file")
}

// names returns the query keys from --file, or from the arguments when no
// file is given.
func (f *batchFlags) names(args []string) ([]string, error) {
	var names []string
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return nil, fmt.Errorf("read names file: %w", err)
		}
		names = helpers.SplitNames(string(data), f.sep)
	} else {
		for _, arg := range args {
			names = append(names, helpers.SplitNames(arg, f.sep)...)
		}
	}
	if len(names) == 0 {
		return nil, errNoNames
	}
	return names, nil
}

func (f *batchFlags) options(c *cli) lookup.Options {
	return lookup.Options{
		Config:     c.cfg.Batch,
		ReadCache:  !f.noReadCache,
		WriteCache: !f.noWriteCache,
	}
}

type progressSink interface {
	lookup.Progress
	Stop()
}

// runBatch resolves names, prints the report and returns an error only for
// fatal conditions: an unreadable cache or results that could not be cached.
func runBatch[V any](
	ctx context.Context,
	cmd *cobra.Command,
	c *cli,
	names []string,
	resolver lookup.Resolver[V],
	cachePath string,
	opts lookup.Options,
	reporter *report.Reporter[V],
) error {
	var cache lookup.Cache[V]
	if opts.ReadCache || opts.WriteCache {
		store, err := resultcache.Open[V](cachePath)
		if err != nil {
			return err
		}
		slog.Debug("Opened cache", slog.String("path", cachePath), slog.Int("entries", store.Len()))
		cache = store
	}

	fmt.Fprintf(cmd.OutOrStdout(), "looking up %d companies\n", len(names))

	var bar progressSink = progressbar.Noop{}
	if !c.quiet {
		bar = progressbar.New(cmd.ErrOrStderr(), len(names), "Looking up")
	}

	outcomes, writeErr := lookup.New(resolver, cache, bar, opts).Run(ctx, names)
	bar.Stop()

	summary := reporter.Report(names, outcomes)
	slog.Debug("Batch finished",
		slog.Int("keys", len(names)),
		slog.Int("errors", summary.Errors),
		slog.Int("cacheHits", summary.CacheHits),
		slog.Int("absent", summary.Absent))

	if writeErr != nil {
		return fmt.Errorf("results could not be cached in %s: %w", cachePath, writeErr)
	}
	return nil
}
