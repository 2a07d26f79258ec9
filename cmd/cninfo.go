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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/cgd/config"
	"github.com/cardinalhq/cgd/internal/report"
	"github.com/cardinalhq/cgd/internal/resolver/cninfo"
	"github.com/cardinalhq/cgd/internal/webclient"
)

func newCninfoCmd(c *cli) *cobra.Command {
	var (
		flags      batchFlags
		resultNum  int
		aShareOnly bool
	)

	cmd := &cobra.Command{
		Use:   "cninfo [names]",
		Short: "Look up listed companies and their top ten shareholders",
		Long:  `Search cninfo.com.cn for each company. Listed companies are reported with their stock code and the shareholders of the latest top-ten disclosure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := flags.names(args)
			if err != nil {
				return err
			}

			cfg := c.cfg.CNInfo
			if cmd.Flags().Changed("result-num") {
				cfg.ResultNum = resultNum
			}

			resolver := cninfo.NewResolver(webclient.New(c.cfg.HTTP), cfg, aShareOnly)
			reporter := &report.Reporter[cninfo.Listing]{
				Out:        cmd.OutOrStdout(),
				Format:     formatListing,
				AbsentText: "not a listed company",
			}

			return runBatch(cmd.Context(), cmd, c, names, resolver,
				c.cfg.CachePath(config.CNInfoCacheFile), flags.options(c), reporter)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&resultNum, "result-num", "n", cninfo.DefaultResultNum, "Number of search results to consider")
	cmd.Flags().BoolVarP(&aShareOnly, "a-share-only", "a", true, "Only accept A-share listings")

	return cmd
}

func formatListing(name string, l cninfo.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", name)
	fmt.Fprintf(&b, "stock code: %s\n", l.Code)
	b.WriteString("top shareholders:\n")
	for _, holder := range l.Shareholders {
		fmt.Fprintf(&b, "  %s\n", holder)
	}
	return b.String()
}
