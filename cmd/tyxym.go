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
	"github.com/spf13/cobra"

	"github.com/cardinalhq/cgd/config"
	"github.com/cardinalhq/cgd/internal/report"
	"github.com/cardinalhq/cgd/internal/resolver/creditcode"
	"github.com/cardinalhq/cgd/internal/webclient"
)

func newTyxymCmd(c *cli) *cobra.Command {
	var (
		flags      batchFlags
		strictName bool
	)

	cmd := &cobra.Command{
		Use:     "tyxym [names]",
		Aliases: []string{"credit-code"},
		Short:   "Look up unified social credit codes",
		Long:    `Look up the unified social credit code of each company on creditchina.gov.cn. Codes are cached by company name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := flags.names(args)
			if err != nil {
				return err
			}

			resolver := creditcode.NewResolver(webclient.New(c.cfg.HTTP), c.cfg.CreditChina, strictName)
			reporter := &report.Reporter[string]{
				Out:        cmd.OutOrStdout(),
				Format:     func(_ string, code string) string { return code },
				AbsentText: "not found",
			}

			return runBatch(cmd.Context(), cmd, c, names, resolver,
				c.cfg.CachePath(config.CreditCodeCacheFile), flags.options(c), reporter)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&strictName, "strict-name", "n", false, "Require the best match to carry exactly the queried name")

	return cmd
}
