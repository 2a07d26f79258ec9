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

// Package creditcode resolves organization names to their unified social
// credit code through the creditchina catalog search.
package creditcode

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/cardinalhq/cgd/internal/lookup"
	"github.com/cardinalhq/cgd/internal/webclient"
)

const (
	DefaultEndpoint = "https://public.creditchina.gov.cn/private-api/catalogSearch"
	referrer        = "https://www.creditchina.gov.cn/"

	// statusOK is the only status value the search reports for a good answer.
	statusOK = 1
)

var ErrNoMatch = errors.New("no match")

type Config struct {
	Endpoint string `mapstructure:"endpoint"`
}

func DefaultConfig() Config {
	return Config{Endpoint: DefaultEndpoint}
}

// Resolver looks up one name per call. With StrictName set, the best match
// must carry exactly the queried name.
type Resolver struct {
	client     *webclient.Client
	endpoint   string
	strictName bool
}

var _ lookup.Resolver[string] = (*Resolver)(nil)

func NewResolver(client *webclient.Client, cfg Config, strictName bool) *Resolver {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Resolver{
		client:     client,
		endpoint:   endpoint,
		strictName: strictName,
	}
}

type searchResponse struct {
	Status int `json:"status"`
	Data   struct {
		List []struct {
			Name string `json:"jgmc"`
			Code string `json:"tyshxydm"`
		} `json:"list"`
	} `json:"data"`
}

func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	params := url.Values{
		"keyword":     {name},
		"scenes":      {"defaultscenario"},
		"tableName":   {"credit_xyzx_tyshxydm"},
		"searchState": {"2"},
		"entityType":  {"1,2,4,5,6,7,8"},
		"page":        {"1"},
		"pageSize":    {"1"},
	}

	var resp searchResponse
	if err := r.client.GetJSON(ctx, r.endpoint, params, referrer, &resp); err != nil {
		return "", err
	}

	if resp.Status != statusOK {
		return "", fmt.Errorf("unexpected status %d", resp.Status)
	}
	if len(resp.Data.List) == 0 {
		return "", ErrNoMatch
	}

	best := resp.Data.List[0]
	if r.strictName && best.Name != name {
		return "", fmt.Errorf("name mismatch, best match is %q", best.Name)
	}
	if best.Code == "" {
		return "", fmt.Errorf("best match %q has no credit code", best.Name)
	}
	return best.Code, nil
}
