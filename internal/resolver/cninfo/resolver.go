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

// Package cninfo resolves company names to their stock code and latest
// top-ten shareholder roster using cninfo.com.cn.
package cninfo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"

	"github.com/cardinalhq/cgd/internal/lookup"
	"github.com/cardinalhq/cgd/internal/webclient"
)

const (
	DefaultSearchEndpoint       = "http://www.cninfo.com.cn/new/information/topSearch/query"
	DefaultShareholdersEndpoint = "http://www.cninfo.com.cn/data20/stockholderCapital/getTopTenStockholders"
	DefaultResultNum            = 3

	// MarketAShare is the search category of mainland A-share listings.
	MarketAShare = "A股"

	searchReferrer = "http://www.cninfo.com.cn/"
	rosterTTL      = 30 * time.Minute
)

var ErrNoShareholders = errors.New("no shareholder records")

// Listing is the value cached and reported for a listed company.
type Listing struct {
	Code         string   `json:"code"`
	Name         string   `json:"name,omitempty"`
	Shareholders []string `json:"shareholders"`
}

type Config struct {
	SearchEndpoint       string   `mapstructure:"search_endpoint"`
	ShareholdersEndpoint string   `mapstructure:"shareholders_endpoint"`
	ResultNum            int      `mapstructure:"result_num"`
	Markets              []string `mapstructure:"markets"`
}

func DefaultConfig() Config {
	return Config{
		SearchEndpoint:       DefaultSearchEndpoint,
		ShareholdersEndpoint: DefaultShareholdersEndpoint,
		ResultNum:            DefaultResultNum,
		Markets:              []string{MarketAShare},
	}
}

// Resolver looks up one company per call. Rosters are shared across calls
// by stock code, so names that match the same company fetch it once.
type Resolver struct {
	client               *webclient.Client
	searchEndpoint       string
	shareholdersEndpoint string
	resultNum            int
	markets              mapset.Set[string]

	rosters     *ttlcache.Cache[string, rosterEntry]
	rosterLoads *singleflight.Group
}

type rosterEntry struct {
	holders []string
	err     error
}

var _ lookup.Resolver[Listing] = (*Resolver)(nil)

// NewResolver builds a Resolver. When filterMarkets is false every search
// result is eligible regardless of cfg.Markets.
func NewResolver(client *webclient.Client, cfg Config, filterMarkets bool) *Resolver {
	def := DefaultConfig()
	if cfg.SearchEndpoint == "" {
		cfg.SearchEndpoint = def.SearchEndpoint
	}
	if cfg.ShareholdersEndpoint == "" {
		cfg.ShareholdersEndpoint = def.ShareholdersEndpoint
	}
	if cfg.ResultNum < 1 {
		cfg.ResultNum = def.ResultNum
	}

	var markets mapset.Set[string]
	if filterMarkets && len(cfg.Markets) > 0 {
		markets = mapset.NewSet(cfg.Markets...)
	}

	return &Resolver{
		client:               client,
		searchEndpoint:       cfg.SearchEndpoint,
		shareholdersEndpoint: cfg.ShareholdersEndpoint,
		resultNum:            cfg.ResultNum,
		markets:              markets,
		rosters: ttlcache.New[string, rosterEntry](
			ttlcache.WithTTL[string, rosterEntry](rosterTTL),
			ttlcache.WithDisableTouchOnHit[string, rosterEntry](),
		),
		rosterLoads: &singleflight.Group{},
	}
}

type searchResult struct {
	Code     string `json:"code"`
	Category string `json:"category"`
	Name     string `json:"zwjc"`
}

type shareholdersResponse struct {
	Data struct {
		Records []shareholderRecord `json:"records"`
	} `json:"data"`
}

type shareholderRecord struct {
	Date   string `json:"F001D"`
	Holder string `json:"F002V"`
}

func (r *Resolver) Resolve(ctx context.Context, name string) (Listing, error) {
	best, err := r.search(ctx, name)
	if err != nil {
		return Listing{}, err
	}

	holders, err := r.roster(ctx, best.Code)
	if err != nil {
		return Listing{}, fmt.Errorf("shareholders of %s: %w", best.Code, err)
	}

	return Listing{
		Code:         best.Code,
		Name:         best.Name,
		Shareholders: holders,
	}, nil
}

func (r *Resolver) search(ctx context.Context, name string) (searchResult, error) {
	params := url.Values{
		"keyWord": {name},
		"maxNum":  {strconv.Itoa(r.resultNum)},
	}

	var results []searchResult
	if err := r.client.PostJSON(ctx, r.searchEndpoint, params, searchReferrer, &results); err != nil {
		return searchResult{}, err
	}

	for _, res := range results {
		if r.markets != nil && !r.markets.Contains(res.Category) {
			continue
		}
		if res.Code == "" {
			continue
		}
		return res, nil
	}
	return searchResult{}, fmt.Errorf("not a listed company: %w", lookup.ErrNoRecord)
}

// roster returns the latest holders of code. Concurrent callers for the same
// code share one request; failed loads are handed to every waiter and are not
// cached.
func (r *Resolver) roster(ctx context.Context, code string) ([]string, error) {
	loader := ttlcache.LoaderFunc[string, rosterEntry](
		func(c *ttlcache.Cache[string, rosterEntry], key string) *ttlcache.Item[string, rosterEntry] {
			// A load that finished between our miss and joining the flight.
			if item := c.Get(key); item != nil {
				return item
			}
			holders, err := r.fetchRoster(ctx, key)
			if err != nil {
				item := c.Set(key, rosterEntry{err: err}, ttlcache.DefaultTTL)
				c.Delete(key)
				return item
			}
			return c.Set(key, rosterEntry{holders: holders}, ttlcache.DefaultTTL)
		})

	item := r.rosters.Get(code, ttlcache.WithLoader[string, rosterEntry](
		ttlcache.NewSuppressedLoader[string, rosterEntry](loader, r.rosterLoads)))
	if item == nil {
		return nil, ErrNoShareholders
	}
	entry := item.Value()
	return entry.holders, entry.err
}

func (r *Resolver) fetchRoster(ctx context.Context, code string) ([]string, error) {
	params := url.Values{"scode": {code}}
	referrer := "http://www.cninfo.com.cn/new/disclosure/stock?stockCode=" + url.QueryEscape(code)

	var resp shareholdersResponse
	if err := r.client.GetJSON(ctx, r.shareholdersEndpoint, params, referrer, &resp); err != nil {
		return nil, err
	}

	holders := latestHolders(resp.Data.Records)
	if len(holders) == 0 {
		return nil, ErrNoShareholders
	}
	return holders, nil
}

// latestHolders returns the holders disclosed on the most recent date, in
// response order. Dates are ISO formatted so string order is date order.
func latestHolders(records []shareholderRecord) []string {
	latest := ""
	for _, rec := range records {
		if rec.Date > latest {
			latest = rec.Date
		}
	}
	if latest == "" {
		return nil
	}

	var holders []string
	for _, rec := range records {
		if rec.Date == latest && rec.Holder != "" {
			holders = append(holders, rec.Holder)
		}
	}
	return holders
}
