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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/cgd/internal/lookup"
	"github.com/cardinalhq/cgd/internal/resolver/cninfo"
	"github.com/cardinalhq/cgd/internal/resolver/creditcode"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("CGD_DATA", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/home/tester", "cgd"), cfg.DataDir)
	assert.Equal(t, lookup.DefaultConcurrency, cfg.Batch.Concurrency)
	assert.Equal(t, lookup.DefaultTimeout, cfg.Batch.Timeout)
	assert.Equal(t, creditcode.DefaultEndpoint, cfg.CreditChina.Endpoint)
	assert.Equal(t, cninfo.DefaultResultNum, cfg.CNInfo.ResultNum)
	assert.Equal(t, []string{cninfo.MarketAShare}, cfg.CNInfo.Markets)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CGD_DATA", "/srv/cgd")
	t.Setenv("CGD_BATCH_CONCURRENCY", "32")
	t.Setenv("CGD_BATCH_TIMEOUT", "45s")
	t.Setenv("CGD_HTTP_USER_AGENT", "cgd-test")
	t.Setenv("CGD_CREDITCHINA_ENDPOINT", "http://127.0.0.1:9000/search")
	t.Setenv("CGD_CNINFO_RESULT_NUM", "10")
	t.Setenv("CGD_CNINFO_MARKETS", "A股,B股")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/cgd", cfg.DataDir)
	assert.Equal(t, 32, cfg.Batch.Concurrency)
	assert.Equal(t, 45*time.Second, cfg.Batch.Timeout)
	assert.Equal(t, "cgd-test", cfg.HTTP.UserAgent)
	assert.Equal(t, "http://127.0.0.1:9000/search", cfg.CreditChina.Endpoint)
	assert.Equal(t, 10, cfg.CNInfo.ResultNum)
	assert.Equal(t, []string{"A股", "B股"}, cfg.CNInfo.Markets)
}

func TestCheckDataDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name    string
		dataDir string
		wantErr error
	}{
		{"exists", dir, nil},
		{"missing", filepath.Join(dir, "missing"), ErrDataDirMissing},
		{"file", file, ErrDataDirNotDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DataDir: tt.dataDir}
			err := cfg.CheckDataDir()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckDataDir_MentionsEnvVar(t *testing.T) {
	cfg := &Config{DataDir: filepath.Join(t.TempDir(), "missing")}
	err := cfg.CheckDataDir()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CGD_DATA")
}

func TestCachePath(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	assert.Equal(t, filepath.Join("/data", CreditCodeCacheFile), cfg.CachePath(CreditCodeCacheFile))
}
