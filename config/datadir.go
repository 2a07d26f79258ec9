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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	CreditCodeCacheFile = "tyxxm-cache.json"
	CNInfoCacheFile     = "cninfo-cache.json"
)

var (
	ErrDataDirMissing = errors.New("data directory does not exist")
	ErrDataDirNotDir  = errors.New("data directory is not a directory")
)

// CheckDataDir verifies that the data directory exists and is a directory.
// The directory is never created implicitly.
func (c *Config) CheckDataDir() error {
	st, err := os.Stat(c.DataDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s, set %s_DATA to choose another one", ErrDataDirMissing, c.DataDir, envPrefix)
		}
		return fmt.Errorf("open data directory %s: %w", c.DataDir, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%w: %s, set %s_DATA to choose another one", ErrDataDirNotDir, c.DataDir, envPrefix)
	}
	return nil
}

// CachePath returns the path of a cache file inside the data directory.
func (c *Config) CachePath(name string) string {
	return filepath.Join(c.DataDir, name)
}
