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

import "time"

const (
	DefaultConcurrency = 8
	DefaultTimeout     = 30 * time.Second
)

// Config holds the batch settings that come from configuration.
type Config struct {
	// Concurrency caps the number of resolver calls in flight.
	Concurrency int `mapstructure:"concurrency"`
	// Timeout bounds each resolver call. Zero disables the limit.
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() Config {
	return Config{
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
	}
}

// Options controls one engine run.
type Options struct {
	Config

	ReadCache  bool
	WriteCache bool
}

func (o Options) concurrency() int {
	if o.Concurrency < 1 {
		return DefaultConcurrency
	}
	return o.Concurrency
}
