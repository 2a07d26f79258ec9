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

package idgen

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/sony/sonyflake"
)

// InstanceIDs hands out process instance IDs for log and metric attributes.
var InstanceIDs *FlakeGenerator

func init() {
	var err error
	InstanceIDs, err = NewFlakeGenerator()
	if err != nil {
		panic(err)
	}
}

type FlakeGenerator struct {
	sf *sonyflake.Sonyflake
}

func NewFlakeGenerator() (*FlakeGenerator, error) {
	sf, err := sonyflake.New(sonyflake.Settings{
		StartTime: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		// No private IPv4 on most workstations; any machine ID is fine for
		// a single CLI process.
		MachineID: func() (uint16, error) {
			return uint16(rand.N(1 << 16)), nil
		},
	})
	if err != nil {
		return nil, err
	}
	if sf == nil {
		return nil, errors.New("failed to create Sonyflake instance")
	}
	return &FlakeGenerator{sf: sf}, nil
}

// NextID returns a positive int64 that increases roughly in time order.
func (g *FlakeGenerator) NextID() int64 {
	v, err := g.sf.NextID()
	if err != nil {
		return rand.Int64()
	}
	return int64(v)
}
