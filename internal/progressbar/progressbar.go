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

// Package progressbar renders batch progress on the terminal.
package progressbar

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

const (
	trackerLength   = 40
	updateFrequency = 100 * time.Millisecond
)

// Bar counts completed keys against a known total. Increment is safe for
// concurrent use.
type Bar struct {
	writer  progress.Writer
	tracker *progress.Tracker
}

// New starts rendering a bar for total items to out.
func New(out io.Writer, total int, message string) *Bar {
	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(trackerLength)
	pw.SetUpdateFrequency(updateFrequency)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Value = true

	tracker := &progress.Tracker{
		Message: message,
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	pw.AppendTracker(tracker)

	go pw.Render()
	// Stop is a no-op until rendering has begun.
	for !pw.IsRenderInProgress() {
		time.Sleep(time.Millisecond)
	}

	return &Bar{writer: pw, tracker: tracker}
}

func (b *Bar) Increment() {
	b.tracker.Increment(1)
}

// Stop marks the bar done and waits for the final frame to be drawn.
func (b *Bar) Stop() {
	b.tracker.MarkAsDone()
	b.writer.Stop()
	for b.writer.IsRenderInProgress() {
		time.Sleep(updateFrequency / 10)
	}
}

// Noop discards progress. It is used for quiet runs.
type Noop struct{}

func (Noop) Increment() {}

func (Noop) Stop() {}
