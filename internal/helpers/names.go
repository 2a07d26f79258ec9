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

package helpers

import "strings"

// SplitNames splits text on sep into trimmed, non-empty names, keeping
// duplicates and input order. An empty sep splits on newlines.
// Windows line endings are tolerated for the newline separator.
func SplitNames(text, sep string) []string {
	if sep == "" {
		sep = "\n"
	}
	if sep == "\n" {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}

	parts := strings.Split(text, sep)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
