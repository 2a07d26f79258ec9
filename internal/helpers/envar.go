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

import (
	"os"
	"strings"
)

// GetBoolEnv reads a boolean environment variable.
// "true", "1", "yes", "on", "enable" and "enabled" are true, their opposites
// are false (case insensitive). An unset or empty variable yields
// defaultValue, and any other non-empty value counts as true.
func GetBoolEnv(envVar string, defaultValue bool) bool {
	v, ok := parseBoolEnv(envVar)
	if !ok {
		return defaultValue
	}
	return v
}

// AnyBoolEnv reports whether any of envVars is set to a true value.
// Unset variables are skipped.
func AnyBoolEnv(envVars ...string) bool {
	for _, envVar := range envVars {
		if v, ok := parseBoolEnv(envVar); ok && v {
			return true
		}
	}
	return false
}

func parseBoolEnv(envVar string) (value bool, set bool) {
	env := strings.ToLower(strings.TrimSpace(os.Getenv(envVar)))

	switch env {
	case "":
		return false, false
	case "false", "0", "no", "off", "disable", "disabled":
		return false, true
	default:
		return true, true
	}
}
