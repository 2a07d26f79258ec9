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

package resultcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]string
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestOpen_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	s, err := Open[string](path)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, path, s.Path())
}

func TestOpen_CorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `{"Acme Co": "91`},
		{"empty", ``},
		{"wrong shape", `["Acme Co"]`},
		{"wrong value type", `{"Acme Co": 12}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cache.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			s, err := Open[string](path)
			require.NoError(t, err)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestOpen_NullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

	s, err := Open[string](path)
	require.NoError(t, err)
	require.NoError(t, s.Put("Acme Co", "91XXXXXXXX"))
	assert.Equal(t, 1, s.Len())
}

func TestOpen_Unreadable(t *testing.T) {
	// A directory in place of the file fails the read without being
	// "not exist", regardless of the user the test runs as.
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	_, err := Open[string](path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestOpen_ExistingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Acme Co":"91XXXXXXXX"}`), 0o644))

	s, err := Open[string](path)
	require.NoError(t, err)

	v, ok := s.Get("Acme Co")
	assert.True(t, ok)
	assert.Equal(t, "91XXXXXXXX", v)

	_, ok = s.Get("Bogus Inc")
	assert.False(t, ok)
}

func TestPut_PersistsEveryWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	s, err := Open[string](path)
	require.NoError(t, err)

	require.NoError(t, s.Put("Acme Co", "91A"))
	assert.Equal(t, map[string]string{"Acme Co": "91A"}, readEntries(t, path))

	require.NoError(t, s.Put("Globex", "91B"))
	assert.Equal(t, map[string]string{"Acme Co": "91A", "Globex": "91B"}, readEntries(t, path))

	reopened, err := Open[string](path)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".cache-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestPut_FileMode(t *testing.T) {
	dir := t.TempDir()

	fresh := filepath.Join(dir, "fresh.json")
	s, err := Open[string](fresh)
	require.NoError(t, err)
	require.NoError(t, s.Put("Acme Co", "91A"))

	st, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), st.Mode().Perm())

	private := filepath.Join(dir, "private.json")
	require.NoError(t, os.WriteFile(private, []byte(`{}`), 0o600))
	require.NoError(t, os.Chmod(private, 0o600))
	s, err = Open[string](private)
	require.NoError(t, err)
	require.NoError(t, s.Put("Acme Co", "91A"))

	st, err = os.Stat(private)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())
}

func TestPut_StructValues(t *testing.T) {
	type listing struct {
		Code         string   `json:"code"`
		Shareholders []string `json:"shareholders"`
	}
	path := filepath.Join(t.TempDir(), "cache.json")
	s, err := Open[listing](path)
	require.NoError(t, err)

	want := listing{Code: "000001", Shareholders: []string{"a", "b"}}
	require.NoError(t, s.Put("Ping An Bank", want))

	reopened, err := Open[listing](path)
	require.NoError(t, err)
	got, ok := reopened.Get("Ping An Bank")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestPut_WriteFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.Mkdir(dir, 0o755))
	s, err := Open[string](filepath.Join(dir, "cache.json"))
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))

	err = s.Put("Acme Co", "91A")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSaveFailed)

	v, ok := s.Get("Acme Co")
	assert.True(t, ok)
	assert.Equal(t, "91A", v)
}

func TestPut_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	s, err := Open[string](path)
	require.NoError(t, err)

	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, k := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Put(k, "v-"+k))
		}()
	}
	wg.Wait()

	got := readEntries(t, path)
	assert.Len(t, got, len(keys))
	for _, k := range keys {
		assert.Equal(t, "v-"+k, got[k])
	}
}
