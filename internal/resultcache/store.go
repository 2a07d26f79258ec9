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

// Package resultcache persists resolved lookup values keyed by query name
// in a single JSON object file.
//
// The file is a pure performance optimization. A missing or unparseable file
// is treated as a cold start, while any other I/O failure is reported to the
// caller.
package resultcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const fileMode os.FileMode = 0o644

var (
	ErrLoadFailed = errors.New("cache load failed")
	ErrSaveFailed = errors.New("cache save failed")
)

// Store is a name to value mapping backed by one JSON file.
// It is safe for concurrent use.
type Store[V any] struct {
	path string

	mu      sync.RWMutex
	entries map[string]V
}

// Open reads the cache file at path.
func Open[V any](path string) (*Store[V], error) {
	s := &Store[V]{
		path:    path,
		entries: map[string]V{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, err)
	}

	var entries map[string]V
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("Ignoring unreadable cache file",
			slog.String("path", path),
			slog.Any("error", err))
		return s, nil
	}
	if entries != nil {
		s.entries = entries
	}
	return s, nil
}

func (s *Store[V]) Path() string {
	return s.path
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Put records value under key and rewrites the whole file before returning.
// The in-memory entry is kept even when the write fails.
func (s *Store[V]) Put(key string, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value

	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, key, err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, key, err)
	}
	return nil
}

// writeFileAtomic writes through a temp file in the target directory so a
// crash mid-write never leaves a truncated cache behind. The file keeps the
// permissions of the one it replaces, or fileMode when it is new.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	mode := fileMode
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, ".cache-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
