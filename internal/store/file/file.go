// Package file stores each key as a JSON document in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"fintrack/internal/store"
)

type Backend struct {
	dir string
}

var (
	_ store.Backend    = (*Backend)(nil)
	_ store.BatchSaver = (*Backend)(nil)
)

// New returns a backend rooted at dir, creating it when missing.
func New(dir string) (*Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Backend{dir: dir}, nil
}

// Dir returns the data directory.
func (b *Backend) Dir() string { return b.dir }

func (b *Backend) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(b.dir, key+".json"), nil
}

func (b *Backend) Load(_ context.Context, key string) ([]byte, bool, error) {
	p, err := b.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Save writes to a temporary file and renames it over the old value, so
// readers never see a half written document.
func (b *Backend) Save(_ context.Context, key string, value []byte) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	tmp, err := b.writeTemp(key, value)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// SaveBatch stages every value in a temporary file before renaming any of
// them, so a failed write leaves all documents as they were. A nil value
// removes the key.
func (b *Backend) SaveBatch(_ context.Context, values map[string][]byte) error {
	type staged struct{ tmp, dst string }
	var (
		writes  []staged
		removes []string
	)
	discard := func() {
		for _, w := range writes {
			os.Remove(w.tmp)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(values)) {
		p, err := b.path(key)
		if err != nil {
			discard()
			return err
		}
		if values[key] == nil {
			removes = append(removes, p)
			continue
		}
		tmp, err := b.writeTemp(key, values[key])
		if err != nil {
			discard()
			return err
		}
		writes = append(writes, staged{tmp: tmp, dst: p})
	}

	for i, w := range writes {
		if err := os.Rename(w.tmp, w.dst); err != nil {
			for _, rest := range writes[i:] {
				os.Remove(rest.tmp)
			}
			return fmt.Errorf("rename %s: %w", filepath.Base(w.dst), err)
		}
	}
	for _, p := range removes {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", filepath.Base(p), err)
		}
	}
	return nil
}

func (b *Backend) writeTemp(key string, value []byte) (string, error) {
	tmp, err := os.CreateTemp(b.dir, "."+key+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close %s: %w", key, err)
	}
	return tmp.Name(), nil
}

func (b *Backend) Remove(_ context.Context, key string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
