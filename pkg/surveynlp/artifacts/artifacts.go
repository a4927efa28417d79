// Package artifacts writes a run's output files all-or-none.
package artifacts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type entry struct {
	dir  string
	name string
	data []byte
}

// Batch collects rendered files in memory until Commit.
type Batch struct {
	entries []entry
	seen    map[string]bool
	mode    fs.FileMode
}

// NewBatch creates an empty batch writing files with mode 0644.
func NewBatch() *Batch {
	return &Batch{seen: make(map[string]bool), mode: 0o644}
}

// Add renders one file into the batch. Nothing touches the disk until Commit.
func (b *Batch) Add(dir, name string, write func(io.Writer) error) error {
	path := filepath.Join(dir, name)
	if b.seen[path] {
		return fmt.Errorf("artifact %s added twice", path)
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	b.seen[path] = true
	b.entries = append(b.entries, entry{dir: dir, name: name, data: buf.Bytes()})
	return nil
}

// Len returns the number of files in the batch.
func (b *Batch) Len() int { return len(b.entries) }

// Paths returns the final path of every file, in insertion order.
func (b *Batch) Paths() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = filepath.Join(e.dir, e.name)
	}
	return out
}

// Commit writes every file to a temporary sibling first and renames them
// into place only when all were written. Existing targets are moved aside
// and restored if any rename fails, so on failure no final file is created
// or replaced.
func (b *Batch) Commit() ([]string, error) {
	paths := b.Paths()
	for _, p := range paths {
		info, err := os.Lstat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", p, err)
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("commit %s: target is not a regular file", p)
		}
	}

	temps := make([]string, 0, len(b.entries))
	cleanup := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}
	for _, e := range b.entries {
		tmp, err := stage(e, b.mode)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("stage %s: %w", filepath.Join(e.dir, e.name), err)
		}
		temps = append(temps, tmp)
	}

	// backups[i] holds the previous content of paths[i], if there was any.
	backups := make([]string, len(paths))
	committed := 0
	rollback := func() {
		for i := committed - 1; i >= 0; i-- {
			_ = os.Remove(paths[i])
		}
		for i, bak := range backups {
			if bak != "" {
				_ = os.Rename(bak, paths[i])
			}
		}
		cleanup()
	}

	for i, p := range paths {
		if _, err := os.Lstat(p); err == nil {
			bak := temps[i] + ".bak"
			if err := os.Rename(p, bak); err != nil {
				rollback()
				return nil, fmt.Errorf("back up %s: %w", p, err)
			}
			backups[i] = bak
		}
		if err := os.Rename(temps[i], p); err != nil {
			rollback()
			return nil, fmt.Errorf("commit %s: %w", p, err)
		}
		committed = i + 1
	}
	for _, bak := range backups {
		if bak != "" {
			_ = os.Remove(bak)
		}
	}
	return paths, nil
}

func stage(e entry, mode fs.FileMode) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(e.dir, ".tmp_"+e.name+"_*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	fail := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", err
	}

	if err := tmp.Chmod(mode); err != nil {
		return fail(err)
	}
	if _, err := tmp.Write(e.data); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	return tmpName, nil
}

// Write commits a single file atomically.
func Write(path string, write func(io.Writer) error) error {
	b := NewBatch()
	if err := b.Add(filepath.Dir(path), filepath.Base(path), write); err != nil {
		return err
	}
	_, err := b.Commit()
	return err
}
