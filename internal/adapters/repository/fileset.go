package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/steelesean/Design-Automation/pkg/logger"
)

const outputFileMode = 0o644

type stagedFile struct {
	path string
	data []byte
}

// FileSet collects rendered outputs in memory and writes them together.
// Nothing reaches the target paths until every file has been written to a
// temporary sibling, and targets replaced before a failed rename are
// restored, so a failed commit leaves previous outputs untouched.
type FileSet struct {
	files []stagedFile
	opts  options
}

// NewFileSet creates an empty file set.
func NewFileSet(opts ...Option) *FileSet {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &FileSet{opts: o}
}

// Stage queues data for path. Staging the same path twice keeps the last data.
func (s *FileSet) Stage(path string, data []byte) {
	for i := range s.files {
		if s.files[i].path == path {
			s.files[i].data = data
			return
		}
	}
	s.files = append(s.files, stagedFile{path: path, data: data})
}

// Paths returns the staged paths in staging order.
func (s *FileSet) Paths() []string {
	out := make([]string, len(s.files))
	for i, f := range s.files {
		out[i] = f.path
	}
	return out
}

// Commit writes every staged file, creating parent directories as needed.
// Existing targets are moved aside before being replaced and put back when a
// later rename fails.
func (s *FileSet) Commit(ctx context.Context) error {
	temps := make([]string, 0, len(s.files))
	cleanup := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}

	for _, f := range s.files {
		if err := ctx.Err(); err != nil {
			cleanup()
			return err
		}
		tmp, err := writeTemp(f)
		if err != nil {
			cleanup()
			return fmt.Errorf("%w: %s: %w", ErrCommit, f.path, err)
		}
		temps = append(temps, tmp)
	}

	replaced := make([]replacement, 0, len(s.files))
	for i, f := range s.files {
		r, err := replace(temps[i], f.path)
		if err != nil {
			cleanup()
			rollback(replaced)
			return fmt.Errorf("%w: %s: %w", ErrCommit, f.path, err)
		}
		replaced = append(replaced, r)
	}

	for i, r := range replaced {
		if r.backup != "" {
			_ = os.Remove(r.backup)
		}
		s.opts.logger.Debug(ctx, "output written", logger.String("path", r.path), logger.Int("bytes", len(s.files[i].data)))
	}
	return nil
}

// replacement records a target swapped in by Commit and the previous file it
// displaced, if any.
type replacement struct {
	path   string
	backup string
}

// replace renames tmp onto path. A regular file already at path is first
// moved to a backup sibling, and moved back if the rename fails.
func replace(tmp, path string) (replacement, error) {
	r := replacement{path: path}
	if fi, err := os.Lstat(path); err == nil && fi.Mode().IsRegular() {
		backup, err := reserveSibling(path, ".bak")
		if err != nil {
			return r, err
		}
		if err := os.Rename(path, backup); err != nil {
			_ = os.Remove(backup)
			return r, err
		}
		r.backup = backup
	}
	if err := os.Rename(tmp, path); err != nil {
		if r.backup != "" {
			_ = os.Rename(r.backup, path)
		}
		return r, err
	}
	return r, nil
}

// rollback undoes replacements in reverse order.
func rollback(replaced []replacement) {
	for i := len(replaced) - 1; i >= 0; i-- {
		r := replaced[i]
		if r.backup == "" {
			_ = os.Remove(r.path)
			continue
		}
		_ = os.Rename(r.backup, r.path)
	}
}

// reserveSibling creates an empty hidden file next to path and returns its name.
func reserveSibling(path, suffix string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*"+suffix)
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func writeTemp(f stagedFile) (path string, err error) {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	_, werr := tmp.Write(f.data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), outputFileMode); err != nil {
		return "", err
	}
	return tmp.Name(), nil
}
