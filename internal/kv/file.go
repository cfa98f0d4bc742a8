package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rsharma2005/civicbridge/internal/filex"
)

// FileKV implements KV on top of a directory, one file per key. Writes go
// through a temp file and an atomic rename so a crash mid-write never leaves
// a torn value behind.
type FileKV struct {
	dir string
}

// NewFileKV opens (creating if needed) a file-backed KV rooted at dir.
func NewFileKV(dir string) (*FileKV, error) {
	d, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("kv dir: %w", err)
	}
	return &FileKV{dir: d}, nil
}

func (f *FileKV) path(key string) (string, error) {
	// Keys double as file names; reject anything that could escape the dir.
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key), nil
}

func (f *FileKV) Get(key string) (string, bool, error) {
	p, err := f.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *FileKV) Set(key, value string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}

	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Remove(key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
