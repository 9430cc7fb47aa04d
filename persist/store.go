// Package persist stores documents as JSON files and spreadsheets in a folder.
package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store reads and writes named documents in a directory.
//
// Names have no extension: "portfolio_summary" is written as
// "portfolio_summary.json" and "portfolio_summary.xlsx".
type Store struct {
	Dir string
	// ReplaceExisting overwrites files. Otherwise each write goes to a new
	// file suffixed with the current time in epoch milliseconds.
	ReplaceExisting bool
	Now             func() time.Time // defaults to time.Now
}

// New returns a store in dir.
func New(dir string, replaceExisting bool) *Store {
	return &Store{Dir: dir, ReplaceExisting: replaceExisting}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// path returns the file to write for name and ext.
func (s *Store) path(name, ext string) string {
	if !s.ReplaceExisting {
		name = fmt.Sprintf("%s_%d", name, s.now().UnixMilli())
	}
	return filepath.Join(s.Dir, name+ext)
}

// latest returns the most recent version of name: the file written in place
// or one of the suffixed files, whichever is newer.
func (s *Store) latest(name, ext string) string {
	file := filepath.Join(s.Dir, name+ext)
	var newest int64 = -1
	if fi, err := os.Stat(file); err == nil {
		newest = fi.ModTime().UnixMilli()
	}
	matches, _ := filepath.Glob(filepath.Join(s.Dir, name+"_*"+ext))
	for _, m := range matches {
		suffix := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), name+"_"), ext)
		ms, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil {
			continue
		}
		if ms > newest {
			file, newest = m, ms
		}
	}
	return file
}

// ReadJSON decodes the most recent version of the named JSON document into v.
// The returned error wraps fs.ErrNotExist when there is no such document.
func (s *Store) ReadJSON(name string, v any) error {
	file := s.latest(name, ".json")
	content, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	log.Printf("Reading from JSON file: %q", file)
	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("cannot decode %q: %w", file, err)
	}
	return nil
}

// WriteJSON writes v as an indented JSON document.
func (s *Store) WriteJSON(name string, v any) (string, error) {
	return writeJSON(s.path(name, ".json"), v)
}

// ReplaceJSON writes v as the named JSON document, replacing the previous one
// whatever ReplaceExisting says.
func (s *Store) ReplaceJSON(name string, v any) (string, error) {
	return writeJSON(filepath.Join(s.Dir, name+".json"), v)
}

func writeJSON(file string, v any) (string, error) {
	content, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", fmt.Errorf("cannot encode %q: %w", file, err)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return "", err
	}
	if err := writeFile(file, append(content, '\n')); err != nil {
		return "", err
	}
	return file, nil
}

// writeFile replaces file atomically.
func writeFile(file string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), file)
}
