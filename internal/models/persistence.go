package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const ledgerFile = "ledger.yaml"

// ErrNoSave is returned when a named save does not exist.
var ErrNoSave = errors.New("save not found")

// Store keeps named save slots as YAML snapshots under a directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Save(name string, l *Ledger) error {
	dir, err := s.slot(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := Serialize(l)
	if err != nil {
		return err
	}

	// Write then rename so a crash never leaves a half-written save.
	tmp := filepath.Join(dir, ledgerFile+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, ledgerFile))
}

func (s *Store) Load(name string) (*Ledger, error) {
	dir, err := s.slot(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, ledgerFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoSave, name)
	}
	if err != nil {
		return nil, err
	}

	l, err := Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return l, nil
}

func (s *Store) Delete(name string) error {
	dir, err := s.slot(name)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

func (s *Store) List() ([]string, error) {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var saves []string
	for _, entry := range entries {
		if entry.IsDir() {
			// ledger.yaml marks a usable slot
			p := filepath.Join(s.dir, entry.Name(), ledgerFile)
			if _, err := os.Stat(p); err == nil {
				saves = append(saves, entry.Name())
			}
		}
	}
	sort.Strings(saves)
	return saves, nil
}

func (s *Store) slot(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid save name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
